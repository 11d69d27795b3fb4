package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/config"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
)

// fixture wires the in-memory repositories shared by the service tests.
type fixture struct {
	accounts *repository.MemoryAccountsRepo
	persons  *repository.MemoryPersonsRepo
	groups   *repository.MemoryGroupsRepo
	tokens   *repository.MemoryLoginTokensRepo
	log      *zap.Logger
}

func newFixture() *fixture {
	persons := repository.NewMemoryPersonsRepo()
	return &fixture{
		accounts: repository.NewMemoryAccountsRepo(),
		persons:  persons,
		groups:   repository.NewMemoryGroupsRepo(persons),
		tokens:   repository.NewMemoryLoginTokensRepo(),
		log:      zap.NewNop(),
	}
}

func testJwtConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "amigo-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func testJitsiService() JitsiJwtService {
	return NewJitsiJwtService(config.JitsiConfig{
		Host:   "meet.test",
		AppID:  "amigo",
		Secret: "jitsi-secret",
		TTL:    time.Hour,
	})
}

func (f *fixture) addAccount(t *testing.T, email string) *domain.Account {
	t.Helper()
	account := &domain.Account{
		AccountID:    uuid.NewString(),
		Email:        email,
		PasswordHash: []byte("irrelevant"),
		CreatedAt:    time.Now().UTC(),
	}
	_, err := f.accounts.CreateAccount(context.Background(), account)
	require.NoError(t, err)
	return account
}

func (f *fixture) addGroup(t *testing.T, name string) string {
	t.Helper()
	id, err := f.groups.CreateGroup(context.Background(), &domain.Group{Name: name, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	return id
}

func (f *fixture) addPerson(t *testing.T, accountID, groupID, name string, role domain.MembershipType) domain.Person {
	t.Helper()
	person := domain.Person{Name: name, GroupID: groupID, MemberType: role}
	if accountID != "" {
		person.AccountID = sql.NullString{String: accountID, Valid: true}
	}
	id, err := f.persons.CreatePerson(context.Background(), &person)
	require.NoError(t, err)
	person.PersonID = id
	return person
}

// fakeNotifier records pushes and answers with a fixed result.
type fakeNotifier struct {
	ok     bool
	tokens []string
}

func (n *fakeNotifier) Send(_ context.Context, token string, _ map[string]string) bool {
	n.tokens = append(n.tokens, token)
	return n.ok
}

// withFcmToken registers a device token on the account so pushes reach it.
func (f *fixture) withFcmToken(t *testing.T, account *domain.Account, token string) {
	t.Helper()
	updated := account.WithFcmToken(token)
	require.NoError(t, f.accounts.UpdateAccount(context.Background(), &updated))
}
