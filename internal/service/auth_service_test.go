package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
	"github.com/ossi-austria/amigo-server-sub000/internal/store"
)

func newAuthService(t *testing.T, f *fixture) (AuthService, JwtService, store.KV) {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	jwt := NewJwtService(testJwtConfig())
	return NewAuthService(f.accounts, f.persons, f.groups, f.tokens, jwt, kv, f.log), jwt, kv
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	auth, jwt, _ := newAuthService(t, f)
	ctx := context.Background()

	account, err := auth.Register(ctx, RegisterRequest{
		Email:      "a@example.com",
		Password:   "password1",
		PersonName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", account.Email)

	pair, err := auth.Login(ctx, "a@example.com", "password1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := jwt.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Subject)
	assert.Equal(t, account.AccountID, claims.AccountID)
	assert.Len(t, claims.PersonIDs, 1)

	// Registration created the default group with an OWNER person.
	groups, err := f.groups.FindGroupsForAccount(ctx, account.AccountID, "")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	owner, ok := groups[0].Owner()
	require.True(t, ok)
	assert.Equal(t, "Alice", owner.Name)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture()
	auth, _, _ := newAuthService(t, f)
	ctx := context.Background()

	_, err := auth.Register(ctx, RegisterRequest{Email: "not-an-email", Password: "password1", PersonName: "A"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = auth.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "short", PersonName: "A"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = auth.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "password1", PersonName: ""})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture()
	auth, _, _ := newAuthService(t, f)
	ctx := context.Background()

	_, err := auth.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "password1", PersonName: "Alice"})
	require.NoError(t, err)

	_, err = auth.Register(ctx, RegisterRequest{Email: "A@Example.com", Password: "password2", PersonName: "Alias"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

// brokenGroupsRepo fails every group insert.
type brokenGroupsRepo struct {
	*repository.MemoryGroupsRepo
}

func (brokenGroupsRepo) CreateGroup(context.Context, *domain.Group) (string, error) {
	return "", errors.New("groups unavailable")
}

func TestRegisterRollsBackAccountOnFailure(t *testing.T) {
	f := newFixture()
	mr := miniredis.RunT(t)
	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	jwt := NewJwtService(testJwtConfig())
	broken := NewAuthService(f.accounts, f.persons, brokenGroupsRepo{f.groups}, f.tokens, jwt, kv, f.log)
	ctx := context.Background()

	req := RegisterRequest{Email: "a@example.com", Password: "password1", PersonName: "Alice"}
	_, err := broken.Register(ctx, req)
	require.Error(t, err)

	// The half-created account was removed, so the email can register again.
	_, err = f.accounts.GetAccountByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	auth, _, _ := newAuthService(t, f)
	_, err = auth.Register(ctx, req)
	require.NoError(t, err)
}

func TestLoginBadCredentials(t *testing.T) {
	f := newFixture()
	auth, _, _ := newAuthService(t, f)
	ctx := context.Background()

	_, err := auth.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "password1", PersonName: "Alice"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, "a@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrBadCredential)

	_, err = auth.Login(ctx, "unknown@example.com", "password1")
	assert.ErrorIs(t, err, apperr.ErrBadCredential)
}

func TestRefreshToken(t *testing.T) {
	f := newFixture()
	auth, jwt, _ := newAuthService(t, f)
	ctx := context.Background()

	_, err := auth.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "password1", PersonName: "Alice"})
	require.NoError(t, err)
	pair, err := auth.Login(ctx, "a@example.com", "password1")
	require.NoError(t, err)

	access, err := auth.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	claims, err := jwt.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Subject)

	// An access token is not a refresh token.
	_, err = auth.RefreshToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture()
	auth, _, kv := newAuthService(t, f)
	ctx := context.Background()

	_, err := auth.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "password1", PersonName: "Alice"})
	require.NoError(t, err)

	require.NoError(t, auth.RequestPasswordReset(ctx, "a@example.com"))
	code, err := kv.Get(ctx, "pwreset:a@example.com")
	require.NoError(t, err)

	require.NoError(t, auth.ResetPassword(ctx, "a@example.com", code, "password2"))

	_, err = auth.Login(ctx, "a@example.com", "password1")
	assert.ErrorIs(t, err, apperr.ErrBadCredential)
	_, err = auth.Login(ctx, "a@example.com", "password2")
	assert.NoError(t, err)

	// The code is single use.
	err = auth.ResetPassword(ctx, "a@example.com", code, "password3")
	assert.ErrorIs(t, err, apperr.ErrBadCredential)
}

func TestPasswordResetUnknownEmailSucceeds(t *testing.T) {
	f := newFixture()
	auth, _, _ := newAuthService(t, f)

	assert.NoError(t, auth.RequestPasswordReset(context.Background(), "nobody@example.com"))
}

func TestSetFcmToken(t *testing.T) {
	f := newFixture()
	auth, _, _ := newAuthService(t, f)
	ctx := context.Background()

	account, err := auth.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "password1", PersonName: "Alice"})
	require.NoError(t, err)

	require.NoError(t, auth.SetFcmToken(ctx, account.AccountID, "device-token"))
	stored, err := f.accounts.GetAccount(ctx, account.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "device-token", stored.FcmToken.String)
}
