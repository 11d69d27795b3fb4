package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// In-memory repositories. They back the service tests and local development
// without a database; behavior mirrors the postgres implementations.

// --- Accounts ---

type MemoryAccountsRepo struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

func NewMemoryAccountsRepo() *MemoryAccountsRepo {
	return &MemoryAccountsRepo{accounts: map[string]domain.Account{}}
}

var _ AccountsRepository = (*MemoryAccountsRepo)(nil)

func (r *MemoryAccountsRepo) GetAccount(_ context.Context, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryAccountsRepo) GetAccountByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			a := a
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAccountsRepo) CreateAccount(_ context.Context, account *domain.Account) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return "", ErrDuplicate
		}
	}
	id := account.AccountID
	if id == "" {
		id = uuid.NewString()
	}
	a := *account
	a.AccountID = id
	r.accounts[id] = a
	return id, nil
}

func (r *MemoryAccountsRepo) UpdateAccount(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.AccountID]; !ok {
		return ErrNotFound
	}
	r.accounts[account.AccountID] = *account
	return nil
}

func (r *MemoryAccountsRepo) DeleteAccount(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[accountID]; !ok {
		return ErrNotFound
	}
	delete(r.accounts, accountID)
	return nil
}

func (r *MemoryAccountsRepo) CountAccounts(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts), nil
}

// --- Login tokens ---

type MemoryLoginTokensRepo struct {
	mu     sync.RWMutex
	tokens map[string]domain.LoginToken // keyed by token string
}

func NewMemoryLoginTokensRepo() *MemoryLoginTokensRepo {
	return &MemoryLoginTokensRepo{tokens: map[string]domain.LoginToken{}}
}

var _ LoginTokensRepository = (*MemoryLoginTokensRepo)(nil)

func (r *MemoryLoginTokensRepo) CreateLoginToken(_ context.Context, token *domain.LoginToken) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := token.TokenID
	if id == "" {
		id = uuid.NewString()
	}
	t := *token
	t.TokenID = id
	r.tokens[t.Token] = t
	return id, nil
}

func (r *MemoryLoginTokensRepo) GetLoginToken(_ context.Context, token string) (*domain.LoginToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r *MemoryLoginTokensRepo) DeleteLoginTokensForAccount(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.AccountID == accountID {
			delete(r.tokens, k)
		}
	}
	return nil
}

// --- Persons ---

type MemoryPersonsRepo struct {
	mu      sync.RWMutex
	persons map[string]domain.Person
}

func NewMemoryPersonsRepo() *MemoryPersonsRepo {
	return &MemoryPersonsRepo{persons: map[string]domain.Person{}}
}

var _ PersonsRepository = (*MemoryPersonsRepo)(nil)

func (r *MemoryPersonsRepo) GetPerson(_ context.Context, personID string) (*domain.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.persons[personID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryPersonsRepo) findPersons(match func(domain.Person) bool) []domain.Person {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Person
	for _, p := range r.persons {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *MemoryPersonsRepo) FindPersonsByAccount(_ context.Context, accountID string) ([]domain.Person, error) {
	return r.findPersons(func(p domain.Person) bool {
		return p.AccountID.Valid && p.AccountID.String == accountID
	}), nil
}

func (r *MemoryPersonsRepo) FindPersonsByGroup(_ context.Context, groupID string) ([]domain.Person, error) {
	return r.findPersons(func(p domain.Person) bool { return p.GroupID == groupID }), nil
}

func (r *MemoryPersonsRepo) CreatePerson(_ context.Context, person *domain.Person) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.persons {
		if p.GroupID == person.GroupID && p.Name == person.Name {
			return "", ErrDuplicate
		}
	}
	id := person.PersonID
	if id == "" {
		id = uuid.NewString()
	}
	p := *person
	p.PersonID = id
	r.persons[id] = p
	return id, nil
}

func (r *MemoryPersonsRepo) UpdatePerson(_ context.Context, person *domain.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.persons[person.PersonID]; !ok {
		return ErrNotFound
	}
	r.persons[person.PersonID] = *person
	return nil
}

func (r *MemoryPersonsRepo) DeletePerson(_ context.Context, personID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.persons[personID]; !ok {
		return ErrNotFound
	}
	delete(r.persons, personID)
	return nil
}

func (r *MemoryPersonsRepo) CountPersons(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.persons), nil
}

// --- Groups ---

type MemoryGroupsRepo struct {
	mu      sync.RWMutex
	groups  map[string]domain.Group
	persons *MemoryPersonsRepo
}

func NewMemoryGroupsRepo(persons *MemoryPersonsRepo) *MemoryGroupsRepo {
	return &MemoryGroupsRepo{groups: map[string]domain.Group{}, persons: persons}
}

var _ GroupsRepository = (*MemoryGroupsRepo)(nil)

func (r *MemoryGroupsRepo) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	r.mu.RLock()
	g, ok := r.groups[groupID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	members, _ := r.persons.FindPersonsByGroup(ctx, groupID)
	g.Members = members
	return &g, nil
}

func (r *MemoryGroupsRepo) FindGroupsForAccount(ctx context.Context, accountID string, name string) ([]domain.Group, error) {
	mine, _ := r.persons.FindPersonsByAccount(ctx, accountID)
	seen := map[string]bool{}
	var out []domain.Group
	for _, p := range mine {
		if seen[p.GroupID] {
			continue
		}
		seen[p.GroupID] = true
		g, err := r.GetGroup(ctx, p.GroupID)
		if err != nil {
			continue
		}
		if name != "" && g.Name != name {
			continue
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryGroupsRepo) CreateGroup(_ context.Context, group *domain.Group) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := group.GroupID
	if id == "" {
		id = uuid.NewString()
	}
	g := *group
	g.GroupID = id
	g.Members = nil
	r.groups[id] = g
	return id, nil
}

func (r *MemoryGroupsRepo) UpdateGroup(_ context.Context, group *domain.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[group.GroupID]
	if !ok {
		return ErrNotFound
	}
	g.Name = group.Name
	r.groups[group.GroupID] = g
	return nil
}

func (r *MemoryGroupsRepo) DeleteGroup(_ context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[groupID]; !ok {
		return ErrNotFound
	}
	delete(r.groups, groupID)
	return nil
}

func (r *MemoryGroupsRepo) CountGroups(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups), nil
}
