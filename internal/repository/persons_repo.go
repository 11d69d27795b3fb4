package repository

import (
	"context"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// PersonsRepository persists group members.
type PersonsRepository interface {
	GetPerson(ctx context.Context, personID string) (*domain.Person, error)
	FindPersonsByAccount(ctx context.Context, accountID string) ([]domain.Person, error)
	FindPersonsByGroup(ctx context.Context, groupID string) ([]domain.Person, error)
	CreatePerson(ctx context.Context, person *domain.Person) (string, error)
	UpdatePerson(ctx context.Context, person *domain.Person) error
	DeletePerson(ctx context.Context, personID string) error
	CountPersons(ctx context.Context) (int, error)
}
