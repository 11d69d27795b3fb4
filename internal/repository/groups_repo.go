package repository

import (
	"context"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// GroupsRepository persists groups. Loaded groups carry their member list.
type GroupsRepository interface {
	GetGroup(ctx context.Context, groupID string) (*domain.Group, error)
	// FindGroupsForAccount returns every group one of the account's persons
	// belongs to. name filters by exact group name when non-empty.
	FindGroupsForAccount(ctx context.Context, accountID string, name string) ([]domain.Group, error)
	CreateGroup(ctx context.Context, group *domain.Group) (string, error)
	UpdateGroup(ctx context.Context, group *domain.Group) error
	DeleteGroup(ctx context.Context, groupID string) error
	CountGroups(ctx context.Context) (int, error)
}
