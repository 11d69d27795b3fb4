// Package repository defines the persistence interfaces and their PostgreSQL
// implementations. Interfaces use strongly typed domain models; SQL lives only
// in the postgres_*.go files.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned on unique constraint violations.
var ErrDuplicate = errors.New("duplicate entity")

// SendableRepository is the shared persistence surface of the sendable family.
// The type parameter keeps Get/Create/Update strongly typed per entity.
type SendableRepository[T domain.Sendable[T]] interface {
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
	FindBySender(ctx context.Context, senderID string) ([]T, error)
	FindByReceiver(ctx context.Context, receiverID string) ([]T, error)
	FindByParty(ctx context.Context, personID string) ([]T, error)
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) (T, error)
}

// translateErr maps driver errors onto the repository sentinels.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
