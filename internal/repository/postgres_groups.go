package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// PostgresGroupsRepository implements GroupsRepository.
type PostgresGroupsRepository struct {
	db      *sql.DB
	persons *PostgresPersonsRepository
}

func NewPostgresGroupsRepository(db *sql.DB) *PostgresGroupsRepository {
	return &PostgresGroupsRepository{db: db, persons: NewPostgresPersonsRepository(db)}
}

var _ GroupsRepository = (*PostgresGroupsRepository)(nil)

func (r *PostgresGroupsRepository) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	if groupID == "" {
		return nil, ErrNotFound
	}
	var g domain.Group
	err := r.db.QueryRowContext(ctx,
		`SELECT group_id::text, name, created_at FROM groups WHERE group_id = $1`, groupID).
		Scan(&g.GroupID, &g.Name, &g.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}

	members, err := r.persons.FindPersonsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	g.Members = members
	return &g, nil
}

func (r *PostgresGroupsRepository) FindGroupsForAccount(ctx context.Context, accountID string, name string) ([]domain.Group, error) {
	query := `
		SELECT DISTINCT g.group_id::text, g.name, g.created_at
		FROM groups g
		JOIN persons p ON p.group_id = g.group_id
		WHERE p.account_id = $1`
	args := []any{accountID}
	if name != "" {
		query += ` AND g.name = $2`
		args = append(args, name)
	}
	query += ` ORDER BY g.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.GroupID, &g.Name, &g.CreatedAt); err != nil {
			return nil, translateErr(err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}

	// Attach member lists so callers can run membership checks directly.
	for i := range groups {
		members, err := r.persons.FindPersonsByGroup(ctx, groups[i].GroupID)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}
	return groups, nil
}

func (r *PostgresGroupsRepository) CreateGroup(ctx context.Context, group *domain.Group) (string, error) {
	id := group.GroupID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO groups (group_id, name, created_at) VALUES ($1, $2, $3)`,
		id, group.Name, group.CreatedAt)
	if err != nil {
		return "", translateErr(err)
	}
	return id, nil
}

func (r *PostgresGroupsRepository) UpdateGroup(ctx context.Context, group *domain.Group) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE groups SET name = $2 WHERE group_id = $1`, group.GroupID, group.Name)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresGroupsRepository) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM groups WHERE group_id = $1`, groupID)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresGroupsRepository) CountGroups(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&n)
	return n, translateErr(err)
}
