package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// PostgresLoginTokensRepository implements LoginTokensRepository.
type PostgresLoginTokensRepository struct {
	db *sql.DB
}

func NewPostgresLoginTokensRepository(db *sql.DB) *PostgresLoginTokensRepository {
	return &PostgresLoginTokensRepository{db: db}
}

var _ LoginTokensRepository = (*PostgresLoginTokensRepository)(nil)

func (r *PostgresLoginTokensRepository) CreateLoginToken(ctx context.Context, token *domain.LoginToken) (string, error) {
	id := token.TokenID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO login_tokens (token_id, account_id, token, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, token.AccountID, token.Token, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return "", translateErr(err)
	}
	return id, nil
}

func (r *PostgresLoginTokensRepository) GetLoginToken(ctx context.Context, token string) (*domain.LoginToken, error) {
	var t domain.LoginToken
	err := r.db.QueryRowContext(ctx,
		`SELECT token_id::text, account_id::text, token, expires_at, created_at
		 FROM login_tokens WHERE token = $1`, token).
		Scan(&t.TokenID, &t.AccountID, &t.Token, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &t, nil
}

func (r *PostgresLoginTokensRepository) DeleteLoginTokensForAccount(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM login_tokens WHERE account_id = $1`, accountID)
	return translateErr(err)
}
