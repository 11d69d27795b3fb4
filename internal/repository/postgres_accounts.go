package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// PostgresAccountsRepository implements AccountsRepository.
type PostgresAccountsRepository struct {
	db *sql.DB
}

func NewPostgresAccountsRepository(db *sql.DB) *PostgresAccountsRepository {
	return &PostgresAccountsRepository{db: db}
}

var _ AccountsRepository = (*PostgresAccountsRepository)(nil)

const accountColumns = `
	account_id::text,
	email,
	password_hash,
	created_at,
	change_token,
	change_token_created_at,
	fcm_token
`

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID,
		&a.Email,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.ChangeToken,
		&a.ChangeTokenCreatedAt,
		&a.FcmToken,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return &a, nil
}

func (r *PostgresAccountsRepository) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID)
	return scanAccount(row)
}

func (r *PostgresAccountsRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`, email)
	return scanAccount(row)
}

func (r *PostgresAccountsRepository) CreateAccount(ctx context.Context, account *domain.Account) (string, error) {
	id := account.AccountID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (account_id, email, password_hash, created_at, fcm_token)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, account.Email, account.PasswordHash, account.CreatedAt, account.FcmToken)
	if err != nil {
		return "", translateErr(err)
	}
	return id, nil
}

func (r *PostgresAccountsRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET email = $2,
		     password_hash = $3,
		     change_token = $4,
		     change_token_created_at = $5,
		     fcm_token = $6
		 WHERE account_id = $1`,
		account.AccountID, account.Email, account.PasswordHash,
		account.ChangeToken, account.ChangeTokenCreatedAt, account.FcmToken)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAccountsRepository) DeleteAccount(ctx context.Context, accountID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAccountsRepository) CountAccounts(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, translateErr(err)
}
