package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

func TestGetAccountByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAccountsRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"account_id", "email", "password_hash", "created_at",
		"change_token", "change_token_created_at", "fcm_token",
	}).AddRow("acc-1", "a@example.com", []byte("hash"), now, nil, nil, nil)

	mock.ExpectQuery(`SELECT .+ FROM accounts WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("a@example.com").
		WillReturnRows(rows)

	account, err := repo.GetAccountByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.AccountID)
	assert.Equal(t, "a@example.com", account.Email)
	assert.False(t, account.FcmToken.Valid)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAccountsRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM accounts WHERE account_id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}))

	_, err = repo.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAccountNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAccountsRepository(db)

	mock.ExpectExec(`UPDATE accounts`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateAccount(context.Background(), &domain.Account{AccountID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountAccounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAccountsRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
