package repository

import (
	"context"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// AccountsRepository persists login identities.
type AccountsRepository interface {
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) (string, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error
	// DeleteAccount removes the account; persons and login tokens cascade.
	DeleteAccount(ctx context.Context, accountID string) error
	CountAccounts(ctx context.Context) (int, error)
}

// LoginTokensRepository persists refresh tokens.
type LoginTokensRepository interface {
	CreateLoginToken(ctx context.Context, token *domain.LoginToken) (string, error)
	GetLoginToken(ctx context.Context, token string) (*domain.LoginToken, error)
	DeleteLoginTokensForAccount(ctx context.Context, accountID string) error
}
