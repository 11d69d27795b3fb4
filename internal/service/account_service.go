package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
	"github.com/ossi-austria/amigo-server-sub000/internal/storage"
)

// changeTokenTTL bounds the window in which a pending account change token
// can be confirmed.
const changeTokenTTL = time.Hour

// AccountChangeRequest updates credentials after the change token has been
// verified. Empty fields keep their current value.
type AccountChangeRequest struct {
	Token       string `json:"token"`
	NewEmail    string `json:"new_email,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}

// AccountService manages the caller's own account.
type AccountService interface {
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	// DeleteAccount removes the account with its persons, tokens and stored
	// avatar files.
	DeleteAccount(ctx context.Context, accountID string) error
	// RequestAccountChange issues a single-use token for changing email or
	// password.
	RequestAccountChange(ctx context.Context, accountID string) (string, error)
	ConfirmAccountChange(ctx context.Context, accountID string, req AccountChangeRequest) error
}

type accountService struct {
	accounts repository.AccountsRepository
	persons  repository.PersonsRepository
	tokens   repository.LoginTokensRepository
	files    *storage.FileStore
	log      *zap.Logger
}

func NewAccountService(
	accounts repository.AccountsRepository,
	persons repository.PersonsRepository,
	tokens repository.LoginTokensRepository,
	files *storage.FileStore,
	log *zap.Logger,
) AccountService {
	return &accountService{accounts: accounts, persons: persons, tokens: tokens, files: files, log: log}
}

var _ AccountService = (*accountService)(nil)

func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, notFoundErr(err, "account", accountID)
	}
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	persons, err := s.persons.FindPersonsByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	for _, p := range persons {
		if p.AvatarKey.Valid {
			if err := s.files.Delete(p.AvatarKey.String); err != nil {
				s.log.Warn("failed to delete avatar file", zap.String("person_id", p.PersonID), zap.Error(err))
			}
		}
	}
	if err := s.tokens.DeleteLoginTokensForAccount(ctx, accountID); err != nil {
		return err
	}
	if err := s.accounts.DeleteAccount(ctx, accountID); err != nil {
		return notFoundErr(err, "account", accountID)
	}
	s.log.Info("account deleted", zap.String("account_id", accountID))
	return nil
}

func (s *accountService) RequestAccountChange(ctx context.Context, accountID string) (string, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return "", notFoundErr(err, "account", accountID)
	}

	token := uuid.NewString()
	updated := *account
	updated.ChangeToken = sql.NullString{String: token, Valid: true}
	updated.ChangeTokenCreatedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	if err := s.accounts.UpdateAccount(ctx, &updated); err != nil {
		return "", err
	}
	return token, nil
}

func (s *accountService) ConfirmAccountChange(ctx context.Context, accountID string, req AccountChangeRequest) error {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return notFoundErr(err, "account", accountID)
	}
	if !account.ChangeToken.Valid ||
		subtle.ConstantTimeCompare([]byte(account.ChangeToken.String), []byte(req.Token)) != 1 {
		return apperr.ErrBadCredential.Withf("change token is invalid")
	}
	if !account.ChangeTokenCreatedAt.Valid ||
		time.Now().UTC().After(account.ChangeTokenCreatedAt.Time.Add(changeTokenTTL)) {
		return apperr.ErrTokenExpired.Withf("change token is expired")
	}
	if req.NewEmail == "" && req.NewPassword == "" {
		return apperr.Validation("nothing to change")
	}

	updated := *account
	if req.NewEmail != "" {
		if !emailPattern.MatchString(req.NewEmail) {
			return apperr.Validation("email is not valid")
		}
		updated.Email = req.NewEmail
	}
	if req.NewPassword != "" {
		if err := validatePassword(req.NewPassword); err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		updated = updated.WithPasswordHash(hash)
	}
	updated.ChangeToken = sql.NullString{}
	updated.ChangeTokenCreatedAt = sql.NullTime{}
	return s.accounts.UpdateAccount(ctx, &updated)
}
