package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
	"github.com/ossi-austria/amigo-server-sub000/internal/store"
)

const (
	minPasswordLength = 8
	resetCodeTTL      = 15 * time.Minute
	resetCodePrefix   = "pwreset:"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegisterRequest carries the self-service signup payload. Registration
// creates the account, its default group and the OWNER person in one step.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	PersonName string `json:"name"`
	GroupName  string `json:"group_name"`
}

// TokenPair is the login result.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles registration, login and credential maintenance.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	SetFcmToken(ctx context.Context, accountID, token string) error
}

type authService struct {
	accounts repository.AccountsRepository
	persons  repository.PersonsRepository
	groups   repository.GroupsRepository
	tokens   repository.LoginTokensRepository
	jwt      JwtService
	kv       store.KV
	log      *zap.Logger
}

func NewAuthService(
	accounts repository.AccountsRepository,
	persons repository.PersonsRepository,
	groups repository.GroupsRepository,
	tokens repository.LoginTokensRepository,
	jwt JwtService,
	kv store.KV,
	log *zap.Logger,
) AuthService {
	return &authService{
		accounts: accounts,
		persons:  persons,
		groups:   groups,
		tokens:   tokens,
		jwt:      jwt,
		kv:       kv,
		log:      log,
	}
}

var _ AuthService = (*authService)(nil)

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperr.Validation("password must have at least 8 characters")
	}
	return nil
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*domain.Account, error) {
	if !emailPattern.MatchString(req.Email) {
		return nil, apperr.Validation("email is not valid")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if req.PersonName == "" {
		return nil, apperr.Validation("name must not be blank")
	}
	groupName := req.GroupName
	if groupName == "" {
		groupName = req.PersonName + "'s group"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		AccountID:    uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("email is already registered")
		}
		return nil, err
	}

	// The default group and owner person must come up with the account; if
	// either insert fails the account is rolled back so the email stays free.
	group := &domain.Group{GroupID: uuid.NewString(), Name: groupName, CreatedAt: time.Now().UTC()}
	if _, err := s.groups.CreateGroup(ctx, group); err != nil {
		s.rollbackRegistration(ctx, account.AccountID)
		return nil, err
	}

	owner := domain.Person{
		PersonID:   uuid.NewString(),
		Name:       req.PersonName,
		GroupID:    group.GroupID,
		MemberType: domain.MembershipOwner,
	}
	owner.AccountID.String, owner.AccountID.Valid = account.AccountID, true
	if _, err := s.persons.CreatePerson(ctx, &owner); err != nil {
		s.rollbackRegistration(ctx, account.AccountID)
		return nil, err
	}

	s.log.Info("account registered",
		zap.String("account_id", account.AccountID),
		zap.String("group_id", group.GroupID))
	return account, nil
}

func (s *authService) rollbackRegistration(ctx context.Context, accountID string) {
	if err := s.accounts.DeleteAccount(ctx, accountID); err != nil {
		s.log.Error("registration rollback failed",
			zap.String("account_id", accountID),
			zap.Error(err))
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrBadCredential
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		return nil, apperr.ErrBadCredential
	}

	persons, err := s.persons.FindPersonsByAccount(ctx, account.AccountID)
	if err != nil {
		return nil, err
	}
	personIDs := make([]string, 0, len(persons))
	for _, p := range persons {
		personIDs = append(personIDs, p.PersonID)
	}

	access, err := s.jwt.CreateAccessToken(account, personIDs)
	if err != nil {
		return nil, err
	}
	refresh, expiresAt, err := s.jwt.CreateRefreshToken(account)
	if err != nil {
		return nil, err
	}
	if _, err := s.tokens.CreateLoginToken(ctx, &domain.LoginToken{
		TokenID:   uuid.NewString(),
		AccountID: account.AccountID,
		Token:     refresh,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	s.log.Info("account logged in", zap.String("account_id", account.AccountID))
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	stored, err := s.tokens.GetLoginToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.ErrUnauthorized.Withf("refresh token is not known")
		}
		return "", err
	}
	if stored.Expired(time.Now().UTC()) {
		return "", apperr.ErrTokenExpired
	}

	account, err := s.accounts.GetAccount(ctx, claims.AccountID)
	if err != nil {
		return "", notFoundErr(err, "account", claims.AccountID)
	}
	persons, err := s.persons.FindPersonsByAccount(ctx, account.AccountID)
	if err != nil {
		return "", err
	}
	personIDs := make([]string, 0, len(persons))
	for _, p := range persons {
		personIDs = append(personIDs, p.PersonID)
	}
	return s.jwt.CreateAccessToken(account, personIDs)
}

// RequestPasswordReset always reports success so callers cannot probe which
// emails are registered. The code would be mailed; here it is logged.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	code := uuid.NewString()
	if err := s.kv.Set(ctx, resetCodePrefix+account.Email, code, resetCodeTTL); err != nil {
		return err
	}
	s.log.Info("password reset code issued",
		zap.String("account_id", account.AccountID),
		zap.String("code", code))
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	stored, err := s.kv.Get(ctx, resetCodePrefix+email)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return apperr.ErrBadCredential.Withf("reset code is invalid or expired")
		}
		return err
	}
	if stored != code {
		return apperr.ErrBadCredential.Withf("reset code is invalid or expired")
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return notFoundErr(err, "account", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	updated := account.WithPasswordHash(hash)
	if err := s.accounts.UpdateAccount(ctx, &updated); err != nil {
		return err
	}
	// Existing sessions are revoked together with the password.
	if err := s.tokens.DeleteLoginTokensForAccount(ctx, account.AccountID); err != nil {
		return err
	}
	return s.kv.Del(ctx, resetCodePrefix+email)
}

func (s *authService) SetFcmToken(ctx context.Context, accountID, token string) error {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return notFoundErr(err, "account", accountID)
	}
	updated := account.WithFcmToken(token)
	return s.accounts.UpdateAccount(ctx, &updated)
}
