package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/config"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AccountClaims are the JWT claims of access and refresh tokens. The subject
// is the account email; PersonIDs lists the account's persons so clients can
// resolve the acting person without an extra round trip.
type AccountClaims struct {
	AccountID string   `json:"account_id"`
	PersonIDs []string `json:"person_ids,omitempty"`
	TokenType string   `json:"token_type"`
	jwt.RegisteredClaims
}

// JwtService issues and validates the platform's bearer tokens.
type JwtService interface {
	CreateAccessToken(account *domain.Account, personIDs []string) (string, error)
	CreateRefreshToken(account *domain.Account) (string, time.Time, error)
	ValidateAccessToken(token string) (*AccountClaims, error)
	ValidateRefreshToken(token string) (*AccountClaims, error)
}

type jwtService struct {
	cfg config.JWTConfig
}

// NewJwtService creates a JwtService signing with HS256.
func NewJwtService(cfg config.JWTConfig) JwtService {
	return &jwtService{cfg: cfg}
}

func (s *jwtService) sign(account *domain.Account, personIDs []string, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := AccountClaims{
		AccountID: account.AccountID,
		PersonIDs: personIDs,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Email,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *jwtService) CreateAccessToken(account *domain.Account, personIDs []string) (string, error) {
	token, _, err := s.sign(account, personIDs, tokenTypeAccess, s.cfg.AccessTTL)
	return token, err
}

func (s *jwtService) CreateRefreshToken(account *domain.Account) (string, time.Time, error) {
	return s.sign(account, nil, tokenTypeRefresh, s.cfg.RefreshTTL)
}

func (s *jwtService) validate(tokenString, wantType string) (*AccountClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccountClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.ErrUnauthorized.Withf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithIssuer(s.cfg.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.ErrTokenExpired.WithCause(err)
		}
		return nil, apperr.ErrUnauthorized.WithCause(err)
	}

	claims, ok := token.Claims.(*AccountClaims)
	if !ok || !token.Valid {
		return nil, apperr.ErrUnauthorized
	}
	if claims.TokenType != wantType {
		return nil, apperr.ErrUnauthorized.Withf("wrong token type %q", claims.TokenType)
	}
	return claims, nil
}

func (s *jwtService) ValidateAccessToken(token string) (*AccountClaims, error) {
	return s.validate(token, tokenTypeAccess)
}

func (s *jwtService) ValidateRefreshToken(token string) (*AccountClaims, error) {
	return s.validate(token, tokenTypeRefresh)
}
