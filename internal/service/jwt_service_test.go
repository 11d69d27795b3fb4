package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/config"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJwtService(testJwtConfig())
	account := &domain.Account{AccountID: "acc-1", Email: "a@example.com"}

	token, err := svc.CreateAccessToken(account, []string{"p1", "p2"})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Subject)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, []string{"p1", "p2"}, claims.PersonIDs)
}

func TestTokenTypesAreDistinct(t *testing.T) {
	svc := NewJwtService(testJwtConfig())
	account := &domain.Account{AccountID: "acc-1", Email: "a@example.com"}

	access, err := svc.CreateAccessToken(account, nil)
	require.NoError(t, err)
	refresh, _, err := svc.CreateRefreshToken(account)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testJwtConfig()
	cfg.AccessTTL = -time.Minute
	svc := NewJwtService(cfg)

	token, err := svc.CreateAccessToken(&domain.Account{AccountID: "acc-1", Email: "a@example.com"}, nil)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, apperr.ErrTokenExpired)
}

func TestWrongSecretRejected(t *testing.T) {
	svc := NewJwtService(testJwtConfig())
	token, err := svc.CreateAccessToken(&domain.Account{AccountID: "acc-1", Email: "a@example.com"}, nil)
	require.NoError(t, err)

	other := NewJwtService(config.JWTConfig{Secret: "different", Issuer: "amigo-test", AccessTTL: time.Minute})
	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestJitsiRoomToken(t *testing.T) {
	svc := testJitsiService()
	token, err := svc.RoomToken("room-1", &domain.Person{PersonID: "p1", Name: "Alice"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
