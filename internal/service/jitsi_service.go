package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ossi-austria/amigo-server-sub000/internal/config"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// JitsiJwtService mints room-access tokens for the external video service.
// The token shape follows the Jitsi JWT convention: aud/iss are the app id,
// sub is the host, and the room claim scopes the token to one conference.
type JitsiJwtService interface {
	RoomToken(roomID string, person *domain.Person) (string, error)
}

type jitsiJwtService struct {
	cfg config.JitsiConfig
}

func NewJitsiJwtService(cfg config.JitsiConfig) JitsiJwtService {
	return &jitsiJwtService{cfg: cfg}
}

func (s *jitsiJwtService) RoomToken(roomID string, person *domain.Person) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"aud":  s.cfg.AppID,
		"iss":  s.cfg.AppID,
		"sub":  s.cfg.Host,
		"room": roomID,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.TTL).Unix(),
		"context": map[string]any{
			"user": map[string]any{
				"id":   person.PersonID,
				"name": person.Name,
			},
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}
