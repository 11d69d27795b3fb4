package repository

import (
	"context"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// NfcRepository persists NFC tag registrations.
type NfcRepository interface {
	GetNfc(ctx context.Context, nfcID string) (*domain.NfcInfo, error)
	GetNfcByRef(ctx context.Context, nfcRef string) (*domain.NfcInfo, error)
	FindNfcsByOwner(ctx context.Context, ownerID string) ([]domain.NfcInfo, error)
	FindNfcsByCreator(ctx context.Context, creatorID string) ([]domain.NfcInfo, error)
	CreateNfc(ctx context.Context, nfc *domain.NfcInfo) (string, error)
	UpdateNfc(ctx context.Context, nfc *domain.NfcInfo) error
	DeleteNfc(ctx context.Context, nfcID string) error
}
