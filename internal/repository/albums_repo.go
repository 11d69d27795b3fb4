package repository

import (
	"context"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// AlbumsRepository persists media containers.
type AlbumsRepository interface {
	GetAlbum(ctx context.Context, albumID string) (*domain.Album, error)
	FindAlbumsByOwner(ctx context.Context, ownerID string) ([]domain.Album, error)
	// FindAlbumsSharedWith returns albums shared with the person via AlbumShares.
	FindAlbumsSharedWith(ctx context.Context, personID string) ([]domain.Album, error)
	CreateAlbum(ctx context.Context, album *domain.Album) (string, error)
	UpdateAlbum(ctx context.Context, album *domain.Album) error
	DeleteAlbum(ctx context.Context, albumID string) error
}

// MultimediaRepository extends the sendable surface with ownership queries.
type MultimediaRepository interface {
	SendableRepository[domain.Multimedia]
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Multimedia, error)
	FindByAlbum(ctx context.Context, albumID string) ([]domain.Multimedia, error)
	Delete(ctx context.Context, id string) error
}

// AlbumSharesRepository extends the sendable surface with album queries.
type AlbumSharesRepository interface {
	SendableRepository[domain.AlbumShare]
	FindByAlbum(ctx context.Context, albumID string) ([]domain.AlbumShare, error)
}
