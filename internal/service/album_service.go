package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
)

// albumAccess answers who may read an album: its owner and every person it
// has been shared with.
type albumAccess struct {
	albums repository.AlbumsRepository
	shares repository.AlbumSharesRepository
}

// get loads the album and enforces read access for the requester.
func (a albumAccess) get(ctx context.Context, albumID, requesterID string) (*domain.Album, error) {
	album, err := a.albums.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, notFoundErr(err, "album", albumID)
	}
	if album.OwnerID == requesterID {
		return album, nil
	}
	shares, err := a.shares.FindByAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}
	for _, share := range shares {
		if share.ReceiverID == requesterID {
			return album, nil
		}
	}
	return nil, apperr.ErrForbidden
}

// AlbumService manages media containers and their shares.
type AlbumService interface {
	CreateAlbum(ctx context.Context, ownerID, name string) (*domain.Album, error)
	// GetAlbum returns the album for its owner or a person it is shared with.
	GetAlbum(ctx context.Context, albumID, requesterID string) (*domain.Album, error)
	// ListAlbums returns the person's own albums followed by shared ones.
	ListAlbums(ctx context.Context, personID string) ([]domain.Album, error)
	RenameAlbum(ctx context.Context, albumID, requesterID, name string) (*domain.Album, error)
	DeleteAlbum(ctx context.Context, albumID, requesterID string) error

	// ShareAlbum grants a group peer access. Sendable party rules apply.
	ShareAlbum(ctx context.Context, albumID, senderID, receiverID string) (domain.AlbumShare, error)
	GetShare(ctx context.Context, id, requesterID string) (domain.AlbumShare, error)
	FindShares(ctx context.Context, requesterID string) ([]domain.AlbumShare, error)
	FindSharesSent(ctx context.Context, requesterID string) ([]domain.AlbumShare, error)
	FindSharesReceived(ctx context.Context, requesterID string) ([]domain.AlbumShare, error)
	MarkShareAsSent(ctx context.Context, id, requesterID string) (domain.AlbumShare, error)
	MarkShareAsRetrieved(ctx context.Context, id, requesterID string) (domain.AlbumShare, error)
}

type albumService struct {
	access albumAccess
	shares sendableOps[domain.AlbumShare]
	partyValidator
	push pushHelper
	log  *zap.Logger
}

func NewAlbumService(
	albums repository.AlbumsRepository,
	shares repository.AlbumSharesRepository,
	persons repository.PersonsRepository,
	accounts repository.AccountsRepository,
	notifier NotificationService,
	log *zap.Logger,
) AlbumService {
	return &albumService{
		access:         albumAccess{albums: albums, shares: shares},
		shares:         newSendableOps[domain.AlbumShare](shares, "album share"),
		partyValidator: partyValidator{persons: persons},
		push:           pushHelper{accounts: accounts, notifier: notifier},
		log:            log,
	}
}

var _ AlbumService = (*albumService)(nil)

func (s *albumService) CreateAlbum(ctx context.Context, ownerID, name string) (*domain.Album, error) {
	if name == "" {
		return nil, apperr.Validation("album name must not be blank")
	}
	album := &domain.Album{Name: name, OwnerID: ownerID, CreatedAt: time.Now().UTC()}
	id, err := s.access.albums.CreateAlbum(ctx, album)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("album name is already used")
		}
		return nil, err
	}
	album.AlbumID = id
	s.log.Info("album created", zap.String("album_id", id), zap.String("owner_id", ownerID))
	return album, nil
}

func (s *albumService) GetAlbum(ctx context.Context, albumID, requesterID string) (*domain.Album, error) {
	return s.access.get(ctx, albumID, requesterID)
}

func (s *albumService) ListAlbums(ctx context.Context, personID string) ([]domain.Album, error) {
	own, err := s.access.albums.FindAlbumsByOwner(ctx, personID)
	if err != nil {
		return nil, err
	}
	shared, err := s.access.albums.FindAlbumsSharedWith(ctx, personID)
	if err != nil {
		return nil, err
	}
	return append(own, shared...), nil
}

// ownedAlbum loads the album and enforces ownership.
func (s *albumService) ownedAlbum(ctx context.Context, albumID, requesterID string) (*domain.Album, error) {
	album, err := s.access.albums.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, notFoundErr(err, "album", albumID)
	}
	if album.OwnerID != requesterID {
		return nil, apperr.ErrForbidden
	}
	return album, nil
}

func (s *albumService) RenameAlbum(ctx context.Context, albumID, requesterID, name string) (*domain.Album, error) {
	if name == "" {
		return nil, apperr.Validation("album name must not be blank")
	}
	album, err := s.ownedAlbum(ctx, albumID, requesterID)
	if err != nil {
		return nil, err
	}
	renamed := album.WithName(name)
	if err := s.access.albums.UpdateAlbum(ctx, &renamed); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("album name is already used")
		}
		return nil, err
	}
	return &renamed, nil
}

func (s *albumService) DeleteAlbum(ctx context.Context, albumID, requesterID string) error {
	if _, err := s.ownedAlbum(ctx, albumID, requesterID); err != nil {
		return err
	}
	if err := s.access.albums.DeleteAlbum(ctx, albumID); err != nil {
		return notFoundErr(err, "album", albumID)
	}
	s.log.Info("album deleted", zap.String("album_id", albumID))
	return nil
}

func (s *albumService) ShareAlbum(ctx context.Context, albumID, senderID, receiverID string) (domain.AlbumShare, error) {
	if _, err := s.ownedAlbum(ctx, albumID, senderID); err != nil {
		return domain.AlbumShare{}, err
	}
	_, receiver, err := s.validateParties(ctx, senderID, receiverID)
	if err != nil {
		return domain.AlbumShare{}, err
	}

	share := domain.AlbumShare{
		SendableBase: domain.SendableBase{
			SenderID:   senderID,
			ReceiverID: receiverID,
			CreatedAt:  time.Now().UTC(),
		},
		AlbumID: albumID,
	}
	created, err := s.shares.repo.Create(ctx, share)
	if err != nil {
		return domain.AlbumShare{}, err
	}

	if s.push.notifyPerson(ctx, receiver, map[string]string{
		"type":     "ALBUM_SHARE",
		"share_id": created.ID,
		"album_id": albumID,
	}) {
		created, err = s.shares.repo.Update(ctx, created.WithSentAt(s.shares.now()))
		if err != nil {
			return domain.AlbumShare{}, err
		}
	}
	return created, nil
}

func (s *albumService) GetShare(ctx context.Context, id, requesterID string) (domain.AlbumShare, error) {
	return s.shares.Get(ctx, id, requesterID)
}

func (s *albumService) FindShares(ctx context.Context, requesterID string) ([]domain.AlbumShare, error) {
	return s.shares.FindAll(ctx, requesterID)
}

func (s *albumService) FindSharesSent(ctx context.Context, requesterID string) ([]domain.AlbumShare, error) {
	return s.shares.FindSent(ctx, requesterID)
}

func (s *albumService) FindSharesReceived(ctx context.Context, requesterID string) ([]domain.AlbumShare, error) {
	return s.shares.FindReceived(ctx, requesterID)
}

func (s *albumService) MarkShareAsSent(ctx context.Context, id, requesterID string) (domain.AlbumShare, error) {
	return s.shares.MarkAsSent(ctx, id, requesterID)
}

func (s *albumService) MarkShareAsRetrieved(ctx context.Context, id, requesterID string) (domain.AlbumShare, error) {
	return s.shares.MarkAsRetrieved(ctx, id, requesterID)
}
