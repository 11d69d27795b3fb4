package service

import (
	"context"
	"database/sql"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
	"github.com/ossi-austria/amigo-server-sub000/internal/storage"
)

// UploadMultimediaRequest uploads a media file. ReceiverID sends it to a
// group peer under the sendable rules; AlbumID places it into one of the
// uploader's albums. At least one destination is required.
type UploadMultimediaRequest struct {
	OwnerID     string
	ReceiverID  string
	AlbumID     string
	Filename    string
	ContentType string
	Content     io.Reader
}

// MultimediaService manages stored media files and their exchange.
type MultimediaService interface {
	Upload(ctx context.Context, req UploadMultimediaRequest) (domain.Multimedia, error)
	Get(ctx context.Context, id, requesterID string) (domain.Multimedia, error)
	// OpenFile streams the media bytes for the owner, the receiver or anyone
	// the containing album is shared with.
	OpenFile(ctx context.Context, id, requesterID string) (domain.Multimedia, io.ReadCloser, error)
	FindOwn(ctx context.Context, personID string) ([]domain.Multimedia, error)
	FindByAlbum(ctx context.Context, albumID, requesterID string) ([]domain.Multimedia, error)
	FindAll(ctx context.Context, requesterID string) ([]domain.Multimedia, error)
	FindSent(ctx context.Context, requesterID string) ([]domain.Multimedia, error)
	FindReceived(ctx context.Context, requesterID string) ([]domain.Multimedia, error)
	MarkAsSent(ctx context.Context, id, requesterID string) (domain.Multimedia, error)
	MarkAsRetrieved(ctx context.Context, id, requesterID string) (domain.Multimedia, error)
	// Delete removes the metadata row and the stored file. Owner only.
	Delete(ctx context.Context, id, requesterID string) error
}

type multimediaService struct {
	sendableOps[domain.Multimedia]
	partyValidator
	media  repository.MultimediaRepository
	access albumAccess
	files  *storage.FileStore
	push   pushHelper
	log    *zap.Logger
}

func NewMultimediaService(
	media repository.MultimediaRepository,
	albums repository.AlbumsRepository,
	shares repository.AlbumSharesRepository,
	persons repository.PersonsRepository,
	accounts repository.AccountsRepository,
	files *storage.FileStore,
	notifier NotificationService,
	log *zap.Logger,
) MultimediaService {
	return &multimediaService{
		sendableOps:    newSendableOps[domain.Multimedia](media, "multimedia"),
		partyValidator: partyValidator{persons: persons},
		media:          media,
		access:         albumAccess{albums: albums, shares: shares},
		files:          files,
		push:           pushHelper{accounts: accounts, notifier: notifier},
		log:            log,
	}
}

var _ MultimediaService = (*multimediaService)(nil)

func (s *multimediaService) Upload(ctx context.Context, req UploadMultimediaRequest) (domain.Multimedia, error) {
	if req.Filename == "" {
		return domain.Multimedia{}, apperr.Validation("filename must not be blank")
	}
	if req.ReceiverID == "" && req.AlbumID == "" {
		return domain.Multimedia{}, apperr.Validation("multimedia needs a receiver or an album")
	}

	var receiver *domain.Person
	if req.ReceiverID != "" {
		var err error
		_, receiver, err = s.validateParties(ctx, req.OwnerID, req.ReceiverID)
		if err != nil {
			return domain.Multimedia{}, err
		}
	}
	if req.AlbumID != "" {
		album, err := s.access.albums.GetAlbum(ctx, req.AlbumID)
		if err != nil {
			return domain.Multimedia{}, notFoundErr(err, "album", req.AlbumID)
		}
		if album.OwnerID != req.OwnerID {
			return domain.Multimedia{}, apperr.ErrForbidden
		}
	}

	key, size, err := s.files.Save(req.Content)
	if err != nil {
		return domain.Multimedia{}, err
	}

	media := domain.Multimedia{
		SendableBase: domain.SendableBase{
			SenderID:   req.OwnerID,
			ReceiverID: req.ReceiverID,
			CreatedAt:  time.Now().UTC(),
		},
		OwnerID:     req.OwnerID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Size:        size,
		FileKey:     key,
	}
	if req.AlbumID != "" {
		media.AlbumID = sql.NullString{String: req.AlbumID, Valid: true}
	}

	created, err := s.media.Create(ctx, media)
	if err != nil {
		// The row failed, do not leak the stored file.
		_ = s.files.Delete(key)
		return domain.Multimedia{}, err
	}

	if receiver != nil && s.push.notifyPerson(ctx, receiver, map[string]string{
		"type":          "MULTIMEDIA",
		"multimedia_id": created.ID,
		"sender_id":     req.OwnerID,
	}) {
		created, err = s.media.Update(ctx, created.WithSentAt(s.now()))
		if err != nil {
			return domain.Multimedia{}, err
		}
	}

	s.log.Info("multimedia uploaded",
		zap.String("multimedia_id", created.ID),
		zap.Int64("size", size))
	return created, nil
}

// canRead reports whether the requester may see the media: a party of the
// exchange, or a reader of the containing album.
func (s *multimediaService) canRead(ctx context.Context, media domain.Multimedia, requesterID string) bool {
	if requesterID == media.OwnerID || requesterID == media.SenderID || requesterID == media.ReceiverID {
		return true
	}
	if !media.AlbumID.Valid {
		return false
	}
	_, err := s.access.get(ctx, media.AlbumID.String, requesterID)
	return err == nil
}

// Get widens the sendable read scope to album readers.
func (s *multimediaService) Get(ctx context.Context, id, requesterID string) (domain.Multimedia, error) {
	media, err := s.media.Get(ctx, id)
	if err != nil {
		return domain.Multimedia{}, notFoundErr(err, "multimedia", id)
	}
	if !s.canRead(ctx, media, requesterID) {
		return domain.Multimedia{}, apperr.ErrForbidden
	}
	return media, nil
}

func (s *multimediaService) OpenFile(ctx context.Context, id, requesterID string) (domain.Multimedia, io.ReadCloser, error) {
	media, err := s.Get(ctx, id, requesterID)
	if err != nil {
		return domain.Multimedia{}, nil, err
	}
	rc, err := s.files.Open(media.FileKey)
	if err != nil {
		return domain.Multimedia{}, nil, apperr.NotFound("multimedia file", id)
	}
	return media, rc, nil
}

func (s *multimediaService) FindOwn(ctx context.Context, personID string) ([]domain.Multimedia, error) {
	return s.media.FindByOwner(ctx, personID)
}

func (s *multimediaService) FindByAlbum(ctx context.Context, albumID, requesterID string) ([]domain.Multimedia, error) {
	if _, err := s.access.get(ctx, albumID, requesterID); err != nil {
		return nil, err
	}
	return s.media.FindByAlbum(ctx, albumID)
}

func (s *multimediaService) Delete(ctx context.Context, id, requesterID string) error {
	media, err := s.media.Get(ctx, id)
	if err != nil {
		return notFoundErr(err, "multimedia", id)
	}
	if media.OwnerID != requesterID {
		return apperr.ErrForbidden
	}
	if err := s.media.Delete(ctx, id); err != nil {
		return notFoundErr(err, "multimedia", id)
	}
	if err := s.files.Delete(media.FileKey); err != nil {
		s.log.Warn("failed to delete media file", zap.String("multimedia_id", id), zap.Error(err))
	}
	return nil
}
