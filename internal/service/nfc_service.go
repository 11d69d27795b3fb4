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

// CreateNfcRequest registers a physical tag. OwnerID names the person the tag
// is handed to (usually the analogue member); the creator must share a group
// with them.
type CreateNfcRequest struct {
	Name    string `json:"name"`
	NfcRef  string `json:"nfc_ref"`
	OwnerID string `json:"owner_id"`
}

// ChangeNfcRequest updates a tag. Linking to an album or a person switches
// the tag action; only one link may be set.
type ChangeNfcRequest struct {
	Name           string `json:"name,omitempty"`
	LinkedAlbumID  string `json:"linked_album_id,omitempty"`
	LinkedPersonID string `json:"linked_person_id,omitempty"`
}

// NfcAction is the payload a tag tap resolves to.
type NfcAction struct {
	Type     domain.NfcInfoType `json:"type"`
	AlbumID  string             `json:"album_id,omitempty"`
	PersonID string             `json:"person_id,omitempty"`
}

// NfcService manages NFC tag registrations and resolves taps into actions.
type NfcService interface {
	CreateNfc(ctx context.Context, creatorID string, req CreateNfcRequest) (*domain.NfcInfo, error)
	GetNfc(ctx context.Context, nfcID, requesterID string) (*domain.NfcInfo, error)
	FindOwn(ctx context.Context, personID string) ([]domain.NfcInfo, error)
	FindCreated(ctx context.Context, personID string) ([]domain.NfcInfo, error)
	ChangeNfc(ctx context.Context, nfcID, requesterID string, req ChangeNfcRequest) (*domain.NfcInfo, error)
	DeleteNfc(ctx context.Context, nfcID, requesterID string) error
	// ResolveRef maps a scanned tag reference onto the linked action.
	ResolveRef(ctx context.Context, nfcRef string) (*NfcAction, error)
}

type nfcService struct {
	nfcs    repository.NfcRepository
	persons repository.PersonsRepository
	albums  repository.AlbumsRepository
	log     *zap.Logger
}

func NewNfcService(
	nfcs repository.NfcRepository,
	persons repository.PersonsRepository,
	albums repository.AlbumsRepository,
	log *zap.Logger,
) NfcService {
	return &nfcService{nfcs: nfcs, persons: persons, albums: albums, log: log}
}

var _ NfcService = (*nfcService)(nil)

func (s *nfcService) CreateNfc(ctx context.Context, creatorID string, req CreateNfcRequest) (*domain.NfcInfo, error) {
	if req.Name == "" {
		return nil, apperr.Validation("tag name must not be blank")
	}
	if req.NfcRef == "" {
		return nil, apperr.Validation("tag reference must not be blank")
	}
	creator, err := s.persons.GetPerson(ctx, creatorID)
	if err != nil {
		return nil, notFoundErr(err, "person", creatorID)
	}
	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = creatorID
	}
	if ownerID != creatorID {
		owner, err := s.persons.GetPerson(ctx, ownerID)
		if err != nil {
			return nil, notFoundErr(err, "person", ownerID)
		}
		if owner.GroupID != creator.GroupID {
			return nil, apperr.ErrNotSameGroup
		}
	}

	nfc := &domain.NfcInfo{
		Name:      req.Name,
		NfcRef:    req.NfcRef,
		OwnerID:   ownerID,
		CreatorID: creatorID,
		Type:      domain.NfcTypeUndefined,
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.nfcs.CreateNfc(ctx, nfc)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("tag reference is already registered")
		}
		return nil, err
	}
	nfc.NfcID = id
	s.log.Info("nfc tag registered", zap.String("nfc_id", id))
	return nfc, nil
}

// managedNfc loads the tag and enforces that the requester created or owns it.
func (s *nfcService) managedNfc(ctx context.Context, nfcID, requesterID string) (*domain.NfcInfo, error) {
	nfc, err := s.nfcs.GetNfc(ctx, nfcID)
	if err != nil {
		return nil, notFoundErr(err, "nfc tag", nfcID)
	}
	if nfc.OwnerID != requesterID && nfc.CreatorID != requesterID {
		return nil, apperr.ErrForbidden
	}
	return nfc, nil
}

func (s *nfcService) GetNfc(ctx context.Context, nfcID, requesterID string) (*domain.NfcInfo, error) {
	return s.managedNfc(ctx, nfcID, requesterID)
}

func (s *nfcService) FindOwn(ctx context.Context, personID string) ([]domain.NfcInfo, error) {
	return s.nfcs.FindNfcsByOwner(ctx, personID)
}

func (s *nfcService) FindCreated(ctx context.Context, personID string) ([]domain.NfcInfo, error) {
	return s.nfcs.FindNfcsByCreator(ctx, personID)
}

func (s *nfcService) ChangeNfc(ctx context.Context, nfcID, requesterID string, req ChangeNfcRequest) (*domain.NfcInfo, error) {
	if req.LinkedAlbumID != "" && req.LinkedPersonID != "" {
		return nil, apperr.Validation("a tag links to an album or a person, not both")
	}
	nfc, err := s.managedNfc(ctx, nfcID, requesterID)
	if err != nil {
		return nil, err
	}

	updated := *nfc
	if req.Name != "" {
		updated = updated.WithName(req.Name)
	}
	if req.LinkedAlbumID != "" {
		if _, err := s.albums.GetAlbum(ctx, req.LinkedAlbumID); err != nil {
			return nil, notFoundErr(err, "album", req.LinkedAlbumID)
		}
		updated = updated.WithLinkedAlbum(req.LinkedAlbumID)
	}
	if req.LinkedPersonID != "" {
		if _, err := s.persons.GetPerson(ctx, req.LinkedPersonID); err != nil {
			return nil, notFoundErr(err, "person", req.LinkedPersonID)
		}
		updated = updated.WithLinkedPerson(req.LinkedPersonID)
	}
	if err := s.nfcs.UpdateNfc(ctx, &updated); err != nil {
		return nil, notFoundErr(err, "nfc tag", nfcID)
	}
	return &updated, nil
}

func (s *nfcService) DeleteNfc(ctx context.Context, nfcID, requesterID string) error {
	if _, err := s.managedNfc(ctx, nfcID, requesterID); err != nil {
		return err
	}
	return notFoundErr(s.nfcs.DeleteNfc(ctx, nfcID), "nfc tag", nfcID)
}

func (s *nfcService) ResolveRef(ctx context.Context, nfcRef string) (*NfcAction, error) {
	nfc, err := s.nfcs.GetNfcByRef(ctx, nfcRef)
	if err != nil {
		return nil, notFoundErr(err, "nfc tag", nfcRef)
	}
	action := &NfcAction{Type: nfc.Type}
	if nfc.LinkedAlbumID.Valid {
		action.AlbumID = nfc.LinkedAlbumID.String
	}
	if nfc.LinkedPersonID.Valid {
		action.PersonID = nfc.LinkedPersonID.String
	}
	return action, nil
}
