package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
	"github.com/ossi-austria/amigo-server-sub000/internal/storage"
)

// PersonService exposes member profiles. Profiles are visible to the person's
// own account and to members of the same group; only the owning account can
// change them.
type PersonService interface {
	GetPerson(ctx context.Context, accountID, personID string) (*domain.Person, error)
	UpdateName(ctx context.Context, accountID, personID, name string) (*domain.Person, error)
	UploadAvatar(ctx context.Context, accountID, personID string, r io.Reader) (*domain.Person, error)
	OpenAvatar(ctx context.Context, accountID, personID string) (io.ReadCloser, error)
}

type personService struct {
	persons repository.PersonsRepository
	files   *storage.FileStore
	log     *zap.Logger
}

func NewPersonService(persons repository.PersonsRepository, files *storage.FileStore, log *zap.Logger) PersonService {
	return &personService{persons: persons, files: files, log: log}
}

var _ PersonService = (*personService)(nil)

// visibleTo reports whether the account may see the person's profile.
func (s *personService) visibleTo(ctx context.Context, accountID string, person *domain.Person) (bool, error) {
	if person.AccountID.Valid && person.AccountID.String == accountID {
		return true, nil
	}
	own, err := s.persons.FindPersonsByAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	for _, p := range own {
		if p.GroupID == person.GroupID {
			return true, nil
		}
	}
	return false, nil
}

func (s *personService) GetPerson(ctx context.Context, accountID, personID string) (*domain.Person, error) {
	person, err := s.persons.GetPerson(ctx, personID)
	if err != nil {
		return nil, notFoundErr(err, "person", personID)
	}
	visible, err := s.visibleTo(ctx, accountID, person)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, apperr.ErrForbidden
	}
	return person, nil
}

// ownPerson loads the person and verifies it belongs to the acting account.
func (s *personService) ownPerson(ctx context.Context, accountID, personID string) (*domain.Person, error) {
	person, err := s.persons.GetPerson(ctx, personID)
	if err != nil {
		return nil, notFoundErr(err, "person", personID)
	}
	if !person.AccountID.Valid || person.AccountID.String != accountID {
		return nil, apperr.ErrForbidden
	}
	return person, nil
}

func (s *personService) UpdateName(ctx context.Context, accountID, personID, name string) (*domain.Person, error) {
	if name == "" {
		return nil, apperr.Validation("name must not be blank")
	}
	person, err := s.ownPerson(ctx, accountID, personID)
	if err != nil {
		return nil, err
	}
	updated := person.WithName(name)
	if err := s.persons.UpdatePerson(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("name is already used in this group")
		}
		return nil, err
	}
	return &updated, nil
}

func (s *personService) UploadAvatar(ctx context.Context, accountID, personID string, r io.Reader) (*domain.Person, error) {
	person, err := s.ownPerson(ctx, accountID, personID)
	if err != nil {
		return nil, err
	}
	key, size, err := s.files.Save(r)
	if err != nil {
		return nil, err
	}
	if person.AvatarKey.Valid {
		if err := s.files.Delete(person.AvatarKey.String); err != nil {
			s.log.Warn("failed to delete previous avatar", zap.String("person_id", personID), zap.Error(err))
		}
	}
	updated := person.WithAvatarKey(key)
	if err := s.persons.UpdatePerson(ctx, &updated); err != nil {
		return nil, err
	}
	s.log.Info("avatar uploaded",
		zap.String("person_id", personID),
		zap.Int64("size", size))
	return &updated, nil
}

func (s *personService) OpenAvatar(ctx context.Context, accountID, personID string) (io.ReadCloser, error) {
	person, err := s.GetPerson(ctx, accountID, personID)
	if err != nil {
		return nil, err
	}
	if !person.AvatarKey.Valid {
		return nil, apperr.NotFound("avatar", personID)
	}
	return s.files.Open(person.AvatarKey.String)
}
