// Package service implements the platform use cases on top of the repository
// layer. Services validate input, enforce group permissions and return apperr
// values; the HTTP layer maps those to status codes.
package service

import (
	"context"
	"errors"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
)

// notFoundErr maps the repository sentinel to a typed not-found error naming
// the entity. Other errors pass through.
func notFoundErr(err error, entity, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(entity, id)
	}
	return err
}

// partyValidator checks the shared preconditions of every sendable creation.
type partyValidator struct {
	persons repository.PersonsRepository
}

// validateParties resolves both persons and enforces sender != receiver and
// same-group membership.
func (v partyValidator) validateParties(ctx context.Context, senderID, receiverID string) (*domain.Person, *domain.Person, error) {
	if senderID == receiverID {
		return nil, nil, apperr.ErrSamePerson
	}
	sender, err := v.persons.GetPerson(ctx, senderID)
	if err != nil {
		return nil, nil, notFoundErr(err, "person", senderID)
	}
	receiver, err := v.persons.GetPerson(ctx, receiverID)
	if err != nil {
		return nil, nil, notFoundErr(err, "person", receiverID)
	}
	if sender.GroupID != receiver.GroupID {
		return nil, nil, apperr.ErrNotSameGroup
	}
	return sender, receiver, nil
}

// pushHelper resolves a person's device token and delivers a push. Analogue
// persons and accounts without a registered device are silently skipped.
type pushHelper struct {
	accounts repository.AccountsRepository
	notifier NotificationService
}

func (h pushHelper) notifyPerson(ctx context.Context, person *domain.Person, data map[string]string) bool {
	if !person.IsDigital() {
		return false
	}
	account, err := h.accounts.GetAccount(ctx, person.AccountID.String)
	if err != nil || !account.FcmToken.Valid {
		return false
	}
	return h.notifier.Send(ctx, account.FcmToken.String, data)
}
