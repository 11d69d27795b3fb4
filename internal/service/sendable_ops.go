package service

import (
	"context"
	"time"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
)

// sendableOps is the shared read/update surface embedded by every sendable
// service. requesterID scopes reads to the parties of the exchange.
type sendableOps[T domain.Sendable[T]] struct {
	repo   repository.SendableRepository[T]
	entity string
	now    func() time.Time
}

func newSendableOps[T domain.Sendable[T]](repo repository.SendableRepository[T], entity string) sendableOps[T] {
	return sendableOps[T]{repo: repo, entity: entity, now: func() time.Time { return time.Now().UTC() }}
}

// Get fetches one entity; requesters that are neither sender nor receiver get
// a forbidden-content error rather than a not-found, so existence leaks only
// to group peers involved in the exchange.
func (o *sendableOps[T]) Get(ctx context.Context, id, requesterID string) (T, error) {
	var zero T
	item, err := o.repo.Get(ctx, id)
	if err != nil {
		return zero, notFoundErr(err, o.entity, id)
	}
	if requesterID != item.Sender() && requesterID != item.Receiver() {
		return zero, apperr.ErrForbidden
	}
	return item, nil
}

// FindAll returns every exchange the requester is a party of.
func (o *sendableOps[T]) FindAll(ctx context.Context, requesterID string) ([]T, error) {
	return o.repo.FindByParty(ctx, requesterID)
}

// FindSent returns exchanges sent by the requester.
func (o *sendableOps[T]) FindSent(ctx context.Context, requesterID string) ([]T, error) {
	return o.repo.FindBySender(ctx, requesterID)
}

// FindReceived returns exchanges addressed to the requester.
func (o *sendableOps[T]) FindReceived(ctx context.Context, requesterID string) ([]T, error) {
	return o.repo.FindByReceiver(ctx, requesterID)
}

// MarkAsSent stamps the delivery timestamp. Either party may report delivery.
func (o *sendableOps[T]) MarkAsSent(ctx context.Context, id, requesterID string) (T, error) {
	var zero T
	item, err := o.Get(ctx, id, requesterID)
	if err != nil {
		return zero, err
	}
	updated, err := o.repo.Update(ctx, item.WithSentAt(o.now()))
	if err != nil {
		return zero, notFoundErr(err, o.entity, id)
	}
	return updated, nil
}

// MarkAsRetrieved stamps the read timestamp. Only the receiver opens an
// exchange.
func (o *sendableOps[T]) MarkAsRetrieved(ctx context.Context, id, requesterID string) (T, error) {
	var zero T
	item, err := o.Get(ctx, id, requesterID)
	if err != nil {
		return zero, err
	}
	if requesterID != item.Receiver() {
		return zero, apperr.ErrNotParty.Withf("only the receiver can mark %s as retrieved", o.entity)
	}
	updated, err := o.repo.Update(ctx, item.WithRetrievedAt(o.now()))
	if err != nil {
		return zero, notFoundErr(err, o.entity, id)
	}
	return updated, nil
}
