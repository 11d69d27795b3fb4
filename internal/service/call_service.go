package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
)

// CallService drives the call lifecycle:
//
//	CREATED → CALLING → {ACCEPTED, DENIED, CANCELLED, TIMEOUT} → FINISHED
//
// A call is created with per-party room tokens. Reaching the receiver's
// device moves it to CALLING; a push failure leaves it in CREATED without a
// sent timestamp but never fails the creation.
type CallService interface {
	CreateCall(ctx context.Context, senderID, receiverID string, callType domain.CallType) (domain.Call, error)
	// CancelCall withdraws a call before pickup. Sender only.
	CancelCall(ctx context.Context, id, requesterID string) (domain.Call, error)
	// DenyCall rejects an incoming call. Receiver only.
	DenyCall(ctx context.Context, id, requesterID string) (domain.Call, error)
	// AcceptCall answers an incoming call. Receiver only.
	AcceptCall(ctx context.Context, id, requesterID string) (domain.Call, error)
	// FinishCall ends an accepted call. Either party.
	FinishCall(ctx context.Context, id, requesterID string) (domain.Call, error)
	// TimeoutCall expires an unanswered or stale call. Either party.
	TimeoutCall(ctx context.Context, id, requesterID string) (domain.Call, error)

	Get(ctx context.Context, id, requesterID string) (domain.Call, error)
	FindAll(ctx context.Context, requesterID string) ([]domain.Call, error)
	FindSent(ctx context.Context, requesterID string) ([]domain.Call, error)
	FindReceived(ctx context.Context, requesterID string) ([]domain.Call, error)
	MarkAsSent(ctx context.Context, id, requesterID string) (domain.Call, error)
	MarkAsRetrieved(ctx context.Context, id, requesterID string) (domain.Call, error)
}

type callService struct {
	sendableOps[domain.Call]
	partyValidator
	persons repository.PersonsRepository
	jitsi   JitsiJwtService
	push    pushHelper
	log     *zap.Logger
}

func NewCallService(
	calls repository.CallsRepository,
	persons repository.PersonsRepository,
	accounts repository.AccountsRepository,
	jitsi JitsiJwtService,
	notifier NotificationService,
	log *zap.Logger,
) CallService {
	return &callService{
		sendableOps:    newSendableOps[domain.Call](calls, "call"),
		partyValidator: partyValidator{persons: persons},
		persons:        persons,
		jitsi:          jitsi,
		push:           pushHelper{accounts: accounts, notifier: notifier},
		log:            log,
	}
}

var _ CallService = (*callService)(nil)

func (s *callService) CreateCall(ctx context.Context, senderID, receiverID string, callType domain.CallType) (domain.Call, error) {
	if !callType.Valid() {
		return domain.Call{}, apperr.Validation("unknown call type")
	}
	sender, receiver, err := s.validateParties(ctx, senderID, receiverID)
	if err != nil {
		return domain.Call{}, err
	}

	roomID := uuid.NewString()
	senderToken, err := s.jitsi.RoomToken(roomID, sender)
	if err != nil {
		return domain.Call{}, err
	}
	receiverToken, err := s.jitsi.RoomToken(roomID, receiver)
	if err != nil {
		return domain.Call{}, err
	}

	call := domain.Call{
		SendableBase: domain.SendableBase{
			SenderID:   senderID,
			ReceiverID: receiverID,
			CreatedAt:  time.Now().UTC(),
		},
		CallType:      callType,
		CallState:     domain.CallStateCreated,
		SenderToken:   senderToken,
		ReceiverToken: receiverToken,
	}
	created, err := s.repo.Create(ctx, call)
	if err != nil {
		return domain.Call{}, err
	}

	if s.push.notifyPerson(ctx, receiver, map[string]string{
		"type":      "CALL",
		"call_id":   created.ID,
		"call_type": string(callType),
		"sender_id": senderID,
	}) {
		created, err = s.repo.Update(ctx, created.WithState(domain.CallStateCalling).WithSentAt(s.now()))
		if err != nil {
			return domain.Call{}, err
		}
	} else {
		s.log.Warn("call receiver not reachable by push", zap.String("call_id", created.ID))
	}

	s.log.Info("call created",
		zap.String("call_id", created.ID),
		zap.String("state", string(created.CallState)))
	return created, nil
}

// transition loads the call, validates the state machine and the acting
// party, then persists the stamped copy.
func (s *callService) transition(
	ctx context.Context,
	id, requesterID string,
	next domain.CallState,
	partyOK func(c domain.Call) bool,
	stamp func(c domain.Call) domain.Call,
) (domain.Call, error) {
	call, err := s.Get(ctx, id, requesterID)
	if err != nil {
		return domain.Call{}, err
	}
	if !call.CallState.CanTransitionTo(next) {
		return domain.Call{}, apperr.ErrBadTransition.Withf("cannot move call from %s to %s", call.CallState, next)
	}
	if !partyOK(call) {
		return domain.Call{}, apperr.ErrNotParty.Withf("transition to %s is not allowed for this party", next)
	}

	updated, err := s.repo.Update(ctx, stamp(call.WithState(next)))
	if err != nil {
		return domain.Call{}, notFoundErr(err, "call", id)
	}
	s.log.Info("call state changed",
		zap.String("call_id", id),
		zap.String("from", string(call.CallState)),
		zap.String("to", string(next)))
	return updated, nil
}

// notifyParty pushes a state-change event to the person, when reachable.
func (s *callService) notifyParty(ctx context.Context, call domain.Call, personID string) {
	person, err := s.persons.GetPerson(ctx, personID)
	if err != nil {
		return
	}
	s.push.notifyPerson(ctx, person, map[string]string{
		"type":    "CALL_STATE",
		"call_id": call.ID,
		"state":   string(call.CallState),
	})
}

func (s *callService) CancelCall(ctx context.Context, id, requesterID string) (domain.Call, error) {
	call, err := s.transition(ctx, id, requesterID, domain.CallStateCancelled,
		func(c domain.Call) bool { return requesterID == c.SenderID },
		func(c domain.Call) domain.Call { return c },
	)
	if err != nil {
		return domain.Call{}, err
	}
	s.notifyParty(ctx, call, call.ReceiverID)
	return call, nil
}

func (s *callService) DenyCall(ctx context.Context, id, requesterID string) (domain.Call, error) {
	call, err := s.transition(ctx, id, requesterID, domain.CallStateDenied,
		func(c domain.Call) bool { return requesterID == c.ReceiverID },
		func(c domain.Call) domain.Call { return c.WithRetrievedAt(s.now()) },
	)
	if err != nil {
		return domain.Call{}, err
	}
	s.notifyParty(ctx, call, call.SenderID)
	return call, nil
}

func (s *callService) AcceptCall(ctx context.Context, id, requesterID string) (domain.Call, error) {
	call, err := s.transition(ctx, id, requesterID, domain.CallStateAccepted,
		func(c domain.Call) bool { return requesterID == c.ReceiverID },
		func(c domain.Call) domain.Call {
			now := s.now()
			return c.WithStartedAt(now).WithRetrievedAt(now)
		},
	)
	if err != nil {
		return domain.Call{}, err
	}
	s.notifyParty(ctx, call, call.SenderID)
	return call, nil
}

func (s *callService) FinishCall(ctx context.Context, id, requesterID string) (domain.Call, error) {
	call, err := s.transition(ctx, id, requesterID, domain.CallStateFinished,
		func(c domain.Call) bool { return true },
		func(c domain.Call) domain.Call { return c.WithFinishedAt(s.now()) },
	)
	if err != nil {
		return domain.Call{}, err
	}
	s.notifyParty(ctx, call, call.SenderID)
	s.notifyParty(ctx, call, call.ReceiverID)
	return call, nil
}

func (s *callService) TimeoutCall(ctx context.Context, id, requesterID string) (domain.Call, error) {
	call, err := s.transition(ctx, id, requesterID, domain.CallStateTimeout,
		func(c domain.Call) bool { return true },
		func(c domain.Call) domain.Call { return c.WithFinishedAt(s.now()) },
	)
	if err != nil {
		return domain.Call{}, err
	}
	s.notifyParty(ctx, call, call.SenderID)
	s.notifyParty(ctx, call, call.ReceiverID)
	return call, nil
}
