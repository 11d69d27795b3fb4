package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
)

// MessageService exchanges text messages between group members.
type MessageService interface {
	CreateMessage(ctx context.Context, senderID, receiverID, text string) (domain.Message, error)
	Get(ctx context.Context, id, requesterID string) (domain.Message, error)
	FindAll(ctx context.Context, requesterID string) ([]domain.Message, error)
	FindSent(ctx context.Context, requesterID string) ([]domain.Message, error)
	FindReceived(ctx context.Context, requesterID string) ([]domain.Message, error)
	MarkAsSent(ctx context.Context, id, requesterID string) (domain.Message, error)
	MarkAsRetrieved(ctx context.Context, id, requesterID string) (domain.Message, error)
}

type messageService struct {
	sendableOps[domain.Message]
	partyValidator
	push pushHelper
	log  *zap.Logger
}

func NewMessageService(
	messages repository.MessagesRepository,
	persons repository.PersonsRepository,
	accounts repository.AccountsRepository,
	notifier NotificationService,
	log *zap.Logger,
) MessageService {
	return &messageService{
		sendableOps:    newSendableOps[domain.Message](messages, "message"),
		partyValidator: partyValidator{persons: persons},
		push:           pushHelper{accounts: accounts, notifier: notifier},
		log:            log,
	}
}

var _ MessageService = (*messageService)(nil)

func (s *messageService) CreateMessage(ctx context.Context, senderID, receiverID, text string) (domain.Message, error) {
	if text == "" {
		return domain.Message{}, apperr.Validation("message text must not be blank")
	}
	_, receiver, err := s.validateParties(ctx, senderID, receiverID)
	if err != nil {
		return domain.Message{}, err
	}

	message := domain.Message{
		SendableBase: domain.SendableBase{
			SenderID:   senderID,
			ReceiverID: receiverID,
			CreatedAt:  time.Now().UTC(),
		},
		Text: text,
	}
	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return domain.Message{}, err
	}

	if s.push.notifyPerson(ctx, receiver, map[string]string{
		"type":       "MESSAGE",
		"message_id": created.ID,
		"sender_id":  senderID,
	}) {
		created, err = s.repo.Update(ctx, created.WithSentAt(s.now()))
		if err != nil {
			return domain.Message{}, err
		}
	}
	s.log.Debug("message created", zap.String("message_id", created.ID))
	return created, nil
}
