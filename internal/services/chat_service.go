package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/repositories"
)

// ChatService handles direct messages and their read receipts
type ChatService struct {
	messages   repositories.MessageRepository
	users      repositories.UserRepository
	notifier   *Notifier
	dispatcher *Dispatcher
	now        func() time.Time
}

func NewChatService(messages repositories.MessageRepository, users repositories.UserRepository, notifier *Notifier, dispatcher *Dispatcher) *ChatService {
	return &ChatService{
		messages:   messages,
		users:      users,
		notifier:   notifier,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Send stores the message, pushes it to both parties and notifies the
// receiver. The receiver is not looked up; any non-zero id is accepted.
func (s *ChatService) Send(ctx context.Context, senderID uint, req models.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if req.ReceiverID == 0 || content == "" {
		return nil, apperrors.Invalid("receiverId and content are required")
	}
	sender, err := loadActor(ctx, s.users, senderID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    content,
		SentAt:     s.now(),
	}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return nil, apperrors.Internal("failed to send message", err)
	}

	s.dispatcher.DispatchMessage(msg)
	s.notifier.Notify(ctx, NotificationEvent{
		RecipientID:     msg.ReceiverID,
		Actor:           sender,
		Kind:            models.NotificationNewMessage,
		RelatedEntityID: uintPtr(msg.ID),
		Message:         "sent you a message",
	})
	return msg, nil
}

// Users lists the caller's conversation partners.
func (s *ChatService) Users(ctx context.Context, userID uint) ([]models.ChatUser, error) {
	partners, err := s.messages.GetChatPartners(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load chat users", err)
	}
	return partners, nil
}

// History marks the thread read for viewer and then returns it, oldest
// first.
func (s *ChatService) History(ctx context.Context, viewerID, otherID uint) ([]models.Message, error) {
	if _, err := s.MarkThreadRead(ctx, viewerID, otherID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.GetThread(ctx, viewerID, otherID)
	if err != nil {
		return nil, apperrors.Internal("failed to load chat history", err)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

// MarkThreadRead flips every unread message from otherID to viewerID in one
// update and sends a single MessagesRead to otherID with the ids it flipped.
func (s *ChatService) MarkThreadRead(ctx context.Context, viewerID, otherID uint) ([]uint, error) {
	unread, err := s.messages.GetUnreadFrom(ctx, viewerID, otherID)
	if err != nil {
		return nil, apperrors.Internal("failed to load unread messages", err)
	}
	if len(unread) == 0 {
		return []uint{}, nil
	}

	ids := make([]uint, 0, len(unread))
	for _, m := range unread {
		ids = append(ids, m.ID)
	}
	flipped, err := s.messages.MarkAsRead(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to mark messages as read", err)
	}
	// a concurrent call may have flipped some of them already
	if len(flipped) == 0 {
		return []uint{}, nil
	}

	s.dispatcher.DispatchMessagesRead(otherID, flipped)
	return flipped, nil
}

// MarkMessageRead is the read receipt for a single message. Only its
// receiver may mark it.
func (s *ChatService) MarkMessageRead(ctx context.Context, viewerID, messageID uint) error {
	msg, err := s.messages.GetMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("message not found")
		}
		return apperrors.Internal("failed to load message", err)
	}
	if msg.ReceiverID != viewerID {
		return apperrors.NotFound("message not found")
	}
	if msg.IsRead {
		return nil
	}

	flipped, err := s.messages.MarkAsRead(ctx, []uint{msg.ID})
	if err != nil {
		return apperrors.Internal("failed to mark message as read", err)
	}
	if len(flipped) > 0 {
		s.dispatcher.DispatchMessagesRead(msg.SenderID, []uint{msg.ID})
	}
	return nil
}
