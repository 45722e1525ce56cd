package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/career-hub/backend/internal/cache"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/realtime"
	"github.com/anonto42/career-hub/backend/pkg/logger"
)

// Broadcaster pushes an event to every live session of a user.
type Broadcaster interface {
	BroadcastToUser(userID uint, event string, payload interface{})
}

// Dispatcher pushes persisted records to the live sessions concerned. It
// never fails the caller; problems are logged.
type Dispatcher struct {
	notifications Broadcaster
	chat          Broadcaster
	unread        *cache.UnreadCache
}

func NewDispatcher(notifications, chat Broadcaster, unread *cache.UnreadCache) *Dispatcher {
	return &Dispatcher{notifications: notifications, chat: chat, unread: unread}
}

// Dispatch sends ReceiveNotification to the recipient's group. A nil
// notification is ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, n *models.Notification) {
	if n == nil {
		return
	}
	if err := d.unread.Invalidate(ctx, n.RecipientID); err != nil {
		logger.Log.WithField("userId", n.RecipientID).WithError(err).Warn("failed to invalidate unread count")
	}
	d.notifications.BroadcastToUser(n.RecipientID, realtime.EventReceiveNotification, n.EventPayload())
}

// MessagePayload is the body of the ReceiveMessage push
func MessagePayload(m *models.Message) map[string]interface{} {
	return map[string]interface{}{
		"id":         m.ID,
		"senderId":   m.SenderID,
		"receiverId": m.ReceiverID,
		"content":    m.Content,
		"sentAt":     m.SentAt,
		"isRead":     m.IsRead,
	}
}

// DispatchMessage sends ReceiveMessage to the sender's and the receiver's
// groups, once when they are the same user.
func (d *Dispatcher) DispatchMessage(m *models.Message) {
	payload := MessagePayload(m)
	d.chat.BroadcastToUser(m.ReceiverID, realtime.EventReceiveMessage, payload)
	if m.SenderID != m.ReceiverID {
		d.chat.BroadcastToUser(m.SenderID, realtime.EventReceiveMessage, payload)
	}
}

// DispatchMessagesRead tells a sender which of their messages were read.
func (d *Dispatcher) DispatchMessagesRead(senderID uint, ids []uint) {
	if len(ids) == 0 {
		return
	}
	d.chat.BroadcastToUser(senderID, realtime.EventMessagesRead, ids)
}

// Notifier composes a notification and dispatches it once persisted.
type Notifier struct {
	composer   *Composer
	dispatcher *Dispatcher
}

func NewNotifier(composer *Composer, dispatcher *Dispatcher) *Notifier {
	return &Notifier{composer: composer, dispatcher: dispatcher}
}

// Notify runs after the triggering action has committed, so a failure here
// is logged and does not undo or fail that action.
func (n *Notifier) Notify(ctx context.Context, ev NotificationEvent) *models.Notification {
	notification, err := n.composer.Compose(ctx, ev)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"kind":        ev.Kind,
			"recipientId": ev.RecipientID,
		}).WithError(err).Error("failed to create notification")
		return nil
	}
	n.dispatcher.Dispatch(ctx, notification)
	return notification
}
