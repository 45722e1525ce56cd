// Package services holds the business rules behind the HTTP and websocket
// handlers.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/repositories"
)

// NotificationEvent describes something an actor did that concerns a recipient.
type NotificationEvent struct {
	RecipientID     uint
	Actor           *models.User
	Kind            models.NotificationKind
	RelatedEntityID *uint
	Message         string
	PostType        *models.PostKind
	Extra           map[string]interface{}
}

// Composer turns events into persisted notifications.
type Composer struct {
	notifications repositories.NotificationRepository
	now           func() time.Time
}

func NewComposer(notifications repositories.NotificationRepository) *Composer {
	return &Composer{
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Compose persists the notification for ev and returns it. Nothing is
// written when the actor is the recipient, and the result is nil.
func (c *Composer) Compose(ctx context.Context, ev NotificationEvent) (*models.Notification, error) {
	if ev.Actor == nil {
		return nil, fmt.Errorf("compose %s: missing actor", ev.Kind)
	}
	if ev.RecipientID == ev.Actor.ID {
		return nil, nil
	}
	if !ev.Kind.Valid() {
		return nil, fmt.Errorf("compose: unknown notification kind %q", ev.Kind)
	}

	n := &models.Notification{
		RecipientID:     ev.RecipientID,
		Message:         ev.Message,
		Kind:            ev.Kind,
		CreatedAt:       c.now(),
		RelatedEntityID: ev.RelatedEntityID,
		SenderName:      ev.Actor.FullName(),
		SenderImageURL:  ev.Actor.ProfilePictureURL,
		PostType:        ev.PostType,
	}
	if len(ev.Extra) > 0 {
		n.Extra = ev.Extra
	}
	if err := c.notifications.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("persist %s notification: %w", ev.Kind, err)
	}
	return n, nil
}

func uintPtr(v uint) *uint { return &v }

func postKindPtr(k models.PostKind) *models.PostKind { return &k }
