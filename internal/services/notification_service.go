package services

import (
	"context"
	"time"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/cache"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/repositories"
	"github.com/anonto42/career-hub/backend/pkg/logger"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 50
)

// NotificationService serves a recipient's notification inbox
type NotificationService struct {
	notifications repositories.NotificationRepository
	unread        *cache.UnreadCache
	now           func() time.Time
}

func NewNotificationService(notifications repositories.NotificationRepository, unread *cache.UnreadCache) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		unread:        unread,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// NotificationPage is one page of a recipient's notifications
type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
	TotalPages    int                   `json:"totalPages"`
}

// List pages through the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID uint, filter models.NotificationFilter) (*NotificationPage, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, apperrors.Invalid("unknown notification type")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxNotificationLimit {
		filter.Limit = defaultNotificationLimit
	}

	items, total, err := s.notifications.GetByRecipientID(ctx, recipientID, filter)
	if err != nil {
		return nil, apperrors.Internal("failed to list notifications", err)
	}
	if items == nil {
		items = []models.Notification{}
	}
	return &NotificationPage{
		Notifications: items,
		Total:         total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}, nil
}

func (s *NotificationService) Grouped(ctx context.Context, recipientID uint) (*models.NotificationGroups, error) {
	groups, err := s.notifications.GetGrouped(ctx, recipientID, s.now())
	if err != nil {
		return nil, apperrors.Internal("failed to group notifications", err)
	}
	return groups, nil
}

// UnreadCount reads through the cache. Cache errors fall back to the database.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	if n, ok, err := s.unread.Get(ctx, recipientID); err != nil {
		logger.Log.WithField("userId", recipientID).WithError(err).Warn("unread cache read failed")
	} else if ok {
		return n, nil
	}

	version, verr := s.unread.Version(ctx, recipientID)
	if verr != nil {
		logger.Log.WithField("userId", recipientID).WithError(verr).Warn("unread cache version read failed")
	}
	n, err := s.notifications.GetUnreadCount(ctx, recipientID)
	if err != nil {
		return 0, apperrors.Internal("failed to count unread notifications", err)
	}
	if verr == nil {
		if err := s.unread.Fill(ctx, recipientID, version, n); err != nil {
			logger.Log.WithField("userId", recipientID).WithError(err).Warn("unread cache write failed")
		}
	}
	return n, nil
}

// MarkRead flips one notification owned by recipientID. Marking an already
// read notification is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID uint) error {
	if _, err := s.notifications.GetByIDForRecipient(ctx, id, recipientID); err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return apperrors.NotFound("notification not found")
		}
		return apperrors.Internal("failed to load notification", err)
	}
	flipped, err := s.notifications.MarkAsRead(ctx, id, recipientID)
	if err != nil {
		return apperrors.Internal("failed to mark notification as read", err)
	}
	if flipped {
		s.invalidate(ctx, recipientID)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) error {
	n, err := s.notifications.MarkAllAsRead(ctx, recipientID)
	if err != nil {
		return apperrors.Internal("failed to mark notifications as read", err)
	}
	if n > 0 {
		s.invalidate(ctx, recipientID)
	}
	return nil
}

func (s *NotificationService) Delete(ctx context.Context, id, recipientID uint) error {
	deleted, err := s.notifications.DeleteNotification(ctx, id, recipientID)
	if err != nil {
		return apperrors.Internal("failed to delete notification", err)
	}
	if !deleted {
		return apperrors.NotFound("notification not found")
	}
	s.invalidate(ctx, recipientID)
	return nil
}

// PurgeRead deletes read notifications older than retention.
func (s *NotificationService) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	return s.notifications.DeleteReadBefore(ctx, s.now().Add(-retention))
}

func (s *NotificationService) invalidate(ctx context.Context, recipientID uint) {
	if err := s.unread.Invalidate(ctx, recipientID); err != nil {
		logger.Log.WithField("userId", recipientID).WithError(err).Warn("failed to invalidate unread count")
	}
}
