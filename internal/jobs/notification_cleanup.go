// Package jobs holds scheduled maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/career-hub/backend/pkg/logger"
)

// NotificationPurger deletes read notifications older than a retention window.
type NotificationPurger interface {
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

const cleanupTimeout = 5 * time.Minute

// RunNotificationCleanup performs one purge pass.
func RunNotificationCleanup(ctx context.Context, purger NotificationPurger, retention time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, cleanupTimeout)
	defer cancel()

	n, err := purger.PurgeRead(ctx, retention)
	if err != nil {
		logger.Log.WithError(err).Error("notification cleanup failed")
		return
	}
	logger.Log.WithFields(logrus.Fields{"deleted": n, "retention": retention.String()}).Info("notification cleanup finished")
}

// StartNotificationCleanup schedules the purge and starts the scheduler.
// The caller stops the returned cron on shutdown.
func StartNotificationCleanup(schedule string, purger NotificationPurger, retention time.Duration) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		RunNotificationCleanup(context.Background(), purger, retention)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
