package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// UnreadCache is a read-through cache of per-user unread notification
// counts. Writers invalidate the key instead of adjusting it. Every
// invalidation also bumps a per-user version, and a reader only fills the
// key if the version it saw before counting is still current, so a count
// taken before a concurrent write is never stored after that write.
//
// A nil *UnreadCache, or one built without a client, is a valid cache that
// always misses.
type UnreadCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewUnreadCache(client *redis.Client, ttl time.Duration) *UnreadCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &UnreadCache{Client: client, TTL: ttl}
}

// KeyForUnread generates the Redis key for a user's unread count
func KeyForUnread(userID uint) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

func keyForUnreadVersion(userID uint) string {
	return fmt.Sprintf("notifications:unread:%d:version", userID)
}

func (c *UnreadCache) enabled() bool {
	return c != nil && c.Client != nil
}

// Get returns the cached count and whether it was present.
func (c *UnreadCache) Get(ctx context.Context, userID uint) (int64, bool, error) {
	if !c.enabled() {
		return 0, false, nil
	}
	val, err := c.Client.Get(ctx, KeyForUnread(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// Version returns the invalidation version to pass to Fill. Read it before
// counting.
func (c *UnreadCache) Version(ctx context.Context, userID uint) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	v, err := c.Client.Get(ctx, keyForUnreadVersion(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Fill stores count unless the key was invalidated after version was read.
// A skipped fill is not an error.
func (c *UnreadCache) Fill(ctx context.Context, userID uint, version, count int64) error {
	if !c.enabled() {
		return nil
	}
	versionKey := keyForUnreadVersion(userID)
	err := c.Client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, KeyForUnread(userID), count, c.TTL)
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil // invalidated while filling
	}
	return err
}

// Invalidate drops the cached count and bumps the version.
func (c *UnreadCache) Invalidate(ctx context.Context, userID uint) error {
	if !c.enabled() {
		return nil
	}
	_, err := c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, keyForUnreadVersion(userID))
		pipe.Del(ctx, KeyForUnread(userID))
		return nil
	})
	return err
}
