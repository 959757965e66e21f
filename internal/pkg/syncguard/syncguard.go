package syncguard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yigit/taskroom/internal/pkg/logger"
)

const (
	lockKeyPrefix     = "sync:user:"
	lastSyncKeyPrefix = "sync:last:"
)

// Guard serializes task synchronization per user using a Redis lock.
// Only one sync may run for a given user at a time; a second attempt
// while the lock is held is rejected rather than queued.
type Guard struct {
	client  *redis.Client
	lockTTL time.Duration
}

// NewGuard creates a sync guard backed by the given Redis client.
func NewGuard(client *redis.Client, lockTTL time.Duration) *Guard {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &Guard{client: client, lockTTL: lockTTL}
}

// TryLock attempts to acquire the sync lock for a user.
// Returns false if another sync for the same user is already in progress.
func (g *Guard) TryLock(ctx context.Context, userID int64) (bool, error) {
	key := lockKey(userID)
	ok, err := g.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), g.lockTTL).Result()
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to acquire sync lock")
		return false, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	return ok, nil
}

// Unlock releases the sync lock for a user.
func (g *Guard) Unlock(ctx context.Context, userID int64) error {
	if err := g.client.Del(ctx, lockKey(userID)).Err(); err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to release sync lock")
		return fmt.Errorf("failed to release sync lock: %w", err)
	}
	return nil
}

// RecordSync stores the completion time of the last successful sync.
func (g *Guard) RecordSync(ctx context.Context, userID int64, at time.Time) {
	key := lastSyncKeyPrefix + fmt.Sprint(userID)
	if err := g.client.Set(ctx, key, at.UTC().Format(time.RFC3339), 0).Err(); err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to record last sync time")
	}
}

// LastSync returns the completion time of the user's last successful sync,
// or the zero time if none has been recorded.
func (g *Guard) LastSync(ctx context.Context, userID int64) (time.Time, error) {
	key := lastSyncKeyPrefix + fmt.Sprint(userID)
	val, err := g.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last sync time: %w", err)
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid last sync timestamp: %w", err)
	}
	return t, nil
}

func lockKey(userID int64) string {
	return lockKeyPrefix + fmt.Sprint(userID)
}
