package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
	"github.com/ndtam/vod-transcode-be/shared/redis"
)

const keyPrefix = "progress:"

// ErrUnavailable wraps any cache failure. Callers treat it as a degraded
// read (progress 0), never as a reason to fail the request: terminal
// outcomes live in the durable record, not here.
var ErrUnavailable = errors.New("progress cache unavailable")

// Cache is the ephemeral per-media progress store. Writes are best-effort
// and last-write-wins; an entry exists only while the media is transcoding.
type Cache struct {
	rdb    *goredis.Client
	logger *slog.Logger
}

func NewCache(client *redis.Client, logger *slog.Logger) *Cache {
	return &Cache{
		rdb:    client.GetRDB(),
		logger: logger,
	}
}

// Key returns the cache key for a media item.
func Key(mediaID string) string {
	return keyPrefix + mediaID
}

// Set stores the last known percent for a media item. No TTL: the
// completion callback deletes the entry on any terminal outcome.
func (c *Cache) Set(ctx context.Context, mediaID string, percent int) error {
	percent = ClampPercent(percent)

	if err := c.rdb.Set(ctx, Key(mediaID), strconv.Itoa(percent), 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrUnavailable, Key(mediaID), err)
	}

	return nil
}

// Get returns the last known percent and whether an entry exists.
func (c *Cache) Get(ctx context.Context, mediaID string) (int, bool, error) {
	val, err := c.rdb.Get(ctx, Key(mediaID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: get %s: %v", ErrUnavailable, Key(mediaID), err)
	}

	percent, err := strconv.Atoi(val)
	if err != nil {
		c.logger.Warn("Discarding non-integer progress value",
			slog.String("media_id", mediaID),
			slog.String("value", val),
		)
		return 0, false, nil
	}

	return ClampPercent(percent), true, nil
}

// Delete removes the progress entry for a media item.
func (c *Cache) Delete(ctx context.Context, mediaID string) error {
	if err := c.rdb.Del(ctx, Key(mediaID)).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrUnavailable, Key(mediaID), err)
	}

	return nil
}

// ClampPercent bounds a percent value to [0, 100].
func ClampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
