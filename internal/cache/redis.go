package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/paradewx/parade-weather/internal/climate"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "series:"

// Redis is a climate.SeriesCache backed by Redis, for deployments running
// more than one replica. Values are JSON-encoded series with a TTL; any
// Redis error degrades to a cache miss so the service keeps answering from
// the upstream source.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

func (c *Redis) Get(ctx context.Context, key climate.FetchKey) (climate.TimeSeries, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key.String()).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("redis series lookup failed", "key", key.String(), "error", err)
		return nil, false
	}

	var series climate.TimeSeries
	if err := json.Unmarshal([]byte(data), &series); err != nil {
		c.logger.Warn("redis series entry corrupt", "key", key.String(), "error", err)
		return nil, false
	}
	return series, true
}

func (c *Redis) Set(ctx context.Context, key climate.FetchKey, series climate.TimeSeries) {
	data, err := json.Marshal(series)
	if err != nil {
		c.logger.Warn("marshal series for redis failed", "key", key.String(), "error", err)
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key.String(), data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis series store failed", "key", key.String(), "error", err)
	}
}
