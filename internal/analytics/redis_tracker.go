package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisTracker publishes events to a redis stream via XADD. Failures
// are logged and dropped; the search pipeline never blocks on
// analytics.
type RedisTracker struct {
	client *redis.Client
	stream string
	logger *zerolog.Logger
}

func NewRedisTracker(client *redis.Client, stream string, logger *zerolog.Logger) *RedisTracker {
	return &RedisTracker{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (t *RedisTracker) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		t.logger.Error().Err(err).Str("type", string(event.Type)).Msg("failed to encode analytics event")
		return
	}

	err = t.client.XAdd(ctx, &redis.XAddArgs{
		Stream: t.stream,
		Values: map[string]any{"payload": string(payload)},
	}).Err()
	if err != nil {
		t.logger.Warn().Err(err).Str("type", string(event.Type)).Msg("failed to publish analytics event")
	}
}
