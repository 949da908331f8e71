package stream

import (
	"context"
	"fmt"

	"github.com/quillsearch/search-agent/internal/analytics"
	red "github.com/quillsearch/search-agent/internal/redis"
	streamredis "github.com/quillsearch/search-agent/internal/stream/redis"
	"github.com/rs/zerolog"
)

// NewStreamConsumer builds a consumer for the configured provider.
// Redis streams is the only provider today.
func NewStreamConsumer(
	ctx context.Context,
	provider string,
	cfg *StreamConfig,
	sink func(analytics.Event),
	logger *zerolog.Logger,
) (StreamConsumer, error) {
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		client, err := red.ConnectRedis(ctx, cfg.RedisAddr, "", 5)
		if err != nil {
			return nil, err
		}

		return streamredis.NewConsumer(
			client,
			cfg.Stream,
			cfg.Group,
			cfg.ConsumerName,
			sink,
			logger,
		), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", provider)
	}
}
