package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/quillsearch/search-agent/internal/analytics"
	logsetup "github.com/quillsearch/search-agent/internal/setup/logger"
	"github.com/quillsearch/search-agent/internal/stream"
	"github.com/rs/zerolog/log"
)

// Tails the analytics stream and logs each event. Useful when watching
// a running agent without standing up a full analytics pipeline.
func main() {
	log.Logger = logsetup.New(os.Getenv("LOG_LEVEL"))
	logger := log.Logger

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	streamName := os.Getenv("ANALYTICS_STREAM")
	if streamName == "" {
		streamName = "search-events"
	}

	consumerName := os.Getenv("HOSTNAME")
	if consumerName == "" {
		consumerName = "events-tail"
	}
	streamCfg := stream.NewStreamConfig(addr, streamName, "search-events-tail", consumerName)

	consumer, err := stream.NewStreamConsumer(ctx, "redis", streamCfg, func(event analytics.Event) {
		logger.Info().
			Str("type", string(event.Type)).
			Str("run_id", event.RunID).
			Str("conversation_id", event.ConversationID).
			Str("query", event.Query).
			Str("search", event.SearchString).
			Int("results", event.ResultCount).
			Bool("degraded", event.Degraded).
			Int64("latency_ms", event.LatencyMS).
			Msg("event")
	}, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down...")
}
