package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/quillsearch/search-agent/internal/analytics"
	"github.com/quillsearch/search-agent/internal/api"
	"github.com/quillsearch/search-agent/internal/api/middleware"
	red "github.com/quillsearch/search-agent/internal/redis"
	"github.com/quillsearch/search-agent/internal/setup"
	logsetup "github.com/quillsearch/search-agent/internal/setup/logger"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Search Agent API",
			Description: "Web search with LLM answer synthesis",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "search", Description: "Search and synthesis"}},
		{TagProps: spec.TagProps{Name: "conversations", Description: "Conversation history"}},
	}
}

func main() {
	// Setup logging
	log.Logger = logsetup.New(os.Getenv("LOG_LEVEL"))
	logger := log.Logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx := context.Background()
	cfg := setup.LoadConfig()

	// Analytics sink: redis stream when configured, no-op otherwise.
	var tracker analytics.Tracker = analytics.NopTracker{}
	if cfg.RedisAddr != "" {
		redisClient, err := red.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		tracker = analytics.NewRedisTracker(redisClient, cfg.AnalyticsStream, &logger)
	}

	// Wire Components
	deps, err := setup.Wire(ctx, cfg, tracker, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// API
	handler := api.NewHandler(deps.Orchestrator, &logger)
	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)

	// OpenAPI doc
	openAPIConfig := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/apidocs.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(openAPIConfig))

	// CORS (chat UI runs on localhost:3000 by default)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	// Server
	port := getEnv("SEARCH_AGENT_API_PORT", "18080")
	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("address", addr).Msg("Starting Search Agent API")

	server := http.Server{
		Addr:    addr,
		Handler: corsHandler.Handler(container),
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return value
}
