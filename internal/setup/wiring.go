package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/quillsearch/search-agent/internal/aggregator"
	"github.com/quillsearch/search-agent/internal/analytics"
	"github.com/quillsearch/search-agent/internal/config"
	"github.com/quillsearch/search-agent/internal/conversation"
	"github.com/quillsearch/search-agent/internal/llm"
	"github.com/quillsearch/search-agent/internal/llm/bedrock"
	"github.com/quillsearch/search-agent/internal/llm/gpt"
	"github.com/quillsearch/search-agent/internal/orchestrator"
	"github.com/quillsearch/search-agent/internal/planner"
	"github.com/quillsearch/search-agent/internal/search/duckduckgo"
	"github.com/quillsearch/search-agent/internal/synthesis"
	"github.com/rs/zerolog"
)

type Config struct {
	AWSRegion         string
	ClaudeModelID     string
	OpenAIKey         string
	OpenAIModelID     string
	DefaultProvider   string
	MaxResults        int
	SearchTimeout     time.Duration
	SynthesisTimeout  time.Duration
	MaxPriorTurns     int
	ContextCharBudget int
	AnswerMaxTokens   int
	AnswerTemperature float64
	MaxConversations  int
	RedisAddr         string
	RedisPassword     string
	AnalyticsStream   string
}

type Dependencies struct {
	Orchestrator *orchestrator.Orchestrator
	Store        conversation.Store
	Logger       *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:     getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:         getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:     getEnv("OPEN_AI_MODEL_ID", ""),
		DefaultProvider:   getEnv("DEFAULT_LLM_PROVIDER", "bedrock"),
		MaxResults:        getEnvInt("MAX_RESULTS", 8),
		SearchTimeout:     getEnvDuration("SEARCH_TIMEOUT", 10*time.Second),
		SynthesisTimeout:  getEnvDuration("SYNTHESIS_TIMEOUT", 30*time.Second),
		MaxPriorTurns:     getEnvInt("MAX_PRIOR_TURNS", synthesis.DefaultMaxPriorTurns),
		ContextCharBudget: getEnvInt("CONTEXT_CHAR_BUDGET", synthesis.DefaultCharBudget),
		AnswerMaxTokens:   getEnvInt("ANSWER_MAX_TOKENS", 1024),
		AnswerTemperature: getEnvFloat("ANSWER_TEMPERATURE", 0.1),
		MaxConversations:  getEnvInt("MAX_CONVERSATIONS", 0),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		AnalyticsStream:   getEnv("ANALYTICS_STREAM", "search-events"),
	}
}

func Wire(ctx context.Context, cfg *Config, tracker analytics.Tracker, logger *zerolog.Logger) (*Dependencies, error) {
	llmClient, err := createLLMClient(ctx, cfg.DefaultProvider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	// Planner policy from YAML, falling back to built-in defaults when
	// the file is absent (CLI use).
	plannerConfig, err := config.LoadPlannerConfig()
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load planner config: %w", err)
		}
		plannerConfig = config.DefaultPlannerConfig()
	}
	searchPlanner := planner.NewPlanner(plannerConfig, logger)

	// Provider + aggregation
	provider := duckduckgo.NewClient(cfg.SearchTimeout)
	agg := aggregator.NewAggregator(provider, cfg.MaxResults, cfg.SearchTimeout, logger)

	// Synthesis
	builder := synthesis.NewContextBuilder(cfg.MaxPriorTurns, cfg.ContextCharBudget)
	synthesizer := synthesis.NewSynthesizer(llmClient, cfg.AnswerMaxTokens, cfg.AnswerTemperature, cfg.SynthesisTimeout, logger)

	// Conversation registry
	store := conversation.NewInMemoryStore(cfg.MaxConversations)

	if tracker == nil {
		tracker = analytics.NopTracker{}
	}

	orch := orchestrator.NewOrchestrator(searchPlanner, agg, builder, synthesizer, store, tracker, logger)

	return &Dependencies{
		Orchestrator: orch,
		Store:        store,
		Logger:       logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.LLMClient, error) {
	switch provider {
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	default:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	}
}
