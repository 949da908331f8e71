package synthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quillsearch/search-agent/internal/llm"
	"github.com/quillsearch/search-agent/internal/models"
	"github.com/rs/zerolog"
)

// ErrUnavailable marks synthesis failures (transport, timeout, empty
// model output). The orchestrator converts it into the degraded answer.
var ErrUnavailable = errors.New("synthesis unavailable")

type Synthesizer struct {
	llmClient   llm.LLMClient
	maxTokens   int
	temperature float64
	timeout     time.Duration
	logger      *zerolog.Logger
}

func NewSynthesizer(llmClient llm.LLMClient, maxTokens int, temperature float64, timeout time.Duration, logger *zerolog.Logger) *Synthesizer {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Synthesizer{
		llmClient:   llmClient,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}
}

// Synthesize runs one model round trip over the built context. Single
// attempt, bounded by the configured timeout.
func (s *Synthesizer) Synthesize(ctx context.Context, sctx models.SynthesisContext) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	now := time.Now()
	resp, err := s.llmClient.InvokeModel(ctx, llm.LLMRequest{
		Prompt:      Render(sctx),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("LLM call failed")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		s.logger.Error().Str("stop_reason", resp.StopReason).Msg("LLM returned empty answer")
		return "", fmt.Errorf("%w: empty answer", ErrUnavailable)
	}

	s.logger.Info().
		Dur("duration", time.Since(now)).
		Str("stop_reason", resp.StopReason).
		Msg("synthesis complete")

	return answer, nil
}
