package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quillsearch/search-agent/internal/aggregator"
	"github.com/quillsearch/search-agent/internal/analytics"
	"github.com/quillsearch/search-agent/internal/conversation"
	"github.com/quillsearch/search-agent/internal/models"
	"github.com/quillsearch/search-agent/internal/synthesis"
	"github.com/rs/zerolog"
)

// ErrInvalidQuery is the one caller error the search path surfaces:
// empty or malformed queries are rejected before any external call.
var ErrInvalidQuery = errors.New("invalid query")

// DegradedAnswer is recorded as the assistant turn when synthesis is
// unavailable. The request still succeeds.
const DegradedAnswer = "Sorry, I couldn't generate an answer right now. Please try again in a moment."

//go:generate mockgen -source=orchestrator.go -destination=mocks/mocks.go -package=mocks

// Planner derives up to three search strings for one query.
type Planner interface {
	Plan(query string, history []models.Turn) ([]string, error)
}

// Aggregator executes planned searches and merges their results.
type Aggregator interface {
	Aggregate(ctx context.Context, searchStrings []string) ([]models.SearchResult, error)
}

// Synthesizer produces the answer text from the grounding context.
type Synthesizer interface {
	Synthesize(ctx context.Context, sctx models.SynthesisContext) (string, error)
}

// Orchestrator runs the single search pipeline:
// plan -> search/aggregate -> synthesize -> record. Total search failure
// and synthesis failure both degrade rather than fail the request; only
// invalid queries are rejected.
type Orchestrator struct {
	planner     Planner
	aggregator  Aggregator
	builder     *synthesis.ContextBuilder
	synthesizer Synthesizer
	store       conversation.Store
	tracker     analytics.Tracker
	logger      *zerolog.Logger
}

func NewOrchestrator(
	planner Planner,
	aggregator Aggregator,
	builder *synthesis.ContextBuilder,
	synthesizer Synthesizer,
	store conversation.Store,
	tracker analytics.Tracker,
	logger *zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		planner:     planner,
		aggregator:  aggregator,
		builder:     builder,
		synthesizer: synthesizer,
		store:       store,
		tracker:     tracker,
		logger:      logger,
	}
}

// HandleSearch processes one query/conversation turn. A single pass, no
// automatic retries around the external calls.
func (o *Orchestrator) HandleSearch(ctx context.Context, query string, conversationID string) (models.SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return models.SearchResponse{}, fmt.Errorf("%w: empty query", ErrInvalidQuery)
	}

	runID := uuid.NewString()
	started := time.Now()

	conversationID, created := o.store.GetOrCreate(conversationID)

	var history []models.Turn
	if !created {
		if h, err := o.store.History(conversationID); err == nil {
			history = h
		}
	}

	o.tracker.Emit(ctx, analytics.Event{
		Type:           analytics.EventRunStarted,
		RunID:          runID,
		ConversationID: conversationID,
		Query:          query,
	})

	searchStrings, err := o.planner.Plan(query, history)
	if err != nil {
		o.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("query rejected")
		return models.SearchResponse{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	o.tracker.Emit(ctx, analytics.Event{
		Type:           analytics.EventUserMessage,
		RunID:          runID,
		ConversationID: conversationID,
		Query:          query,
	})

	results, err := o.aggregator.Aggregate(ctx, searchStrings)
	degraded := false
	if err != nil {
		if !errors.Is(err, aggregator.ErrAllSearchesFailed) {
			o.logger.Error().Err(err).Msg("unexpected aggregation failure, continuing without results")
		} else {
			o.logger.Warn().
				Int("searches", len(searchStrings)).
				Msg("all searches failed, continuing with empty result set")
		}
		results = nil
	}

	for _, s := range searchStrings {
		o.tracker.Emit(ctx, analytics.Event{
			Type:           analytics.EventSearchIssued,
			RunID:          runID,
			ConversationID: conversationID,
			SearchString:   s,
			SearchOK:       err == nil,
		})
	}

	sctx := o.builder.Build(query, history, results)

	answer, err := o.synthesizer.Synthesize(ctx, sctx)
	if err != nil {
		if !errors.Is(err, synthesis.ErrUnavailable) {
			o.logger.Error().Err(err).Msg("unexpected synthesis failure")
		}
		o.logger.Warn().Err(err).Msg("synthesis failed, returning degraded answer")
		answer = DegradedAnswer
		degraded = true
	}

	sources := make([]string, 0, len(results))
	for _, r := range results {
		sources = append(sources, r.URL)
	}

	now := time.Now()
	o.store.AppendExchange(conversationID,
		models.Turn{
			Role:      models.RoleUser,
			Content:   query,
			CreatedAt: now,
		},
		models.Turn{
			Role:      models.RoleAssistant,
			Content:   answer,
			Results:   results,
			Sources:   sources,
			CreatedAt: now,
		},
	)

	latency := time.Since(started)

	o.tracker.Emit(ctx, analytics.Event{
		Type:           analytics.EventAgentMessage,
		RunID:          runID,
		ConversationID: conversationID,
		ResultCount:    len(results),
		Degraded:       degraded,
		LatencyMS:      latency.Milliseconds(),
	})
	o.tracker.Emit(ctx, analytics.Event{
		Type:           analytics.EventRunCompleted,
		RunID:          runID,
		ConversationID: conversationID,
		LatencyMS:      latency.Milliseconds(),
	})

	o.logger.Info().
		Str("conversation_id", conversationID).
		Int("searches", len(searchStrings)).
		Int("results", len(results)).
		Bool("degraded", degraded).
		Dur("duration", latency).
		Msg("search complete")

	return models.SearchResponse{
		Query:          query,
		Results:        results,
		Answer:         answer,
		Sources:        sources,
		ConversationID: conversationID,
		Timestamp:      time.Now(),
	}, nil
}

// GetHistory is the read-only companion to HandleSearch. Unlike the
// search path it does not create missing conversations.
func (o *Orchestrator) GetHistory(conversationID string) ([]models.Turn, error) {
	return o.store.History(conversationID)
}
