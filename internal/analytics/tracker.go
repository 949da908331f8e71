package analytics

import (
	"context"
	"time"
)

type EventType string

const (
	EventRunStarted   EventType = "run_started"
	EventUserMessage  EventType = "user_message"
	EventAgentMessage EventType = "agent_message"
	EventSearchIssued EventType = "search_issued"
	EventRunCompleted EventType = "run_completed"
)

// Event is one interaction record published to the analytics stream.
type Event struct {
	Type           EventType `json:"type"`
	RunID          string    `json:"run_id"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Query          string    `json:"query,omitempty"`
	SearchString   string    `json:"search_string,omitempty"`
	SearchOK       bool      `json:"search_ok,omitempty"`
	ResultCount    int       `json:"result_count,omitempty"`
	Degraded       bool      `json:"degraded,omitempty"`
	LatencyMS      int64     `json:"latency_ms,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Tracker publishes interaction events. Emission is best-effort: a
// tracker must never fail the request it is observing.
type Tracker interface {
	Emit(ctx context.Context, event Event)
}

// NopTracker is used when no analytics sink is configured.
type NopTracker struct{}

func (NopTracker) Emit(ctx context.Context, event Event) {}
