package models

import (
	"net/url"
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Input message

type SearchRequest struct {
	Query          string `json:"query" description:"Natural-language query to answer"`
	ConversationID string `json:"conversation_id,omitempty" description:"Existing conversation to continue (omit to start a new one)"`
}

type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Domain  string `json:"domain"`
}

// DedupKey is the identity used when merging results from multiple
// searches: lowercased host plus path, trailing slash removed.
func (r SearchResult) DedupKey() string {
	u, err := url.Parse(strings.TrimSpace(r.URL))
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimRight(strings.TrimSpace(r.URL), "/"))
	}
	key := strings.ToLower(u.Host + u.Path)
	return strings.TrimRight(key, "/")
}

// DomainOf derives the display domain for a result URL.
func DomainOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

// Turn is one role-tagged message within a conversation. Turns are
// immutable once appended.
type Turn struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Results   []SearchResult `json:"results,omitempty"`
	Sources   []string       `json:"sources,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type SearchResponse struct {
	Query          string         `json:"query"`
	Results        []SearchResult `json:"results"`
	Answer         string         `json:"answer"`
	Sources        []string       `json:"sources"`
	ConversationID string         `json:"conversation_id"`
	Timestamp      time.Time      `json:"timestamp"`
}

type ConversationHistory struct {
	ConversationID string `json:"conversation_id"`
	Turns          []Turn `json:"turns"`
}

// SynthesisContext is the grounding material handed to the language
// model: the query, recent prior turns, and the snippets that survived
// the character budget.
type SynthesisContext struct {
	Query      string         `json:"query"`
	PriorTurns []Turn         `json:"prior_turns"`
	Results    []SearchResult `json:"results"`
}
