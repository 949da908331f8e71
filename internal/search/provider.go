package search

import (
	"context"
	"errors"

	"github.com/quillsearch/search-agent/internal/models"
)

// ErrTransport marks network-level provider failures, including timeouts.
// The aggregator absorbs it per search string; callers that need to know
// use errors.Is.
var ErrTransport = errors.New("search transport failed")

// Provider abstracts a concrete web-search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
}
