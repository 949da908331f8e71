package aggregator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/quillsearch/search-agent/internal/models"
	"github.com/quillsearch/search-agent/internal/search"
	"github.com/rs/zerolog"
)

// ErrAllSearchesFailed signals total search unavailability: every
// planned string's provider call failed. Individual failures are
// absorbed and only logged.
var ErrAllSearchesFailed = errors.New("all searches failed")

type Aggregator struct {
	provider      search.Provider
	maxResults    int
	searchTimeout time.Duration
	logger        *zerolog.Logger
}

func NewAggregator(provider search.Provider, maxResults int, searchTimeout time.Duration, logger *zerolog.Logger) *Aggregator {
	if maxResults <= 0 {
		maxResults = 8
	}
	return &Aggregator{
		provider:      provider,
		maxResults:    maxResults,
		searchTimeout: searchTimeout,
		logger:        logger,
	}
}

// Aggregate issues one provider call per planned string, concurrently,
// then merges in plan order. Duplicates (same normalized domain+path)
// keep the first-seen result; the merged list is truncated to the
// configured maximum.
func (a *Aggregator) Aggregate(ctx context.Context, searchStrings []string) ([]models.SearchResult, error) {
	perQuery := make([][]models.SearchResult, len(searchStrings))
	failures := make([]error, len(searchStrings))

	var wg sync.WaitGroup
	for i, query := range searchStrings {
		wg.Add(1)
		go func(slot int, q string) {
			defer wg.Done()

			callCtx := ctx
			if a.searchTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, a.searchTimeout)
				defer cancel()
			}

			results, err := a.provider.Search(callCtx, q, a.maxResults)
			if err != nil {
				failures[slot] = err
				a.logger.Warn().
					Err(err).
					Str("provider", a.provider.Name()).
					Str("search", q).
					Msg("search failed, omitting its results")
				return
			}
			perQuery[slot] = results
		}(i, query)
	}
	wg.Wait()

	failed := 0
	for _, err := range failures {
		if err != nil {
			failed++
		}
	}
	if failed == len(searchStrings) {
		return nil, ErrAllSearchesFailed
	}

	merged := merge(perQuery, a.maxResults)

	a.logger.Info().
		Int("searches", len(searchStrings)).
		Int("failed", failed).
		Int("results", len(merged)).
		Msg("aggregation complete")

	return merged, nil
}

// merge flattens per-query result slices in plan order, keeping the
// first occurrence of each dedup key.
func merge(perQuery [][]models.SearchResult, maxResults int) []models.SearchResult {
	merged := make([]models.SearchResult, 0, maxResults)
	seen := make(map[string]bool)

	for _, results := range perQuery {
		for _, r := range results {
			key := r.DedupKey()
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, r)
			if len(merged) >= maxResults {
				return merged
			}
		}
	}

	return merged
}
