package aggregator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/quillsearch/search-agent/internal/models"
	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// stubProvider returns canned results (or an error) per search string.
type stubProvider struct {
	results map[string][]models.SearchResult
	errs    map[string]error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	return s.results[query], nil
}

func result(title, url string) models.SearchResult {
	return models.SearchResult{
		Title:   title,
		URL:     url,
		Snippet: "snippet for " + title,
		Domain:  models.DomainOf(url),
	}
}

func TestAggregate_MergesInPlanOrder(t *testing.T) {
	provider := &stubProvider{
		results: map[string][]models.SearchResult{
			"first":  {result("a", "http://a.com/1"), result("b", "http://b.com/1")},
			"second": {result("c", "http://c.com/1")},
		},
	}
	agg := NewAggregator(provider, 8, time.Second, testLogger())

	merged, err := agg.Aggregate(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"http://a.com/1", "http://b.com/1", "http://c.com/1"}
	if len(merged) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(merged))
	}
	for i, url := range want {
		if merged[i].URL != url {
			t.Errorf("result %d: expected %s, got %s", i, url, merged[i].URL)
		}
	}
}

func TestAggregate_DedupKeepsFirstSeen(t *testing.T) {
	// Same page with and without trailing slash and with different host
	// casing counts as one result; the first occurrence wins.
	provider := &stubProvider{
		results: map[string][]models.SearchResult{
			"first":  {result("original", "http://a.com/x")},
			"second": {result("duplicate", "http://A.com/x/"), result("fresh", "http://b.com/y")},
		},
	}
	agg := NewAggregator(provider, 8, time.Second, testLogger())

	merged, err := agg.Aggregate(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(merged) != 2 {
		t.Fatalf("expected 2 results after dedup, got %d: %v", len(merged), merged)
	}
	if merged[0].Title != "original" {
		t.Errorf("expected first-seen result to win, got %q", merged[0].Title)
	}
}

func TestAggregate_PartialFailureTolerated(t *testing.T) {
	provider := &stubProvider{
		results: map[string][]models.SearchResult{
			"good": {result("a", "http://a.com/1")},
		},
		errs: map[string]error{
			"bad": errors.New("connection refused"),
		},
	}
	agg := NewAggregator(provider, 8, time.Second, testLogger())

	merged, err := agg.Aggregate(context.Background(), []string{"good", "bad"})
	if err != nil {
		t.Fatalf("partial failure should not error: %v", err)
	}
	if len(merged) != 1 {
		t.Errorf("expected surviving search's results, got %v", merged)
	}
}

func TestAggregate_AllSearchesFailed(t *testing.T) {
	provider := &stubProvider{
		errs: map[string]error{
			"one": errors.New("timeout"),
			"two": errors.New("dns failure"),
		},
	}
	agg := NewAggregator(provider, 8, time.Second, testLogger())

	_, err := agg.Aggregate(context.Background(), []string{"one", "two"})
	if !errors.Is(err, ErrAllSearchesFailed) {
		t.Errorf("expected ErrAllSearchesFailed, got %v", err)
	}
}

func TestAggregate_TruncatesToMaxResults(t *testing.T) {
	many := make([]models.SearchResult, 0, 10)
	for i := 0; i < 10; i++ {
		many = append(many, result(fmt.Sprintf("r%d", i), fmt.Sprintf("http://site%d.com/page", i)))
	}
	provider := &stubProvider{
		results: map[string][]models.SearchResult{"q": many},
	}
	agg := NewAggregator(provider, 4, time.Second, testLogger())

	merged, err := agg.Aggregate(context.Background(), []string{"q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(merged) != 4 {
		t.Errorf("expected truncation to 4 results, got %d", len(merged))
	}
	if merged[0].Title != "r0" || merged[3].Title != "r3" {
		t.Errorf("expected highest-ranked results kept, got %v", merged)
	}
}

func TestAggregate_StableAcrossRuns(t *testing.T) {
	provider := &stubProvider{
		results: map[string][]models.SearchResult{
			"first":  {result("a", "http://a.com/1")},
			"second": {result("b", "http://b.com/1")},
			"third":  {result("c", "http://c.com/1")},
		},
	}
	agg := NewAggregator(provider, 8, time.Second, testLogger())

	// Concurrent fan-out must not leak goroutine scheduling into the
	// merged order.
	for i := 0; i < 20; i++ {
		merged, err := agg.Aggregate(context.Background(), []string{"first", "second", "third"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if merged[0].URL != "http://a.com/1" || merged[1].URL != "http://b.com/1" || merged[2].URL != "http://c.com/1" {
			t.Fatalf("run %d: unstable merge order: %v", i, merged)
		}
	}
}
