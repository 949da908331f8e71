package duckduckgo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quillsearch/search-agent/internal/search"
)

const resultPage = `
<div class="result">
  <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc&amp;rut=abc"><b>Go</b> Documentation</a>
  <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc"><b>Go</b> is an open source programming language.</a>
</div>
<div class="result">
  <a rel="nofollow" class="result__a" href="https://en.wikipedia.org/wiki/Go_(programming_language)">Go (programming language) - Wikipedia</a>
  <a class="result__snippet" href="https://en.wikipedia.org/wiki/Go_(programming_language)">Go is a statically typed language.</a>
</div>
<div class="result">
  <a rel="nofollow" class="result__a" href="https://golang.org/">The Go Programming Language</a>
  <a class="result__snippet" href="https://golang.org/">Build simple, reliable software.</a>
</div>
`

func TestParseResults(t *testing.T) {
	results := ParseResults(resultPage, 10)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	first := results[0]
	if first.Title != "Go Documentation" {
		t.Errorf("expected markup stripped from title, got %q", first.Title)
	}
	if first.URL != "https://go.dev/doc" {
		t.Errorf("expected redirect unwrapped, got %q", first.URL)
	}
	if first.Snippet != "Go is an open source programming language." {
		t.Errorf("unexpected snippet: %q", first.Snippet)
	}
	if first.Domain != "go.dev" {
		t.Errorf("unexpected domain: %q", first.Domain)
	}

	second := results[1]
	if second.URL != "https://en.wikipedia.org/wiki/Go_(programming_language)" {
		t.Errorf("direct links must pass through, got %q", second.URL)
	}
	if second.Domain != "en.wikipedia.org" {
		t.Errorf("unexpected domain: %q", second.Domain)
	}
}

func TestParseResults_MaxResults(t *testing.T) {
	results := ParseResults(resultPage, 2)
	if len(results) != 2 {
		t.Errorf("expected truncation to 2 results, got %d", len(results))
	}
}

func TestParseResults_EmptyPage(t *testing.T) {
	results := ParseResults("<html><body>no results here</body></html>", 10)
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestUnwrapRedirect_PlainLink(t *testing.T) {
	link := "https://example.com/page"
	if got := unwrapRedirect(link); got != link {
		t.Errorf("expected plain link unchanged, got %q", got)
	}
}

func TestSearch_UsesEndpointAndUserAgent(t *testing.T) {
	var gotQuery, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(resultPage))
	}))
	defer server.Close()

	c := NewClient(2 * time.Second)
	c.endpoint = server.URL

	results, err := c.Search(context.Background(), "what is go", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected parsed results, got %d", len(results))
	}
	if gotQuery != "what is go" {
		t.Errorf("expected query forwarded, got %q", gotQuery)
	}
	if gotUA != defaultUserAgent {
		t.Errorf("expected user agent set, got %q", gotUA)
	}
}

func TestSearch_Non200IsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(2 * time.Second)
	c.endpoint = server.URL

	_, err := c.Search(context.Background(), "q", 10)
	if !errors.Is(err, search.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}
