package duckduckgo

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/quillsearch/search-agent/internal/models"
	"github.com/quillsearch/search-agent/internal/search"
)

const (
	htmlEndpoint     = "https://html.duckduckgo.com/html/"
	defaultUserAgent = "search-agent/1.0"
)

// Client queries the DuckDuckGo HTML endpoint. No API key required.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   htmlEndpoint,
		userAgent:  defaultUserAgent,
	}
}

func (c *Client) Name() string {
	return "duckduckgo"
}

var (
	resultBlockRe = regexp.MustCompile(`(?s)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	snippetRe     = regexp.MustCompile(`(?s)<a[^>]+class="result__snippet"[^>]*>(.*?)</a>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
)

func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	reqURL := fmt.Sprintf("%s?q=%s", c.endpoint, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", search.ErrTransport, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", search.ErrTransport, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", search.ErrTransport, err)
	}

	return ParseResults(string(body), maxResults), nil
}

// ParseResults extracts title/url/snippet records from the HTML result
// page. Snippets are matched positionally against result links; a page
// layout change degrades to empty snippets rather than an error.
func ParseResults(page string, maxResults int) []models.SearchResult {
	links := resultBlockRe.FindAllStringSubmatch(page, -1)
	snippets := snippetRe.FindAllStringSubmatch(page, -1)

	var results []models.SearchResult
	for i, m := range links {
		if maxResults > 0 && len(results) >= maxResults {
			break
		}

		rawURL := unwrapRedirect(html.UnescapeString(m[1]))
		title := cleanFragment(m[2])
		if rawURL == "" || title == "" {
			continue
		}

		snippet := ""
		if i < len(snippets) {
			snippet = cleanFragment(snippets[i][1])
		}

		results = append(results, models.SearchResult{
			Title:   title,
			URL:     rawURL,
			Snippet: snippet,
			Domain:  models.DomainOf(rawURL),
		})
	}

	return results
}

// unwrapRedirect resolves DuckDuckGo's /l/?uddg= redirect links to the
// target URL.
func unwrapRedirect(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	if target := u.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
	}
	if u.Scheme == "" {
		return "https:" + link
	}
	return link
}

func cleanFragment(fragment string) string {
	text := tagRe.ReplaceAllString(fragment, "")
	text = html.UnescapeString(text)
	return strings.TrimSpace(text)
}
