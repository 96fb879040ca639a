// Package search wraps the outbound raw-material providers: SerpAPI
// Google search and the BookMyShow listings page.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"daily-digest/internal/gateway"
)

const defaultSerpURL = "https://serpapi.com/search.json"

// Result is one search hit, already reduced to the fields the
// generators consume.
type Result struct {
	Title   string
	Link    string
	Snippet string
}

// Query mirrors the SerpAPI parameters the generators use. TBM selects
// a vertical ("nws" for news); TBS carries time filters like "qdr:w".
type Query struct {
	Q   string
	Num int
	TBM string
	TBS string
}

type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultSerpURL,
		httpc:   &http.Client{Timeout: 20 * time.Second},
	}
}

// Search runs one Google search. Results are deduplicated by link and
// truncated to q.Num. Failures carry gateway classification: a missing
// key or 4xx is terminal, transport errors and 5xx/429 are retryable.
func (c *Client) Search(ctx context.Context, q Query) ([]Result, error) {
	if c.apiKey == "" {
		return nil, gateway.Terminal("search", errors.New("SERPAPI_API_KEY not set"))
	}
	num := q.Num
	if num <= 0 {
		num = 10
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", q.Q)
	params.Set("api_key", c.apiKey)
	params.Set("hl", "en")
	params.Set("gl", "in")
	params.Set("num", strconv.Itoa(num))
	if q.TBM != "" {
		params.Set("tbm", q.TBM)
	}
	if q.TBS != "" {
		params.Set("tbs", q.TBS)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, gateway.Terminal("search", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, gateway.Retryable("search", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 180))
		return nil, gateway.FromStatus("search", resp.StatusCode, fmt.Errorf("serpapi non-200: %d %s", resp.StatusCode, body))
	}

	var payload struct {
		NewsResults    []serpItem `json:"news_results"`
		OrganicResults []serpItem `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, gateway.Retryable("search", fmt.Errorf("decode serpapi response: %w", err))
	}

	// Prefer the news vertical's own container when present.
	var containers [][]serpItem
	if q.TBM == "nws" {
		containers = append(containers, payload.NewsResults)
	}
	containers = append(containers, payload.OrganicResults)

	seen := make(map[string]bool)
	var out []Result
	for _, cont := range containers {
		for _, it := range cont {
			link := it.Link
			if link == "" {
				link = it.URL
			}
			snippet := it.Snippet
			if snippet == "" {
				snippet = it.Content
			}
			if it.Title == "" || link == "" || seen[link] {
				continue
			}
			seen[link] = true
			out = append(out, Result{Title: it.Title, Link: link, Snippet: snippet})
		}
	}
	if len(out) > num {
		out = out[:num]
	}
	return out, nil
}

type serpItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Content string `json:"content"`
}
