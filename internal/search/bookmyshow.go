package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"daily-digest/internal/gateway"
)

const defaultMoviesURL = "https://in.bookmyshow.com/explore/movies-mumbai?languages=hindi"

// The listings page serves different markup to non-browser agents, so we
// present a plain desktop browser.
const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

var (
	titleFieldRe  = regexp.MustCompile(`"title"\s*:\s*"([^"]+)"`)
	movieAnchorRe = regexp.MustCompile(`(?is)href="[^"]*/movie/[^"]*".*?>([^<]{2,100})<`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// MovieSource scrapes the BookMyShow Mumbai Hindi listings for movie
// titles. No official API exists; titles are pulled from the JSON blobs
// embedded in the page, with anchor text as a fallback.
type MovieSource struct {
	url   string
	httpc *http.Client
}

func NewMovieSource() *MovieSource {
	return &MovieSource{
		url:   defaultMoviesURL,
		httpc: &http.Client{Timeout: 20 * time.Second},
	}
}

// HindiMovies returns up to max currently-listed titles, deduplicated in
// page order.
func (m *MovieSource) HindiMovies(ctx context.Context, max int) ([]string, error) {
	if max <= 0 {
		max = 8
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url, nil)
	if err != nil {
		return nil, gateway.Terminal("bookmyshow", err)
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	resp, err := m.httpc.Do(req)
	if err != nil {
		return nil, gateway.Retryable("bookmyshow", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, gateway.FromStatus("bookmyshow", resp.StatusCode, fmt.Errorf("bookmyshow non-200: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, gateway.Retryable("bookmyshow", fmt.Errorf("read listings page: %w", err))
	}
	html := string(body)

	var titles []string
	for _, match := range titleFieldRe.FindAllStringSubmatch(html, -1) {
		t := strings.TrimSpace(match[1])
		if len(t) < 2 {
			continue
		}
		lower := strings.ToLower(t)
		if strings.HasPrefix(lower, "bookmyshow") || strings.HasPrefix(lower, "explore") {
			continue
		}
		titles = append(titles, t)
	}

	// Anchor-text fallback for markup without embedded JSON titles.
	if len(titles) < 3 {
		for _, match := range movieAnchorRe.FindAllStringSubmatch(html, -1) {
			t := strings.TrimSpace(spaceRe.ReplaceAllString(match[1], " "))
			if t != "" {
				titles = append(titles, t)
			}
		}
	}

	seen := make(map[string]bool)
	var uniq []string
	for _, t := range titles {
		if !seen[t] {
			seen[t] = true
			uniq = append(uniq, t)
		}
	}
	if len(uniq) > max {
		uniq = uniq[:max]
	}
	return uniq, nil
}
