package content

import (
	"context"
	"fmt"
	"log"
	"strings"

	"daily-digest/internal/llm"
	"daily-digest/internal/search"
)

func (e *Engine) genQuote(ctx context.Context, avoid []string) (string, Payload, error) {
	results := e.searchBestEffort(ctx, search.Query{
		Q:   `site:brainyquote.com OR site:goodreads.com "motivational quotes" -cliche`,
		Num: 10,
		TBS: "qdr:y",
	})

	var snippets []string
	for i, r := range results {
		if i >= 12 {
			break
		}
		snippets = append(snippets, fmt.Sprintf("- %s: %s", r.Title, r.Snippet))
	}

	prompt := fmt.Sprintf(`You are crafting a non-cliche, meaningful motivational quote suitable for an Indian audience on a Monday. Use inspiration from the list below but do not copy verbatim.

Inspiration:
%s

Return JSON with keys:
- quote (string, single punchy line, <190 chars)
- author (string, if unknown, set to "Unknown")
- source_hint (string, very short rationale)

Ensure it's uplifting, fresh, and not cringe.%s`, strings.Join(snippets, "\n"), avoidClause(avoid))

	obj, err := e.generateJSON(ctx, prompt)
	if err != nil {
		return "", Payload{}, err
	}
	quote := strings.Trim(llm.Str(obj, "quote"), `"`)
	if quote == "" {
		return "", Payload{}, fmt.Errorf("quote: empty text: %w", ErrMalformed)
	}
	author := llm.Str(obj, "author")
	if author == "" {
		author = "Unknown"
	}

	primary := strings.TrimSpace(quote + " — " + author)
	message := fmt.Sprintf("🚀 Monday Motivation\n\n“%s”\n— %s", quote, author)
	return primary, Payload{
		ContentType: TypeQuote,
		Title:       "Monday Motivation",
		Message:     message,
		Items:       []map[string]any{{"quote": quote, "author": author}},
		Metadata:    map[string]any{"source_hint": llm.Str(obj, "source_hint"), "serp_used": len(results) > 0},
	}, nil
}

func (e *Engine) genJoke(ctx context.Context, avoid []string) (string, Payload, error) {
	results := e.searchBestEffort(ctx, search.Query{
		Q:   "clean funny jokes India family friendly one liners -offensive -adult",
		Num: 10,
		TBS: "qdr:y",
	})

	var examples []string
	for i, r := range results {
		if i >= 8 {
			break
		}
		examples = append(examples, "- "+r.Title)
	}

	prompt := fmt.Sprintf(`Write one clean, genuinely funny, non-offensive joke for an Indian audience. Avoid repetition, politics, or vulgarity.
Style: short one-liner or Q/A.

Examples (do not copy):
%s

Return JSON: {"joke": "string"}%s`, strings.Join(examples, "\n"), avoidClause(avoid))

	obj, err := e.generateJSON(ctx, prompt)
	if err != nil {
		return "", Payload{}, err
	}
	joke := llm.Str(obj, "joke")
	if joke == "" {
		return "", Payload{}, fmt.Errorf("joke: empty text: %w", ErrMalformed)
	}

	return joke, Payload{
		ContentType: TypeJoke,
		Title:       "Tuesday Joke",
		Message:     "😂 Tuesday Joker\n\n" + joke,
		Items:       []map[string]any{{"joke": joke}},
		Metadata:    map[string]any{"serp_used": len(results) > 0},
	}, nil
}

func (e *Engine) genNews(ctx context.Context, avoid []string) (string, Payload, error) {
	results := e.searchBestEffort(ctx, search.Query{
		Q:   "positive good news India",
		Num: 10,
		TBM: "nws",
		TBS: "qdr:w",
	})

	var listings []string
	for i, r := range results {
		if i >= 12 {
			break
		}
		listings = append(listings, fmt.Sprintf("- %s — %s\n  %s", r.Title, r.Link, r.Snippet))
	}

	prompt := fmt.Sprintf(`From the following recent news (last week), pick the 3 most positive, uplifting, verifiable stories for Indian audience.
Provide short title and one-line positive summary. Avoid tragedies, politics, or controversy.

News candidates:
%s

Return JSON:
{
  "section_title": "Start your day with positive news",
  "items": [
    {"title":"", "summary":"", "link":""}
  ]
}%s`, strings.Join(listings, "\n"), avoidClause(avoid))

	obj, err := e.generateJSON(ctx, prompt)
	if err != nil {
		return "", Payload{}, err
	}

	items := newsItems(obj)
	if len(items) == 0 {
		// Model gave nothing usable: synthesize straight from search.
		for i, r := range results {
			if i >= 3 {
				break
			}
			items = append(items, map[string]any{"title": r.Title, "summary": truncate(r.Snippet, 180), "link": r.Link})
		}
	}
	if len(items) == 0 {
		return "", Payload{}, fmt.Errorf("news: no items: %w", ErrMalformed)
	}

	sectionTitle := llm.Str(obj, "section_title")
	if sectionTitle == "" {
		sectionTitle = "Start your day with positive news"
	}

	lines := []string{"🗞️ " + sectionTitle}
	var titles []string
	for i, it := range items {
		title, _ := it["title"].(string)
		summary, _ := it["summary"].(string)
		link, _ := it["link"].(string)
		lines = append(lines, fmt.Sprintf("%d. %s\n   %s\n   %s", i+1, title, summary, link))
		titles = append(titles, title)
	}

	return strings.Join(titles, " "), Payload{
		ContentType: TypeNews,
		Title:       sectionTitle,
		Message:     strings.Join(lines, "\n\n"),
		Items:       items,
		Metadata:    map[string]any{"serp_used": true},
	}, nil
}

// newsItems pulls the items array out of the model object, keeping only
// entries with at least a title.
func newsItems(obj map[string]any) []map[string]any {
	raw, ok := obj["items"].([]any)
	if !ok {
		return nil
	}
	var items []map[string]any
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if title, _ := m["title"].(string); strings.TrimSpace(title) == "" {
			continue
		}
		items = append(items, m)
	}
	return items
}

func (e *Engine) genRiddle(ctx context.Context, avoid []string) (string, Payload, error) {
	results := e.searchBestEffort(ctx, search.Query{
		Q:   "emoji riddles India family friendly",
		Num: 8,
		TBS: "qdr:y",
	})

	prompt := fmt.Sprintf(`Create one great riddle for an Indian audience. Prefer emoji-style if possible, else a clever text riddle. Difficulty: medium. Return also the answer.

Constraints:
- Family friendly
- Non-repeating
- Fun to share

Return JSON:
{"riddle":"", "answer":"", "type":"emoji|text"}%s`, avoidClause(avoid))

	obj, err := e.generateJSON(ctx, prompt)
	if err != nil {
		return "", Payload{}, err
	}
	riddle := llm.Str(obj, "riddle")
	if riddle == "" {
		return "", Payload{}, fmt.Errorf("riddle: empty text: %w", ErrMalformed)
	}
	answer := llm.Str(obj, "answer")
	rtype := llm.Str(obj, "type")
	if rtype == "" {
		rtype = "text"
	}

	return riddle, Payload{
		ContentType: TypeRiddle,
		Title:       "Riddle of the Day",
		Message:     "🧩 Riddle\n\n" + riddle,
		Items:       []map[string]any{{"riddle": riddle, "answer": answer, "type": rtype}},
		Metadata:    map[string]any{"serp_used": len(results) > 0},
	}, nil
}

func (e *Engine) genMovies(ctx context.Context, _ []string) (string, Payload, error) {
	var titles []string
	err := e.retry.Do(ctx, "bookmyshow", func(ctx context.Context) error {
		t, err := e.movies.HindiMovies(ctx, 8)
		if err != nil {
			return err
		}
		titles = t
		return nil
	})
	if err != nil {
		// An empty watchlist is still a valid Friday message.
		log.Printf("movie listings fetch failed: %v", err)
		titles = nil
	}

	title := "🎬 Friday Watchlist (Hindi, Mumbai)"
	if len(titles) == 0 {
		return "no titles", Payload{
			ContentType: TypeMovies,
			Title:       title,
			Message:     title + "\n\nNo fresh listings found on BookMyShow right now.",
			Items:       []map[string]any{},
			Metadata:    map[string]any{"source": "in.bookmyshow.com"},
		}, nil
	}

	lines := []string{title}
	items := make([]map[string]any, 0, len(titles))
	for i, t := range titles {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, t))
		items = append(items, map[string]any{"title": t})
	}

	return strings.Join(titles, " "), Payload{
		ContentType: TypeMovies,
		Title:       title,
		Message:     strings.Join(lines, "\n\n"),
		Items:       items,
		Metadata:    map[string]any{"source": "in.bookmyshow.com"},
	}, nil
}

func (e *Engine) genPrompt(ctx context.Context, _ []string) (string, Payload, error) {
	results := e.searchBestEffort(ctx, search.Query{
		Q:   "uplifting facts India interesting",
		Num: 6,
		TBS: "qdr:w",
	})

	factLine := ""
	if len(results) > 0 {
		factLine = "Fun fact: " + results[0].Title
	}
	text := "✨ Saturday Check-in\n\nShare 1 interesting thing that happened this week! " + factLine

	return text, Payload{
		ContentType: TypePrompt,
		Title:       "Saturday Check-in",
		Message:     text,
		Items:       []map[string]any{},
		Metadata:    map[string]any{"serp_used": len(results) > 0},
	}, nil
}

// Sunday needs no providers: a fixed rest-day template.
func (e *Engine) genEmoji(_ context.Context, _ []string) (string, Payload, error) {
	const emoji = "🐼💤"
	const caption = "Rest day! Recharge and take it easy."
	message := emoji + " " + caption
	return message, Payload{
		ContentType: TypeEmoji,
		Title:       "Sunday Rest",
		Message:     message,
		Items:       []map[string]any{{"emoji": emoji, "caption": caption}},
		Metadata:    map[string]any{"serp_used": false},
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
