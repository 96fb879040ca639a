package content

import (
	"context"
	"fmt"
	"log"
	"strings"

	"daily-digest/internal/clock"
	"daily-digest/internal/gateway"
	"daily-digest/internal/llm"
	"daily-digest/internal/search"
)

// Searcher is the search provider surface the generators use.
type Searcher interface {
	Search(ctx context.Context, q search.Query) ([]search.Result, error)
}

// MovieLister is the Friday listings source.
type MovieLister interface {
	HindiMovies(ctx context.Context, max int) ([]string, error)
}

// Engine runs the per-weekday generation strategy. Each provider step is
// retried independently through the gateway retryer, so a transient
// generation failure never re-issues an already-succeeded search.
type Engine struct {
	searcher Searcher
	movies   MovieLister
	llm      llm.Client
	retry    gateway.Retryer
	rounds   int
}

func NewEngine(searcher Searcher, movies MovieLister, client llm.Client, retry gateway.Retryer, rounds int) *Engine {
	if rounds < 1 {
		rounds = 1
	}
	return &Engine{searcher: searcher, movies: movies, llm: client, retry: retry, rounds: rounds}
}

// generator produces (dedupText, payload). avoid carries the texts
// rejected as repeats in earlier rounds, to steer the model elsewhere.
type generator func(ctx context.Context, avoid []string) (string, Payload, error)

func (e *Engine) generatorFor(day clock.Weekday) generator {
	switch TypeFor(day) {
	case TypeQuote:
		return e.genQuote
	case TypeJoke:
		return e.genJoke
	case TypeNews:
		return e.genNews
	case TypeRiddle:
		return e.genRiddle
	case TypeMovies:
		return e.genMovies
	case TypePrompt:
		return e.genPrompt
	case TypeEmoji:
		return e.genEmoji
	default:
		// Unreachable: the rule table covers all seven weekdays.
		return nil
	}
}

// Generate produces the weekday's payload. With a non-nil history and a
// dedup-enabled weekday, up to e.rounds generations are attempted to
// find a novel result; once exhausted the last candidate is accepted
// anyway, since a repeated message beats no message. The accepted
// fingerprint is recorded in the history.
func (e *Engine) Generate(ctx context.Context, day clock.Weekday, hist History) (Payload, error) {
	gen := e.generatorFor(day)
	if gen == nil {
		return Payload{}, fmt.Errorf("no generator for weekday %q", day)
	}

	rounds := e.rounds
	if hist == nil || !rules[day].dedup {
		rounds = 1
	}

	var avoid []string
	var lastText string
	var lastPayload Payload
	for i := 0; i < rounds; i++ {
		text, payload, err := gen(ctx, avoid)
		if err != nil {
			return Payload{}, err
		}
		lastText, lastPayload = text, payload
		if hist == nil {
			return payload, nil
		}
		if !hist.Contains(day, text) {
			if err := hist.Add(day, text); err != nil {
				log.Printf("history append failed for %s: %v", day, err)
			}
			return payload, nil
		}
		avoid = append(avoid, text)
	}

	// Every round was a repeat: accept the duplicate rather than fail.
	log.Printf("accepting repeated %s content after %d rounds", day, rounds)
	if err := e.recordFallback(hist, day, lastText); err != nil {
		log.Printf("history append failed for %s: %v", day, err)
	}
	return lastPayload, nil
}

func (e *Engine) recordFallback(hist History, day clock.Weekday, text string) error {
	if hist == nil {
		return nil
	}
	return hist.Add(day, text)
}

// searchBestEffort runs a retried search and degrades to no results on
// failure; most strategies treat search material as optional seasoning.
func (e *Engine) searchBestEffort(ctx context.Context, q search.Query) []search.Result {
	var results []search.Result
	err := e.retry.Do(ctx, "search", func(ctx context.Context) error {
		r, err := e.searcher.Search(ctx, q)
		if err != nil {
			return err
		}
		results = r
		return nil
	})
	if err != nil {
		log.Printf("search for %q failed: %v", q.Q, err)
		return nil
	}
	return results
}

// generateJSON runs a retried LLM call that must yield a JSON object.
// A reply without parseable JSON counts as a transient failure.
func (e *Engine) generateJSON(ctx context.Context, prompt string) (map[string]any, error) {
	var obj map[string]any
	err := e.retry.Do(ctx, "generate", func(ctx context.Context) error {
		resp, err := e.llm.Generate(ctx, []llm.Message{{Role: "user", Content: prompt + llm.JSONInstruction}})
		if err != nil {
			return err
		}
		parsed, err := llm.ExtractJSON(resp.Content)
		if err != nil {
			return gateway.Retryable("generate", err)
		}
		obj = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func avoidClause(avoid []string) string {
	if len(avoid) == 0 {
		return ""
	}
	return "\n\nDo NOT produce any of these recently used ones:\n- " + strings.Join(avoid, "\n- ")
}
