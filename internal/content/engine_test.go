package content

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"daily-digest/internal/clock"
	"daily-digest/internal/gateway"
	"daily-digest/internal/history"
	"daily-digest/internal/llm"
	"daily-digest/internal/search"
)

type fakeSearcher struct {
	results []search.Result
	err     error
	calls   int
}

func (f *fakeSearcher) Search(_ context.Context, _ search.Query) ([]search.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeMovies struct {
	titles []string
	err    error
}

func (f *fakeMovies) HindiMovies(_ context.Context, _ int) ([]string, error) {
	return f.titles, f.err
}

type fakeLLM struct {
	replies []string
	err     error
	calls   int
	prompts []string
}

func (f *fakeLLM) Generate(_ context.Context, messages []llm.Message) (llm.Response, error) {
	f.calls++
	f.prompts = append(f.prompts, messages[len(messages)-1].Content)
	if f.err != nil {
		return llm.Response{}, f.err
	}
	i := f.calls - 1
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	return llm.Response{Content: f.replies[i]}, nil
}

type fakeHistory struct {
	seen  map[string]bool
	added []string
}

func newFakeHistory(texts ...string) *fakeHistory {
	h := &fakeHistory{seen: make(map[string]bool)}
	for _, t := range texts {
		h.seen[history.Normalize(t)] = true
	}
	return h
}

func (h *fakeHistory) Contains(_ clock.Weekday, text string) bool {
	return h.seen[history.Normalize(text)]
}

func (h *fakeHistory) Add(_ clock.Weekday, text string) error {
	norm := history.Normalize(text)
	h.seen[norm] = true
	h.added = append(h.added, norm)
	return nil
}

func newTestEngine(s Searcher, m MovieLister, c llm.Client, rounds int) *Engine {
	return NewEngine(s, m, c, gateway.NewRetryer(3, time.Millisecond, 5*time.Millisecond), rounds)
}

func TestTypeForCoversAllWeekdays(t *testing.T) {
	want := map[clock.Weekday]Type{
		clock.Monday:    TypeQuote,
		clock.Tuesday:   TypeJoke,
		clock.Wednesday: TypeNews,
		clock.Thursday:  TypeRiddle,
		clock.Friday:    TypeMovies,
		clock.Saturday:  TypePrompt,
		clock.Sunday:    TypeEmoji,
	}
	for _, day := range clock.AllWeekdays {
		if got := TypeFor(day); got != want[day] {
			t.Errorf("TypeFor(%s) = %s, want %s", day, got, want[day])
		}
	}
}

func TestGenerateQuote(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{{Title: "Quotes page", Link: "https://q", Snippet: "snip"}}}
	model := &fakeLLM{replies: []string{`{"quote":"Keep moving","author":"A. Writer","source_hint":"seen online"}`}}
	e := newTestEngine(searcher, &fakeMovies{}, model, 3)

	hist := newFakeHistory()
	p, err := e.Generate(context.Background(), clock.Monday, hist)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if p.ContentType != TypeQuote || p.Title != "Monday Motivation" {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if !strings.Contains(p.Message, "Keep moving") || !strings.Contains(p.Message, "A. Writer") {
		t.Fatalf("message missing quote/author: %q", p.Message)
	}
	if p.Metadata["serp_used"] != true {
		t.Fatalf("serp_used should be true: %v", p.Metadata)
	}
	if len(hist.added) != 1 {
		t.Fatalf("fingerprint not recorded: %v", hist.added)
	}
}

func TestGenerateQuoteSearchFailureIsBestEffort(t *testing.T) {
	searcher := &fakeSearcher{err: gateway.Terminal("search", errors.New("no key"))}
	model := &fakeLLM{replies: []string{`{"quote":"Still fine","author":"Unknown"}`}}
	e := newTestEngine(searcher, &fakeMovies{}, model, 3)

	p, err := e.Generate(context.Background(), clock.Monday, newFakeHistory())
	if err != nil {
		t.Fatalf("search failure must not fail generation: %v", err)
	}
	if p.Metadata["serp_used"] != false {
		t.Fatalf("serp_used should be false: %v", p.Metadata)
	}
}

func TestGenerateRetriesOnRepeat(t *testing.T) {
	model := &fakeLLM{replies: []string{
		`{"joke":"old joke"}`,
		`{"joke":"brand new joke"}`,
	}}
	e := newTestEngine(&fakeSearcher{}, &fakeMovies{}, model, 3)

	hist := newFakeHistory("old joke")
	p, err := e.Generate(context.Background(), clock.Tuesday, hist)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if model.calls != 2 {
		t.Fatalf("want 2 generation rounds, got %d", model.calls)
	}
	if !strings.Contains(p.Message, "brand new joke") {
		t.Fatalf("repeat was not replaced: %q", p.Message)
	}
	// The second round must steer the model away from the rejected text.
	if !strings.Contains(model.prompts[1], "old joke") {
		t.Fatalf("avoid clause missing from retry prompt: %q", model.prompts[1])
	}
	if len(hist.added) != 1 || hist.added[0] != history.Normalize("brand new joke") {
		t.Fatalf("unexpected history writes: %v", hist.added)
	}
}

func TestGenerateExhaustionAcceptsDuplicate(t *testing.T) {
	model := &fakeLLM{replies: []string{`{"joke":"the only joke"}`}}
	e := newTestEngine(&fakeSearcher{}, &fakeMovies{}, model, 3)

	hist := newFakeHistory("the only joke")
	p, err := e.Generate(context.Background(), clock.Tuesday, hist)
	if err != nil {
		t.Fatalf("exhausted rounds must not fail: %v", err)
	}
	if model.calls != 3 {
		t.Fatalf("want 3 rounds before falling back, got %d", model.calls)
	}
	if !strings.Contains(p.Message, "the only joke") {
		t.Fatalf("fallback payload missing: %q", p.Message)
	}
}

func TestGenerateNilHistorySingleRound(t *testing.T) {
	model := &fakeLLM{replies: []string{`{"joke":"repeated joke"}`}}
	e := newTestEngine(&fakeSearcher{}, &fakeMovies{}, model, 3)

	if _, err := e.Generate(context.Background(), clock.Tuesday, nil); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if model.calls != 1 {
		t.Fatalf("preview mode must not run dedup rounds: %d calls", model.calls)
	}
}

func TestGenerateNewsFallbackFromSearch(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{
		{Title: "Good thing happened", Link: "https://n1", Snippet: "details"},
		{Title: "Another good thing", Link: "https://n2", Snippet: "more"},
	}}
	model := &fakeLLM{replies: []string{`{"section_title":"Positive news","items":[]}`}}
	e := newTestEngine(searcher, &fakeMovies{}, model, 3)

	p, err := e.Generate(context.Background(), clock.Wednesday, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(p.Items) != 2 {
		t.Fatalf("fallback items not synthesized: %+v", p.Items)
	}
	if p.Items[0]["title"] != "Good thing happened" {
		t.Fatalf("unexpected fallback item: %+v", p.Items[0])
	}
}

func TestGenerateNewsNoItemsIsMalformed(t *testing.T) {
	searcher := &fakeSearcher{}
	model := &fakeLLM{replies: []string{`{"section_title":"Positive news","items":[]}`}}
	e := newTestEngine(searcher, &fakeMovies{}, model, 3)

	_, err := e.Generate(context.Background(), clock.Wednesday, nil)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("want ErrMalformed, got %v", err)
	}
}

func TestGenerateEmptyQuoteIsMalformed(t *testing.T) {
	model := &fakeLLM{replies: []string{`{"quote":"","author":"X"}`}}
	e := newTestEngine(&fakeSearcher{}, &fakeMovies{}, model, 3)

	_, err := e.Generate(context.Background(), clock.Monday, nil)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("want ErrMalformed, got %v", err)
	}
}

func TestGenerateProviderUnavailable(t *testing.T) {
	model := &fakeLLM{err: gateway.Retryable("generate", errors.New("timeout"))}
	e := newTestEngine(&fakeSearcher{}, &fakeMovies{}, model, 3)

	_, err := e.Generate(context.Background(), clock.Tuesday, nil)
	if !errors.Is(err, gateway.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
	if model.calls != 3 {
		t.Fatalf("retry budget not honored: %d calls", model.calls)
	}
}

func TestGenerateMovies(t *testing.T) {
	movies := &fakeMovies{titles: []string{"Jawan 2", "Dil Ka Raasta"}}
	e := newTestEngine(&fakeSearcher{}, movies, &fakeLLM{replies: []string{"{}"}}, 3)

	p, err := e.Generate(context.Background(), clock.Friday, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if p.ContentType != TypeMovies || len(p.Items) != 2 {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if !strings.Contains(p.Message, "1. Jawan 2") || !strings.Contains(p.Message, "2. Dil Ka Raasta") {
		t.Fatalf("numbered list missing: %q", p.Message)
	}
}

func TestGenerateMoviesEmptyListingIsValid(t *testing.T) {
	movies := &fakeMovies{err: gateway.Terminal("bookmyshow", errors.New("blocked"))}
	e := newTestEngine(&fakeSearcher{}, movies, &fakeLLM{replies: []string{"{}"}}, 3)

	p, err := e.Generate(context.Background(), clock.Friday, nil)
	if err != nil {
		t.Fatalf("empty listing must not fail: %v", err)
	}
	if len(p.Items) != 0 {
		t.Fatalf("want no items, got %+v", p.Items)
	}
	if !strings.Contains(p.Message, "No fresh listings") {
		t.Fatalf("placeholder message missing: %q", p.Message)
	}
}

func TestGenerateSaturdayPrompt(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{{Title: "India fact", Link: "https://f"}}}
	e := newTestEngine(searcher, &fakeMovies{}, &fakeLLM{replies: []string{"{}"}}, 3)

	p, err := e.Generate(context.Background(), clock.Saturday, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if p.ContentType != TypePrompt {
		t.Fatalf("unexpected type: %s", p.ContentType)
	}
	if !strings.Contains(p.Message, "Fun fact: India fact") {
		t.Fatalf("fact line missing: %q", p.Message)
	}
}

func TestGenerateSundayIsFixedTemplate(t *testing.T) {
	model := &fakeLLM{replies: []string{"{}"}}
	e := newTestEngine(&fakeSearcher{}, &fakeMovies{}, model, 3)

	p, err := e.Generate(context.Background(), clock.Sunday, newFakeHistory())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if model.calls != 0 {
		t.Fatalf("sunday must not call providers: %d calls", model.calls)
	}
	if p.ContentType != TypeEmoji || !strings.Contains(p.Message, "🐼💤") {
		t.Fatalf("unexpected payload: %+v", p)
	}
}
