// Package daily orchestrates one request: resolve the IST date, serve
// from cache or generate, merge reminders, persist, and assemble the
// strict envelope.
package daily

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"daily-digest/internal/cache"
	"daily-digest/internal/clock"
	"daily-digest/internal/content"
	"daily-digest/internal/gateway"
	"daily-digest/internal/llm"
	"daily-digest/internal/people"
)

// Generator runs a weekday's content strategy. hist may be nil for
// side-effect-free previews.
type Generator interface {
	Generate(ctx context.Context, day clock.Weekday, hist content.History) (content.Payload, error)
}

// CacheStore is the single-slot daily cache contract.
type CacheStore interface {
	Get(date string) (*cache.Record, error)
	Put(rec cache.Record) error
	Reset() error
}

// HistoryStore extends the repeat-detection surface with the admin
// reset.
type HistoryStore interface {
	content.History
	Reset() error
}

// Orchestrator owns the two stores and the generation engine. All daily
// traffic flows through it.
type Orchestrator struct {
	clk               clock.Clock
	gen               Generator
	cache             CacheStore
	hist              HistoryStore
	birthdaysPath     string
	anniversariesPath string

	// Collapses concurrent first-requests for the same uncached date
	// into a single generate+persist sequence.
	group singleflight.Group
}

func NewOrchestrator(clk clock.Clock, gen Generator, cacheStore CacheStore, hist HistoryStore, birthdaysPath, anniversariesPath string) *Orchestrator {
	return &Orchestrator{
		clk:               clk,
		gen:               gen,
		cache:             cacheStore,
		hist:              hist,
		birthdaysPath:     birthdaysPath,
		anniversariesPath: anniversariesPath,
	}
}

// Daily serves today's payload, generating and persisting it on the
// first call of the day. The returned value is either SuccessResponse
// or ErrorResponse, always well-formed.
func (o *Orchestrator) Daily(ctx context.Context) any {
	date, weekday := clock.Resolve(o.clk.Now())
	v, _, _ := o.group.Do(date.String(), func() (any, error) {
		return o.serveDay(ctx, date, weekday), nil
	})
	return v
}

func (o *Orchestrator) serveDay(ctx context.Context, date clock.CivilDate, weekday clock.Weekday) any {
	birthdays, anniversaries := o.remindersFor(date)

	rec, err := o.cache.Get(date.String())
	if err != nil {
		log.Printf("cache read failed: %v", err)
	}
	if rec != nil {
		// Reminders are re-matched on every hit so midday edits to the
		// source files show up without regenerating.
		return NewSuccess(date, weekday, rec.Payload, true, birthdays, anniversaries)
	}

	payload, err := o.gen.Generate(ctx, weekday, o.hist)
	if err != nil {
		log.Printf("generation failed for %s (%s): %v", date, weekday, err)
		code := classify(err)
		return NewError(date, weekday, code, err.Error())
	}

	payload.Message = prependReminders(payload.Message, birthdays, anniversaries)

	// A failed write degrades to served-but-not-cached; the next call
	// regenerates.
	if err := o.cache.Put(cache.Record{Date: date.String(), Weekday: weekday, Payload: payload}); err != nil {
		log.Printf("cache write failed: %v", err)
	}

	return NewSuccess(date, weekday, payload, false, birthdays, anniversaries)
}

// Preview generates for the named weekday without touching the cache or
// history stores.
func (o *Orchestrator) Preview(ctx context.Context, weekday clock.Weekday) any {
	date, _ := clock.Resolve(o.clk.Now())
	birthdays, anniversaries := o.remindersFor(date)

	payload, err := o.gen.Generate(ctx, weekday, nil)
	if err != nil {
		log.Printf("preview generation failed for %s: %v", weekday, err)
		return NewError(date, weekday, classify(err), err.Error())
	}

	if payload.Metadata == nil {
		payload.Metadata = map[string]any{}
	}
	payload.Metadata["preview"] = true
	payload.Message = prependReminders(payload.Message, birthdays, anniversaries)

	return NewSuccess(date, weekday, payload, false, birthdays, anniversaries)
}

// ResetCache clears the daily cache so the next request regenerates.
func (o *Orchestrator) ResetCache() error { return o.cache.Reset() }

// ResetHistory clears all recorded fingerprints.
func (o *Orchestrator) ResetHistory() error { return o.hist.Reset() }

// Today reports the current IST date and weekday.
func (o *Orchestrator) Today() (clock.CivilDate, clock.Weekday) {
	return clock.Resolve(o.clk.Now())
}

func (o *Orchestrator) remindersFor(date clock.CivilDate) ([]string, []people.Match) {
	persons, err := people.LoadPersons(o.birthdaysPath)
	if err != nil {
		log.Printf("reading %s failed: %v", o.birthdaysPath, err)
	}
	anns, err := people.LoadAnniversaries(o.anniversariesPath)
	if err != nil {
		log.Printf("reading %s failed: %v", o.anniversariesPath, err)
	}
	return people.BirthdaysOn(persons, date.Day, int(date.Month)),
		people.AnniversariesOn(anns, date.Day, int(date.Month), date.Year)
}

func prependReminders(message string, birthdays []string, anniversaries []people.Match) string {
	var lines []string
	if len(birthdays) > 0 {
		lines = append(lines, "🎉 Birthdays today: "+strings.Join(birthdays, ", "))
	}
	if len(anniversaries) > 0 {
		var pairs []string
		for _, a := range anniversaries {
			p := a.Names[0] + " & " + a.Names[1]
			if a.Years != nil && *a.Years > 0 {
				p += fmt.Sprintf(" (%d yrs)", *a.Years)
			}
			pairs = append(pairs, p)
		}
		lines = append(lines, "💍 Anniversaries today: "+strings.Join(pairs, ", "))
	}
	if len(lines) == 0 {
		return message
	}
	return strings.Join(lines, "\n") + "\n\n" + message
}

func classify(err error) string {
	var pe *gateway.ProviderError
	switch {
	case errors.Is(err, content.ErrMalformed), errors.Is(err, llm.ErrNoJSON):
		return CodeGenerationMalformed
	case errors.Is(err, gateway.ErrUnavailable), errors.As(err, &pe):
		return CodeProviderUnavailable
	default:
		return CodeInternalError
	}
}
