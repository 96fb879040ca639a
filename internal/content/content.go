// Package content maps weekdays to content types and generates the
// day's payload through the search and generation providers.
package content

import (
	"errors"

	"daily-digest/internal/clock"
)

// Type is the payload kind served for a weekday.
type Type string

const (
	TypeQuote  Type = "quote"
	TypeJoke   Type = "joke"
	TypeNews   Type = "news"
	TypeRiddle Type = "riddle"
	TypeMovies Type = "movies"
	TypePrompt Type = "prompt"
	TypeEmoji  Type = "emoji"
)

// ErrMalformed marks generated content that failed structural
// validation (empty text, no items).
var ErrMalformed = errors.New("generated content failed validation")

// rule is one row of the static weekday table. dedup enables the
// non-repetition rounds for that day's content.
type rule struct {
	contentType Type
	dedup       bool
}

// The seven-entry table is fixed at compile time; content type is a pure
// function of the weekday. News digests and the Sunday template are
// exempt from repeat checking.
var rules = map[clock.Weekday]rule{
	clock.Monday:    {TypeQuote, true},
	clock.Tuesday:   {TypeJoke, true},
	clock.Wednesday: {TypeNews, false},
	clock.Thursday:  {TypeRiddle, true},
	clock.Friday:    {TypeMovies, true},
	clock.Saturday:  {TypePrompt, true},
	clock.Sunday:    {TypeEmoji, false},
}

// TypeFor returns the content type served on the given weekday.
func TypeFor(day clock.Weekday) Type {
	return rules[day].contentType
}

// Payload is the generated portion of a daily response. It is immutable
// once built and safe to cache verbatim.
type Payload struct {
	ContentType Type             `json:"content_type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Items       []map[string]any `json:"items"`
	Metadata    map[string]any   `json:"metadata"`
}

// History is the repeat-detection surface the engine needs. A nil
// History disables both checking and recording (preview mode).
type History interface {
	Contains(day clock.Weekday, text string) bool
	Add(day clock.Weekday, text string) error
}
