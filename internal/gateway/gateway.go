// Package gateway wraps outbound provider calls with typed failure
// classification and exponential backoff retries.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrUnavailable marks a call whose retry budget is exhausted or that hit
// a terminal upstream error. Callers decide fallback; nothing panics past
// this boundary.
var ErrUnavailable = errors.New("provider unavailable")

type ErrorKind int

const (
	// KindRetryable covers transient failures: timeouts, 5xx, rate limits.
	KindRetryable ErrorKind = iota
	// KindTerminal covers failures retrying cannot fix: auth errors,
	// malformed requests.
	KindTerminal
)

// ProviderError is a classified failure from a single provider call.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	kind := "retryable"
	if e.Kind == KindTerminal {
		kind = "terminal"
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable wraps err as a transient provider failure.
func Retryable(provider string, err error) error {
	return &ProviderError{Provider: provider, Kind: KindRetryable, Err: err}
}

// Terminal wraps err as a failure that must not be retried.
func Terminal(provider string, err error) error {
	return &ProviderError{Provider: provider, Kind: KindTerminal, Err: err}
}

// KindForStatus classifies an HTTP status: 5xx and 429 are transient,
// anything else (auth, bad request) is terminal.
func KindForStatus(status int) ErrorKind {
	if status >= 500 || status == http.StatusTooManyRequests {
		return KindRetryable
	}
	return KindTerminal
}

// FromStatus wraps an HTTP-status failure with the matching kind.
func FromStatus(provider string, status int, err error) error {
	return &ProviderError{Provider: provider, Kind: KindForStatus(status), Err: err}
}

// Retryer retries a call with exponential backoff and jitter. Each step
// of a multi-step strategy gets its own Do call, so a transient failure
// late in a chain never re-issues earlier steps.
type Retryer struct {
	MaxAttempts uint64
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func NewRetryer(attempts int, base, max time.Duration) Retryer {
	if attempts < 1 {
		attempts = 1
	}
	return Retryer{MaxAttempts: uint64(attempts), BaseDelay: base, MaxDelay: max}
}

// Do runs fn up to MaxAttempts times. Terminal errors abort immediately.
// Any unrecovered failure is reported as ErrUnavailable with the last
// underlying error attached.
func (r Retryer) Do(ctx context.Context, provider string, fn func(context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.BaseDelay
	bo.Multiplier = 2
	bo.MaxInterval = r.MaxDelay
	bo.MaxElapsedTime = 0

	op := func() error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		var pe *ProviderError
		if errors.As(err, &pe) && pe.Kind == KindTerminal {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, r.MaxAttempts-1), ctx))
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", provider, ErrUnavailable, err)
}
