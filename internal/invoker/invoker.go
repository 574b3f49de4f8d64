package invoker

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"
)

// permanentError marks a failure that retrying cannot fix (bad request,
// declined charge). Do gives up on it immediately.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so Do will not retry it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Invoker is the shared safe-invoke helper for outbound calls: a circuit
// breaker with a small bounded retry on transient failure. Backoff grows
// linearly with the attempt number.
type Invoker[T any] struct {
	cb          *gobreaker.CircuitBreaker[T]
	maxAttempts int
	backoff     time.Duration
}

func New[T any](name string, maxAttempts int, backoff time.Duration) *Invoker[T] {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Invoker[T]{cb: cb, maxAttempts: maxAttempts, backoff: backoff}
}

// Do runs fn through the breaker, retrying transient failures up to the
// configured attempt budget. Permanent errors, an open breaker and context
// cancellation all stop the loop.
func (i *Invoker[T]) Do(ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		result, err := i.cb.Execute(fn)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if IsPermanent(err) ||
			errors.Is(err, gobreaker.ErrOpenState) ||
			errors.Is(err, gobreaker.ErrTooManyRequests) ||
			ctx.Err() != nil {
			break
		}

		if attempt < i.maxAttempts {
			log.Printf("invoke attempt %d/%d failed, retrying: %v", attempt, i.maxAttempts, err)
			select {
			case <-time.After(i.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}

	return zero, lastErr
}
