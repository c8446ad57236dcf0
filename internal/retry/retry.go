// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry runs an operation a bounded number of times.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy describes when and how a failed operation is attempted again.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first.
	// Values below 1 mean a single attempt.
	MaxAttempts int

	// Retryable decides whether an error may be retried. Nil retries every
	// error.
	Retryable func(err error) bool

	// Delay is the wait before each retry.
	Delay time.Duration

	// BeforeRetry runs after Delay and before the next attempt, e.g. to
	// restart a faulted host. An error from it ends the loop.
	BeforeRetry func(attempt int, err error) error

	// OnFailure is called after every failed attempt, retried or not.
	OnFailure func(attempt int, err error)
}

// Do calls fn until it succeeds, the error is not retryable, or
// MaxAttempts is reached. Attempts are numbered from 1. It returns the
// number of attempts made and the last error. If ctx is cancelled while
// waiting between attempts Do returns ctx.Err() joined with the last error.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return attempt, nil
		}

		if p.OnFailure != nil {
			p.OnFailure(attempt, err)
		}

		if attempt >= maxAttempts {
			return attempt, err
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return attempt, err
		}

		if p.Delay > 0 {
			select {
			case <-ctx.Done():
				return attempt, errors.Join(err, ctx.Err())
			case <-time.After(p.Delay):
			}
		} else if ctxErr := ctx.Err(); ctxErr != nil {
			return attempt, errors.Join(err, ctxErr)
		}

		if p.BeforeRetry != nil {
			if brErr := p.BeforeRetry(attempt, err); brErr != nil {
				return attempt, errors.Join(err, brErr)
			}
		}
	}
}
