// Package retry runs fallible operations with exponential backoff.
//
// Attempt k+1 starts BaseDelay * 2^(k-1) after attempt k failed. After
// MaxAttempts failures the last error is returned unchanged. Errors the
// classifier reports as fatal are returned right away.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/andreyxaxa/Photo-QC/pkg/types/errs"
)

const (
	_defaultMaxAttempts = 3
	_defaultBaseDelay   = 500 * time.Millisecond
)

// Classifier reports whether err may succeed on a later attempt.
type Classifier func(err error) bool

type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   Classifier
}

type Executor struct {
	policy Policy
	logger logger.Interface
	sleep  func(ctx context.Context, d time.Duration) error
}

func New(l logger.Interface, opts ...Option) *Executor {
	e := &Executor{
		policy: Policy{
			MaxAttempts: _defaultMaxAttempts,
			BaseDelay:   _defaultBaseDelay,
			Retryable:   DefaultClassifier,
		},
		logger: l,
		sleep:  sleepContext,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.policy.MaxAttempts < 1 {
		e.policy.MaxAttempts = 1
	}
	if e.policy.Retryable == nil {
		e.policy.Retryable = DefaultClassifier
	}

	return e
}

func (e *Executor) Policy() Policy {
	return e.policy
}

// Backoff returns the wait before attempt+1, given that attempt (1-based) failed.
func (e *Executor) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}

	return e.policy.BaseDelay * time.Duration(1<<uint(attempt-1))
}

func (e *Executor) Run(ctx context.Context, name string, op func(ctx context.Context) error) error {
	_, err := Do(ctx, e, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})

	return err
}

func Do[T any](ctx context.Context, e *Executor, name string, op func(ctx context.Context) (T, error)) (T, error) {
	var (
		res T
		err error
	)

	for attempt := 1; attempt <= e.policy.MaxAttempts; attempt++ {
		res, err = op(ctx)
		if err == nil {
			return res, nil
		}

		if !e.policy.Retryable(err) {
			e.logger.Warn("retry - %s - attempt %d/%d failed with fatal error, not retrying: %v",
				name, attempt, e.policy.MaxAttempts, err)

			return res, err
		}

		if attempt == e.policy.MaxAttempts {
			e.logger.Error(err, "retry - %s - max attempts (%d) reached", name, e.policy.MaxAttempts)

			return res, err
		}

		backoff := e.Backoff(attempt)
		e.logger.Warn("retry - %s - attempt %d/%d failed, retrying in %s: %v",
			name, attempt, e.policy.MaxAttempts, backoff, err)

		if sleepErr := e.sleep(ctx, backoff); sleepErr != nil {
			return res, err
		}
	}

	return res, err
}

// DefaultClassifier retries everything except permanent errors and context termination.
func DefaultClassifier(err error) bool {
	if err == nil {
		return false
	}
	if errs.IsPermanent(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
