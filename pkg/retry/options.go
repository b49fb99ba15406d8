package retry

import (
	"context"
	"time"
)

type Option func(*Executor)

func MaxAttempts(n int) Option {
	return func(e *Executor) {
		e.policy.MaxAttempts = n
	}
}

func BaseDelay(d time.Duration) Option {
	return func(e *Executor) {
		e.policy.BaseDelay = d
	}
}

func WithClassifier(c Classifier) Option {
	return func(e *Executor) {
		e.policy.Retryable = c
	}
}

// WithSleep replaces the wait between attempts. Tests use it to record backoffs.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Executor) {
		e.sleep = sleep
	}
}
