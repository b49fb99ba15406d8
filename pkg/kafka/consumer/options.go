package consumer

import (
	"time"

	"github.com/segmentio/kafka-go"
)

type Option func(*Consumer)

func ConnAttempts(attempts int) Option {
	return func(c *Consumer) {
		c.connAttempts = attempts
	}
}

// ConnTimeout is the base backoff between connection attempts.
func ConnTimeout(timeout time.Duration) Option {
	return func(c *Consumer) {
		c.connTimeout = timeout
	}
}

// FetchBytes bounds a single fetch. Photo jobs are small JSON messages, so the
// minimum defaults to 1 byte to avoid waiting for a batch to fill.
func FetchBytes(minBytes, maxBytes int) Option {
	return func(c *Consumer) {
		c.minBytes = minBytes
		c.maxBytes = maxBytes
	}
}

func MaxWait(d time.Duration) Option {
	return func(c *Consumer) {
		c.maxWait = d
	}
}

// StartFromLatest makes a new consumer group skip jobs queued before it
// existed. By default a new group starts from the earliest offset.
func StartFromLatest() Option {
	return func(c *Consumer) {
		c.startOffset = kafka.LastOffset
	}
}
