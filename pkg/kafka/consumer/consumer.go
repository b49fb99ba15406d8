package consumer

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/andreyxaxa/Photo-QC/pkg/retry"
	"github.com/segmentio/kafka-go"
)

const (
	_defaultConnAttempts = 6
	_defaultConnTimeout  = 500 * time.Millisecond
	_defaultMinBytes     = 1
	_defaultMaxBytes     = 10e6
	_defaultMaxWait      = time.Second
)

type Consumer struct {
	connAttempts int
	connTimeout  time.Duration
	minBytes     int
	maxBytes     int
	maxWait      time.Duration
	startOffset  int64

	brokers []string
	groupID string
	topic   string

	Reader *kafka.Reader
}

func New(ctx context.Context, l logger.Interface, brokers []string, groupID, topic string, opts ...Option) (*Consumer, error) {
	c := &Consumer{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		minBytes:     _defaultMinBytes,
		maxBytes:     _defaultMaxBytes,
		maxWait:      _defaultMaxWait,
		startOffset:  kafka.FirstOffset,
		brokers:      brokers,
		groupID:      groupID,
		topic:        topic,
	}

	for _, opt := range opts {
		opt(c)
	}

	if len(c.brokers) == 0 {
		return nil, fmt.Errorf("Kafka Consumer - New - no brokers configured")
	}

	connector := retry.New(l, retry.MaxAttempts(c.connAttempts), retry.BaseDelay(c.connTimeout))

	err := connector.Run(ctx, "Kafka Consumer - ping", c.ping)
	if err != nil {
		return nil, fmt.Errorf("Kafka Consumer - New - connAttempts exhausted: %w", err)
	}

	// CommitInterval 0: commits are synchronous, one per finished job
	c.Reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:        c.brokers,
		GroupID:        c.groupID,
		Topic:          c.topic,
		MinBytes:       c.minBytes,
		MaxBytes:       c.maxBytes,
		MaxWait:        c.maxWait,
		StartOffset:    c.startOffset,
		CommitInterval: 0,
	})

	return c, nil
}

func (c *Consumer) ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", c.brokers[0])
	if err != nil {
		return fmt.Errorf("Kafka Consumer - kafka.DialContext: %w", err)
	}
	defer conn.Close()

	_, err = conn.Brokers()
	if err != nil {
		return fmt.Errorf("Kafka Consumer - conn.Brokers: %w", err)
	}

	return nil
}

func (c *Consumer) Close() error {
	if c.Reader != nil {
		return c.Reader.Close()
	}
	return nil
}
