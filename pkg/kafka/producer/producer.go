package producer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/andreyxaxa/Photo-QC/pkg/retry"
	"github.com/segmentio/kafka-go"
)

const (
	_defaultConnAttempts = 6
	_defaultConnTimeout  = 500 * time.Millisecond
	_defaultBatchTimeout = 50 * time.Millisecond
	_defaultWriteTimeout = 10 * time.Second
)

type Producer struct {
	connAttempts int
	connTimeout  time.Duration
	batchTimeout time.Duration
	writeTimeout time.Duration

	brokers []string
	Writer  *kafka.Writer
}

func New(ctx context.Context, l logger.Interface, brokers []string, opts ...Option) (*Producer, error) {
	p := &Producer{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		batchTimeout: _defaultBatchTimeout,
		writeTimeout: _defaultWriteTimeout,
		brokers:      brokers,
	}

	for _, opt := range opts {
		opt(p)
	}

	if len(p.brokers) == 0 {
		return nil, fmt.Errorf("Kafka Producer - New - no brokers configured")
	}

	connector := retry.New(l, retry.MaxAttempts(p.connAttempts), retry.BaseDelay(p.connTimeout))

	err := connector.Run(ctx, "Kafka Producer - ping", p.ping)
	if err != nil {
		return nil, fmt.Errorf("Kafka Producer - New - connAttempts exhausted: %w", err)
	}

	p.Writer = &kafka.Writer{
		Addr: kafka.TCP(p.brokers...),
		// messages are keyed by photo id
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: p.batchTimeout,
		WriteTimeout: p.writeTimeout,
	}

	return p, nil
}

// EnsureTopics creates the missing topics through the cluster controller.
// Existing topics are left untouched.
func (p *Producer) EnsureTopics(ctx context.Context, partitions, replication int, topics ...string) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("Kafka Producer - EnsureTopics - kafka.DialContext: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("Kafka Producer - EnsureTopics - conn.Controller: %w", err)
	}

	var dialer kafka.Dialer
	ctrlConn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("Kafka Producer - EnsureTopics - dial controller: %w", err)
	}
	defer ctrlConn.Close()

	configs := make([]kafka.TopicConfig, 0, len(topics))
	for _, topic := range topics {
		if topic == "" {
			continue
		}
		configs = append(configs, kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     partitions,
			ReplicationFactor: replication,
		})
	}
	if len(configs) == 0 {
		return nil
	}

	err = ctrlConn.CreateTopics(configs...)
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("Kafka Producer - EnsureTopics - ctrlConn.CreateTopics: %w", err)
	}

	return nil
}

func (p *Producer) ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("Kafka Producer - kafka.DialContext: %w", err)
	}
	defer conn.Close()

	_, err = conn.Brokers()
	if err != nil {
		return fmt.Errorf("Kafka Producer - conn.Brokers: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	if p.Writer != nil {
		return p.Writer.Close()
	}

	return nil
}
