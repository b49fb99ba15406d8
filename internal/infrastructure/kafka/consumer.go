package kafka

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Photo-QC/pkg/kafka/consumer"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// EventConsumer reads process_photo jobs. Offsets are committed explicitly,
// after the job has finished.
type EventConsumer struct {
	r      messageReader
	closer func() error
}

func NewEventConsumer(c *consumer.Consumer) *EventConsumer {
	return &EventConsumer{
		r:      c.Reader,
		closer: c.Close,
	}
}

func (ec *EventConsumer) ReadEvent(ctx context.Context) (kafka.Message, error) {
	msg, err := ec.r.FetchMessage(ctx)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("EventConsumer - ReadEvent - ec.r.FetchMessage: %w", err)
	}

	return msg, nil
}

func (ec *EventConsumer) CommitEvent(ctx context.Context, event kafka.Message) error {
	err := ec.r.CommitMessages(ctx, event)
	if err != nil {
		return fmt.Errorf("EventConsumer - CommitEvent - ec.r.CommitMessages: photo job at %s/%d@%d: %w",
			event.Topic, event.Partition, event.Offset, err)
	}

	return nil
}

func (ec *EventConsumer) Close() error {
	err := ec.closer()
	if err != nil {
		return fmt.Errorf("EventConsumer - Close: %w", err)
	}

	return nil
}

// Header returns the value of the first header named key, or "".
func Header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}

	return ""
}
