package kafka

import (
	"context"
	"fmt"
	"strconv"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"

	headerOriginTopic     = "origin_topic"
	headerOriginPartition = "origin_partition"
	headerOriginOffset    = "origin_offset"
	headerError           = "error"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type EventProducer struct {
	w      messageWriter
	closer func() error

	topic    string
	dlqTopic string
}

// NewEventProducer publishes outbox events to topic. An empty dlqTopic
// disables dead-lettering.
func NewEventProducer(p *producer.Producer, topic, dlqTopic string) *EventProducer {
	return &EventProducer{
		w:        p.Writer,
		closer:   p.Close,
		topic:    topic,
		dlqTopic: dlqTopic,
	}
}

func (ep *EventProducer) SendEvents(ctx context.Context, events []*entity.OutboxEvent) error {
	msgsToSend := make([]kafka.Message, 0, len(events))

	for _, event := range events {
		msg := kafka.Message{
			Topic: ep.topic,
			// same key keeps every job for one photo on one partition
			Key:   []byte(event.AggregateID.String()),
			Value: event.Payload,
			Headers: []kafka.Header{
				{Key: HeaderEventID, Value: []byte(event.ID.String())},
				{Key: HeaderEventType, Value: []byte(event.EventType)},
			},
		}
		msgsToSend = append(msgsToSend, msg)
	}

	if len(msgsToSend) == 0 {
		return nil
	}

	err := ep.w.WriteMessages(ctx, msgsToSend...)
	if err != nil {
		return fmt.Errorf("EventProducer - SendEvents - ep.w.WriteMessages: %w", err)
	}

	return nil
}

// SendDeadLetter parks a message whose job exhausted its retries.
func (ep *EventProducer) SendDeadLetter(ctx context.Context, msg kafka.Message, cause error) error {
	if ep.dlqTopic == "" {
		return nil
	}

	headers := make([]kafka.Header, 0, len(msg.Headers)+4)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: headerOriginTopic, Value: []byte(msg.Topic)},
		kafka.Header{Key: headerOriginPartition, Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: headerOriginOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
	)
	if cause != nil {
		headers = append(headers, kafka.Header{Key: headerError, Value: []byte(cause.Error())})
	}

	err := ep.w.WriteMessages(ctx, kafka.Message{
		Topic:   ep.dlqTopic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("EventProducer - SendDeadLetter - ep.w.WriteMessages: %w", err)
	}

	return nil
}

func (ep *EventProducer) Close() error {
	err := ep.closer()
	if err != nil {
		return fmt.Errorf("EventProducer - Close: %w", err)
	}

	return nil
}
