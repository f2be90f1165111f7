// Package events publishes booking lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/nekogravitycat/service-booking-backend/internal/booking"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per event, keyed by booking id so
// all events of a booking land on the same partition in order.
type KafkaPublisher struct {
	w        messageWriter
	producer string
	timeout  time.Duration
}

func NewKafkaPublisher(brokers []string, topic, producer string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(w, producer)
}

func newPublisher(w messageWriter, producer string) *KafkaPublisher {
	return &KafkaPublisher{w: w, producer: producer, timeout: 5 * time.Second}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt booking.Event) error {
	msg, err := p.message(evt)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.w.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", evt.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) message(evt booking.Event) (kafka.Message, error) {
	payload, err := json.Marshal(newBookingPayload(evt.Booking))
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode payload: %w", err)
	}

	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     string(evt.Type),
		EventVersion:  EnvelopeVersion,
		OccurredAt:    evt.OccurredAt,
		Producer:      p.producer,
		CorrelationID: evt.Booking.ID,
		Payload:       payload,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode envelope: %w", err)
	}

	return kafka.Message{
		Key:   []byte(evt.Booking.ID),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(evt.Type)},
			{Key: "x-event-version", Value: []byte(fmt.Sprint(EnvelopeVersion))},
		},
	}, nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, booking.Event) error { return nil }
