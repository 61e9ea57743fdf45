package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// MessageWriter is the subset of the traced Kafka writer the publisher needs.
type MessageWriter interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaPublisher writes domain events as JSON messages keyed by aggregate ID.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher wraps an existing writer.
func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// NewTracedWriter builds a Kafka writer that propagates the trace context in message headers.
func NewTracedWriter(brokers []string, topic, clientID string, tp trace.TracerProvider) (MessageWriter, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("kafka topic not configured")
	}
	base := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
	writer, err := otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes([]attribute.KeyValue{
			attribute.String("messaging.destination.name", topic),
			attribute.String("messaging.kafka.client_id", clientID),
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("instrument kafka writer: %w", err)
	}
	return writer, nil
}

// envelope is the wire format of a published event.
type envelope struct {
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Publish serializes the event and writes it synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka publisher not configured")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.EventName(), err)
	}
	body, err := json.Marshal(envelope{Name: event.EventName(), OccurredAt: event.OccurredAt(), Payload: payload})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(messageKey(event)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(uuid.NewString())},
			{Key: "event-name", Value: []byte(event.EventName())},
		},
	}
	if err := p.writer.WriteMessage(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventName(), err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func messageKey(event domain.Event) string {
	switch e := event.(type) {
	case domain.InvoiceCreated:
		return strconv.FormatInt(e.InvoiceID, 10)
	default:
		return event.EventName()
	}
}
