package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/dockprep/internal/domain/derivative"
	"github.com/turtacn/dockprep/pkg/errors"
)

// Event types carried in EventEnvelope.EventType.
const (
	EventDerivativesGenerated = "derivatives.generated"
	EventDerivativesRequested = "derivatives.requested"

	SchemaVersion = "v1"
	SourceService = "dockprep"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEventEnvelope marshals payload into a fresh envelope.
func NewEventEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        SourceService,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeSerialization, "event has no payload").WithDetail(e.EventID)
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal event payload").WithDetail(e.EventID)
	}
	return nil
}

// ToMessage renders the envelope as a message for topic keyed by key.
func (e *EventEnvelope) ToMessage(topic string, key string) (*ProducerMessage, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}
	return &ProducerMessage{
		Topic: topic,
		Key:   []byte(key),
		Value: val,
		Headers: map[string]string{
			"event_type":     e.EventType,
			"source_service": e.Source,
			"schema_version": e.SchemaVersion,
		},
		Timestamp: e.Timestamp,
	}, nil
}

// DecodeEnvelope parses a consumed message into an envelope.
func DecodeEnvelope(msg *Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal event envelope")
	}
	return &env, nil
}

// DecodeBatchGenerated extracts a derivatives.generated event from msg.
func DecodeBatchGenerated(msg *Message) (derivative.BatchGenerated, error) {
	var ev derivative.BatchGenerated
	err := decodeTyped(msg, EventDerivativesGenerated, &ev)
	return ev, err
}

// DecodeGenerationRequested extracts a derivatives.requested event from msg.
func DecodeGenerationRequested(msg *Message) (derivative.GenerationRequested, error) {
	var ev derivative.GenerationRequested
	err := decodeTyped(msg, EventDerivativesRequested, &ev)
	return ev, err
}

func decodeTyped(msg *Message, eventType string, target interface{}) error {
	env, err := DecodeEnvelope(msg)
	if err != nil {
		return err
	}
	if env.EventType != eventType {
		return errors.New(errors.ErrCodeValidation, "unexpected event type").WithDetail(env.EventType)
	}
	return env.DecodePayload(target)
}

// EventPublisher publishes domain events to a single topic.
type EventPublisher struct {
	producer *Producer
	topic    string
}

// NewEventPublisher binds producer to topic.
func NewEventPublisher(producer *Producer, topic string) *EventPublisher {
	return &EventPublisher{producer: producer, topic: topic}
}

// PublishBatchGenerated emits a derivatives.generated event keyed by batch id.
func (p *EventPublisher) PublishBatchGenerated(ctx context.Context, ev derivative.BatchGenerated) error {
	return p.publish(ctx, EventDerivativesGenerated, ev.BatchID, ev)
}

// PublishGenerationRequested emits a derivatives.requested event keyed by
// request id.
func (p *EventPublisher) PublishGenerationRequested(ctx context.Context, ev derivative.GenerationRequested) error {
	return p.publish(ctx, EventDerivativesRequested, ev.RequestID, ev)
}

func (p *EventPublisher) publish(ctx context.Context, eventType, key string, payload interface{}) error {
	env, err := NewEventEnvelope(eventType, payload)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(p.topic, key)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

// Topic returns the destination topic.
func (p *EventPublisher) Topic() string { return p.topic }

// Close closes the underlying producer.
func (p *EventPublisher) Close() error { return p.producer.Close() }

//Personal.AI order the ending
