package kafka

import (
	"context"
	"time"

	"hotelbox/pkg/logger"
)

// Event is a typed payload published on the portal events topic.
type Event struct {
	Type          string
	Key           string
	Payload       any
	CorrelationID string
}

func PublishEvent(ctx context.Context, p Publisher, source, schemaVersion string, e Event) error {
	msg, err := NewMessage().
		WithKey(e.Key).
		WithValue(e.Payload).
		WithEventType(e.Type).
		WithCorrelationID(e.CorrelationID).
		WithSource(source).
		WithSchemaVersion(schemaVersion).
		Build()
	if err != nil {
		return err
	}
	return p.Publish(ctx, msg)
}

// Emitter publishes events on a best effort basis: the user facing action
// already succeeded, so a failed publish is only logged.
type Emitter struct {
	publisher     Publisher
	source        string
	schemaVersion string
	timeout       time.Duration
	log           *logger.Logger
}

func NewEmitter(p Publisher, source, schemaVersion string, log *logger.Logger) *Emitter {
	if p == nil {
		p = NopPublisher{}
	}
	return &Emitter{
		publisher:     p,
		source:        source,
		schemaVersion: schemaVersion,
		timeout:       5 * time.Second,
		log:           log,
	}
}

// Emit is a no-op on a nil Emitter.
func (e *Emitter) Emit(ctx context.Context, ev Event) {
	if e == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	if err := PublishEvent(ctx, e.publisher, e.source, e.schemaVersion, ev); err != nil {
		e.log.Warn("Failed to publish event", "event_type", ev.Type, "key", ev.Key, "error", err)
	}
}
