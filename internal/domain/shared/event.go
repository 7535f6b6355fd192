package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened in the domain that other parts
// of the system may react to.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
}

// BaseDomainEvent provides the common DomainEvent fields.
type BaseDomainEvent struct {
	ID          uuid.UUID
	Type        string
	Timestamp   time.Time
	AggregateId uuid.UUID
}

// NewBaseDomainEvent creates the common part of a domain event.
func NewBaseDomainEvent(eventType string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:          uuid.New(),
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
	}
}

func (e BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e BaseDomainEvent) EventType() string      { return e.Type }
func (e BaseDomainEvent) OccurredAt() time.Time  { return e.Timestamp }
func (e BaseDomainEvent) AggregateID() uuid.UUID { return e.AggregateId }

// EventPublisher publishes domain events after a transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler reacts to published events. EventTypes filters which
// events the handler receives.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventBus is a publisher that also manages handler subscriptions.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
