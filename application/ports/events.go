package ports

import (
	"context"

	"qaforum/domain/events"
)

// EventPublisher publishes domain events to an external bus. Publishing is
// best-effort: callers log failures and continue.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}
