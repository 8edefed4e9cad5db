package port

import (
	"context"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
)

// EventPublisher delivers domain events to the message bus. Publishing is
// fire-and-forget relative to the triggering write: failures are logged
// by callers and never propagate into request handling.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishApplicationCreated(ctx context.Context, event domain.ApplicationCreatedEvent) error
	PublishApplicationStatusChanged(ctx context.Context, event domain.ApplicationStatusChangedEvent) error
}
