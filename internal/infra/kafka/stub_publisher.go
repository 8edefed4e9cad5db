package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"name":          event.Name,
		"email":         event.Email,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishApplicationCreated logs application.created events.
func (p *StubPublisher) PublishApplicationCreated(_ context.Context, event domain.ApplicationCreatedEvent) error {
	payload := map[string]any{
		"application_id": event.ApplicationID,
		"user_id":        event.UserID,
		"job_id":         event.JobID,
		"status":         event.Status,
		"created_at":     event.CreatedAt,
	}
	p.logEvent("application.created", event.UserID, event.CreatedAt, payload)
	return nil
}

// PublishApplicationStatusChanged logs application.status_changed events.
func (p *StubPublisher) PublishApplicationStatusChanged(_ context.Context, event domain.ApplicationStatusChangedEvent) error {
	payload := map[string]any{
		"application_id": event.ApplicationID,
		"user_id":        event.UserID,
		"job_id":         event.JobID,
		"from_status":    event.FromStatus,
		"to_status":      event.ToStatus,
		"automated":      event.Automated,
		"changed_at":     event.ChangedAt,
	}
	p.logEvent("application.status_changed", event.UserID, event.ChangedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
