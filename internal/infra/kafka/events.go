package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(userID),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		Name         string    `json:"name"`
		Email        string    `json:"email"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		Name:         event.Name,
		Email:        event.Email,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishApplicationCreated publishes application.created events.
func (p *EventPublisher) PublishApplicationCreated(ctx context.Context, event domain.ApplicationCreatedEvent) error {
	payload := struct {
		ApplicationID string    `json:"application_id"`
		UserID        string    `json:"user_id"`
		JobID         string    `json:"job_id"`
		Status        string    `json:"status"`
		CreatedAt     time.Time `json:"created_at"`
	}{
		ApplicationID: event.ApplicationID,
		UserID:        event.UserID,
		JobID:         event.JobID,
		Status:        string(event.Status),
		CreatedAt:     event.CreatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "application.created", event.UserID, event.CreatedAt, payload)
}

// PublishApplicationStatusChanged publishes application.status_changed events.
func (p *EventPublisher) PublishApplicationStatusChanged(ctx context.Context, event domain.ApplicationStatusChangedEvent) error {
	payload := struct {
		ApplicationID string    `json:"application_id"`
		UserID        string    `json:"user_id"`
		JobID         string    `json:"job_id"`
		FromStatus    string    `json:"from_status"`
		ToStatus      string    `json:"to_status"`
		Automated     bool      `json:"automated"`
		ChangedAt     time.Time `json:"changed_at"`
	}{
		ApplicationID: event.ApplicationID,
		UserID:        event.UserID,
		JobID:         event.JobID,
		FromStatus:    string(event.FromStatus),
		ToStatus:      string(event.ToStatus),
		Automated:     event.Automated,
		ChangedAt:     event.ChangedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "application.status_changed", event.UserID, event.ChangedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
