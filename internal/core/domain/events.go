package domain

import "time"

// UserRegisteredEvent represents the payload for careeros.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Name         string
	Email        string
	RegisteredAt time.Time
}

// ApplicationCreatedEvent represents the payload for careeros.application.created messages.
type ApplicationCreatedEvent struct {
	EventID       string
	ApplicationID string
	UserID        string
	JobID         string
	Status        ApplicationStatus
	CreatedAt     time.Time
}

// ApplicationStatusChangedEvent represents the payload for
// careeros.application.status_changed messages.
type ApplicationStatusChangedEvent struct {
	EventID       string
	ApplicationID string
	UserID        string
	JobID         string
	FromStatus    ApplicationStatus
	ToStatus      ApplicationStatus
	Automated     bool
	ChangedAt     time.Time
}
