package port

import (
	"context"
	"time"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
)

// ApplicationFilter scopes list queries. Every query is additionally
// scoped by the owning user; there is no cross-user read path.
type ApplicationFilter struct {
	Statuses []string
	Priority string
	Archived bool
	Search   string
	Sort     string
	Limit    int
	Offset   int
}

// ApplicationUpdate is the explicit allow-list of application fields a
// plain edit may touch. Status changes go through the lifecycle methods
// on the domain entity, not through here.
type ApplicationUpdate struct {
	Priority      *domain.Priority
	Notes         *string
	CoverLetter   *string
	ResumeVersion *string
	Source        *string
	FollowUpDate  *time.Time
	Tags          []string
}

// ApplicationStats summarizes a user's unarchived pipeline.
type ApplicationStats struct {
	ByStatus           map[domain.ApplicationStatus]int
	Total              int
	ThisMonth          int
	UpcomingInterviews int
}

// ApplicationRepository persists application records. Create surfaces a
// (user, job) uniqueness violation as repository.ErrDuplicateKey; the
// constraint itself is enforced by the store, not by a pre-read here.
type ApplicationRepository interface {
	Create(ctx context.Context, app domain.Application) error
	GetByID(ctx context.Context, userID, id string) (*domain.Application, error)
	List(ctx context.Context, userID string, filter ApplicationFilter) ([]domain.Application, error)
	Count(ctx context.Context, userID string, filter ApplicationFilter) (int, error)
	UpdateFields(ctx context.Context, userID, id string, update ApplicationUpdate, at time.Time) error

	// SaveLifecycle persists the mutable lifecycle state (status, applied
	// date, timeline, interviews, offer, contacts, archived flag) after
	// the domain entity has applied a transition.
	SaveLifecycle(ctx context.Context, app domain.Application) error

	Delete(ctx context.Context, userID, id string) error

	Stats(ctx context.Context, userID string, monthStart, now time.Time) (*ApplicationStats, error)
	Recent(ctx context.Context, userID string, limit int) ([]domain.Application, error)
}
