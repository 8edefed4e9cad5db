package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/repository"
)

var (
	// ErrApplicationNotFound indicates the record does not exist for this user.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrDuplicateApplication indicates the user already tracks this job.
	ErrDuplicateApplication = errors.New("application already exists for this job")
	// ErrInvalidStatus indicates the requested status is not a known stage.
	ErrInvalidStatus = errors.New("invalid application status")
	// ErrInterviewNotFound indicates no interview with the given id exists.
	ErrInterviewNotFound = errors.New("interview not found")
)

// CreateApplicationInput carries the optional fields accepted alongside
// the job reference at creation time.
type CreateApplicationInput struct {
	JobID         string
	Status        domain.ApplicationStatus
	Notes         *string
	CoverLetter   *string
	ResumeVersion *string
	Source        string
	Priority      domain.Priority
}

// InterviewUpdate is the allow-list of interview fields an edit may touch.
type InterviewUpdate struct {
	Type          *string
	ScheduledDate *time.Time
	Duration      *int
	Location      *string
	MeetingLink   *string
	Notes         *string
	Completed     *bool
	Feedback      *string
}

// ApplicationService owns the application lifecycle. Status semantics
// live on the domain entity; this layer loads, delegates, and persists.
type ApplicationService struct {
	apps      port.ApplicationRepository
	jobs      port.JobRepository
	publisher port.EventPublisher
	logger    *zap.Logger
}

// NewApplicationService constructs an application service.
func NewApplicationService(
	apps port.ApplicationRepository,
	jobs port.JobRepository,
	publisher port.EventPublisher,
	log *zap.Logger,
) *ApplicationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplicationService{
		apps:      apps,
		jobs:      jobs,
		publisher: publisher,
		logger:    log,
	}
}

// Create records a new application for the user. The job's display
// fields are snapshotted by value, the (user, job) uniqueness rule is
// enforced by the store, and the job's application counter bump is
// fire-and-forget.
func (s *ApplicationService) Create(ctx context.Context, userID string, input CreateApplicationInput) (*domain.Application, error) {
	if input.JobID == "" {
		return nil, fmt.Errorf("job id is required")
	}
	if input.Status != "" && !domain.ValidStatus(input.Status) {
		return nil, ErrInvalidStatus
	}

	job, err := s.jobs.GetByID(ctx, input.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("load job: %w", err)
	}

	now := time.Now().UTC()
	app := domain.NewApplication(uuid.NewString(), userID, *job, input.Status, now)
	app.Notes = input.Notes
	app.CoverLetter = input.CoverLetter
	app.ResumeVersion = input.ResumeVersion
	if input.Source != "" {
		app.Source = input.Source
	}
	if input.Priority != "" {
		app.Priority = input.Priority
	}

	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	if err := s.jobs.IncrementApplicationCount(ctx, job.ID); err != nil {
		s.logger.Warn("increment application count failed",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
	}

	s.publishCreated(ctx, app)

	s.logger.Info("application created",
		zap.String("application_id", app.ID),
		zap.String("user_id", userID),
		zap.String("job_id", job.ID),
		zap.String("status", string(app.Status)),
	)

	return &app, nil
}

// Get loads one application scoped to its owner.
func (s *ApplicationService) Get(ctx context.Context, userID, id string) (*domain.Application, error) {
	app, err := s.apps.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("load application: %w", err)
	}
	return app, nil
}

// List returns the user's applications matching the filter plus the
// total count before pagination.
func (s *ApplicationService) List(ctx context.Context, userID string, filter port.ApplicationFilter) ([]domain.Application, int, error) {
	apps, err := s.apps.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	total, err := s.apps.Count(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	return apps, total, nil
}

// Update applies the allow-listed editable fields and returns the
// updated record. Status is not editable here.
func (s *ApplicationService) Update(ctx context.Context, userID, id string, update port.ApplicationUpdate) (*domain.Application, error) {
	if err := s.apps.UpdateFields(ctx, userID, id, update, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("update application: %w", err)
	}
	return s.Get(ctx, userID, id)
}

// UpdateStatus applies a caller-directed transition and persists it.
// A rejection reason is recorded only on a move into "rejected".
func (s *ApplicationService) UpdateStatus(ctx context.Context, userID, id string, status domain.ApplicationStatus, notes, rejectionReason *string) (*domain.Application, error) {
	if !domain.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	from := app.Status
	now := time.Now().UTC()
	app.ChangeStatus(status, notes, now)
	if status == domain.StatusRejected && rejectionReason != nil {
		app.RejectionReason = rejectionReason
	}

	if err := s.saveLifecycle(ctx, app); err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, *app, from, false, now)

	return app, nil
}

// AddInterview appends an interview round, auto-advancing early-stage
// applications to interview-scheduled.
func (s *ApplicationService) AddInterview(ctx context.Context, userID, id string, iv domain.Interview) (*domain.Application, error) {
	if iv.Type == "" {
		return nil, fmt.Errorf("interview type is required")
	}
	if iv.ScheduledDate.IsZero() {
		return nil, fmt.Errorf("scheduled date is required")
	}

	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	iv.ID = uuid.NewString()
	from := app.Status
	now := time.Now().UTC()
	app.AddInterview(iv, now)

	if err := s.saveLifecycle(ctx, app); err != nil {
		return nil, err
	}

	if app.Status != from {
		s.publishStatusChanged(ctx, *app, from, true, now)
	}

	return app, nil
}

// UpdateInterview edits one interview round in place.
func (s *ApplicationService) UpdateInterview(ctx context.Context, userID, id, interviewID string, update InterviewUpdate) (*domain.Application, error) {
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range app.Interviews {
		if app.Interviews[i].ID != interviewID {
			continue
		}
		found = true

		iv := &app.Interviews[i]
		if update.Type != nil {
			iv.Type = *update.Type
		}
		if update.ScheduledDate != nil {
			iv.ScheduledDate = *update.ScheduledDate
		}
		if update.Duration != nil {
			iv.Duration = update.Duration
		}
		if update.Location != nil {
			iv.Location = update.Location
		}
		if update.MeetingLink != nil {
			iv.MeetingLink = update.MeetingLink
		}
		if update.Notes != nil {
			iv.Notes = update.Notes
		}
		if update.Completed != nil {
			iv.Completed = *update.Completed
		}
		if update.Feedback != nil {
			iv.Feedback = update.Feedback
		}
		break
	}

	if !found {
		return nil, ErrInterviewNotFound
	}

	app.UpdatedAt = time.Now().UTC()
	if err := s.saveLifecycle(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// SetOffer records received terms, forcing the status to "offer".
func (s *ApplicationService) SetOffer(ctx context.Context, userID, id string, offer domain.Offer) (*domain.Application, error) {
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	from := app.Status
	now := time.Now().UTC()
	app.SetOffer(offer, now)

	if err := s.saveLifecycle(ctx, app); err != nil {
		return nil, err
	}

	if app.Status != from {
		s.publishStatusChanged(ctx, *app, from, true, now)
	}

	return app, nil
}

// AddContact appends a contact to the application.
func (s *ApplicationService) AddContact(ctx context.Context, userID, id string, contact domain.Contact) (*domain.Application, error) {
	if contact.Name == "" {
		return nil, fmt.Errorf("contact name is required")
	}

	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	app.AddContact(contact, time.Now().UTC())
	if err := s.saveLifecycle(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// ToggleArchive flips the archived flag.
func (s *ApplicationService) ToggleArchive(ctx context.Context, userID, id string) (*domain.Application, error) {
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	app.ToggleArchive(time.Now().UTC())
	if err := s.saveLifecycle(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// Delete removes an application scoped to its owner.
func (s *ApplicationService) Delete(ctx context.Context, userID, id string) error {
	if err := s.apps.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("delete application: %w", err)
	}

	s.logger.Info("application deleted",
		zap.String("application_id", id),
		zap.String("user_id", userID),
	)
	return nil
}

// Stats summarizes the user's unarchived pipeline.
func (s *ApplicationService) Stats(ctx context.Context, userID string) (*port.ApplicationStats, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats, err := s.apps.Stats(ctx, userID, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("application stats: %w", err)
	}

	return stats, nil
}

// Recent returns the user's most recently touched applications.
func (s *ApplicationService) Recent(ctx context.Context, userID string, limit int) ([]domain.Application, error) {
	if limit <= 0 {
		limit = 5
	}

	apps, err := s.apps.Recent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent applications: %w", err)
	}

	return apps, nil
}

func (s *ApplicationService) saveLifecycle(ctx context.Context, app *domain.Application) error {
	if err := s.apps.SaveLifecycle(ctx, *app); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("save application: %w", err)
	}
	return nil
}

func (s *ApplicationService) publishCreated(ctx context.Context, app domain.Application) {
	if s.publisher == nil {
		return
	}

	event := domain.ApplicationCreatedEvent{
		EventID:       uuid.NewString(),
		ApplicationID: app.ID,
		UserID:        app.UserID,
		JobID:         app.JobID,
		Status:        app.Status,
		CreatedAt:     app.CreatedAt,
	}
	if err := s.publisher.PublishApplicationCreated(ctx, event); err != nil {
		s.logger.Warn("publish application created event failed",
			zap.String("application_id", app.ID),
			zap.Error(err),
		)
	}
}

func (s *ApplicationService) publishStatusChanged(ctx context.Context, app domain.Application, from domain.ApplicationStatus, automated bool, at time.Time) {
	if s.publisher == nil {
		return
	}

	event := domain.ApplicationStatusChangedEvent{
		EventID:       uuid.NewString(),
		ApplicationID: app.ID,
		UserID:        app.UserID,
		JobID:         app.JobID,
		FromStatus:    from,
		ToStatus:      app.Status,
		Automated:     automated,
		ChangedAt:     at,
	}
	if err := s.publisher.PublishApplicationStatusChanged(ctx, event); err != nil {
		s.logger.Warn("publish status changed event failed",
			zap.String("application_id", app.ID),
			zap.Error(err),
		)
	}
}
