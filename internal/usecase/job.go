package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/repository"
)

const (
	defaultTrendingWindow = 7 * 24 * time.Hour
	defaultTrendingLimit  = 10
)

// ErrJobNotFound indicates the catalog entry does not exist.
var ErrJobNotFound = errors.New("job not found")

// JobService owns catalog reads and writes.
type JobService struct {
	jobs   port.JobRepository
	logger *zap.Logger
}

// NewJobService constructs a job service.
func NewJobService(jobs port.JobRepository, log *zap.Logger) *JobService {
	if log == nil {
		log = zap.NewNop()
	}
	return &JobService{jobs: jobs, logger: log}
}

// List returns catalog entries matching the filter plus the total count
// before pagination.
func (s *JobService) List(ctx context.Context, filter port.JobFilter) ([]domain.Job, int, error) {
	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}

	total, err := s.jobs.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	return jobs, total, nil
}

// Get loads one catalog entry. The view counter bump is fire-and-forget:
// a failed bump is logged and never fails the read.
func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("load job: %w", err)
	}

	if err := s.jobs.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn("increment view count failed",
			zap.String("job_id", id),
			zap.Error(err),
		)
	} else {
		job.ViewCount++
	}

	return job, nil
}

// Create inserts a catalog entry, filling identity, defaults, and timestamps.
func (s *JobService) Create(ctx context.Context, job domain.Job) (*domain.Job, error) {
	if strings.TrimSpace(job.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if strings.TrimSpace(job.Company) == "" {
		return nil, fmt.Errorf("company is required")
	}

	now := time.Now().UTC()
	job.ID = uuid.NewString()
	job.IsActive = true
	job.ViewCount = 0
	job.ApplicationCount = 0
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.PostedDate.IsZero() {
		job.PostedDate = now
	}
	if job.Source == "" {
		job.Source = "manual"
	}
	if job.Salary.Currency == "" {
		job.Salary.Currency = "USD"
	}
	if job.Salary.Period == "" {
		job.Salary.Period = "yearly"
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info("job created",
		zap.String("job_id", job.ID),
		zap.String("company", job.Company),
	)

	return &job, nil
}

// Update applies the allow-listed fields and returns the updated entry.
func (s *JobService) Update(ctx context.Context, id string, update port.JobUpdate) (*domain.Job, error) {
	if err := s.jobs.Update(ctx, id, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("update job: %w", err)
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}

	return job, nil
}

// Delete removes a catalog entry.
func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrJobNotFound
		}
		return fmt.Errorf("delete job: %w", err)
	}

	s.logger.Info("job deleted", zap.String("job_id", id))
	return nil
}

// Trending returns the most viewed active jobs posted within the window.
func (s *JobService) Trending(ctx context.Context, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}

	since := time.Now().UTC().Add(-defaultTrendingWindow)
	jobs, err := s.jobs.Trending(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("trending jobs: %w", err)
	}

	return jobs, nil
}

// Recommendations returns jobs suggested for the user. Until a scoring
// model lands this serves the newest active postings.
func (s *JobService) Recommendations(ctx context.Context, userID string, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}

	jobs, err := s.jobs.Newest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recommend jobs: %w", err)
	}

	return jobs, nil
}

// Stats aggregates the active catalog.
func (s *JobService) Stats(ctx context.Context) (*port.JobStats, error) {
	stats, err := s.jobs.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	return stats, nil
}
