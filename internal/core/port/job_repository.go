package port

import (
	"context"
	"time"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
)

// JobFilter combines independent predicates with AND semantics; the text
// search clause is the only OR (title, company, or description match).
type JobFilter struct {
	Search           string
	Location         string
	LocationType     string
	EmploymentTypes  []string
	ExperienceLevels []string
	Skills           []string
	Company          string
	MinSalary        *int
	MaxSalary        *int
	Source           string
	IncludeInactive  bool
	Sort             string
	Limit            int
	Offset           int
}

// JobUpdate is the explicit allow-list of job fields an edit may touch.
type JobUpdate struct {
	Title            *string
	Company          *string
	CompanyLogo      *string
	Location         *string
	LocationType     *domain.LocationType
	EmploymentType   *domain.EmploymentType
	ExperienceLevel  *domain.ExperienceLevel
	Description      *string
	Requirements     []string
	Responsibilities []string
	Skills           []string
	Salary           *domain.Salary
	Benefits         []string
	ApplicationURL   *string
	Deadline         *time.Time
	IsActive         *bool
	Tags             []string
}

// JobStatGroup is one bucket of a grouped aggregate.
type JobStatGroup struct {
	Key   string
	Count int
}

// JobStats aggregates the active catalog.
type JobStats struct {
	TotalJobs         int
	AvgSalaryMin      *float64
	AvgSalaryMax      *float64
	TotalApplications int
	TotalViews        int
	ByEmploymentType  []JobStatGroup
	ByExperienceLevel []JobStatGroup
	ByLocationType    []JobStatGroup
}

// JobRepository owns the catalog. Counter increments are independent
// atomic bumps, deliberately not synchronized with any other write.
type JobRepository interface {
	Create(ctx context.Context, job domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	Update(ctx context.Context, id string, update JobUpdate) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter JobFilter) ([]domain.Job, error)
	Count(ctx context.Context, filter JobFilter) (int, error)

	IncrementViewCount(ctx context.Context, id string) error
	IncrementApplicationCount(ctx context.Context, id string) error

	Trending(ctx context.Context, postedSince time.Time, limit int) ([]domain.Job, error)
	Newest(ctx context.Context, limit int) ([]domain.Job, error)
	Stats(ctx context.Context) (*JobStats, error)
}
