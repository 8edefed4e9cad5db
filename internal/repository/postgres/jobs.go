package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/repository"
)

var jobColumns = []string{
	"id",
	"title",
	"company",
	"company_logo",
	"location",
	"location_type",
	"employment_type",
	"experience_level",
	"description",
	"requirements",
	"responsibilities",
	"skills",
	"salary_min",
	"salary_max",
	"salary_currency",
	"salary_period",
	"benefits",
	"application_url",
	"source",
	"external_id",
	"posted_date",
	"deadline",
	"is_active",
	"view_count",
	"application_count",
	"tags",
	"created_at",
	"updated_at",
}

// JobRepository implements port.JobRepository using PostgreSQL.
type JobRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewJobRepository wires a PostgreSQL-backed job repository.
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new catalog entry.
func (r *JobRepository) Create(ctx context.Context, job domain.Job) error {
	query := r.builder.Insert("careeros.jobs").
		Columns(jobColumns...).
		Values(
			job.ID,
			job.Title,
			job.Company,
			job.CompanyLogo,
			job.Location,
			job.LocationType,
			job.EmploymentType,
			job.ExperienceLevel,
			job.Description,
			job.Requirements,
			job.Responsibilities,
			job.Skills,
			job.Salary.Min,
			job.Salary.Max,
			job.Salary.Currency,
			job.Salary.Period,
			job.Benefits,
			job.ApplicationURL,
			job.Source,
			job.ExternalID,
			job.PostedDate,
			job.Deadline,
			job.IsActive,
			job.ViewCount,
			job.ApplicationCount,
			job.Tags,
			job.CreatedAt,
			job.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert job sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("insert job: %w", err)
	}

	return nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job

	if err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.CompanyLogo,
		&job.Location,
		&job.LocationType,
		&job.EmploymentType,
		&job.ExperienceLevel,
		&job.Description,
		&job.Requirements,
		&job.Responsibilities,
		&job.Skills,
		&job.Salary.Min,
		&job.Salary.Max,
		&job.Salary.Currency,
		&job.Salary.Period,
		&job.Benefits,
		&job.ApplicationURL,
		&job.Source,
		&job.ExternalID,
		&job.PostedDate,
		&job.Deadline,
		&job.IsActive,
		&job.ViewCount,
		&job.ApplicationCount,
		&job.Tags,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows || isInvalidTextRepresentation(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}

	return &job, nil
}

// GetByID retrieves a job by identifier.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	stmt, args, err := r.builder.
		Select(jobColumns...).
		From("careeros.jobs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select job sql: %w", err)
	}

	return scanJob(r.exec.QueryRow(ctx, stmt, args...))
}

// Update applies the allow-listed job fields.
func (r *JobRepository) Update(ctx context.Context, id string, update port.JobUpdate) error {
	query := r.builder.Update("careeros.jobs").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	if update.Title != nil {
		query = query.Set("title", *update.Title)
	}
	if update.Company != nil {
		query = query.Set("company", *update.Company)
	}
	if update.CompanyLogo != nil {
		query = query.Set("company_logo", *update.CompanyLogo)
	}
	if update.Location != nil {
		query = query.Set("location", *update.Location)
	}
	if update.LocationType != nil {
		query = query.Set("location_type", *update.LocationType)
	}
	if update.EmploymentType != nil {
		query = query.Set("employment_type", *update.EmploymentType)
	}
	if update.ExperienceLevel != nil {
		query = query.Set("experience_level", *update.ExperienceLevel)
	}
	if update.Description != nil {
		query = query.Set("description", *update.Description)
	}
	if update.Requirements != nil {
		query = query.Set("requirements", update.Requirements)
	}
	if update.Responsibilities != nil {
		query = query.Set("responsibilities", update.Responsibilities)
	}
	if update.Skills != nil {
		query = query.Set("skills", update.Skills)
	}
	if update.Salary != nil {
		query = query.
			Set("salary_min", update.Salary.Min).
			Set("salary_max", update.Salary.Max).
			Set("salary_currency", update.Salary.Currency).
			Set("salary_period", update.Salary.Period)
	}
	if update.Benefits != nil {
		query = query.Set("benefits", update.Benefits)
	}
	if update.ApplicationURL != nil {
		query = query.Set("application_url", *update.ApplicationURL)
	}
	if update.Deadline != nil {
		query = query.Set("deadline", *update.Deadline)
	}
	if update.IsActive != nil {
		query = query.Set("is_active", *update.IsActive)
	}
	if update.Tags != nil {
		query = query.Set("tags", update.Tags)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update job sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update job: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a catalog entry.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("careeros.jobs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete job sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete job: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func applyJobFilter(query squirrel.SelectBuilder, filter port.JobFilter) squirrel.SelectBuilder {
	if !filter.IncludeInactive {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"company": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	if filter.Location != "" {
		query = query.Where(squirrel.ILike{"location": "%" + filter.Location + "%"})
	}
	if filter.LocationType != "" {
		query = query.Where(squirrel.Eq{"location_type": filter.LocationType})
	}
	if len(filter.EmploymentTypes) > 0 {
		query = query.Where(squirrel.Eq{"employment_type": filter.EmploymentTypes})
	}
	if len(filter.ExperienceLevels) > 0 {
		query = query.Where(squirrel.Eq{"experience_level": filter.ExperienceLevels})
	}
	if len(filter.Skills) > 0 {
		query = query.Where("skills && ?", filter.Skills)
	}
	if filter.Company != "" {
		query = query.Where(squirrel.ILike{"company": "%" + filter.Company + "%"})
	}
	if filter.MinSalary != nil {
		query = query.Where(squirrel.GtOrEq{"salary_min": *filter.MinSalary})
	}
	if filter.MaxSalary != nil {
		query = query.Where(squirrel.LtOrEq{"salary_max": *filter.MaxSalary})
	}
	if filter.Source != "" {
		query = query.Where(squirrel.Eq{"source": filter.Source})
	}
	return query
}

func jobSortOrder(sort string) string {
	switch sort {
	case "oldest":
		return "posted_date ASC"
	case "salary-high":
		return "salary_max DESC NULLS LAST"
	case "salary-low":
		return "salary_min ASC NULLS LAST"
	case "popular":
		return "view_count DESC"
	default:
		return "posted_date DESC"
	}
}

func (r *JobRepository) queryJobs(ctx context.Context, query squirrel.SelectBuilder) ([]domain.Job, error) {
	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list jobs sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return jobs, nil
}

// List returns catalog entries matching the filter.
func (r *JobRepository) List(ctx context.Context, filter port.JobFilter) ([]domain.Job, error) {
	query := applyJobFilter(
		r.builder.Select(jobColumns...).From("careeros.jobs"),
		filter,
	).OrderBy(jobSortOrder(filter.Sort))

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	return r.queryJobs(ctx, query)
}

// Count returns the number of catalog entries matching the filter.
func (r *JobRepository) Count(ctx context.Context, filter port.JobFilter) (int, error) {
	query := applyJobFilter(
		r.builder.Select("COUNT(*)").From("careeros.jobs"),
		filter,
	)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count jobs sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan jobs count: %w", err)
	}

	return int(count), nil
}

// IncrementViewCount bumps the view counter as an independent atomic write.
func (r *JobRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.incrementCounter(ctx, id, "view_count")
}

// IncrementApplicationCount bumps the application counter as an
// independent atomic write.
func (r *JobRepository) IncrementApplicationCount(ctx context.Context, id string) error {
	return r.incrementCounter(ctx, id, "application_count")
}

func (r *JobRepository) incrementCounter(ctx context.Context, id, column string) error {
	stmt, args, err := r.builder.Update("careeros.jobs").
		Set(column, squirrel.Expr(column+" + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build increment %s sql: %w", column, err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("increment %s: %w", column, err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Trending returns the most viewed active jobs posted since the cutoff.
func (r *JobRepository) Trending(ctx context.Context, postedSince time.Time, limit int) ([]domain.Job, error) {
	query := r.builder.Select(jobColumns...).
		From("careeros.jobs").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.GtOrEq{"posted_date": postedSince}).
		OrderBy("view_count DESC", "application_count DESC").
		Limit(uint64(limit))

	return r.queryJobs(ctx, query)
}

// Newest returns the most recently posted active jobs.
func (r *JobRepository) Newest(ctx context.Context, limit int) ([]domain.Job, error) {
	query := r.builder.Select(jobColumns...).
		From("careeros.jobs").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("posted_date DESC").
		Limit(uint64(limit))

	return r.queryJobs(ctx, query)
}

const jobStatsSQL = `
	SELECT COUNT(*),
	       AVG(salary_min),
	       AVG(salary_max),
	       COALESCE(SUM(application_count), 0),
	       COALESCE(SUM(view_count), 0)
	  FROM careeros.jobs
	 WHERE is_active = true
`

// Stats aggregates the active catalog.
func (r *JobRepository) Stats(ctx context.Context) (*port.JobStats, error) {
	var stats port.JobStats

	row := r.exec.QueryRow(ctx, jobStatsSQL)
	if err := row.Scan(
		&stats.TotalJobs,
		&stats.AvgSalaryMin,
		&stats.AvgSalaryMax,
		&stats.TotalApplications,
		&stats.TotalViews,
	); err != nil {
		return nil, fmt.Errorf("scan job stats: %w", err)
	}

	grouped := []struct {
		column string
		dest   *[]port.JobStatGroup
	}{
		{"employment_type", &stats.ByEmploymentType},
		{"experience_level", &stats.ByExperienceLevel},
		{"location_type", &stats.ByLocationType},
	}

	for _, group := range grouped {
		groups, err := r.groupCounts(ctx, group.column)
		if err != nil {
			return nil, err
		}
		*group.dest = groups
	}

	return &stats, nil
}

func (r *JobRepository) groupCounts(ctx context.Context, column string) ([]port.JobStatGroup, error) {
	stmt, args, err := r.builder.Select(column, "COUNT(*)").
		From("careeros.jobs").
		Where(squirrel.Eq{"is_active": true}).
		GroupBy(column).
		OrderBy("COUNT(*) DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build group counts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s counts: %w", column, err)
	}
	defer rows.Close()

	groups := make([]port.JobStatGroup, 0)
	for rows.Next() {
		var group port.JobStatGroup
		if err := rows.Scan(&group.Key, &group.Count); err != nil {
			return nil, fmt.Errorf("scan %s count: %w", column, err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s counts: %w", column, err)
	}

	return groups, nil
}

var _ port.JobRepository = (*JobRepository)(nil)
