package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/repository"
)

var applicationColumns = []string{
	"id",
	"user_id",
	"job_id",
	"job_snapshot",
	"status",
	"applied_date",
	"source",
	"cover_letter",
	"resume_version",
	"notes",
	"priority",
	"contacts",
	"timeline",
	"interviews",
	"offer",
	"rejection_reason",
	"follow_up_date",
	"tags",
	"archived",
	"created_at",
	"updated_at",
}

// ApplicationRepository implements port.ApplicationRepository using
// PostgreSQL. Document-shaped sub-entities (snapshot, timeline,
// interviews, offer, contacts) are stored as jsonb.
type ApplicationRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewApplicationRepository wires a PostgreSQL-backed application repository.
func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func marshalJSONB(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	return data, nil
}

func marshalOptionalJSONB(v any, present bool) ([]byte, error) {
	if !present {
		return nil, nil
	}
	return marshalJSONB(v)
}

type applicationDocs struct {
	snapshot   []byte
	contacts   []byte
	timeline   []byte
	interviews []byte
	offer      []byte
}

func marshalApplicationDocs(app domain.Application) (applicationDocs, error) {
	var (
		docs applicationDocs
		err  error
	)

	if docs.snapshot, err = marshalJSONB(app.JobSnapshot); err != nil {
		return docs, err
	}
	if docs.contacts, err = marshalJSONB(app.Contacts); err != nil {
		return docs, err
	}
	if docs.timeline, err = marshalJSONB(app.Timeline); err != nil {
		return docs, err
	}
	if docs.interviews, err = marshalJSONB(app.Interviews); err != nil {
		return docs, err
	}
	if docs.offer, err = marshalOptionalJSONB(app.Offer, app.Offer != nil); err != nil {
		return docs, err
	}

	return docs, nil
}

// Create inserts an application row. A second application for the same
// (user, job) pair trips the unique index and surfaces as
// repository.ErrDuplicateKey.
func (r *ApplicationRepository) Create(ctx context.Context, app domain.Application) error {
	docs, err := marshalApplicationDocs(app)
	if err != nil {
		return err
	}

	query := r.builder.Insert("careeros.applications").
		Columns(applicationColumns...).
		Values(
			app.ID,
			app.UserID,
			app.JobID,
			docs.snapshot,
			app.Status,
			app.AppliedDate,
			app.Source,
			app.CoverLetter,
			app.ResumeVersion,
			app.Notes,
			app.Priority,
			docs.contacts,
			docs.timeline,
			docs.interviews,
			docs.offer,
			app.RejectionReason,
			app.FollowUpDate,
			app.Tags,
			app.Archived,
			app.CreatedAt,
			app.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert application sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("insert application: %w", err)
	}

	return nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var (
		app        domain.Application
		snapshot   []byte
		contacts   []byte
		timeline   []byte
		interviews []byte
		offer      []byte
	)

	if err := row.Scan(
		&app.ID,
		&app.UserID,
		&app.JobID,
		&snapshot,
		&app.Status,
		&app.AppliedDate,
		&app.Source,
		&app.CoverLetter,
		&app.ResumeVersion,
		&app.Notes,
		&app.Priority,
		&contacts,
		&timeline,
		&interviews,
		&offer,
		&app.RejectionReason,
		&app.FollowUpDate,
		&app.Tags,
		&app.Archived,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows || isInvalidTextRepresentation(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}

	if err := json.Unmarshal(snapshot, &app.JobSnapshot); err != nil {
		return nil, fmt.Errorf("unmarshal job snapshot: %w", err)
	}
	if err := json.Unmarshal(contacts, &app.Contacts); err != nil {
		return nil, fmt.Errorf("unmarshal contacts: %w", err)
	}
	if err := json.Unmarshal(timeline, &app.Timeline); err != nil {
		return nil, fmt.Errorf("unmarshal timeline: %w", err)
	}
	if err := json.Unmarshal(interviews, &app.Interviews); err != nil {
		return nil, fmt.Errorf("unmarshal interviews: %w", err)
	}
	if len(offer) > 0 {
		app.Offer = &domain.Offer{}
		if err := json.Unmarshal(offer, app.Offer); err != nil {
			return nil, fmt.Errorf("unmarshal offer: %w", err)
		}
	}

	return &app, nil
}

// GetByID retrieves an application scoped to its owner.
func (r *ApplicationRepository) GetByID(ctx context.Context, userID, id string) (*domain.Application, error) {
	stmt, args, err := r.builder.
		Select(applicationColumns...).
		From("careeros.applications").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select application sql: %w", err)
	}

	return scanApplication(r.exec.QueryRow(ctx, stmt, args...))
}

func applyApplicationFilter(query squirrel.SelectBuilder, userID string, filter port.ApplicationFilter) squirrel.SelectBuilder {
	query = query.
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"archived": filter.Archived})

	if len(filter.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"status": filter.Statuses})
	}
	if filter.Priority != "" {
		query = query.Where(squirrel.Eq{"priority": filter.Priority})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"job_snapshot->>'title'": pattern},
			squirrel.ILike{"job_snapshot->>'company'": pattern},
			squirrel.ILike{"notes": pattern},
		})
	}

	return query
}

func applicationSortOrder(sort string) string {
	switch sort {
	case "oldest":
		return "created_at ASC"
	case "updated":
		return "updated_at DESC"
	case "applied":
		return "applied_date DESC NULLS LAST"
	default:
		return "created_at DESC"
	}
}

// List returns a user's applications matching the filter.
func (r *ApplicationRepository) List(ctx context.Context, userID string, filter port.ApplicationFilter) ([]domain.Application, error) {
	query := applyApplicationFilter(
		r.builder.Select(applicationColumns...).From("careeros.applications"),
		userID,
		filter,
	).OrderBy(applicationSortOrder(filter.Sort))

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list applications sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	apps := make([]domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}

	return apps, nil
}

// Count returns the number of a user's applications matching the filter.
func (r *ApplicationRepository) Count(ctx context.Context, userID string, filter port.ApplicationFilter) (int, error) {
	query := applyApplicationFilter(
		r.builder.Select("COUNT(*)").From("careeros.applications"),
		userID,
		filter,
	)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count applications sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan applications count: %w", err)
	}

	return int(count), nil
}

// UpdateFields applies the allow-listed editable fields.
func (r *ApplicationRepository) UpdateFields(ctx context.Context, userID, id string, update port.ApplicationUpdate, at time.Time) error {
	query := r.builder.Update("careeros.applications").
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "user_id": userID})

	if update.Priority != nil {
		query = query.Set("priority", *update.Priority)
	}
	if update.Notes != nil {
		query = query.Set("notes", *update.Notes)
	}
	if update.CoverLetter != nil {
		query = query.Set("cover_letter", *update.CoverLetter)
	}
	if update.ResumeVersion != nil {
		query = query.Set("resume_version", *update.ResumeVersion)
	}
	if update.Source != nil {
		query = query.Set("source", *update.Source)
	}
	if update.FollowUpDate != nil {
		query = query.Set("follow_up_date", *update.FollowUpDate)
	}
	if update.Tags != nil {
		query = query.Set("tags", update.Tags)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update application sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update application: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SaveLifecycle persists the mutable lifecycle state after the domain
// entity has applied a transition.
func (r *ApplicationRepository) SaveLifecycle(ctx context.Context, app domain.Application) error {
	docs, err := marshalApplicationDocs(app)
	if err != nil {
		return err
	}

	stmt, args, err := r.builder.Update("careeros.applications").
		Set("status", app.Status).
		Set("applied_date", app.AppliedDate).
		Set("timeline", docs.timeline).
		Set("interviews", docs.interviews).
		Set("offer", docs.offer).
		Set("contacts", docs.contacts).
		Set("rejection_reason", app.RejectionReason).
		Set("archived", app.Archived).
		Set("updated_at", app.UpdatedAt).
		Where(squirrel.Eq{"id": app.ID, "user_id": app.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save lifecycle sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("save lifecycle: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes an application scoped to its owner.
func (r *ApplicationRepository) Delete(ctx context.Context, userID, id string) error {
	stmt, args, err := r.builder.Delete("careeros.applications").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete application sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete application: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

const upcomingInterviewsSQL = `
	SELECT COUNT(*)
	  FROM careeros.applications a,
	       jsonb_array_elements(a.interviews) iv
	 WHERE a.user_id = $1
	   AND a.archived = false
	   AND (iv->>'completed')::boolean = false
	   AND (iv->>'scheduledDate')::timestamptz > $2
`

// Stats summarizes a user's unarchived pipeline.
func (r *ApplicationRepository) Stats(ctx context.Context, userID string, monthStart, now time.Time) (*port.ApplicationStats, error) {
	stats := &port.ApplicationStats{
		ByStatus: make(map[domain.ApplicationStatus]int),
	}

	stmt, args, err := r.builder.Select("status", "COUNT(*)").
		From("careeros.applications").
		Where(squirrel.Eq{"user_id": userID, "archived": false}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status counts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status domain.ApplicationStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	monthStmt, monthArgs, err := r.builder.Select("COUNT(*)").
		From("careeros.applications").
		Where(squirrel.Eq{"user_id": userID, "archived": false}).
		Where(squirrel.GtOrEq{"created_at": monthStart}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build month count sql: %w", err)
	}

	if err := r.exec.QueryRow(ctx, monthStmt, monthArgs...).Scan(&stats.ThisMonth); err != nil {
		return nil, fmt.Errorf("scan month count: %w", err)
	}

	if err := r.exec.QueryRow(ctx, upcomingInterviewsSQL, userID, now).Scan(&stats.UpcomingInterviews); err != nil {
		return nil, fmt.Errorf("scan upcoming interviews: %w", err)
	}

	return stats, nil
}

// Recent returns a user's most recently touched unarchived applications.
func (r *ApplicationRepository) Recent(ctx context.Context, userID string, limit int) ([]domain.Application, error) {
	return r.List(ctx, userID, port.ApplicationFilter{
		Sort:  "updated",
		Limit: limit,
	})
}

var _ port.ApplicationRepository = (*ApplicationRepository)(nil)
