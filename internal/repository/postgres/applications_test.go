package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/repository"
)

func newMockApplicationRepo(t *testing.T) (*ApplicationRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	repo := &ApplicationRepository{
		exec:    mock,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	return repo, mock
}

func sampleApplication(now time.Time) domain.Application {
	job := domain.Job{
		ID:             "job-1",
		Title:          "Backend Engineer",
		Company:        "Acme",
		Location:       "Berlin",
		EmploymentType: domain.EmploymentFullTime,
	}
	return domain.NewApplication("app-1", "user-1", job, domain.StatusApplied, now)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return data
}

func applicationRows(t *testing.T, app domain.Application) *pgxmock.Rows {
	t.Helper()

	var offer []byte
	if app.Offer != nil {
		offer = mustJSON(t, app.Offer)
	}

	return pgxmock.NewRows(applicationColumns).AddRow(
		app.ID,
		app.UserID,
		app.JobID,
		mustJSON(t, app.JobSnapshot),
		app.Status,
		app.AppliedDate,
		app.Source,
		app.CoverLetter,
		app.ResumeVersion,
		app.Notes,
		app.Priority,
		mustJSON(t, app.Contacts),
		mustJSON(t, app.Timeline),
		mustJSON(t, app.Interviews),
		offer,
		app.RejectionReason,
		app.FollowUpDate,
		app.Tags,
		app.Archived,
		app.CreatedAt,
		app.UpdatedAt,
	)
}

func TestApplicationCreate(t *testing.T) {
	repo, mock := newMockApplicationRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO careeros.applications").
		WithArgs(anyArgs(len(applicationColumns))...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), sampleApplication(now)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApplicationCreateDuplicate(t *testing.T) {
	repo, mock := newMockApplicationRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO careeros.applications").
		WithArgs(anyArgs(len(applicationColumns))...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_user_job_idx"})

	if err := repo.Create(context.Background(), sampleApplication(now)); !errors.Is(err, repository.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestApplicationGetByIDRoundTripsDocuments(t *testing.T) {
	repo, mock := newMockApplicationRepo(t)
	now := time.Now().UTC().Truncate(time.Second)
	app := sampleApplication(now)
	salary := 90000
	app.Offer = &domain.Offer{Salary: &salary, Currency: "EUR"}

	mock.ExpectQuery("SELECT .+ FROM careeros.applications").
		WithArgs("app-1", "user-1").
		WillReturnRows(applicationRows(t, app))

	got, err := repo.GetByID(context.Background(), "user-1", "app-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if got.JobSnapshot.Title != "Backend Engineer" {
		t.Fatalf("unexpected snapshot: %+v", got.JobSnapshot)
	}
	if len(got.Timeline) != 1 || got.Timeline[0].Status != domain.StatusApplied {
		t.Fatalf("unexpected timeline: %+v", got.Timeline)
	}
	if got.Offer == nil || got.Offer.Salary == nil || *got.Offer.Salary != 90000 {
		t.Fatalf("unexpected offer: %+v", got.Offer)
	}
}

func TestApplicationGetByIDOmitsAbsentOffer(t *testing.T) {
	repo, mock := newMockApplicationRepo(t)
	now := time.Now().UTC()
	app := sampleApplication(now)

	mock.ExpectQuery("SELECT .+ FROM careeros.applications").
		WithArgs("app-1", "user-1").
		WillReturnRows(applicationRows(t, app))

	got, err := repo.GetByID(context.Background(), "user-1", "app-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Offer != nil {
		t.Fatalf("expected nil offer, got %+v", got.Offer)
	}
}

func TestApplicationListScopedToUserAndArchiveFlag(t *testing.T) {
	repo, mock := newMockApplicationRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM careeros.applications WHERE user_id = \$1 AND archived = \$2 ORDER BY created_at DESC`).
		WithArgs("user-1", false).
		WillReturnRows(applicationRows(t, sampleApplication(now)))

	apps, err := repo.List(context.Background(), "user-1", port.ApplicationFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected one application, got %d", len(apps))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApplicationUpdateFieldsNotFound(t *testing.T) {
	repo, mock := newMockApplicationRepo(t)
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE careeros.applications").
		WithArgs(at, "updated", "missing", "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	notes := "updated"
	err := repo.UpdateFields(context.Background(), "user-1", "missing", port.ApplicationUpdate{Notes: &notes}, at)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationGetByIDMalformedID(t *testing.T) {
	repo, mock := newMockApplicationRepo(t)

	mock.ExpectQuery("SELECT .+ FROM careeros.applications").
		WithArgs("not-a-uuid", "user-1").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	if _, err := repo.GetByID(context.Background(), "user-1", "not-a-uuid"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}

func TestApplicationSaveLifecycle(t *testing.T) {
	repo, mock := newMockApplicationRepo(t)
	now := time.Now().UTC()
	app := sampleApplication(now)
	app.ChangeStatus(domain.StatusRejected, nil, now.Add(time.Hour))

	mock.ExpectExec("UPDATE careeros.applications SET").
		WithArgs(anyArgs(11)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.SaveLifecycle(context.Background(), app); err != nil {
		t.Fatalf("save lifecycle failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApplicationDeleteOwnerScoped(t *testing.T) {
	repo, mock := newMockApplicationRepo(t)

	mock.ExpectExec("DELETE FROM careeros.applications").
		WithArgs("app-1", "other-user").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "other-user", "app-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationStats(t *testing.T) {
	repo, mock := newMockApplicationRepo(t)

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM careeros.applications`).
		WithArgs(false, "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow(domain.StatusApplied, 3).
			AddRow(domain.StatusRejected, 1))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM careeros.applications`).
		WithArgs(false, "user-1", monthStart).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery("jsonb_array_elements").
		WithArgs("user-1", now).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	stats, err := repo.Stats(context.Background(), "user-1", monthStart, now)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	if stats.Total != 4 {
		t.Fatalf("expected total 4, got %d", stats.Total)
	}
	if stats.ByStatus[domain.StatusApplied] != 3 {
		t.Fatalf("unexpected status counts: %+v", stats.ByStatus)
	}
	if stats.ThisMonth != 2 {
		t.Fatalf("expected 2 this month, got %d", stats.ThisMonth)
	}
	if stats.UpcomingInterviews != 1 {
		t.Fatalf("expected 1 upcoming interview, got %d", stats.UpcomingInterviews)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
