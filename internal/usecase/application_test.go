package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/repository"
)

type stubJobRepo struct {
	jobs map[string]*domain.Job

	viewBumps        map[string]int
	applicationBumps map[string]int
	bumpErr          error
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{
		jobs:             map[string]*domain.Job{},
		viewBumps:        map[string]int{},
		applicationBumps: map[string]int{},
	}
}

func (r *stubJobRepo) Create(ctx context.Context, job domain.Job) error {
	copied := job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *stubJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *stubJobRepo) Update(ctx context.Context, id string, update port.JobUpdate) error {
	if _, ok := r.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (r *stubJobRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *stubJobRepo) List(ctx context.Context, filter port.JobFilter) ([]domain.Job, error) {
	out := make([]domain.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, *job)
	}
	return out, nil
}

func (r *stubJobRepo) Count(ctx context.Context, filter port.JobFilter) (int, error) {
	return len(r.jobs), nil
}

func (r *stubJobRepo) IncrementViewCount(ctx context.Context, id string) error {
	if r.bumpErr != nil {
		return r.bumpErr
	}
	r.viewBumps[id]++
	return nil
}

func (r *stubJobRepo) IncrementApplicationCount(ctx context.Context, id string) error {
	if r.bumpErr != nil {
		return r.bumpErr
	}
	r.applicationBumps[id]++
	return nil
}

func (r *stubJobRepo) Trending(ctx context.Context, postedSince time.Time, limit int) ([]domain.Job, error) {
	return r.List(ctx, port.JobFilter{})
}

func (r *stubJobRepo) Newest(ctx context.Context, limit int) ([]domain.Job, error) {
	return r.List(ctx, port.JobFilter{})
}

func (r *stubJobRepo) Stats(ctx context.Context) (*port.JobStats, error) {
	return &port.JobStats{TotalJobs: len(r.jobs)}, nil
}

type stubApplicationRepo struct {
	apps map[string]*domain.Application

	createErr error
	saveCalls int
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{apps: map[string]*domain.Application{}}
}

func (r *stubApplicationRepo) Create(ctx context.Context, app domain.Application) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.apps {
		if existing.UserID == app.UserID && existing.JobID == app.JobID {
			return repository.ErrDuplicateKey
		}
	}
	copied := app
	r.apps[app.ID] = &copied
	return nil
}

func (r *stubApplicationRepo) GetByID(ctx context.Context, userID, id string) (*domain.Application, error) {
	app, ok := r.apps[id]
	if !ok || app.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *stubApplicationRepo) List(ctx context.Context, userID string, filter port.ApplicationFilter) ([]domain.Application, error) {
	out := []domain.Application{}
	for _, app := range r.apps {
		if app.UserID == userID && app.Archived == filter.Archived {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *stubApplicationRepo) Count(ctx context.Context, userID string, filter port.ApplicationFilter) (int, error) {
	apps, _ := r.List(ctx, userID, filter)
	return len(apps), nil
}

func (r *stubApplicationRepo) UpdateFields(ctx context.Context, userID, id string, update port.ApplicationUpdate, at time.Time) error {
	app, ok := r.apps[id]
	if !ok || app.UserID != userID {
		return repository.ErrNotFound
	}
	if update.Notes != nil {
		app.Notes = update.Notes
	}
	if update.Priority != nil {
		app.Priority = *update.Priority
	}
	app.UpdatedAt = at
	return nil
}

func (r *stubApplicationRepo) SaveLifecycle(ctx context.Context, app domain.Application) error {
	existing, ok := r.apps[app.ID]
	if !ok || existing.UserID != app.UserID {
		return repository.ErrNotFound
	}
	r.saveCalls++
	copied := app
	r.apps[app.ID] = &copied
	return nil
}

func (r *stubApplicationRepo) Delete(ctx context.Context, userID, id string) error {
	app, ok := r.apps[id]
	if !ok || app.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.apps, id)
	return nil
}

func (r *stubApplicationRepo) Stats(ctx context.Context, userID string, monthStart, now time.Time) (*port.ApplicationStats, error) {
	stats := &port.ApplicationStats{ByStatus: map[domain.ApplicationStatus]int{}}
	for _, app := range r.apps {
		if app.UserID != userID || app.Archived {
			continue
		}
		stats.ByStatus[app.Status]++
		stats.Total++
		if !app.CreatedAt.Before(monthStart) {
			stats.ThisMonth++
		}
	}
	return stats, nil
}

func (r *stubApplicationRepo) Recent(ctx context.Context, userID string, limit int) ([]domain.Application, error) {
	return r.List(ctx, userID, port.ApplicationFilter{})
}

func seedCatalogJob(repo *stubJobRepo, id string) {
	repo.jobs[id] = &domain.Job{
		ID:             id,
		Title:          "Backend Engineer",
		Company:        "Acme",
		Location:       "Berlin",
		EmploymentType: domain.EmploymentFullTime,
		IsActive:       true,
	}
}

func newTestApplicationService(apps *stubApplicationRepo, jobs *stubJobRepo, publisher *stubPublisher) *ApplicationService {
	return NewApplicationService(apps, jobs, publisher, nil)
}

func TestCreateApplicationSnapshotsJob(t *testing.T) {
	apps := newStubApplicationRepo()
	jobs := newStubJobRepo()
	publisher := &stubPublisher{}
	svc := newTestApplicationService(apps, jobs, publisher)

	seedCatalogJob(jobs, "job-1")

	app, err := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if app.Status != domain.StatusSaved {
		t.Fatalf("expected default status saved, got %s", app.Status)
	}
	if app.JobSnapshot.Title != "Backend Engineer" || app.JobSnapshot.Company != "Acme" {
		t.Fatalf("unexpected snapshot: %+v", app.JobSnapshot)
	}
	if jobs.applicationBumps["job-1"] != 1 {
		t.Fatalf("expected application counter bump, got %d", jobs.applicationBumps["job-1"])
	}
	if len(publisher.created) != 1 {
		t.Fatalf("expected one created event, got %d", len(publisher.created))
	}
}

func TestCreateApplicationUnknownJob(t *testing.T) {
	svc := newTestApplicationService(newStubApplicationRepo(), newStubJobRepo(), &stubPublisher{})

	if _, err := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "missing"}); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestCreateApplicationRejectsInvalidStatus(t *testing.T) {
	jobs := newStubJobRepo()
	seedCatalogJob(jobs, "job-1")
	svc := newTestApplicationService(newStubApplicationRepo(), jobs, &stubPublisher{})

	if _, err := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1", Status: "ghosted"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestCreateApplicationDuplicate(t *testing.T) {
	apps := newStubApplicationRepo()
	jobs := newStubJobRepo()
	seedCatalogJob(jobs, "job-1")
	svc := newTestApplicationService(apps, jobs, &stubPublisher{})

	if _, err := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1"}); !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication, got %v", err)
	}
}

func TestCreateApplicationCounterBumpFailureIsIgnored(t *testing.T) {
	apps := newStubApplicationRepo()
	jobs := newStubJobRepo()
	seedCatalogJob(jobs, "job-1")
	jobs.bumpErr = errors.New("connection reset")
	svc := newTestApplicationService(apps, jobs, &stubPublisher{})

	if _, err := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1"}); err != nil {
		t.Fatalf("expected create to succeed despite bump failure, got %v", err)
	}
}

func TestUpdateStatusRecordsRejectionReason(t *testing.T) {
	apps := newStubApplicationRepo()
	jobs := newStubJobRepo()
	seedCatalogJob(jobs, "job-1")
	publisher := &stubPublisher{}
	svc := newTestApplicationService(apps, jobs, publisher)

	created, err := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1", Status: domain.StatusApplied})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	reason := "position filled internally"
	app, err := svc.UpdateStatus(context.Background(), "user-1", created.ID, domain.StatusRejected, nil, &reason)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}

	if app.Status != domain.StatusRejected {
		t.Fatalf("expected status rejected, got %s", app.Status)
	}
	if app.RejectionReason == nil || *app.RejectionReason != reason {
		t.Fatalf("expected rejection reason recorded, got %v", app.RejectionReason)
	}
	if len(publisher.statusChanged) != 1 {
		t.Fatalf("expected one status changed event, got %d", len(publisher.statusChanged))
	}
	event := publisher.statusChanged[0]
	if event.FromStatus != domain.StatusApplied || event.ToStatus != domain.StatusRejected || event.Automated {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestUpdateStatusRejectionReasonIgnoredForOtherStatuses(t *testing.T) {
	apps := newStubApplicationRepo()
	jobs := newStubJobRepo()
	seedCatalogJob(jobs, "job-1")
	svc := newTestApplicationService(apps, jobs, &stubPublisher{})

	created, _ := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1"})

	reason := "should not stick"
	app, err := svc.UpdateStatus(context.Background(), "user-1", created.ID, domain.StatusInReview, nil, &reason)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if app.RejectionReason != nil {
		t.Fatalf("expected no rejection reason, got %v", app.RejectionReason)
	}
}

func TestAddInterviewPublishesAutomatedTransition(t *testing.T) {
	apps := newStubApplicationRepo()
	jobs := newStubJobRepo()
	seedCatalogJob(jobs, "job-1")
	publisher := &stubPublisher{}
	svc := newTestApplicationService(apps, jobs, publisher)

	created, _ := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1", Status: domain.StatusApplied})

	app, err := svc.AddInterview(context.Background(), "user-1", created.ID, domain.Interview{
		Type:          "phone",
		ScheduledDate: time.Now().UTC().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("add interview failed: %v", err)
	}

	if app.Status != domain.StatusInterviewScheduled {
		t.Fatalf("expected auto-advance, got %s", app.Status)
	}
	if len(app.Interviews) != 1 || app.Interviews[0].ID == "" {
		t.Fatalf("expected interview with generated id, got %+v", app.Interviews)
	}
	if len(publisher.statusChanged) != 1 || !publisher.statusChanged[0].Automated {
		t.Fatalf("expected one automated status event, got %+v", publisher.statusChanged)
	}
}

func TestAddInterviewNoEventWhenStatusUnchanged(t *testing.T) {
	apps := newStubApplicationRepo()
	jobs := newStubJobRepo()
	seedCatalogJob(jobs, "job-1")
	publisher := &stubPublisher{}
	svc := newTestApplicationService(apps, jobs, publisher)

	created, _ := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1"})

	if _, err := svc.AddInterview(context.Background(), "user-1", created.ID, domain.Interview{
		Type:          "phone",
		ScheduledDate: time.Now().UTC().Add(48 * time.Hour),
	}); err != nil {
		t.Fatalf("add interview failed: %v", err)
	}

	// A saved application does not auto-advance, so no event fires.
	if len(publisher.statusChanged) != 0 {
		t.Fatalf("expected no status event, got %d", len(publisher.statusChanged))
	}
}

func TestUpdateInterviewEditsInPlace(t *testing.T) {
	apps := newStubApplicationRepo()
	jobs := newStubJobRepo()
	seedCatalogJob(jobs, "job-1")
	svc := newTestApplicationService(apps, jobs, &stubPublisher{})

	created, _ := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1"})
	withIv, err := svc.AddInterview(context.Background(), "user-1", created.ID, domain.Interview{
		Type:          "phone",
		ScheduledDate: time.Now().UTC().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("add interview failed: %v", err)
	}

	completed := true
	feedback := "strong signal"
	app, err := svc.UpdateInterview(context.Background(), "user-1", created.ID, withIv.Interviews[0].ID, InterviewUpdate{
		Completed: &completed,
		Feedback:  &feedback,
	})
	if err != nil {
		t.Fatalf("update interview failed: %v", err)
	}

	iv := app.Interviews[0]
	if !iv.Completed || iv.Feedback == nil || *iv.Feedback != feedback {
		t.Fatalf("unexpected interview state: %+v", iv)
	}

	if _, err := svc.UpdateInterview(context.Background(), "user-1", created.ID, "missing", InterviewUpdate{}); !errors.Is(err, ErrInterviewNotFound) {
		t.Fatalf("expected ErrInterviewNotFound, got %v", err)
	}
}

func TestSetOfferForcesStatusAndPublishes(t *testing.T) {
	apps := newStubApplicationRepo()
	jobs := newStubJobRepo()
	seedCatalogJob(jobs, "job-1")
	publisher := &stubPublisher{}
	svc := newTestApplicationService(apps, jobs, publisher)

	created, _ := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1", Status: domain.StatusInterviewed})

	salary := 120000
	app, err := svc.SetOffer(context.Background(), "user-1", created.ID, domain.Offer{Salary: &salary, Currency: "USD"})
	if err != nil {
		t.Fatalf("set offer failed: %v", err)
	}

	if app.Status != domain.StatusOffer {
		t.Fatalf("expected status offer, got %s", app.Status)
	}
	if len(publisher.statusChanged) != 1 || !publisher.statusChanged[0].Automated {
		t.Fatalf("expected automated offer event, got %+v", publisher.statusChanged)
	}
}

func TestApplicationsAreOwnerScoped(t *testing.T) {
	apps := newStubApplicationRepo()
	jobs := newStubJobRepo()
	seedCatalogJob(jobs, "job-1")
	svc := newTestApplicationService(apps, jobs, &stubPublisher{})

	created, _ := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1"})

	if _, err := svc.Get(context.Background(), "user-2", created.ID); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound for other user, got %v", err)
	}
	if err := svc.Delete(context.Background(), "user-2", created.ID); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected delete to be owner scoped, got %v", err)
	}
}

func TestToggleArchivePersists(t *testing.T) {
	apps := newStubApplicationRepo()
	jobs := newStubJobRepo()
	seedCatalogJob(jobs, "job-1")
	svc := newTestApplicationService(apps, jobs, &stubPublisher{})

	created, _ := svc.Create(context.Background(), "user-1", CreateApplicationInput{JobID: "job-1"})

	app, err := svc.ToggleArchive(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("toggle archive failed: %v", err)
	}
	if !app.Archived {
		t.Fatalf("expected archived")
	}

	stored, _ := apps.GetByID(context.Background(), "user-1", created.ID)
	if !stored.Archived {
		t.Fatalf("expected archive persisted")
	}
}
