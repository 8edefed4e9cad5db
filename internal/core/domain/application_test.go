package domain

import (
	"testing"
	"time"
)

func testJob() Job {
	return Job{
		ID:             "job-1",
		Title:          "Backend Engineer",
		Company:        "Acme",
		Location:       "Berlin",
		LocationType:   LocationRemote,
		EmploymentType: EmploymentFullTime,
	}
}

func TestNewApplicationDefaults(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	app := NewApplication("app-1", "user-1", testJob(), "", now)

	if app.Status != StatusSaved {
		t.Fatalf("expected default status saved, got %s", app.Status)
	}
	if app.Priority != PriorityMedium {
		t.Fatalf("expected default priority medium, got %s", app.Priority)
	}
	if app.Source != "direct" {
		t.Fatalf("expected default source direct, got %s", app.Source)
	}
	if app.AppliedDate != nil {
		t.Fatalf("expected no applied date for saved application")
	}
	if len(app.Timeline) != 1 {
		t.Fatalf("expected opening timeline entry, got %d", len(app.Timeline))
	}
	if app.Timeline[0].Status != StatusSaved || !app.Timeline[0].Automated {
		t.Fatalf("unexpected opening timeline entry: %+v", app.Timeline[0])
	}
	if app.JobSnapshot.Title != "Backend Engineer" || app.JobSnapshot.Company != "Acme" {
		t.Fatalf("unexpected job snapshot: %+v", app.JobSnapshot)
	}
}

func TestNewApplicationStampsAppliedDate(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	app := NewApplication("app-1", "user-1", testJob(), StatusApplied, now)

	if app.AppliedDate == nil || !app.AppliedDate.Equal(now) {
		t.Fatalf("expected applied date %v, got %v", now, app.AppliedDate)
	}
}

func TestChangeStatusAppendsTimeline(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	app := NewApplication("app-1", "user-1", testJob(), StatusSaved, now)

	note := "sent via referral"
	later := now.Add(time.Hour)
	app.ChangeStatus(StatusApplied, &note, later)

	if app.Status != StatusApplied {
		t.Fatalf("expected status applied, got %s", app.Status)
	}
	if len(app.Timeline) != 2 {
		t.Fatalf("expected 2 timeline entries, got %d", len(app.Timeline))
	}
	entry := app.Timeline[1]
	if entry.Status != StatusApplied || entry.Automated {
		t.Fatalf("expected manual applied entry, got %+v", entry)
	}
	if entry.Notes == nil || *entry.Notes != note {
		t.Fatalf("expected entry notes %q, got %v", note, entry.Notes)
	}
	if app.AppliedDate == nil || !app.AppliedDate.Equal(later) {
		t.Fatalf("expected applied date stamped at %v, got %v", later, app.AppliedDate)
	}
}

func TestAppliedDateStampedExactlyOnce(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	app := NewApplication("app-1", "user-1", testJob(), StatusSaved, now)

	first := now.Add(time.Hour)
	app.ChangeStatus(StatusApplied, nil, first)
	app.ChangeStatus(StatusRejected, nil, now.Add(2*time.Hour))
	app.ChangeStatus(StatusApplied, nil, now.Add(3*time.Hour))

	if app.AppliedDate == nil || !app.AppliedDate.Equal(first) {
		t.Fatalf("expected applied date to stay %v, got %v", first, app.AppliedDate)
	}
	if len(app.Timeline) != 4 {
		t.Fatalf("expected every change appended, got %d entries", len(app.Timeline))
	}
}

func TestAddInterviewAutoAdvancesEarlyStages(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	for _, status := range []ApplicationStatus{StatusApplied, StatusInReview, StatusShortlisted} {
		app := NewApplication("app-1", "user-1", testJob(), status, now)
		app.AddInterview(Interview{ID: "iv-1", Type: "phone", ScheduledDate: now.Add(48 * time.Hour)}, now.Add(time.Hour))

		if app.Status != StatusInterviewScheduled {
			t.Fatalf("status %s: expected auto-advance to interview-scheduled, got %s", status, app.Status)
		}
		last := app.Timeline[len(app.Timeline)-1]
		if last.Status != StatusInterviewScheduled || !last.Automated {
			t.Fatalf("status %s: expected automated timeline entry, got %+v", status, last)
		}
	}
}

func TestAddInterviewLeavesLateStagesAlone(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	app := NewApplication("app-1", "user-1", testJob(), StatusOffer, now)
	app.AddInterview(Interview{ID: "iv-1", Type: "final", ScheduledDate: now.Add(24 * time.Hour)}, now.Add(time.Hour))

	if app.Status != StatusOffer {
		t.Fatalf("expected status offer untouched, got %s", app.Status)
	}
	if len(app.Timeline) != 1 {
		t.Fatalf("expected no timeline entry, got %d", len(app.Timeline))
	}
	if len(app.Interviews) != 1 {
		t.Fatalf("expected interview appended, got %d", len(app.Interviews))
	}
}

func TestSetOfferForcesOfferStatus(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	app := NewApplication("app-1", "user-1", testJob(), StatusInterviewed, now)

	salary := 90000
	app.SetOffer(Offer{Salary: &salary, Currency: "EUR"}, now.Add(time.Hour))

	if app.Status != StatusOffer {
		t.Fatalf("expected status offer, got %s", app.Status)
	}
	if app.Offer == nil || app.Offer.Currency != "EUR" {
		t.Fatalf("unexpected offer: %+v", app.Offer)
	}
	last := app.Timeline[len(app.Timeline)-1]
	if last.Status != StatusOffer || !last.Automated {
		t.Fatalf("expected automated offer entry, got %+v", last)
	}
}

func TestToggleArchive(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	app := NewApplication("app-1", "user-1", testJob(), StatusSaved, now)

	app.ToggleArchive(now.Add(time.Hour))
	if !app.Archived {
		t.Fatalf("expected archived after first toggle")
	}
	app.ToggleArchive(now.Add(2 * time.Hour))
	if app.Archived {
		t.Fatalf("expected unarchived after second toggle")
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []ApplicationStatus{
		StatusSaved, StatusApplied, StatusInReview, StatusShortlisted,
		StatusInterviewScheduled, StatusInterviewed, StatusOffer,
		StatusAccepted, StatusRejected, StatusWithdrawn,
	} {
		if !ValidStatus(status) {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if ValidStatus("ghosted") {
		t.Fatalf("expected unknown status to be invalid")
	}
}

func TestDaysSinceApplied(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	app := NewApplication("app-1", "user-1", testJob(), StatusApplied, now)

	days, ok := app.DaysSinceApplied(now.Add(72 * time.Hour))
	if !ok || days != 3 {
		t.Fatalf("expected 3 days, got %d (ok=%v)", days, ok)
	}

	saved := NewApplication("app-2", "user-1", testJob(), StatusSaved, now)
	if _, ok := saved.DaysSinceApplied(now); ok {
		t.Fatalf("expected no applied date for saved application")
	}
}
