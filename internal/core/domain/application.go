package domain

import "time"

// ApplicationStatus enumerates pipeline stages. Any status may follow any
// status; the timeline records every change so manual corrections stay
// auditable.
type ApplicationStatus string

const (
	StatusSaved              ApplicationStatus = "saved"
	StatusApplied            ApplicationStatus = "applied"
	StatusInReview           ApplicationStatus = "in-review"
	StatusShortlisted        ApplicationStatus = "shortlisted"
	StatusInterviewScheduled ApplicationStatus = "interview-scheduled"
	StatusInterviewed        ApplicationStatus = "interviewed"
	StatusOffer              ApplicationStatus = "offer"
	StatusAccepted           ApplicationStatus = "accepted"
	StatusRejected           ApplicationStatus = "rejected"
	StatusWithdrawn          ApplicationStatus = "withdrawn"
)

// ValidStatus reports whether s is one of the known pipeline stages.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusSaved, StatusApplied, StatusInReview, StatusShortlisted,
		StatusInterviewScheduled, StatusInterviewed, StatusOffer,
		StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Priority enumerates how urgently the user is tracking an application.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// JobSnapshot is the denormalized copy of job display fields stored by
// value on an application at creation time.
type JobSnapshot struct {
	Title          string         `json:"title"`
	Company        string         `json:"company"`
	CompanyLogo    *string        `json:"companyLogo,omitempty"`
	Location       string         `json:"location"`
	EmploymentType EmploymentType `json:"employmentType"`
}

// TimelineEntry is one element of the append-only status audit log.
type TimelineEntry struct {
	Status    ApplicationStatus `json:"status"`
	Date      time.Time         `json:"date"`
	Notes     *string           `json:"notes,omitempty"`
	Automated bool              `json:"automated"`
}

// Interviewer identifies a participant on the company side.
type Interviewer struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}

// Interview records a scheduled or completed interview round.
type Interview struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	ScheduledDate time.Time     `json:"scheduledDate"`
	Duration      *int          `json:"duration,omitempty"`
	Location      *string       `json:"location,omitempty"`
	MeetingLink   *string       `json:"meetingLink,omitempty"`
	Interviewers  []Interviewer `json:"interviewers,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
	Completed     bool          `json:"completed"`
	Feedback      *string       `json:"feedback,omitempty"`
}

// Offer captures the terms attached to an application.
type Offer struct {
	Salary    *int       `json:"salary,omitempty"`
	Currency  string     `json:"currency"`
	Equity    *string    `json:"equity,omitempty"`
	Benefits  []string   `json:"benefits,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// Contact is a person associated with an application.
type Contact struct {
	Name     string  `json:"name"`
	Role     *string `json:"role,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	LinkedIn *string `json:"linkedIn,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// Application belongs to exactly one user and references exactly one job
// by identifier. At most one application may exist per (user, job) pair;
// the applications table enforces this with a unique index.
type Application struct {
	ID              string
	UserID          string
	JobID           string
	JobSnapshot     JobSnapshot
	Status          ApplicationStatus
	AppliedDate     *time.Time
	Source          string
	CoverLetter     *string
	ResumeVersion   *string
	Notes           *string
	Priority        Priority
	Contacts        []Contact
	Timeline        []TimelineEntry
	Interviews      []Interview
	Offer           *Offer
	RejectionReason *string
	FollowUpDate    *time.Time
	Tags            []string
	Archived        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewApplication builds an application in its initial state. Creation
// counts as a status change: the timeline opens with an automated entry
// for the initial status, and an application created directly as
// "applied" gets its applied date stamped.
func NewApplication(id, userID string, job Job, status ApplicationStatus, now time.Time) Application {
	if status == "" {
		status = StatusSaved
	}

	app := Application{
		ID:          id,
		UserID:      userID,
		JobID:       job.ID,
		JobSnapshot: job.Snapshot(),
		Status:      status,
		Source:      "direct",
		Priority:    PriorityMedium,
		Timeline: []TimelineEntry{
			{Status: status, Date: now, Automated: true},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if status == StatusApplied {
		stamped := now
		app.AppliedDate = &stamped
	}

	return app
}

// ChangeStatus applies a caller-directed transition. No transition graph
// is enforced; the first move into "applied" stamps the applied date
// exactly once and every change appends a manual timeline entry.
func (a *Application) ChangeStatus(status ApplicationStatus, notes *string, now time.Time) {
	a.transition(status, notes, false, now)
}

// AddInterview appends an interview round. While the application sits in
// an early stage the status auto-advances to interview-scheduled and the
// move is logged as automated; in any other stage the status is left
// untouched.
func (a *Application) AddInterview(iv Interview, now time.Time) {
	a.Interviews = append(a.Interviews, iv)

	switch a.Status {
	case StatusApplied, StatusInReview, StatusShortlisted:
		a.transition(StatusInterviewScheduled, nil, true, now)
	default:
		a.UpdatedAt = now
	}
}

// SetOffer records the received terms and forces the status to "offer",
// logging the move as automated.
func (a *Application) SetOffer(offer Offer, now time.Time) {
	a.Offer = &offer
	a.transition(StatusOffer, nil, true, now)
}

// AddContact appends a contact. Contacts carry no status semantics.
func (a *Application) AddContact(contact Contact, now time.Time) {
	a.Contacts = append(a.Contacts, contact)
	a.UpdatedAt = now
}

// ToggleArchive flips the archived flag.
func (a *Application) ToggleArchive(now time.Time) {
	a.Archived = !a.Archived
	a.UpdatedAt = now
}

// transition is the single write path for status changes: applied-date
// stamping happens here (set once, never overwritten) and the timeline
// only ever grows.
func (a *Application) transition(status ApplicationStatus, notes *string, automated bool, now time.Time) {
	a.Status = status

	if status == StatusApplied && a.AppliedDate == nil {
		stamped := now
		a.AppliedDate = &stamped
	}

	a.Timeline = append(a.Timeline, TimelineEntry{
		Status:    status,
		Date:      now,
		Notes:     notes,
		Automated: automated,
	})
	a.UpdatedAt = now
}

// DaysSinceApplied returns the whole days elapsed since the applied date,
// or false when the application was never applied.
func (a Application) DaysSinceApplied(now time.Time) (int, bool) {
	if a.AppliedDate == nil {
		return 0, false
	}
	days := int(now.Sub(*a.AppliedDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, true
}
