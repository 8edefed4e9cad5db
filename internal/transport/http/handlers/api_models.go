package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// ListResponse is the envelope for paginated collections.
type ListResponse struct {
	Success     bool `json:"success"`
	Count       int  `json:"count"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	Data        any  `json:"data"`
}

// FieldError reports one failed validation constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, APIResponse{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string, data any) {
	c.JSON(status, APIResponse{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{Success: false, Message: message})
}

func respondList(c *gin.Context, data any, count, total, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	c.JSON(http.StatusOK, ListResponse{
		Success:     true,
		Count:       count,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		Data:        data,
	})
}

// respondBindingError turns gin binding failures into a 400 with
// per-field errors when the failure came from validation tags.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
				Message: validationMessage(fe),
			})
		}
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "validation failed",
			Errors:  fields,
		})
		return
	}

	respondError(c, http.StatusBadRequest, "invalid request body")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// UserView is the API representation of an account. The password hash
// and lockout counters never leave the service.
type UserView struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Avatar          *string   `json:"avatar,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	Skills          []string  `json:"skills"`
	Experience      int       `json:"experience"`
	CurrentRole     *string   `json:"currentRole,omitempty"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

func newUserView(user domain.User) UserView {
	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserView{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            string(user.Role),
		Avatar:          user.Avatar,
		Phone:           user.Phone,
		Location:        user.Location,
		Bio:             user.Bio,
		Skills:          skills,
		Experience:      user.Experience,
		CurrentRole:     user.CurrentRole,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
	}
}

// AuthView pairs an account with its signed credential.
type AuthView struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// JobView is the API representation of a catalog entry.
type JobView struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Company          string        `json:"company"`
	CompanyLogo      *string       `json:"companyLogo,omitempty"`
	Location         string        `json:"location"`
	LocationType     string        `json:"locationType"`
	EmploymentType   string        `json:"employmentType"`
	ExperienceLevel  string        `json:"experienceLevel"`
	Description      string        `json:"description"`
	Requirements     []string      `json:"requirements,omitempty"`
	Responsibilities []string      `json:"responsibilities,omitempty"`
	Skills           []string      `json:"skills,omitempty"`
	Salary           domain.Salary `json:"salary"`
	Benefits         []string      `json:"benefits,omitempty"`
	ApplicationURL   *string       `json:"applicationUrl,omitempty"`
	Source           string        `json:"source"`
	PostedDate       time.Time     `json:"postedDate"`
	Deadline         *time.Time    `json:"deadline,omitempty"`
	IsActive         bool          `json:"isActive"`
	ViewCount        int           `json:"viewCount"`
	ApplicationCount int           `json:"applicationCount"`
	Tags             []string      `json:"tags,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

func newJobView(job domain.Job) JobView {
	return JobView{
		ID:               job.ID,
		Title:            job.Title,
		Company:          job.Company,
		CompanyLogo:      job.CompanyLogo,
		Location:         job.Location,
		LocationType:     string(job.LocationType),
		EmploymentType:   string(job.EmploymentType),
		ExperienceLevel:  string(job.ExperienceLevel),
		Description:      job.Description,
		Requirements:     job.Requirements,
		Responsibilities: job.Responsibilities,
		Skills:           job.Skills,
		Salary:           job.Salary,
		Benefits:         job.Benefits,
		ApplicationURL:   job.ApplicationURL,
		Source:           job.Source,
		PostedDate:       job.PostedDate,
		Deadline:         job.Deadline,
		IsActive:         job.IsActive,
		ViewCount:        job.ViewCount,
		ApplicationCount: job.ApplicationCount,
		Tags:             job.Tags,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
	}
}

func newJobViews(jobs []domain.Job) []JobView {
	views := make([]JobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, newJobView(job))
	}
	return views
}

// ApplicationView is the API representation of an application record.
// The document-shaped sub-entities reuse their domain JSON forms.
type ApplicationView struct {
	ID              string                 `json:"id"`
	JobID           string                 `json:"jobId"`
	Job             domain.JobSnapshot     `json:"job"`
	Status          string                 `json:"status"`
	AppliedDate     *time.Time             `json:"appliedDate,omitempty"`
	Source          string                 `json:"source"`
	CoverLetter     *string                `json:"coverLetter,omitempty"`
	ResumeVersion   *string                `json:"resumeVersion,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
	Priority        string                 `json:"priority"`
	Contacts        []domain.Contact       `json:"contacts"`
	Timeline        []domain.TimelineEntry `json:"timeline"`
	Interviews      []domain.Interview     `json:"interviews"`
	Offer           *domain.Offer          `json:"offer,omitempty"`
	RejectionReason *string                `json:"rejectionReason,omitempty"`
	FollowUpDate    *time.Time             `json:"followUpDate,omitempty"`
	Tags            []string               `json:"tags,omitempty"`
	Archived        bool                   `json:"archived"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func newApplicationView(app domain.Application) ApplicationView {
	contacts := app.Contacts
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	interviews := app.Interviews
	if interviews == nil {
		interviews = []domain.Interview{}
	}
	return ApplicationView{
		ID:              app.ID,
		JobID:           app.JobID,
		Job:             app.JobSnapshot,
		Status:          string(app.Status),
		AppliedDate:     app.AppliedDate,
		Source:          app.Source,
		CoverLetter:     app.CoverLetter,
		ResumeVersion:   app.ResumeVersion,
		Notes:           app.Notes,
		Priority:        string(app.Priority),
		Contacts:        contacts,
		Timeline:        app.Timeline,
		Interviews:      interviews,
		Offer:           app.Offer,
		RejectionReason: app.RejectionReason,
		FollowUpDate:    app.FollowUpDate,
		Tags:            app.Tags,
		Archived:        app.Archived,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}

func newApplicationViews(apps []domain.Application) []ApplicationView {
	views := make([]ApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, newApplicationView(app))
	}
	return views
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest defines the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the allow-listed profile fields.
type UpdateProfileRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Phone       *string  `json:"phone"`
	Location    *string  `json:"location"`
	Bio         *string  `json:"bio" binding:"omitempty,max=1000"`
	Skills      []string `json:"skills"`
	Experience  *int     `json:"experience" binding:"omitempty,min=0"`
	CurrentRole *string  `json:"currentRole"`
	Avatar      *string  `json:"avatar"`
}

// ChangePasswordRequest carries the password rotation payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// SalaryRequest mirrors the salary object on job payloads.
type SalaryRequest struct {
	Min      *int   `json:"min"`
	Max      *int   `json:"max"`
	Currency string `json:"currency"`
	Period   string `json:"period" binding:"omitempty,oneof=hourly monthly yearly"`
}

// CreateJobRequest defines the catalog entry creation payload.
type CreateJobRequest struct {
	Title            string         `json:"title" binding:"required,max=200"`
	Company          string         `json:"company" binding:"required,max=200"`
	CompanyLogo      *string        `json:"companyLogo"`
	Location         string         `json:"location" binding:"required"`
	LocationType     string         `json:"locationType" binding:"required,oneof=remote hybrid onsite"`
	EmploymentType   string         `json:"employmentType" binding:"required,oneof=full-time part-time contract internship freelance"`
	ExperienceLevel  string         `json:"experienceLevel" binding:"required,oneof=entry mid senior lead executive"`
	Description      string         `json:"description" binding:"required"`
	Requirements     []string       `json:"requirements"`
	Responsibilities []string       `json:"responsibilities"`
	Skills           []string       `json:"skills"`
	Salary           *SalaryRequest `json:"salary"`
	Benefits         []string       `json:"benefits"`
	ApplicationURL   *string        `json:"applicationUrl"`
	Deadline         *time.Time     `json:"deadline"`
	Tags             []string       `json:"tags"`
}

// UpdateJobRequest defines the allow-listed catalog entry edit payload.
type UpdateJobRequest struct {
	Title            *string        `json:"title" binding:"omitempty,max=200"`
	Company          *string        `json:"company" binding:"omitempty,max=200"`
	CompanyLogo      *string        `json:"companyLogo"`
	Location         *string        `json:"location"`
	LocationType     *string        `json:"locationType" binding:"omitempty,oneof=remote hybrid onsite"`
	EmploymentType   *string        `json:"employmentType" binding:"omitempty,oneof=full-time part-time contract internship freelance"`
	ExperienceLevel  *string        `json:"experienceLevel" binding:"omitempty,oneof=entry mid senior lead executive"`
	Description      *string        `json:"description"`
	Requirements     []string       `json:"requirements"`
	Responsibilities []string       `json:"responsibilities"`
	Skills           []string       `json:"skills"`
	Salary           *SalaryRequest `json:"salary"`
	Benefits         []string       `json:"benefits"`
	ApplicationURL   *string        `json:"applicationUrl"`
	Deadline         *time.Time     `json:"deadline"`
	IsActive         *bool          `json:"isActive"`
	Tags             []string       `json:"tags"`
}

// CreateApplicationRequest defines the application creation payload.
type CreateApplicationRequest struct {
	JobID         string  `json:"jobId" binding:"required"`
	Status        string  `json:"status" binding:"omitempty,oneof=saved applied in-review shortlisted interview-scheduled interviewed offer accepted rejected withdrawn"`
	Notes         *string `json:"notes"`
	CoverLetter   *string `json:"coverLetter"`
	ResumeVersion *string `json:"resumeVersion"`
	Source        string  `json:"source"`
	Priority      string  `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

// UpdateApplicationRequest defines the allow-listed application edit payload.
type UpdateApplicationRequest struct {
	Priority      *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Notes         *string    `json:"notes"`
	CoverLetter   *string    `json:"coverLetter"`
	ResumeVersion *string    `json:"resumeVersion"`
	Source        *string    `json:"source"`
	FollowUpDate  *time.Time `json:"followUpDate"`
	Tags          []string   `json:"tags"`
}

// UpdateStatusRequest defines the status transition payload.
type UpdateStatusRequest struct {
	Status          string  `json:"status" binding:"required,oneof=saved applied in-review shortlisted interview-scheduled interviewed offer accepted rejected withdrawn"`
	Notes           *string `json:"notes"`
	RejectionReason *string `json:"rejectionReason"`
}

// InterviewerRequest mirrors the interviewer object on interview payloads.
type InterviewerRequest struct {
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role"`
	Email string `json:"email" binding:"omitempty,email"`
}

// AddInterviewRequest defines the interview creation payload.
type AddInterviewRequest struct {
	Type          string               `json:"type" binding:"required,oneof=phone video onsite technical behavioral final other"`
	ScheduledDate time.Time            `json:"scheduledDate" binding:"required"`
	Duration      *int                 `json:"duration" binding:"omitempty,min=1"`
	Location      *string              `json:"location"`
	MeetingLink   *string              `json:"meetingLink"`
	Interviewers  []InterviewerRequest `json:"interviewers"`
	Notes         *string              `json:"notes"`
}

// UpdateInterviewRequest defines the interview edit payload.
type UpdateInterviewRequest struct {
	Type          *string    `json:"type" binding:"omitempty,oneof=phone video onsite technical behavioral final other"`
	ScheduledDate *time.Time `json:"scheduledDate"`
	Duration      *int       `json:"duration" binding:"omitempty,min=1"`
	Location      *string    `json:"location"`
	MeetingLink   *string    `json:"meetingLink"`
	Notes         *string    `json:"notes"`
	Completed     *bool      `json:"completed"`
	Feedback      *string    `json:"feedback"`
}

// OfferRequest defines the offer payload.
type OfferRequest struct {
	Salary    *int       `json:"salary" binding:"omitempty,min=0"`
	Currency  string     `json:"currency"`
	Equity    *string    `json:"equity"`
	Benefits  []string   `json:"benefits"`
	StartDate *time.Time `json:"startDate"`
	Deadline  *time.Time `json:"deadline"`
	Notes     *string    `json:"notes"`
}

// ContactRequest defines the contact payload.
type ContactRequest struct {
	Name     string  `json:"name" binding:"required"`
	Role     *string `json:"role"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	LinkedIn *string `json:"linkedIn"`
	Notes    *string `json:"notes"`
}

// HealthResponse reports liveness details.
type HealthResponse struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	Timestamp   time.Time `json:"timestamp"`
}
