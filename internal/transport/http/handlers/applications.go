package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/transport/http/middleware"
	"github.com/AjayS0708/CareerOS/internal/usecase"
)

// ApplicationHandler exposes the application lifecycle.
type ApplicationHandler struct {
	apps *usecase.ApplicationService
}

// NewApplicationHandler builds an application handler.
func NewApplicationHandler(apps *usecase.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

// Duplicate application answers 400, matching the catalog client's
// expectation; duplicate email on registration answers 409.
var applicationErrorCases = []ErrorCase{
	{Err: usecase.ErrApplicationNotFound, Status: http.StatusNotFound, Message: "application not found"},
	{Err: usecase.ErrJobNotFound, Status: http.StatusNotFound, Message: "job not found"},
	{Err: usecase.ErrDuplicateApplication, Status: http.StatusBadRequest, Message: "you have already applied to this job"},
	{Err: usecase.ErrInvalidStatus, Status: http.StatusBadRequest, Message: "invalid application status"},
	{Err: usecase.ErrInterviewNotFound, Status: http.StatusNotFound, Message: "interview not found"},
}

func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}

// Create records a new application for the authenticated user.
func (h *ApplicationHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input := usecase.CreateApplicationInput{
		JobID:         req.JobID,
		Status:        domain.ApplicationStatus(req.Status),
		Notes:         req.Notes,
		CoverLetter:   req.CoverLetter,
		ResumeVersion: req.ResumeVersion,
		Source:        req.Source,
		Priority:      domain.Priority(req.Priority),
	}

	app, err := h.apps.Create(c.Request.Context(), userID, input)
	if err != nil {
		RespondWithMappedError(c, err, applicationErrorCases, http.StatusInternalServerError, "failed to create application")
		return
	}

	respondMessage(c, http.StatusCreated, "application created", newApplicationView(*app))
}

func parseApplicationFilter(c *gin.Context) (port.ApplicationFilter, int, int) {
	page, limit := parsePagination(c)

	return port.ApplicationFilter{
		Statuses: splitCSV(c.Query("status")),
		Priority: c.Query("priority"),
		Archived: c.Query("archived") == "true",
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}, page, limit
}

// List returns the user's applications matching the query filters.
func (h *ApplicationHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	filter, page, limit := parseApplicationFilter(c)

	apps, total, err := h.apps.List(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list applications")
		return
	}

	respondList(c, newApplicationViews(apps), len(apps), total, page, limit)
}

// Get returns one application.
func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	app, err := h.apps.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, applicationErrorCases, http.StatusInternalServerError, "failed to load application")
		return
	}

	respondData(c, http.StatusOK, newApplicationView(*app))
}

// Update applies the allow-listed editable fields.
func (h *ApplicationHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	update := port.ApplicationUpdate{
		Notes:         req.Notes,
		CoverLetter:   req.CoverLetter,
		ResumeVersion: req.ResumeVersion,
		Source:        req.Source,
		FollowUpDate:  req.FollowUpDate,
		Tags:          req.Tags,
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		update.Priority = &priority
	}

	app, err := h.apps.Update(c.Request.Context(), userID, c.Param("id"), update)
	if err != nil {
		RespondWithMappedError(c, err, applicationErrorCases, http.StatusInternalServerError, "failed to update application")
		return
	}

	respondMessage(c, http.StatusOK, "application updated", newApplicationView(*app))
}

// UpdateStatus applies a status transition.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	app, err := h.apps.UpdateStatus(
		c.Request.Context(),
		userID,
		c.Param("id"),
		domain.ApplicationStatus(req.Status),
		req.Notes,
		req.RejectionReason,
	)
	if err != nil {
		RespondWithMappedError(c, err, applicationErrorCases, http.StatusInternalServerError, "failed to update status")
		return
	}

	respondMessage(c, http.StatusOK, "status updated", newApplicationView(*app))
}

// AddInterview appends an interview round.
func (h *ApplicationHandler) AddInterview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req AddInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	interviewers := make([]domain.Interviewer, 0, len(req.Interviewers))
	for _, iv := range req.Interviewers {
		interviewers = append(interviewers, domain.Interviewer{
			Name:  iv.Name,
			Role:  iv.Role,
			Email: iv.Email,
		})
	}

	interview := domain.Interview{
		Type:          req.Type,
		ScheduledDate: req.ScheduledDate,
		Duration:      req.Duration,
		Location:      req.Location,
		MeetingLink:   req.MeetingLink,
		Interviewers:  interviewers,
		Notes:         req.Notes,
	}

	app, err := h.apps.AddInterview(c.Request.Context(), userID, c.Param("id"), interview)
	if err != nil {
		RespondWithMappedError(c, err, applicationErrorCases, http.StatusInternalServerError, "failed to add interview")
		return
	}

	respondMessage(c, http.StatusCreated, "interview added", newApplicationView(*app))
}

// UpdateInterview edits one interview round.
func (h *ApplicationHandler) UpdateInterview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req UpdateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	update := usecase.InterviewUpdate{
		Type:          req.Type,
		ScheduledDate: req.ScheduledDate,
		Duration:      req.Duration,
		Location:      req.Location,
		MeetingLink:   req.MeetingLink,
		Notes:         req.Notes,
		Completed:     req.Completed,
		Feedback:      req.Feedback,
	}

	app, err := h.apps.UpdateInterview(c.Request.Context(), userID, c.Param("id"), c.Param("interviewId"), update)
	if err != nil {
		RespondWithMappedError(c, err, applicationErrorCases, http.StatusInternalServerError, "failed to update interview")
		return
	}

	respondMessage(c, http.StatusOK, "interview updated", newApplicationView(*app))
}

// SetOffer records received terms and forces the status to offer.
func (h *ApplicationHandler) SetOffer(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	offer := domain.Offer{
		Salary:    req.Salary,
		Currency:  currency,
		Equity:    req.Equity,
		Benefits:  req.Benefits,
		StartDate: req.StartDate,
		Deadline:  req.Deadline,
		Notes:     req.Notes,
	}

	app, err := h.apps.SetOffer(c.Request.Context(), userID, c.Param("id"), offer)
	if err != nil {
		RespondWithMappedError(c, err, applicationErrorCases, http.StatusInternalServerError, "failed to record offer")
		return
	}

	respondMessage(c, http.StatusOK, "offer recorded", newApplicationView(*app))
}

// AddContact appends a contact.
func (h *ApplicationHandler) AddContact(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	contact := domain.Contact{
		Name:     req.Name,
		Role:     req.Role,
		Email:    req.Email,
		Phone:    req.Phone,
		LinkedIn: req.LinkedIn,
		Notes:    req.Notes,
	}

	app, err := h.apps.AddContact(c.Request.Context(), userID, c.Param("id"), contact)
	if err != nil {
		RespondWithMappedError(c, err, applicationErrorCases, http.StatusInternalServerError, "failed to add contact")
		return
	}

	respondMessage(c, http.StatusCreated, "contact added", newApplicationView(*app))
}

// ToggleArchive flips the archived flag.
func (h *ApplicationHandler) ToggleArchive(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	app, err := h.apps.ToggleArchive(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, applicationErrorCases, http.StatusInternalServerError, "failed to toggle archive")
		return
	}

	message := "application archived"
	if !app.Archived {
		message = "application unarchived"
	}

	respondMessage(c, http.StatusOK, message, newApplicationView(*app))
}

// Delete removes an application.
func (h *ApplicationHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.apps.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, applicationErrorCases, http.StatusInternalServerError, "failed to delete application")
		return
	}

	respondMessage(c, http.StatusOK, "application deleted", nil)
}

// ApplicationStatsView is the API representation of pipeline stats.
type ApplicationStatsView struct {
	ByStatus           map[string]int `json:"byStatus"`
	Total              int            `json:"total"`
	ThisMonth          int            `json:"thisMonth"`
	UpcomingInterviews int            `json:"upcomingInterviews"`
}

// Stats summarizes the user's unarchived pipeline.
func (h *ApplicationHandler) Stats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	stats, err := h.apps.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load application stats")
		return
	}

	byStatus := make(map[string]int, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}

	respondData(c, http.StatusOK, ApplicationStatsView{
		ByStatus:           byStatus,
		Total:              stats.Total,
		ThisMonth:          stats.ThisMonth,
		UpcomingInterviews: stats.UpcomingInterviews,
	})
}

// Recent returns the user's most recently touched applications.
func (h *ApplicationHandler) Recent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	apps, err := h.apps.Recent(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load recent applications")
		return
	}

	respondData(c, http.StatusOK, newApplicationViews(apps))
}
