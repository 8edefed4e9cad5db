package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/transport/http/middleware"
	"github.com/AjayS0708/CareerOS/internal/usecase"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// JobHandler exposes the job catalog.
type JobHandler struct {
	jobs *usecase.JobService
}

// NewJobHandler builds a job handler.
func NewJobHandler(jobs *usecase.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

var jobErrorCases = []ErrorCase{
	{Err: usecase.ErrJobNotFound, Status: http.StatusNotFound, Message: "job not found"},
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return page, limit
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseJobFilter(c *gin.Context) (port.JobFilter, int, int) {
	page, limit := parsePagination(c)

	filter := port.JobFilter{
		Search:           c.Query("search"),
		Location:         c.Query("location"),
		LocationType:     c.Query("locationType"),
		EmploymentTypes:  splitCSV(c.Query("employmentType")),
		ExperienceLevels: splitCSV(c.Query("experienceLevel")),
		Skills:           splitCSV(c.Query("skills")),
		Company:          c.Query("company"),
		Source:           c.Query("source"),
		Sort:             c.Query("sort"),
		Limit:            limit,
		Offset:           (page - 1) * limit,
	}

	if v, err := strconv.Atoi(c.Query("minSalary")); err == nil {
		filter.MinSalary = &v
	}
	if v, err := strconv.Atoi(c.Query("maxSalary")); err == nil {
		filter.MaxSalary = &v
	}

	return filter, page, limit
}

// List returns catalog entries matching the query filters.
func (h *JobHandler) List(c *gin.Context) {
	filter, page, limit := parseJobFilter(c)

	jobs, total, err := h.jobs.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	respondList(c, newJobViews(jobs), len(jobs), total, page, limit)
}

// Get returns one catalog entry and bumps its view counter.
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, jobErrorCases, http.StatusInternalServerError, "failed to load job")
		return
	}

	respondData(c, http.StatusOK, newJobView(*job))
}

func salaryFromRequest(req *SalaryRequest) domain.Salary {
	if req == nil {
		return domain.Salary{}
	}
	return domain.Salary{
		Min:      req.Min,
		Max:      req.Max,
		Currency: req.Currency,
		Period:   req.Period,
	}
}

// Create inserts a catalog entry.
func (h *JobHandler) Create(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	job := domain.Job{
		Title:            req.Title,
		Company:          req.Company,
		CompanyLogo:      req.CompanyLogo,
		Location:         req.Location,
		LocationType:     domain.LocationType(req.LocationType),
		EmploymentType:   domain.EmploymentType(req.EmploymentType),
		ExperienceLevel:  domain.ExperienceLevel(req.ExperienceLevel),
		Description:      req.Description,
		Requirements:     req.Requirements,
		Responsibilities: req.Responsibilities,
		Skills:           req.Skills,
		Salary:           salaryFromRequest(req.Salary),
		Benefits:         req.Benefits,
		ApplicationURL:   req.ApplicationURL,
		Deadline:         req.Deadline,
		Tags:             req.Tags,
	}

	created, err := h.jobs.Create(c.Request.Context(), job)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create job")
		return
	}

	respondMessage(c, http.StatusCreated, "job created", newJobView(*created))
}

// Update applies the allow-listed catalog entry fields.
func (h *JobHandler) Update(c *gin.Context) {
	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	update := port.JobUpdate{
		Title:            req.Title,
		Company:          req.Company,
		CompanyLogo:      req.CompanyLogo,
		Location:         req.Location,
		Description:      req.Description,
		Requirements:     req.Requirements,
		Responsibilities: req.Responsibilities,
		Skills:           req.Skills,
		Benefits:         req.Benefits,
		ApplicationURL:   req.ApplicationURL,
		Deadline:         req.Deadline,
		IsActive:         req.IsActive,
		Tags:             req.Tags,
	}
	if req.LocationType != nil {
		lt := domain.LocationType(*req.LocationType)
		update.LocationType = &lt
	}
	if req.EmploymentType != nil {
		et := domain.EmploymentType(*req.EmploymentType)
		update.EmploymentType = &et
	}
	if req.ExperienceLevel != nil {
		el := domain.ExperienceLevel(*req.ExperienceLevel)
		update.ExperienceLevel = &el
	}
	if req.Salary != nil {
		salary := salaryFromRequest(req.Salary)
		update.Salary = &salary
	}

	job, err := h.jobs.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		RespondWithMappedError(c, err, jobErrorCases, http.StatusInternalServerError, "failed to update job")
		return
	}

	respondMessage(c, http.StatusOK, "job updated", newJobView(*job))
}

// Delete removes a catalog entry.
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, jobErrorCases, http.StatusInternalServerError, "failed to delete job")
		return
	}

	respondMessage(c, http.StatusOK, "job deleted", nil)
}

// Trending returns the most viewed recent postings.
func (h *JobHandler) Trending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	jobs, err := h.jobs.Trending(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load trending jobs")
		return
	}

	respondData(c, http.StatusOK, newJobViews(jobs))
}

// Recommendations returns suggested postings for the authenticated user.
func (h *JobHandler) Recommendations(c *gin.Context) {
	userID, _ := middleware.GetAuthenticatedUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	jobs, err := h.jobs.Recommendations(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load recommendations")
		return
	}

	respondData(c, http.StatusOK, newJobViews(jobs))
}

// StatGroupView is one bucket of a grouped aggregate.
type StatGroupView struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// JobStatsView is the API representation of catalog stats.
type JobStatsView struct {
	TotalJobs         int             `json:"totalJobs"`
	AvgSalaryMin      *float64        `json:"avgSalaryMin,omitempty"`
	AvgSalaryMax      *float64        `json:"avgSalaryMax,omitempty"`
	TotalApplications int             `json:"totalApplications"`
	TotalViews        int             `json:"totalViews"`
	ByEmploymentType  []StatGroupView `json:"byEmploymentType"`
	ByExperienceLevel []StatGroupView `json:"byExperienceLevel"`
	ByLocationType    []StatGroupView `json:"byLocationType"`
}

func newStatGroupViews(groups []port.JobStatGroup) []StatGroupView {
	views := make([]StatGroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, StatGroupView{Key: g.Key, Count: g.Count})
	}
	return views
}

// Stats aggregates the active catalog.
func (h *JobHandler) Stats(c *gin.Context) {
	stats, err := h.jobs.Stats(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load job stats")
		return
	}

	respondData(c, http.StatusOK, JobStatsView{
		TotalJobs:         stats.TotalJobs,
		AvgSalaryMin:      stats.AvgSalaryMin,
		AvgSalaryMax:      stats.AvgSalaryMax,
		TotalApplications: stats.TotalApplications,
		TotalViews:        stats.TotalViews,
		ByEmploymentType:  newStatGroupViews(stats.ByEmploymentType),
		ByExperienceLevel: newStatGroupViews(stats.ByExperienceLevel),
		ByLocationType:    newStatGroupViews(stats.ByLocationType),
	})
}
