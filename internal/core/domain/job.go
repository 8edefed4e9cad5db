package domain

import "time"

// LocationType enumerates where a job is performed.
type LocationType string

const (
	LocationRemote LocationType = "remote"
	LocationHybrid LocationType = "hybrid"
	LocationOnsite LocationType = "onsite"
)

// EmploymentType enumerates contract shapes for a posting.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentFreelance  EmploymentType = "freelance"
)

// ExperienceLevel enumerates seniority bands.
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceLead      ExperienceLevel = "lead"
	ExperienceExecutive ExperienceLevel = "executive"
)

// Salary describes the advertised compensation range.
type Salary struct {
	Min      *int   `json:"min,omitempty"`
	Max      *int   `json:"max,omitempty"`
	Currency string `json:"currency"`
	Period   string `json:"period"`
}

// Job is a catalog entry. ViewCount and ApplicationCount are bumped by
// independent atomic updates and are not consistent with any other write.
type Job struct {
	ID               string
	Title            string
	Company          string
	CompanyLogo      *string
	Location         string
	LocationType     LocationType
	EmploymentType   EmploymentType
	ExperienceLevel  ExperienceLevel
	Description      string
	Requirements     []string
	Responsibilities []string
	Skills           []string
	Salary           Salary
	Benefits         []string
	ApplicationURL   *string
	Source           string
	ExternalID       *string
	PostedDate       time.Time
	Deadline         *time.Time
	IsActive         bool
	ViewCount        int
	ApplicationCount int
	Tags             []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Snapshot captures the display fields an application copies at creation
// time, so the application survives later mutation or deletion of the job.
func (j Job) Snapshot() JobSnapshot {
	return JobSnapshot{
		Title:          j.Title,
		Company:        j.Company,
		CompanyLogo:    j.CompanyLogo,
		Location:       j.Location,
		EmploymentType: j.EmploymentType,
	}
}
