package db

import (
	"time"

	"github.com/google/uuid"
)

// Application status values
const (
	StatusSaved        = "saved"
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusOffer        = "offer"
	StatusRejected     = "rejected"
)

// ApplicationStatuses lists every status in pipeline order.
var ApplicationStatuses = []string{StatusSaved, StatusApplied, StatusInterviewing, StatusOffer, StatusRejected}

// ValidApplicationStatus reports whether s is a known status.
func ValidApplicationStatus(s string) bool {
	for _, status := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// JobApplication tracks one application a user made or plans to make.
type JobApplication struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Company       string     `json:"company"`
	Role          string     `json:"role"`
	JobURL        string     `json:"job_url"`
	Location      string     `json:"location"`
	SalaryRange   string     `json:"salary_range"`
	Status        string     `json:"status"`
	AppliedDate   *time.Time `json:"applied_date,omitempty"`
	Notes         string     `json:"notes"`
	CVID          *uuid.UUID `json:"cv_id,omitempty"`
	CoverLetterID *uuid.UUID `json:"cover_letter_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DashboardStats aggregates a user's activity.
type DashboardStats struct {
	CVCount              int              `json:"cv_count"`
	CoverLetterCount     int              `json:"cover_letter_count"`
	ApplicationCount     int              `json:"application_count"`
	ApplicationsByStatus map[string]int   `json:"applications_by_status"`
	RecentApplications   []JobApplication `json:"recent_applications"`
}
