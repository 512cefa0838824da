package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-enhancer/internal/db"
)

// DateLayout is the wire format of applied_date.
const DateLayout = "2006-01-02"

// JobApplicationRequest creates or partially updates a job application. Company and role are
// required on create; see RequireIdentity.
type JobApplicationRequest struct {
	Company       *string    `json:"company" validate:"omitempty,max=200"`
	Role          *string    `json:"role" validate:"omitempty,max=200"`
	JobURL        *string    `json:"job_url" validate:"omitempty,max=2000"`
	Location      *string    `json:"location" validate:"omitempty,max=200"`
	SalaryRange   *string    `json:"salary_range" validate:"omitempty,max=100"`
	Status        *string    `json:"status" validate:"omitempty,oneof=saved applied interviewing offer rejected"`
	AppliedDate   *string    `json:"applied_date" validate:"omitempty,datetime=2006-01-02"`
	Notes         *string    `json:"notes"`
	CVID          *uuid.UUID `json:"cv_id"`
	CoverLetterID *uuid.UUID `json:"cover_letter_id"`
}

// Validate validates the JobApplicationRequest using the validator.
func (r *JobApplicationRequest) Validate() error {
	return Validate(r)
}

// RequireIdentity reports an error when company or role is missing or blank.
func (r *JobApplicationRequest) RequireIdentity() error {
	if r.Company == nil || strings.TrimSpace(*r.Company) == "" {
		return fmt.Errorf("company is required")
	}
	if r.Role == nil || strings.TrimSpace(*r.Role) == "" {
		return fmt.Errorf("role is required")
	}
	return nil
}

// Apply copies every non-nil field onto a. An empty applied_date clears the date.
func (r *JobApplicationRequest) Apply(a *db.JobApplication) error {
	strs := []struct {
		src  *string
		dest *string
	}{
		{r.Company, &a.Company},
		{r.Role, &a.Role},
		{r.JobURL, &a.JobURL},
		{r.Location, &a.Location},
		{r.SalaryRange, &a.SalaryRange},
		{r.Status, &a.Status},
		{r.Notes, &a.Notes},
	}
	for _, s := range strs {
		if s.src != nil {
			*s.dest = strings.TrimSpace(*s.src)
		}
	}

	if r.AppliedDate != nil {
		if *r.AppliedDate == "" {
			a.AppliedDate = nil
		} else {
			d, err := time.Parse(DateLayout, *r.AppliedDate)
			if err != nil {
				return fmt.Errorf("invalid applied_date %q: %w", *r.AppliedDate, err)
			}
			a.AppliedDate = &d
		}
	}
	if r.CVID != nil {
		a.CVID = r.CVID
	}
	if r.CoverLetterID != nil {
		a.CoverLetterID = r.CoverLetterID
	}
	return nil
}
