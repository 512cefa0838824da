package types

import (
	"github.com/google/uuid"

	"github.com/jonathan/cv-enhancer/internal/db"
)

// CoverLetterRequest creates or partially updates a cover letter. A non-nil Content replaces the
// whole letter body.
type CoverLetterRequest struct {
	Title          *string                `json:"title" validate:"omitempty,max=200"`
	CVID           *uuid.UUID             `json:"cv_id"`
	JobDescription *string                `json:"job_description"`
	Content        *db.CoverLetterContent `json:"content"`
}

// Validate validates the CoverLetterRequest using the validator.
func (r *CoverLetterRequest) Validate() error {
	return Validate(r)
}

// Apply copies every non-nil field onto l.
func (r *CoverLetterRequest) Apply(l *db.CoverLetter) {
	if r.Title != nil {
		l.Title = *r.Title
	}
	if r.CVID != nil {
		l.CVID = r.CVID
	}
	if r.JobDescription != nil {
		l.JobDescription = *r.JobDescription
	}
	if r.Content != nil {
		l.Content = *r.Content
	}
}

// GenerateCoverLetterRequest asks for a letter written from a CV for a job description.
type GenerateCoverLetterRequest struct {
	CVID           uuid.UUID `json:"cv_id" validate:"required"`
	JobDescription string    `json:"job_description" validate:"required"`
	Title          string    `json:"title" validate:"omitempty,max=200"`
}

// Validate validates the GenerateCoverLetterRequest using the validator.
func (r *GenerateCoverLetterRequest) Validate() error {
	return Validate(r)
}

// ExtractJobRequest names a job posting page to read.
type ExtractJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// Validate validates the ExtractJobRequest using the validator.
func (r *ExtractJobRequest) Validate() error {
	return Validate(r)
}

// ExtractJobResponse is the job description read from a posting page.
type ExtractJobResponse struct {
	JobDescription string `json:"job_description"`
	URL            string `json:"url"`
}
