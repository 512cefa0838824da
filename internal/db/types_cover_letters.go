package db

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCoverLetterTitle is used when a cover letter is created without a title.
const DefaultCoverLetterTitle = "My Cover Letter"

// CoverLetterContent is the structured body of a cover letter.
type CoverLetterContent struct {
	RecipientName string `json:"recipient_name"`
	Company       string `json:"company"`
	Role          string `json:"role"`
	Date          string `json:"date"`
	Opening       string `json:"opening"`
	Body          string `json:"body"`
	Closing       string `json:"closing"`
	Signature     string `json:"signature"`
}

// CoverLetter is a stored cover letter, optionally linked to a CV.
type CoverLetter struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"user_id"`
	CVID            *uuid.UUID         `json:"cv_id,omitempty"`
	Title           string             `json:"title"`
	JobDescription  string             `json:"job_description"`
	Content         CoverLetterContent `json:"content"`
	GeneratedWithAI bool               `json:"generated_with_ai"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}
