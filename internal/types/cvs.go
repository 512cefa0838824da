package types

import (
	"github.com/jonathan/cv-enhancer/internal/cv"
)

// CVRequest creates or partially updates a CV. Nil fields are left unchanged on update, so a
// client can send only the sections it edited.
type CVRequest struct {
	FullName       *string        `json:"full_name" validate:"omitempty,max=200"`
	Title          *string        `json:"title" validate:"omitempty,max=200"`
	Email          *string        `json:"email" validate:"omitempty,max=320"`
	Phone          *string        `json:"phone" validate:"omitempty,max=50"`
	Location       *string        `json:"location" validate:"omitempty,max=200"`
	LinkedInURL    *string        `json:"linkedin_url" validate:"omitempty,max=500"`
	ProfileSummary *string        `json:"profile_summary"`
	PersonalInfo   map[string]any `json:"personal_info"`
	Experiences    []any          `json:"experiences"`
	Educations     []any          `json:"educations"`
	Projects       []any          `json:"projects"`
	Skills         any            `json:"skills"`
	Languages      []any          `json:"languages"`
	Certifications []any          `json:"certifications"`
	Interests      []any          `json:"interests"`
	IsActive       *bool          `json:"is_active"`
}

// Validate validates the CVRequest using the validator.
func (r *CVRequest) Validate() error {
	return Validate(r)
}

// Apply copies every non-nil field onto rec.
func (r *CVRequest) Apply(rec *cv.Record) {
	fields := []struct {
		src  *string
		dest *string
	}{
		{r.FullName, &rec.FullName},
		{r.Title, &rec.Title},
		{r.Email, &rec.Email},
		{r.Phone, &rec.Phone},
		{r.Location, &rec.Location},
		{r.LinkedInURL, &rec.LinkedInURL},
		{r.ProfileSummary, &rec.ProfileSummary},
	}
	for _, s := range fields {
		if s.src != nil {
			*s.dest = *s.src
		}
	}

	if r.PersonalInfo != nil {
		rec.PersonalInfo = r.PersonalInfo
	}
	sections := []struct {
		src  []any
		dest *[]any
	}{
		{r.Experiences, &rec.Experiences},
		{r.Educations, &rec.Educations},
		{r.Projects, &rec.Projects},
		{r.Languages, &rec.Languages},
		{r.Certifications, &rec.Certifications},
		{r.Interests, &rec.Interests},
	}
	for _, s := range sections {
		if s.src != nil {
			*s.dest = s.src
		}
	}
	if r.Skills != nil {
		rec.Skills = r.Skills
	}
}

// MaxJobDescriptionChars bounds job descriptions accepted by the API.
const MaxJobDescriptionChars = 50000

// JobDescriptionRequest carries the job description for customize and enhance-for-job. An empty
// description is accepted and scores zero.
type JobDescriptionRequest struct {
	JobDescription string `json:"job_description" validate:"max=50000"`
}

// Validate validates the JobDescriptionRequest using the validator.
func (r *JobDescriptionRequest) Validate() error {
	return Validate(r)
}
