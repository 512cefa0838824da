package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/llm"
	"github.com/jonathan/cv-enhancer/internal/logger"
	"github.com/jonathan/cv-enhancer/internal/prompts"
	"github.com/jonathan/cv-enhancer/internal/schemas"
)

// StructuredCV is the model's reading of raw CV text.
type StructuredCV struct {
	PersonalInfo   map[string]any `json:"personal_info"`
	Summary        string         `json:"summary"`
	Experiences    []any          `json:"experiences"`
	Educations     []any          `json:"educations"`
	Skills         any            `json:"skills"`
	Languages      []any          `json:"languages"`
	Certifications []any          `json:"certifications"`
	Projects       []any          `json:"projects"`
	Interests      []any          `json:"interests"`
}

// Structurer asks a language model to split CV text into sections.
type Structurer struct {
	client  llm.Client
	timeout time.Duration
	log     *zap.Logger
}

// NewStructurer returns nil when client is nil, so callers can skip structuring entirely.
func NewStructurer(client llm.Client, timeout time.Duration, log *zap.Logger) *Structurer {
	if client == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Structurer{
		client:  client,
		timeout: timeout,
		log:     logger.WithModel(log, "", client.GetModel(llm.TierStandard)),
	}
}

// BuildStructurePrompt renders the structuring prompt for text read from fileName.
func BuildStructurePrompt(text, fileName string) (string, error) {
	return prompts.Render(prompts.ParsingFile, "structure-cv", map[string]string{
		"ExtractionPrompt": llm.BuildExtractionPrompt(llm.CVStructureSchema(), text),
		"FileName":         fileName,
	})
}

// Structure returns the sections the model found in text. The response must validate against
// the CV structure schema.
func (s *Structurer) Structure(ctx context.Context, text, fileName string) (*StructuredCV, error) {
	prompt, err := BuildStructurePrompt(text, fileName)
	if err != nil {
		return nil, &Error{Stage: "structure", FileName: fileName, Err: err}
	}

	raw, err := llm.Generate(ctx, s.client, prompt, llm.TierStandard, s.timeout, true)
	if err != nil {
		return nil, &Error{Stage: "structure", FileName: fileName, Err: err}
	}

	structured, err := ParseStructuredCV(raw)
	if err != nil {
		s.log.Debug("unusable structuring response", zap.String("response", logger.Truncate(raw, 500)))
		return nil, &Error{Stage: "structure", FileName: fileName, Err: err}
	}
	return structured, nil
}

// ParseStructuredCV validates and decodes a structuring response.
func ParseStructuredCV(raw string) (*StructuredCV, error) {
	body := []byte(llm.CleanJSONBlock(raw))
	if err := schemas.Validate(schemas.CVStructure, body); err != nil {
		return nil, err
	}
	var out StructuredCV
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode structured CV: %w", err)
	}
	return &out, nil
}

// Apply copies the structured sections onto rec. Identity goes into personal_info and the
// matching flat columns; sections the model left empty keep their stored value.
func (s *StructuredCV) Apply(rec *cv.Record) {
	if len(s.PersonalInfo) > 0 {
		if rec.PersonalInfo == nil {
			rec.PersonalInfo = map[string]any{}
		}
		for k, v := range s.PersonalInfo {
			if str, ok := v.(string); ok && strings.TrimSpace(str) == "" {
				continue
			}
			rec.PersonalInfo[k] = v
		}
		columns := []struct {
			key  string
			dest *string
		}{
			{cv.KeyName, &rec.FullName},
			{cv.KeyEmail, &rec.Email},
			{cv.KeyPhone, &rec.Phone},
			{cv.KeyLocation, &rec.Location},
			{cv.KeyLinkedIn, &rec.LinkedInURL},
		}
		for _, c := range columns {
			if v := cv.Field(s.PersonalInfo, c.key); v != "" {
				*c.dest = v
			}
		}
	}

	if summary := strings.TrimSpace(s.Summary); summary != "" {
		rec.ProfileSummary = summary
	}
	sections := []struct {
		src  []any
		dest *[]any
	}{
		{s.Experiences, &rec.Experiences},
		{s.Educations, &rec.Educations},
		{s.Languages, &rec.Languages},
		{s.Certifications, &rec.Certifications},
		{s.Projects, &rec.Projects},
		{s.Interests, &rec.Interests},
	}
	for _, sec := range sections {
		if len(sec.src) > 0 {
			*sec.dest = sec.src
		}
	}
	if !cv.IsEmpty(s.Skills) {
		rec.Skills = s.Skills
	}
}
