package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/llm"
	"github.com/jonathan/cv-enhancer/internal/logger"
	"github.com/jonathan/cv-enhancer/internal/prompts"
	"github.com/jonathan/cv-enhancer/internal/schemas"
)

// Enhancement limits
const (
	MaxEnhancedExperiences = 3
	MaxEnhanceJobChars     = 1000
)

// Enhancement messages
const (
	MessageEnhanced    = "CV successfully enhanced for the job description"
	MessageNotEnhanced = "Could not enhance CV with AI, returning original"
)

// EnhanceResult carries the rewritten CV, or the original when enhancement failed.
type EnhanceResult struct {
	Status     string       `json:"status"`
	EnhancedCV cv.Canonical `json:"enhanced_cv"`
	Message    string       `json:"message"`
}

// ExperienceSummary lists the first experiences as "- role at company (start to end)".
func ExperienceSummary(c cv.Canonical) string {
	entries := cv.MapEntries(c.Experience)
	if len(entries) > MaxEnhancedExperiences {
		entries = entries[:MaxEnhancedExperiences]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		end := cv.Field(e, "endDate", "end_date")
		if end == "" {
			end = "Present"
		}
		lines = append(lines, fmt.Sprintf("- %s at %s (%s to %s)",
			cv.Field(e, "role", "position"), cv.Field(e, "company", "company_name"),
			cv.Field(e, "startDate", "start_date"), end))
	}
	return strings.Join(lines, "\n")
}

// Enhance asks the model to rewrite experience descriptions for job. The input CV is not
// modified; on any failure the result carries an unchanged copy of it.
func (s *Service) Enhance(ctx context.Context, c cv.Canonical, job string) EnhanceResult {
	original := cv.Normalize(c.Record())
	failed := func(status string) EnhanceResult {
		return EnhanceResult{Status: status, EnhancedCV: original, Message: MessageNotEnhanced}
	}
	if s.client == nil {
		return failed(StatusAPIError)
	}

	prompt, err := prompts.Render(prompts.EnhanceFile, "enhance-experiences", map[string]string{
		"JobDescription": truncateRunes(job, MaxEnhanceJobChars),
		"Experiences":    ExperienceSummary(c),
	})
	if err != nil {
		s.log.Error("failed to render enhancement prompt", zap.Error(err))
		return failed(StatusAPIError)
	}

	raw, err := llm.Generate(ctx, s.client, prompt, llm.TierLite, s.timeout, false)
	if err != nil {
		s.log.Warn("cv enhancement unavailable", zap.Error(err))
		return failed(StatusAPIError)
	}

	descriptions, err := ParseEnhancement(raw)
	if err != nil {
		s.log.Debug("unusable enhancement response", zap.Error(err), zap.String("response", logger.Truncate(raw, 500)))
		return failed(StatusParseError)
	}

	enhanced := cv.Normalize(c.Record())
	ApplyDescriptions(enhanced.Experience, descriptions)
	return EnhanceResult{Status: StatusSuccess, EnhancedCV: enhanced, Message: MessageEnhanced}
}

// ParseEnhancement validates and decodes an enhancement response.
func ParseEnhancement(raw string) ([]string, error) {
	body := []byte(llm.CleanJSONBlock(raw))
	if err := schemas.Validate(schemas.Enhancement, body); err != nil {
		return nil, err
	}
	var decoded struct {
		EnhancedDescriptions []string `json:"enhanced_descriptions"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode enhancement: %w", err)
	}
	return decoded.EnhancedDescriptions, nil
}

// ApplyDescriptions replaces the description of experience i with descriptions[i]. Blank
// descriptions and entries that are not mappings are left alone.
func ApplyDescriptions(experience []any, descriptions []string) {
	for i, desc := range descriptions {
		if i >= len(experience) {
			break
		}
		entry, ok := experience[i].(map[string]any)
		if !ok || strings.TrimSpace(desc) == "" {
			continue
		}
		entry["description"] = strings.TrimSpace(desc)
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
