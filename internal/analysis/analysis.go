// Package analysis asks a language model for a general CV review and for job-specific rewrites
// of experience descriptions. Both degrade to a fixed result when the model is unavailable.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/llm"
	"github.com/jonathan/cv-enhancer/internal/logger"
	"github.com/jonathan/cv-enhancer/internal/prompts"
	"github.com/jonathan/cv-enhancer/internal/schemas"
)

// Result status values
const (
	StatusSuccess    = "success"
	StatusParseError = "parse_error"
	StatusAPIError   = "api_error"
)

// Fallback scores reported when the model answer cannot be used.
const (
	parseErrorScore  = 75
	unavailableScore = 0
	maxSummarySkills = 10
)

// Review is the model's assessment of a CV.
type Review struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Score        int      `json:"score"`
}

// ReviewResult pairs a review with how it was obtained.
type ReviewResult struct {
	Analysis Review `json:"analysis"`
	Status   string `json:"status"`
}

// Service runs model-backed CV analysis. A nil client makes every call report api_error.
type Service struct {
	client  llm.Client
	timeout time.Duration
	log     *zap.Logger
}

// NewService creates a service; a nil logger discards output.
func NewService(client llm.Client, timeout time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if client != nil {
		log = logger.WithModel(log, "", client.GetModel(llm.TierLite))
	}
	return &Service{client: client, timeout: timeout, log: log}
}

// Enabled reports whether a model is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// ReviewSummary condenses the CV for the review prompt.
func ReviewSummary(c cv.Canonical) string {
	name := c.Name()
	if name == "" {
		name = "Not provided"
	}
	skills := cv.FlattenSkills(c.Skills)
	if len(skills) > maxSummarySkills {
		skills = skills[:maxSummarySkills]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", name)
	fmt.Fprintf(&sb, "Skills: %s\n", strings.Join(skills, ", "))
	fmt.Fprintf(&sb, "Experience: %d positions\n", len(c.Experience))
	fmt.Fprintf(&sb, "Education: %d degrees", len(c.Education))
	return sb.String()
}

// Review asks the model for strengths, improvements and a 0-100 score.
func (s *Service) Review(ctx context.Context, c cv.Canonical) ReviewResult {
	unavailable := ReviewResult{
		Analysis: Review{Strengths: []string{"Profile complete"}, Improvements: []string{}, Score: unavailableScore},
		Status:   StatusAPIError,
	}
	if s.client == nil {
		return unavailable
	}

	prompt, err := prompts.Render(prompts.AnalysisFile, "analyze-cv", map[string]string{
		"CVSummary": ReviewSummary(c),
	})
	if err != nil {
		s.log.Error("failed to render analysis prompt", zap.Error(err))
		return unavailable
	}

	raw, err := llm.Generate(ctx, s.client, prompt, llm.TierLite, s.timeout, false)
	if err != nil {
		s.log.Warn("cv analysis unavailable", zap.Error(err))
		return unavailable
	}

	review, err := ParseReview(raw)
	if err != nil {
		s.log.Debug("unusable analysis response", zap.Error(err), zap.String("response", logger.Truncate(raw, 500)))
		return ReviewResult{
			Analysis: Review{Strengths: []string{"Profile complete"}, Improvements: []string{}, Score: parseErrorScore},
			Status:   StatusParseError,
		}
	}
	return ReviewResult{Analysis: *review, Status: StatusSuccess}
}

// ParseReview validates and decodes a review response. Fractional scores are rounded.
func ParseReview(raw string) (*Review, error) {
	body := []byte(llm.CleanJSONBlock(raw))
	if err := schemas.Validate(schemas.Analysis, body); err != nil {
		return nil, err
	}
	var decoded struct {
		Strengths    []string `json:"strengths"`
		Improvements []string `json:"improvements"`
		Score        float64  `json:"score"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return &Review{
		Strengths:    nonBlank(decoded.Strengths),
		Improvements: nonBlank(decoded.Improvements),
		Score:        int(math.Round(decoded.Score)),
	}, nil
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
