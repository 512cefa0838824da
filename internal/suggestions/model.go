package suggestions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/llm"
	"github.com/jonathan/cv-enhancer/internal/logger"
	"github.com/jonathan/cv-enhancer/internal/prompts"
	"go.uber.org/zap"
)

// ErrModelUnavailable is matched by every error a ModelSuggester returns. Callers fall back to
// the rule-based suggestions when they see it.
var ErrModelUnavailable = errors.New("model suggestions unavailable")

// Model operations reported in ModelError.
const (
	OpDisabled = "disabled"
	OpGenerate = "generate"
	OpParse    = "parse"
)

// Prompt limits.
const (
	maxPromptSkills   = 20
	maxPromptMissing  = 10
	maxJobExcerptRune = 1500
)

// ModelError describes why model suggestions could not be produced.
type ModelError struct {
	Op  string
	Err error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("model suggestions %s", e.Op)
	}
	return fmt.Sprintf("model suggestions %s: %v", e.Op, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// Is makes every ModelError match ErrModelUnavailable.
func (e *ModelError) Is(target error) bool {
	return target == ErrModelUnavailable
}

// ModelRequest carries the context sent to the model.
type ModelRequest struct {
	CV             cv.Canonical
	JobDescription string
	Missing        []string
	Score          int
}

// ModelSuggester obtains contextual suggestions from a language model.
type ModelSuggester interface {
	Suggest(ctx context.Context, req ModelRequest) ([]Suggestion, error)
}

// NewModelSuggester returns a ConfiguredSuggester for client, or a DisabledSuggester when no
// client is configured.
func NewModelSuggester(client llm.Client, timeout time.Duration, log *zap.Logger) ModelSuggester {
	if client == nil {
		return DisabledSuggester{}
	}
	return NewConfiguredSuggester(client, timeout, log)
}

// DisabledSuggester always reports the model as unavailable.
type DisabledSuggester struct{}

// Suggest implements ModelSuggester.
func (DisabledSuggester) Suggest(context.Context, ModelRequest) ([]Suggestion, error) {
	return nil, &ModelError{Op: OpDisabled}
}

// ConfiguredSuggester calls a language model under a hard timeout.
type ConfiguredSuggester struct {
	client  llm.Client
	tier    llm.ModelTier
	timeout time.Duration
	logger  *zap.Logger
}

// NewConfiguredSuggester creates a suggester; a non-positive timeout uses llm.DefaultTimeout.
func NewConfiguredSuggester(client llm.Client, timeout time.Duration, log *zap.Logger) *ConfiguredSuggester {
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	return &ConfiguredSuggester{
		client:  client,
		tier:    llm.TierLite,
		timeout: timeout,
		logger:  logger.WithModel(log, "", client.GetModel(llm.TierLite)),
	}
}

// Suggest implements ModelSuggester. It returns once the timeout elapses even if the client
// ignores context cancellation.
func (s *ConfiguredSuggester) Suggest(ctx context.Context, req ModelRequest) ([]Suggestion, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, &ModelError{Op: OpGenerate, Err: err}
	}

	text, err := llm.Generate(ctx, s.client, prompt, s.tier, s.timeout, false)
	if err != nil {
		return nil, &ModelError{Op: OpGenerate, Err: err}
	}

	items, err := ParseModelSuggestions(text)
	if err != nil {
		s.logger.Debug("unusable model response", zap.String("response", logger.Truncate(text, 500)))
		return nil, &ModelError{Op: OpParse, Err: err}
	}
	return items, nil
}

// BuildPrompt renders the suggestion prompt for req.
func BuildPrompt(req ModelRequest) (string, error) {
	sections := make([]string, len(Sections))
	for i, s := range Sections {
		sections[i] = string(s)
	}
	return prompts.Render(prompts.SuggestionsFile, "model-suggestions", map[string]string{
		"CVSummary":      CVSummary(req.CV, req.Missing, req.Score),
		"JobDescription": excerpt(req.JobDescription, maxJobExcerptRune),
		"Sections":       strings.Join(sections, "|"),
	})
}

// CVSummary condenses the CV into the few facts the model needs.
func CVSummary(c cv.Canonical, missing []string, score int) string {
	name := orDefault(c.Name(), "Candidate")
	title := orDefault(c.JobTitle(), "N/A")

	skills := cv.FlattenSkills(c.Skills)
	skillLine := "None listed"
	if len(skills) > 0 {
		skillLine = joinFirst(skills, maxPromptSkills)
	}

	latest := "None"
	if entries := cv.MapEntries(c.Experience); len(entries) > 0 {
		e := entries[0]
		latest = fmt.Sprintf("%s at %s (%s - %s)",
			orDefault(cv.Field(e, "role", "position", "job_title", "title"), "N/A"),
			orDefault(cv.Field(e, "company", "company_name"), "N/A"),
			cv.Field(e, "startDate", "start_date"),
			orDefault(cv.Field(e, "endDate", "end_date"), "Present"))
	}

	hasSummary := "No"
	if c.HasSummary() {
		hasSummary = "Yes"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", name)
	fmt.Fprintf(&sb, "Current role: %s\n", title)
	fmt.Fprintf(&sb, "Skills: %s\n", skillLine)
	fmt.Fprintf(&sb, "Experience: %d positions\n", len(c.Experience))
	fmt.Fprintf(&sb, "Latest role: %s\n", latest)
	fmt.Fprintf(&sb, "Summary exists: %s\n", hasSummary)
	fmt.Fprintf(&sb, "Keyword match score: %d/100\n", score)
	fmt.Fprintf(&sb, "Missing keywords: %s", joinFirst(missing, maxPromptMissing))
	return sb.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// excerpt returns at most n runes of s.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
