// Package coverletter writes cover letters from a CV and a job description, with a model when
// one is configured and from a fixed template otherwise.
package coverletter

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/db"
	"github.com/jonathan/cv-enhancer/internal/llm"
	"github.com/jonathan/cv-enhancer/internal/logger"
	"github.com/jonathan/cv-enhancer/internal/prompts"
)

const (
	// MaxJobDescriptionChars bounds the job text placed in the prompt.
	MaxJobDescriptionChars = 3000
	// DefaultSigner signs letters when neither the CV nor the account has a name.
	DefaultSigner = "Applicant"
	// DateLayout formats the letter date.
	DateLayout = "January 2, 2006"

	maxPromptSkills = 10
	minLetterChars  = 200
)

// Request holds what a letter is written from.
type Request struct {
	CV             cv.Canonical
	UserName       string
	JobDescription string
}

// Letter is a generated cover letter.
type Letter struct {
	Content         db.CoverLetterContent
	GeneratedWithAI bool
}

// Generator writes cover letters.
type Generator struct {
	client  llm.Client
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// NewGenerator creates a generator. A nil client always produces the template letter.
func NewGenerator(client llm.Client, timeout time.Duration, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{client: client, timeout: timeout, log: log, now: time.Now}
}

// Signer returns the name a letter is signed with.
func Signer(req Request) string {
	if name := req.CV.Name(); name != "" {
		return name
	}
	if name := strings.TrimSpace(req.UserName); name != "" {
		return name
	}
	return DefaultSigner
}

// Generate writes a letter. It never fails: when the model is unavailable or answers with
// something too short to be a letter, the template letter is returned instead.
func (g *Generator) Generate(ctx context.Context, req Request) Letter {
	signer := Signer(req)
	letter := Letter{Content: g.fallback(signer)}

	if g.client != nil {
		text, err := g.complete(ctx, req, signer)
		switch {
		case err != nil:
			g.log.Warn("cover letter generation failed, using template", zap.Error(err))
		case utf8.RuneCountInString(text) < minLetterChars:
			g.log.Warn("cover letter response too short, using template",
				zap.String("response", logger.Truncate(text, 200)))
		default:
			letter = Letter{Content: Split(text, signer), GeneratedWithAI: true}
		}
	}

	letter.Content.Date = g.now().Format(DateLayout)
	return letter
}

func (g *Generator) complete(ctx context.Context, req Request, signer string) (string, error) {
	prompt, err := BuildPrompt(req, signer)
	if err != nil {
		return "", err
	}
	return llm.Generate(ctx, g.client, prompt, llm.TierLite, g.timeout, false)
}

// BuildPrompt renders the generation prompt.
func BuildPrompt(req Request, signer string) (string, error) {
	skills := cv.FlattenSkills(req.CV.Skills)
	if len(skills) > maxPromptSkills {
		skills = skills[:maxPromptSkills]
	}
	return prompts.Render(prompts.CoverLetterFile, "generate-cover-letter", map[string]string{
		"Name":           signer,
		"JobTitle":       orNotProvided(req.CV.JobTitle()),
		"Skills":         orNotProvided(strings.Join(skills, ", ")),
		"LatestRole":     orNotProvided(latestRole(req.CV)),
		"JobDescription": truncate(strings.TrimSpace(req.JobDescription), MaxJobDescriptionChars),
	})
}

func (g *Generator) fallback(signer string) db.CoverLetterContent {
	text, err := prompts.Render(prompts.CoverLetterFile, "fallback-letter", map[string]string{"Name": signer})
	if err != nil {
		g.log.Error("failed to render template letter", zap.Error(err))
		return db.CoverLetterContent{RecipientName: "Hiring Manager", Closing: "Sincerely,", Signature: signer}
	}
	return Split(text, signer)
}

func latestRole(c cv.Canonical) string {
	entries := cv.MapEntries(c.Experience)
	if len(entries) == 0 {
		return ""
	}
	role := cv.Field(entries[0], "role", "position")
	company := cv.Field(entries[0], "company", "company_name")
	switch {
	case role != "" && company != "":
		return fmt.Sprintf("%s at %s", role, company)
	case role != "":
		return role
	default:
		return company
	}
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not provided"
	}
	return s
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
