package suggestions

import (
	"fmt"
	"strings"

	"github.com/jonathan/cv-enhancer/internal/cv"
)

// RuleConfig tunes the rule-based suggestions.
type RuleConfig struct {
	// MaxGapTerms caps the missing terms quoted by the skills gap rule.
	MaxGapTerms int
	// MaxBoostTerms caps the missing terms quoted by the low score rule.
	MaxBoostTerms int
	// LowScore is the score below which the keyword boost rule fires.
	LowScore int
	// CertificationTerms trigger the certification rule when found in the job text.
	CertificationTerms []string
}

// DefaultRuleConfig returns the standard rule settings.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		MaxGapTerms:   8,
		MaxBoostTerms: 6,
		LowScore:      50,
		CertificationTerms: []string{
			"certified", "certification", "certificate", "aws", "azure", "pmp", "cissp", "cka", "ckad",
		},
	}
}

// RuleInput is everything the rules look at.
type RuleInput struct {
	CV             cv.Canonical
	JobDescription string
	Missing        []string
	Score          int
}

type rule func(cfg RuleConfig, in RuleInput) (Suggestion, bool)

// rules run in this order; the order is the output order.
var rules = []rule{
	skillsGapRule,
	summaryRule,
	achievementBulletsRule,
	photoRule,
	keywordScoreRule,
	certificationsRule,
}

// Rules generates deterministic suggestions. It performs no I/O and is safe for concurrent use.
type Rules struct {
	cfg RuleConfig
}

// NewRules creates a rule set, filling unset limits from DefaultRuleConfig.
func NewRules(cfg RuleConfig) *Rules {
	def := DefaultRuleConfig()
	if cfg.MaxGapTerms <= 0 {
		cfg.MaxGapTerms = def.MaxGapTerms
	}
	if cfg.MaxBoostTerms <= 0 {
		cfg.MaxBoostTerms = def.MaxBoostTerms
	}
	if cfg.LowScore <= 0 {
		cfg.LowScore = def.LowScore
	}
	if cfg.CertificationTerms == nil {
		cfg.CertificationTerms = def.CertificationTerms
	}
	return &Rules{cfg: cfg}
}

// Generate evaluates every rule against in. The result is never nil.
func (r *Rules) Generate(in RuleInput) []Suggestion {
	out := []Suggestion{}
	for _, fn := range rules {
		if s, ok := fn(r.cfg, in); ok {
			s.Source = SourceRuleBased
			out = append(out, s)
		}
	}
	return out
}

func skillsGapRule(cfg RuleConfig, in RuleInput) (Suggestion, bool) {
	if len(in.Missing) == 0 {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:          "Address Skills Gap",
		Description:    fmt.Sprintf("%d keywords from the job posting are missing from your CV.", len(in.Missing)),
		SuggestionText: "Naturally incorporate these terms into your experience descriptions: " + joinFirst(in.Missing, cfg.MaxGapTerms),
		Section:        SectionSkills,
	}, true
}

func summaryRule(_ RuleConfig, in RuleInput) (Suggestion, bool) {
	if in.CV.HasSummary() {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:          "Add a Profile Summary",
		Description:    "Recruiters spend about 7 seconds on a CV. A strong summary dramatically improves callback rates.",
		SuggestionText: "Write 2-3 sentences highlighting your years of experience, key technical strengths, and what you can deliver for this specific role.",
		Section:        SectionSummary,
	}, true
}

func achievementBulletsRule(_ RuleConfig, in RuleInput) (Suggestion, bool) {
	if len(in.CV.Experience) == 0 {
		return Suggestion{}, false
	}
	for _, item := range in.CV.Experience {
		if hasDescription(item) {
			return Suggestion{}, false
		}
	}
	return Suggestion{
		Title:          "Add Achievement Bullet Points",
		Description:    "Your experience entries have no descriptions, one of the biggest weaknesses a CV can have.",
		SuggestionText: "Add 3-5 bullets per role using the STAR format (Situation, Task, Action, Result). Start with action verbs: Led, Built, Reduced, Improved, Automated. Always quantify: '40% faster builds', 'saved €50k/year'.",
		Section:        SectionExperience,
	}, true
}

func photoRule(_ RuleConfig, in RuleInput) (Suggestion, bool) {
	if in.CV.Photo() != "" {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:          "Add a Professional Photo",
		Description:    "In European markets (Germany, Austria, Switzerland), a professional photo is standard and improves trust.",
		SuggestionText: "Upload a high-quality headshot using the profile photo upload button at the top of the Personal Info section.",
		Section:        SectionPersonalInfo,
	}, true
}

func keywordScoreRule(cfg RuleConfig, in RuleInput) (Suggestion, bool) {
	if in.Score >= cfg.LowScore {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:          "Boost Your ATS Keyword Score",
		Description:    fmt.Sprintf("Your CV currently scores %d%% keyword match against this job posting.", in.Score),
		SuggestionText: fmt.Sprintf("ATS systems rank CVs by keyword density. Prioritise adding these terms: %s. Use exact phrasing where possible.", joinFirst(in.Missing, cfg.MaxBoostTerms)),
		Section:        SectionGeneral,
	}, true
}

func certificationsRule(cfg RuleConfig, in RuleInput) (Suggestion, bool) {
	if !cv.IsEmpty(in.CV.Certifications) || !mentionsAny(in.JobDescription, cfg.CertificationTerms) {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:          "Add Relevant Certifications",
		Description:    "This role mentions certifications or cloud credentials.",
		SuggestionText: "Add any relevant professional certifications. If you lack them, consider fast training: AWS Cloud Practitioner, Azure Fundamentals or Kubernetes CKA are very valued.",
		Section:        SectionCertifications,
	}, true
}

// hasDescription treats a plain string entry as its own description.
func hasDescription(item any) bool {
	switch v := item.(type) {
	case map[string]any:
		return !cv.IsEmpty(v["description"])
	case string:
		return strings.TrimSpace(v) != ""
	default:
		return false
	}
}

// mentionsAny is a plain substring test, so "aws" also fires on "laws".
func mentionsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
