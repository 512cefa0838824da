package suggestions

import (
	"testing"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeCV() cv.Canonical {
	return cv.Normalize(cv.Record{
		FullName:       "Jane Doe",
		Title:          "Backend Engineer",
		ProfileSummary: "Backend engineer with eight years of Python.",
		PhotoPath:      "photos/jane.jpg",
		Experiences: []any{
			map[string]any{"role": "Engineer", "company": "Acme", "description": "Built APIs"},
		},
		Certifications: []any{"AWS Solutions Architect"},
		Skills:         []any{"Python", "Docker"},
	})
}

func sections(items []Suggestion) []Section {
	out := make([]Section, len(items))
	for i, s := range items {
		out[i] = s.Section
	}
	return out
}

func TestRules_ScenarioA(t *testing.T) {
	c := cv.Normalize(cv.Record{
		FullName: "Jane Doe",
		Experiences: []any{
			map[string]any{"role": "Engineer", "company": "Acme", "description": ""},
		},
	})

	got := NewRules(DefaultRuleConfig()).Generate(RuleInput{
		CV:             c,
		JobDescription: "We need Python skills. AWS certified engineers preferred.",
		Missing:        []string{"Python", "AWS"},
		Score:          0,
	})

	require.GreaterOrEqual(t, len(got), 4)
	assert.Subset(t, sections(got), []Section{
		SectionSkills, SectionSummary, SectionExperience, SectionCertifications,
	})
	for _, s := range got {
		assert.True(t, s.Section.Valid(), "section %q", s.Section)
		assert.Equal(t, SourceRuleBased, s.Source)
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Description)
		assert.NotEmpty(t, s.SuggestionText)
	}
}

func TestRules_Order(t *testing.T) {
	c := cv.Normalize(cv.Record{
		Experiences: []any{map[string]any{"role": "Engineer"}},
	})

	got := NewRules(DefaultRuleConfig()).Generate(RuleInput{
		CV:             c,
		JobDescription: "Azure certification required",
		Missing:        []string{"Azure"},
		Score:          10,
	})

	assert.Equal(t, []Section{
		SectionSkills,
		SectionSummary,
		SectionExperience,
		SectionPersonalInfo,
		SectionGeneral,
		SectionCertifications,
	}, sections(got))
}

func TestRules_CompleteCVProducesNothing(t *testing.T) {
	got := NewRules(DefaultRuleConfig()).Generate(RuleInput{
		CV:             completeCV(),
		JobDescription: "Python and AWS certified",
		Missing:        nil,
		Score:          100,
	})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRules_IndividualConditions(t *testing.T) {
	base := func() RuleInput {
		return RuleInput{CV: completeCV(), JobDescription: "Go developer", Score: 80}
	}

	tests := []struct {
		name   string
		modify func(in *RuleInput)
		want   []Section
	}{
		{
			name:   "missing keywords",
			modify: func(in *RuleInput) { in.Missing = []string{"Kafka"} },
			want:   []Section{SectionSkills},
		},
		{
			name:   "blank summary",
			modify: func(in *RuleInput) { in.CV.Summary = "   " },
			want:   []Section{SectionSummary},
		},
		{
			name: "experiences without descriptions",
			modify: func(in *RuleInput) {
				in.CV.Experience = []any{map[string]any{"role": "A"}, map[string]any{"role": "B", "description": []any{}}}
			},
			want: []Section{SectionExperience},
		},
		{
			name:   "no experiences at all",
			modify: func(in *RuleInput) { in.CV.Experience = []any{} },
			want:   []Section{},
		},
		{
			name:   "string experience counts as described",
			modify: func(in *RuleInput) { in.CV.Experience = []any{"Engineer at Acme"} },
			want:   []Section{},
		},
		{
			name:   "no photo",
			modify: func(in *RuleInput) { in.CV.PersonalInfo[cv.KeyPhoto] = "" },
			want:   []Section{SectionPersonalInfo},
		},
		{
			name:   "score just below threshold",
			modify: func(in *RuleInput) { in.Score = 49 },
			want:   []Section{SectionGeneral},
		},
		{
			name:   "score at threshold",
			modify: func(in *RuleInput) { in.Score = 50 },
			want:   []Section{},
		},
		{
			name: "certifications missing and job mentions one",
			modify: func(in *RuleInput) {
				in.CV.Certifications = []any{}
				in.JobDescription = "PMP preferred"
			},
			want: []Section{SectionCertifications},
		},
		{
			name: "certification terms match as substrings",
			modify: func(in *RuleInput) {
				in.CV.Certifications = []any{}
				in.JobDescription = "Knowledge of labor laws"
			},
			want: []Section{SectionCertifications},
		},
		{
			name: "certifications missing but job silent",
			modify: func(in *RuleInput) {
				in.CV.Certifications = []any{}
				in.JobDescription = "Go developer"
			},
			want: []Section{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.modify(&in)
			got := NewRules(DefaultRuleConfig()).Generate(in)
			assert.Equal(t, tt.want, sections(got))
		})
	}
}

func TestRules_TermCaps(t *testing.T) {
	missing := []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10"}

	got := NewRules(DefaultRuleConfig()).Generate(RuleInput{
		CV:      completeCV(),
		Missing: missing,
		Score:   20,
	})
	require.Len(t, got, 2)

	gap := got[0]
	assert.Equal(t, "Address Skills Gap", gap.Title)
	assert.Equal(t, "10 keywords from the job posting are missing from your CV.", gap.Description)
	assert.Equal(t, "Naturally incorporate these terms into your experience descriptions: a1, a2, a3, a4, a5, a6, a7, a8", gap.SuggestionText)

	boost := got[1]
	assert.Equal(t, "Boost Your ATS Keyword Score", boost.Title)
	assert.Equal(t, "Your CV currently scores 20% keyword match against this job posting.", boost.Description)
	assert.Contains(t, boost.SuggestionText, "a1, a2, a3, a4, a5, a6.")
	assert.NotContains(t, boost.SuggestionText, "a7")
}

func TestRules_CustomConfig(t *testing.T) {
	r := NewRules(RuleConfig{MaxGapTerms: 1, LowScore: 90, CertificationTerms: []string{"gke"}})

	c := completeCV()
	c.Certifications = []any{}
	got := r.Generate(RuleInput{CV: c, JobDescription: "GKE admins", Missing: []string{"GKE", "Helm"}, Score: 85})

	require.Equal(t, []Section{SectionSkills, SectionGeneral, SectionCertifications}, sections(got))
	assert.True(t, len(got[0].SuggestionText) > 0)
	assert.NotContains(t, got[0].SuggestionText, "Helm")
}

func TestRules_Deterministic(t *testing.T) {
	in := RuleInput{
		CV:             cv.Normalize(cv.Record{Experiences: []any{map[string]any{"role": "X"}}}),
		JobDescription: "AWS certified Python developer",
		Missing:        []string{"AWS", "Python", "developer"},
		Score:          12,
	}
	r := NewRules(DefaultRuleConfig())

	assert.Equal(t, r.Generate(in), r.Generate(in))
}
