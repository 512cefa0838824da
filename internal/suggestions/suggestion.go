// Package suggestions produces CV improvement suggestions for a job description: deterministic
// rules that always apply, optionally enriched by a language model.
package suggestions

import "strings"

// Section names the CV section a suggestion targets.
type Section string

// Sections a suggestion may target.
const (
	SectionSummary        Section = "summary"
	SectionExperience     Section = "experience"
	SectionSkills         Section = "skills"
	SectionEducation      Section = "education"
	SectionCertifications Section = "certifications"
	SectionLanguages      Section = "languages"
	SectionProjects       Section = "projects"
	SectionPersonalInfo   Section = "personal-info"
	SectionGeneral        Section = "general"
)

// Sections lists every valid section in display order.
var Sections = []Section{
	SectionSummary,
	SectionExperience,
	SectionSkills,
	SectionEducation,
	SectionCertifications,
	SectionLanguages,
	SectionProjects,
	SectionPersonalInfo,
	SectionGeneral,
}

// Valid reports whether s is one of Sections.
func (s Section) Valid() bool {
	for _, v := range Sections {
		if s == v {
			return true
		}
	}
	return false
}

// ParseSection maps free text to a Section, falling back to SectionGeneral.
func ParseSection(s string) Section {
	section := Section(strings.ToLower(strings.TrimSpace(s)))
	if section.Valid() {
		return section
	}
	return SectionGeneral
}

// Source records who produced a suggestion.
type Source string

// Suggestion sources.
const (
	SourceRuleBased Source = "rule-based"
	SourceModel     Source = "model"
)

// Suggestion is a single actionable recommendation.
type Suggestion struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	SuggestionText string  `json:"suggestion_text"`
	Section        Section `json:"section"`
	Source         Source  `json:"source"`
}
