package rendering

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-enhancer/internal/cv"
)

// Language selects the section labels of an export.
type Language string

// Supported languages. LanguageAuto picks German or English from the CV text.
const (
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
	LanguageAuto    Language = "auto"
)

// Labels are the section headings and the word used for an open-ended date range.
type Labels struct {
	Summary        string
	Experience     string
	Education      string
	Skills         string
	Certifications string
	Languages      string
	Projects       string
	Interests      string
	Present        string
}

// EnglishLabels and GermanLabels are the built-in label sets.
var (
	EnglishLabels = Labels{
		Summary:        "Profile",
		Experience:     "Professional Experience",
		Education:      "Education",
		Skills:         "Skills",
		Certifications: "Certifications",
		Languages:      "Languages",
		Projects:       "Projects",
		Interests:      "Interests",
		Present:        "Present",
	}
	GermanLabels = Labels{
		Summary:        "Profil",
		Experience:     "Berufserfahrung",
		Education:      "Bildung",
		Skills:         "Fähigkeiten",
		Certifications: "Zertifikate",
		Languages:      "Sprachen",
		Projects:       "Projekte",
		Interests:      "Interessen",
		Present:        "Heute",
	}
)

// germanMarkers are words and stems that rarely occur in English CV text.
var germanMarkers = []string{
	"erfahrung", "kenntnisse", "fähigkeiten", "verantwortlich",
	"unternehmen", "tätigkeiten", "entwicklung", "aufgaben",
	"bereich", "mittels", "wurden", "wurde", "habe", "haben",
	"leitung", "planung", "umsetzung", "werkzeug", "arbeit",
	"datenbankadministrator", "softwareentwickler", "ingenieur",
}

// MinGermanMarkers is how many distinct markers make a CV German.
const MinGermanMarkers = 2

// ParseLanguage accepts "en", "de", "auto" or "" (auto).
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", LanguageAuto:
		return LanguageAuto, nil
	case LanguageEnglish:
		return LanguageEnglish, nil
	case LanguageGerman:
		return LanguageGerman, nil
	}
	return "", &OptionError{Option: "language", Value: s}
}

// Resolve turns LanguageAuto into a concrete language for c.
func (l Language) Resolve(c cv.Canonical) Language {
	if l != LanguageAuto {
		return l
	}
	if IsGerman(c) {
		return LanguageGerman
	}
	return LanguageEnglish
}

// Labels returns the label set of a concrete language.
func (l Language) Labels() Labels {
	if l == LanguageGerman {
		return GermanLabels
	}
	return EnglishLabels
}

// IsGerman samples the headline, the start of the summary and the first two experience
// descriptions and reports whether enough German markers occur in them.
func IsGerman(c cv.Canonical) bool {
	var sb strings.Builder
	sb.WriteString(c.JobTitle())
	sb.WriteString(" ")
	sb.WriteString(prefix(c.Summary, 400))
	entries := cv.MapEntries(c.Experience)
	for i := 0; i < len(entries) && i < 2; i++ {
		sb.WriteString(" ")
		sb.WriteString(prefix(cv.Field(entries[i], "description"), 200))
	}
	sample := strings.ToLower(sb.String())

	found := 0
	for _, marker := range germanMarkers {
		if strings.Contains(sample, marker) {
			found++
		}
	}
	return found >= MinGermanMarkers
}

func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
