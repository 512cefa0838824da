package rendering

import (
	"strings"

	"github.com/jonathan/cv-enhancer/internal/cv"
)

// DefaultName is printed when the CV has no name.
const DefaultName = "Your Name"

// SkillSeparator joins skills on one line.
const SkillSeparator = " · "

// Document is the escaped template input. Every string field is safe to place in LaTeX.
type Document struct {
	Theme          Theme
	Color          string
	Labels         Labels
	Name           string
	Headline       string
	Contacts       []string
	Summary        string
	Experience     []Entry
	Education      []Entry
	Skills         []string
	Languages      []Entry
	Certifications []Entry
	Projects       []Entry
	Interests      string
}

// Entry is one dated item of a section.
type Entry struct {
	Title    string
	Subtitle string
	Location string
	Dates    string
	Details  string
	Bullets  []string
}

// BuildDocument maps a canonical CV onto the template input.
func BuildDocument(c cv.Canonical, theme Theme, color string, labels Labels) Document {
	name := c.Name()
	if name == "" {
		name = DefaultName
	}
	doc := Document{
		Theme:    theme,
		Color:    color,
		Labels:   labels,
		Name:     EscapeLaTeX(name),
		Headline: EscapeLaTeX(c.JobTitle()),
		Summary:  EscapeLaTeX(strings.TrimSpace(c.Summary)),
	}

	for _, key := range []string{cv.KeyEmail, cv.KeyPhone, cv.KeyLocation, cv.KeyLinkedIn, cv.KeyWebsite} {
		if v := cv.Field(c.PersonalInfo, key); v != "" {
			doc.Contacts = append(doc.Contacts, EscapeLaTeX(v))
		}
	}

	for _, e := range cv.MapEntries(c.Experience) {
		end := cv.Field(e, "endDate", "end_date")
		if isCurrent(e) {
			end = labels.Present
		}
		entry := Entry{
			Title:    EscapeLaTeX(cv.Field(e, "role", "position", "job_title")),
			Subtitle: EscapeLaTeX(cv.Field(e, "company", "company_name")),
			Location: EscapeLaTeX(cv.Field(e, "location")),
			Dates:    dateRange(cv.Field(e, "startDate", "start_date"), end),
		}
		for _, line := range bulletLines(cv.Field(e, "description")) {
			entry.Bullets = append(entry.Bullets, EscapeLaTeX(line))
		}
		doc.Experience = append(doc.Experience, entry)
	}

	for _, e := range cv.MapEntries(c.Education) {
		degree := cv.Field(e, "degree")
		if field := cv.Field(e, "field", "field_of_study"); field != "" {
			if degree != "" {
				degree += " – "
			}
			degree += field
		}
		entry := Entry{
			Title:    EscapeLaTeX(degree),
			Subtitle: EscapeLaTeX(cv.Field(e, "institution", "institution_name")),
			Location: EscapeLaTeX(cv.Field(e, "location")),
			Dates:    dateRange(cv.Field(e, "startDate", "start_date"), cv.Field(e, "endDate", "end_date")),
			Details:  EscapeLaTeX(cv.Field(e, "grade")),
		}
		doc.Education = append(doc.Education, entry)
	}

	for _, line := range SkillLines(c.Skills) {
		doc.Skills = append(doc.Skills, EscapeLaTeX(line))
	}

	for _, item := range c.Languages {
		switch v := item.(type) {
		case map[string]any:
			doc.Languages = append(doc.Languages, Entry{
				Title:    EscapeLaTeX(cv.Field(v, "language", "name")),
				Subtitle: EscapeLaTeX(cv.Field(v, "proficiency", "level")),
			})
		case string:
			if strings.TrimSpace(v) != "" {
				doc.Languages = append(doc.Languages, Entry{Title: EscapeLaTeX(strings.TrimSpace(v))})
			}
		}
	}

	for _, e := range cv.MapEntries(c.Certifications) {
		doc.Certifications = append(doc.Certifications, Entry{
			Title:    EscapeLaTeX(cv.Field(e, "name")),
			Subtitle: EscapeLaTeX(cv.Field(e, "issuer")),
			Dates:    EscapeLaTeX(cv.Field(e, "issueDate", "date")),
		})
	}

	for _, e := range cv.MapEntries(c.Projects) {
		doc.Projects = append(doc.Projects, Entry{
			Title:    EscapeLaTeX(cv.Field(e, "name", "title")),
			Subtitle: EscapeLaTeX(cv.Field(e, "url", "link")),
			Details:  EscapeLaTeX(cv.Field(e, "description")),
		})
	}

	var interests []string
	for _, item := range c.Interests {
		var s string
		switch v := item.(type) {
		case string:
			s = strings.TrimSpace(v)
		case map[string]any:
			s = cv.Field(v, "name", "interest")
		}
		if s != "" {
			interests = append(interests, s)
		}
	}
	doc.Interests = EscapeLaTeX(strings.Join(interests, SkillSeparator))
	return doc
}

// SkillLines renders skills one group per line: "Category: a · b", or just "a · b" for an
// uncategorized list.
func SkillLines(skills any) []string {
	var lines []string
	for _, g := range cv.SkillGroups(skills) {
		line := strings.Join(g.Items, SkillSeparator)
		if g.Category != "" {
			line = g.Category + ": " + line
		}
		lines = append(lines, line)
	}
	return lines
}

func isCurrent(e map[string]any) bool {
	switch v := e["current"].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

func dateRange(start, end string) string {
	start, end = EscapeLaTeX(start), EscapeLaTeX(end)
	switch {
	case start != "" && end != "":
		return start + " -- " + end
	case start != "":
		return start
	default:
		return end
	}
}
