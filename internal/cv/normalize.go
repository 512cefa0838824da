// Package cv reconciles the stored CV shapes (flat columns, nested personal info, legacy and
// presentation key spellings) into one canonical document.
package cv

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a CV as persisted: flat identity columns next to loosely typed JSON sections.
type Record struct {
	FullName       string         `json:"full_name"`
	Title          string         `json:"title"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Location       string         `json:"location"`
	LinkedInURL    string         `json:"linkedin_url"`
	ProfileSummary string         `json:"profile_summary"`
	PhotoPath      string         `json:"photo_path"`
	PersonalInfo   map[string]any `json:"personal_info"`
	Experiences    []any          `json:"experiences"`
	Educations     []any          `json:"educations"`
	Projects       []any          `json:"projects"`
	Skills         any            `json:"skills"`
	Languages      []any          `json:"languages"`
	Certifications []any          `json:"certifications"`
	Interests      []any          `json:"interests"`
}

// Canonical is the normalized CV. Every identity key is present in PersonalInfo as a string
// (possibly empty) and every section is a non-nil slice.
type Canonical struct {
	PersonalInfo   map[string]any `json:"personal_info"`
	Summary        string         `json:"summary"`
	Experience     []any          `json:"experience"`
	Education      []any          `json:"education"`
	Skills         any            `json:"skills"`
	Certifications []any          `json:"certifications"`
	Languages      []any          `json:"languages"`
	Projects       []any          `json:"projects"`
	Interests      []any          `json:"interests"`
}

// Canonical identity keys.
const (
	KeyName     = "name"
	KeyJobTitle = "jobTitle"
	KeyEmail    = "email"
	KeyPhone    = "phone"
	KeyLocation = "location"
	KeyLinkedIn = "linkedin"
	KeyWebsite  = "website"
	KeyPhoto    = "photo"
)

type identityField struct {
	key    string
	nested []string
	column func(Record) string
}

// identityFields lists the canonical identity keys, the nested legacy spellings that may carry
// them, and the flat column used as a back-fill.
var identityFields = []identityField{
	{key: KeyName, nested: []string{"full_name"}, column: func(r Record) string { return r.FullName }},
	{key: KeyJobTitle, nested: []string{"title", "job_title"}, column: func(r Record) string { return r.Title }},
	{key: KeyEmail, column: func(r Record) string { return r.Email }},
	{key: KeyPhone, column: func(r Record) string { return r.Phone }},
	{key: KeyLocation, column: func(r Record) string { return r.Location }},
	{key: KeyLinkedIn, nested: []string{"linkedin_url"}, column: func(r Record) string { return r.LinkedInURL }},
	{key: KeyWebsite, nested: []string{"url"}, column: func(Record) string { return "" }},
	{key: KeyPhoto, nested: []string{"photo_path", "photoUrl"}, column: func(r Record) string { return r.PhotoPath }},
}

// Normalize builds the canonical CV from a stored record. It never fails: entries of unknown
// shape are copied through unchanged. The input is not modified.
func Normalize(r Record) Canonical {
	pi := cloneMap(r.PersonalInfo)
	if pi == nil {
		pi = map[string]any{}
	}
	for _, f := range identityFields {
		pi[f.key] = mergeIdentity(pi, f, r)
	}

	summary := Field(pi, "summary")
	if summary == "" {
		summary = r.ProfileSummary
	}

	return Canonical{
		PersonalInfo:   pi,
		Summary:        summary,
		Experience:     normalizeEntries(r.Experiences, normalizeExperience),
		Education:      normalizeEntries(r.Educations, EducationAliases.Apply),
		Skills:         normalizeSkills(r.Skills),
		Certifications: normalizeEntries(r.Certifications, CertificationAliases.Apply),
		Languages:      normalizeEntries(r.Languages, LanguageAliases.Apply),
		Projects:       normalizeEntries(r.Projects, ProjectAliases.Apply),
		Interests:      normalizeEntries(r.Interests, nil),
	}
}

// Record converts the canonical CV back to the stored shape so it can be persisted or
// normalized again.
func (c Canonical) Record() Record {
	pi := cloneMap(c.PersonalInfo)
	return Record{
		FullName:       Field(pi, KeyName),
		Title:          Field(pi, KeyJobTitle),
		Email:          Field(pi, KeyEmail),
		Phone:          Field(pi, KeyPhone),
		Location:       Field(pi, KeyLocation),
		LinkedInURL:    Field(pi, KeyLinkedIn),
		ProfileSummary: c.Summary,
		PhotoPath:      Field(pi, KeyPhoto),
		PersonalInfo:   pi,
		Experiences:    cloneSlice(c.Experience),
		Educations:     cloneSlice(c.Education),
		Projects:       cloneSlice(c.Projects),
		Skills:         cloneValue(c.Skills),
		Languages:      cloneSlice(c.Languages),
		Certifications: cloneSlice(c.Certifications),
		Interests:      cloneSlice(c.Interests),
	}
}

// Name returns the candidate name.
func (c Canonical) Name() string { return Field(c.PersonalInfo, KeyName) }

// JobTitle returns the candidate headline.
func (c Canonical) JobTitle() string { return Field(c.PersonalInfo, KeyJobTitle) }

// Photo returns the profile photo reference.
func (c Canonical) Photo() string { return Field(c.PersonalInfo, KeyPhoto) }

// HasSummary reports whether a profile summary is present.
func (c Canonical) HasSummary() bool { return strings.TrimSpace(c.Summary) != "" }

// mergeIdentity applies the nested-wins policy for one identity key. Nested scalars are
// returned as strings; values that have no string form fall through to the next source.
func mergeIdentity(pi map[string]any, f identityField, r Record) any {
	keys := append([]string{f.key}, f.nested...)
	for _, k := range keys {
		v, ok := pi[k]
		if !ok || IsEmpty(v) {
			continue
		}
		if s, isString := v.(string); isString {
			return s
		}
		if s := stringify(v); s != "" {
			return s
		}
	}
	return f.column(r)
}

func normalizeEntries(items []any, fn func(map[string]any)) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			out = append(out, cloneValue(item))
			continue
		}
		entry := cloneMap(m)
		if fn != nil {
			fn(entry)
		}
		out = append(out, entry)
	}
	return out
}

func normalizeExperience(entry map[string]any) {
	ExperienceAliases.Apply(entry)

	switch desc := entry["description"].(type) {
	case []any:
		entry["description"] = JoinBullets(toStrings(desc))
	case []string:
		entry["description"] = JoinBullets(desc)
	}
	if !IsEmpty(entry["description"]) {
		return
	}
	switch resp := entry["responsibilities"].(type) {
	case []any:
		if lines := toStrings(resp); len(lines) > 0 {
			entry["description"] = JoinBullets(lines)
		}
	case string:
		if strings.TrimSpace(resp) != "" {
			entry["description"] = JoinBullets(strings.Split(resp, "\n"))
		}
	}
}

func normalizeSkills(skills any) any {
	if skills == nil {
		return []any{}
	}
	return cloneValue(skills)
}

// Field returns the first non-empty value among keys, rendered as a string.
func Field(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringify(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// MapEntries returns the mapping entries of a section, skipping items of other shapes.
func MapEntries(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return ""
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

func toStrings(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := stringify(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		return cloneSlice(val)
	case []string:
		return append([]string(nil), val...)
	default:
		return val
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = cloneValue(v)
	}
	return out
}
