package cv

import (
	"sort"
	"strings"
)

// Bullet is the marker prepended to synthesized description lines.
const Bullet = "• "

var bulletMarkers = []string{"•", "-", "*", "–", "▪"}

// JoinBullets joins lines into one description, prefixing each non-empty line with a bullet
// unless it already starts with one.
func JoinBullets(lines []string) string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !hasBullet(line) {
			line = Bullet + line
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func hasBullet(line string) bool {
	for _, m := range bulletMarkers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}

// SkillGroup is a named list of skills. Flat skill lists produce one group with no category.
type SkillGroup struct {
	Category string
	Items    []string
}

// SkillGroups accepts a list of strings, a list of {name} mappings, or a mapping from
// category to either of those, and returns the skills grouped by category.
// Categories are sorted for a stable order.
func SkillGroups(skills any) []SkillGroup {
	switch val := skills.(type) {
	case []any:
		if items := skillNames(val); len(items) > 0 {
			return []SkillGroup{{Items: items}}
		}
	case []string:
		if items := skillNames(toAny(val)); len(items) > 0 {
			return []SkillGroup{{Items: items}}
		}
	case map[string]any:
		categories := make([]string, 0, len(val))
		for k := range val {
			categories = append(categories, k)
		}
		sort.Strings(categories)

		var groups []SkillGroup
		for _, cat := range categories {
			var items []string
			switch inner := val[cat].(type) {
			case []any:
				items = skillNames(inner)
			case []string:
				items = skillNames(toAny(inner))
			case string:
				items = splitList(inner)
			}
			if len(items) > 0 {
				groups = append(groups, SkillGroup{Category: cat, Items: items})
			}
		}
		return groups
	}
	return nil
}

// FlattenSkills returns every skill name regardless of the stored shape.
func FlattenSkills(skills any) []string {
	var out []string
	for _, g := range SkillGroups(skills) {
		out = append(out, g.Items...)
	}
	return out
}

func skillNames(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		var name string
		if m, ok := item.(map[string]any); ok {
			name = Field(m, "name", "skill")
		} else {
			name = stringify(item)
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toAny(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

// nonTextKeys hold contact details and references that carry no CV vocabulary.
var nonTextKeys = map[string]bool{
	"photo": true, "photo_path": true, "url": true, "link": true, "credential_url": true,
	"email": true, "phone": true, "linkedin": true, "linkedin_url": true, "website": true,
}

// Text assembles the CV's free text for keyword extraction: headline, summary, every textual
// section value and the flattened skills.
func (c Canonical) Text() string {
	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	add(c.Name())
	add(c.JobTitle())
	add(Field(c.PersonalInfo, KeyLocation))
	add(c.Summary)
	for _, section := range [][]any{c.Experience, c.Education, c.Certifications, c.Languages, c.Projects, c.Interests} {
		for _, item := range section {
			collectText(item, add)
		}
	}
	for _, s := range FlattenSkills(c.Skills) {
		add(s)
	}
	return strings.Join(parts, "\n")
}

func collectText(v any, add func(string)) {
	switch val := v.(type) {
	case string:
		add(val)
	case []any:
		for _, item := range val {
			collectText(item, add)
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			if !nonTextKeys[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectText(val[k], add)
		}
	}
}
