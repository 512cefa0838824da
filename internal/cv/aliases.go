package cv

import "strings"

// Alias derives Key from the first non-empty Source when Key is absent or empty.
// An existing non-empty value is never overwritten.
type Alias struct {
	Key     string
	Sources []string
}

// AliasTable is an ordered list of aliases applied to one kind of section entry.
// Order matters: later aliases see keys synthesized by earlier ones.
type AliasTable []Alias

// ExperienceAliases reconcile legacy snake_case experience keys with the presentation keys.
var ExperienceAliases = AliasTable{
	{Key: "role", Sources: []string{"job_title", "position", "title"}},
	{Key: "position", Sources: []string{"role", "job_title"}},
	{Key: "job_title", Sources: []string{"role", "position"}},
	{Key: "company", Sources: []string{"company_name", "employer", "organization"}},
	{Key: "company_name", Sources: []string{"company"}},
	{Key: "startDate", Sources: []string{"start_date", "start_year"}},
	{Key: "start_date", Sources: []string{"startDate", "start_year"}},
	{Key: "endDate", Sources: []string{"end_date", "end_year"}},
	{Key: "end_date", Sources: []string{"endDate", "end_year"}},
	{Key: "current", Sources: []string{"is_current"}},
}

// EducationAliases reconcile education entry keys.
var EducationAliases = AliasTable{
	{Key: "institution", Sources: []string{"institution_name", "school", "university"}},
	{Key: "institution_name", Sources: []string{"institution"}},
	{Key: "field", Sources: []string{"field_of_study", "major"}},
	{Key: "field_of_study", Sources: []string{"field"}},
	{Key: "startDate", Sources: []string{"start_date", "start_year"}},
	{Key: "start_date", Sources: []string{"startDate", "start_year"}},
	{Key: "endDate", Sources: []string{"end_date", "end_year"}},
	{Key: "end_date", Sources: []string{"endDate", "end_year"}},
}

// CertificationAliases reconcile certification entry keys.
var CertificationAliases = AliasTable{
	{Key: "name", Sources: []string{"title", "certification"}},
	{Key: "issueDate", Sources: []string{"issue_date", "date"}},
	{Key: "issue_date", Sources: []string{"issueDate", "date"}},
	{Key: "date", Sources: []string{"issue_date", "issueDate"}},
	{Key: "expiryDate", Sources: []string{"expiry_date"}},
	{Key: "expiry_date", Sources: []string{"expiryDate"}},
	{Key: "url", Sources: []string{"credential_url", "link"}},
	{Key: "credential_url", Sources: []string{"url"}},
}

// ProjectAliases keep link and url equal when either is supplied.
var ProjectAliases = AliasTable{
	{Key: "url", Sources: []string{"link"}},
	{Key: "link", Sources: []string{"url"}},
}

// LanguageAliases reconcile language entry keys.
var LanguageAliases = AliasTable{
	{Key: "language", Sources: []string{"name"}},
	{Key: "proficiency", Sources: []string{"level"}},
	{Key: "level", Sources: []string{"proficiency"}},
}

// EnsureAlias populates a.Key in entry from its sources. It reports whether the entry changed.
func EnsureAlias(entry map[string]any, a Alias) bool {
	if !IsEmpty(entry[a.Key]) {
		return false
	}
	for _, src := range a.Sources {
		if v, ok := entry[src]; ok && !IsEmpty(v) {
			entry[a.Key] = v
			return true
		}
	}
	return false
}

// Apply runs every alias of the table against entry in order.
func (t AliasTable) Apply(entry map[string]any) {
	for _, a := range t {
		EnsureAlias(entry, a)
	}
}

// IsEmpty reports whether v carries no usable value.
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
