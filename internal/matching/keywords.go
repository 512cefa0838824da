// Package matching extracts keywords from free text and scores how well a CV covers a job
// description.
package matching

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultTechTerms is the allow-list checked before general tokenization. Hits are always kept,
// even when shorter than the general minimum length.
var DefaultTechTerms = []string{
	"sql", "api", "rest", "aws", "gcp", "azure", "ci", "cd", "devops", "docker", "kubernetes",
	"git", "linux", "python", "java", "javascript", "typescript", "react", "vue", "angular",
	"node", "fastapi", "django", "flask", "spring", "microservices", "nosql", "mongodb",
	"postgresql", "redis", "kafka", "rabbitmq", "terraform", "ansible", "nginx", "graphql",
}

// DefaultStopWords are dropped from general tokenization.
var DefaultStopWords = []string{
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can", "her", "was", "our",
	"one", "had", "his", "him", "has", "how", "its", "man", "new", "now", "old", "see", "two",
	"way", "who", "boy", "did", "let", "put", "say", "she", "too", "use", "will", "with",
	"that", "this", "have", "from", "they", "know", "want", "been", "good", "much", "some",
	"time", "very", "when", "come", "here", "just", "like", "long", "make", "many", "over",
	"such", "take", "than", "then", "them", "well", "were", "what", "your", "about", "could",
	"would", "there", "their", "these", "other", "after", "first", "those", "which", "should",
	"where", "being", "every", "under", "never", "before", "through", "between", "including",
	"must", "strong", "work", "team", "role", "company", "position", "experience", "skills",
	"able", "within", "across", "ensure", "using", "basis", "looking", "join", "opportunity",
	"please", "apply", "send", "cv", "resume", "also", "both", "into", "only", "each",
	"degree", "bachelor", "master", "phd", "years", "year", "minimum", "required", "preferred",
	"plus", "bonus", "benefits", "salary", "equal", "employer", "hiring",
}

// tokenPattern captures words that start with a letter and may contain '#', '+', '.', '/' and
// '-'. A token ends in a letter, digit, '+' or '#', so "C++" survives while trailing
// punctuation such as the period in "pipelines." is dropped.
var tokenPattern = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9#+./\-]*[a-zA-Z0-9+#]`)

// General tokens are kept when their length is within these bounds.
const (
	minTokenLength = 3
	maxTokenLength = 25
)

// Config holds the vocabulary used for extraction.
type Config struct {
	TechTerms []string
	StopWords []string
}

// DefaultConfig returns the built-in allow-list and stop words.
func DefaultConfig() Config {
	return Config{
		TechTerms: append([]string(nil), DefaultTechTerms...),
		StopWords: append([]string(nil), DefaultStopWords...),
	}
}

type techTerm struct {
	term    string
	pattern *regexp.Regexp
}

// Extractor turns text into an ordered, case-insensitively de-duplicated keyword list.
// It is safe for concurrent use.
type Extractor struct {
	terms     []techTerm
	stopWords map[string]bool
}

// NewExtractor compiles the allow-list patterns for cfg.
func NewExtractor(cfg Config) *Extractor {
	e := &Extractor{stopWords: make(map[string]bool, len(cfg.StopWords))}
	for _, t := range cfg.TechTerms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		e.terms = append(e.terms, techTerm{
			term:    t,
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t) + `\b`),
		})
	}
	for _, w := range cfg.StopWords {
		e.stopWords[strings.ToLower(w)] = true
	}
	return e
}

// Extract returns allow-list hits first, in allow-list order, followed by the remaining tokens
// in order of first occurrence. Each keyword keeps the casing of its first occurrence in text.
func (e *Extractor) Extract(text string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, t := range e.terms {
		if seen[t.term] {
			continue
		}
		if hit := t.pattern.FindString(text); hit != "" {
			seen[t.term] = true
			out = append(out, hit)
		}
	}

	for _, w := range tokenPattern.FindAllString(text, -1) {
		lower := strings.ToLower(w)
		if len(w) < minTokenLength || len(w) > maxTokenLength || e.stopWords[lower] || isNumeric(w) || seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, w)
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
