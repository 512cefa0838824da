package matching

import "strings"

// Result is the outcome of comparing CV keywords against job keywords.
// Matched and Missing partition the de-duplicated job keywords and keep their order.
type Result struct {
	Score   int      `json:"score"`
	Matched []string `json:"matched_keywords"`
	Missing []string `json:"missing_keywords"`
}

// Score computes the share of job keywords found among the CV keywords, compared
// case-insensitively. The score is truncated, not rounded, and never exceeds 100.
// An empty job keyword list yields a zero score and empty lists.
func Score(cvKeywords, jobKeywords []string) Result {
	res := Result{Matched: []string{}, Missing: []string{}}

	job := Dedup(jobKeywords)
	if len(job) == 0 {
		return res
	}

	have := make(map[string]bool, len(cvKeywords))
	for _, k := range cvKeywords {
		have[strings.ToLower(k)] = true
	}

	for _, k := range job {
		if have[strings.ToLower(k)] {
			res.Matched = append(res.Matched, k)
		} else {
			res.Missing = append(res.Missing, k)
		}
	}

	res.Score = min(100, 100*len(res.Matched)/len(job))
	return res
}

// Dedup removes case-insensitive duplicates, keeping the first occurrence.
func Dedup(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		lower := strings.ToLower(k)
		if k == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, k)
	}
	return out
}

// Truncate returns at most n leading keywords.
func Truncate(keywords []string, n int) []string {
	if len(keywords) <= n {
		return keywords
	}
	return keywords[:n]
}
