package suggestions

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/cv-enhancer/internal/llm"
	"github.com/jonathan/cv-enhancer/internal/schemas"
)

var (
	errNoArray      = errors.New("response contains no JSON array")
	errNoValidEntry = errors.New("response contains no valid suggestion")
)

// ParseModelSuggestions extracts the first well-formed JSON array from a model response and keeps
// the entries that carry a non-empty title, description and suggestion. Unknown or missing
// sections become SectionGeneral.
func ParseModelSuggestions(raw string) ([]Suggestion, error) {
	array := llm.FirstJSONArray(raw)
	if array == "" {
		return nil, errNoArray
	}

	var entries []any
	if err := json.Unmarshal([]byte(array), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}

	out := make([]Suggestion, 0, len(entries))
	for _, entry := range entries {
		if schemas.ValidateValue(schemas.Suggestion, entry) != nil {
			continue
		}
		m := entry.(map[string]any)
		section, _ := m["section"].(string)
		out = append(out, Suggestion{
			Title:          strings.TrimSpace(m["title"].(string)),
			Description:    strings.TrimSpace(m["description"].(string)),
			SuggestionText: strings.TrimSpace(m["suggestion"].(string)),
			Section:        ParseSection(section),
			Source:         SourceModel,
		})
	}

	if len(out) == 0 {
		return nil, errNoValidEntry
	}
	return out, nil
}
