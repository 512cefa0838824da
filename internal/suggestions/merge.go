package suggestions

// DefaultMaxExtras caps the rule-based suggestions appended to a model list.
const DefaultMaxExtras = 2

// Merge combines model and rule-based suggestions. With no model suggestions the rule list is
// returned as is. Otherwise the model list comes first, followed by at most maxExtras rule
// suggestions whose section the model did not cover.
func Merge(model, ruleBased []Suggestion, maxExtras int) []Suggestion {
	if len(model) == 0 {
		return append([]Suggestion{}, ruleBased...)
	}

	covered := make(map[Section]bool, len(model))
	for _, s := range model {
		covered[s.Section] = true
	}

	out := append(make([]Suggestion, 0, len(model)+maxExtras), model...)
	added := 0
	for _, s := range ruleBased {
		if added >= maxExtras {
			break
		}
		if covered[s.Section] {
			continue
		}
		out = append(out, s)
		added++
	}
	return out
}
