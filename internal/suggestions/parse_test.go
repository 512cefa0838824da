package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelSuggestions(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      []Suggestion
		wantError bool
	}{
		{
			name: "array surrounded by prose",
			raw: `Here you go:
[{"title": "Lead with Kafka", "description": "The role is event driven.", "suggestion": "Mention the Kafka pipeline.", "section": "experience"}]
Good luck!`,
			want: []Suggestion{
				{Title: "Lead with Kafka", Description: "The role is event driven.", SuggestionText: "Mention the Kafka pipeline.", Section: SectionExperience, Source: SourceModel},
			},
		},
		{
			name: "unknown and missing sections become general",
			raw: `[
				{"title": "A", "description": "B", "suggestion": "C", "section": "hobbies"},
				{"title": "D", "description": "E", "suggestion": "F"},
				{"title": "G", "description": "H", "suggestion": "I", "section": 7}
			]`,
			want: []Suggestion{
				{Title: "A", Description: "B", SuggestionText: "C", Section: SectionGeneral, Source: SourceModel},
				{Title: "D", Description: "E", SuggestionText: "F", Section: SectionGeneral, Source: SourceModel},
				{Title: "G", Description: "H", SuggestionText: "I", Section: SectionGeneral, Source: SourceModel},
			},
		},
		{
			name: "section casing is normalized",
			raw:  `[{"title": "A", "description": "B", "suggestion": "C", "section": " Personal-Info "}]`,
			want: []Suggestion{
				{Title: "A", Description: "B", SuggestionText: "C", Section: SectionPersonalInfo, Source: SourceModel},
			},
		},
		{
			name: "invalid entries are dropped",
			raw: `[
				{"title": "Keep", "description": "d", "suggestion": "s", "section": "skills"},
				{"title": "No suggestion", "description": "d"},
				{"title": "", "description": "d", "suggestion": "s"},
				"plain string",
				{"title": 1, "description": "d", "suggestion": "s"}
			]`,
			want: []Suggestion{
				{Title: "Keep", Description: "d", SuggestionText: "s", Section: SectionSkills, Source: SourceModel},
			},
		},
		{
			name:      "no array",
			raw:       "Sorry, I cannot help with that.",
			wantError: true,
		},
		{
			name:      "array without valid entries",
			raw:       `[{"title": "only a title"}]`,
			wantError: true,
		},
		{
			name:      "empty array",
			raw:       `[]`,
			wantError: true,
		},
		{
			name:      "truncated response",
			raw:       `[{"title": "A", "description": "B", "suggestion": "C"`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModelSuggestions(tt.raw)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSection(t *testing.T) {
	for _, s := range Sections {
		assert.Equal(t, s, ParseSection(string(s)))
	}
	assert.Equal(t, SectionGeneral, ParseSection(""))
	assert.Equal(t, SectionGeneral, ParseSection("personalInfo"))
	assert.Equal(t, SectionSkills, ParseSection("SKILLS"))
}
