package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name            string
		cv              []string
		job             []string
		expectedScore   int
		expectedMatched []string
		expectedMissing []string
	}{
		{
			name:            "empty job keywords",
			cv:              []string{"python"},
			job:             nil,
			expectedScore:   0,
			expectedMatched: []string{},
			expectedMissing: []string{},
		},
		{
			name:            "partial match truncates",
			cv:              []string{"python", "docker"},
			job:             []string{"Python", "AWS", "Docker"},
			expectedScore:   66,
			expectedMatched: []string{"Python", "Docker"},
			expectedMissing: []string{"AWS"},
		},
		{
			name:            "full match",
			cv:              []string{"GO", "sql"},
			job:             []string{"go", "SQL"},
			expectedScore:   100,
			expectedMatched: []string{"go", "SQL"},
			expectedMissing: []string{},
		},
		{
			name:            "no overlap",
			cv:              nil,
			job:             []string{"Kafka"},
			expectedScore:   0,
			expectedMatched: []string{},
			expectedMissing: []string{"Kafka"},
		},
		{
			name:            "duplicate job keywords counted once",
			cv:              []string{"redis"},
			job:             []string{"Redis", "redis", "Kafka"},
			expectedScore:   50,
			expectedMatched: []string{"Redis"},
			expectedMissing: []string{"Kafka"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(tt.cv, tt.job)
			assert.Equal(t, tt.expectedScore, res.Score)
			assert.Equal(t, tt.expectedMatched, res.Matched)
			assert.Equal(t, tt.expectedMissing, res.Missing)
		})
	}
}

func TestScore_EmptyJobDescription(t *testing.T) {
	e := NewExtractor(DefaultConfig())
	res := Score(e.Extract("Python AWS Docker"), e.Extract(""))

	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Matched)
	assert.Empty(t, res.Missing)
}

func TestScore_PartitionAndBounds(t *testing.T) {
	cases := []struct {
		cv  []string
		job []string
	}{
		{cv: []string{"a1", "b2"}, job: []string{"A1", "c3", "B2", "c3", "d4"}},
		{cv: nil, job: []string{"x", "y"}},
		{cv: []string{"x", "y", "z"}, job: []string{"Z", "z", "X"}},
		{cv: []string{"only"}, job: nil},
	}

	for _, c := range cases {
		res := Score(c.cv, c.job)
		job := Dedup(c.job)

		assert.GreaterOrEqual(t, res.Score, 0)
		assert.LessOrEqual(t, res.Score, 100)
		assert.Equal(t, len(job), len(res.Matched)+len(res.Missing))

		inMatched := map[string]bool{}
		for _, k := range res.Matched {
			inMatched[strings.ToLower(k)] = true
		}
		for _, k := range res.Missing {
			assert.False(t, inMatched[strings.ToLower(k)], "keyword %q in both lists", k)
		}

		union := map[string]bool{}
		for _, k := range append(append([]string{}, res.Matched...), res.Missing...) {
			union[strings.ToLower(k)] = true
		}
		for _, k := range job {
			assert.True(t, union[strings.ToLower(k)], "keyword %q lost", k)
		}
	}
}

func TestScore_Monotonic(t *testing.T) {
	cv := []string{"go", "sql", "docker"}
	job := []string{"Go", "Kafka", "Rust"}

	before := Score(cv, job).Score
	for _, extra := range []string{"SQL", "docker"} {
		job = append(job, extra)
		after := Score(cv, job).Score
		assert.GreaterOrEqual(t, after, before)
		before = after
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Truncate([]string{"a", "b", "c"}, 2))
	assert.Equal(t, []string{"a"}, Truncate([]string{"a"}, 20))
}
