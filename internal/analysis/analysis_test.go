package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/llm"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (c *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.response, c.err
}

func (c *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return c.GenerateContent(ctx, prompt, tier)
}

func (c *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (c *fakeClient) Close() error { return nil }

func sampleCV() cv.Canonical {
	return cv.Normalize(cv.Record{
		FullName: "Jane Doe",
		Skills:   []any{"Go", "SQL", "Docker"},
		Experiences: []any{
			map[string]any{"position": "Backend Developer", "company_name": "Acme", "start_date": "2020", "description": "Built APIs"},
			map[string]any{"role": "Intern", "company": "Initech", "startDate": "2019", "endDate": "2020", "description": "Wrote tests"},
		},
		Educations: []any{map[string]any{"degree": "BSc", "institution": "TU Berlin"}},
	})
}

func TestReviewSummary(t *testing.T) {
	summary := ReviewSummary(sampleCV())

	assert.Contains(t, summary, "Name: Jane Doe")
	assert.Contains(t, summary, "Skills: Go, SQL, Docker")
	assert.Contains(t, summary, "Experience: 2 positions")
	assert.Contains(t, summary, "Education: 1 degrees")
}

func TestReviewSummary_Defaults(t *testing.T) {
	skills := make([]any, 0, 12)
	for i := 0; i < 12; i++ {
		skills = append(skills, string(rune('a'+i)))
	}
	summary := ReviewSummary(cv.Normalize(cv.Record{Skills: skills}))

	assert.Contains(t, summary, "Name: Not provided")
	assert.Contains(t, summary, "Skills: a, b, c, d, e, f, g, h, i, j\n")
	assert.Contains(t, summary, "Experience: 0 positions")
}

func TestReview_Success(t *testing.T) {
	client := &fakeClient{response: "```json\n{\"strengths\": [\"Clear history\", \" \"], \"improvements\": [\"Add metrics\"], \"score\": 81.6}\n```"}
	svc := NewService(client, time.Second, nil)

	result := svc.Review(context.Background(), sampleCV())

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, []string{"Clear history"}, result.Analysis.Strengths)
	assert.Equal(t, []string{"Add metrics"}, result.Analysis.Improvements)
	assert.Equal(t, 82, result.Analysis.Score)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Name: Jane Doe")
}

func TestReview_ParseError(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "This CV looks great!"},
		{name: "missing score", response: `{"strengths": [], "improvements": []}`},
		{name: "score out of range", response: `{"strengths": [], "improvements": [], "score": 140}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeClient{response: tt.response}, time.Second, nil)

			result := svc.Review(context.Background(), sampleCV())

			assert.Equal(t, StatusParseError, result.Status)
			assert.Equal(t, 75, result.Analysis.Score)
			assert.Equal(t, []string{"Profile complete"}, result.Analysis.Strengths)
			assert.Empty(t, result.Analysis.Improvements)
		})
	}
}

func TestReview_Unavailable(t *testing.T) {
	tests := []struct {
		name   string
		client llm.Client
	}{
		{name: "no client", client: nil},
		{name: "client error", client: &fakeClient{err: errors.New("rate limited")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.client, time.Second, nil)

			result := svc.Review(context.Background(), sampleCV())

			assert.Equal(t, StatusAPIError, result.Status)
			assert.Equal(t, 0, result.Analysis.Score)
			assert.Equal(t, []string{"Profile complete"}, result.Analysis.Strengths)
		})
	}
}

func TestEnabled(t *testing.T) {
	assert.False(t, NewService(nil, time.Second, nil).Enabled())
	assert.True(t, NewService(&fakeClient{}, time.Second, nil).Enabled())
}
