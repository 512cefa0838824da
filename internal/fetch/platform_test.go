package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.linkedin.com/jobs/view/123", PlatformLinkedIn},
		{"https://de.indeed.com/viewjob?jk=abc", PlatformIndeed},
		{"https://www.indeed.de/job/xyz", PlatformIndeed},
		{"https://www.stepstone.de/stellenangebote--Go-Entwickler", PlatformStepStone},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://acme.wd5.myworkdayjobs.com/careers/job/1", PlatformWorkday},
		{"https://notlinkedin.com/jobs", PlatformUnknown},
		{"https://example.com/careers", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors(t *testing.T) {
	indeed := PlatformContentSelectors(PlatformIndeed)
	assert.Equal(t, "#jobDescriptionText", indeed[0])
	assert.Contains(t, indeed, "main", "generic selectors are appended")

	assert.Equal(t, JobPostingSelectors(), PlatformContentSelectors(PlatformUnknown))
}

func TestPlatformNoiseSelectors(t *testing.T) {
	common := PlatformNoiseSelectors(PlatformUnknown)
	assert.Contains(t, common, "form")

	linkedin := PlatformNoiseSelectors(PlatformLinkedIn)
	assert.Greater(t, len(linkedin), len(common))
	assert.Contains(t, linkedin, ".similar-jobs")
}

func TestExtractMainText_PlatformSelectors(t *testing.T) {
	html := `
	<html>
		<body>
			<div id="jobDescriptionText"><p>We need Kubernetes experience.</p></div>
			<form>Apply now</form>
		</body>
	</html>`

	text, err := ExtractMainText(html, PlatformContentSelectors(PlatformIndeed), PlatformNoiseSelectors(PlatformIndeed)...)
	assert.NoError(t, err)
	assert.Equal(t, "We need Kubernetes experience.", text)
}
