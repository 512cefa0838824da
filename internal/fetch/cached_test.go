package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.values[key] = value
	c.ttls[key] = ttl
	return nil
}

type fakeRenderer struct {
	html  string
	err   error
	calls int
}

func (r *fakeRenderer) Render(context.Context, string) (string, error) {
	r.calls++
	return r.html, r.err
}

func jobServer(t *testing.T, body string, hits *int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*hits++
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func longPosting() string {
	return "<html><body><div class=\"job-description\"><p>" +
		strings.Repeat("Build Go services on Kubernetes. ", 20) +
		"</p></div></body></html>"
}

func TestJobExtractor_FetchesAndCaches(t *testing.T) {
	hits := 0
	server := jobServer(t, longPosting(), &hits)
	cache := newFakeCache()
	extractor := NewJobExtractor(JobExtractorConfig{Cache: cache})

	text, err := extractor.Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Build Go services")
	assert.Equal(t, text, cache.values[CacheKey(server.URL)])
	assert.Equal(t, DefaultCacheTTL, cache.ttls[CacheKey(server.URL)])

	again, err := extractor.Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, text, again)
	assert.Equal(t, 1, hits, "second call is served from cache")
}

func TestJobExtractor_Truncates(t *testing.T) {
	hits := 0
	server := jobServer(t, longPosting(), &hits)
	extractor := NewJobExtractor(JobExtractorConfig{MaxChars: 50})

	text, err := extractor.Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(text)), 50)
}

func TestJobExtractor_DefaultLimit(t *testing.T) {
	hits := 0
	body := "<html><body><main>" + strings.Repeat("word ", 1000) + "</main></body></html>"
	server := jobServer(t, body, &hits)

	text, err := NewJobExtractor(JobExtractorConfig{}).Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(text)), MaxJobDescriptionLength)
}

func TestJobExtractor_BrowserFallback(t *testing.T) {
	hits := 0
	server := jobServer(t, `<html><body><div id="root"></div></body></html>`, &hits)
	renderer := &fakeRenderer{html: longPosting()}
	extractor := NewJobExtractor(JobExtractorConfig{Renderer: renderer})

	text, err := extractor.Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.Contains(t, text, "Kubernetes")
}

func TestJobExtractor_SkipsBrowserForLongText(t *testing.T) {
	hits := 0
	server := jobServer(t, longPosting(), &hits)
	renderer := &fakeRenderer{html: "<html></html>"}

	_, err := NewJobExtractor(JobExtractorConfig{Renderer: renderer}).Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Zero(t, renderer.calls)
}

func TestJobExtractor_Failures(t *testing.T) {
	t.Run("invalid url", func(t *testing.T) {
		_, err := NewJobExtractor(JobExtractorConfig{}).Extract(context.Background(), "not a url")
		var fetchErr *Error
		assert.ErrorAs(t, err, &fetchErr)
	})

	t.Run("empty page", func(t *testing.T) {
		hits := 0
		server := jobServer(t, "<html><body></body></html>", &hits)
		_, err := NewJobExtractor(JobExtractorConfig{}).Extract(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no job description found")
	})

	t.Run("http error without renderer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := NewJobExtractor(JobExtractorConfig{}).Extract(context.Background(), server.URL)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
	})

	t.Run("renderer failure", func(t *testing.T) {
		hits := 0
		server := jobServer(t, "<html><body></body></html>", &hits)
		renderer := &fakeRenderer{err: errors.New("no chrome")}
		_, err := NewJobExtractor(JobExtractorConfig{Renderer: renderer}).Extract(context.Background(), server.URL)
		assert.Error(t, err)
	})
}

func TestJobExtractor_CacheReadErrorIsIgnored(t *testing.T) {
	hits := 0
	server := jobServer(t, longPosting(), &hits)
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")

	text, err := NewJobExtractor(JobExtractorConfig{Cache: cache}).Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}

func TestCacheKey(t *testing.T) {
	key := CacheKey("https://example.com/jobs/1")
	assert.True(t, strings.HasPrefix(key, CacheKeyPrefix))
	assert.Equal(t, key, CacheKey("https://example.com/jobs/1"))
	assert.NotEqual(t, key, CacheKey("https://example.com/jobs/2"))
}
