package server

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-enhancer/internal/ingestion"
	"github.com/jonathan/cv-enhancer/internal/storage"
)

const resumeText = `Anna Schmidt
Backend Engineer

Experience
Engineer at Acme, 2020 to present
- Built Go APIs on PostgreSQL
`

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type stubStructurer struct {
	result *ingestion.StructuredCV
	err    error
}

func (s stubStructurer) Structure(context.Context, string, string) (*ingestion.StructuredCV, error) {
	return s.result, s.err
}

// upload posts a multipart form with a single "file" part.
func (e *testEnv) upload(path, token, fileName string, data []byte) *httptest.ResponseRecorder {
	e.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(e.t, err)
		_, err = part.Write(data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func TestUploadCV_Text(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("anna@example.com")
	id := env.createCV(token, map[string]any{"full_name": "Anna Schmidt"})

	w := env.upload("/api/cvs/"+id.String()+"/upload", token, "Anna Resume.txt", []byte(resumeText))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Title        string `json:"title"`
		FilePath     string `json:"file_path"`
		OriginalText string `json:"original_text"`
		Version      int    `json:"current_version"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Anna Resume", resp.Title)
	assert.True(t, strings.HasPrefix(resp.FilePath, storage.CVDir+"/"))
	assert.True(t, strings.HasSuffix(resp.FilePath, ".txt"))
	assert.Contains(t, resp.OriginalText, "Built Go APIs on PostgreSQL")
	assert.Equal(t, 1, resp.Version)

	w = env.do(http.MethodGet, UploadsPrefix+resp.FilePath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resumeText, w.Body.String())
}

func TestUploadCV_Structured(t *testing.T) {
	structured := &ingestion.StructuredCV{
		Experiences: []any{map[string]any{"position": "Engineer", "company_name": "Acme"}},
		Skills:      []any{"Go", "PostgreSQL"},
	}
	env := newTestEnv(t, func(d *Deps) { d.Structurer = stubStructurer{result: structured} })
	token, _ := env.register("anna@example.com")
	id := env.createCV(token, map[string]any{"full_name": "Anna Schmidt"})

	w := env.upload("/api/cvs/"+id.String()+"/upload", token, "cv.txt", []byte(resumeText))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp cvBody
	decode(t, w, &resp)
	assert.Len(t, resp.Canonical["experience"], 1)
	assert.Equal(t, []any{"Go", "PostgreSQL"}, resp.Canonical["skills"])
}

func TestUploadCV_StructuringFailureKeepsText(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Structurer = stubStructurer{err: errors.New("model unavailable")}
	})
	token, _ := env.register("anna@example.com")
	id := env.createCV(token, map[string]any{"full_name": "Anna Schmidt"})

	w := env.upload("/api/cvs/"+id.String()+"/upload", token, "cv.txt", []byte(resumeText))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Built Go APIs on PostgreSQL")
}

func TestUploadCV_Rejected(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("anna@example.com")
	id := env.createCV(token, map[string]any{"full_name": "Anna Schmidt"})
	path := "/api/cvs/" + id.String() + "/upload"

	w := env.upload(path, token, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", errorMessage(t, w))

	w = env.upload(path, token, "cv.bin", []byte{0x00, 0x01, 0x02, 0xff, 0xfe})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.upload(path, token, "cv.txt", bytes.Repeat([]byte("a"), MaxCVFileBytes+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUploadPhoto(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("anna@example.com")
	id := env.createCV(token, map[string]any{"full_name": "Anna Schmidt"})
	path := "/api/cvs/" + id.String() + "/photo"

	w := env.upload(path, token, "me.png", pngHeader)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		PhotoPath string         `json:"photo_path"`
		Canonical map[string]any `json:"canonical"`
	}
	decode(t, w, &resp)
	assert.True(t, strings.HasPrefix(resp.PhotoPath, storage.PhotoDir+"/"))
	assert.True(t, strings.HasSuffix(resp.PhotoPath, ".png"))
	info := resp.Canonical["personal_info"].(map[string]any)
	assert.Equal(t, UploadsPrefix+resp.PhotoPath, info["photo"])

	w = env.do(http.MethodGet, UploadsPrefix+resp.PhotoPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngHeader, w.Body.Bytes())

	first := resp.PhotoPath
	w = env.upload(path, token, "me.png", pngHeader)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, UploadsPrefix+first, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadPhoto_RejectsNonImages(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("anna@example.com")
	id := env.createCV(token, map[string]any{"full_name": "Anna Schmidt"})

	w := env.upload("/api/cvs/"+id.String()+"/photo", token, "me.png", []byte("plain text, not an image"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Photo must be a JPEG, PNG or WebP image", errorMessage(t, w))
}

func TestUploads_NotFoundAndTraversal(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/uploads/photos/missing.png", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/uploads/..%2F..%2Fetc%2Fpasswd", "", nil)
	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestDeleteCV_RemovesFiles(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("anna@example.com")
	id := env.createCV(token, map[string]any{"full_name": "Anna Schmidt"})

	w := env.upload("/api/cvs/"+id.String()+"/upload", token, "cv.txt", []byte(resumeText))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		FilePath string `json:"file_path"`
	}
	decode(t, w, &resp)

	w = env.do(http.MethodDelete, "/api/cvs/"+id.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := env.files.Open(context.Background(), resp.FilePath)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
