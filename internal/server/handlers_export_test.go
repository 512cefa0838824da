package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/rendering"
)

func TestExport_PDF(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("anna@example.com")
	id := env.createCV(token, sampleCV)

	w := env.do(http.MethodGet, "/api/cvs/"+id.String()+"/export?theme=modern&color=%23ff0000&lang=de", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="cv_Anna_Schmidt.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.5 test", w.Body.String())
	assert.Equal(t, rendering.Options{Theme: "modern", Color: "#ff0000", Language: "de"}, env.exporter.opts)
}

func TestExport_TeX(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("anna@example.com")
	id := env.createCV(token, sampleCV)

	w := env.do(http.MethodGet, "/api/cvs/"+id.String()+"/export?format=tex&theme=minimal", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Contains(t, w.Header().Get("Content-Type"), "application/x-tex")
	assert.Contains(t, w.Body.String(), `\documentclass`)
	assert.Contains(t, w.Body.String(), "Anna Schmidt")
	assert.Zero(t, env.exporter.calls)
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		exportErr  error
		wantStatus int
	}{
		{name: "unknown theme", query: "?theme=neon", wantStatus: http.StatusBadRequest},
		{name: "invalid color", query: "?color=blue", wantStatus: http.StatusBadRequest},
		{name: "unknown language", query: "?lang=fr", wantStatus: http.StatusBadRequest},
		{name: "unknown format", query: "?format=docx", wantStatus: http.StatusBadRequest},
		{name: "compiler missing", exportErr: rendering.ErrCompilerMissing, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.exporter.err = tt.exportErr
			token, _ := env.register("anna@example.com")
			id := env.createCV(token, sampleCV)

			w := env.do(http.MethodGet, "/api/cvs/"+id.String()+"/export"+tt.query, token, nil)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Anna Schmidt", want: "cv_Anna_Schmidt.pdf"},
		{name: "  Jörg   O'Neil ", want: "cv_Jrg_ONeil.pdf"},
		{name: "", want: "cv.pdf"},
		{name: "../../etc", want: "cv_etc.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c := cv.Normalize(cv.Record{FullName: tt.name})
			assert.Equal(t, tt.want, exportFileName(c, FormatPDF))
		})
	}
}
