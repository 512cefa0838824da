package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-enhancer/internal/db"
	"github.com/jonathan/cv-enhancer/internal/fetch"
	"github.com/jonathan/cv-enhancer/internal/ingestion"
	"github.com/jonathan/cv-enhancer/internal/rendering"
	"github.com/jonathan/cv-enhancer/internal/storage"
)

func TestErrEmailAlreadyExists(t *testing.T) {
	err := &ErrEmailAlreadyExists{Email: "test@example.com"}
	assert.Equal(t, "email already registered: test@example.com", err.Error())
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestErrUserNotFound(t *testing.T) {
	userID := uuid.New()
	err := &ErrUserNotFound{UserID: userID}
	assert.Equal(t, "user not found: "+userID.String(), err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "email", Message: "invalid format"}
	assert.Equal(t, "validation error: email - invalid format", err.Error())

	err = &ErrValidation{Message: "company is required"}
	assert.Equal(t, "company is required", err.Error())
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "CV not found", (&ErrNotFound{Resource: "CV"}).Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "email exists", err: &ErrEmailAlreadyExists{Email: "a@b.c"}, expected: http.StatusConflict},
		{name: "invalid credentials", err: &ErrInvalidCredentials{}, expected: http.StatusUnauthorized},
		{name: "password mismatch", err: &ErrPasswordMismatch{}, expected: http.StatusUnauthorized},
		{name: "validation", err: &ErrValidation{Field: "x", Message: "y"}, expected: http.StatusBadRequest},
		{name: "resource not found", err: &ErrNotFound{Resource: "CV"}, expected: http.StatusNotFound},
		{name: "wrapped db not found", err: fmt.Errorf("cv x: %w", db.ErrNotFound), expected: http.StatusNotFound},
		{name: "wrapped duplicate", err: fmt.Errorf("create: %w", db.ErrDuplicate), expected: http.StatusConflict},
		{name: "stored file missing", err: &storage.Error{Op: "open", Key: "k", Err: storage.ErrNotFound}, expected: http.StatusNotFound},
		{name: "bad storage key", err: &storage.Error{Op: "open", Key: "..", Err: storage.ErrInvalidKey}, expected: http.StatusBadRequest},
		{name: "export option", err: &rendering.OptionError{Option: "theme", Value: "neon"}, expected: http.StatusBadRequest},
		{name: "no compiler", err: fmt.Errorf("compile: %w", rendering.ErrCompilerMissing), expected: http.StatusServiceUnavailable},
		{name: "compile failure", err: &rendering.CompileError{Message: "boom"}, expected: http.StatusInternalServerError},
		{name: "unsupported upload", err: &ingestion.Error{Stage: "detect", FileName: "a.exe", Err: ingestion.ErrUnsupportedFormat}, expected: http.StatusBadRequest},
		{name: "structuring failed", err: &ingestion.Error{Stage: "structure", FileName: "a.pdf", Err: errors.New("timeout")}, expected: http.StatusBadGateway},
		{name: "fetch failure", err: &fetch.Error{URL: "https://x", Message: "no job description found"}, expected: http.StatusBadRequest},
		{name: "unknown", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
