package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/server/middleware"
	"github.com/jonathan/cv-enhancer/internal/types"
)

// maxJSONBody bounds request bodies of JSON endpoints.
const maxJSONBody = 1 << 20

// internalErrorMessage hides server-side failure details from clients.
const internalErrorMessage = "Internal server error"

type validatable interface {
	Validate() error
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status code. Client errors echo the error text; server errors are
// logged and answered with a generic message, except for 503 which tells the client why.
func handleError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := HTTPStatus(err)
	switch {
	case status == http.StatusServiceUnavailable:
		log.Warn("dependency unavailable", zap.Error(err))
		errorResponse(w, status, err.Error())
	case status >= http.StatusInternalServerError:
		log.Error("request failed", zap.Int("status", status), zap.Error(err))
		errorResponse(w, status, internalErrorMessage)
	default:
		errorResponse(w, status, err.Error())
	}
}

// decodeAndValidate reads a JSON body into v and runs its validation. It writes the 400
// response itself and reports whether the handler should continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validatable) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := v.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, types.ValidationMessage(err))
		return false
	}
	return true
}

// currentUser returns the authenticated user ID.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, middleware.UnauthorizedMessage)
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses a UUID path segment. Malformed IDs are reported as missing resources.
func pathID(w http.ResponseWriter, r *http.Request, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: resource}).Error())
		return uuid.Nil, false
	}
	return id, true
}
