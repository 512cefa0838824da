package server

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/db"
	"github.com/jonathan/cv-enhancer/internal/types"
)

const resourceCV = "CV"

// CVResponse is a stored CV together with its normalized form.
type CVResponse struct {
	*db.CV
	Canonical cv.Canonical `json:"canonical"`
}

func newCVResponse(c *db.CV) CVResponse {
	return CVResponse{CV: c, Canonical: cv.Normalize(c.Record)}
}

// loadCV fetches the CV named by the {id} path segment for the authenticated user. It writes
// the error response itself; another user's CV is reported exactly like a missing one.
func (s *Server) loadCV(w http.ResponseWriter, r *http.Request) (*db.CV, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return nil, false
	}
	id, ok := pathID(w, r, "id", resourceCV)
	if !ok {
		return nil, false
	}
	return s.findCV(w, r, userID, id)
}

func (s *Server) findCV(w http.ResponseWriter, r *http.Request, userID, id uuid.UUID) (*db.CV, bool) {
	c, err := s.store.GetCV(r.Context(), userID, id)
	if err != nil {
		handleError(w, s.log, err)
		return nil, false
	}
	if c == nil {
		handleError(w, s.log, &ErrNotFound{Resource: resourceCV})
		return nil, false
	}
	return c, true
}

func (s *Server) handleListCVs(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	cvs, err := s.store.ListCVs(r.Context(), userID)
	if err != nil {
		handleError(w, s.log, err)
		return
	}

	response := make([]CVResponse, 0, len(cvs))
	for i := range cvs {
		response = append(response, newCVResponse(&cvs[i]))
	}
	jsonResponse(w, http.StatusOK, response)
}

func (s *Server) handleGetCV(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCV(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, newCVResponse(c))
}

func (s *Server) handleCreateCV(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.CVRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c := &db.CV{UserID: userID, IsActive: true, CurrentVersion: 1}
	req.Apply(&c.Record)

	created, err := s.store.CreateCV(r.Context(), c)
	if err != nil {
		handleError(w, s.log, err)
		return
	}
	jsonResponse(w, http.StatusCreated, newCVResponse(created))
}

func (s *Server) handleUpdateCV(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCV(w, r)
	if !ok {
		return
	}

	var req types.CVRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	req.Apply(&c.Record)
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	s.saveCV(w, r, c)
}

// saveCV writes c and responds with the stored row. It reports whether the write succeeded.
func (s *Server) saveCV(w http.ResponseWriter, r *http.Request, c *db.CV) bool {
	updated, err := s.store.UpdateCV(r.Context(), c)
	if err != nil {
		handleError(w, s.log, err)
		return false
	}
	if updated == nil {
		handleError(w, s.log, &ErrNotFound{Resource: resourceCV})
		return false
	}
	jsonResponse(w, http.StatusOK, newCVResponse(updated))
	return true
}

func (s *Server) handleDeleteCV(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCV(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteCV(r.Context(), c.UserID, c.ID); err != nil {
		handleError(w, s.log, err)
		return
	}

	for _, key := range []string{c.FilePath, c.PhotoPath} {
		s.removeFile(r, key)
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "CV deleted successfully"})
}

// removeFile deletes a stored file, logging failures. The database row is authoritative, so a
// leftover file is only worth a warning.
func (s *Server) removeFile(r *http.Request, key string) {
	if key == "" {
		return
	}
	if err := s.files.Delete(r.Context(), key); err != nil {
		s.log.Warn("failed to delete stored file", zap.String("key", key), zap.Error(err))
	}
}
