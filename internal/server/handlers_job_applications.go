package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/cv-enhancer/internal/db"
	"github.com/jonathan/cv-enhancer/internal/types"
)

const resourceJobApplication = "Job application"

func (s *Server) loadJobApplication(w http.ResponseWriter, r *http.Request) (*db.JobApplication, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return nil, false
	}
	id, ok := pathID(w, r, "id", resourceJobApplication)
	if !ok {
		return nil, false
	}

	app, err := s.store.GetJobApplication(r.Context(), userID, id)
	if err != nil {
		handleError(w, s.log, err)
		return nil, false
	}
	if app == nil {
		handleError(w, s.log, &ErrNotFound{Resource: resourceJobApplication})
		return nil, false
	}
	return app, true
}

func (s *Server) handleListJobApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !db.ValidApplicationStatus(status) {
		errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid status: %q", status))
		return
	}

	apps, err := s.store.ListJobApplications(r.Context(), userID, status, 0)
	if err != nil {
		handleError(w, s.log, err)
		return
	}
	jsonResponse(w, http.StatusOK, apps)
}

func (s *Server) handleGetJobApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := s.loadJobApplication(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleCreateJobApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.JobApplicationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := req.RequireIdentity(); err != nil {
		handleError(w, s.log, &ErrValidation{Message: err.Error()})
		return
	}

	app := &db.JobApplication{UserID: userID, Status: db.StatusSaved}
	if err := req.Apply(app); err != nil {
		handleError(w, s.log, &ErrValidation{Field: "applied_date", Message: err.Error()})
		return
	}

	created, err := s.store.CreateJobApplication(r.Context(), app)
	if err != nil {
		handleError(w, s.log, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateJobApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := s.loadJobApplication(w, r)
	if !ok {
		return
	}

	var req types.JobApplicationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := req.Apply(app); err != nil {
		handleError(w, s.log, &ErrValidation{Field: "applied_date", Message: err.Error()})
		return
	}
	if app.Company == "" || app.Role == "" {
		handleError(w, s.log, &ErrValidation{Message: "company and role cannot be empty"})
		return
	}

	updated, err := s.store.UpdateJobApplication(r.Context(), app)
	if err != nil {
		handleError(w, s.log, err)
		return
	}
	if updated == nil {
		handleError(w, s.log, &ErrNotFound{Resource: resourceJobApplication})
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteJobApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := s.loadJobApplication(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteJobApplication(r.Context(), app.UserID, app.ID); err != nil {
		handleError(w, s.log, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Job application deleted successfully"})
}
