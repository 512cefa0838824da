package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/coverletter"
	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/db"
	"github.com/jonathan/cv-enhancer/internal/logger"
	"github.com/jonathan/cv-enhancer/internal/types"
)

const resourceCoverLetter = "Cover letter"

// ExtractFailedMessage is returned when no job description could be read from a URL.
const ExtractFailedMessage = "Could not extract job description"

func (s *Server) loadCoverLetter(w http.ResponseWriter, r *http.Request) (*db.CoverLetter, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return nil, false
	}
	id, ok := pathID(w, r, "id", resourceCoverLetter)
	if !ok {
		return nil, false
	}

	letter, err := s.store.GetCoverLetter(r.Context(), userID, id)
	if err != nil {
		handleError(w, s.log, err)
		return nil, false
	}
	if letter == nil {
		handleError(w, s.log, &ErrNotFound{Resource: resourceCoverLetter})
		return nil, false
	}
	return letter, true
}

func (s *Server) handleListCoverLetters(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	letters, err := s.store.ListCoverLetters(r.Context(), userID)
	if err != nil {
		handleError(w, s.log, err)
		return
	}
	jsonResponse(w, http.StatusOK, letters)
}

func (s *Server) handleGetCoverLetter(w http.ResponseWriter, r *http.Request) {
	letter, ok := s.loadCoverLetter(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, letter)
}

func (s *Server) handleCreateCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.CoverLetterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.CVID != nil {
		if _, ok := s.findCV(w, r, userID, *req.CVID); !ok {
			return
		}
	}

	letter := &db.CoverLetter{UserID: userID}
	req.Apply(letter)

	created, err := s.store.CreateCoverLetter(r.Context(), letter)
	if err != nil {
		handleError(w, s.log, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCoverLetter(w http.ResponseWriter, r *http.Request) {
	letter, ok := s.loadCoverLetter(w, r)
	if !ok {
		return
	}

	var req types.CoverLetterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.CVID != nil {
		if _, ok := s.findCV(w, r, letter.UserID, *req.CVID); !ok {
			return
		}
	}
	req.Apply(letter)
	if strings.TrimSpace(letter.Title) == "" {
		letter.Title = db.DefaultCoverLetterTitle
	}

	updated, err := s.store.UpdateCoverLetter(r.Context(), letter)
	if err != nil {
		handleError(w, s.log, err)
		return
	}
	if updated == nil {
		handleError(w, s.log, &ErrNotFound{Resource: resourceCoverLetter})
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCoverLetter(w http.ResponseWriter, r *http.Request) {
	letter, ok := s.loadCoverLetter(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteCoverLetter(r.Context(), letter.UserID, letter.ID); err != nil {
		handleError(w, s.log, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Cover letter deleted successfully"})
}

// handleGenerateCoverLetter writes a letter from a CV for a job description and stores it.
func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.GenerateCoverLetterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, ok := s.findCV(w, r, userID, req.CVID)
	if !ok {
		return
	}

	userName := ""
	if user, err := s.store.GetUser(r.Context(), userID); err != nil {
		s.log.Warn("failed to load user for cover letter signature",
			zap.String(logger.FieldUserID, userID.String()), zap.Error(err))
	} else if user != nil {
		userName = user.Name
	}

	letter := s.letters.Generate(r.Context(), coverletter.Request{
		CV:             cv.Normalize(c.Record),
		UserName:       userName,
		JobDescription: req.JobDescription,
	})

	cvID := c.ID
	created, err := s.store.CreateCoverLetter(r.Context(), &db.CoverLetter{
		UserID:          userID,
		CVID:            &cvID,
		Title:           strings.TrimSpace(req.Title),
		JobDescription:  req.JobDescription,
		Content:         letter.Content,
		GeneratedWithAI: letter.GeneratedWithAI,
	})
	if err != nil {
		handleError(w, s.log, err)
		return
	}

	s.log.Info("cover letter generated",
		zap.String("cover_letter_id", created.ID.String()),
		zap.Bool("generated_with_ai", created.GeneratedWithAI))
	jsonResponse(w, http.StatusCreated, created)
}

// handleExtractJob reads the job description of a posting page.
func (s *Server) handleExtractJob(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	var req types.ExtractJobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if s.jobs == nil {
		errorResponse(w, http.StatusServiceUnavailable, "Job extraction is not configured")
		return
	}

	text, err := s.jobs.Extract(r.Context(), req.URL)
	if err != nil || strings.TrimSpace(text) == "" {
		s.log.Warn("job description extraction failed", zap.String("url", req.URL), zap.Error(err))
		errorResponse(w, http.StatusBadRequest, ExtractFailedMessage)
		return
	}
	jsonResponse(w, http.StatusOK, types.ExtractJobResponse{JobDescription: text, URL: req.URL})
}
