package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/logger"
	"github.com/jonathan/cv-enhancer/internal/db"
	"github.com/jonathan/cv-enhancer/internal/types"
)

// SuggestionResponse is a stored suggestion. Suggestion repeats SuggestionText for clients
// that read the shorter key.
type SuggestionResponse struct {
	db.StoredSuggestion
	Suggestion string `json:"suggestion"`
}

func newSuggestionResponse(s db.StoredSuggestion) SuggestionResponse {
	return SuggestionResponse{StoredSuggestion: s, Suggestion: s.SuggestionText}
}

func newSuggestionResponses(stored []db.StoredSuggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(stored))
	for _, s := range stored {
		out = append(out, newSuggestionResponse(s))
	}
	return out
}

// CustomizationResponse is the outcome of matching a CV against a job description.
type CustomizationResponse struct {
	ID              uuid.UUID            `json:"id"`
	CVID            uuid.UUID            `json:"cv_id"`
	JobDescription  string               `json:"job_description"`
	Score           int                  `json:"score"`
	MatchedKeywords []string             `json:"matched_keywords"`
	MissingKeywords []string             `json:"missing_keywords"`
	Suggestions     []SuggestionResponse `json:"suggestions"`
	AIPowered       bool                 `json:"ai_powered"`
	CreatedAt       time.Time            `json:"created_at"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCV(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, s.analysis.Review(r.Context(), cv.Normalize(c.Record)))
}

func (s *Server) handleCustomize(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCV(w, r)
	if !ok {
		return
	}
	var req types.JobDescriptionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result := s.engine.Analyze(r.Context(), cv.Normalize(c.Record), req.JobDescription)

	stored := make([]db.StoredSuggestion, 0, len(result.Suggestions))
	for _, sg := range result.Suggestions {
		stored = append(stored, db.StoredSuggestion{
			CVID:           c.ID,
			Title:          sg.Title,
			Description:    sg.Description,
			SuggestionText: sg.SuggestionText,
			Section:        string(sg.Section),
			Source:         string(sg.Source),
		})
	}

	saved, err := s.store.SaveCustomization(r.Context(), &db.Customization{
		CVID:            c.ID,
		JobDescription:  req.JobDescription,
		MatchedKeywords: result.MatchedKeywords,
		MissingKeywords: result.MissingKeywords,
		Score:           result.Score,
		AIPowered:       result.AIPowered,
	}, stored)
	if err != nil {
		handleError(w, s.log, err)
		return
	}

	s.log.Info("CV customized",
		zap.String(logger.FieldCVID, c.ID.String()),
		zap.Int("score", saved.Score),
		zap.Int("suggestions", len(saved.Suggestions)),
		zap.Bool("ai_powered", saved.AIPowered))

	jsonResponse(w, http.StatusOK, CustomizationResponse{
		ID:              saved.ID,
		CVID:            saved.CVID,
		JobDescription:  saved.JobDescription,
		Score:           saved.Score,
		MatchedKeywords: saved.MatchedKeywords,
		MissingKeywords: saved.MissingKeywords,
		Suggestions:     newSuggestionResponses(saved.Suggestions),
		AIPowered:       saved.AIPowered,
		CreatedAt:       saved.CreatedAt,
	})
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCV(w, r)
	if !ok {
		return
	}
	var req types.JobDescriptionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	jsonResponse(w, http.StatusOK, s.analysis.Enhance(r.Context(), cv.Normalize(c.Record), req.JobDescription))
}

func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCV(w, r)
	if !ok {
		return
	}

	stored, err := s.store.ListSuggestions(r.Context(), c.ID)
	if err != nil {
		handleError(w, s.log, err)
		return
	}
	jsonResponse(w, http.StatusOK, newSuggestionResponses(stored))
}

func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCV(w, r)
	if !ok {
		return
	}
	sid, ok := pathID(w, r, "sid", "Suggestion")
	if !ok {
		return
	}

	applied, err := s.store.ApplySuggestion(r.Context(), c.ID, sid)
	if err != nil {
		handleError(w, s.log, err)
		return
	}
	if applied == nil {
		handleError(w, s.log, &ErrNotFound{Resource: "Suggestion"})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"message":    "Suggestion applied successfully",
		"suggestion": newSuggestionResponse(*applied),
	})
}
