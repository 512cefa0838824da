package server

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-enhancer/internal/db"
)

// handleDashboard aggregates the user's activity. The four queries are independent and run
// concurrently.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var stats db.DashboardStats
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		n, err := s.store.CountCVs(ctx, userID)
		stats.CVCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountCoverLetters(ctx, userID)
		stats.CoverLetterCount = n
		return err
	})
	g.Go(func() error {
		counts, err := s.store.CountApplicationsByStatus(ctx, userID)
		stats.ApplicationsByStatus = counts
		return err
	})
	g.Go(func() error {
		recent, err := s.store.ListJobApplications(ctx, userID, "", db.RecentApplicationsLimit)
		stats.RecentApplications = recent
		return err
	})
	if err := g.Wait(); err != nil {
		handleError(w, s.log, err)
		return
	}

	for _, n := range stats.ApplicationsByStatus {
		stats.ApplicationCount += n
	}
	if stats.RecentApplications == nil {
		stats.RecentApplications = []db.JobApplication{}
	}
	jsonResponse(w, http.StatusOK, stats)
}
