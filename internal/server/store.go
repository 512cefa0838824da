package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/cv-enhancer/internal/db"
)

// Store is the persistence the API needs. *db.DB implements it; tests use an in-memory fake.
type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	CreateCV(ctx context.Context, c *db.CV) (*db.CV, error)
	GetCV(ctx context.Context, userID, id uuid.UUID) (*db.CV, error)
	ListCVs(ctx context.Context, userID uuid.UUID) ([]db.CV, error)
	UpdateCV(ctx context.Context, c *db.CV) (*db.CV, error)
	DeleteCV(ctx context.Context, userID, id uuid.UUID) error
	CountCVs(ctx context.Context, userID uuid.UUID) (int, error)

	SaveCustomization(ctx context.Context, c *db.Customization, suggestions []db.StoredSuggestion) (*db.Customization, error)
	ListSuggestions(ctx context.Context, cvID uuid.UUID) ([]db.StoredSuggestion, error)
	ApplySuggestion(ctx context.Context, cvID, id uuid.UUID) (*db.StoredSuggestion, error)

	CreateCoverLetter(ctx context.Context, l *db.CoverLetter) (*db.CoverLetter, error)
	GetCoverLetter(ctx context.Context, userID, id uuid.UUID) (*db.CoverLetter, error)
	ListCoverLetters(ctx context.Context, userID uuid.UUID) ([]db.CoverLetter, error)
	UpdateCoverLetter(ctx context.Context, l *db.CoverLetter) (*db.CoverLetter, error)
	DeleteCoverLetter(ctx context.Context, userID, id uuid.UUID) error
	CountCoverLetters(ctx context.Context, userID uuid.UUID) (int, error)

	CreateJobApplication(ctx context.Context, a *db.JobApplication) (*db.JobApplication, error)
	GetJobApplication(ctx context.Context, userID, id uuid.UUID) (*db.JobApplication, error)
	ListJobApplications(ctx context.Context, userID uuid.UUID, status string, limit int) ([]db.JobApplication, error)
	UpdateJobApplication(ctx context.Context, a *db.JobApplication) (*db.JobApplication, error)
	DeleteJobApplication(ctx context.Context, userID, id uuid.UUID) error
	CountApplicationsByStatus(ctx context.Context, userID uuid.UUID) (map[string]int, error)
}

var _ Store = (*db.DB)(nil)
