package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const suggestionColumns = `id, cv_id, customization_id, title, description, suggestion_text, section, source,
	position, is_applied, created_at`

// SaveCustomization stores a customization and its suggestions in one transaction. The returned
// customization carries the stored suggestions in input order.
func (db *DB) SaveCustomization(ctx context.Context, c *Customization, suggestions []StoredSuggestion) (*Customization, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	matched := c.MatchedKeywords
	if matched == nil {
		matched = StringArray{}
	}
	missing := c.MissingKeywords
	if missing == nil {
		missing = StringArray{}
	}

	saved := Customization{
		CVID:            c.CVID,
		JobDescription:  c.JobDescription,
		MatchedKeywords: matched,
		MissingKeywords: missing,
		Score:           c.Score,
		AIPowered:       c.AIPowered,
		Suggestions:     make([]StoredSuggestion, 0, len(suggestions)),
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO cv_customizations (cv_id, job_description, matched_keywords, missing_keywords, score, ai_powered)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		c.CVID, c.JobDescription, matched, missing, c.Score, c.AIPowered,
	).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert customization: %w", err)
	}

	for i, s := range suggestions {
		row := tx.QueryRow(ctx,
			`INSERT INTO suggestions (cv_id, customization_id, title, description, suggestion_text, section, source, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING `+suggestionColumns,
			c.CVID, saved.ID, s.Title, s.Description, s.SuggestionText, s.Section, s.Source, i,
		)
		stored, err := scanSuggestion(row)
		if err != nil {
			return nil, fmt.Errorf("failed to insert suggestion %d: %w", i, err)
		}
		saved.Suggestions = append(saved.Suggestions, *stored)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit customization: %w", err)
	}
	return &saved, nil
}

func scanSuggestion(row pgx.Row) (*StoredSuggestion, error) {
	var s StoredSuggestion
	err := row.Scan(&s.ID, &s.CVID, &s.CustomizationID, &s.Title, &s.Description, &s.SuggestionText,
		&s.Section, &s.Source, &s.Position, &s.IsApplied, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSuggestions lists every stored suggestion for a CV, oldest customization first
func (db *DB) ListSuggestions(ctx context.Context, cvID uuid.UUID) ([]StoredSuggestion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+suggestionColumns+` FROM suggestions WHERE cv_id = $1 ORDER BY created_at, position`,
		cvID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := []StoredSuggestion{}
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, *s)
	}
	return suggestions, rows.Err()
}

// ApplySuggestion sets the applied flag on a suggestion of cvID. Returns nil if not found.
func (db *DB) ApplySuggestion(ctx context.Context, cvID, id uuid.UUID) (*StoredSuggestion, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE suggestions SET is_applied = TRUE WHERE id = $1 AND cv_id = $2
		 RETURNING `+suggestionColumns,
		id, cvID,
	)
	s, err := scanSuggestion(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply suggestion: %w", err)
	}
	return s, nil
}
