package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const coverLetterColumns = `id, user_id, cv_id, title, job_description, content, generated_with_ai, created_at, updated_at`

func scanCoverLetter(row pgx.Row) (*CoverLetter, error) {
	var l CoverLetter
	var content []byte
	if err := row.Scan(&l.ID, &l.UserID, &l.CVID, &l.Title, &l.JobDescription, &content,
		&l.GeneratedWithAI, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(content, &l.Content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cover letter content: %w", err)
	}
	return &l, nil
}

// CreateCoverLetter inserts a cover letter for l.UserID
func (db *DB) CreateCoverLetter(ctx context.Context, l *CoverLetter) (*CoverLetter, error) {
	title := l.Title
	if title == "" {
		title = DefaultCoverLetterTitle
	}
	content, err := json.Marshal(l.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cover letter content: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO cover_letters (user_id, cv_id, title, job_description, content, generated_with_ai)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+coverLetterColumns,
		l.UserID, l.CVID, title, l.JobDescription, content, l.GeneratedWithAI,
	)
	created, err := scanCoverLetter(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create cover letter: %w", err)
	}
	return created, nil
}

// GetCoverLetter retrieves a cover letter owned by userID. Returns nil if not found.
func (db *DB) GetCoverLetter(ctx context.Context, userID, id uuid.UUID) (*CoverLetter, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+coverLetterColumns+` FROM cover_letters WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	l, err := scanCoverLetter(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cover letter: %w", err)
	}
	return l, nil
}

// ListCoverLetters lists a user's cover letters, most recently updated first
func (db *DB) ListCoverLetters(ctx context.Context, userID uuid.UUID) ([]CoverLetter, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+coverLetterColumns+` FROM cover_letters WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cover letters: %w", err)
	}
	defer rows.Close()

	letters := []CoverLetter{}
	for rows.Next() {
		l, err := scanCoverLetter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cover letter: %w", err)
		}
		letters = append(letters, *l)
	}
	return letters, rows.Err()
}

// UpdateCoverLetter writes title, cv_id, job_description and content. Returns nil if not found.
func (db *DB) UpdateCoverLetter(ctx context.Context, l *CoverLetter) (*CoverLetter, error) {
	content, err := json.Marshal(l.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cover letter content: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE cover_letters SET cv_id = $1, title = $2, job_description = $3, content = $4, updated_at = NOW()
		 WHERE id = $5 AND user_id = $6
		 RETURNING `+coverLetterColumns,
		l.CVID, l.Title, l.JobDescription, content, l.ID, l.UserID,
	)
	updated, err := scanCoverLetter(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update cover letter: %w", err)
	}
	return updated, nil
}

// DeleteCoverLetter removes a cover letter owned by userID
func (db *DB) DeleteCoverLetter(ctx context.Context, userID, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM cover_letters WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cover letter: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("cover letter %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountCoverLetters counts a user's cover letters
func (db *DB) CountCoverLetters(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cover_letters WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cover letters: %w", err)
	}
	return n, nil
}
