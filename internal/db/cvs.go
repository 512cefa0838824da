package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const cvColumns = `id, user_id, full_name, title, email, phone, location, linkedin_url, profile_summary,
	personal_info, educations, experiences, projects, skills, languages, certifications, interests,
	file_path, photo_path, original_text, current_version, is_active, created_at, updated_at`

// cvArgs returns the editable column values in cvColumns order, starting at full_name.
func cvArgs(c *CV) ([]any, error) {
	sections := []struct {
		name     string
		value    any
		fallback string
	}{
		{"personal_info", c.PersonalInfo, "{}"},
		{"educations", c.Educations, "[]"},
		{"experiences", c.Experiences, "[]"},
		{"projects", c.Projects, "[]"},
		{"skills", c.Skills, "[]"},
		{"languages", c.Languages, "[]"},
		{"certifications", c.Certifications, "[]"},
		{"interests", c.Interests, "[]"},
	}

	args := []any{c.FullName, c.Title, c.Email, c.Phone, c.Location, c.LinkedInURL, c.ProfileSummary}
	for _, s := range sections {
		b, err := marshalJSONB(s.value, s.fallback)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", s.name, err)
		}
		args = append(args, b)
	}
	args = append(args, c.FilePath, c.PhotoPath, c.OriginalText)
	return args, nil
}

func scanCV(row pgx.Row) (*CV, error) {
	var c CV
	var personalInfo, educations, experiences, projects, skills, languages, certifications, interests []byte
	err := row.Scan(
		&c.ID, &c.UserID, &c.FullName, &c.Title, &c.Email, &c.Phone, &c.Location, &c.LinkedInURL, &c.ProfileSummary,
		&personalInfo, &educations, &experiences, &projects, &skills, &languages, &certifications, &interests,
		&c.FilePath, &c.PhotoPath, &c.OriginalText, &c.CurrentVersion, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	targets := []struct {
		data []byte
		dest any
	}{
		{personalInfo, &c.PersonalInfo},
		{educations, &c.Educations},
		{experiences, &c.Experiences},
		{projects, &c.Projects},
		{skills, &c.Skills},
		{languages, &c.Languages},
		{certifications, &c.Certifications},
		{interests, &c.Interests},
	}
	for _, t := range targets {
		if err := unmarshalJSONB(t.data, t.dest); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cv %s: %w", c.ID, err)
		}
	}
	return &c, nil
}

// CreateCV inserts a CV for c.UserID and returns the stored row.
func (db *DB) CreateCV(ctx context.Context, c *CV) (*CV, error) {
	args, err := cvArgs(c)
	if err != nil {
		return nil, err
	}
	args = append([]any{c.UserID}, args...)

	row := db.pool.QueryRow(ctx,
		`INSERT INTO cvs (user_id, full_name, title, email, phone, location, linkedin_url, profile_summary,
		     personal_info, educations, experiences, projects, skills, languages, certifications, interests,
		     file_path, photo_path, original_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING `+cvColumns,
		args...,
	)
	created, err := scanCV(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create cv: %w", err)
	}
	return created, nil
}

// GetCV retrieves a CV owned by userID. Returns nil if not found or owned by someone else.
func (db *DB) GetCV(ctx context.Context, userID, id uuid.UUID) (*CV, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+cvColumns+` FROM cvs WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	c, err := scanCV(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cv: %w", err)
	}
	return c, nil
}

// ListCVs lists a user's CVs, most recently updated first
func (db *DB) ListCVs(ctx context.Context, userID uuid.UUID) ([]CV, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+cvColumns+` FROM cvs WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cvs: %w", err)
	}
	defer rows.Close()

	cvs := []CV{}
	for rows.Next() {
		c, err := scanCV(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cv: %w", err)
		}
		cvs = append(cvs, *c)
	}
	return cvs, rows.Err()
}

// UpdateCV writes every editable column of c, including current_version and is_active.
// Returns nil if the CV does not exist for c.UserID.
func (db *DB) UpdateCV(ctx context.Context, c *CV) (*CV, error) {
	args, err := cvArgs(c)
	if err != nil {
		return nil, err
	}
	args = append(args, c.CurrentVersion, c.IsActive, c.ID, c.UserID)

	row := db.pool.QueryRow(ctx,
		`UPDATE cvs SET full_name = $1, title = $2, email = $3, phone = $4, location = $5,
		     linkedin_url = $6, profile_summary = $7, personal_info = $8, educations = $9,
		     experiences = $10, projects = $11, skills = $12, languages = $13, certifications = $14,
		     interests = $15, file_path = $16, photo_path = $17, original_text = $18,
		     current_version = $19, is_active = $20, updated_at = NOW()
		 WHERE id = $21 AND user_id = $22
		 RETURNING `+cvColumns,
		args...,
	)
	updated, err := scanCV(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update cv: %w", err)
	}
	return updated, nil
}

// DeleteCV removes a CV owned by userID
func (db *DB) DeleteCV(ctx context.Context, userID, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM cvs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cv: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("cv %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountCVs counts a user's CVs
func (db *DB) CountCVs(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cvs WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cvs: %w", err)
	}
	return n, nil
}
