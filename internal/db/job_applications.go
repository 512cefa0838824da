package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `id, user_id, company, role, job_url, location, salary_range, status, applied_date,
	notes, cv_id, cover_letter_id, created_at, updated_at`

// RecentApplicationsLimit is the number of applications shown on the dashboard.
const RecentApplicationsLimit = 5

func scanApplication(row pgx.Row) (*JobApplication, error) {
	var a JobApplication
	err := row.Scan(&a.ID, &a.UserID, &a.Company, &a.Role, &a.JobURL, &a.Location, &a.SalaryRange,
		&a.Status, &a.AppliedDate, &a.Notes, &a.CVID, &a.CoverLetterID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateJobApplication inserts an application for a.UserID. An empty status becomes saved.
func (db *DB) CreateJobApplication(ctx context.Context, a *JobApplication) (*JobApplication, error) {
	status := a.Status
	if status == "" {
		status = StatusSaved
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO job_applications (user_id, company, role, job_url, location, salary_range, status,
		     applied_date, notes, cv_id, cover_letter_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+applicationColumns,
		a.UserID, a.Company, a.Role, a.JobURL, a.Location, a.SalaryRange, status,
		a.AppliedDate, a.Notes, a.CVID, a.CoverLetterID,
	)
	created, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job application: %w", err)
	}
	return created, nil
}

// GetJobApplication retrieves an application owned by userID. Returns nil if not found.
func (db *DB) GetJobApplication(ctx context.Context, userID, id uuid.UUID) (*JobApplication, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM job_applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	a, err := scanApplication(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job application: %w", err)
	}
	return a, nil
}

// ListJobApplications lists a user's applications, newest first. A non-empty status filters
// the list; limit <= 0 means no limit.
func (db *DB) ListJobApplications(ctx context.Context, userID uuid.UUID, status string, limit int) ([]JobApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM job_applications WHERE user_id = $1`
	args := []any{userID}
	argNum := 2

	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, status)
		argNum++
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}
	defer rows.Close()

	apps := []JobApplication{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job application: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// UpdateJobApplication writes every editable column of a. Returns nil if not found.
func (db *DB) UpdateJobApplication(ctx context.Context, a *JobApplication) (*JobApplication, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE job_applications SET company = $1, role = $2, job_url = $3, location = $4,
		     salary_range = $5, status = $6, applied_date = $7, notes = $8, cv_id = $9,
		     cover_letter_id = $10, updated_at = NOW()
		 WHERE id = $11 AND user_id = $12
		 RETURNING `+applicationColumns,
		a.Company, a.Role, a.JobURL, a.Location, a.SalaryRange, a.Status, a.AppliedDate, a.Notes,
		a.CVID, a.CoverLetterID, a.ID, a.UserID,
	)
	updated, err := scanApplication(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update job application: %w", err)
	}
	return updated, nil
}

// DeleteJobApplication removes an application owned by userID
func (db *DB) DeleteJobApplication(ctx context.Context, userID, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM job_applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete job application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job application %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountApplicationsByStatus returns the number of applications per status. Every known status
// is present in the result, zero when unused.
func (db *DB) CountApplicationsByStatus(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM job_applications WHERE user_id = $1 GROUP BY status`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count job applications: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int, len(ApplicationStatuses))
	for _, s := range ApplicationStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
