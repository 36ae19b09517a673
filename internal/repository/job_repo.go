package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/jobtrack/internal/db"
	"github.com/andy/jobtrack/internal/domain"
)

// JobRepo is a SQLite implementation of JobRepository
type JobRepo struct {
	db *db.DB
}

// NewJobRepo creates a new JobRepo
func NewJobRepo(database *db.DB) *JobRepo {
	return &JobRepo{db: database}
}

// Create inserts a new job. The ID must already be assigned.
func (r *JobRepo) Create(ctx context.Context, job *domain.Job) error {
	if job.ID == "" {
		return errors.New("job ID must be assigned before create")
	}
	if err := job.Validate(); err != nil {
		return fmt.Errorf("invalid job: %w", err)
	}

	query := `
		INSERT INTO jobs (id, client_id, description, date, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		job.ID,
		job.ClientID,
		job.Description,
		job.Date,
		job.Notes,
		job.CreatedAt.Format(timeLayout),
		job.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetByID retrieves a job by ID
func (r *JobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `
		SELECT id, client_id, description, date, notes, created_at, updated_at
		FROM jobs
		WHERE id = ?
	`

	job := &domain.Job{}
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&job.ClientID,
		&job.Description,
		&job.Date,
		&job.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if job.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if job.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return job, nil
}

// List retrieves jobs, newest date first, optionally for one client
func (r *JobRepo) List(ctx context.Context, clientID *string) ([]*domain.Job, error) {
	query := `
		SELECT id, client_id, description, date, notes, created_at, updated_at
		FROM jobs
		WHERE ? IS NULL OR client_id = ?
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, clientID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job := &domain.Job{}
		var createdAt, updatedAt string

		err := rows.Scan(
			&job.ID,
			&job.ClientID,
			&job.Description,
			&job.Date,
			&job.Notes,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}

		if job.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if job.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}

		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return jobs, nil
}

// Update updates an existing job
func (r *JobRepo) Update(ctx context.Context, job *domain.Job) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("invalid job: %w", err)
	}

	query := `
		UPDATE jobs
		SET client_id = ?, description = ?, date = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		job.ClientID,
		job.Description,
		job.Date,
		job.Notes,
		job.UpdatedAt.Format(timeLayout),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job %s: %w", job.ID, ErrNotFound)
	}

	return nil
}

// Delete removes a job. Items must be removed first (enforced by the
// service's cascade, and by the foreign key).
func (r *JobRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}

	return nil
}

// CountByClient returns how many jobs reference a client
func (r *JobRepo) CountByClient(ctx context.Context, clientID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM jobs WHERE client_id = ?", clientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}
