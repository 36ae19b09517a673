package repository

import (
	"context"
	"fmt"

	"github.com/andy/jobtrack/internal/db"
	"github.com/andy/jobtrack/internal/domain"
	"github.com/google/uuid"
)

// JobItemRepo is a SQLite implementation of JobItemRepository
type JobItemRepo struct {
	db *db.DB
}

// NewJobItemRepo creates a new JobItemRepo
func NewJobItemRepo(database *db.DB) *JobItemRepo {
	return &JobItemRepo{db: database}
}

// Create inserts a line item, assigning its identifier
func (r *JobItemRepo) Create(ctx context.Context, item *domain.JobItem) error {
	if item.Quantity <= 0 {
		return fmt.Errorf("item %s/%s: quantity must be positive", item.ItemID, item.ItemType)
	}
	if item.JobID == "" {
		return fmt.Errorf("item %s/%s: job ID is required", item.ItemID, item.ItemType)
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	query := `
		INSERT INTO job_items (id, job_id, item_id, item_type, name, unit_price, quantity, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.JobID,
		item.ItemID,
		string(item.ItemType),
		item.Name,
		item.UnitPrice,
		item.Quantity,
		item.Category,
	)
	if err != nil {
		return fmt.Errorf("failed to create job item: %w", err)
	}

	return nil
}

// ListByJob retrieves a job's line items in insertion order
func (r *JobItemRepo) ListByJob(ctx context.Context, jobID string) ([]*domain.JobItem, error) {
	query := `
		SELECT id, job_id, item_id, item_type, name, unit_price, quantity, category
		FROM job_items
		WHERE job_id = ?
		ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.JobItem, 0)
	for rows.Next() {
		item := &domain.JobItem{}
		var itemType string

		err := rows.Scan(
			&item.ID,
			&item.JobID,
			&item.ItemID,
			&itemType,
			&item.Name,
			&item.UnitPrice,
			&item.Quantity,
			&item.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job item: %w", err)
		}
		item.ItemType = domain.ItemType(itemType)

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job items: %w", err)
	}

	return items, nil
}

// DeleteByJob removes all line items of a job
func (r *JobItemRepo) DeleteByJob(ctx context.Context, jobID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM job_items WHERE job_id = ?", jobID); err != nil {
		return fmt.Errorf("failed to delete job items: %w", err)
	}
	return nil
}
