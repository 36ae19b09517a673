package repository

import (
	"context"
	"errors"

	"github.com/andy/jobtrack/internal/domain"
)

// ErrNotFound is wrapped by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ClientRepository manages client persistence
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error // assigns ID
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) error
}

// JobRepository manages job persistence. Job IDs are assigned by the
// assembler before Create is called.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	List(ctx context.Context, clientID *string) ([]*domain.Job, error)
	Update(ctx context.Context, job *domain.Job) error
	Delete(ctx context.Context, id string) error
	CountByClient(ctx context.Context, clientID string) (int, error)
}

// JobItemRepository manages persisted line items
type JobItemRepository interface {
	Create(ctx context.Context, item *domain.JobItem) error // assigns ID
	ListByJob(ctx context.Context, jobID string) ([]*domain.JobItem, error)
	DeleteByJob(ctx context.Context, jobID string) error
}
