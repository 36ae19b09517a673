package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andy/jobtrack/internal/domain"
	"github.com/andy/jobtrack/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ValidationError names the first missing or invalid field of a job
// draft, in the fixed check order clientId, description, date. Callers
// route the user back to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
}

// FinalizeJob turns a draft and its selection into a persistable job
// plus line items. For a new job (existingJobID empty) a fresh
// identifier is generated; otherwise the given one is reused verbatim.
// Every item is stamped with the job's identifier. The function is
// pure: persistence (including replacing previously stored items) is
// the caller's concern.
func FinalizeJob(draft *domain.Job, items []*domain.JobItem, existingJobID string) (*domain.Job, []*domain.JobItem, error) {
	if strings.TrimSpace(draft.ClientID) == "" {
		return nil, nil, missingField("clientId")
	}
	if strings.TrimSpace(draft.Description) == "" {
		return nil, nil, missingField("description")
	}
	if strings.TrimSpace(draft.Date) == "" {
		return nil, nil, missingField("date")
	}

	job := *draft
	if existingJobID != "" {
		job.ID = existingJobID
	} else {
		job.ID = uuid.NewString()
	}

	stamped := make([]*domain.JobItem, 0, len(items))
	for _, it := range items {
		copied := *it
		copied.JobID = job.ID
		stamped = append(stamped, &copied)
	}

	return &job, stamped, nil
}

// JobService manages job lifecycle: save with item replacement, cascade
// delete, and the summary views shared by the detail and list surfaces
type JobService interface {
	// SaveJob validates and persists a job draft with its selected
	// items. existingJobID empty means a new job; otherwise the stored
	// job is updated and its items replaced.
	SaveJob(ctx context.Context, draft *domain.Job, items []*domain.JobItem, existingJobID string) (*domain.Job, error)

	// GetJob retrieves a job with its client and items populated
	GetJob(ctx context.Context, id string) (*domain.Job, error)

	// ListJobs lists jobs with clients and items populated, optionally
	// for one client
	ListJobs(ctx context.Context, clientID *string) ([]*domain.Job, error)

	// DeleteJob removes a job and its line items
	DeleteJob(ctx context.Context, id string) error
}

type jobService struct {
	jobRepo    repository.JobRepository
	itemRepo   repository.JobItemRepository
	clientRepo repository.ClientRepository
	log        *zap.Logger
}

// NewJobService creates a new job service
func NewJobService(
	jobRepo repository.JobRepository,
	itemRepo repository.JobItemRepository,
	clientRepo repository.ClientRepository,
	log *zap.Logger,
) JobService {
	return &jobService{
		jobRepo:    jobRepo,
		itemRepo:   itemRepo,
		clientRepo: clientRepo,
		log:        log,
	}
}

func (s *jobService) SaveJob(ctx context.Context, draft *domain.Job, items []*domain.JobItem, existingJobID string) (*domain.Job, error) {
	// Resolve the client before anything else so an unknown reference
	// reports as a clientId problem ahead of the other field checks
	if strings.TrimSpace(draft.ClientID) == "" {
		return nil, missingField("clientId")
	}
	if _, err := s.clientRepo.GetByID(ctx, draft.ClientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ValidationError{Field: "clientId", Message: "client not found"}
		}
		return nil, err
	}

	job, stamped, err := FinalizeJob(draft, items, existingJobID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job.UpdatedAt = now

	if existingJobID == "" {
		job.CreatedAt = now
		if err := s.jobRepo.Create(ctx, job); err != nil {
			return nil, err
		}
	} else {
		if err := s.jobRepo.Update(ctx, job); err != nil {
			return nil, err
		}
		// Replace the stored item set: delete then reinsert. The two
		// steps are separate store calls with no rollback; a crash in
		// between leaves a partial item set.
		if err := s.itemRepo.DeleteByJob(ctx, job.ID); err != nil {
			return nil, fmt.Errorf("failed to clear existing items: %w", err)
		}
	}

	for _, item := range stamped {
		if err := s.itemRepo.Create(ctx, item); err != nil {
			s.log.Error("job item insert failed mid-save",
				zap.String("job_id", job.ID),
				zap.String("item_id", item.ItemID),
				zap.Error(err))
			return nil, fmt.Errorf("failed to save item %s: %w", item.Name, err)
		}
	}

	job.Items = stamped

	s.log.Info("job saved",
		zap.String("job_id", job.ID),
		zap.String("client_id", job.ClientID),
		zap.Int("items", len(stamped)),
		zap.Bool("new", existingJobID == ""))

	return job, nil
}

func (s *jobService) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.populate(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context, clientID *string) ([]*domain.Job, error) {
	jobs, err := s.jobRepo.List(ctx, clientID)
	if err != nil {
		return nil, err
	}

	for _, job := range jobs {
		if err := s.populate(ctx, job); err != nil {
			return nil, err
		}
	}

	return jobs, nil
}

// populate attaches the client and line items for display. Totals are
// not stored anywhere: every surface derives them from the items via
// ComputeTotals.
func (s *jobService) populate(ctx context.Context, job *domain.Job) error {
	client, err := s.clientRepo.GetByID(ctx, job.ClientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	job.Client = client

	items, err := s.itemRepo.ListByJob(ctx, job.ID)
	if err != nil {
		return err
	}
	job.Items = items

	return nil
}

func (s *jobService) DeleteJob(ctx context.Context, id string) error {
	// Cascade: items first, then the job. Sequential calls, in line
	// with the save path's replacement semantics.
	if err := s.itemRepo.DeleteByJob(ctx, id); err != nil {
		return err
	}

	if err := s.jobRepo.Delete(ctx, id); err != nil {
		s.log.Error("job delete failed after items were removed",
			zap.String("job_id", id),
			zap.Error(err))
		return err
	}

	s.log.Info("job deleted", zap.String("job_id", id))
	return nil
}
