package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andy/jobtrack/internal/domain"
	"github.com/andy/jobtrack/internal/repository"
	"go.uber.org/zap"
)

// ErrClientHasJobs guards client deletion: a client referenced by jobs
// cannot be removed.
var ErrClientHasJobs = errors.New("client has recorded jobs; delete those jobs first")

// ClientService manages client lifecycle, including the referential
// delete guard
type ClientService interface {
	CreateClient(ctx context.Context, client *domain.Client) error
	UpdateClient(ctx context.Context, client *domain.Client) error
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]*domain.Client, error)

	// DeleteClient removes a client, refusing while jobs reference it
	DeleteClient(ctx context.Context, id string) error

	// JobCount returns how many jobs reference a client
	JobCount(ctx context.Context, id string) (int, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
	jobRepo    repository.JobRepository
	log        *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, jobRepo repository.JobRepository, log *zap.Logger) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		jobRepo:    jobRepo,
		log:        log,
	}
}

func (s *clientService) CreateClient(ctx context.Context, client *domain.Client) error {
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return err
	}
	s.log.Info("client created", zap.String("client_id", client.ID))
	return nil
}

func (s *clientService) UpdateClient(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now()
	return s.clientRepo.Update(ctx, client)
}

func (s *clientService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

func (s *clientService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	count, err := s.jobRepo.CountByClient(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w (%d job(s) reference this client)", ErrClientHasJobs, count)
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("client deleted", zap.String("client_id", id))
	return nil
}

func (s *clientService) JobCount(ctx context.Context, id string) (int, error) {
	return s.jobRepo.CountByClient(ctx, id)
}
