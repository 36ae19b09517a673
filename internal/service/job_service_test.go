package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/andy/jobtrack/internal/domain"
	"github.com/andy/jobtrack/internal/repository"
	"go.uber.org/zap"
)

// mock implementations
type mockClientRepo struct {
	clients map[string]*domain.Client
	deleted []string
}

func (m *mockClientRepo) Create(ctx context.Context, client *domain.Client) error { return nil }
func (m *mockClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("client %s: %w", id, repository.ErrNotFound)
}
func (m *mockClientRepo) List(ctx context.Context) ([]*domain.Client, error)      { return nil, nil }
func (m *mockClientRepo) Update(ctx context.Context, client *domain.Client) error { return nil }
func (m *mockClientRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockJobRepo struct {
	jobs      map[string]*domain.Job
	ops       *[]string
	jobCounts map[string]int
}

func (m *mockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	*m.ops = append(*m.ops, "job-create")
	if m.jobs != nil {
		m.jobs[job.ID] = job
	}
	return nil
}
func (m *mockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return nil, fmt.Errorf("job %s: %w", id, repository.ErrNotFound)
}
func (m *mockJobRepo) List(ctx context.Context, clientID *string) ([]*domain.Job, error) {
	return nil, nil
}
func (m *mockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	*m.ops = append(*m.ops, "job-update")
	return nil
}
func (m *mockJobRepo) Delete(ctx context.Context, id string) error {
	*m.ops = append(*m.ops, "job-delete")
	return nil
}
func (m *mockJobRepo) CountByClient(ctx context.Context, clientID string) (int, error) {
	return m.jobCounts[clientID], nil
}

type mockItemRepo struct {
	ops     *[]string
	created []*domain.JobItem
}

func (m *mockItemRepo) Create(ctx context.Context, item *domain.JobItem) error {
	*m.ops = append(*m.ops, "item-create")
	m.created = append(m.created, item)
	return nil
}
func (m *mockItemRepo) ListByJob(ctx context.Context, jobID string) ([]*domain.JobItem, error) {
	return nil, nil
}
func (m *mockItemRepo) DeleteByJob(ctx context.Context, jobID string) error {
	*m.ops = append(*m.ops, "items-delete")
	return nil
}

func newTestService(clients map[string]*domain.Client) (*jobService, *mockJobRepo, *mockItemRepo) {
	ops := []string{}
	jobRepo := &mockJobRepo{jobs: map[string]*domain.Job{}, ops: &ops}
	itemRepo := &mockItemRepo{ops: &ops}
	svc := &jobService{
		jobRepo:    jobRepo,
		itemRepo:   itemRepo,
		clientRepo: &mockClientRepo{clients: clients},
		log:        zap.NewNop(),
	}
	return svc, jobRepo, itemRepo
}

func TestFinalizeJob_CheckOrder(t *testing.T) {
	// Missing clientId reports first even when other fields are also bad
	_, _, err := FinalizeJob(&domain.Job{Description: "x", Date: "2024-01-01"}, nil, "")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "clientId" {
		t.Fatalf("expected clientId validation error, got %v", err)
	}

	_, _, err = FinalizeJob(&domain.Job{ClientID: "c1", Date: ""}, nil, "")
	if !errors.As(err, &ve) || ve.Field != "description" {
		t.Fatalf("expected description validation error, got %v", err)
	}

	_, _, err = FinalizeJob(&domain.Job{ClientID: "c1", Description: "fix tap", Date: "  "}, nil, "")
	if !errors.As(err, &ve) || ve.Field != "date" {
		t.Fatalf("expected date validation error, got %v", err)
	}
}

func TestFinalizeJob_StampsItems(t *testing.T) {
	draft := &domain.Job{ClientID: "c1", Description: "fix tap", Date: "2024-01-01"}
	items := []*domain.JobItem{
		{ItemID: "P1", ItemType: domain.ItemTypePart, UnitPrice: "1.50", Quantity: 2},
		{ItemID: "L1", ItemType: domain.ItemTypeLabour, UnitPrice: "45.00", Quantity: 1},
	}

	job, stamped, err := FinalizeJob(draft, items, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected a generated job ID")
	}
	for _, it := range stamped {
		if it.JobID != job.ID {
			t.Fatalf("item %s not stamped with job ID %s", it.ItemID, job.ID)
		}
	}
	// The input selection must stay untouched
	if items[0].JobID != "" {
		t.Fatal("finalize must not mutate its input items")
	}
}

func TestFinalizeJob_ReusesExistingID(t *testing.T) {
	draft := &domain.Job{ClientID: "c1", Description: "fix tap", Date: "2024-01-01"}

	job, stamped, err := FinalizeJob(draft, []*domain.JobItem{{ItemID: "P1", ItemType: domain.ItemTypePart, Quantity: 1}}, "job-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID != "job-42" {
		t.Fatalf("expected reused ID job-42, got %s", job.ID)
	}
	if stamped[0].JobID != "job-42" {
		t.Fatalf("item stamped with %s, want job-42", stamped[0].JobID)
	}
}

func TestSaveJob_UnknownClient(t *testing.T) {
	svc, _, _ := newTestService(map[string]*domain.Client{})

	_, err := svc.SaveJob(context.Background(),
		&domain.Job{ClientID: "missing", Description: "x", Date: "2024-01-01"}, nil, "")

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "clientId" {
		t.Fatalf("expected clientId validation error, got %v", err)
	}
}

func TestSaveJob_New(t *testing.T) {
	svc, jobRepo, itemRepo := newTestService(map[string]*domain.Client{
		"c1": {ID: "c1", Name: "ACME Plumbing"},
	})

	items := []*domain.JobItem{
		{ItemID: "P1", ItemType: domain.ItemTypePart, UnitPrice: "1.50", Quantity: 2},
	}
	job, err := svc.SaveJob(context.Background(),
		&domain.Job{ClientID: "c1", Description: "fix tap", Date: "2024-01-01"}, items, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"job-create", "item-create"}
	if len(*jobRepo.ops) != len(want) {
		t.Fatalf("expected ops %v, got %v", want, *jobRepo.ops)
	}
	for i, op := range want {
		if (*jobRepo.ops)[i] != op {
			t.Fatalf("expected ops %v, got %v", want, *jobRepo.ops)
		}
	}
	if itemRepo.created[0].JobID != job.ID {
		t.Fatalf("persisted item carries job ID %s, want %s", itemRepo.created[0].JobID, job.ID)
	}
}

func TestSaveJob_ExistingReplacesItems(t *testing.T) {
	svc, jobRepo, _ := newTestService(map[string]*domain.Client{
		"c1": {ID: "c1", Name: "ACME Plumbing"},
	})

	items := []*domain.JobItem{
		{ItemID: "P1", ItemType: domain.ItemTypePart, UnitPrice: "1.50", Quantity: 1},
		{ItemID: "L1", ItemType: domain.ItemTypeLabour, UnitPrice: "45.00", Quantity: 1},
	}
	_, err := svc.SaveJob(context.Background(),
		&domain.Job{ClientID: "c1", Description: "fix tap", Date: "2024-01-01"}, items, "job-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Update, clear old items, then reinsert the new set in order
	want := []string{"job-update", "items-delete", "item-create", "item-create"}
	got := *jobRepo.ops
	if len(got) != len(want) {
		t.Fatalf("expected ops %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ops %v, got %v", want, got)
		}
	}
}

func TestDeleteJob_CascadesItemsFirst(t *testing.T) {
	svc, jobRepo, _ := newTestService(nil)

	if err := svc.DeleteJob(context.Background(), "job-42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := *jobRepo.ops
	if len(got) != 2 || got[0] != "items-delete" || got[1] != "job-delete" {
		t.Fatalf("expected items deleted before job, got %v", got)
	}
}

func TestDeleteClient_RefusedWhileJobsExist(t *testing.T) {
	ops := []string{}
	clientRepo := &mockClientRepo{clients: map[string]*domain.Client{"c1": {ID: "c1", Name: "ACME"}}}
	jobRepo := &mockJobRepo{ops: &ops, jobCounts: map[string]int{"c1": 2}}
	svc := NewClientService(clientRepo, jobRepo, zap.NewNop())

	err := svc.DeleteClient(context.Background(), "c1")
	if !errors.Is(err, ErrClientHasJobs) {
		t.Fatalf("expected ErrClientHasJobs, got %v", err)
	}
	if len(clientRepo.deleted) != 0 {
		t.Fatal("guarded delete must not reach the store")
	}

	// With no referencing jobs the delete goes through
	jobRepo.jobCounts["c1"] = 0
	if err := svc.DeleteClient(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clientRepo.deleted) != 1 || clientRepo.deleted[0] != "c1" {
		t.Fatalf("expected c1 deleted, got %v", clientRepo.deleted)
	}
}
