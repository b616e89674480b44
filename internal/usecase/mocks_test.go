package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"

	"github.com/xavierca1/wizard-sync/internal/entity"
	"github.com/xavierca1/wizard-sync/internal/infra/integration/ghl"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockCRM
type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) FindContactByEmail(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockCRM) CreateContact(ctx context.Context, in ghl.ContactInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockCRM) UpdateContact(ctx context.Context, id string, in ghl.ContactInput) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *MockCRM) ListPipelines(ctx context.Context) ([]ghl.Pipeline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ghl.Pipeline), args.Error(1)
}

func (m *MockCRM) CreateOpportunity(ctx context.Context, in ghl.OpportunityInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockCRM) CreateNote(ctx context.Context, contactID, body string) (string, error) {
	args := m.Called(ctx, contactID, body)
	return args.String(0), args.Error(1)
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

// MockSheet
type MockSheet struct {
	mock.Mock
}

func (m *MockSheet) AppendSubmission(ctx context.Context, s entity.Submission, at time.Time) error {
	args := m.Called(ctx, s, at)
	return args.Error(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyLead(ctx context.Context, s entity.Submission, note string) error {
	args := m.Called(ctx, s, note)
	return args.Error(0)
}

// MockCRMSyncer
type MockCRMSyncer struct {
	mock.Mock
}

func (m *MockCRMSyncer) Sync(ctx context.Context, s entity.Submission) SyncReport {
	args := m.Called(ctx, s)
	return args.Get(0).(SyncReport)
}

// memLeadRepository keeps leads keyed by email, like the real upsert.
type memLeadRepository struct {
	mu    sync.Mutex
	leads map[string]*entity.Lead
}

func newMemLeadRepository() *memLeadRepository {
	return &memLeadRepository{leads: map[string]*entity.Lead{}}
}

func (r *memLeadRepository) Upsert(_ context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(lead.Email)
	if existing, ok := r.leads[key]; ok {
		lead.ID = existing.ID
	} else {
		lead.ID = "lead-" + key
	}
	cp := *lead
	r.leads[key] = &cp
	return nil
}

func (r *memLeadRepository) FindByEmail(_ context.Context, email string) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[strings.ToLower(email)]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	cp := *lead
	return &cp, nil
}

func (r *memLeadRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.leads)
}

// stepCounter is a StepRecorder for assertions.
type stepCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newStepCounter() *stepCounter {
	return &stepCounter{counts: map[string]int{}}
}

func (c *stepCounter) RecordStep(step, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[step+"/"+status]++
}

func (c *stepCounter) get(step, status string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[step+"/"+status]
}

func sampleSubmission() entity.Submission {
	return entity.Submission{
		Contact: entity.Contact{Email: "a@b.com", FullName: "Ana Lopez"},
		Requirements: []entity.Requirement{
			{Text: "Secure data storage", Value: 500, Included: true},
		},
		TotalEstimate: 500,
	}
}
