package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/wizard-sync/internal/entity"
	"github.com/xavierca1/wizard-sync/internal/infra/integration/ghl"
)

// ContactStore is the contact side of the CRM.
type ContactStore interface {
	FindContactByEmail(ctx context.Context, email string) (string, error)
	CreateContact(ctx context.Context, in ghl.ContactInput) (string, error)
	UpdateContact(ctx context.Context, id string, in ghl.ContactInput) error
}

type PipelineLister interface {
	ListPipelines(ctx context.Context) ([]ghl.Pipeline, error)
}

type OpportunityCreator interface {
	CreateOpportunity(ctx context.Context, in ghl.OpportunityInput) (string, error)
}

type NoteCreator interface {
	CreateNote(ctx context.Context, contactID, body string) (string, error)
}

// CRMClient is everything a sync run needs from the CRM. *ghl.Client
// satisfies it.
type CRMClient interface {
	ContactStore
	PipelineLister
	OpportunityCreator
	NoteCreator
}

type LeadRepository interface {
	Upsert(ctx context.Context, lead *entity.Lead) error
	FindByEmail(ctx context.Context, email string) (*entity.Lead, error)
}

// LeadCapturer stores contact fields without touching a stored submission.
type LeadCapturer interface {
	Capture(ctx context.Context, lead *entity.Lead) error
}

// SheetAppender writes one spreadsheet row per processed submission.
type SheetAppender interface {
	AppendSubmission(ctx context.Context, s entity.Submission, processedAt time.Time) error
}

type LeadNotifier interface {
	NotifyLead(ctx context.Context, s entity.Submission, note string) error
}

type ReplayPublisher interface {
	PublishReplay(ctx context.Context, email string) error
}

// StepRecorder counts step outcomes, typically into metrics.
type StepRecorder interface {
	RecordStep(step, status string)
}

// CRMSyncer runs one CRM sync. *CRMSync satisfies it.
type CRMSyncer interface {
	Sync(ctx context.Context, s entity.Submission) SyncReport
}
