package usecase

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/wizard-sync/internal/entity"
)

const (
	StepPersist     = "persist"
	StepCRMSync     = "crm_sync"
	StepSheetAppend = "sheet_append"
	StepNotify      = "notify"

	// PartialFailureWarning is all the caller learns about degraded steps.
	PartialFailureWarning = "Partial failure"
)

type ProcessSubmissionOutput struct {
	Success bool          `json:"success"`
	Warning string        `json:"warning,omitempty"`
	LeadID  string        `json:"-"`
	Steps   []StepOutcome `json:"-"`
	CRM     *SyncReport   `json:"-"`
}

// ProcessSubmissionUseCase stores a submission locally and then pushes it to
// the CRM, the spreadsheet and the sales inbox. Only the local write can fail
// the call. A nil CRM, Sheet or Notifier means that integration is disabled.
type ProcessSubmissionUseCase struct {
	Repo     LeadRepository
	CRM      CRMSyncer
	Sheet    SheetAppender
	Notifier LeadNotifier
	Recorder StepRecorder
	Log      *zap.Logger
	Now      func() time.Time
}

func NewProcessSubmissionUseCase(repo LeadRepository, crm CRMSyncer, sheet SheetAppender, notifier LeadNotifier, recorder StepRecorder, log *zap.Logger) *ProcessSubmissionUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProcessSubmissionUseCase{
		Repo:     repo,
		CRM:      crm,
		Sheet:    sheet,
		Notifier: notifier,
		Recorder: recorder,
		Log:      log,
		Now:      time.Now,
	}
}

func (uc *ProcessSubmissionUseCase) Execute(ctx context.Context, s entity.Submission) (ProcessSubmissionOutput, error) {
	if err := s.Validate(); err != nil {
		return ProcessSubmissionOutput{}, &DomainError{Code: "INVALID_SUBMISSION", Message: err.Error()}
	}

	out := ProcessSubmissionOutput{}
	seq := NewStepSequence(uc.Log.With(zap.String("email", s.Email())), uc.Recorder)

	seq.AddRequired(StepPersist, func(ctx context.Context) error {
		lead, err := entity.NewLeadFromSubmission(s)
		if err != nil {
			return eris.Wrap(err, "map submission")
		}
		if err := uc.Repo.Upsert(ctx, lead); err != nil {
			return eris.Wrap(err, "upsert lead")
		}
		out.LeadID = lead.ID
		return nil
	})
	uc.addDownstream(seq, s, &out)

	steps, err := seq.Execute(ctx)
	out.Steps = steps
	if err != nil {
		return ProcessSubmissionOutput{Success: false, Steps: steps}, &TechnicalError{
			Code:    "LOCAL_PERSIST_FAILED",
			Message: "could not store submission",
			Err:     err,
		}
	}

	return uc.finish(out), nil
}

// Replay reruns the downstream syncs for a stored lead. The local record is
// left as it is.
func (uc *ProcessSubmissionUseCase) Replay(ctx context.Context, email string) (ProcessSubmissionOutput, error) {
	lead, err := uc.Repo.FindByEmail(ctx, email)
	if err != nil {
		return ProcessSubmissionOutput{}, eris.Wrapf(err, "replay %s", email)
	}
	s, err := lead.Submission()
	if err != nil {
		return ProcessSubmissionOutput{}, &DomainError{Code: "NO_STORED_SUBMISSION", Message: err.Error()}
	}

	out := ProcessSubmissionOutput{LeadID: lead.ID}
	seq := NewStepSequence(uc.Log.With(zap.String("email", s.Email()), zap.Bool("replay", true)), uc.Recorder)
	uc.addDownstream(seq, s, &out)

	// no required steps, so Execute cannot fail
	out.Steps, _ = seq.Execute(ctx)
	return uc.finish(out), nil
}

func (uc *ProcessSubmissionUseCase) addDownstream(seq *StepSequence, s entity.Submission, out *ProcessSubmissionOutput) {
	seq.AddBestEffort(StepCRMSync, func(ctx context.Context) error {
		if uc.CRM == nil {
			return Skip("crm not configured")
		}
		report := uc.CRM.Sync(ctx, s)
		out.CRM = &report
		if report.Err != nil {
			return report.Err
		}
		if report.Failed() {
			return eris.Errorf("crm sync degraded, run %s", report.RunID)
		}
		return nil
	})

	seq.AddBestEffort(StepSheetAppend, func(ctx context.Context) error {
		if uc.Sheet == nil {
			return Skip("spreadsheet not configured")
		}
		return uc.Sheet.AppendSubmission(ctx, s, uc.now())
	})

	seq.AddBestEffort(StepNotify, func(ctx context.Context) error {
		if uc.Notifier == nil {
			return Skip("notification not configured")
		}
		return uc.Notifier.NotifyLead(ctx, s, RenderNote(s))
	})
}

func (uc *ProcessSubmissionUseCase) finish(out ProcessSubmissionOutput) ProcessSubmissionOutput {
	out.Success = true
	if HasFailure(out.Steps) {
		out.Warning = PartialFailureWarning
	}
	return out
}

func (uc *ProcessSubmissionUseCase) now() time.Time {
	if uc.Now == nil {
		return time.Now()
	}
	return uc.Now()
}
