package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/wizard-sync/internal/entity"
	"github.com/xavierca1/wizard-sync/internal/infra/integration/ghl"
)

type SyncState string

const (
	StateIdle                 SyncState = "idle"
	StateContactResolved      SyncState = "contact_resolved"
	StateStageResolved        SyncState = "stage_resolved"
	StateOpportunityAttempted SyncState = "opportunity_attempted"
	StateNoteAttempted        SyncState = "note_attempted"
	StateDone                 SyncState = "done"
)

const (
	StepCRMContact       = "crm_contact"
	StepCRMContactUpdate = "crm_contact_update"
	StepCRMStage         = "crm_stage"
	StepCRMOpportunity   = "crm_opportunity"
	StepCRMNote          = "crm_note"

	opportunitySuffix = " - App Estimate"
	DefaultStageName  = "New Lead"
)

// SyncReport describes one CRM sync run. Err is set only when the contact
// could not be resolved and the run stopped there.
type SyncReport struct {
	RunID         string           `json:"run_id"`
	ContactID     string           `json:"contact_id,omitempty"`
	Stage         *StageResolution `json:"stage,omitempty"`
	OpportunityID string           `json:"opportunity_id,omitempty"`
	NoteID        string           `json:"note_id,omitempty"`
	States        []SyncState      `json:"states"`
	Steps         []StepOutcome    `json:"steps"`
	Err           error            `json:"-"`
}

func (r SyncReport) Failed() bool {
	return r.Err != nil || HasFailure(r.Steps)
}

func (r SyncReport) Final() SyncState {
	if len(r.States) == 0 {
		return StateIdle
	}
	return r.States[len(r.States)-1]
}

type CRMSyncConfig struct {
	PipelineID string
	StageName  string
}

// CRMSync reconciles one submission against the CRM: contact, then
// opportunity, then note. Every step after the contact is independent of the
// previous one failing.
type CRMSync struct {
	crm      CRMClient
	stages   *StageResolver
	cfg      CRMSyncConfig
	log      *zap.Logger
	recorder StepRecorder
}

func NewCRMSync(crm CRMClient, cfg CRMSyncConfig, log *zap.Logger, recorder StepRecorder) *CRMSync {
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(cfg.StageName) == "" {
		cfg.StageName = DefaultStageName
	}
	return &CRMSync{
		crm:      crm,
		stages:   NewStageResolver(crm, log),
		cfg:      cfg,
		log:      log,
		recorder: recorder,
	}
}

type syncRun struct {
	*SyncReport
	sync *CRMSync
	log  *zap.Logger
}

func (r *syncRun) enter(s SyncState) {
	r.States = append(r.States, s)
}

func (r *syncRun) step(ctx context.Context, name string, fn func(context.Context) error) error {
	err := runStep(ctx, Step{Name: name, Fn: fn})
	outcome := outcomeOf(name, err)
	r.Steps = append(r.Steps, outcome)
	record(r.sync.recorder, outcome)

	switch outcome.Status {
	case StepFailed:
		r.log.Warn("crm step failed", zap.String("step", name), zap.Error(err))
	case StepSkipped:
		r.log.Info("crm step skipped", zap.String("step", name), zap.String("reason", outcome.Reason))
	}
	return err
}

// Sync never returns an error; everything that happened is in the report.
func (c *CRMSync) Sync(ctx context.Context, s entity.Submission) SyncReport {
	report := &SyncReport{RunID: uuid.NewString(), States: []SyncState{StateIdle}}
	run := &syncRun{
		SyncReport: report,
		sync:       c,
		log:        c.log.With(zap.String("sync_run", report.RunID), zap.String("email", s.Email())),
	}

	contact := ghl.ContactInput{
		Email:       s.Email(),
		FullName:    s.Contact.FullName,
		Phone:       s.Contact.Phone,
		CompanyName: s.Contact.CompanyName,
	}

	if err := run.step(ctx, StepCRMContact, func(ctx context.Context) error {
		id, err := c.resolveContact(ctx, run, contact)
		report.ContactID = id
		return err
	}); err != nil {
		report.Err = err
		run.enter(StateDone)
		return *report
	}
	run.enter(StateContactResolved)
	run.log = run.log.With(zap.String("contact_id", report.ContactID))

	c.syncOpportunity(ctx, run, s)

	_ = run.step(ctx, StepCRMNote, func(ctx context.Context) error {
		id, err := c.crm.CreateNote(ctx, report.ContactID, RenderNote(s))
		if err != nil {
			return eris.Wrapf(ErrNoteRejected, "%v", err)
		}
		report.NoteID = id
		return nil
	})
	run.enter(StateNoteAttempted)
	run.enter(StateDone)

	return *report
}

// resolveContact searches first. A found contact is updated and kept even if
// the update fails; otherwise a new contact is created.
func (c *CRMSync) resolveContact(ctx context.Context, run *syncRun, in ghl.ContactInput) (string, error) {
	id, err := c.crm.FindContactByEmail(ctx, in.Email)
	if err == nil && id != "" {
		_ = run.step(ctx, StepCRMContactUpdate, func(ctx context.Context) error {
			return c.crm.UpdateContact(ctx, id, in)
		})
		return id, nil
	}
	if err != nil && !eris.Is(err, ghl.ErrContactNotFound) {
		run.log.Warn("crm contact search failed, creating", zap.Error(err))
	}

	id, err = c.crm.CreateContact(ctx, in)
	if err != nil {
		return "", eris.Wrapf(ErrContactResolution, "%v", err)
	}
	if id == "" {
		return "", eris.Wrap(ErrContactResolution, "create returned no id")
	}
	return id, nil
}

func (c *CRMSync) syncOpportunity(ctx context.Context, run *syncRun, s entity.Submission) {
	report := run.SyncReport

	if c.cfg.PipelineID == "" {
		_ = run.step(ctx, StepCRMStage, skipped("no pipeline configured"))
		_ = run.step(ctx, StepCRMOpportunity, skipped("no pipeline configured"))
		return
	}

	if err := run.step(ctx, StepCRMStage, func(ctx context.Context) error {
		res, err := c.stages.Resolve(ctx, c.cfg.PipelineID, c.cfg.StageName)
		if err != nil {
			return err
		}
		report.Stage = &res
		return nil
	}); err != nil {
		_ = run.step(ctx, StepCRMOpportunity, skipped("stage not resolved"))
		run.enter(StateOpportunityAttempted)
		return
	}
	run.enter(StateStageResolved)

	_ = run.step(ctx, StepCRMOpportunity, func(ctx context.Context) error {
		id, err := c.crm.CreateOpportunity(ctx, ghl.OpportunityInput{
			ContactID:     report.ContactID,
			PipelineID:    report.Stage.PipelineID,
			StageID:       report.Stage.StageID,
			Name:          OpportunityName(s.Contact.FullName),
			MonetaryValue: s.TotalEstimate.Float64(),
		})
		if err != nil {
			return eris.Wrapf(ErrOpportunityRejected, "%v", err)
		}
		report.OpportunityID = id
		return nil
	})
	run.enter(StateOpportunityAttempted)
}

// OpportunityName is "<full name> - App Estimate", with "Lead" for a blank name.
func OpportunityName(fullName string) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		name = "Lead"
	}
	return name + opportunitySuffix
}

func skipped(reason string) func(context.Context) error {
	return func(context.Context) error { return Skip(reason) }
}
