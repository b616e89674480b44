package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/wizard-sync/internal/entity"
)

// CaptureLeadUseCase records a partial lead before the wizard is finished.
// A stored submission for the same email is kept.
type CaptureLeadUseCase struct {
	Repo LeadCapturer
	Log  *zap.Logger
}

func NewCaptureLeadUseCase(repo LeadCapturer, log *zap.Logger) *CaptureLeadUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &CaptureLeadUseCase{Repo: repo, Log: log}
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	if errs := ValidateCaptureLeadInput(input); len(errs) > 0 {
		return nil, &DomainError{Code: "INVALID_LEAD", Message: joinValidationErrors(errs)}
	}

	lead := &entity.Lead{
		Email: strings.ToLower(strings.TrimSpace(input.Email)),
		Name:  strings.TrimSpace(input.Name),
		Phone: strings.TrimSpace(input.Phone),
	}
	if err := uc.Repo.Capture(ctx, lead); err != nil {
		uc.Log.Error("lead capture failed", zap.String("email", lead.Email), zap.Error(err))
		return nil, &TechnicalError{Code: "LOCAL_PERSIST_FAILED", Message: "could not store lead", Err: err}
	}

	uc.Log.Info("lead captured", zap.String("email", lead.Email), zap.String("lead_id", lead.ID))
	return &CaptureLeadOutput{ID: lead.ID, Email: lead.Email}, nil
}
