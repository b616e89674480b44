package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/wizard-sync/internal/entity"
	"github.com/xavierca1/wizard-sync/internal/infra/http/middleware"
	"github.com/xavierca1/wizard-sync/internal/usecase"
)

const maxSubmissionBytes = 1 << 20

type SubmissionProcessor interface {
	Execute(ctx context.Context, s entity.Submission) (usecase.ProcessSubmissionOutput, error)
}

type WizardHandler struct {
	Processor SubmissionProcessor
	Log       *zap.Logger
}

func NewWizardHandler(p SubmissionProcessor, log *zap.Logger) *WizardHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WizardHandler{Processor: p, Log: log}
}

// Submit handles POST /wizard/submit. Once the submission is stored the answer
// is 200, with a warning when an integration degraded.
//
// Processing is detached from the request: a client that hangs up after
// sending still gets its lead stored and synced.
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	var s entity.Submission
	if err := json.Unmarshal(body, &s); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	s.Raw = body

	if err := s.Validate(); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "Email is required")
		return
	}

	out, err := h.Processor.Execute(context.WithoutCancel(r.Context()), s)
	if err != nil {
		if usecase.IsDomainError(err) {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_SUBMISSION", err.Error())
			return
		}
		middleware.RecordSubmission("failed")
		h.Log.Error("wizard submission failed", zap.String("email", s.Email()), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Success: false, Message: "Failed to store submission"})
		return
	}

	if out.Warning != "" {
		middleware.RecordSubmission("partial")
	} else {
		middleware.RecordSubmission("ok")
	}
	writeJSON(w, http.StatusOK, out)
}
