package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/wizard-sync/internal/entity"
	"github.com/xavierca1/wizard-sync/internal/usecase"
)

type LeadCapturer interface {
	Execute(ctx context.Context, input usecase.CaptureLeadInput) (*usecase.CaptureLeadOutput, error)
}

type LeadFinder interface {
	FindByEmail(ctx context.Context, email string) (*entity.Lead, error)
}

type LeadHandler struct {
	Capture LeadCapturer
	Leads   LeadFinder
	// Replays is nil when no queue is configured.
	Replays usecase.ReplayPublisher
	Log     *zap.Logger
}

func NewLeadHandler(capture LeadCapturer, leads LeadFinder, replays usecase.ReplayPublisher, log *zap.Logger) *LeadHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LeadHandler{Capture: capture, Leads: leads, Replays: replays, Log: log}
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// CaptureLead handles POST /leads.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	var req usecase.CaptureLeadInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	out, err := h.Capture.Execute(r.Context(), req)
	if err != nil {
		var de *usecase.DomainError
		if errors.As(err, &de) {
			writeErrorResponse(w, http.StatusBadRequest, de.Code, de.Message)
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "LOCAL_PERSIST_FAILED", "Failed to capture lead")
		return
	}

	writeJSON(w, http.StatusOK, CaptureLeadResponse{Success: true, ID: out.ID})
}

// ReplayLead handles POST /leads/{email}/replay by queueing the stored
// submission for another pass through the integrations.
func (h *LeadHandler) ReplayLead(w http.ResponseWriter, r *http.Request) {
	if h.Replays == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "REPLAY_DISABLED", "Replay queue is not configured")
		return
	}

	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	email = strings.ToLower(strings.TrimSpace(email))
	if err != nil || email == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "Email is required")
		return
	}

	if _, err := h.Leads.FindByEmail(r.Context(), email); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
			return
		}
		h.Log.Error("replay lookup failed", zap.String("email", email), zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load lead")
		return
	}

	if err := h.Replays.PublishReplay(r.Context(), email); err != nil {
		h.Log.Error("replay publish failed", zap.String("email", email), zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "QUEUE_ERROR", "Failed to queue replay")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]bool{"success": true})
}
