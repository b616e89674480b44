package entity

import (
	"context"
	"errors"
	"time"
)

var ErrLeadNotFound = errors.New("lead not found")

// Lead is the local record of a wizard contact. There is exactly one per email;
// later submissions overwrite it.
type Lead struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Company       string    `json:"company,omitempty"`
	TotalEstimate Amount    `json:"total_estimate"`
	Data          string    `json:"data,omitempty"` // encoded Submission
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewLeadFromSubmission maps a submission onto its local record.
func NewLeadFromSubmission(s Submission) (*Lead, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	data, err := s.Encode()
	if err != nil {
		return nil, err
	}
	return &Lead{
		Email:         s.Email(),
		Name:          s.Contact.FullName,
		Phone:         s.Contact.Phone,
		Company:       s.Contact.CompanyName,
		TotalEstimate: s.TotalEstimate,
		Data:          data,
	}, nil
}

// Submission decodes the stored payload.
func (l *Lead) Submission() (Submission, error) {
	if l.Data == "" {
		return Submission{}, errors.New("lead has no stored submission")
	}
	return DecodeSubmission(l.Data)
}

type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *Lead) error
	Capture(ctx context.Context, lead *Lead) error
	FindByEmail(ctx context.Context, email string) (*Lead, error)
}
