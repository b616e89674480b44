package usecase

import (
	"errors"

	"github.com/rotisserie/eris"
)

// Sync failures. Only ErrContactResolution ends a CRM sync run early; the
// others are recorded and the run moves on.
var (
	ErrContactResolution   = eris.New("crm contact could not be resolved")
	ErrPipelineNotFound    = eris.New("crm pipeline not found")
	ErrStageNotFound       = eris.New("crm pipeline has no stages")
	ErrOpportunityRejected = eris.New("crm rejected opportunity")
	ErrNoteRejected        = eris.New("crm rejected note")
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is a failure the caller has to see. Err keeps the cause.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
