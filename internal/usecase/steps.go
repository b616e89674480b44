package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepSkipped   StepStatus = "skipped"
	StepFailed    StepStatus = "failed"
)

// StepOutcome is what happened to one named step.
type StepOutcome struct {
	Step   string     `json:"step"`
	Status StepStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

type skipError struct {
	reason string
}

func (e *skipError) Error() string {
	return "skipped: " + e.reason
}

// Skip is returned by a step that does not apply, usually because it is not
// configured. A skip is neither a success nor a failure.
func Skip(reason string) error {
	return &skipError{reason: reason}
}

type Step struct {
	Name     string
	Required bool
	Fn       func(context.Context) error
}

// StepSequence runs steps strictly in order. A failing required step stops
// the sequence; a failing best-effort step is logged and the next one runs.
type StepSequence struct {
	steps    []Step
	log      *zap.Logger
	recorder StepRecorder
}

func NewStepSequence(log *zap.Logger, recorder StepRecorder) *StepSequence {
	if log == nil {
		log = zap.NewNop()
	}
	return &StepSequence{log: log, recorder: recorder}
}

func (s *StepSequence) AddRequired(name string, fn func(context.Context) error) {
	s.steps = append(s.steps, Step{Name: name, Required: true, Fn: fn})
}

func (s *StepSequence) AddBestEffort(name string, fn func(context.Context) error) {
	s.steps = append(s.steps, Step{Name: name, Fn: fn})
}

// Execute returns one outcome per step that ran. The error is non-nil only
// when a required step failed.
func (s *StepSequence) Execute(ctx context.Context) ([]StepOutcome, error) {
	outcomes := make([]StepOutcome, 0, len(s.steps))

	for _, step := range s.steps {
		err := runStep(ctx, step)
		outcome := outcomeOf(step.Name, err)
		outcomes = append(outcomes, outcome)
		record(s.recorder, outcome)

		switch outcome.Status {
		case StepSkipped:
			s.log.Info("step skipped", zap.String("step", step.Name), zap.String("reason", outcome.Reason))
		case StepFailed:
			if step.Required {
				s.log.Error("required step failed", zap.String("step", step.Name), zap.Error(err))
				return outcomes, eris.Wrapf(err, "step %s", step.Name)
			}
			s.log.Warn("best-effort step failed", zap.String("step", step.Name), zap.Error(err))
		}
	}

	return outcomes, nil
}

// runStep turns a panic inside a step into an ordinary failure.
func runStep(ctx context.Context, step Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in step %s: %v", step.Name, r)
		}
	}()
	return step.Fn(ctx)
}

func outcomeOf(name string, err error) StepOutcome {
	if err == nil {
		return StepOutcome{Step: name, Status: StepSucceeded}
	}
	var skip *skipError
	if errors.As(err, &skip) {
		return StepOutcome{Step: name, Status: StepSkipped, Reason: skip.reason}
	}
	return StepOutcome{Step: name, Status: StepFailed, Reason: err.Error()}
}

func record(r StepRecorder, o StepOutcome) {
	if r != nil {
		r.RecordStep(o.Step, string(o.Status))
	}
}

// HasFailure reports whether any outcome failed.
func HasFailure(outcomes []StepOutcome) bool {
	for _, o := range outcomes {
		if o.Status == StepFailed {
			return true
		}
	}
	return false
}
