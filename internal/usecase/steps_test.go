package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepSequence_RequiredFailureStops(t *testing.T) {
	var ran []string
	seq := NewStepSequence(nil, nil)
	seq.AddRequired("first", func(context.Context) error {
		ran = append(ran, "first")
		return errors.New("nope")
	})
	seq.AddBestEffort("second", func(context.Context) error {
		ran = append(ran, "second")
		return nil
	})

	outcomes, err := seq.Execute(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{"first"}, ran)
	assert.Equal(t, []StepOutcome{{Step: "first", Status: StepFailed, Reason: "nope"}}, outcomes)
}

func TestStepSequence_BestEffortFailureContinues(t *testing.T) {
	rec := newStepCounter()
	seq := NewStepSequence(nil, rec)
	seq.AddBestEffort("a", func(context.Context) error { return errors.New("down") })
	seq.AddBestEffort("b", func(context.Context) error { panic("bug") })
	seq.AddBestEffort("c", func(context.Context) error { return Skip("off") })
	seq.AddBestEffort("d", func(context.Context) error { return nil })

	outcomes, err := seq.Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, outcomes, 4)
	assert.Equal(t, StepFailed, outcomes[0].Status)
	assert.Equal(t, StepFailed, outcomes[1].Status)
	assert.Contains(t, outcomes[1].Reason, "panic")
	assert.Equal(t, StepOutcome{Step: "c", Status: StepSkipped, Reason: "off"}, outcomes[2])
	assert.Equal(t, StepSucceeded, outcomes[3].Status)
	assert.True(t, HasFailure(outcomes))
	assert.Equal(t, 1, rec.get("c", "skipped"))
	assert.Equal(t, 1, rec.get("b", "failed"))
}

func TestHasFailureIgnoresSkips(t *testing.T) {
	assert.False(t, HasFailure([]StepOutcome{{Status: StepSkipped}, {Status: StepSucceeded}}))
}

func TestErrorKinds(t *testing.T) {
	te := &TechnicalError{Code: "X", Message: "outer", Err: errors.New("inner")}
	assert.True(t, IsTechnicalError(te))
	assert.Equal(t, "outer: inner", te.Error())
	assert.False(t, IsDomainError(te))
	assert.True(t, IsDomainError(&DomainError{Code: "Y", Message: "bad"}))
}
