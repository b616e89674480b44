package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/wizard-sync/internal/entity"
)

type MockLeadCapturer struct {
	mock.Mock
}

func (m *MockLeadCapturer) Capture(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func TestCaptureLead_Success(t *testing.T) {
	repo := new(MockLeadCapturer)
	repo.On("Capture", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.Email == "ana@b.com" && l.Name == "Ana"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Lead).ID = "lead-1"
	}).Return(nil)

	out, err := NewCaptureLeadUseCase(repo, nil).Execute(context.Background(), CaptureLeadInput{
		Email: " Ana@B.com ",
		Name:  "Ana",
		Phone: "+34 600 111 222",
	})

	require.NoError(t, err)
	assert.Equal(t, "lead-1", out.ID)
	assert.Equal(t, "ana@b.com", out.Email)
	repo.AssertExpectations(t)
}

func TestCaptureLead_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CaptureLeadInput
		field string
	}{
		{"missing email", CaptureLeadInput{}, "email"},
		{"bad email", CaptureLeadInput{Email: "not-an-email"}, "email"},
		{"short phone", CaptureLeadInput{Email: "a@b.com", Phone: "123"}, "phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCaptureLeadInput(tt.input)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)

			repo := new(MockLeadCapturer)
			_, err := NewCaptureLeadUseCase(repo, nil).Execute(context.Background(), tt.input)
			assert.True(t, IsDomainError(err))
			repo.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything)
		})
	}
}

func TestCaptureLead_RepositoryFailure(t *testing.T) {
	repo := new(MockLeadCapturer)
	repo.On("Capture", mock.Anything, mock.Anything).Return(errors.New("locked"))

	_, err := NewCaptureLeadUseCase(repo, nil).Execute(context.Background(), CaptureLeadInput{Email: "a@b.com"})

	assert.True(t, IsTechnicalError(err))
}
