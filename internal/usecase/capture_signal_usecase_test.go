package usecase_test

import (
	"context"
	"testing"

	"signal-desk/internal/domain"
	"signal-desk/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCaptureSignalUsecase_RejectsUnknownInputType(t *testing.T) {
	repo := new(MockSignalRepository)
	dispatcher := new(MockJobDispatcher)
	uc := usecase.NewCaptureSignalUsecase(repo, dispatcher, testLogger())

	_, err := uc.Execute(context.Background(), usecase.CaptureSignalInput{
		InputType: "podcast",
		Content:   "hello",
	})

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestCaptureSignalUsecase_RejectsEmptyCapture(t *testing.T) {
	repo := new(MockSignalRepository)
	dispatcher := new(MockJobDispatcher)
	uc := usecase.NewCaptureSignalUsecase(repo, dispatcher, testLogger())

	_, err := uc.Execute(context.Background(), usecase.CaptureSignalInput{InputType: "text"})

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestCaptureSignalUsecase_DispatchFailureCreatesNothing(t *testing.T) {
	repo := new(MockSignalRepository)
	dispatcher := new(MockJobDispatcher)
	dispatcher.On("Dispatch", mock.Anything, domain.JobIngest, mock.Anything).Return(&domain.DispatchResult{
		Success:      false,
		ErrorKind:    domain.DispatchNotConfigured,
		ErrorMessage: "webhook not configured",
	}, nil)
	uc := usecase.NewCaptureSignalUsecase(repo, dispatcher, testLogger())

	_, err := uc.Execute(context.Background(), usecase.CaptureSignalInput{
		InputType: "url",
		URL:       "https://example.com/post",
	})

	require.Error(t, err)
	assert.True(t, domain.IsDispatch(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCaptureSignalUsecase_InlineDataCreatesUnreadSignal(t *testing.T) {
	repo := new(MockSignalRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Signal) bool {
		return s.Status == domain.SignalUnread && s.Title == "Go Generics" && s.Summary == "A tour of generics"
	})).Return(nil)

	dispatcher := new(MockJobDispatcher)
	dispatcher.On("Dispatch", mock.Anything, domain.JobIngest, mock.Anything).Return(&domain.DispatchResult{
		Success: true,
		Data: &domain.CanonicalPayload{
			Title:   "Go Generics",
			Summary: "A tour of generics",
			Topics:  []string{"go"},
		},
	}, nil)

	uc := usecase.NewCaptureSignalUsecase(repo, dispatcher, testLogger())
	out, err := uc.Execute(context.Background(), usecase.CaptureSignalInput{
		InputType: "url",
		URL:       "https://example.com/generics",
	})

	require.NoError(t, err)
	require.NotNil(t, out.Signal)
	assert.False(t, out.Pending)
	assert.Equal(t, domain.SignalUnread, out.Signal.Status)
	assert.Equal(t, []string{"go"}, out.Signal.Tags)
	assert.Equal(t, "https://example.com/generics", out.Signal.SourceURL)
	repo.AssertExpectations(t)
}

func TestCaptureSignalUsecase_AsyncURLCaptureCreatesPlaceholder(t *testing.T) {
	repo := new(MockSignalRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Signal) bool {
		return s.Status == domain.SignalProcessing &&
			s.SourceURL == "https://example.com/video" &&
			s.Title == "https://example.com/video"
	})).Return(nil)

	dispatcher := new(MockJobDispatcher)
	dispatcher.On("Dispatch", mock.Anything, domain.JobIngest, mock.Anything).
		Return(&domain.DispatchResult{Success: true}, nil)

	uc := usecase.NewCaptureSignalUsecase(repo, dispatcher, testLogger())
	out, err := uc.Execute(context.Background(), usecase.CaptureSignalInput{
		InputType: "youtube",
		URL:       "https://example.com/video",
	})

	require.NoError(t, err)
	assert.True(t, out.Pending)
	require.NotNil(t, out.Signal)
	assert.Equal(t, domain.SignalProcessing, out.Signal.Status)
	repo.AssertExpectations(t)
}

func TestCaptureSignalUsecase_AsyncTextCaptureHasNoPlaceholder(t *testing.T) {
	repo := new(MockSignalRepository)
	dispatcher := new(MockJobDispatcher)
	dispatcher.On("Dispatch", mock.Anything, domain.JobIngest, mock.Anything).
		Return(&domain.DispatchResult{Success: true}, nil)

	uc := usecase.NewCaptureSignalUsecase(repo, dispatcher, testLogger())
	out, err := uc.Execute(context.Background(), usecase.CaptureSignalInput{
		InputType: "text",
		Content:   "an observation",
	})

	require.NoError(t, err)
	assert.True(t, out.Pending)
	assert.Nil(t, out.Signal)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
