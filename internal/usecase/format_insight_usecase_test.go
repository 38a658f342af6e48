package usecase_test

import (
	"context"
	"testing"

	"signal-desk/internal/domain"
	"signal-desk/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func draftInsight() *domain.Insight {
	return &domain.Insight{
		ID:          uuid.New(),
		CoreInsight: "depth beats breadth",
		Status:      domain.InsightDraft,
	}
}

func TestFormatInsightUsecase_DispatchesWithGatheredContext(t *testing.T) {
	insight := draftInsight()

	insightRepo := new(MockInsightRepository)
	insightRepo.On("GetByID", mock.Anything, insight.ID).Return(insight, nil)
	insightRepo.On("UpdateStatus", mock.Anything, insight.ID, domain.InsightFormatting).Return(nil)

	thoughtRepo := new(MockThoughtRepository)
	thoughtRepo.On("ListByInsight", mock.Anything, insight.ID).Return([]domain.Thought{
		{ID: uuid.New(), Content: "a reflection"},
	}, nil)

	signalRepo := new(MockSignalRepository)
	signalRepo.On("ListByInsight", mock.Anything, insight.ID).Return([]domain.Signal{
		{ID: uuid.New(), Title: "Article", Content: "body text"},
	}, nil)

	dispatcher := new(MockJobDispatcher)
	dispatcher.On("Dispatch", mock.Anything, domain.JobFormat, mock.MatchedBy(func(p any) bool {
		payload, ok := p.(map[string]any)
		if !ok {
			return false
		}
		ctxList, ok := payload["context"].([]string)
		return ok && len(ctxList) == 2 &&
			ctxList[0] == "a reflection" &&
			ctxList[1] == "Article\n\nbody text" &&
			payload["platform"] == "linkedin"
	})).Return(&domain.DispatchResult{Success: true}, nil)

	uc := usecase.NewFormatInsightUsecase(insightRepo, thoughtRepo, signalRepo, dispatcher, testLogger())
	err := uc.Execute(context.Background(), usecase.FormatInsightInput{
		InsightID: insight.ID,
		Platform:  "linkedin",
	})

	require.NoError(t, err)
	insightRepo.AssertNotCalled(t, "RevertToDraft", mock.Anything, mock.Anything, mock.Anything)
	dispatcher.AssertExpectations(t)
}

func TestFormatInsightUsecase_DispatchFailureRevertsToDraft(t *testing.T) {
	insight := draftInsight()

	insightRepo := new(MockInsightRepository)
	insightRepo.On("GetByID", mock.Anything, insight.ID).Return(insight, nil)
	insightRepo.On("UpdateStatus", mock.Anything, insight.ID, domain.InsightFormatting).Return(nil)
	insightRepo.On("RevertToDraft", mock.Anything, insight.ID, false).Return(nil)

	thoughtRepo := new(MockThoughtRepository)
	thoughtRepo.On("ListByInsight", mock.Anything, insight.ID).Return([]domain.Thought{}, nil)
	signalRepo := new(MockSignalRepository)
	signalRepo.On("ListByInsight", mock.Anything, insight.ID).Return([]domain.Signal{}, nil)

	dispatcher := new(MockJobDispatcher)
	dispatcher.On("Dispatch", mock.Anything, domain.JobFormat, mock.Anything).Return(&domain.DispatchResult{
		Success:      false,
		ErrorKind:    domain.DispatchHTTPError,
		ErrorMessage: "engine returned 500",
	}, nil)

	uc := usecase.NewFormatInsightUsecase(insightRepo, thoughtRepo, signalRepo, dispatcher, testLogger())
	err := uc.Execute(context.Background(), usecase.FormatInsightInput{
		InsightID: insight.ID,
		Platform:  "x",
	})

	require.Error(t, err)
	assert.True(t, domain.IsDispatch(err))
	insightRepo.AssertCalled(t, "RevertToDraft", mock.Anything, insight.ID, false)
}

func TestFormatInsightUsecase_ContextLoadFailureRevertsToDraft(t *testing.T) {
	insight := draftInsight()

	insightRepo := new(MockInsightRepository)
	insightRepo.On("GetByID", mock.Anything, insight.ID).Return(insight, nil)
	insightRepo.On("UpdateStatus", mock.Anything, insight.ID, domain.InsightFormatting).Return(nil)
	insightRepo.On("RevertToDraft", mock.Anything, insight.ID, false).Return(nil)

	thoughtRepo := new(MockThoughtRepository)
	thoughtRepo.On("ListByInsight", mock.Anything, insight.ID).Return(nil, assert.AnError)
	signalRepo := new(MockSignalRepository)
	signalRepo.On("ListByInsight", mock.Anything, insight.ID).Return([]domain.Signal{}, nil).Maybe()

	dispatcher := new(MockJobDispatcher)

	uc := usecase.NewFormatInsightUsecase(insightRepo, thoughtRepo, signalRepo, dispatcher, testLogger())
	err := uc.Execute(context.Background(), usecase.FormatInsightInput{InsightID: insight.ID, Platform: "x"})

	require.Error(t, err)
	insightRepo.AssertCalled(t, "RevertToDraft", mock.Anything, insight.ID, false)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestFormatInsightUsecase_RejectsInFlightInsight(t *testing.T) {
	insight := draftInsight()
	insight.Status = domain.InsightPublishing

	insightRepo := new(MockInsightRepository)
	insightRepo.On("GetByID", mock.Anything, insight.ID).Return(insight, nil)

	uc := usecase.NewFormatInsightUsecase(insightRepo, new(MockThoughtRepository), new(MockSignalRepository), new(MockJobDispatcher), testLogger())
	err := uc.Execute(context.Background(), usecase.FormatInsightInput{InsightID: insight.ID, Platform: "x"})

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestFormatInsightUsecase_NotFound(t *testing.T) {
	id := uuid.New()
	insightRepo := new(MockInsightRepository)
	insightRepo.On("GetByID", mock.Anything, id).Return(nil, nil)

	uc := usecase.NewFormatInsightUsecase(insightRepo, new(MockThoughtRepository), new(MockSignalRepository), new(MockJobDispatcher), testLogger())
	err := uc.Execute(context.Background(), usecase.FormatInsightInput{InsightID: id, Platform: "x"})

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}
