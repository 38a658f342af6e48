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

func TestManageInsightUsecase_CreateLinksSignalsAndThoughts(t *testing.T) {
	signalIDs := []uuid.UUID{uuid.New(), uuid.New()}
	thoughtID := uuid.New()

	insightRepo := new(MockInsightRepository)
	insightRepo.On("Create", mock.Anything, mock.MatchedBy(func(i *domain.Insight) bool {
		return i.Status == domain.InsightDraft && i.CoreInsight == "the thread connecting them"
	})).Return(nil)
	insightRepo.On("LinkSignals", mock.Anything, mock.Anything, signalIDs).Return(nil)

	thoughtRepo := new(MockThoughtRepository)
	thoughtRepo.On("LinkInsight", mock.Anything, thoughtID, mock.Anything).Return(nil)

	uc := usecase.NewManageInsightUsecase(insightRepo, thoughtRepo, &fakeTxManager{}, testLogger())
	insight, err := uc.Create(context.Background(), usecase.CreateInsightInput{
		CoreInsight: "the thread connecting them",
		SignalIDs:   signalIDs,
		ThoughtIDs:  []uuid.UUID{thoughtID},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.InsightDraft, insight.Status)
	insightRepo.AssertExpectations(t)
	thoughtRepo.AssertExpectations(t)
}

func TestManageInsightUsecase_CreateRequiresCoreInsight(t *testing.T) {
	uc := usecase.NewManageInsightUsecase(new(MockInsightRepository), new(MockThoughtRepository), &fakeTxManager{}, testLogger())

	_, err := uc.Create(context.Background(), usecase.CreateInsightInput{})

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestManageInsightUsecase_CreateRollsBackOnLinkFailure(t *testing.T) {
	insightRepo := new(MockInsightRepository)
	insightRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	insightRepo.On("LinkSignals", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	uc := usecase.NewManageInsightUsecase(insightRepo, new(MockThoughtRepository), &fakeTxManager{}, testLogger())
	_, err := uc.Create(context.Background(), usecase.CreateInsightInput{
		CoreInsight: "doomed",
		SignalIDs:   []uuid.UUID{uuid.New()},
	})

	require.Error(t, err)
}

func TestManageInsightUsecase_DeleteUnlinksThoughtsFirst(t *testing.T) {
	insight := &domain.Insight{ID: uuid.New(), Status: domain.InsightDraft}

	insightRepo := new(MockInsightRepository)
	insightRepo.On("GetByID", mock.Anything, insight.ID).Return(insight, nil)
	insightRepo.On("Delete", mock.Anything, insight.ID).Return(nil)

	thoughtRepo := new(MockThoughtRepository)
	thoughtRepo.On("UnlinkInsight", mock.Anything, insight.ID).Return(int64(2), nil)

	uc := usecase.NewManageInsightUsecase(insightRepo, thoughtRepo, &fakeTxManager{}, testLogger())
	err := uc.Delete(context.Background(), insight.ID)

	require.NoError(t, err)
	insightRepo.AssertExpectations(t)
	thoughtRepo.AssertExpectations(t)
}

func TestManageInsightUsecase_DeleteUnknownInsight(t *testing.T) {
	id := uuid.New()
	insightRepo := new(MockInsightRepository)
	insightRepo.On("GetByID", mock.Anything, id).Return(nil, nil)

	uc := usecase.NewManageInsightUsecase(insightRepo, new(MockThoughtRepository), &fakeTxManager{}, testLogger())
	err := uc.Delete(context.Background(), id)

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	insightRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
