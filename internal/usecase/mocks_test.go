package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"signal-desk/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// MockSignalRepository mocks domain.SignalRepository
type MockSignalRepository struct {
	mock.Mock
}

func (m *MockSignalRepository) Create(ctx context.Context, signal *domain.Signal) error {
	args := m.Called(ctx, signal)
	return args.Error(0)
}

func (m *MockSignalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Signal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Signal), args.Error(1)
}

func (m *MockSignalRepository) GetWithRelations(ctx context.Context, id uuid.UUID) (*domain.Signal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Signal), args.Error(1)
}

func (m *MockSignalRepository) List(ctx context.Context, filter domain.SignalFilter) ([]domain.Signal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Signal), args.Error(1)
}

func (m *MockSignalRepository) ListByStatus(ctx context.Context, status domain.SignalStatus) ([]domain.Signal, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Signal), args.Error(1)
}

func (m *MockSignalRepository) ListByInsight(ctx context.Context, insightID uuid.UUID) ([]domain.Signal, error) {
	args := m.Called(ctx, insightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Signal), args.Error(1)
}

func (m *MockSignalRepository) Update(ctx context.Context, signal *domain.Signal) error {
	args := m.Called(ctx, signal)
	return args.Error(0)
}

func (m *MockSignalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SignalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSignalRepository) UpdateStatusBatch(ctx context.Context, ids []uuid.UUID, from, to domain.SignalStatus) (int64, error) {
	args := m.Called(ctx, ids, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSignalRepository) FindPlaceholder(ctx context.Context, sourceURL string, cutoff time.Time) (*domain.Signal, error) {
	args := m.Called(ctx, sourceURL, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Signal), args.Error(1)
}

func (m *MockSignalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockThoughtRepository mocks domain.ThoughtRepository
type MockThoughtRepository struct {
	mock.Mock
}

func (m *MockThoughtRepository) Create(ctx context.Context, thought *domain.Thought) error {
	args := m.Called(ctx, thought)
	return args.Error(0)
}

func (m *MockThoughtRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Thought, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thought), args.Error(1)
}

func (m *MockThoughtRepository) ListBySignal(ctx context.Context, signalID uuid.UUID) ([]domain.Thought, error) {
	args := m.Called(ctx, signalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Thought), args.Error(1)
}

func (m *MockThoughtRepository) ListByInsight(ctx context.Context, insightID uuid.UUID) ([]domain.Thought, error) {
	args := m.Called(ctx, insightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Thought), args.Error(1)
}

func (m *MockThoughtRepository) ListUnlinked(ctx context.Context) ([]domain.Thought, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Thought), args.Error(1)
}

func (m *MockThoughtRepository) UnlinkInsight(ctx context.Context, insightID uuid.UUID) (int64, error) {
	args := m.Called(ctx, insightID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockThoughtRepository) LinkInsight(ctx context.Context, thoughtID, insightID uuid.UUID) error {
	args := m.Called(ctx, thoughtID, insightID)
	return args.Error(0)
}

func (m *MockThoughtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInsightRepository mocks domain.InsightRepository
type MockInsightRepository struct {
	mock.Mock
}

func (m *MockInsightRepository) Create(ctx context.Context, insight *domain.Insight) error {
	args := m.Called(ctx, insight)
	return args.Error(0)
}

func (m *MockInsightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Insight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Insight), args.Error(1)
}

func (m *MockInsightRepository) GetWithRelations(ctx context.Context, id uuid.UUID) (*domain.Insight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Insight), args.Error(1)
}

func (m *MockInsightRepository) List(ctx context.Context, limit, offset int) ([]domain.Insight, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Insight), args.Error(1)
}

func (m *MockInsightRepository) Update(ctx context.Context, insight *domain.Insight) error {
	args := m.Called(ctx, insight)
	return args.Error(0)
}

func (m *MockInsightRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InsightStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockInsightRepository) SetPreview(ctx context.Context, id uuid.UUID, preview, platform string) error {
	args := m.Called(ctx, id, preview, platform)
	return args.Error(0)
}

func (m *MockInsightRepository) MarkPublished(ctx context.Context, id uuid.UUID, publishedURL string, publishedAt time.Time) error {
	args := m.Called(ctx, id, publishedURL, publishedAt)
	return args.Error(0)
}

func (m *MockInsightRepository) RevertToDraft(ctx context.Context, id uuid.UUID, clearPreview bool) error {
	args := m.Called(ctx, id, clearPreview)
	return args.Error(0)
}

func (m *MockInsightRepository) RevertStale(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockInsightRepository) LinkSignals(ctx context.Context, insightID uuid.UUID, signalIDs []uuid.UUID) error {
	args := m.Called(ctx, insightID, signalIDs)
	return args.Error(0)
}

func (m *MockInsightRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockJobDispatcher mocks domain.JobDispatcher
type MockJobDispatcher struct {
	mock.Mock
}

func (m *MockJobDispatcher) Dispatch(ctx context.Context, job domain.JobName, payload any) (*domain.DispatchResult, error) {
	args := m.Called(ctx, job, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DispatchResult), args.Error(1)
}

// fakeTxManager runs the function directly without a transaction.
type fakeTxManager struct {
	err error
}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}
