package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"signal-desk/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- stubs ---

type stubInsightRepo struct {
	domain.InsightRepository

	mu      sync.Mutex
	stale   []uuid.UUID
	err     error
	cutoffs []time.Time
	sweeps  int
}

func (s *stubInsightRepo) RevertStale(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	s.cutoffs = append(s.cutoffs, cutoff)
	if s.err != nil {
		return nil, s.err
	}
	return s.stale, nil
}

func (s *stubInsightRepo) sweepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweeps
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSweeper_SweepOnceReportsRevertedCount(t *testing.T) {
	repo := &stubInsightRepo{stale: []uuid.UUID{uuid.New(), uuid.New()}}
	s := NewSweeper(repo, time.Minute, 2*time.Minute, testLogger())

	n, err := s.SweepOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, repo.cutoffs, 1)
	// Cutoff lands staleAfter back from now.
	assert.WithinDuration(t, time.Now().Add(-2*time.Minute), repo.cutoffs[0], 2*time.Second)
}

func TestSweeper_SweepOncePropagatesRepoError(t *testing.T) {
	repo := &stubInsightRepo{err: errors.New("db down")}
	s := NewSweeper(repo, time.Minute, 2*time.Minute, testLogger())

	_, err := s.SweepOnce(context.Background())

	assert.Error(t, err)
}

func TestSweeper_RunsPeriodicallyUntilStopped(t *testing.T) {
	repo := &stubInsightRepo{}
	s := NewSweeper(repo, 10*time.Millisecond, time.Minute, testLogger())

	s.Start()
	time.Sleep(60 * time.Millisecond)
	s.Stop()

	swept := repo.sweepCount()
	assert.GreaterOrEqual(t, swept, 2)

	// No further sweeps after Stop.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, swept, repo.sweepCount())
}
