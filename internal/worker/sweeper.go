package worker

import (
	"context"
	"log/slog"
	"time"

	"signal-desk/internal/domain"
)

const sweepTimeout = 30 * time.Second

// Sweeper reverts insights stranded in an in-flight status. An insight in
// formatting or publishing whose last update is older than the dispatch
// timeout plus a grace period will never receive its callback; the sweeper
// moves it back to draft so the user can retry.
type Sweeper struct {
	insightRepo domain.InsightRepository
	interval    time.Duration
	staleAfter  time.Duration
	logger      *slog.Logger
	stopChan    chan struct{}
}

func NewSweeper(
	insightRepo domain.InsightRepository,
	interval time.Duration,
	staleAfter time.Duration,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		insightRepo: insightRepo,
		interval:    interval,
		staleAfter:  staleAfter,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	s.logger.Info("Starting Sweeper",
		slog.Duration("interval", s.interval),
		slog.Duration("stale_after", s.staleAfter))
	go s.run()
}

func (s *Sweeper) Stop() {
	s.logger.Info("Stopping Sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("sweep_failed", slog.String("error", err.Error()))
			}
			cancel()
		}
	}
}

// SweepOnce performs a single stale-insight sweep and returns how many
// insights were reverted to draft.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.staleAfter)
	ids, err := s.insightRepo.RevertStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		for _, id := range ids {
			s.logger.Warn("stale_insight_reverted", slog.String("insight_id", id.String()))
		}
	}
	return len(ids), nil
}
