package usecase

import (
	"context"
	"log/slog"

	"signal-desk/internal/domain"

	"github.com/google/uuid"
)

type ClusterSignalsOutput struct {
	// Processed is how many signals actually transitioned to clustered.
	Processed int
}

// ClusterSignalsUsecase gathers every reviewed signal and dispatches the
// batch to the cluster job. Signals transition to clustered only after the
// dispatch is confirmed, and only those still in reviewed, so a racing
// trigger cannot claim the same rows twice at the update step.
type ClusterSignalsUsecase interface {
	Execute(ctx context.Context) (*ClusterSignalsOutput, error)
}

type clusterSignalsUsecase struct {
	signalRepo domain.SignalRepository
	dispatcher domain.JobDispatcher
	logger     *slog.Logger
}

func NewClusterSignalsUsecase(
	signalRepo domain.SignalRepository,
	dispatcher domain.JobDispatcher,
	logger *slog.Logger,
) ClusterSignalsUsecase {
	return &clusterSignalsUsecase{
		signalRepo: signalRepo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (u *clusterSignalsUsecase) Execute(ctx context.Context) (*ClusterSignalsOutput, error) {
	signals, err := u.signalRepo.ListByStatus(ctx, domain.SignalReviewed)
	if err != nil {
		return nil, err
	}
	if len(signals) == 0 {
		return &ClusterSignalsOutput{Processed: 0}, nil
	}

	batch := make([]signalPayload, 0, len(signals))
	ids := make([]uuid.UUID, 0, len(signals))
	for i := range signals {
		batch = append(batch, toSignalPayload(&signals[i]))
		ids = append(ids, signals[i].ID)
	}

	result, err := u.dispatcher.Dispatch(ctx, domain.JobCluster, map[string]any{"signals": batch})
	if err != nil {
		return nil, err
	}
	if !result.Success {
		// Status is untouched on failure: the update happens strictly after
		// confirmed dispatch.
		return nil, result.Err(domain.JobCluster)
	}

	moved, err := u.signalRepo.UpdateStatusBatch(ctx, ids, domain.SignalReviewed, domain.SignalClustered)
	if err != nil {
		return nil, err
	}

	u.logger.Info("signals_clustered",
		slog.Int("dispatched", len(ids)),
		slog.Int64("transitioned", moved))
	return &ClusterSignalsOutput{Processed: int(moved)}, nil
}
