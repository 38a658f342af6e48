package usecase

import (
	"context"
	"log/slog"
	"time"

	"signal-desk/internal/domain"

	"github.com/google/uuid"
)

type CreateInsightInput struct {
	CoreInsight string
	SignalIDs   []uuid.UUID
	ThoughtIDs  []uuid.UUID
}

// ManageInsightUsecase owns the multi-step insight mutations: creation with
// signal/thought linking and deletion with thought unlinking. Both run in a
// transaction so a partial link or a dangling reference never survives.
type ManageInsightUsecase interface {
	Create(ctx context.Context, input CreateInsightInput) (*domain.Insight, error)
	Delete(ctx context.Context, insightID uuid.UUID) error
}

type manageInsightUsecase struct {
	insightRepo domain.InsightRepository
	thoughtRepo domain.ThoughtRepository
	txManager   domain.TransactionManager
	logger      *slog.Logger
}

func NewManageInsightUsecase(
	insightRepo domain.InsightRepository,
	thoughtRepo domain.ThoughtRepository,
	txManager domain.TransactionManager,
	logger *slog.Logger,
) ManageInsightUsecase {
	return &manageInsightUsecase{
		insightRepo: insightRepo,
		thoughtRepo: thoughtRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

func (u *manageInsightUsecase) Create(ctx context.Context, input CreateInsightInput) (*domain.Insight, error) {
	if input.CoreInsight == "" {
		return nil, domain.NewValidationError("core insight text is required")
	}

	now := time.Now()
	insight := &domain.Insight{
		ID:          uuid.New(),
		CoreInsight: input.CoreInsight,
		Status:      domain.InsightDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := u.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := u.insightRepo.Create(ctx, insight); err != nil {
			return err
		}
		if err := u.insightRepo.LinkSignals(ctx, insight.ID, input.SignalIDs); err != nil {
			return err
		}
		for _, thoughtID := range input.ThoughtIDs {
			if err := u.thoughtRepo.LinkInsight(ctx, thoughtID, insight.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("insight_created",
		slog.String("insight_id", insight.ID.String()),
		slog.Int("linked_signals", len(input.SignalIDs)),
		slog.Int("linked_thoughts", len(input.ThoughtIDs)))
	return insight, nil
}

func (u *manageInsightUsecase) Delete(ctx context.Context, insightID uuid.UUID) error {
	insight, err := u.insightRepo.GetByID(ctx, insightID)
	if err != nil {
		return err
	}
	if insight == nil {
		return domain.NewNotFoundError("insight", insightID.String())
	}

	var unlinked int64
	err = u.txManager.RunInTx(ctx, func(ctx context.Context) error {
		// Thoughts survive insight deletion; only the reference goes.
		n, err := u.thoughtRepo.UnlinkInsight(ctx, insightID)
		if err != nil {
			return err
		}
		unlinked = n
		return u.insightRepo.Delete(ctx, insightID)
	})
	if err != nil {
		return err
	}

	u.logger.Info("insight_deleted",
		slog.String("insight_id", insightID.String()),
		slog.Int64("unlinked_thoughts", unlinked))
	return nil
}
