package usecase

import (
	"context"
	"log/slog"
	"time"

	"signal-desk/internal/domain"

	"github.com/google/uuid"
)

type PublishInsightOutput struct {
	Status       domain.InsightStatus
	PublishedURL string
}

// PublishInsightUsecase dispatches the publish job for an insight. The
// insight moves to publishing before the call and reverts to draft when the
// dispatch fails. An inline success payload with a post URL short-circuits
// the async confirmation and publishes immediately.
type PublishInsightUsecase interface {
	Execute(ctx context.Context, insightID uuid.UUID) (*PublishInsightOutput, error)
}

type publishInsightUsecase struct {
	insightRepo domain.InsightRepository
	dispatcher  domain.JobDispatcher
	logger      *slog.Logger
}

func NewPublishInsightUsecase(
	insightRepo domain.InsightRepository,
	dispatcher domain.JobDispatcher,
	logger *slog.Logger,
) PublishInsightUsecase {
	return &publishInsightUsecase{
		insightRepo: insightRepo,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

func (u *publishInsightUsecase) Execute(ctx context.Context, insightID uuid.UUID) (*PublishInsightOutput, error) {
	insight, err := u.insightRepo.GetByID(ctx, insightID)
	if err != nil {
		return nil, err
	}
	if insight == nil {
		return nil, domain.NewNotFoundError("insight", insightID.String())
	}
	// Validation strictly precedes any dispatch attempt.
	if !insight.Publishable() {
		return nil, domain.NewValidationError("insight has neither preview nor core insight text")
	}
	if !insight.Status.CanTransition(domain.InsightPublishing) {
		return nil, domain.NewValidationError("cannot publish insight in status %q", insight.Status)
	}

	if err := u.insightRepo.UpdateStatus(ctx, insight.ID, domain.InsightPublishing); err != nil {
		return nil, err
	}

	dispatched := false
	defer func() {
		if dispatched {
			return
		}
		// The preview is kept on a failed dispatch; only a failed publish
		// confirmation discards it.
		if rerr := u.insightRepo.RevertToDraft(ctx, insight.ID, false); rerr != nil {
			u.logger.Error("publish_revert_failed",
				slog.String("insight_id", insight.ID.String()),
				slog.String("error", rerr.Error()))
		}
	}()

	result, err := u.dispatcher.Dispatch(ctx, domain.JobPublish, map[string]any{
		"insightId":        insight.ID.String(),
		"formattedContent": insight.PublishBody(),
		"platform":         insight.PreviewPlatform,
	})
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, result.Err(domain.JobPublish)
	}
	dispatched = true

	if result.Data != nil && result.Data.Status == "success" && result.Data.PostURL != "" {
		publishedAt := time.Now()
		if err := u.insightRepo.MarkPublished(ctx, insight.ID, result.Data.PostURL, publishedAt); err != nil {
			return nil, err
		}
		u.logger.Info("insight_published_inline",
			slog.String("insight_id", insight.ID.String()),
			slog.String("published_url", result.Data.PostURL))
		return &PublishInsightOutput{Status: domain.InsightPublished, PublishedURL: result.Data.PostURL}, nil
	}

	u.logger.Info("publish_dispatched",
		slog.String("insight_id", insight.ID.String()))
	return &PublishInsightOutput{Status: domain.InsightPublishing}, nil
}
