package usecase

import (
	"context"
	"log/slog"

	"signal-desk/internal/domain"
	"signal-desk/internal/infra/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type FormatInsightInput struct {
	InsightID uuid.UUID
	Platform  string
	Tone      string
}

// FormatInsightUsecase sends an insight's full context to the format job.
// The insight is pre-marked formatting before the call so the UI can show
// progress, and reverted to draft when the dispatch fails for any reason.
type FormatInsightUsecase interface {
	Execute(ctx context.Context, input FormatInsightInput) error
}

type formatInsightUsecase struct {
	insightRepo domain.InsightRepository
	thoughtRepo domain.ThoughtRepository
	signalRepo  domain.SignalRepository
	dispatcher  domain.JobDispatcher
	logger      *slog.Logger
}

func NewFormatInsightUsecase(
	insightRepo domain.InsightRepository,
	thoughtRepo domain.ThoughtRepository,
	signalRepo domain.SignalRepository,
	dispatcher domain.JobDispatcher,
	logger *slog.Logger,
) FormatInsightUsecase {
	return &formatInsightUsecase{
		insightRepo: insightRepo,
		thoughtRepo: thoughtRepo,
		signalRepo:  signalRepo,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

func (u *formatInsightUsecase) Execute(ctx context.Context, input FormatInsightInput) error {
	insight, err := u.insightRepo.GetByID(ctx, input.InsightID)
	if err != nil {
		return err
	}
	if insight == nil {
		return domain.NewNotFoundError("insight", input.InsightID.String())
	}
	if !insight.Status.CanTransition(domain.InsightFormatting) {
		return domain.NewValidationError("cannot format insight in status %q", insight.Status)
	}
	ctx = logger.WithInsightID(ctx, insight.ID.String())

	if err := u.insightRepo.UpdateStatus(ctx, insight.ID, domain.InsightFormatting); err != nil {
		return err
	}

	// Every exit below except the success path must undo the pre-mark, or
	// the insight would be stuck in formatting with no call in flight.
	dispatched := false
	defer func() {
		if dispatched {
			return
		}
		if rerr := u.insightRepo.RevertToDraft(ctx, insight.ID, false); rerr != nil {
			u.logger.Error("format_revert_failed",
				slog.String("insight_id", insight.ID.String()),
				slog.String("error", rerr.Error()))
		}
	}()

	contextList, err := u.gatherContext(ctx, insight.ID)
	if err != nil {
		return err
	}

	payload := map[string]any{
		"insightId":   insight.ID.String(),
		"coreInsight": insight.CoreInsight,
		"context":     contextList,
		"platform":    input.Platform,
	}
	if input.Tone != "" {
		payload["tone"] = input.Tone
	}

	result, err := u.dispatcher.Dispatch(ctx, domain.JobFormat, payload)
	if err != nil {
		return err
	}
	if !result.Success {
		return result.Err(domain.JobFormat)
	}

	dispatched = true
	u.logger.Info("format_dispatched",
		slog.String("insight_id", insight.ID.String()),
		slog.Int("context_items", len(contextList)))
	return nil
}

// gatherContext collects linked thought contents followed by linked signal
// title+content pairs, in creation order within each group.
func (u *formatInsightUsecase) gatherContext(ctx context.Context, insightID uuid.UUID) ([]string, error) {
	var thoughts []domain.Thought
	var signals []domain.Signal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		thoughts, err = u.thoughtRepo.ListByInsight(gctx, insightID)
		return err
	})
	g.Go(func() error {
		var err error
		signals, err = u.signalRepo.ListByInsight(gctx, insightID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	contextList := make([]string, 0, len(thoughts)+len(signals))
	for _, th := range thoughts {
		contextList = append(contextList, th.Content)
	}
	for _, s := range signals {
		contextList = append(contextList, s.Title+"\n\n"+s.Content)
	}
	return contextList, nil
}
