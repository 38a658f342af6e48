package usecase

import (
	"context"
	"log/slog"
	"time"

	"signal-desk/internal/domain"

	"github.com/google/uuid"
)

type ReviewSignalInput struct {
	SignalID uuid.UUID
	// Thought, when non-empty, is captured as a new Thought attached to the
	// signal in the same operation.
	Thought string
}

// ReviewSignalUsecase owns the user review actions on a Signal: marking it
// reviewed (with the automatic generate side effect) and archiving it.
type ReviewSignalUsecase interface {
	MarkReviewed(ctx context.Context, input ReviewSignalInput) (*domain.Signal, error)
	Archive(ctx context.Context, signalID uuid.UUID) (*domain.Signal, error)
}

type reviewSignalUsecase struct {
	signalRepo  domain.SignalRepository
	thoughtRepo domain.ThoughtRepository
	dispatcher  domain.JobDispatcher
	logger      *slog.Logger
}

func NewReviewSignalUsecase(
	signalRepo domain.SignalRepository,
	thoughtRepo domain.ThoughtRepository,
	dispatcher domain.JobDispatcher,
	logger *slog.Logger,
) ReviewSignalUsecase {
	return &reviewSignalUsecase{
		signalRepo:  signalRepo,
		thoughtRepo: thoughtRepo,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

func (u *reviewSignalUsecase) MarkReviewed(ctx context.Context, input ReviewSignalInput) (*domain.Signal, error) {
	signal, err := u.signalRepo.GetByID(ctx, input.SignalID)
	if err != nil {
		return nil, err
	}
	if signal == nil {
		return nil, domain.NewNotFoundError("signal", input.SignalID.String())
	}
	if !signal.Status.CanTransition(domain.SignalReviewed) {
		return nil, domain.NewValidationError("cannot review signal in status %q", signal.Status)
	}

	if err := u.signalRepo.UpdateStatus(ctx, signal.ID, domain.SignalReviewed); err != nil {
		return nil, err
	}
	signal.Status = domain.SignalReviewed

	if input.Thought != "" {
		thought := &domain.Thought{
			ID:        uuid.New(),
			SignalID:  &signal.ID,
			Content:   input.Thought,
			CreatedAt: time.Now(),
		}
		if err := u.thoughtRepo.Create(ctx, thought); err != nil {
			return nil, err
		}
	}

	// Reviewing automatically sends the signal to generation. A dispatch
	// failure must not fail the user's review action: the signal stays in
	// reviewed so a later trigger can resend it.
	result, err := u.dispatcher.Dispatch(ctx, domain.JobGenerate, map[string]any{
		"signals": []signalPayload{toSignalPayload(signal)},
	})
	if err != nil || !result.Success {
		msg := ""
		if err != nil {
			msg = err.Error()
		} else {
			msg = result.ErrorMessage
		}
		u.logger.Warn("auto_generate_dispatch_failed",
			slog.String("signal_id", signal.ID.String()),
			slog.String("error", msg))
		return signal, nil
	}

	if err := u.signalRepo.UpdateStatus(ctx, signal.ID, domain.SignalProcessed); err != nil {
		return nil, err
	}
	signal.Status = domain.SignalProcessed
	return signal, nil
}

func (u *reviewSignalUsecase) Archive(ctx context.Context, signalID uuid.UUID) (*domain.Signal, error) {
	signal, err := u.signalRepo.GetByID(ctx, signalID)
	if err != nil {
		return nil, err
	}
	if signal == nil {
		return nil, domain.NewNotFoundError("signal", signalID.String())
	}
	if !signal.Status.CanTransition(domain.SignalArchived) {
		return nil, domain.NewValidationError("cannot archive signal in status %q", signal.Status)
	}
	if err := u.signalRepo.UpdateStatus(ctx, signal.ID, domain.SignalArchived); err != nil {
		return nil, err
	}
	signal.Status = domain.SignalArchived
	return signal, nil
}

// signalPayload is the wire shape of a Signal sent to the engine's batch
// jobs.
type signalPayload struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Summary   string   `json:"summary,omitempty"`
	SourceURL string   `json:"sourceUrl,omitempty"`
	Tags      []string `json:"tags"`
}

func toSignalPayload(s *domain.Signal) signalPayload {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return signalPayload{
		ID:        s.ID.String(),
		Title:     s.Title,
		Content:   s.Content,
		Summary:   s.Summary,
		SourceURL: s.SourceURL,
		Tags:      tags,
	}
}
