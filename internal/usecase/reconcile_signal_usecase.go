package usecase

import (
	"context"
	"log/slog"
	"time"

	"signal-desk/internal/domain"
	"signal-desk/internal/infra/logger"

	"github.com/google/uuid"
)

type ReconcileSignalOutput struct {
	Signal *domain.Signal
	// Created is false when an existing record (explicit id or matched
	// placeholder) was updated in place.
	Created bool
}

// ReconcileSignalUsecase resolves an asynchronous engine callback to a
// create-or-update decision against the signal store.
type ReconcileSignalUsecase interface {
	Execute(ctx context.Context, raw []byte) (*ReconcileSignalOutput, error)
}

type reconcileSignalUsecase struct {
	signalRepo domain.SignalRepository
	// dedupWindow bounds how old a processing placeholder may be and still
	// match an inbound callback by source URL. The match key and window are
	// policy, not protocol: URL-less captures cannot be deduplicated.
	dedupWindow time.Duration
	logger      *slog.Logger
}

func NewReconcileSignalUsecase(
	signalRepo domain.SignalRepository,
	dedupWindow time.Duration,
	logger *slog.Logger,
) ReconcileSignalUsecase {
	return &reconcileSignalUsecase{
		signalRepo:  signalRepo,
		dedupWindow: dedupWindow,
		logger:      logger,
	}
}

func (u *reconcileSignalUsecase) Execute(ctx context.Context, raw []byte) (*ReconcileSignalOutput, error) {
	payload, err := domain.NormalizePayload(raw)
	if err != nil {
		return nil, domain.NewValidationError("unparseable callback payload: %v", err)
	}
	if !payload.HasIdentifyingContent() {
		return nil, domain.NewValidationError("callback payload carries none of summary, key_insights, title")
	}

	// Explicit identifier wins over any heuristic.
	if payload.SignalID != "" {
		id, err := uuid.Parse(payload.SignalID)
		if err != nil {
			return nil, domain.NewValidationError("invalid signalId %q", payload.SignalID)
		}
		ctx = logger.WithSignalID(ctx, id.String())
		signal, err := u.signalRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if signal == nil {
			return nil, domain.NewNotFoundError("signal", payload.SignalID)
		}
		u.applyPayload(signal, payload)
		if err := u.signalRepo.Update(ctx, signal); err != nil {
			return nil, err
		}
		u.logger.Info("signal_reconciled", slog.String("signal_id", signal.ID.String()), slog.String("path", "explicit_id"))
		return &ReconcileSignalOutput{Signal: signal}, nil
	}

	if payload.SourceURL != "" {
		cutoff := time.Now().Add(-u.dedupWindow)
		placeholder, err := u.signalRepo.FindPlaceholder(ctx, payload.SourceURL, cutoff)
		if err != nil {
			return nil, err
		}
		if placeholder != nil {
			u.applyPayload(placeholder, payload)
			if err := u.signalRepo.Update(ctx, placeholder); err != nil {
				return nil, err
			}
			u.logger.Info("signal_reconciled",
				slog.String("signal_id", placeholder.ID.String()),
				slog.String("path", "placeholder_match"))
			return &ReconcileSignalOutput{Signal: placeholder}, nil
		}
	}

	now := time.Now()
	signal := &domain.Signal{
		ID:        uuid.New(),
		Status:    domain.SignalUnread,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	u.applyPayload(signal, payload)
	if err := u.signalRepo.Create(ctx, signal); err != nil {
		return nil, err
	}
	u.logger.Info("signal_reconciled", slog.String("signal_id", signal.ID.String()), slog.String("path", "created"))
	return &ReconcileSignalOutput{Signal: signal, Created: true}, nil
}

func (u *reconcileSignalUsecase) applyPayload(signal *domain.Signal, payload domain.CanonicalPayload) {
	signal.Title = domain.ResolveTitle(payload)
	signal.Content = domain.SynthesizeContent(payload)
	if payload.Summary != "" {
		signal.Summary = payload.Summary
	}
	if payload.Source != "" {
		signal.Source = payload.Source
	}
	if payload.SourceURL != "" {
		signal.SourceURL = payload.SourceURL
	}
	if payload.RawContent != "" {
		signal.RawContent = payload.RawContent
	}
	if tags := normalizeTags(payload.Topics); len(tags) > 0 {
		signal.Tags = tags
	}
	if signal.Status == domain.SignalProcessing || signal.Status == "" {
		signal.Status = domain.SignalUnread
	}
}
