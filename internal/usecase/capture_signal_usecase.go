package usecase

import (
	"context"
	"log/slog"
	"time"

	"signal-desk/internal/domain"

	"github.com/google/uuid"
)

// captureInputTypes are the accepted capture sources.
var captureInputTypes = map[string]bool{
	"text":    true,
	"url":     true,
	"youtube": true,
	"file":    true,
}

type CaptureSignalInput struct {
	InputType string
	Content   string
	URL       string
	Tags      []string
}

type CaptureSignalOutput struct {
	Signal *domain.Signal
	// Pending is true when the engine acknowledged without data and the
	// capture awaits an inbound callback.
	Pending bool
}

// CaptureSignalUsecase sends a capture to the ingest job and records the
// result: a full Signal when the engine replies inline, a processing
// placeholder when it will call back later.
type CaptureSignalUsecase interface {
	Execute(ctx context.Context, input CaptureSignalInput) (*CaptureSignalOutput, error)
}

type captureSignalUsecase struct {
	signalRepo domain.SignalRepository
	dispatcher domain.JobDispatcher
	logger     *slog.Logger
}

func NewCaptureSignalUsecase(
	signalRepo domain.SignalRepository,
	dispatcher domain.JobDispatcher,
	logger *slog.Logger,
) CaptureSignalUsecase {
	return &captureSignalUsecase{
		signalRepo: signalRepo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (u *captureSignalUsecase) Execute(ctx context.Context, input CaptureSignalInput) (*CaptureSignalOutput, error) {
	if !captureInputTypes[input.InputType] {
		return nil, domain.NewValidationError("unknown input type %q", input.InputType)
	}
	if input.Content == "" && input.URL == "" {
		return nil, domain.NewValidationError("capture requires content or url")
	}

	payload := map[string]any{"inputType": input.InputType}
	if input.Content != "" {
		payload["content"] = input.Content
	}
	if input.URL != "" {
		payload["url"] = input.URL
	}

	result, err := u.dispatcher.Dispatch(ctx, domain.JobIngest, payload)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		// No record is created on a failed dispatch.
		return nil, result.Err(domain.JobIngest)
	}

	now := time.Now()

	if result.Data != nil && result.Data.HasIdentifyingContent() {
		signal := signalFromCanonical(*result.Data, input, now)
		if err := u.signalRepo.Create(ctx, signal); err != nil {
			return nil, err
		}
		u.logger.Info("signal_captured",
			slog.String("signal_id", signal.ID.String()),
			slog.String("input_type", input.InputType))
		return &CaptureSignalOutput{Signal: signal}, nil
	}

	// The engine processes asynchronously. Only URL-keyed captures get a
	// speculative placeholder: text captures have no correlation hint for
	// the reconciler to match on.
	if input.URL == "" {
		u.logger.Info("capture_pending_without_placeholder", slog.String("input_type", input.InputType))
		return &CaptureSignalOutput{Pending: true}, nil
	}

	placeholder := &domain.Signal{
		ID:        uuid.New(),
		Title:     input.URL,
		Content:   "",
		SourceURL: input.URL,
		Tags:      normalizeTags(input.Tags),
		Status:    domain.SignalProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.signalRepo.Create(ctx, placeholder); err != nil {
		return nil, err
	}
	u.logger.Info("signal_placeholder_created",
		slog.String("signal_id", placeholder.ID.String()),
		slog.String("source_url", input.URL))
	return &CaptureSignalOutput{Signal: placeholder, Pending: true}, nil
}

func signalFromCanonical(data domain.CanonicalPayload, input CaptureSignalInput, now time.Time) *domain.Signal {
	tags := normalizeTags(data.Topics)
	if len(tags) == 0 {
		tags = normalizeTags(input.Tags)
	}
	sourceURL := data.SourceURL
	if sourceURL == "" {
		sourceURL = input.URL
	}
	return &domain.Signal{
		ID:         uuid.New(),
		Title:      domain.ResolveTitle(data),
		Content:    domain.SynthesizeContent(data),
		Summary:    data.Summary,
		Source:     data.Source,
		SourceURL:  sourceURL,
		RawContent: data.RawContent,
		Tags:       tags,
		Status:     domain.SignalUnread,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// normalizeTags guarantees a non-nil, well-formed tag set.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
