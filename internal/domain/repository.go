package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SignalFilter narrows a Signal listing.
type SignalFilter struct {
	Status *SignalStatus
	Limit  int
	Offset int
}

// SignalRepository persists Signals. Lookups return nil, nil when the row
// does not exist.
type SignalRepository interface {
	Create(ctx context.Context, signal *Signal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Signal, error)
	// GetWithRelations eager-loads the Signal's highlights and thoughts.
	GetWithRelations(ctx context.Context, id uuid.UUID) (*Signal, error)
	// List returns signals matching the filter, newest first.
	List(ctx context.Context, filter SignalFilter) ([]Signal, error)
	ListByStatus(ctx context.Context, status SignalStatus) ([]Signal, error)
	// ListByInsight returns the signals linked to an insight as contributing
	// sources.
	ListByInsight(ctx context.Context, insightID uuid.UUID) ([]Signal, error)
	Update(ctx context.Context, signal *Signal) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status SignalStatus) error
	// UpdateStatusBatch transitions only the given ids that are still in the
	// from status, returning how many rows moved. The conditional predicate
	// keeps a racing batch from re-claiming already-transitioned rows.
	UpdateStatusBatch(ctx context.Context, ids []uuid.UUID, from, to SignalStatus) (int64, error)
	// FindPlaceholder returns the most recent processing-state signal with
	// the given source URL created at or after the cutoff, or nil, nil.
	FindPlaceholder(ctx context.Context, sourceURL string, cutoff time.Time) (*Signal, error)
	// Delete removes the signal. Highlights cascade; thought references are
	// nulled, never cascaded.
	Delete(ctx context.Context, id uuid.UUID) error
}

// HighlightRepository persists Highlights.
type HighlightRepository interface {
	Create(ctx context.Context, highlight *Highlight) error
	ListBySignal(ctx context.Context, signalID uuid.UUID) ([]Highlight, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ThoughtRepository persists Thoughts.
type ThoughtRepository interface {
	Create(ctx context.Context, thought *Thought) error
	GetByID(ctx context.Context, id uuid.UUID) (*Thought, error)
	ListBySignal(ctx context.Context, signalID uuid.UUID) ([]Thought, error)
	ListByInsight(ctx context.Context, insightID uuid.UUID) ([]Thought, error)
	ListUnlinked(ctx context.Context) ([]Thought, error)
	// UnlinkInsight clears the insight reference on every thought pointing at
	// it, returning the number of thoughts unlinked.
	UnlinkInsight(ctx context.Context, insightID uuid.UUID) (int64, error)
	// LinkInsight points an existing thought at an insight.
	LinkInsight(ctx context.Context, thoughtID, insightID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InsightRepository persists Insights and their signal links.
type InsightRepository interface {
	Create(ctx context.Context, insight *Insight) error
	GetByID(ctx context.Context, id uuid.UUID) (*Insight, error)
	// GetWithRelations eager-loads linked thoughts and contributing signals.
	GetWithRelations(ctx context.Context, id uuid.UUID) (*Insight, error)
	List(ctx context.Context, limit, offset int) ([]Insight, error)
	Update(ctx context.Context, insight *Insight) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status InsightStatus) error
	// SetPreview stores the formatted preview and platform and moves the
	// insight to the previewing state.
	SetPreview(ctx context.Context, id uuid.UUID, preview, platform string) error
	// MarkPublished records the publish confirmation. publishedUrl and
	// publishedAt are always set together.
	MarkPublished(ctx context.Context, id uuid.UUID, publishedURL string, publishedAt time.Time) error
	// RevertToDraft moves the insight back to draft. When clearPreview is
	// true the stale formatted preview is discarded as well.
	RevertToDraft(ctx context.Context, id uuid.UUID, clearPreview bool) error
	// RevertStale reverts every in-flight insight whose last update is older
	// than the cutoff, returning the affected ids.
	RevertStale(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
	LinkSignals(ctx context.Context, insightID uuid.UUID, signalIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// WebhookConfigRepository persists the job-name to URL registry.
type WebhookConfigRepository interface {
	// Upsert inserts or replaces the config keyed by name.
	Upsert(ctx context.Context, config *WebhookConfig) error
	// GetByName returns nil, nil when the job has no registered URL.
	GetByName(ctx context.Context, name JobName) (*WebhookConfig, error)
	List(ctx context.Context) ([]WebhookConfig, error)
	Delete(ctx context.Context, name JobName) error
}

// TransactionManager runs a function inside a database transaction.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
