package domain

import (
	"time"

	"github.com/google/uuid"
)

// InsightStatus tracks an Insight through formatting and publication.
// "formatting" and "publishing" are transient in-flight states that revert to
// "draft" when the backing dispatch fails.
type InsightStatus string

const (
	InsightDraft      InsightStatus = "draft"
	InsightFormatting InsightStatus = "formatting"
	InsightPreviewing InsightStatus = "previewing"
	InsightPublishing InsightStatus = "publishing"
	InsightPublished  InsightStatus = "published"
)

func (s InsightStatus) Valid() bool {
	switch s {
	case InsightDraft, InsightFormatting, InsightPreviewing, InsightPublishing, InsightPublished:
		return true
	}
	return false
}

// InFlight reports whether the status marks a dispatch awaiting confirmation.
func (s InsightStatus) InFlight() bool {
	return s == InsightFormatting || s == InsightPublishing
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Reverting to draft is the compensating transition and is allowed from
// every non-published state.
func (s InsightStatus) CanTransition(next InsightStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if next == InsightDraft {
		return s != InsightPublished && s != InsightDraft
	}
	switch s {
	case InsightDraft:
		return next == InsightFormatting || next == InsightPublishing
	case InsightFormatting:
		return next == InsightPreviewing
	case InsightPreviewing:
		return next == InsightPublishing
	case InsightPublishing:
		return next == InsightPublished
	}
	return false
}

// Insight is a synthesized, publishable artifact derived from Signals and
// Thoughts.
type Insight struct {
	ID              uuid.UUID
	CoreInsight     string
	Status          InsightStatus
	Preview         string
	PreviewPlatform string
	PublishedURL    string
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Eager-loaded relations; populated only by GetWithRelations.
	Thoughts []Thought
	Signals  []Signal
}

// Publishable reports whether the Insight carries enough text to publish.
func (i *Insight) Publishable() bool {
	return i.Preview != "" || i.CoreInsight != ""
}

// PublishBody returns the text sent to the publish job, preferring the
// formatted preview over the raw core insight.
func (i *Insight) PublishBody() string {
	if i.Preview != "" {
		return i.Preview
	}
	return i.CoreInsight
}
