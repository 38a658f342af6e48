package domain

import (
	"time"

	"github.com/google/uuid"
)

// SignalStatus tracks a Signal through the capture/review/cluster pipeline.
type SignalStatus string

const (
	SignalUnread     SignalStatus = "unread"
	SignalProcessing SignalStatus = "processing"
	SignalReviewed   SignalStatus = "reviewed"
	SignalProcessed  SignalStatus = "processed"
	SignalClustered  SignalStatus = "clustered"
	SignalArchived   SignalStatus = "archived"
)

func (s SignalStatus) Valid() bool {
	switch s {
	case SignalUnread, SignalProcessing, SignalReviewed, SignalProcessed, SignalClustered, SignalArchived:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Archival is reachable from every non-archived state; "processing" is
// the speculative placeholder state and only ever resolves to "unread".
func (s SignalStatus) CanTransition(next SignalStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if next == SignalArchived {
		return s != SignalArchived
	}
	switch s {
	case SignalProcessing:
		return next == SignalUnread
	case SignalUnread:
		return next == SignalReviewed
	case SignalReviewed:
		return next == SignalProcessed || next == SignalClustered
	}
	return false
}

// Signal is one captured unit of raw information.
type Signal struct {
	ID         uuid.UUID
	Title      string
	Content    string
	Summary    string
	Source     string
	SourceURL  string
	RawContent string
	Tags       []string
	Status     SignalStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Eager-loaded relations; populated only by GetWithRelations.
	Highlights []Highlight
	Thoughts   []Thought
}

// Highlight is a user-selected excerpt of a Signal's content. Highlights are
// exclusively owned: deleting the Signal deletes them.
type Highlight struct {
	ID          uuid.UUID
	SignalID    uuid.UUID
	Excerpt     string
	Note        string
	StartOffset *int
	EndOffset   *int
	CreatedAt   time.Time
}

// Thought is a free-form user reflection. It may reference at most one Signal
// or one Insight, and survives deletion of either (the reference is nulled).
type Thought struct {
	ID        uuid.UUID
	SignalID  *uuid.UUID
	InsightID *uuid.UUID
	Content   string
	CreatedAt time.Time
}

// Validate rejects a Thought linked to both a Signal and an Insight.
func (t *Thought) Validate() error {
	if t.Content == "" {
		return NewValidationError("thought content is required")
	}
	if t.SignalID != nil && t.InsightID != nil {
		return NewValidationError("thought may reference a signal or an insight, not both")
	}
	return nil
}
