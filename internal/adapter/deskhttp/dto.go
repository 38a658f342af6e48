package deskhttp

import (
	"time"

	"signal-desk/internal/domain"
)

type signalResponse struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Content    string              `json:"content"`
	Summary    string              `json:"summary,omitempty"`
	Source     string              `json:"source,omitempty"`
	SourceURL  string              `json:"sourceUrl,omitempty"`
	Tags       []string            `json:"tags"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
	Highlights []highlightResponse `json:"highlights,omitempty"`
	Thoughts   []thoughtResponse   `json:"thoughts,omitempty"`
}

type highlightResponse struct {
	ID          string    `json:"id"`
	SignalID    string    `json:"signalId"`
	Excerpt     string    `json:"excerpt"`
	Note        string    `json:"note,omitempty"`
	StartOffset *int      `json:"startOffset,omitempty"`
	EndOffset   *int      `json:"endOffset,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type thoughtResponse struct {
	ID        string    `json:"id"`
	SignalID  string    `json:"signalId,omitempty"`
	InsightID string    `json:"insightId,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type insightResponse struct {
	ID              string            `json:"id"`
	CoreInsight     string            `json:"coreInsight"`
	Status          string            `json:"status"`
	Preview         string            `json:"preview,omitempty"`
	PreviewPlatform string            `json:"previewPlatform,omitempty"`
	PublishedURL    string            `json:"publishedUrl,omitempty"`
	PublishedAt     *time.Time        `json:"publishedAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	Thoughts        []thoughtResponse `json:"thoughts,omitempty"`
	Signals         []signalResponse  `json:"signals,omitempty"`
}

func toSignalResponse(s *domain.Signal) signalResponse {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := signalResponse{
		ID:        s.ID.String(),
		Title:     s.Title,
		Content:   s.Content,
		Summary:   s.Summary,
		Source:    s.Source,
		SourceURL: s.SourceURL,
		Tags:      tags,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for i := range s.Highlights {
		resp.Highlights = append(resp.Highlights, toHighlightResponse(&s.Highlights[i]))
	}
	for i := range s.Thoughts {
		resp.Thoughts = append(resp.Thoughts, toThoughtResponse(&s.Thoughts[i]))
	}
	return resp
}

func toHighlightResponse(hl *domain.Highlight) highlightResponse {
	return highlightResponse{
		ID:          hl.ID.String(),
		SignalID:    hl.SignalID.String(),
		Excerpt:     hl.Excerpt,
		Note:        hl.Note,
		StartOffset: hl.StartOffset,
		EndOffset:   hl.EndOffset,
		CreatedAt:   hl.CreatedAt,
	}
}

func toThoughtResponse(th *domain.Thought) thoughtResponse {
	resp := thoughtResponse{
		ID:        th.ID.String(),
		Content:   th.Content,
		CreatedAt: th.CreatedAt,
	}
	if th.SignalID != nil {
		resp.SignalID = th.SignalID.String()
	}
	if th.InsightID != nil {
		resp.InsightID = th.InsightID.String()
	}
	return resp
}

func toInsightResponse(in *domain.Insight) insightResponse {
	resp := insightResponse{
		ID:              in.ID.String(),
		CoreInsight:     in.CoreInsight,
		Status:          string(in.Status),
		Preview:         in.Preview,
		PreviewPlatform: in.PreviewPlatform,
		PublishedURL:    in.PublishedURL,
		PublishedAt:     in.PublishedAt,
		CreatedAt:       in.CreatedAt,
		UpdatedAt:       in.UpdatedAt,
	}
	for i := range in.Thoughts {
		resp.Thoughts = append(resp.Thoughts, toThoughtResponse(&in.Thoughts[i]))
	}
	for i := range in.Signals {
		resp.Signals = append(resp.Signals, toSignalResponse(&in.Signals[i]))
	}
	return resp
}
