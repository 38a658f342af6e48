package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StringList decodes a JSON field that the automation engine sends either as
// a single string or as an array of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*l = nil
		return nil
	}
	*l = StringList{single}
	return nil
}

// CanonicalPayload is the single internal shape every external reply is
// collapsed into. The heterogeneous wire shapes (flat, output-nested,
// array-wrapped) never propagate past NormalizePayload.
type CanonicalPayload struct {
	SignalID            string     `json:"signalId,omitempty"`
	InsightID           string     `json:"insightId,omitempty"`
	Title               string     `json:"title,omitempty"`
	Summary             string     `json:"summary,omitempty"`
	Content             string     `json:"content,omitempty"`
	KeyInsights         StringList `json:"key_insights,omitempty"`
	ActionableTakeaways StringList `json:"actionable_takeaways,omitempty"`
	Topics              StringList `json:"topics,omitempty"`
	Sentiment           string     `json:"sentiment,omitempty"`
	Source              string     `json:"source,omitempty"`
	SourceURL           string     `json:"sourceUrl,omitempty"`
	RawContent          string     `json:"rawContent,omitempty"`

	// Inline publish acknowledgement fields.
	Status  string `json:"status,omitempty"`
	PostURL string `json:"postUrl,omitempty"`
}

// HasIdentifyingContent reports whether the payload carries at least one
// content field that can identify a Signal.
func (p *CanonicalPayload) HasIdentifyingContent() bool {
	return p.Summary != "" || p.Title != "" || len(p.KeyInsights) > 0
}

// Empty reports whether every field is zero.
func (p *CanonicalPayload) Empty() bool {
	a, _ := json.Marshal(p)
	return string(a) == "{}"
}

// NormalizePayload collapses the three external reply shapes into one
// CanonicalPayload:
//
//  1. If the value is an array, take its first element (an empty array yields
//     the zero payload).
//  2. If the object has an "output" field that is itself an object, merge the
//     outer fields with the inner ones, inner fields winning on collision.
//     The wrapper usually only supplies metadata such as source/sourceUrl.
func NormalizePayload(raw []byte) (CanonicalPayload, error) {
	var payload CanonicalPayload

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return payload, nil
	}

	if raw[0] == '[' {
		var elements []json.RawMessage
		if err := json.Unmarshal(raw, &elements); err != nil {
			return payload, fmt.Errorf("failed to decode array payload: %w", err)
		}
		if len(elements) == 0 {
			return payload, nil
		}
		raw = elements[0]
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil {
		return payload, fmt.Errorf("failed to decode payload object: %w", err)
	}

	if nested, ok := outer["output"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err == nil {
			delete(outer, "output")
			for key, value := range inner {
				outer[key] = value
			}
		}
	}

	merged, err := json.Marshal(outer)
	if err != nil {
		return payload, fmt.Errorf("failed to re-encode merged payload: %w", err)
	}
	if err := json.Unmarshal(merged, &payload); err != nil {
		return payload, fmt.Errorf("failed to decode canonical payload: %w", err)
	}
	return payload, nil
}
