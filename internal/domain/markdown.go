package domain

import (
	"strings"
)

const fallbackTitle = "Extracted Insight"

// SynthesizeContent renders a Markdown body from the structured payload
// fields when the engine did not supply an explicit content field. Sections
// appear in a fixed order; list fields are bullet-joined.
func SynthesizeContent(p CanonicalPayload) string {
	if p.Content != "" {
		return p.Content
	}

	var b strings.Builder
	writeSection(&b, "Summary", p.Summary)
	writeListSection(&b, "Key Insights", p.KeyInsights)
	writeListSection(&b, "Actionable Takeaways", p.ActionableTakeaways)
	writeSection(&b, "Sentiment", p.Sentiment)
	return strings.TrimRight(b.String(), "\n")
}

// ResolveTitle picks a title for a reconciled Signal: explicit title, then
// the first 100 characters of the summary, then a fixed fallback.
func ResolveTitle(p CanonicalPayload) string {
	if p.Title != "" {
		return p.Title
	}
	if p.Summary != "" {
		runes := []rune(p.Summary)
		if len(runes) > 100 {
			return string(runes[:100])
		}
		return p.Summary
	}
	return fallbackTitle
}

func writeSection(b *strings.Builder, heading, body string) {
	if body == "" {
		return
	}
	b.WriteString("## ")
	b.WriteString(heading)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
}

func writeListSection(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("## ")
	b.WriteString(heading)
	b.WriteString("\n\n")
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
