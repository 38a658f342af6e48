package domain_test

import (
	"testing"

	"signal-desk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePayload_Shapes(t *testing.T) {
	t.Run("Flat object passes through", func(t *testing.T) {
		p, err := domain.NormalizePayload([]byte(`{"title":"T","summary":"S"}`))
		require.NoError(t, err)
		assert.Equal(t, "T", p.Title)
		assert.Equal(t, "S", p.Summary)
	})

	t.Run("Output-nested object merges with inner precedence", func(t *testing.T) {
		raw := []byte(`{"output":{"title":"inner","summary":"S"},"title":"outer","source":"rss"}`)
		p, err := domain.NormalizePayload(raw)
		require.NoError(t, err)
		assert.Equal(t, "inner", p.Title)
		assert.Equal(t, "S", p.Summary)
		assert.Equal(t, "rss", p.Source)
	})

	t.Run("Array of one unwraps the element", func(t *testing.T) {
		p, err := domain.NormalizePayload([]byte(`[{"output":{"title":"T"}}]`))
		require.NoError(t, err)
		assert.Equal(t, "T", p.Title)
	})

	t.Run("Empty array yields zero payload", func(t *testing.T) {
		p, err := domain.NormalizePayload([]byte(`[]`))
		require.NoError(t, err)
		assert.True(t, p.Empty())
	})

	t.Run("Empty input yields zero payload", func(t *testing.T) {
		p, err := domain.NormalizePayload(nil)
		require.NoError(t, err)
		assert.True(t, p.Empty())
	})

	t.Run("Non-object output field is left alone", func(t *testing.T) {
		p, err := domain.NormalizePayload([]byte(`{"output":"plain text","title":"T"}`))
		require.NoError(t, err)
		assert.Equal(t, "T", p.Title)
	})

	t.Run("Malformed JSON is an error", func(t *testing.T) {
		_, err := domain.NormalizePayload([]byte(`{not json`))
		assert.Error(t, err)
	})
}

func TestNormalizePayload_StringList(t *testing.T) {
	t.Run("Accepts array", func(t *testing.T) {
		p, err := domain.NormalizePayload([]byte(`{"key_insights":["a","b"]}`))
		require.NoError(t, err)
		assert.Equal(t, domain.StringList{"a", "b"}, p.KeyInsights)
	})

	t.Run("Accepts single string", func(t *testing.T) {
		p, err := domain.NormalizePayload([]byte(`{"key_insights":"just one"}`))
		require.NoError(t, err)
		assert.Equal(t, domain.StringList{"just one"}, p.KeyInsights)
	})

	t.Run("Null and empty string yield nil", func(t *testing.T) {
		p, err := domain.NormalizePayload([]byte(`{"topics":null,"key_insights":""}`))
		require.NoError(t, err)
		assert.Nil(t, p.Topics)
		assert.Nil(t, p.KeyInsights)
	})
}

func TestCanonicalPayload_HasIdentifyingContent(t *testing.T) {
	cases := []struct {
		name    string
		payload domain.CanonicalPayload
		want    bool
	}{
		{"summary only", domain.CanonicalPayload{Summary: "s"}, true},
		{"title only", domain.CanonicalPayload{Title: "t"}, true},
		{"key insights only", domain.CanonicalPayload{KeyInsights: domain.StringList{"k"}}, true},
		{"content alone is not identifying", domain.CanonicalPayload{Content: "c"}, false},
		{"empty", domain.CanonicalPayload{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.payload.HasIdentifyingContent())
		})
	}
}
