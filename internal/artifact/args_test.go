package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "  ", nil},
		{"strings", `["https://a.dev", "https://b.dev"]`, []string{"https://a.dev", "https://b.dev"}},
		{"mixed", `["x", 3, {"k":"v"}]`, []string{"x", "3", "{'k': 'v'}"}},
		{"python literals", `[true, false, null, 1.0, 2.50, 1e20, 0.00001]`, []string{"True", "False", "None", "1.0", "2.5", "1e+20", "1e-05"}},
		{"nested", `[[1, "a", null], {"it's": "x\ny"}]`, []string{"[1, 'a', None]", `{"it's": 'x\ny'}`}},
		{"empty array", `[]`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringList(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStringList(`{"not":"array"}`)
	assert.Error(t, err)
}

func TestUnescapeNewlines(t *testing.T) {
	assert.Equal(t, "line1\nline2\n", UnescapeNewlines(`line1\nline2\n`))
	assert.Equal(t, "no escapes", UnescapeNewlines("no escapes"))
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"": "", "all": "", "research": KindResearch, "yt-query": KindQuery, "yt_query": KindQuery, "query": KindQuery,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("videos")
	assert.Error(t, err)
}
