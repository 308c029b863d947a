package artifact

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)

// section returns the lines between "## <name>" (plus its blank line) and
// the next blank line.
func section(lines []string, name string) []string {
	for i, l := range lines {
		if l != "## "+name {
			continue
		}
		var out []string
		for _, body := range lines[i+2:] {
			if body == "" {
				break
			}
			out = append(out, body)
		}
		return out
	}
	return nil
}

func TestResearchDocLines(t *testing.T) {
	md, err := ParseMetadata(`{"author": "agent", "depth": 3, "tags": ["go", "mcp"], "draft": false}`)
	require.NoError(t, err)

	doc := ResearchDoc{
		Topic:       "T",
		Version:     2,
		Created:     fixedTime,
		Content:     "C",
		Sources:     []string{"a", "b"},
		KeyFindings: []string{"f1"},
		Metadata:    md,
	}

	want := []string{
		"---",
		`topic: "T"`,
		"version: 2",
		`created: "2026-03-14T09:26:53.589793"`,
		`author: "agent"`,
		"depth: 3",
		`tags: ["go", "mcp"]`,
		"draft: false",
		"---",
		"",
		"# T",
		"",
		"## Key Findings",
		"",
		"- f1",
		"",
		"## Research",
		"",
		"C",
		"",
		"## Sources",
		"",
		"1. a",
		"2. b",
		"",
	}
	if diff := cmp.Diff(want, doc.Lines()); diff != "" {
		t.Errorf("ResearchDoc.Lines() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"1. a", "2. b"}, section(doc.Lines(), "Sources"))
	assert.Equal(t, []string{"- f1"}, section(doc.Lines(), "Key Findings"))
}

func TestResearchDocOptionalSections(t *testing.T) {
	doc := ResearchDoc{Topic: "Bare", Version: 1, Created: fixedTime, Content: "body"}
	lines := doc.Lines()

	assert.Nil(t, section(lines, "Key Findings"))
	assert.Nil(t, section(lines, "Sources"))
	assert.Equal(t, []string{"body"}, section(lines, "Research"))
	assert.Equal(t, "---", lines[4], "front-matter closes right after created")
}

func TestResearchDocUnescapedQuotes(t *testing.T) {
	doc := ResearchDoc{Topic: `say "hi"`, Version: 1, Created: fixedTime}
	assert.Equal(t, `topic: "say "hi""`, doc.Lines()[1])
}

func TestQueryDocLines(t *testing.T) {
	doc := QueryDoc{
		VideoURL: "https://youtu.be/dQw4w9WgXcQ",
		VideoID:  "dQw4w9WgXcQ",
		Query:    "What are the 3d printing tips?",
		Slug:     "3d_printing_tips",
		Answer:   "Line one\nLine two",
		Created:  fixedTime,
	}
	want := []string{
		"---",
		`video_url: "https://youtu.be/dQw4w9WgXcQ"`,
		`video_id: "dQw4w9WgXcQ"`,
		`query: "What are the 3d printing tips?"`,
		`date: "2026-03-14"`,
		`created: "2026-03-14T09:26:53.589793"`,
		"---",
		"",
		"# YouTube Query: 3D Printing Tips",
		"",
		"## Query",
		"",
		"What are the 3d printing tips?",
		"",
		"## Source",
		"",
		"[Watch Video](https://youtu.be/dQw4w9WgXcQ)",
		"",
		"## Answer",
		"",
		"Line one\nLine two",
		"",
	}
	if diff := cmp.Diff(want, doc.Lines()); diff != "" {
		t.Errorf("QueryDoc.Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryDocWithoutVideoID(t *testing.T) {
	doc := QueryDoc{VideoURL: "u", Query: "q", Slug: "query", Created: fixedTime}
	lines := doc.Lines()
	assert.Equal(t, `query: "q"`, lines[2])
	assert.NotContains(t, Render(lines), "video_id")
}

func TestRenderJoinsWithNewline(t *testing.T) {
	assert.Equal(t, "a\n\nb\n", Render([]string{"a", "", "b", ""}))
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"go generics":   "Go Generics",
		"3d models":     "3D Models",
		"query":         "Query",
		"ALREADY UPPER": "Already Upper",
		"":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, titleCase(in), "titleCase(%q)", in)
	}
}

func TestParseMetadata(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		md, err := ParseMetadata("")
		require.NoError(t, err)
		assert.Equal(t, 0, md.Len())
	})

	t.Run("keeps key order", func(t *testing.T) {
		md, err := ParseMetadata(`{"zeta": 1, "alpha": 2, "mid": "x"}`)
		require.NoError(t, err)
		var keys []string
		for p := md.Oldest(); p != nil; p = p.Next() {
			keys = append(keys, p.Key)
		}
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseMetadata(`[1,2]`)
		assert.Error(t, err)
	})
}

func TestMetaValue(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"plain"`, `"plain"`},
		{`"say \"hi\""`, `"say "hi""`},
		{`1.5`, "1.5"},
		{`1.0`, "1.0"},
		{`12345678901234567890`, "12345678901234567890"},
		{`true`, "true"},
		{`null`, "null"},
		{`{"k":"<v>"}`, `{"k": "<v>"}`},
		{`{"z":1,"a":{"y":[1,2],"b":null}}`, `{"z": 1, "a": {"y": [1, 2], "b": null}}`},
		{`["α","b"]`, `["\u03b1", "b"]`},
		{`["😀"]`, `["\ud83d\ude00"]`},
		{`[]`, "[]"},
		{`{}`, "{}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, metaValue(json.RawMessage(tt.raw)), "metaValue(%s)", tt.raw)
	}
}

func TestResearchMetadataKeepsCallerJSON(t *testing.T) {
	md, err := ParseMetadata(`{"id":12345678901234567890,"ratio":1.0,"nested":{"z":1,"a":2},"tags":["α","b"]}`)
	require.NoError(t, err)

	lines := ResearchDoc{Topic: "T", Version: 1, Created: fixedTime, Metadata: md}.Lines()
	assert.Equal(t, []string{
		"id: 12345678901234567890",
		"ratio: 1.0",
		`nested: {"z": 1, "a": 2}`,
		`tags: ["\u03b1", "b"]`,
	}, lines[4:8])
}
