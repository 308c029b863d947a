package artifact

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugCharset = regexp.MustCompile(`^[a-z0-9_]*$`)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Go Concurrency", "go_concurrency"},
		{"punctuation dropped", "What's new in Go 1.22?", "whats_new_in_go_122"},
		{"hyphen runs collapse", "event -- driven  design", "event_driven_design"},
		{"edges trimmed", "  - hello -  ", "hello"},
		{"underscores kept", "snake_case name", "snake_case_name"},
		{"non ascii removed", "café résumé", "caf_rsum"},
		{"all punctuation", "?!.,;:", ""},
		{"whitespace only", " \t\n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, slugCharset, got)
		})
	}
}

func TestSlugifyCharsetProperty(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"Ünïcödé ☃ snowman",
		"tabs\tand\nnewlines",
		"--leading and trailing--",
		"MiXeD CaSe 123",
		"emoji 🚀 launch",
		"path/to/file.md",
		`quotes "inside" 'here'`,
	}
	for _, in := range inputs {
		got := Slugify(in)
		assert.Regexp(t, slugCharset, got, "input %q", in)
		assert.False(t, strings.HasPrefix(got, "_"), "input %q", in)
		assert.False(t, strings.HasSuffix(got, "_"), "input %q", in)
	}
}

func TestSlugifyMax(t *testing.T) {
	t.Run("short input untouched", func(t *testing.T) {
		assert.Equal(t, "short_title", SlugifyMax("Short title", 50))
	})

	t.Run("never exceeds limit", func(t *testing.T) {
		long := strings.Repeat("word ", 40)
		got := SlugifyMax(long, QuerySlugMaxLen)
		assert.LessOrEqual(t, len(got), QuerySlugMaxLen)
		assert.False(t, strings.HasSuffix(got, "_"))
	})

	t.Run("cut on separator trims underscore", func(t *testing.T) {
		// "abcd_" is the 5-byte prefix; the trailing underscore must go.
		assert.Equal(t, "abcd", SlugifyMax("abcd efgh", 5))
	})

	t.Run("zero disables cap", func(t *testing.T) {
		long := strings.Repeat("a", 200)
		assert.Equal(t, long, SlugifyMax(long, 0))
	})
}

func TestQuerySubject(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"stop words and video removed", "What is the most important point in this video?", "point"},
		{"first six words kept", "explain goroutines channels select mutex waitgroup context errgroup", "explain_goroutines_channels_select_mutex_waitgroup"},
		{"only stop words", "What is this video about?", "query"},
		{"only punctuation", "??? !!!", "query"},
		{"hyphenated word", "How does self-driving work", "self_driving_work"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuerySubject(tt.query)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, slugCharset, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestQuerySubjectBounded(t *testing.T) {
	q := "supercalifragilistic expialidocious antidisestablishmentarianism floccinaucinihilipilification pneumonoultramicroscopic hippopotomonstrosesquippedaliophobia"
	got := QuerySubject(q)
	assert.LessOrEqual(t, len(got), QuerySlugMaxLen)
	assert.LessOrEqual(t, len(strings.Split(got, "_")), maxSubjectWords)
	assert.False(t, strings.HasSuffix(got, "_"))
}
