package tokens

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"
	"unicode/utf8"
)

// FileStats is the count for one file. Err is set instead of the counts
// when the file could not be read.
type FileStats struct {
	File          string  `json:"file"`
	Tokens        int     `json:"tokens"`
	Words         int     `json:"words"`
	Chars         int     `json:"chars"`
	Lines         int     `json:"lines"`
	CharsPerToken float64 `json:"chars_per_token"`
	TokensPerWord float64 `json:"tokens_per_word"`
	Err           string  `json:"error,omitempty"`
}

// OK reports whether the stats hold counts rather than an error.
func (s FileStats) OK() bool { return s.Err == "" }

// CountText computes the statistics of content.
func (t *Tokenizer) CountText(name, content string) FileStats {
	st := FileStats{
		File:   name,
		Tokens: t.Count(content),
		Words:  len(strings.Fields(content)),
		Chars:  utf8.RuneCountInString(content),
		Lines:  strings.Count(content, "\n") + 1,
	}
	if st.Tokens > 0 {
		st.CharsPerToken = round2(float64(st.Chars) / float64(st.Tokens))
	}
	if st.Words > 0 {
		st.TokensPerWord = round2(float64(st.Tokens) / float64(st.Words))
	}
	return st
}

// CountFile reads path as UTF-8 text and counts it.
func (t *Tokenizer) CountFile(path string) FileStats {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileStats{File: path, Err: "File not found"}
		}
		return FileStats{File: path, Err: err.Error()}
	}
	if !utf8.Valid(data) {
		return FileStats{File: path, Err: fmt.Sprintf("%s: invalid UTF-8", path)}
	}
	return t.CountText(path, normalizeNewlines(string(data)))
}

// normalizeNewlines maps CRLF and lone CR to LF, as text-mode reads do.
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

// CountFiles counts each path in order.
func (t *Tokenizer) CountFiles(paths []string) []FileStats {
	out := make([]FileStats, 0, len(paths))
	for _, p := range paths {
		out = append(out, t.CountFile(p))
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
