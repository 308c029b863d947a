// Package artifact persists research notes and video query answers as
// versioned markdown files with a small front-matter block.
//
// Files are laid out as:
//
//	<research dir>/<topic_slug>/output_v<N>.md
//	<query dir>/<query_slug>_v<N>.md
package artifact

import (
	"regexp"
	"strings"
)

// QuerySlugMaxLen bounds slugs used as yt-query file names.
const QuerySlugMaxLen = 50

const (
	fallbackSlug    = "query"
	maxSubjectWords = 6
)

var (
	nonSlugRe = regexp.MustCompile(`[^\w\s-]`)
	sepRe     = regexp.MustCompile(`[-\s]+`)
)

// stopWords are dropped from a query before it becomes a file name.
var stopWords = map[string]bool{
	"what": true, "which": true, "who": true, "where": true, "when": true,
	"why": true, "how": true, "are": true, "is": true, "the": true,
	"a": true, "an": true, "in": true, "this": true, "video": true,
	"about": true, "does": true, "do": true, "can": true, "could": true,
	"would": true, "should": true, "most": true, "important": true,
	"main": true, "key": true, "top": true, "best": true,
}

// Slugify lowercases text, drops everything except ASCII word characters,
// whitespace and hyphens, then joins the remaining runs with underscores.
// Degenerate input yields "".
func Slugify(text string) string {
	s := nonSlugRe.ReplaceAllString(strings.ToLower(text), "")
	s = sepRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// SlugifyMax is Slugify capped at maxLen bytes. A cut never leaves a
// trailing underscore. maxLen <= 0 disables the cap.
func SlugifyMax(text string, maxLen int) string {
	s := Slugify(text)
	if maxLen > 0 && len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "_")
	}
	return s
}

// QuerySubject derives a short topical slug from a natural-language question:
// punctuation is stripped per word, stop-words are removed and at most six
// words are kept. Returns "query" when nothing survives.
func QuerySubject(query string) string {
	var kept []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = Slugify(w)
		if w == "" || stopWords[w] {
			continue
		}
		kept = append(kept, w)
		if len(kept) == maxSubjectWords {
			break
		}
	}
	if s := SlugifyMax(strings.Join(kept, "_"), QuerySlugMaxLen); s != "" {
		return s
	}
	return fallbackSlug
}
