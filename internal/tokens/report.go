package tokens

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// WriteReport prints the detailed single-file report or the multi-file
// summary. It returns false when a single requested file failed.
func WriteReport(w io.Writer, stats []FileStats) bool {
	if len(stats) == 1 {
		return writeSingle(w, stats[0])
	}
	writeSummary(w, stats)
	return true
}

func writeSingle(w io.Writer, st FileStats) bool {
	if !st.OK() {
		fmt.Fprintf(w, "❌ Error: %s\n", st.Err)
		return false
	}
	fmt.Fprintf(w, "📄 File: %s\n", st.File)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "🎯 Tokens:       %s\n", comma(st.Tokens))
	fmt.Fprintf(w, "📝 Words:        %s\n", comma(st.Words))
	fmt.Fprintf(w, "🔤 Characters:   %s\n", comma(st.Chars))
	fmt.Fprintf(w, "📏 Lines:        %s\n", comma(st.Lines))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "📊 Chars/token:  %s\n", ratio(st.CharsPerToken, st.Tokens))
	fmt.Fprintf(w, "📊 Tokens/word:  %s\n", ratio(st.TokensPerWord, st.Words))
	return true
}

func writeSummary(w io.Writer, stats []FileStats) {
	fmt.Fprintln(w, "📊 Token Count Summary")
	fmt.Fprintln(w, rule)

	var tokens, words, chars int
	for _, st := range stats {
		if !st.OK() {
			fmt.Fprintf(w, "❌ %s: %s\n", st.File, st.Err)
			continue
		}
		fmt.Fprintf(w, "📄 %s\n", st.File)
		fmt.Fprintf(w, "   🎯 %s tokens | 📝 %s words | 🔤 %s chars\n", comma(st.Tokens), comma(st.Words), comma(st.Chars))
		tokens += st.Tokens
		words += st.Words
		chars += st.Chars
	}

	if tokens > 0 {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "📊 Total: %s tokens | %s words | %s chars\n", comma(tokens), comma(words), comma(chars))
	}
}

func comma(n int) string { return humanize.Comma(int64(n)) }

// ratio prints v the way a float is shown in the report: integral values
// keep one decimal ("4.0") and a zero denominator prints "0".
func ratio(v float64, denom int) string {
	if denom == 0 {
		return "0"
	}
	if v == float64(int64(v)) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
