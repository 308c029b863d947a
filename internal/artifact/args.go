package artifact

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseStringList decodes a JSON array given on the command line. Non-string
// items are printed as Python would print them (True, None, 1.0, {'k': 'v'}).
// Empty input yields nil.
func ParseStringList(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("expected a JSON array: %w", err)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, listItemText(item))
	}
	return out, nil
}

// UnescapeNewlines turns literal \n sequences into newlines, for answers
// passed through shells that cannot carry real line breaks.
func UnescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
