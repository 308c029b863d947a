package bundle

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	progressHeaderRe = regexp.MustCompile(`^##\s*\[([^\]]+)\]\s*-\s*\[([^\]]+)\]\s*-\s*Iteration\s*\[(\d+)\]`)
	progressFieldRe  = regexp.MustCompile(`^(Agent|Action|Files|Tests|Commit|Status):\s*(.+)$`)
)

// Timestamp layouts accepted in progress headers.
var progressLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ProgressEntry is one "## [time] - [task] - Iteration [n]" block of progress.md.
type ProgressEntry struct {
	Timestamp string
	TaskID    string
	Iteration int
	Agent     string
	Action    string
	Files     []string
	Tests     string
	Commit    string
	Status    string

	at time.Time
}

// ParseProgress reads every entry of progress.md in file order.
func ParseProgress(content string) []ProgressEntry {
	var (
		out []ProgressEntry
		cur *ProgressEntry
	)
	for _, line := range splitLines(content) {
		if m := progressHeaderRe.FindStringSubmatch(line); m != nil {
			if cur != nil {
				out = append(out, *cur)
			}
			iter, _ := strconv.Atoi(m[3])
			cur = &ProgressEntry{Timestamp: m[1], TaskID: m[2], Iteration: iter, at: parseProgressTime(m[1])}
			continue
		}
		if cur == nil {
			continue
		}
		m := progressFieldRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		switch v := m[2]; m[1] {
		case "Agent":
			cur.Agent = v
		case "Action":
			cur.Action = v
		case "Files":
			cur.Files = splitList(v)
		case "Tests":
			cur.Tests = v
		case "Commit":
			cur.Commit = v
		case "Status":
			cur.Status = v
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

func parseProgressTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range progressLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// RecentProgress picks up to limit entries, newest first: about 70% from
// taskID's own history, the rest from other tasks. Entries whose time
// cannot be parsed sort last.
func RecentProgress(entries []ProgressEntry, taskID string, limit int) []string {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b ProgressEntry) int {
		return b.at.Compare(a.at)
	})

	own := (limit*7 + 9) / 10
	other := limit * 3 / 10
	var mine, rest []ProgressEntry
	for _, e := range sorted {
		switch {
		case e.TaskID == taskID && len(mine) < own:
			mine = append(mine, e)
		case e.TaskID != taskID && len(rest) < other:
			rest = append(rest, e)
		}
	}

	picked := append(mine, rest...)
	if len(picked) > limit {
		picked = picked[:limit]
	}
	out := make([]string, len(picked))
	for i, e := range picked {
		out[i] = e.String()
	}
	return out
}

// String renders the entry back in progress.md form with placeholders
// for missing fields.
func (e ProgressEntry) String() string {
	return fmt.Sprintf("## [%s] - [%s] - Iteration [%d]\nAgent: %s\nAction: %s\nFiles: %s\nTests: %s\nCommit: %s\nStatus: %s",
		e.Timestamp, e.TaskID, e.Iteration,
		orDefault(e.Agent, "unknown"),
		orDefault(e.Action, "no action specified"),
		strings.Join(e.Files, ", "),
		orDefault(e.Tests, "no test info"),
		orDefault(e.Commit, "no commit"),
		orDefault(e.Status, "unknown"))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
