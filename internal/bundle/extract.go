package bundle

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	headerRe     = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	taskLineRe   = regexp.MustCompile(`^-\s*\[.\]\s*([A-Z]+-\d+):\s*(.+)$`)
	checkboxRe   = regexp.MustCompile(`^-\s*\[.\]`)
	criterionRe  = regexp.MustCompile(`^-\s*\[.\]\s*(AC-\d+):\s*(.+)$`)
	complexityRe = regexp.MustCompile(`(?i)complexity:\s*(\w+)`)
	dependsRe    = regexp.MustCompile(`(?i)depends:\s*(.+)`)
	filesRe      = regexp.MustCompile(`(?i)files:\s*(.+)`)
	trailingNum  = regexp.MustCompile(`\d+$`)
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
)

var keywordStopWords = map[string]bool{
	"with": true, "from": true, "that": true, "this": true, "will": true,
	"have": true, "been": true, "were": true, "they": true, "them": true,
}

// Section is one markdown heading with its body. Content includes the
// heading line.
type Section struct {
	Title   string
	Content string
	Level   int
}

// Task is one entry of tasks.md.
type Task struct {
	ID           string
	Description  string
	Complexity   string
	Dependencies []string
	Files        []string
}

// ParseSections splits markdown into heading-delimited sections. Text
// before the first heading is dropped.
func ParseSections(content string) []Section {
	var (
		out  []Section
		cur  *Section
		body []string
	)
	flush := func() {
		if cur != nil {
			cur.Content = strings.TrimSpace(strings.Join(body, "\n"))
			out = append(out, *cur)
		}
	}
	for _, line := range splitLines(content) {
		if m := headerRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &Section{Title: m[2], Level: len(m[1])}
			body = []string{line}
			continue
		}
		if cur != nil {
			body = append(body, line)
		}
	}
	flush()
	return out
}

// ParseTask finds taskID in tasks.md content. Indented lines under the
// task line may carry "complexity:", "depends:" and "files:" details.
func ParseTask(content, taskID string) (Task, bool) {
	lines := splitLines(content)
	for i, line := range lines {
		m := taskLineRe.FindStringSubmatch(line)
		if m == nil || m[1] != taskID {
			continue
		}
		task := Task{ID: taskID, Description: m[2], Complexity: "medium"}
		for _, detail := range lines[i+1:] {
			if !strings.HasPrefix(detail, "  ") || checkboxRe.MatchString(detail) {
				break
			}
			if dm := complexityRe.FindStringSubmatch(detail); dm != nil {
				task.Complexity = strings.ToLower(dm[1])
			}
			if dm := dependsRe.FindStringSubmatch(detail); dm != nil {
				task.Dependencies = splitList(dm[1])
			}
			if dm := filesRe.FindStringSubmatch(detail); dm != nil {
				task.Files = splitList(dm[1])
			}
		}
		return task, true
	}
	return Task{}, false
}

// ParseCriteria returns the "AC-<n>: description" lines of acceptance.md
// that apply to taskID. A task ID ending in digits matches every
// criterion; other IDs match only criteria that mention them.
func ParseCriteria(content, taskID string) []string {
	numbered := trailingNum.MatchString(taskID)
	lowerID := strings.ToLower(taskID)
	var out []string
	for _, line := range splitLines(content) {
		m := criterionRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if numbered || strings.Contains(strings.ToLower(m[2]), lowerID) {
			out = append(out, m[1]+": "+m[2])
		}
	}
	return out
}

// RelevantSections keeps top-level sections (h1, h2), sections sharing a
// keyword with the task description, and sections naming a task file.
func RelevantSections(sections []Section, task Task) []Section {
	var kwRe *regexp.Regexp
	if kws := keywords(task.Description); len(kws) > 0 {
		quoted := make([]string, len(kws))
		for i, k := range kws {
			quoted[i] = regexp.QuoteMeta(k)
		}
		kwRe = regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
	}

	var out []Section
	for _, s := range sections {
		text := strings.ToLower(s.Title + " " + s.Content)
		switch {
		case s.Level <= 2,
			kwRe != nil && kwRe.MatchString(text),
			mentionsAny(text, task.Files):
			out = append(out, s)
		}
	}
	return out
}

// keywords lower-cases description and keeps words of four or more
// characters, minus a few filler words.
func keywords(description string) []string {
	cleaned := nonWordRe.ReplaceAllString(strings.ToLower(description), " ")
	var out []string
	for _, w := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(w) > 3 && !keywordStopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

func mentionsAny(text string, files []string) bool {
	for _, f := range files {
		if strings.Contains(text, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

// splitList splits a comma list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
