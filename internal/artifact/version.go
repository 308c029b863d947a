package artifact

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

const researchPrefix = "output_v"

var (
	researchVersionRe = regexp.MustCompile(`^output_v(\d+)\.md$`)
	queryVersionRe    = regexp.MustCompile(`_v(\d+)\.md$`)
)

// NextVersion scans dir for entries starting with prefix, extracts the
// version captured by re and returns one past the highest. A missing or
// unreadable dir, or no match at all, yields 1.
//
// The result is advisory: it is a snapshot of the directory, and the
// writer still creates the file exclusively.
func NextVersion(dir, prefix string, re *regexp.Regexp) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}
	highest := 0
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return highest + 1
}

// NextResearchVersion resolves the next output_v<N>.md inside a topic folder.
func NextResearchVersion(dir string) int {
	return NextVersion(dir, researchPrefix, researchVersionRe)
}

// NextQueryVersion resolves the next <slug>_v<N>.md inside the query dir.
func NextQueryVersion(dir, slug string) int {
	return NextVersion(dir, slug, queryVersionRe)
}

func researchFileName(version int) string {
	return researchPrefix + strconv.Itoa(version) + ".md"
}

func queryFileName(slug string, version int) string {
	return slug + "_v" + strconv.Itoa(version) + ".md"
}

var queryNameRe = regexp.MustCompile(`^(.*)_v(\d+)\.md$`)

// ParseResearchFileName reports the version of an output_v<N>.md name.
func ParseResearchFileName(name string) (int, bool) {
	m := researchVersionRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	return v, err == nil
}

// ParseQueryFileName splits a <slug>_v<N>.md name into slug and version.
func ParseQueryFileName(name string) (string, int, bool) {
	m := queryNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	v, err := strconv.Atoi(m[2])
	return m[1], v, err == nil
}
