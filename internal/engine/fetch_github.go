package engine

import (
	"path"
	"regexp"
)

// githubBlobRe matches github.com/:owner/:repo/blob/:ref/:path
var githubBlobRe = regexp.MustCompile(`^https?://github\.com/([^/]+/[^/]+)/blob/([^/?#]+)/([^?#]+)`)

// rawSourceURL maps a GitHub blob page to its raw file, so web fetches get
// the source text instead of the rendered page chrome. The second result is
// the file name, empty when u is returned unchanged.
func rawSourceURL(u string) (string, string) {
	m := githubBlobRe.FindStringSubmatch(u)
	if m == nil {
		return u, ""
	}
	return "https://raw.githubusercontent.com/" + m[1] + "/" + m[2] + "/" + m[3], path.Base(m[3])
}
