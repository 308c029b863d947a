package sources

// YouTube transcript support is split across three files by responsibility:
//   youtube.go           : video ID parsing and result types
//   youtube_innertube.go : watch page and ANDROID /player primitives
//   youtube_transcript.go: transcript listing, selection, and timedtext parsing

import "regexp"

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
}

// ExtractVideoID returns the 11-character video ID from a watch, short,
// embed, or /v/ URL, or from a bare ID. Returns "" when nothing matches.
func ExtractVideoID(rawURL string) string {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); len(m) >= 2 {
			return m[1]
		}
	}
	return ""
}

// WatchURL is the canonical watch page URL of a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// TranscriptResult is the success shape printed by yt-transcript.
type TranscriptResult struct {
	VideoID         string `json:"video_id"`
	URL             string `json:"url"`
	Language        string `json:"language"`
	IsAutoGenerated bool   `json:"is_auto_generated"`
	DurationSeconds int    `json:"duration_seconds"`
	Transcript      string `json:"transcript"`
	Truncated       bool   `json:"truncated,omitempty"`
}
