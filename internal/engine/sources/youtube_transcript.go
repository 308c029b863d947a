package sources

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/liludouglass/opencode-workflow/internal/engine"
	"github.com/liludouglass/opencode-workflow/internal/tokens"
)

// YouTube transcript listing and fetching.
// Primary:  watch page ytInitialPlayerResponse → captionTracks
// Fallback: ANDROID Innertube /player → captionTracks

var (
	// ErrTranscriptsDisabled means the video has no caption tracks at all.
	ErrTranscriptsDisabled = errors.New("transcripts disabled")
	// ErrVideoUnavailable means YouTube refused to play the video.
	ErrVideoUnavailable = errors.New("video unavailable")
)

// Segment is one timed caption line.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is one available caption track of a video.
type Transcript struct {
	VideoID      string
	Language     string
	LanguageCode string
	IsGenerated  bool
	baseURL      string
}

// TranscriptList holds a video's tracks, manually created ones first.
type TranscriptList struct {
	VideoID     string
	Transcripts []Transcript
}

// FirstManual returns the first manually created transcript.
func (l *TranscriptList) FirstManual() (Transcript, bool) {
	for _, t := range l.Transcripts {
		if !t.IsGenerated {
			return t, true
		}
	}
	return Transcript{}, false
}

// FirstGenerated returns the first auto-generated transcript.
func (l *TranscriptList) FirstGenerated() (Transcript, bool) {
	for _, t := range l.Transcripts {
		if t.IsGenerated {
			return t, true
		}
	}
	return Transcript{}, false
}

// ListTranscripts resolves the caption tracks of videoID. It returns
// ErrVideoUnavailable or ErrTranscriptsDisabled when YouTube reports so.
func ListTranscripts(ctx context.Context, videoID string) (*TranscriptList, error) {
	pr, err := fetchWatchPlayer(ctx, videoID)
	if err != nil || len(pr.tracks()) == 0 {
		if err != nil {
			slog.Warn("youtube: watch page failed, trying player", slog.String("id", videoID), slog.Any("error", err))
		}
		android, aerr := fetchAndroidPlayer(ctx, videoID)
		switch {
		case aerr == nil:
			pr = android
		case pr == nil:
			return nil, aerr
		default:
			slog.Debug("youtube: player fallback failed", slog.String("id", videoID), slog.Any("error", aerr))
		}
	}

	status, reason := pr.status()
	tracks := pr.tracks()
	if len(tracks) == 0 {
		if status != "" && status != "OK" {
			return nil, fmt.Errorf("%w: %s %s", ErrVideoUnavailable, status, reason)
		}
		return nil, ErrTranscriptsDisabled
	}

	list := &TranscriptList{VideoID: videoID}
	for _, tr := range tracks {
		list.Transcripts = append(list.Transcripts, Transcript{
			VideoID:      videoID,
			Language:     tr.Name.String(),
			LanguageCode: tr.LanguageCode,
			IsGenerated:  tr.Kind == "asr",
			baseURL:      tr.BaseURL,
		})
	}
	sortTranscripts(list.Transcripts, engine.Cfg.YouTubeLangs)
	return list, nil
}

// sortTranscripts puts manual tracks before generated ones and, within each
// group, preferred languages first. Order is otherwise kept.
func sortTranscripts(ts []Transcript, langs []string) {
	rank := func(code string) int {
		if i := slices.Index(langs, code); i >= 0 {
			return i
		}
		return len(langs)
	}
	slices.SortStableFunc(ts, func(a, b Transcript) int {
		if a.IsGenerated != b.IsGenerated {
			if a.IsGenerated {
				return 1
			}
			return -1
		}
		return rank(a.LanguageCode) - rank(b.LanguageCode)
	})
}

// Fetch downloads and parses the track's timedtext XML.
func (t Transcript) Fetch(ctx context.Context) ([]Segment, error) {
	body, err := httpGet(ctx, t.baseURL, map[string]string{"User-Agent": engine.UserAgentChrome}, 2*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	return parseTimedText(body)
}

// --- Timedtext XML ---

// timedText covers both the legacy <transcript><text start dur> layout and
// format 3 <timedtext><body><p t d> with times in milliseconds.
type timedText struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Text  string `xml:",chardata"`
	} `xml:"text"`
	Body struct {
		Paragraphs []struct {
			T     int      `xml:"t,attr"`
			D     int      `xml:"d,attr"`
			Text  string   `xml:",chardata"`
			Words []string `xml:"s"`
		} `xml:"p"`
	} `xml:"body"`
}

var formattingTagRe = regexp.MustCompile(`(?i)<[^>]*>`)

func cleanSegmentText(s string) string {
	return formattingTagRe.ReplaceAllString(html.UnescapeString(s), "")
}

func parseTimedText(body []byte) ([]Segment, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errors.New("empty timedtext response")
	}
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	var segs []Segment
	for _, line := range tt.Texts {
		if line.Text == "" {
			continue
		}
		start, _ := strconv.ParseFloat(line.Start, 64)
		dur, _ := strconv.ParseFloat(line.Dur, 64)
		segs = append(segs, Segment{Text: cleanSegmentText(line.Text), Start: start, Duration: dur})
	}
	for _, p := range tt.Body.Paragraphs {
		text := p.Text
		if len(p.Words) > 0 {
			text = strings.Join(p.Words, "")
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		segs = append(segs, Segment{
			Text:     cleanSegmentText(text),
			Start:    float64(p.T) / 1000,
			Duration: float64(p.D) / 1000,
		})
	}
	return segs, nil
}

// --- Tool entry point ---

// GetTranscript resolves input to a video, picks the first manual transcript
// (falling back to the first generated one), and joins its text.
// Failures are *engine.ToolError with the user-facing message.
func GetTranscript(ctx context.Context, input string) (*TranscriptResult, error) {
	videoID := ExtractVideoID(input)
	if videoID == "" {
		return nil, engine.NewToolError(engine.KindUsage, nil, "Could not extract video ID from URL: %s", input)
	}
	engine.IncrTranscriptRequests()

	cacheKey := engine.CacheKey("transcript", videoID, strings.Join(engine.Cfg.YouTubeLangs, ","), strconv.Itoa(engine.Cfg.TranscriptMaxTokens))
	if cached, ok := engine.CacheLoadJSON[TranscriptResult](ctx, cacheKey); ok {
		return &cached, nil
	}

	res, err := getTranscript(ctx, videoID)
	if err != nil {
		engine.IncrTranscriptErrors()
		return nil, err
	}
	engine.CacheStoreJSON(ctx, cacheKey, *res)
	return res, nil
}

func getTranscript(ctx context.Context, videoID string) (*TranscriptResult, error) {
	list, err := ListTranscripts(ctx, videoID)
	switch {
	case errors.Is(err, ErrTranscriptsDisabled):
		return nil, engine.NewToolError(engine.KindNotFound, err, "Transcripts are disabled for video: %s", videoID)
	case errors.Is(err, ErrVideoUnavailable):
		return nil, engine.NewToolError(engine.KindUnavailable, err, "Video is unavailable (private, deleted, or age-restricted): %s", videoID)
	case err != nil:
		return nil, engine.NewToolError(engine.KindNetwork, err, "Error fetching transcript: %v", err)
	}

	tr, segs, ok := fetchPreferred(ctx, list)
	if !ok {
		return nil, engine.NewToolError(engine.KindNotFound, nil, "No transcript available for this video")
	}

	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = s.Text
	}
	res := &TranscriptResult{
		VideoID:         videoID,
		URL:             WatchURL(videoID),
		Language:        tr.LanguageCode,
		IsAutoGenerated: tr.IsGenerated,
		Transcript:      strings.Join(texts, " "),
	}
	if n := len(segs); n > 0 {
		res.DurationSeconds = int(segs[n-1].Start + segs[n-1].Duration)
	}
	if budget := engine.Cfg.TranscriptMaxTokens; budget > 0 {
		res.Transcript, res.Truncated = tokens.TruncateToBudget(res.Transcript, budget)
	}
	return res, nil
}

// fetchPreferred fetches the first manual transcript, then the first
// generated one if that fails.
func fetchPreferred(ctx context.Context, list *TranscriptList) (Transcript, []Segment, bool) {
	pickers := []func() (Transcript, bool){list.FirstManual, list.FirstGenerated}
	for _, pick := range pickers {
		tr, ok := pick()
		if !ok {
			continue
		}
		segs, err := tr.Fetch(ctx)
		if err != nil {
			slog.Warn("youtube: transcript fetch failed",
				slog.String("id", list.VideoID), slog.String("lang", tr.LanguageCode),
				slog.Bool("generated", tr.IsGenerated), slog.Any("error", err))
			continue
		}
		return tr, segs, true
	}
	return Transcript{}, nil, false
}
