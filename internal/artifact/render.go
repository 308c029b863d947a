package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Timestamp layouts written into front-matter.
const (
	createdLayout = "2006-01-02T15:04:05.000000"
	dateLayout    = "2006-01-02"
)

// Metadata is caller-supplied front-matter. Keys keep their insertion order
// and values stay as the caller's JSON text, so numbers keep their precision
// and nested objects their key order.
type Metadata = orderedmap.OrderedMap[string, json.RawMessage]

// NewMetadata returns an empty Metadata.
func NewMetadata() *Metadata {
	return orderedmap.New[string, json.RawMessage]()
}

// ParseMetadata decodes a JSON object, preserving key order.
// Empty input yields empty metadata.
func ParseMetadata(raw string) (*Metadata, error) {
	md := NewMetadata()
	if strings.TrimSpace(raw) == "" {
		return md, nil
	}
	if err := json.Unmarshal([]byte(raw), md); err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	return md, nil
}

// ResearchDoc is everything rendered into a research artifact.
type ResearchDoc struct {
	Topic       string
	Version     int
	Created     time.Time
	Content     string
	Sources     []string
	KeyFindings []string
	Metadata    *Metadata
}

// Lines renders the research template. Quoted front-matter values are not
// escaped, so a topic containing `"` or a newline yields malformed YAML.
func (d ResearchDoc) Lines() []string {
	lines := []string{
		"---",
		`topic: "` + d.Topic + `"`,
		"version: " + strconv.Itoa(d.Version),
		`created: "` + d.Created.Format(createdLayout) + `"`,
	}
	if d.Metadata != nil {
		for pair := d.Metadata.Oldest(); pair != nil; pair = pair.Next() {
			lines = append(lines, pair.Key+": "+metaValue(pair.Value))
		}
	}
	lines = append(lines, "---", "", "# "+d.Topic, "")

	if len(d.KeyFindings) > 0 {
		lines = append(lines, "## Key Findings", "")
		for _, f := range d.KeyFindings {
			lines = append(lines, "- "+f)
		}
		lines = append(lines, "")
	}

	lines = append(lines, "## Research", "", d.Content, "")

	if len(d.Sources) > 0 {
		lines = append(lines, "## Sources", "")
		for i, s := range d.Sources {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, s))
		}
		lines = append(lines, "")
	}
	return lines
}

// QueryDoc is everything rendered into a yt-query artifact.
type QueryDoc struct {
	VideoURL string
	VideoID  string
	Query    string
	Slug     string
	Answer   string
	Created  time.Time
}

// Lines renders the yt-query template.
func (d QueryDoc) Lines() []string {
	lines := []string{
		"---",
		`video_url: "` + d.VideoURL + `"`,
	}
	if d.VideoID != "" {
		lines = append(lines, `video_id: "`+d.VideoID+`"`)
	}
	lines = append(lines,
		`query: "`+d.Query+`"`,
		`date: "`+d.Created.Format(dateLayout)+`"`,
		`created: "`+d.Created.Format(createdLayout)+`"`,
		"---",
		"",
		"# YouTube Query: "+titleCase(strings.ReplaceAll(d.Slug, "_", " ")),
		"",
		"## Query",
		"",
		d.Query,
		"",
		"## Source",
		"",
		"[Watch Video]("+d.VideoURL+")",
		"",
		"## Answer",
		"",
		d.Answer,
		"",
	)
	return lines
}

// Render joins lines into the file body.
func Render(lines []string) string {
	return strings.Join(lines, "\n")
}

// metaValue quotes strings verbatim and writes everything else the way
// Python's json.dumps does: ", " and ": " separators, non-ASCII escaped.
func metaValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return `"` + s + `"`
		}
	}
	var b strings.Builder
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := writeDumps(&b, dec); err != nil {
		return string(raw)
	}
	return b.String()
}

func writeDumps(b *strings.Builder, dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch t := tok.(type) {
	case json.Delim:
		open, sep := t, ", "
		if open == '{' {
			b.WriteByte('{')
		} else {
			b.WriteByte('[')
		}
		for first := true; dec.More(); first = false {
			if !first {
				b.WriteString(sep)
			}
			if open == '{' {
				key, err := dec.Token()
				if err != nil {
					return err
				}
				writeDumpsString(b, key.(string))
				b.WriteString(": ")
			}
			if err := writeDumps(b, dec); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		if open == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	case string:
		writeDumpsString(b, t)
	case json.Number:
		b.WriteString(t.String())
	case bool:
		b.WriteString(strconv.FormatBool(t))
	case nil:
		b.WriteString("null")
	}
	return nil
}

// writeDumpsString writes s as an ASCII-only JSON string.
func writeDumpsString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || (r > 0x7e && r <= 0xffff):
				fmt.Fprintf(b, `\u%04x`, r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(b, `\u%04x\u%04x`, r1, r2)
			default:
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "3d models" becomes "3D Models".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToTitle(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
