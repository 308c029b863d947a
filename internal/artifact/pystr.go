package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// listItemText renders a decoded JSON list item the way str() prints the
// matching Python value: strings verbatim, True/False/None, and repr for
// containers.
func listItemText(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return string(raw)
	}
	if s, ok := tok.(string); ok {
		return s
	}
	var b strings.Builder
	if err := writeRepr(&b, dec, tok); err != nil {
		return string(raw)
	}
	return b.String()
}

func writeRepr(b *strings.Builder, dec *json.Decoder, tok json.Token) error {
	switch t := tok.(type) {
	case json.Delim:
		closing := byte(']')
		if t == '{' {
			closing = '}'
		}
		b.WriteByte(byte(t))
		for first := true; dec.More(); first = false {
			if !first {
				b.WriteString(", ")
			}
			if t == '{' {
				key, err := dec.Token()
				if err != nil {
					return err
				}
				writeStrRepr(b, key.(string))
				b.WriteString(": ")
			}
			next, err := dec.Token()
			if err != nil {
				return err
			}
			if err := writeRepr(b, dec, next); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		b.WriteByte(closing)
	case string:
		writeStrRepr(b, t)
	case json.Number:
		b.WriteString(numberRepr(t))
	case bool:
		if t {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case nil:
		b.WriteString("None")
	}
	return nil
}

// numberRepr keeps integers as written and prints floats in Python's
// shortest form, switching to exponent notation outside 1e-4..1e16.
func numberRepr(n json.Number) string {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

// writeStrRepr quotes s with single quotes unless s holds a single quote
// and no double quote.
func writeStrRepr(b *strings.Builder, s string) {
	quote := byte('\'')
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		quote = '"'
	}
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
}
