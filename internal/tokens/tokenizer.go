// Package tokens counts cl100k_base tokens for files and text budgets.
package tokens

import (
	"fmt"
	"sync"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Encoding is the BPE used for every count.
const Encoding = "cl100k_base"

// charsPerToken is the fallback ratio when the encoding cannot be loaded.
const charsPerToken = 4

// Tokenizer wraps tiktoken for exact token counting.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

var (
	defaultOnce sync.Once
	defaultTok  *Tokenizer
	defaultErr  error
)

// NewTokenizer loads the cl100k_base encoding from the embedded BPE ranks,
// so counting never touches the network.
func NewTokenizer() (*Tokenizer, error) {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: get encoding: %w", err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Default returns a process-wide tokenizer, loading it on first use.
func Default() (*Tokenizer, error) {
	defaultOnce.Do(func() {
		defaultTok, defaultErr = NewTokenizer()
	})
	return defaultTok, defaultErr
}

// Count returns the number of tokens in s. Special-token text is encoded as plain text.
func (t *Tokenizer) Count(s string) int {
	return len(t.enc.Encode(s, nil, nil))
}

// Truncate cuts s to at most maxTokens tokens. A rune split across the
// token boundary is dropped so the result stays valid UTF-8.
func (t *Tokenizer) Truncate(s string, maxTokens int) (string, bool) {
	toks := t.enc.Encode(s, nil, nil)
	if len(toks) <= maxTokens {
		return s, false
	}
	return trimPartialRune(t.enc.Decode(toks[:maxTokens])), true
}

// trimPartialRune removes an incomplete trailing UTF-8 sequence.
func trimPartialRune(s string) string {
	for i := len(s) - 1; i >= 0 && i >= len(s)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(s[i]) {
			continue
		}
		if r, size := utf8.DecodeRuneInString(s[i:]); r == utf8.RuneError && size <= 1 {
			return s[:i]
		}
		break
	}
	return s
}
