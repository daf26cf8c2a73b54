package tokenizer

import (
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates prompt sizes. It prefers a tiktoken encoding and falls
// back to roughly four characters per token when the encoding is unavailable.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// New loads the named encoding. Loading failures are logged and the counter
// degrades to the character heuristic.
func New(encoding string, logger *slog.Logger) *Counter {
	if logger == nil {
		logger = slog.Default()
	}
	if encoding == "" {
		return &Counter{}
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, using estimate", "encoding", encoding, "error", err)
		return &Counter{}
	}
	return &Counter{enc: enc}
}

// Count returns the token estimate for text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c != nil && c.enc != nil {
		return len(c.enc.Encode(text, nil, nil))
	}
	return (utf8.RuneCountInString(text) + 3) / 4
}
