package summarizer

import (
	"strings"

	apperrors "github.com/yanqian/summarizer-backend/pkg/errors"
)

const (
	minSummaryWords   = 4
	sentenceSeparator = ". "
)

// PostProcess validates raw model output and cuts it down to the sentence
// cap of the length class. Sentences are found by splitting on ". ", which
// does not understand abbreviations or decimals; stored records rely on the
// split being exactly this.
func PostProcess(raw string, length LengthClass) (string, bool, error) {
	text := strings.TrimSpace(raw)
	if text == "" || len(strings.Fields(text)) < minSummaryWords {
		return "", false, apperrors.Wrap(apperrors.CodeInvalidInput, "insufficient summary generated", nil)
	}

	sentences := splitSentences(text)
	limit := length.SentenceCap()
	if len(sentences) <= limit {
		return text, false, nil
	}
	return strings.Join(sentences[:limit], sentenceSeparator) + ".", true, nil
}

func splitSentences(text string) []string {
	parts := strings.Split(text, sentenceSeparator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
