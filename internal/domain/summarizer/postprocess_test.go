package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/summarizer-backend/pkg/errors"
)

func TestPostProcess(t *testing.T) {
	ten := "One is here. Two is here. Three is here. Four is here. Five is here. " +
		"Six is here. Seven is here. Eight is here. Nine is here. Ten is here."

	cases := []struct {
		name          string
		raw           string
		length        LengthClass
		want          string
		wantTruncated bool
	}{
		{
			name:          "short keeps two sentences",
			raw:           ten,
			length:        LengthShort,
			want:          "One is here. Two is here.",
			wantTruncated: true,
		},
		{
			name:          "long keeps eight sentences",
			raw:           ten,
			length:        LengthLong,
			want:          "One is here. Two is here. Three is here. Four is here. Five is here. Six is here. Seven is here. Eight is here.",
			wantTruncated: true,
		},
		{
			name:          "unrecognized uses medium cap",
			raw:           ten,
			length:        LengthClass("huge"),
			want:          "One is here. Two is here. Three is here. Four is here. Five is here.",
			wantTruncated: true,
		},
		{
			name:   "within cap returns trimmed text",
			raw:    "  Go is simple. It compiles fast.  ",
			length: LengthMedium,
			want:   "Go is simple. It compiles fast.",
		},
		{
			name:   "no separator",
			raw:    "A single long sentence without a final period",
			length: LengthShort,
			want:   "A single long sentence without a final period",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, truncated, err := PostProcess(tc.raw, tc.length)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.wantTruncated, truncated)
		})
	}
}

func TestPostProcessRejectsInsufficientOutput(t *testing.T) {
	for _, raw := range []string{"", "   ", "Too few words", "\n\tone two three\n"} {
		_, _, err := PostProcess(raw, LengthMedium)
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
		require.Contains(t, err.Error(), "insufficient summary generated")
	}
}

func TestPostProcessNeverExceedsCap(t *testing.T) {
	raw := strings.Repeat("This sentence has words. ", 30)
	for _, length := range []LengthClass{LengthShort, LengthMedium, LengthLong, "other"} {
		got, _, err := PostProcess(raw, length)
		require.NoError(t, err)
		require.LessOrEqual(t, len(splitSentences(got)), length.SentenceCap())
	}
}
