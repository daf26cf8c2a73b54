package tokenizer

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterFallsBackToEstimate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	counter := New("no_such_encoding", logger)

	cases := []struct {
		text string
		want int
	}{
		{text: "", want: 0},
		{text: "abc", want: 1},
		{text: "abcd", want: 1},
		{text: "abcde", want: 2},
		{text: "héllo wörld!", want: 3},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, counter.Count(tc.text), tc.text)
	}
}

func TestNilCounter(t *testing.T) {
	var counter *Counter
	require.Equal(t, 2, counter.Count("12345678"))
}
