package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(CodeLLM, "model request failed", base)

	require.EqualError(t, err, "model request failed: connection refused")
	require.True(t, IsCode(err, CodeLLM))
	require.False(t, IsCode(err, CodeNotFound))
	require.ErrorIs(t, err, base)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "app error", err: Wrap(CodeNotFound, "summary not found", nil), want: CodeNotFound},
		{name: "wrapped app error", err: fmt.Errorf("outer: %w", Wrap(CodeInvalidInput, "bad", nil)), want: CodeInvalidInput},
		{name: "foreign error", err: errors.New("boom"), want: ""},
		{name: "nil", err: nil, want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}
