package summarizer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/summarizer-backend/pkg/errors"
)

func TestNormalizeAppliesDefaults(t *testing.T) {
	text, params, err := Normalize(Request{Text: "Some text to summarize."})
	require.NoError(t, err)
	require.Equal(t, "Some text to summarize.", text)
	require.Equal(t, LengthMedium, params.Length)
	require.Equal(t, DefaultTonality, params.Tonality)
	require.InDelta(t, DefaultTemperature, params.Temperature, 1e-9)
	require.InDelta(t, 0.95, params.TopP, 1e-9)
	require.Empty(t, params.Focus)
}

func TestNormalizeTextLimit(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "empty", text: ""},
		{name: "at limit", text: strings.Repeat("a", MaxTextRunes)},
		{name: "multibyte at limit", text: strings.Repeat("é", MaxTextRunes)},
		{name: "over limit", text: strings.Repeat("a", MaxTextRunes+1), wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, _, err := Normalize(Request{Text: tc.text})
			if tc.wantErr {
				require.Error(t, err)
				require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
				require.Contains(t, err.Error(), "input text too long (max 8000 characters)")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.text, text)
		})
	}
}

func TestNormalizeFocusLimit(t *testing.T) {
	_, params, err := Normalize(Request{Text: "x", Focus: strings.Repeat("f", MaxFocusRunes)})
	require.NoError(t, err)
	require.Len(t, params.Focus, MaxFocusRunes)

	_, _, err = Normalize(Request{Text: "x", Focus: strings.Repeat("f", MaxFocusRunes+1)})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestNormalizeTemperature(t *testing.T) {
	cases := []struct {
		name  string
		param NumberParam
		want  float64
	}{
		{name: "below cap", param: Number(0.3), want: 0.3},
		{name: "clamped", param: Number(1.7), want: 0.75},
		{name: "no minimum", param: Number(-2), want: -2},
		{name: "numeric string", param: NumberString("0.5"), want: 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, params, err := Normalize(Request{Text: "x", Temperature: tc.param})
			require.NoError(t, err)
			require.InDelta(t, tc.want, params.Temperature, 1e-9)
		})
	}
}

func TestNormalizeTopPIsAlwaysFloor(t *testing.T) {
	for _, v := range []float64{0.1, 0.5, 0.9, 1.5} {
		_, params, err := Normalize(Request{Text: "x", TopP: Number(v)})
		require.NoError(t, err)
		require.InDelta(t, 0.95, params.TopP, 1e-9, "top_p input %v", v)
	}
}

func TestNormalizeRejectsMalformedNumbers(t *testing.T) {
	cases := []struct {
		name string
		req  Request
		msg  string
	}{
		{name: "temperature text", req: Request{Temperature: NumberString("warm")}, msg: "temperature must be a number"},
		{name: "top_p text", req: Request{TopP: NumberString("abc")}, msg: "top_p must be a number"},
		{name: "temperature nan", req: Request{Temperature: NumberString("NaN")}, msg: "temperature must be finite"},
		{name: "top_p inf", req: Request{TopP: NumberString("Inf")}, msg: "top_p must be finite"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Normalize(tc.req)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
			require.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestNormalizeKeepsUnrecognizedLength(t *testing.T) {
	_, params, err := Normalize(Request{Text: "x", Length: "tiny", Tonality: "casual"})
	require.NoError(t, err)
	require.Equal(t, LengthClass("tiny"), params.Length)
	require.False(t, params.Length.Recognized())
	require.Equal(t, 5, params.Length.SentenceCap())
	require.Equal(t, "casual", params.Tonality)
}

func TestRequestDecodesNumberForms(t *testing.T) {
	var req Request
	err := json.Unmarshal([]byte(`{"text":"hi","temperature":"0.4","top_p":0.8}`), &req)
	require.NoError(t, err)
	require.True(t, req.Temperature.Present())
	require.True(t, req.TopP.Present())

	_, params, err := Normalize(req)
	require.NoError(t, err)
	require.InDelta(t, 0.4, params.Temperature, 1e-9)

	var empty Request
	require.NoError(t, json.Unmarshal([]byte(`{"text":"hi","temperature":null}`), &empty))
	require.False(t, empty.Temperature.Present())
}
