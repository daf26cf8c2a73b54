package summarizer

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	apperrors "github.com/yanqian/summarizer-backend/pkg/errors"
)

const (
	MaxTextRunes  = 8000
	MaxFocusRunes = 80

	DefaultTonality    = "neutral"
	DefaultTemperature = 0.65
	DefaultTopP        = 0.9

	maxTemperature = 0.75
	topPCeiling    = 0.7
	topPFloor      = 0.95
)

// Normalize validates the raw request and applies defaults and clamps.
// Over-long text is rejected rather than clipped.
func Normalize(req Request) (string, Params, error) {
	if n := utf8.RuneCountInString(req.Text); n > MaxTextRunes {
		return "", Params{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("input text too long (max %d characters)", MaxTextRunes), nil)
	}
	if n := utf8.RuneCountInString(req.Focus); n > MaxFocusRunes {
		return "", Params{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("focus phrase too long (max %d characters)", MaxFocusRunes), nil)
	}

	temperature, err := parseNumber("temperature", req.Temperature, DefaultTemperature)
	if err != nil {
		return "", Params{}, err
	}
	topP, err := parseNumber("top_p", req.TopP, DefaultTopP)
	if err != nil {
		return "", Params{}, err
	}

	length := LengthClass(req.Length)
	if req.Length == "" {
		length = LengthMedium
	}
	tonality := req.Tonality
	if tonality == "" {
		tonality = DefaultTonality
	}

	return req.Text, Params{
		Length:      length,
		Tonality:    tonality,
		Temperature: clampTemperature(temperature),
		TopP:        clampTopP(topP),
		Focus:       req.Focus,
	}, nil
}

func clampTemperature(v float64) float64 {
	return math.Min(v, maxTemperature)
}

// clampTopP bounds from above first and from below second. Because the
// ceiling sits under the floor the result is always topPFloor.
func clampTopP(v float64) float64 {
	return math.Max(math.Min(v, topPCeiling), topPFloor)
}

func parseNumber(field string, param NumberParam, fallback float64) (float64, error) {
	if !param.Present() {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(param.raw, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("%s must be a number", field), err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("%s must be finite", field), nil)
	}
	return v, nil
}
