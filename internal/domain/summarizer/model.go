package summarizer

import (
	"encoding/json"
	"strings"
	"time"
)

// Config carries the model-facing knobs of the summarizer.
type Config struct {
	Model           string
	ContextWindow   int
	MaxOutputTokens int
	RepeatPenalty   float64
}

// LengthClass names the requested summary size. Any string is accepted;
// only the recognized classes carry their own sentence cap.
type LengthClass string

const (
	LengthShort  LengthClass = "short"
	LengthMedium LengthClass = "medium"
	LengthLong   LengthClass = "long"
)

// Recognized reports whether the class is one of short, medium or long.
func (l LengthClass) Recognized() bool {
	switch l {
	case LengthShort, LengthMedium, LengthLong:
		return true
	default:
		return false
	}
}

// MetricLabel returns the class name for recognized classes and "other" for
// anything else, keeping metric label values to a closed set.
func (l LengthClass) MetricLabel() string {
	if l.Recognized() {
		return string(l)
	}
	return "other"
}

// SentenceCap returns the maximum sentence count. Unrecognized classes fall
// back to the medium cap.
func (l LengthClass) SentenceCap() int {
	switch l {
	case LengthShort:
		return 2
	case LengthLong:
		return 8
	default:
		return 5
	}
}

func (l LengthClass) directive() string {
	switch l {
	case LengthShort:
		return "STRICTLY 1-2 SENTENCES"
	case LengthLong:
		return "PRECISELY 6-8 SENTENCES"
	default:
		return "EXACTLY 3-5 SENTENCES"
	}
}

// Summary is the persisted summarization record.
type Summary struct {
	ID           int64       `json:"id"`
	UserID       *int64      `json:"user"`
	OriginalText string      `json:"original_text"`
	SummaryText  string      `json:"summary_text"`
	Length       LengthClass `json:"length"`
	Tonality     string      `json:"tonality"`
	Temperature  float64     `json:"temperature"`
	TopP         float64     `json:"top_p"`
	Focus        string      `json:"focus"`
	IsFavorite   bool        `json:"is_favorite"`
	CreatedAt    time.Time   `json:"created_at"`
	ModifiedAt   time.Time   `json:"modified_at"`
	ModelUsed    string      `json:"model_used"`
}

// OwnedBy reports whether the record belongs to userID.
func (s Summary) OwnedBy(userID int64) bool {
	return s.UserID != nil && *s.UserID == userID
}

// Params are the normalized generation parameters.
type Params struct {
	Length      LengthClass
	Tonality    string
	Temperature float64
	TopP        float64
	Focus       string
}

// Request is the summarize/regenerate payload.
type Request struct {
	Text        string      `json:"text"`
	Focus       string      `json:"focus"`
	Length      string      `json:"length"`
	Tonality    string      `json:"tonality"`
	Temperature NumberParam `json:"temperature"`
	TopP        NumberParam `json:"top_p"`
}

// UpdateRequest overwrites the generated text of a record.
type UpdateRequest struct {
	SummaryText *string `json:"summary_text"`
}

// ListFilter narrows the records returned by List.
type ListFilter struct {
	Favorite *bool
}

// NumberParam accepts a JSON number or a numeric string. Parsing is deferred
// to normalization so malformed values surface as validation errors.
type NumberParam struct {
	raw     string
	present bool
}

// Number builds a present NumberParam from a float.
func Number(v float64) NumberParam {
	b, _ := json.Marshal(v)
	return NumberParam{raw: string(b), present: true}
}

// NumberString builds a present NumberParam from its textual form.
func NumberString(raw string) NumberParam {
	return NumberParam{raw: raw, present: true}
}

// Present reports whether a value was supplied.
func (n NumberParam) Present() bool {
	return n.present
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumberParam) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		trimmed = strings.TrimSpace(s)
	}
	n.raw = trimmed
	n.present = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NumberParam) MarshalJSON() ([]byte, error) {
	if !n.present {
		return []byte("null"), nil
	}
	return json.Marshal(n.raw)
}
