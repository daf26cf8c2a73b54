package export

import (
	"encoding/json"
	"html"
	"strings"
	"time"

	"github.com/yanqian/summarizer-backend/internal/domain/summarizer"
)

const generatedLayout = "2006-01-02 15:04:05 MST"

// Document is the renderer-facing view of a summary.
type Document struct {
	Title        string
	OriginalText string
	SummaryText  string
	CreatedAt    time.Time
}

// GeneratedLine is the closing "Generated on" paragraph.
func (d Document) GeneratedLine() string {
	return "Generated on " + d.CreatedAt.UTC().Format(generatedLayout)
}

func newDocument(s summarizer.Summary) Document {
	return Document{
		Title:        "Summary",
		OriginalText: s.OriginalText,
		SummaryText:  s.SummaryText,
		CreatedAt:    s.CreatedAt,
	}
}

// BuildHTML renders the minimal page that is printed to PDF. Every text
// field is escaped.
func BuildHTML(d Document) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(d.Title))
	b.WriteString("</title>\n<style>body{font-family:sans-serif;margin:48px;line-height:1.5}p{white-space:pre-wrap}</style>\n</head><body>\n")
	b.WriteString("<h1>" + html.EscapeString(d.Title) + "</h1>\n")
	b.WriteString("<h3>Original Text</h3>\n")
	b.WriteString("<p>" + html.EscapeString(d.OriginalText) + "</p>\n")
	b.WriteString("<h3>Summary</h3>\n")
	b.WriteString("<p>" + html.EscapeString(d.SummaryText) + "</p>\n")
	b.WriteString("<p>" + html.EscapeString(d.GeneratedLine()) + "</p>\n")
	b.WriteString("</body></html>\n")
	return b.String()
}

type jsonExport struct {
	OriginalText string `json:"original_text"`
	SummaryText  string `json:"summary_text"`
	CreatedAt    string `json:"created_at"`
}

func buildJSON(d Document) ([]byte, error) {
	return json.Marshal(jsonExport{
		OriginalText: d.OriginalText,
		SummaryText:  d.SummaryText,
		CreatedAt:    d.CreatedAt.UTC().Format(time.RFC3339),
	})
}
