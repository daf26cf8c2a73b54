package export

import "strings"

// Format describes one downloadable representation of a summary.
type Format struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	Extension string `json:"extension"`
}

const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatJSON = "json"

	// DefaultFormat is used when the caller does not pick one.
	DefaultFormat = FormatPDF
)

var formats = []Format{
	{ID: 1, Name: "PDF", MimeType: "application/pdf", Extension: FormatPDF},
	{ID: 2, Name: "DOCX", MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Extension: FormatDOCX},
	{ID: 3, Name: "JSON", MimeType: "application/json", Extension: FormatJSON},
}

// Formats lists the supported formats in a stable order.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

func lookupFormat(name string) (Format, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range formats {
		if f.Extension == name {
			return f, true
		}
	}
	return Format{}, false
}
