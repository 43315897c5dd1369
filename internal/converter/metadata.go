package converter

import (
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"jpeg_to_pdf/internal/pdfinfo"
)

// keywordSeparator joins keywords in the PDF Keywords entry.
const keywordSeparator = ", "

// Metadata holds the optional document information fields.
// Empty fields are not written to the document.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Creator  string // replaces the default Creator when set
	Language string // written verbatim, expected to be a BCP 47 tag
	Keywords []string
}

// ParseKeywords splits a comma separated list into trimmed, non-empty keywords.
func ParseKeywords(s string) []string {
	return pdfinfo.SplitKeywords(s)
}

// CheckLanguage reports whether tag parses as a BCP 47 language tag.
// Unparseable tags are logged but still written to the document as given.
func CheckLanguage(tag string) bool {
	if tag == "" {
		return true
	}
	if _, err := language.Parse(tag); err != nil {
		slog.Warn("Language is not a valid BCP 47 tag; writing it as given", "language", tag, "error", err)
		return false
	}
	return true
}

func (m Metadata) keywords() string {
	return strings.Join(m.Keywords, keywordSeparator)
}
