package keywords

import "strings"

const (
	suggestionHeader = "Consider incorporating the following keywords into your CV:\n"
	alignedMessage   = "Your CV is well-aligned with the job description. No major enhancements needed."
)

// FormatSuggestions renders missing keywords as a bulleted list in
// lexicographic order, or a fixed message when nothing is missing.
func FormatSuggestions(missing KeywordSet) string {
	if missing.IsEmpty() {
		return alignedMessage
	}

	var b strings.Builder
	b.WriteString(suggestionHeader)
	for _, kw := range missing.terms {
		b.WriteString("- ")
		b.WriteString(kw)
		b.WriteString("\n")
	}
	return b.String()
}
