package ingestion

import (
	"regexp"
	"strings"
)

var (
	latexComment     = regexp.MustCompile(`(?m)(^|[^\\])%.*$`)
	latexDropped     = regexp.MustCompile(`\\(?:documentclass|usepackage|label|ref|cite|vspace|hspace|includegraphics|setlength|pagestyle|newcommand|renewcommand|geometry)\*?(?:\[[^\]]*\])?(?:\{[^}]*\})*`)
	latexEnvironment = regexp.MustCompile(`\\(?:begin|end)\{[^}]*\}(?:\[[^\]]*\])?`)
	latexSection     = regexp.MustCompile(`\\(?:chapter|section|subsection|subsubsection|paragraph)\*?\{([^}]*)\}`)
	latexItem        = regexp.MustCompile(`\\item(?:\[[^\]]*\])?\s*`)
	latexLineBreak   = regexp.MustCompile(`\\\\(?:\[[^\]]*\])?`)
	latexEscaped     = regexp.MustCompile(`\\([&%$#_{}])`)
	latexCommandArg  = regexp.MustCompile(`\\[a-zA-Z]+\*?(?:\[[^\]]*\])?\{`)
	latexCommand     = regexp.MustCompile(`\\[a-zA-Z]+\*?`)
	latexArgGap      = regexp.MustCompile(`\}\s*\{`)
	latexBraces      = regexp.MustCompile(`[{}]`)
)

func readLaTeX(data []byte) (string, error) {
	return LaTeXToText(string(data)), nil
}

// LaTeXToText converts LaTeX source to readable plain text. Markup commands
// are removed, their text arguments kept, and list items become "- " lines.
func LaTeXToText(src string) string {
	if begin := strings.Index(src, `\begin{document}`); begin >= 0 {
		src = src[begin+len(`\begin{document}`):]
		if end := strings.Index(src, `\end{document}`); end >= 0 {
			src = src[:end]
		}
	}

	src = latexComment.ReplaceAllString(src, "$1")
	src = latexDropped.ReplaceAllString(src, "")
	src = latexSection.ReplaceAllString(src, "\n## $1\n")
	src = latexEnvironment.ReplaceAllString(src, "\n")
	src = latexItem.ReplaceAllString(src, "\n- ")
	src = latexLineBreak.ReplaceAllString(src, "\n")

	// Escaped specials are parked on private-use runes so brace stripping
	// cannot touch a literal \{ or \}.
	src = latexEscaped.ReplaceAllStringFunc(src, func(m string) string {
		switch m[1] {
		case '{':
			return "\uE000"
		case '}':
			return "\uE001"
		}
		return m[1:]
	})
	src = latexCommandArg.ReplaceAllString(src, "{")
	src = latexCommand.ReplaceAllString(src, "")
	src = latexArgGap.ReplaceAllString(src, " ")
	src = latexBraces.ReplaceAllString(src, "")
	src = strings.NewReplacer("\uE000", "{", "\uE001", "}", "~", " ", "---", "-", "--", "-").Replace(src)

	return src
}
