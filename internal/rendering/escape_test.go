package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Senior Go engineer", "Senior Go engineer"},
		{"backslash", `a\b`, `a\textbackslash{}b`},
		{"braces", "x{y}", `x\{y\}`},
		{"dollar", "$100", `\$100`},
		{"ampersand", "R&D", `R\&D`},
		{"percent", "99.9%", `99.9\%`},
		{"hash", "C#", `C\#`},
		{"caret", "x^2", `x\textasciicircum{}2`},
		{"underscore", "snake_case", `snake\_case`},
		{"tilde", "~5", `\textasciitilde{}5`},
		{"unicode passes through", "résumé α", "résumé α"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLaTeX(tt.input))
		})
	}
}
