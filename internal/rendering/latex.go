package rendering

import "strings"

// RenderLaTeX renders doc with the LaTeX template at templatePath, or the
// built-in template when templatePath is empty. Templates escape text with
// the "escape" function.
func RenderLaTeX(doc Document, templatePath string) (string, error) {
	tmpl, err := parseLaTeXTemplate(templatePath)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, doc); err != nil {
		return "", templateFailure("failed to execute template", err)
	}
	return sb.String(), nil
}
