package rendering

import "strings"

// RenderHTML renders doc with the HTML template at templatePath, or the
// built-in template when templatePath is empty. Values are HTML-escaped.
func RenderHTML(doc Document, templatePath string) (string, error) {
	tmpl, err := parseHTMLTemplate(templatePath)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, doc); err != nil {
		return "", templateFailure("failed to execute template", err)
	}
	return sb.String(), nil
}
