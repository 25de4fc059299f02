package rendering

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"os"
	texttemplate "text/template"
)

//go:embed templates/cv.html templates/cv.tex
var defaultTemplates embed.FS

const (
	defaultHTMLTemplate  = "templates/cv.html"
	defaultLaTeXTemplate = "templates/cv.tex"
)

// loadTemplate returns the contents of templatePath, or of the embedded
// default when templatePath is empty.
func loadTemplate(templatePath, embedded string) (string, error) {
	if templatePath == "" {
		content, err := defaultTemplates.ReadFile(embedded)
		if err != nil {
			return "", templateFailure("failed to read embedded template", err)
		}
		return string(content), nil
	}

	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", templateFailure(fmt.Sprintf("template file not found: %s", templatePath), err)
		}
		return "", templateFailure(fmt.Sprintf("failed to read template file: %s", templatePath), err)
	}
	return string(content), nil
}

func parseHTMLTemplate(templatePath string) (*htmltemplate.Template, error) {
	content, err := loadTemplate(templatePath, defaultHTMLTemplate)
	if err != nil {
		return nil, err
	}
	tmpl, err := htmltemplate.New("cv").Parse(content)
	if err != nil {
		return nil, templateFailure("failed to parse template", err)
	}
	return tmpl, nil
}

func parseLaTeXTemplate(templatePath string) (*texttemplate.Template, error) {
	content, err := loadTemplate(templatePath, defaultLaTeXTemplate)
	if err != nil {
		return nil, err
	}
	tmpl, err := texttemplate.New("cv").Funcs(texttemplate.FuncMap{
		"escape": EscapeLaTeX,
	}).Parse(content)
	if err != nil {
		return nil, templateFailure("failed to parse template", err)
	}
	return tmpl, nil
}
