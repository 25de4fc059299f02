// Package rendering turns CV text into HTML, PDF or LaTeX documents.
package rendering

import "fmt"

// Rendering stages reported in RenderingError.Stage.
const (
	StageTemplate = "template"
	StageHTML     = "html"
	StagePDF      = "pdf"
	StageLaTeX    = "latex"
	StageCompile  = "compile"
	StageWrite    = "write"
)

// TemplateError represents an error reading, parsing or executing a template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderingError represents a failure in one rendering stage. Template
// failures carry a *TemplateError as Cause.
type RenderingError struct {
	Stage     string
	Message   string
	LogOutput string // pdflatex output for compile failures
	Cause     error
}

func (e *RenderingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rendering error (%s): %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("rendering error (%s): %s", e.Stage, e.Message)
}

func (e *RenderingError) Unwrap() error {
	return e.Cause
}

func templateFailure(message string, cause error) error {
	return &RenderingError{
		Stage:   StageTemplate,
		Message: message,
		Cause:   &TemplateError{Message: message, Cause: cause},
	}
}
