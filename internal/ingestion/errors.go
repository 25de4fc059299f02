// Package ingestion turns CV and job-description sources (files, uploads, URLs) into plain text.
package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is wrapped when a file extension has no reader.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmptyDocument is wrapped when a document yields no text at all.
	ErrEmptyDocument = errors.New("document contains no text")
)

// ExtractionError represents a failure to read text from a source document.
type ExtractionError struct {
	Format  string // normalized extension, e.g. ".pdf"
	Source  string // file name, path or URL
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error for %s: %s", e.Source, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
