package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

// Format is a normalized, dot-prefixed, lowercase file extension.
type Format string

const (
	FormatPDF      Format = ".pdf"
	FormatDOCX     Format = ".docx"
	FormatLaTeX    Format = ".tex"
	FormatText     Format = ".txt"
	FormatMarkdown Format = ".md"
	FormatHTML     Format = ".html"
	FormatHTM      Format = ".htm"
)

type reader func(data []byte) (string, error)

var readers = map[Format]reader{
	FormatPDF:      readPDF,
	FormatDOCX:     readDOCX,
	FormatLaTeX:    readLaTeX,
	FormatText:     readPlain,
	FormatMarkdown: readPlain,
	FormatHTML:     readHTML,
	FormatHTM:      readHTML,
}

// jobDescriptionFormats are the only formats accepted for job descriptions on disk.
var jobDescriptionFormats = []Format{FormatPDF, FormatText, FormatMarkdown}

// FormatOf returns the normalized extension of name.
func FormatOf(name string) Format {
	return Format(strings.ToLower(filepath.Ext(name)))
}

// SupportedFormats lists every extension ExtractBytes understands, sorted.
func SupportedFormats() []string {
	out := make([]string, 0, len(readers))
	for f := range readers {
		out = append(out, string(f))
	}
	slices.Sort(out)
	return out
}

// IsSupported reports whether name has a readable extension.
func IsSupported(name string) bool {
	_, ok := readers[FormatOf(name)]
	return ok
}

// ExtractFile reads the document at path and returns its cleaned text.
func ExtractFile(ctx context.Context, path string) (string, error) {
	format := FormatOf(path)
	if _, ok := readers[format]; !ok {
		return "", unsupported(path, format)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		msg := "failed to read file"
		if os.IsNotExist(err) {
			msg = "file not found"
		}
		return "", &ExtractionError{Format: string(format), Source: path, Message: msg, Cause: err}
	}
	return ExtractBytes(ctx, path, data)
}

// ExtractBytes extracts text from in-memory document data. The format is taken
// from name's extension.
func ExtractBytes(ctx context.Context, name string, data []byte) (string, error) {
	format := FormatOf(name)
	read, ok := readers[format]
	if !ok {
		return "", unsupported(name, format)
	}
	if err := ctx.Err(); err != nil {
		return "", &ExtractionError{Format: string(format), Source: name, Message: "canceled", Cause: err}
	}

	text, err := read(data)
	if err != nil {
		return "", &ExtractionError{Format: string(format), Source: name, Message: "failed to parse document", Cause: err}
	}

	text = CleanText(text)
	if text == "" && len(data) > 0 {
		return "", &ExtractionError{Format: string(format), Source: name, Message: "no text extracted", Cause: ErrEmptyDocument}
	}
	return text, nil
}

// ExtractJobDescription reads a job description file. Only PDF, plain text and
// Markdown are accepted.
func ExtractJobDescription(ctx context.Context, path string) (string, error) {
	if err := checkJobDescriptionFormat(path); err != nil {
		return "", err
	}
	return ExtractFile(ctx, path)
}

// ExtractJobDescriptionBytes is ExtractJobDescription for uploaded content.
func ExtractJobDescriptionBytes(ctx context.Context, name string, data []byte) (string, error) {
	if err := checkJobDescriptionFormat(name); err != nil {
		return "", err
	}
	return ExtractBytes(ctx, name, data)
}

func checkJobDescriptionFormat(source string) error {
	format := FormatOf(source)
	if !slices.Contains(jobDescriptionFormats, format) {
		return &ExtractionError{
			Format:  string(format),
			Source:  source,
			Message: "unsupported file format for job description, use .pdf, .txt, or .md",
			Cause:   ErrUnsupportedFormat,
		}
	}
	return nil
}

func unsupported(source string, format Format) error {
	return &ExtractionError{
		Format:  string(format),
		Source:  source,
		Message: fmt.Sprintf("no reader for %q (supported: %s)", format, strings.Join(SupportedFormats(), ", ")),
		Cause:   ErrUnsupportedFormat,
	}
}

func readPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text is not valid UTF-8")
	}
	return string(data), nil
}
