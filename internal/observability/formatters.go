// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to n runes. %-*s counts bytes, which
// misaligns bullets and box characters.
func pad(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

func writeTerms(sb *strings.Builder, terms []string) {
	count := min(len(terms), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", terms[i])
	}
	if len(terms) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(terms)-maxItemsToShow)
	}
}

// PrintExtraction outputs a short summary of an extracted document.
func (p *Printer) PrintExtraction(label, source, text string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source:  %s\n", source)
	fmt.Fprintf(&sb, "Chars:   %d\n", utf8.RuneCountInString(text))
	fmt.Fprintf(&sb, "Words:   %d\n", len(strings.Fields(text)))

	preview := strings.Join(strings.Fields(text), " ")
	if preview != "" {
		fmt.Fprintf(&sb, "\n%s", truncate(preview, boxWidth-4))
	}

	p.printBox(strings.ToUpper(label)+" EXTRACTED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankedTerms outputs extracted keywords with their weights.
func (p *Printer) PrintRankedTerms(title string, terms []keywords.WeightedTerm) {
	if len(terms) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(terms), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(&sb, "#%-3d %-30s %6.2f\n", i+1, terms[i].Term, terms[i].Weight)
	}
	if len(terms) > maxItemsToShow {
		fmt.Fprintf(&sb, "... and %d more", len(terms)-maxItemsToShow)
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComparison outputs the keyword comparison with coverage.
func (p *Printer) PrintComparison(result keywords.ComparisonResult) {
	matched := result.Matched()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Top N:     %d\n", result.TopN)
	fmt.Fprintf(&sb, "CV:        %d keywords\n", result.CVKeywords.Len())
	fmt.Fprintf(&sb, "Job:       %d keywords\n", result.JobKeywords.Len())
	fmt.Fprintf(&sb, "Coverage:  %.0f%% (%d/%d)\n", result.Coverage()*100, matched.Len(), result.JobKeywords.Len())

	if !matched.IsEmpty() {
		sb.WriteString("\nMatched:\n")
		writeTerms(&sb, matched.Terms())
	}
	if !result.MissingKeywords.IsEmpty() {
		sb.WriteString("\nMissing:\n")
		writeTerms(&sb, result.MissingKeywords.Terms())
	}

	p.printBox("KEYWORD COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEnhancement outputs the outcome of the enhancement step.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintEnhancement(missing keywords.KeywordSet, enhanced string, err error) {
	if err != nil {
		p.printBox("ENHANCEMENT FAILED", fmt.Sprintf("⚠ %v\nContinuing with the original CV.", err))
		return
	}
	if missing.IsEmpty() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("✅ NO MISSING KEYWORDS, ENHANCEMENT SKIPPED", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Integrated %d keywords:\n", missing.Len())
	writeTerms(&sb, missing.Terms())
	fmt.Fprintf(&sb, "\nEnhanced text: %d chars", utf8.RuneCountInString(enhanced))

	p.printBox("CV ENHANCEMENT", sb.String())
}

// PrintOutput outputs where the rendered document was written.
func (p *Printer) PrintOutput(format, path string) {
	p.printBox("RENDERED "+strings.ToUpper(format), path)
}
