package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-keyword-matcher/internal/ingestion"
	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
	"github.com/jonathan/cv-keyword-matcher/internal/observability"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the plain text of a document or job posting",
	Long:  "Extracts plain text from a file (.pdf, .docx, .tex, .txt, .md, .html) or a job posting URL. With --keywords, prints the ranked keywords instead.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExtract,
}

var (
	extractURL        string
	extractKeywords   int
	extractUseBrowser bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractURL, "url", "u", "", "Job posting URL to fetch instead of a file")
	extractCmd.Flags().IntVarP(&extractKeywords, "keywords", "k", 0, "Print the top N ranked keywords instead of the text")
	extractCmd.Flags().BoolVar(&extractUseBrowser, "use-browser", false, "Retry URLs in headless Chrome")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && extractURL == "" {
		return fmt.Errorf("either a file argument or --url must be provided")
	}
	if len(args) == 1 && extractURL != "" {
		return fmt.Errorf("a file argument and --url are mutually exclusive; provide only one")
	}

	var (
		text   string
		source string
		err    error
	)
	if extractURL != "" {
		source = extractURL
		text, _, err = ingestion.IngestFromURL(cmd.Context(), extractURL, ingestion.URLOptions{
			UseBrowser: extractUseBrowser || fileConfig.UseBrowser,
			Logger:     logger,
		})
	} else {
		source = args[0]
		text, err = ingestion.ExtractFile(cmd.Context(), source)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if extractKeywords > 0 {
		terms := keywords.NewExtractor(extractKeywords).Rank(text)
		if fileConfig.Verbose {
			observability.NewPrinter(out).PrintRankedTerms("KEYWORDS: "+source, terms)
			return nil
		}
		for _, t := range terms {
			fmt.Fprintf(out, "%s\t%.4f\n", t.Term, t.Weight)
		}
		return nil
	}

	if fileConfig.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintExtraction("document", source, text)
	}
	fmt.Fprintln(out, text)
	return nil
}
