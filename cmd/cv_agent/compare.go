package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-keyword-matcher/internal/config"
	"github.com/jonathan/cv-keyword-matcher/internal/observability"
	"github.com/jonathan/cv-keyword-matcher/internal/pipeline"
	"github.com/jonathan/cv-keyword-matcher/internal/schemas"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare CV keywords against a job description",
	Long:  "Extracts the top keywords of a CV and a job description, prints the keywords the CV is missing and optionally writes the comparison as JSON.",
	RunE:  runCompare,
}

var (
	compareCV         string
	compareJob        string
	compareJobURL     string
	compareTopN       int
	compareOut        string
	compareUseBrowser bool
	compareCorpus     []string
	compareStopwords  []string
)

func init() {
	compareCmd.Flags().StringVar(&compareCV, "cv", "", "Path to the CV (.pdf, .docx, .tex, .txt, .md, .html)")
	compareCmd.Flags().StringVarP(&compareJob, "job", "j", "", "Path to the job description (.pdf, .txt, .md)")
	compareCmd.Flags().StringVarP(&compareJobURL, "job-url", "u", "", "URL of the job posting")
	compareCmd.Flags().IntVarP(&compareTopN, "top-n", "n", 0, "Keywords kept per document (default 20)")
	compareCmd.Flags().StringVarP(&compareOut, "out", "o", "", "Write the comparison as JSON to this path")
	compareCmd.Flags().BoolVar(&compareUseBrowser, "use-browser", false, "Retry job URLs in headless Chrome")
	compareCmd.Flags().StringSliceVar(&compareCorpus, "corpus", nil, "Reference documents that down-weight common terms (repeatable)")
	compareCmd.Flags().StringSliceVar(&compareStopwords, "stopwords", nil, "Extra words never reported as keywords (comma separated)")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	cfg, err := resolve(config.Config{
		CV:         compareCV,
		Job:        compareJob,
		JobURL:     compareJobURL,
		TopN:       compareTopN,
		UseBrowser: compareUseBrowser,
		Corpus:     compareCorpus,
		Stopwords:  compareStopwords,
	})
	if err != nil {
		return err
	}
	if cfg.CV == "" {
		return fmt.Errorf("--cv is required")
	}
	job, err := jobSource(cfg)
	if err != nil {
		return err
	}

	extractor, err := newExtractor(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(cmd.Context(), pipeline.Options{
		CV:         pipeline.Source{Path: cfg.CV},
		Job:        job,
		TopN:       cfg.TopN,
		Extractor:  extractor,
		URLOptions: urlOptions(cfg),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Verbose {
		p := observability.NewPrinter(out)
		p.PrintExtraction("cv", cfg.CV, result.CVText)
		p.PrintExtraction("job", job.Label(), result.JobText)
		p.PrintComparison(result.Comparison)
	}
	fmt.Fprintln(out, result.Suggestions)

	if compareOut != "" {
		if err := writeComparison(compareOut, result); err != nil {
			return err
		}
		fmt.Fprintf(out, "Comparison written to %s\n", compareOut)
	}
	return nil
}

// writeComparison writes the comparison report after checking it against
// the embedded comparison schema.
func writeComparison(path string, result *pipeline.Result) error {
	data, err := json.MarshalIndent(result.Comparison.Report(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal comparison: %w", err)
	}
	if err := schemas.ValidateComparison(data); err != nil {
		return fmt.Errorf("comparison failed schema validation: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write comparison: %w", err)
	}
	return nil
}
