package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-keyword-matcher/internal/config"
	"github.com/jonathan/cv-keyword-matcher/internal/db"
	"github.com/jonathan/cv-keyword-matcher/internal/observability"
	"github.com/jonathan/cv-keyword-matcher/internal/pipeline"
	"github.com/jonathan/cv-keyword-matcher/internal/rendering"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance",
	Short: "Rewrite a CV to cover the job description's missing keywords",
	Long: `Runs the full pipeline: extracts the CV and job description, compares their keywords,
asks the configured LLM to work the missing keywords into the CV and renders the result
as HTML, PDF or LaTeX. Without --format the enhanced CV is printed as text.`,
	RunE: runEnhance,
}

var (
	enhanceCV         string
	enhanceJob        string
	enhanceJobURL     string
	enhanceTopN       int
	enhanceFormat     string
	enhanceOutDir     string
	enhanceOutName    string
	enhanceTemplate   string
	enhanceCompile    bool
	enhanceProvider   string
	enhanceAPIKey     string
	enhanceModel      string
	enhanceName       string
	enhanceEmail      string
	enhancePhone      string
	enhanceRecord     bool
	enhanceUseBrowser bool
	enhanceCorpus     []string
	enhanceStopwords  []string
	enhanceStructured bool
)

func init() {
	enhanceCmd.Flags().StringVar(&enhanceCV, "cv", "", "Path to the CV (.pdf, .docx, .tex, .txt, .md, .html)")
	enhanceCmd.Flags().StringVarP(&enhanceJob, "job", "j", "", "Path to the job description (.pdf, .txt, .md)")
	enhanceCmd.Flags().StringVarP(&enhanceJobURL, "job-url", "u", "", "URL of the job posting")
	enhanceCmd.Flags().IntVarP(&enhanceTopN, "top-n", "n", 0, "Keywords kept per document (default 20)")
	enhanceCmd.Flags().StringVarP(&enhanceFormat, "format", "f", "", "Output format: html, pdf or latex")
	enhanceCmd.Flags().StringVarP(&enhanceOutDir, "out-dir", "o", "", "Directory for the rendered document (default: current directory)")
	enhanceCmd.Flags().StringVar(&enhanceOutName, "out-name", pipeline.DefaultOutputName, "Base name of the rendered document")
	enhanceCmd.Flags().StringVarP(&enhanceTemplate, "template", "t", "", "HTML or LaTeX template override")
	enhanceCmd.Flags().BoolVar(&enhanceCompile, "compile", false, "Compile LaTeX output to PDF with pdflatex")
	enhanceCmd.Flags().StringVar(&enhanceProvider, "provider", "", "LLM provider: gemini, anthropic or openai")
	enhanceCmd.Flags().StringVar(&enhanceAPIKey, "api-key", "", "LLM API key (defaults to the provider's environment variable)")
	enhanceCmd.Flags().StringVar(&enhanceModel, "model", "", "Override the model used for rewriting")
	enhanceCmd.Flags().StringVar(&enhanceName, "name", "", "Candidate name for the rendered header")
	enhanceCmd.Flags().StringVar(&enhanceEmail, "email", "", "Candidate email for the rendered header")
	enhanceCmd.Flags().StringVar(&enhancePhone, "phone", "", "Candidate phone for the rendered header")
	enhanceCmd.Flags().BoolVar(&enhanceRecord, "record", false, "Save the comparison to the database at DATABASE_URL")
	enhanceCmd.Flags().BoolVar(&enhanceUseBrowser, "use-browser", false, "Retry job URLs in headless Chrome")
	enhanceCmd.Flags().StringSliceVar(&enhanceCorpus, "corpus", nil, "Reference documents that down-weight common terms (repeatable)")
	enhanceCmd.Flags().StringSliceVar(&enhanceStopwords, "stopwords", nil, "Extra words never reported as keywords (comma separated)")
	enhanceCmd.Flags().BoolVar(&enhanceStructured, "structured", false, "Ask the LLM for markdown sections grounded in the existing CV")

	rootCmd.AddCommand(enhanceCmd)
}

func runEnhance(cmd *cobra.Command, _ []string) error {
	cfg, err := resolve(config.Config{
		CV:               enhanceCV,
		Job:              enhanceJob,
		JobURL:           enhanceJobURL,
		TopN:             enhanceTopN,
		Format:           enhanceFormat,
		OutputDir:        enhanceOutDir,
		Template:         enhanceTemplate,
		Provider:         enhanceProvider,
		APIKey:           enhanceAPIKey,
		Model:            enhanceModel,
		Name:             enhanceName,
		Email:            enhanceEmail,
		Phone:            enhancePhone,
		UseBrowser:       enhanceUseBrowser,
		Corpus:           enhanceCorpus,
		Stopwords:        enhanceStopwords,
		StructuredOutput: enhanceStructured,
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

	ctx := cmd.Context()
	extractor, err := newExtractor(ctx, cfg)
	if err != nil {
		return err
	}
	enhancer, err := newEnhancer(ctx, cfg)
	if err != nil {
		return err
	}
	defer enhancer.Close() //nolint:errcheck

	out := cmd.OutOrStdout()
	opts := pipeline.Options{
		CV:           pipeline.Source{Path: cfg.CV},
		Job:          job,
		TopN:         cfg.TopN,
		Extractor:    extractor,
		Enhancer:     enhancer,
		Format:       cfg.Format,
		OutputDir:    cfg.OutputDir,
		OutputName:   enhanceOutName,
		TemplatePath: cfg.Template,
		CompileLaTeX: enhanceCompile,
		Candidate:    rendering.Meta{Name: cfg.Name, Email: cfg.Email, Phone: cfg.Phone},
		URLOptions:   urlOptions(cfg),
		Logger:       logger,
	}
	if cfg.Verbose {
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", e.Step, e.Message)
		}
	}

	if enhanceRecord {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("--record needs DATABASE_URL or database_url in the config")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		opts.Recorder = database
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(out)
	if cfg.Verbose {
		printer.PrintComparison(result.Comparison)
	}
	fmt.Fprintln(out, result.Suggestions)
	printer.PrintEnhancement(result.Comparison.MissingKeywords, result.EnhancedCV, result.EnhancementError)

	if result.OutputPath != "" {
		printer.PrintOutput(cfg.Format, result.OutputPath)
		return nil
	}
	fmt.Fprintln(out, result.FinalCV())
	if result.EnhancementError != nil {
		fmt.Fprintln(os.Stderr, "Warning: enhancement failed, printed the original CV")
	}
	return nil
}
