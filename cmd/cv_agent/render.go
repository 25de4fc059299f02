package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-keyword-matcher/internal/config"
	"github.com/jonathan/cv-keyword-matcher/internal/ingestion"
	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
	"github.com/jonathan/cv-keyword-matcher/internal/observability"
	"github.com/jonathan/cv-keyword-matcher/internal/pipeline"
	"github.com/jonathan/cv-keyword-matcher/internal/rendering"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a CV text file as HTML, PDF or LaTeX",
	Long:  "Renders a CV (for example the output of enhance) through the HTML or LaTeX template. With --job the missing keywords are listed in the document footer.",
	RunE:  runRender,
}

var (
	renderIn       string
	renderJob      string
	renderFormat   string
	renderOut      string
	renderTemplate string
	renderCompile  bool
	renderName     string
	renderEmail    string
	renderPhone    string
)

func init() {
	renderCmd.Flags().StringVarP(&renderIn, "in", "i", "", "CV file to render (required)")
	renderCmd.Flags().StringVarP(&renderJob, "job", "j", "", "Job description used to annotate missing keywords")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", config.FormatHTML, "Output format: html, pdf or latex")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output path (default: input name with the format's extension)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "HTML or LaTeX template override")
	renderCmd.Flags().BoolVar(&renderCompile, "compile", false, "Compile LaTeX output to PDF with pdflatex")
	renderCmd.Flags().StringVar(&renderName, "name", "", "Candidate name")
	renderCmd.Flags().StringVar(&renderEmail, "email", "", "Candidate email")
	renderCmd.Flags().StringVar(&renderPhone, "phone", "", "Candidate phone")

	_ = renderCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(renderCmd)
}

var extensions = map[string]string{
	config.FormatHTML:  ".html",
	config.FormatPDF:   ".pdf",
	config.FormatLaTeX: ".tex",
}

// defaultOutputPath swaps the input extension for the format's.
func defaultOutputPath(in, format string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + extensions[format]
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := resolve(config.Config{
		CV:       renderIn,
		Job:      renderJob,
		Format:   strings.ToLower(renderFormat),
		Template: renderTemplate,
		Name:     renderName,
		Email:    renderEmail,
		Phone:    renderPhone,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	text, err := ingestion.ExtractFile(ctx, cfg.CV)
	if err != nil {
		return err
	}

	meta := rendering.Meta{Name: cfg.Name, Email: cfg.Email, Phone: cfg.Phone}
	if cfg.Job != "" {
		jobText, err := ingestion.ExtractJobDescription(ctx, cfg.Job)
		if err != nil {
			return err
		}
		result := keywords.Compare(text, jobText, cfg.TopN)
		meta.MissingKeywords = result.MissingKeywords.Terms()
		meta.Coverage = result.Coverage()
	}

	outPath := renderOut
	if outPath == "" {
		outPath = defaultOutputPath(cfg.CV, cfg.Format)
	}
	if outPath == cfg.CV {
		return fmt.Errorf("output path %s would overwrite the input", outPath)
	}

	doc := rendering.BuildDocument(text, meta)
	path, err := pipeline.RenderDocument(ctx, doc, cfg.Format, cfg.Template, outPath, renderCompile)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintOutput(cfg.Format, path)
	return nil
}
