// Package pipeline provides the high-level orchestration of a CV analysis:
// extraction, keyword comparison, enhancement, rendering and persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-keyword-matcher/internal/config"
	"github.com/jonathan/cv-keyword-matcher/internal/db"
	"github.com/jonathan/cv-keyword-matcher/internal/enhancement"
	"github.com/jonathan/cv-keyword-matcher/internal/ingestion"
	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
	"github.com/jonathan/cv-keyword-matcher/internal/pipeline/steps"
	"github.com/jonathan/cv-keyword-matcher/internal/rendering"
)

// DefaultOutputName is the base name of rendered documents.
const DefaultOutputName = "enhanced_cv"

// ErrNoSource is returned when a Source has nothing to read.
var ErrNoSource = errors.New("no source given")

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Source is a document to analyze. Exactly one of Path, URL, Data or Text is
// used, checked in that order. Name carries the file name for Data.
type Source struct {
	Path string
	URL  string
	Data []byte
	Name string
	Text string
}

// Label describes the source for logs and stored records.
func (s Source) Label() string {
	switch {
	case s.Path != "":
		return s.Path
	case s.URL != "":
		return s.URL
	case s.Name != "":
		return s.Name
	case s.Text != "":
		return "(text)"
	}
	return ""
}

func (s Source) empty() bool {
	return s.Path == "" && s.URL == "" && s.Data == nil && s.Text == ""
}

// Enhancer rewrites a CV to include missing keywords.
type Enhancer interface {
	Rewrite(ctx context.Context, cvText string, missing keywords.KeywordSet, jobText string) (string, error)
}

// Recorder persists comparison history.
type Recorder interface {
	SaveComparison(ctx context.Context, c *db.Comparison) error
}

// Options holds configuration for running the pipeline
type Options struct {
	CV   Source
	Job  Source
	TopN int

	// Extractor overrides the default keyword extractor built from TopN.
	Extractor *keywords.Extractor

	// Enhancer is optional; nil skips enhancement.
	Enhancer Enhancer

	// Format selects the rendered output (html, pdf or latex); empty skips rendering.
	Format       string
	OutputDir    string
	OutputName   string
	TemplatePath string
	CompileLaTeX bool
	Candidate    rendering.Meta

	// Recorder is optional; nil skips persistence.
	Recorder Recorder

	URLOptions ingestion.URLOptions
	Logger     *slog.Logger
	OnProgress ProgressCallback
}

// Result is the outcome of a pipeline run.
type Result struct {
	RunID       uuid.UUID                 `json:"run_id"`
	CVText      string                    `json:"-"`
	JobText     string                    `json:"-"`
	Comparison  keywords.ComparisonResult `json:"comparison"`
	Suggestions string                    `json:"suggestions"`
	// EnhancedCV is the original CV followed by the enhanced sections.
	EnhancedCV string `json:"enhanced_cv,omitempty"`
	// EnhancementError is set when enhancement failed; the run continues
	// with the original CV.
	EnhancementError error  `json:"-"`
	OutputPath       string `json:"output_path,omitempty"`
}

// FinalCV returns the enhanced CV when there is one, otherwise the original.
func (r *Result) FinalCV() string {
	if r.EnhancedCV != "" {
		return r.EnhancedCV
	}
	return r.CVText
}

type runner struct {
	opts    Options
	runID   uuid.UUID
	logger  *slog.Logger
	tracker *steps.Tracker
}

func (r *runner) emit(step, message string, content any) {
	r.tracker.Complete(step)
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: steps.CategoryOf(step),
			Message:  message,
			RunID:    r.runID.String(),
			Content:  content,
		})
	}
}

func (r *runner) begin(step string) error {
	if err := r.tracker.Ready(step); err != nil {
		return err
	}
	r.logger.Debug("step started", "step", step)
	return nil
}

// Run extracts both documents concurrently, compares their keywords and then
// optionally enhances, renders and records the result. Extraction and
// rendering failures fail the run; enhancement and persistence failures do not.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.CV.empty() {
		return nil, fmt.Errorf("cv: %w", ErrNoSource)
	}
	if opts.Job.empty() {
		return nil, fmt.Errorf("job description: %w", ErrNoSource)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &runner{
		opts:    opts,
		runID:   uuid.New(),
		tracker: steps.NewTracker(),
	}
	r.logger = logger.With("run_id", r.runID.String())

	result := &Result{RunID: r.runID}

	// Extract both documents in parallel
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.begin(steps.ExtractCV); err != nil {
			return err
		}
		text, err := extractCV(gCtx, opts.CV)
		if err != nil {
			return fmt.Errorf("cv extraction failed: %w", err)
		}
		result.CVText = text
		r.emit(steps.ExtractCV, fmt.Sprintf("Extracted %d characters from %s", len(text), opts.CV.Label()), nil)
		return nil
	})
	g.Go(func() error {
		if err := r.begin(steps.ExtractJob); err != nil {
			return err
		}
		text, err := extractJob(gCtx, opts.Job, opts.URLOptions, logger)
		if err != nil {
			return fmt.Errorf("job description extraction failed: %w", err)
		}
		result.JobText = text
		r.emit(steps.ExtractJob, fmt.Sprintf("Extracted %d characters from %s", len(text), opts.Job.Label()), nil)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := r.begin(steps.Compare); err != nil {
		return nil, err
	}
	extractor := opts.Extractor
	if extractor == nil {
		extractor = keywords.NewExtractor(opts.TopN)
	}
	result.Comparison = extractor.Compare(result.CVText, result.JobText)
	r.logger.Info("compared keywords",
		"cv_keywords", result.Comparison.CVKeywords.Len(),
		"job_keywords", result.Comparison.JobKeywords.Len(),
		"missing", result.Comparison.MissingKeywords.Len(),
		"coverage", result.Comparison.Coverage())
	r.emit(steps.Compare, fmt.Sprintf("Found %d missing keywords", result.Comparison.MissingKeywords.Len()), result.Comparison.Report())

	if err := r.begin(steps.Suggest); err != nil {
		return nil, err
	}
	result.Suggestions = keywords.FormatSuggestions(result.Comparison.MissingKeywords)
	r.emit(steps.Suggest, "Formatted suggestions", nil)

	if opts.Enhancer != nil {
		if err := r.enhance(ctx, result); err != nil {
			return nil, err
		}
	}

	if opts.Format != "" {
		if err := r.render(ctx, result); err != nil {
			return nil, err
		}
	}

	if opts.Recorder != nil {
		r.persist(ctx, result)
	}

	return result, nil
}

func (r *runner) enhance(ctx context.Context, result *Result) error {
	if err := r.begin(steps.Enhance); err != nil {
		return err
	}

	missing := result.Comparison.MissingKeywords
	if missing.IsEmpty() {
		r.emit(steps.Enhance, "No missing keywords, enhancement skipped", nil)
		return nil
	}

	enhanced, err := r.opts.Enhancer.Rewrite(ctx, result.CVText, missing, result.JobText)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Warn("enhancement failed, continuing with original CV", "error", err)
		result.EnhancementError = err
		r.emit(steps.Enhance, "Enhancement failed: "+err.Error(), nil)
		return nil
	}

	result.EnhancedCV = enhancement.GenerateFinalCV(result.CVText, enhanced)
	r.emit(steps.Enhance, fmt.Sprintf("Integrated %d keywords", missing.Len()), nil)
	return nil
}

func (r *runner) render(ctx context.Context, result *Result) error {
	if err := r.begin(steps.Render); err != nil {
		return err
	}

	meta := r.opts.Candidate
	meta.MissingKeywords = result.Comparison.MissingKeywords.Terms()
	meta.Coverage = result.Comparison.Coverage()
	doc := rendering.BuildDocument(result.FinalCV(), meta)

	path, err := RenderDocument(ctx, doc, r.opts.Format, r.opts.TemplatePath, r.outputPath(), r.opts.CompileLaTeX)
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}
	result.OutputPath = path
	r.logger.Info("rendered document", "format", r.opts.Format, "path", path)
	r.emit(steps.Render, "Rendered "+r.opts.Format+" to "+path, nil)
	return nil
}

func (r *runner) outputPath() string {
	name := r.opts.OutputName
	if name == "" {
		name = DefaultOutputName
	}
	ext := map[string]string{
		config.FormatHTML:  ".html",
		config.FormatPDF:   ".pdf",
		config.FormatLaTeX: ".tex",
	}[r.opts.Format]
	return filepath.Join(r.opts.OutputDir, strings.TrimSuffix(name, filepath.Ext(name))+ext)
}

func (r *runner) persist(ctx context.Context, result *Result) {
	if err := r.begin(steps.Persist); err != nil {
		r.logger.Warn("skipping persistence", "error", err)
		return
	}

	record := db.NewComparison(result.RunID, r.opts.CV.Label(), r.opts.Job.Label(), result.Comparison)
	record.Enhanced = result.EnhancedCV != ""
	if err := r.opts.Recorder.SaveComparison(ctx, record); err != nil {
		r.logger.Warn("failed to save comparison", "error", err)
		return
	}
	r.emit(steps.Persist, "Saved comparison "+record.ID.String(), nil)
}

// RenderDocument writes doc to outPath in the given format and returns the
// path of the final artifact. With compile set, LaTeX output is also
// compiled and the PDF path is returned.
func RenderDocument(ctx context.Context, doc rendering.Document, format, templatePath, outPath string, compile bool) (string, error) {
	switch format {
	case config.FormatHTML:
		html, err := rendering.RenderHTML(doc, templatePath)
		if err != nil {
			return "", err
		}
		if err := rendering.WriteFile(outPath, html); err != nil {
			return "", err
		}
		return outPath, nil

	case config.FormatPDF:
		return rendering.CreateUpdatedCV(ctx, doc, templatePath, outPath)

	case config.FormatLaTeX:
		tex, err := rendering.RenderLaTeX(doc, templatePath)
		if err != nil {
			return "", err
		}
		if err := rendering.WriteFile(outPath, tex); err != nil {
			return "", err
		}
		if !compile {
			return outPath, nil
		}
		pdfPath, _, err := rendering.CompileLaTeX(ctx, outPath, filepath.Dir(outPath))
		if err != nil {
			return "", err
		}
		_ = rendering.CleanupCompilationArtifacts(filepath.Dir(outPath), filepath.Base(outPath))
		return pdfPath, nil
	}
	return "", &rendering.RenderingError{Stage: rendering.StageTemplate, Message: fmt.Sprintf("unknown output format %q", format)}
}

func extractCV(ctx context.Context, src Source) (string, error) {
	switch {
	case src.Path != "":
		return ingestion.ExtractFile(ctx, src.Path)
	case src.URL != "":
		return "", fmt.Errorf("cv: URLs are only supported for job descriptions")
	case src.Data != nil:
		return ingestion.ExtractBytes(ctx, src.Name, src.Data)
	}
	return src.Text, nil
}

func extractJob(ctx context.Context, src Source, urlOpts ingestion.URLOptions, logger *slog.Logger) (string, error) {
	switch {
	case src.Path != "":
		return ingestion.ExtractJobDescription(ctx, src.Path)
	case src.URL != "":
		if urlOpts.Logger == nil {
			urlOpts.Logger = logger
		}
		text, _, err := ingestion.IngestFromURL(ctx, src.URL, urlOpts)
		return text, err
	case src.Data != nil:
		return ingestion.ExtractJobDescriptionBytes(ctx, src.Name, src.Data)
	}
	return src.Text, nil
}

