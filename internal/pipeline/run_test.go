package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-keyword-matcher/internal/db"
	"github.com/jonathan/cv-keyword-matcher/internal/enhancement"
	"github.com/jonathan/cv-keyword-matcher/internal/ingestion"
	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
	"github.com/jonathan/cv-keyword-matcher/internal/logging"
	"github.com/jonathan/cv-keyword-matcher/internal/pipeline/steps"
	"github.com/jonathan/cv-keyword-matcher/internal/rendering"
)

const (
	cvText  = "Experienced Python developer with SQL skills"
	jobText = "Looking for a Go developer with cloud experience"
)

type stubEnhancer struct {
	calls   int
	missing keywords.KeywordSet
	out     string
	err     error
}

func (s *stubEnhancer) Rewrite(_ context.Context, _ string, missing keywords.KeywordSet, _ string) (string, error) {
	s.calls++
	s.missing = missing
	return s.out, s.err
}

type stubRecorder struct {
	saved []*db.Comparison
	err   error
}

func (s *stubRecorder) SaveComparison(_ context.Context, c *db.Comparison) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, c)
	return nil
}

func baseOptions() Options {
	return Options{
		CV:     Source{Text: cvText},
		Job:    Source{Text: jobText},
		TopN:   5,
		Logger: logging.Discard(),
	}
}

func TestRun_CompareOnly(t *testing.T) {
	result, err := Run(context.Background(), baseOptions())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID.String())
	assert.Equal(t, []string{"cloud", "experience", "go", "looking"}, result.Comparison.MissingKeywords.Terms())
	assert.Equal(t, keywords.FormatSuggestions(result.Comparison.MissingKeywords), result.Suggestions)
	assert.Empty(t, result.EnhancedCV)
	assert.Empty(t, result.OutputPath)
	assert.Equal(t, cvText, result.FinalCV())
}

func TestRun_RequiresSources(t *testing.T) {
	opts := baseOptions()
	opts.CV = Source{}
	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, ErrNoSource)

	opts = baseOptions()
	opts.Job = Source{}
	_, err = Run(context.Background(), opts)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestRun_Enhancement(t *testing.T) {
	enhancer := &stubEnhancer{out: "## Cloud\n- Shipped Go services"}
	opts := baseOptions()
	opts.Enhancer = enhancer

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, enhancer.calls)
	assert.True(t, enhancer.missing.Equal(result.Comparison.MissingKeywords))
	assert.Equal(t, enhancement.GenerateFinalCV(cvText, enhancer.out), result.EnhancedCV)
	assert.Equal(t, result.EnhancedCV, result.FinalCV())
	assert.NoError(t, result.EnhancementError)
}

func TestRun_EnhancementFailureIsRecoverable(t *testing.T) {
	enhancer := &stubEnhancer{err: &enhancement.EnhancementServiceError{Provider: "gemini", Message: "error interacting with the LLM"}}
	opts := baseOptions()
	opts.Enhancer = enhancer
	opts.Format = "html"
	opts.OutputDir = t.TempDir()

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)

	var svcErr *enhancement.EnhancementServiceError
	assert.True(t, errors.As(result.EnhancementError, &svcErr))
	assert.Empty(t, result.EnhancedCV)
	assert.FileExists(t, result.OutputPath)
}

func TestRun_NothingMissingSkipsEnhancement(t *testing.T) {
	enhancer := &stubEnhancer{out: "unused"}
	opts := baseOptions()
	opts.Job = Source{Text: "Python developer"}
	opts.Enhancer = enhancer

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, enhancer.calls)
	assert.Empty(t, result.EnhancedCV)
	assert.Equal(t, keywords.FormatSuggestions(keywords.KeywordSet{}), result.Suggestions)
}

func TestRun_RenderHTMLAndProgress(t *testing.T) {
	var (
		mu     sync.Mutex
		events []ProgressEvent
	)
	opts := baseOptions()
	opts.Enhancer = &stubEnhancer{out: "## Cloud\n- Deployed Go services to the cloud"}
	opts.Format = "html"
	opts.OutputDir = t.TempDir()
	opts.OutputName = "jane.pdf"
	opts.Candidate = rendering.Meta{Name: "Jane Doe"}
	opts.OnProgress = func(e ProgressEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(opts.OutputDir, "jane.html"), result.OutputPath)
	data, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Jane Doe")
	assert.Contains(t, string(data), "Deployed Go services to the cloud")

	var names []string
	for _, e := range events {
		names = append(names, e.Step)
		assert.Equal(t, result.RunID.String(), e.RunID)
		assert.Equal(t, steps.CategoryOf(e.Step), e.Category)
	}
	assert.ElementsMatch(t, []string{steps.ExtractCV, steps.ExtractJob}, names[:2])
	assert.Equal(t, []string{steps.Compare, steps.Suggest, steps.Enhance, steps.Render}, names[2:])
}

func TestRun_RenderLaTeX(t *testing.T) {
	opts := baseOptions()
	opts.Format = "latex"
	opts.OutputDir = t.TempDir()

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(opts.OutputDir, DefaultOutputName+".tex"), result.OutputPath)

	tex, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(tex), `\documentclass`))
}

func TestRun_RenderFailureFailsRun(t *testing.T) {
	opts := baseOptions()
	opts.Format = "html"
	opts.OutputDir = t.TempDir()
	opts.TemplatePath = filepath.Join(opts.OutputDir, "missing.html")

	_, err := Run(context.Background(), opts)
	var renderErr *rendering.RenderingError
	assert.True(t, errors.As(err, &renderErr))
}

func TestRun_UnknownFormat(t *testing.T) {
	opts := baseOptions()
	opts.Format = "docx"
	opts.OutputDir = t.TempDir()

	_, err := Run(context.Background(), opts)
	assert.ErrorContains(t, err, "unknown output format")
}

func TestRun_FileSources(t *testing.T) {
	dir := t.TempDir()
	cvPath := filepath.Join(dir, "cv.md")
	jobPath := filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(cvPath, []byte(cvText), 0644))
	require.NoError(t, os.WriteFile(jobPath, []byte(jobText), 0644))

	opts := baseOptions()
	opts.CV = Source{Path: cvPath}
	opts.Job = Source{Path: jobPath}

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Comparison.MissingKeywords.Len())
}

func TestRun_UploadedBytes(t *testing.T) {
	opts := baseOptions()
	opts.CV = Source{Name: "cv.txt", Data: []byte(cvText)}
	opts.Job = Source{Name: "job.docx", Data: []byte("x")}

	_, err := Run(context.Background(), opts)
	var extractErr *ingestion.ExtractionError
	require.True(t, errors.As(err, &extractErr))
	assert.ErrorIs(t, err, ingestion.ErrUnsupportedFormat)
}

func TestRun_CVFromURLRejected(t *testing.T) {
	opts := baseOptions()
	opts.CV = Source{URL: "https://example.com/cv"}
	_, err := Run(context.Background(), opts)
	assert.ErrorContains(t, err, "only supported for job descriptions")
}

func TestRun_Persistence(t *testing.T) {
	recorder := &stubRecorder{}
	opts := baseOptions()
	opts.CV = Source{Name: "cv.txt", Data: []byte(cvText)}
	opts.Recorder = recorder

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, recorder.saved, 1)
	saved := recorder.saved[0]
	assert.Equal(t, result.RunID, saved.ID)
	assert.Equal(t, "cv.txt", saved.CVSource)
	assert.Equal(t, "(text)", saved.JobSource)
	assert.False(t, saved.Enhanced)
}

func TestRun_PersistenceFailureIsIgnored(t *testing.T) {
	opts := baseOptions()
	opts.Recorder = &stubRecorder{err: errors.New("connection refused")}

	_, err := Run(context.Background(), opts)
	assert.NoError(t, err)
}

func TestRun_CustomExtractor(t *testing.T) {
	opts := baseOptions()
	opts.Extractor = keywords.NewExtractor(2)

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Comparison.TopN)
	assert.LessOrEqual(t, result.Comparison.JobKeywords.Len(), 2)
}

func TestSource_Label(t *testing.T) {
	assert.Equal(t, "cv.pdf", Source{Path: "cv.pdf"}.Label())
	assert.Equal(t, "https://x.io/j", Source{URL: "https://x.io/j"}.Label())
	assert.Equal(t, "up.docx", Source{Name: "up.docx", Data: []byte{1}}.Label())
	assert.Equal(t, "(text)", Source{Text: "t"}.Label())
	assert.Equal(t, "", Source{}.Label())
}
