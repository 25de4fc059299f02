package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-keyword-matcher/internal/config"
	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
	"github.com/jonathan/cv-keyword-matcher/internal/schemas"
)

func TestCompareCommand(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", testCV)
	job := writeFile(t, dir, "job.txt", testJob)
	outPath := filepath.Join(dir, "out", "comparison.json")

	output, err := executeCommand(t, "compare", "--cv", cv, "--job", job, "--top-n", "5", "--out", outPath)
	require.NoError(t, err, output)

	assert.Contains(t, output, "Consider incorporating the following keywords into your CV:")
	assert.Contains(t, output, "- cloud\n- experience\n- go\n- looking\n")
	assert.Contains(t, output, "Comparison written to "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.NoError(t, schemas.ValidateComparison(data))

	var report keywords.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, []string{"cloud", "experience", "go", "looking"}, report.MissingKeywords.Terms())
	assert.Equal(t, 5, report.TopN)
}

func TestCompareCommand_AlignedCV(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.md", "# Skills\n- Go developer\n- cloud experience")
	job := writeFile(t, dir, "job.txt", "Go developer, cloud experience")

	output, err := executeCommand(t, "compare", "--cv", cv, "--job", job)
	require.NoError(t, err, output)
	assert.Contains(t, output, keywords.FormatSuggestions(keywords.KeywordSet{}))
}

func TestCompareCommand_ConfigFile(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", testCV)
	job := writeFile(t, dir, "job.txt", testJob)
	cfgPath := writeFile(t, dir, "config.yaml", "cv: "+cv+"\njob: "+job+"\ntop_n: 5\n")

	output, err := executeCommand(t, "--config", cfgPath, "compare")
	require.NoError(t, err, output)
	assert.Contains(t, output, "- go\n")
}

func TestCompareCommand_Stopwords(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", testCV)
	job := writeFile(t, dir, "job.txt", testJob)

	output, err := executeCommand(t, "compare", "--cv", cv, "--job", job, "--top-n", "5", "--stopwords", "go,looking")
	require.NoError(t, err, output)
	assert.Contains(t, output, "- cloud\n- experience\n")
	assert.NotContains(t, output, "- go\n")
	assert.NotContains(t, output, "- looking\n")
}

func TestCompareCommand_Corpus(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", testCV)
	job := writeFile(t, dir, "job.txt", "Looking for a Go developer")
	corpus := writeFile(t, dir, "reference.txt", "Developer roles everywhere")

	output, err := executeCommand(t, "compare", "--cv", cv, "--job", job, "--top-n", "1")
	require.NoError(t, err, output)
	assert.Contains(t, output, keywords.FormatSuggestions(keywords.KeywordSet{}))

	output, err = executeCommand(t, "compare", "--cv", cv, "--job", job, "--top-n", "1", "--corpus", corpus)
	require.NoError(t, err, output)
	assert.Contains(t, output, "- go\n")

	_, err = executeCommand(t, "compare", "--cv", cv, "--job", job, "--corpus", filepath.Join(dir, "nope.txt"))
	assert.ErrorContains(t, err, "corpus file not found")
}

func TestCompareCommand_Verbose(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", testCV)
	job := writeFile(t, dir, "job.txt", testJob)

	output, err := executeCommand(t, "--verbose", "--log-level", "error", "compare", "--cv", cv, "--job", job)
	require.NoError(t, err, output)
	assert.Contains(t, output, "CV EXTRACTED")
	assert.Contains(t, output, "JOB EXTRACTED")
}

func TestCompareCommand_Errors(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", testCV)
	job := writeFile(t, dir, "job.txt", testJob)
	docx := writeFile(t, dir, "job.docx", "not a job description format")

	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{"missing cv", []string{"compare", "--job", job}, "--cv is required"},
		{"missing job", []string{"compare", "--cv", cv}, "either --job or --job-url must be provided"},
		{"both job sources", []string{"compare", "--cv", cv, "--job", job, "--job-url", "https://example.com"}, "mutually exclusive"},
		{"missing file", []string{"compare", "--cv", filepath.Join(dir, "nope.txt"), "--job", job}, "not found"},
		{"unsupported job format", []string{"compare", "--cv", cv, "--job", docx}, "unsupported file format"},
		{"negative top-n", []string{"compare", "--cv", cv, "--job", job, "--top-n", "-1"}, "top_n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestExtractCommand(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "job.txt", "go go go kubernetes kubernetes docker")

	output, err := executeCommand(t, "extract", path)
	require.NoError(t, err)
	assert.Contains(t, output, "go go go kubernetes kubernetes docker")

	output, err = executeCommand(t, "extract", path, "--keywords", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "go\t"))
	assert.True(t, strings.HasPrefix(lines[1], "kubernetes\t"))

	_, err = executeCommand(t, "extract")
	assert.ErrorContains(t, err, "either a file argument or --url")
}

func TestRenderCommand(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.md", "# Experience\n- Built Python services\n\n# Skills\nSQL & data")
	job := writeFile(t, dir, "job.txt", testJob)

	output, err := executeCommand(t, "render", "--in", cv, "--job", job, "--name", "Jane Doe")
	require.NoError(t, err, output)

	html, err := os.ReadFile(filepath.Join(dir, "cv.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Jane Doe")
	assert.Contains(t, string(html), "Experience")
	assert.Contains(t, string(html), "cloud")

	output, err = executeCommand(t, "render", "--in", cv, "--format", config.FormatLaTeX)
	require.NoError(t, err, output)
	tex, err := os.ReadFile(filepath.Join(dir, "cv.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(tex), `SQL \& data`)
}

func TestRenderCommand_RefusesOverwrite(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.html", "<h1>Experience</h1>")

	_, err := executeCommand(t, "render", "--in", cv)
	assert.ErrorContains(t, err, "would overwrite the input")
}

func TestEnhanceCommand_RequiresAPIKey(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", testCV)
	job := writeFile(t, dir, "job.txt", testJob)

	_, err := executeCommand(t, "enhance", "--cv", cv, "--job", job, "--provider", "anthropic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key for provider anthropic")
}

func TestEnhanceCommand_UnknownProvider(t *testing.T) {
	clearAPIKeys(t)
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", testCV)
	job := writeFile(t, dir, "job.txt", testJob)

	_, err := executeCommand(t, "enhance", "--cv", cv, "--job", job, "--provider", "mystery")
	assert.ErrorContains(t, err, "unknown provider")
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "out/cv.html", defaultOutputPath("out/cv.md", config.FormatHTML))
	assert.Equal(t, "cv.pdf", defaultOutputPath("cv.txt", config.FormatPDF))
	assert.Equal(t, "cv.tex", defaultOutputPath("cv", config.FormatLaTeX))
}

func TestJobSource(t *testing.T) {
	src, err := jobSource(config.Config{Job: "job.txt"})
	require.NoError(t, err)
	assert.Equal(t, "job.txt", src.Path)

	src, err = jobSource(config.Config{JobURL: "https://example.com/jobs/1"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/jobs/1", src.URL)

	_, err = jobSource(config.Config{})
	assert.Error(t, err)
}
