package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"cv": "cv.pdf",
		"job_url": "https://example.com/job",
		"name": "Test User",
		"top_n": 15,
		"provider": "anthropic",
		"s3": {"bucket": "uploads", "region": "auto"},
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "cv.pdf", cfg.CV)
	assert.Equal(t, "https://example.com/job", cfg.JobURL)
	assert.Equal(t, "Test User", cfg.Name)
	assert.Equal(t, 15, cfg.TopN)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "uploads", cfg.S3.Bucket)
	assert.True(t, cfg.S3.Enabled())
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
cv: resume.docx
job: job.md
top_n: 10
format: pdf
log_level: debug
structured_output: true
corpus:
  - refs/backend.txt
  - refs/frontend.md
stopwords: [looking, team]
s3:
  bucket: cv-uploads
  endpoint: https://account.r2.cloudflarestorage.com
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "resume.docx", cfg.CV)
	assert.Equal(t, "job.md", cfg.Job)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, FormatPDF, cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.StructuredOutput)
	assert.Equal(t, []string{"refs/backend.txt", "refs/frontend.md"}, cfg.Corpus)
	assert.Equal(t, []string{"looking", "team"}, cfg.Stopwords)
	assert.Equal(t, "https://account.r2.cloudflarestorage.com", cfg.S3.Endpoint)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("top_n: [unterminated"), 0644))

	_, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_MutuallyExclusive(t *testing.T) {
	cfg := &Config{Job: "job.txt", JobURL: "https://example.com/job"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_NegativeTopN(t *testing.T) {
	err := (&Config{TopN: -1}).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "top_n")
}

func TestValidate_UnknownFormat(t *testing.T) {
	err := (&Config{Format: "docx"}).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestValidate_UnknownProvider(t *testing.T) {
	err := (&Config{Provider: "cohere"}).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestValidate_MissingFile(t *testing.T) {
	err := (&Config{CV: "/nonexistent/cv.pdf"}).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cv file not found")
}

func TestValidate_MissingCorpusFile(t *testing.T) {
	err := (&Config{Corpus: []string{"/nonexistent/reference.txt"}}).Validate()
	assert.ErrorContains(t, err, "corpus file not found")
}

func TestValidate_ValidConfig(t *testing.T) {
	cvPath := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(cvPath, []byte("cv"), 0644))

	cfg := &Config{CV: cvPath, JobURL: "https://example.com/job", TopN: 10, Format: "PDF", Provider: "openai"}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Name: "CLI Name", TopN: 5}
	defaults := Config{
		Name:     "Config Name",
		Email:    "config@example.com",
		TopN:     20,
		Provider: "gemini",
		S3:       S3Config{Bucket: "b"},
	}

	result := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "CLI Name", result.Name)
	assert.Equal(t, 5, result.TopN)
	assert.Equal(t, "config@example.com", result.Email)
	assert.Equal(t, "gemini", result.Provider)
	assert.Equal(t, "b", result.S3.Bucket)
}

func TestMergeWithDefaults_Slices(t *testing.T) {
	defaults := Config{Corpus: []string{"ref.txt"}, Stopwords: []string{"team"}}

	result := (&Config{}).MergeWithDefaults(defaults)
	assert.Equal(t, []string{"ref.txt"}, result.Corpus)
	assert.Equal(t, []string{"team"}, result.Stopwords)

	result = (&Config{Stopwords: []string{"go"}}).MergeWithDefaults(defaults)
	assert.Equal(t, []string{"ref.txt"}, result.Corpus)
	assert.Equal(t, []string{"go"}, result.Stopwords)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{Name: "Test", TopN: 12}
	result := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "Test", result.Name)
	assert.Equal(t, 12, result.TopN)
	assert.Empty(t, result.Email)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("GEMINI_API_KEY", "gemini-test")
	t.Setenv("DATABASE_URL", "postgres://localhost/cv")
	t.Setenv("S3_BUCKET", "env-bucket")

	cfg := &Config{DatabaseURL: "postgres://explicit/cv"}
	cfg.ApplyEnv()

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sk-ant-test", cfg.APIKey)
	assert.Equal(t, "postgres://explicit/cv", cfg.DatabaseURL)
	assert.Equal(t, "env-bucket", cfg.S3.Bucket)
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("OPENAI_API_KEY", "o")
	t.Setenv("ANTHROPIC_API_KEY", "a")

	assert.Equal(t, "g", APIKeyFromEnv(""))
	assert.Equal(t, "g", APIKeyFromEnv("gemini"))
	assert.Equal(t, "o", APIKeyFromEnv("OpenAI"))
	assert.Equal(t, "a", APIKeyFromEnv("claude"))
}
