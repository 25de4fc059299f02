// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by Format.
const (
	FormatHTML  = "html"
	FormatPDF   = "pdf"
	FormatLaTeX = "latex"
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	CV       string `json:"cv,omitempty" yaml:"cv,omitempty"`             // Path to the CV (.pdf, .docx, .tex, .txt, .md)
	Job      string `json:"job,omitempty" yaml:"job,omitempty"`           // Path to the job description
	JobURL   string `json:"job_url,omitempty" yaml:"job_url,omitempty"`   // URL to fetch the job posting from
	Template string `json:"template,omitempty" yaml:"template,omitempty"` // HTML or LaTeX template override

	// Output
	Format    string `json:"format,omitempty" yaml:"format,omitempty"` // html, pdf or latex
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	UploadDir string `json:"upload_dir,omitempty" yaml:"upload_dir,omitempty"`

	// Candidate Info
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`

	// Comparison
	TopN      int      `json:"top_n,omitempty" yaml:"top_n,omitempty"`         // Keywords kept per document (0 = default)
	Corpus    []string `json:"corpus,omitempty" yaml:"corpus,omitempty"`       // Reference documents weighting term rarity
	Stopwords []string `json:"stopwords,omitempty" yaml:"stopwords,omitempty"` // Extra words never reported as keywords

	// Language model
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"` // gemini, anthropic or openai
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	StructuredOutput bool `json:"structured_output,omitempty" yaml:"structured_output,omitempty"` // Markdown sections, no invented facts

	// Services
	DatabaseURL string   `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	S3          S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`

	// Logging
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogDir   string `json:"log_dir,omitempty" yaml:"log_dir,omitempty"`
	LogFile  string `json:"log_file,omitempty" yaml:"log_file,omitempty"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // Use headless browser for SPA job boards
	Verbose    bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`         // Print detailed debug information
}

// S3Config describes an S3-compatible bucket used for uploads.
type S3Config struct {
	Bucket    string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"` // R2 or MinIO endpoint
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
}

// Enabled reports whether a bucket is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv fills empty fields from environment variables.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.Provider, "LLM_PROVIDER")
	setFromEnv(&c.Model, "LLM_MODEL")
	if c.APIKey == "" {
		c.APIKey = APIKeyFromEnv(c.Provider)
	}
	setFromEnv(&c.DatabaseURL, "DATABASE_URL")
	setFromEnv(&c.UploadDir, "UPLOAD_DIR")
	setFromEnv(&c.LogLevel, "LOG_LEVEL")
	setFromEnv(&c.S3.Bucket, "S3_BUCKET")
	setFromEnv(&c.S3.Region, "S3_REGION")
	setFromEnv(&c.S3.Endpoint, "S3_ENDPOINT")
	setFromEnv(&c.S3.AccessKey, "S3_ACCESS_KEY_ID")
	setFromEnv(&c.S3.SecretKey, "S3_SECRET_ACCESS_KEY")
}

// APIKeyFromEnv returns the API key variable for the given provider.
// An empty provider means Gemini.
func APIKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		return os.Getenv("GEMINI_API_KEY")
	}
}

func setFromEnv(field *string, key string) {
	if *field != "" {
		return
	}
	if v, ok := os.LookupEnv(key); ok {
		*field = strings.TrimSpace(v)
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if c.TopN < 0 {
		return fmt.Errorf("config error: 'top_n' must be non-negative")
	}

	switch strings.ToLower(c.Format) {
	case "", FormatHTML, FormatPDF, FormatLaTeX:
	default:
		return fmt.Errorf("config error: unknown format %q (want html, pdf or latex)", c.Format)
	}

	switch strings.ToLower(c.Provider) {
	case "", "gemini", "anthropic", "claude", "openai":
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	for label, path := range map[string]string{"template": c.Template, "cv": c.CV, "job": c.Job} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", label, path)
		}
	}

	for _, path := range c.Corpus {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: corpus file not found: %s", path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	for _, f := range []struct{ dst, src *string }{
		{&result.CV, &defaults.CV},
		{&result.Job, &defaults.Job},
		{&result.JobURL, &defaults.JobURL},
		{&result.Template, &defaults.Template},
		{&result.Format, &defaults.Format},
		{&result.OutputDir, &defaults.OutputDir},
		{&result.UploadDir, &defaults.UploadDir},
		{&result.Name, &defaults.Name},
		{&result.Email, &defaults.Email},
		{&result.Phone, &defaults.Phone},
		{&result.Provider, &defaults.Provider},
		{&result.Model, &defaults.Model},
		{&result.APIKey, &defaults.APIKey},
		{&result.DatabaseURL, &defaults.DatabaseURL},
		{&result.LogLevel, &defaults.LogLevel},
		{&result.LogDir, &defaults.LogDir},
		{&result.LogFile, &defaults.LogFile},
	} {
		if *f.dst == "" {
			*f.dst = *f.src
		}
	}

	if !result.S3.Enabled() {
		result.S3 = defaults.S3
	}

	// Int fields: use default if zero
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}

	// Slice fields: use default if empty
	if len(result.Corpus) == 0 {
		result.Corpus = defaults.Corpus
	}
	if len(result.Stopwords) == 0 {
		result.Stopwords = defaults.Stopwords
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
