package enhancement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
	"github.com/jonathan/cv-keyword-matcher/internal/llm"
	"github.com/jonathan/cv-keyword-matcher/internal/prompts"
)

const (
	// DefaultMaxTokens caps the length of the rewritten sections.
	DefaultMaxTokens = 1000
	// DefaultTemperature leaves room for natural phrasing.
	DefaultTemperature = 0.7

	promptFile = "enhancement.json"

	// EnhancedSectionsHeader separates the original CV from the rewritten sections.
	EnhancedSectionsHeader = "### Enhanced Sections ###"
)

// Enhancer asks a language model to work missing keywords into a CV.
type Enhancer struct {
	client      llm.Client
	provider    string
	tier        llm.ModelTier
	maxTokens   int
	temperature float64
	structured  bool
	logger      *slog.Logger
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithTier selects the model tier (default TierAdvanced).
func WithTier(tier llm.ModelTier) Option {
	return func(e *Enhancer) { e.tier = tier }
}

// WithMaxTokens overrides DefaultMaxTokens.
func WithMaxTokens(n int) Option {
	return func(e *Enhancer) { e.maxTokens = n }
}

// WithTemperature overrides DefaultTemperature.
func WithTemperature(t float64) Option {
	return func(e *Enhancer) { e.temperature = t }
}

// WithStructuredOutput asks for markdown sections and forbids invented facts.
func WithStructuredOutput() Option {
	return func(e *Enhancer) { e.structured = true }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Enhancer) { e.logger = l }
}

// WithProvider names the provider in errors and logs.
func WithProvider(name string) Option {
	return func(e *Enhancer) { e.provider = name }
}

// New creates an Enhancer around an existing client.
func New(client llm.Client, opts ...Option) *Enhancer {
	e := &Enhancer{
		client:      client,
		provider:    "llm",
		tier:        llm.TierAdvanced,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromConfig builds the provider client described by cfg, wraps it in a
// guard and returns an Enhancer that owns it.
func NewFromConfig(ctx context.Context, cfg *llm.Config, apiKey string, guard llm.GuardConfig, opts ...Option) (*Enhancer, error) {
	if cfg == nil {
		cfg = llm.DefaultConfig()
	}
	client, err := llm.NewClient(ctx, cfg, apiKey)
	if err != nil {
		return nil, &EnhancementServiceError{Provider: string(cfg.Provider), Message: "failed to create client", Cause: err}
	}
	opts = append([]Option{WithProvider(string(cfg.Provider))}, opts...)
	return New(llm.NewGuard(client, guard), opts...), nil
}

// BuildPrompt fills the rewrite prompt. Keywords are listed comma-separated in
// lexicographic order.
func BuildPrompt(cvText string, missing keywords.KeywordSet, jobText string, structured bool) (string, error) {
	key := "rewrite-cv"
	if structured {
		key = "rewrite-cv-structured"
	}
	return prompts.Render(promptFile, key, map[string]string{
		"Keywords":       missing.String(),
		"CV":             cvText,
		"JobDescription": jobText,
	})
}

// Rewrite returns new or rewritten CV sections that incorporate missing.
// When missing is empty the CV is returned unchanged and no model is called.
func (e *Enhancer) Rewrite(ctx context.Context, cvText string, missing keywords.KeywordSet, jobText string) (string, error) {
	if missing.IsEmpty() {
		e.logger.Debug("no missing keywords, skipping enhancement")
		return cvText, nil
	}

	prompt, err := BuildPrompt(cvText, missing, jobText, e.structured)
	if err != nil {
		return "", &EnhancementServiceError{Provider: e.provider, Message: "failed to build prompt", Cause: err}
	}
	system, err := prompts.Get(promptFile, "system")
	if err != nil {
		return "", &EnhancementServiceError{Provider: e.provider, Message: "failed to load system prompt", Cause: err}
	}

	start := time.Now()
	out, err := e.client.Generate(ctx, llm.Request{
		System:      system,
		Prompt:      prompt,
		Tier:        e.tier,
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		e.logger.Error("enhancement failed", "provider", e.provider, "model", e.client.GetModel(e.tier), "error", err)
		return "", &EnhancementServiceError{Provider: e.provider, Message: "error interacting with the LLM", Cause: err}
	}

	out = strings.TrimSpace(llm.StripCodeFence(out))
	if out == "" {
		return "", &EnhancementServiceError{Provider: e.provider, Message: "model returned no text", Cause: llm.ErrEmptyResponse}
	}

	e.logger.Info("enhanced CV",
		"provider", e.provider,
		"model", e.client.GetModel(e.tier),
		"keywords", missing.Len(),
		"chars", len(out),
		"duration", time.Since(start))
	return out, nil
}

// Close releases the underlying client.
func (e *Enhancer) Close() error {
	if e.client == nil {
		return nil
	}
	if err := e.client.Close(); err != nil {
		return fmt.Errorf("failed to close llm client: %w", err)
	}
	return nil
}

// GenerateFinalCV appends the enhanced sections to the original CV.
func GenerateFinalCV(cvText, enhanced string) string {
	return cvText + "\n\n" + EnhancedSectionsHeader + "\n" + enhanced
}
