package main

import (
	"context"
	"fmt"

	"github.com/jonathan/cv-keyword-matcher/internal/config"
	"github.com/jonathan/cv-keyword-matcher/internal/enhancement"
	"github.com/jonathan/cv-keyword-matcher/internal/ingestion"
	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
	"github.com/jonathan/cv-keyword-matcher/internal/llm"
	"github.com/jonathan/cv-keyword-matcher/internal/pipeline"
	"github.com/jonathan/cv-keyword-matcher/internal/storage"
)

// resolve merges command flags over the config file, fills the rest from the
// environment and validates the result.
func resolve(flags config.Config) (config.Config, error) {
	merged := flags.MergeWithDefaults(fileConfig)
	merged.UseBrowser = flags.UseBrowser || fileConfig.UseBrowser
	merged.StructuredOutput = flags.StructuredOutput || fileConfig.StructuredOutput
	merged.Verbose = fileConfig.Verbose
	merged.ApplyEnv()
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// jobSource picks the job description source from a resolved config.
func jobSource(cfg config.Config) (pipeline.Source, error) {
	switch {
	case cfg.Job != "" && cfg.JobURL != "":
		return pipeline.Source{}, fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	case cfg.Job != "":
		return pipeline.Source{Path: cfg.Job}, nil
	case cfg.JobURL != "":
		return pipeline.Source{URL: cfg.JobURL}, nil
	}
	return pipeline.Source{}, fmt.Errorf("either --job or --job-url must be provided")
}

// newExtractor builds the keyword extractor from the configured reference
// corpus and extra stopwords.
func newExtractor(ctx context.Context, cfg config.Config) (*keywords.Extractor, error) {
	docs := make([]string, 0, len(cfg.Corpus))
	for _, path := range cfg.Corpus {
		text, err := ingestion.ExtractFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus document %s: %w", path, err)
		}
		docs = append(docs, text)
	}
	if len(docs) > 0 {
		logger.Debug("loaded reference corpus", "documents", len(docs))
	}
	return keywords.NewExtractor(cfg.TopN,
		keywords.WithCorpus(docs...),
		keywords.WithStopwords(cfg.Stopwords...),
	), nil
}

func urlOptions(cfg config.Config) ingestion.URLOptions {
	return ingestion.URLOptions{UseBrowser: cfg.UseBrowser, Logger: logger}
}

// newEnhancer builds the LLM enhancer for the configured provider.
func newEnhancer(ctx context.Context, cfg config.Config) (*enhancement.Enhancer, error) {
	provider, err := llm.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	llmConfig := llm.ConfigFor(provider)
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(llm.TierAdvanced, cfg.Model)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = config.APIKeyFromEnv(string(provider))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key for provider %s: use --api-key or set the provider's API key variable", provider)
	}

	return enhancement.NewFromConfig(ctx, llmConfig, apiKey, llm.DefaultGuardConfig(), enhancerOptions(cfg)...)
}

func enhancerOptions(cfg config.Config) []enhancement.Option {
	opts := []enhancement.Option{enhancement.WithLogger(logger)}
	if cfg.StructuredOutput {
		opts = append(opts, enhancement.WithStructuredOutput())
	}
	return opts
}

// optionalEnhancer returns nil when no enhancer can be built, so servers
// still start without LLM credentials.
func optionalEnhancer(ctx context.Context, cfg config.Config) (pipeline.Enhancer, func()) {
	e, err := newEnhancer(ctx, cfg)
	if err != nil {
		logger.Warn("enhancement disabled", "error", err)
		return nil, func() {}
	}
	return e, func() { _ = e.Close() }
}

// newStore returns an S3 store when a bucket is configured, otherwise a local
// directory store.
func newStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.S3.Enabled() {
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    "uploads",
		})
	}
	dir := cfg.UploadDir
	if dir == "" {
		dir = storage.DefaultUploadDir
	}
	return storage.NewLocalStore(dir), nil
}
