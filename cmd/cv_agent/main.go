// Package main provides the cv_agent CLI: keyword comparison between a CV and
// a job description, LLM enhancement, rendering and the HTTP/MCP servers.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-keyword-matcher/internal/config"
	"github.com/jonathan/cv-keyword-matcher/internal/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath string
	logLevel   string
	verbose    bool

	// fileConfig holds the values of --config; command flags win over it.
	fileConfig config.Config
	logger     = slog.Default()
	logCloser  io.Closer
)

var rootCmd = &cobra.Command{
	Use:               "cv_agent",
	Short:             "CV keyword matcher",
	Long:              "cv_agent compares the keywords of a CV against a job description, suggests missing keywords and can rewrite the CV with an LLM to include them.",
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed progress and summaries")
}

// setup loads the config file and builds the logger. Logs go to stderr so
// stdout stays usable for command output and the MCP stdio transport.
func setup(_ *cobra.Command, _ []string) error {
	fileConfig = config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		fileConfig = *loaded
	}
	if verbose {
		fileConfig.Verbose = true
	}

	level := firstNonEmpty(logLevel, fileConfig.LogLevel, os.Getenv("LOG_LEVEL"))
	if level == "" && fileConfig.Verbose {
		level = "debug"
	}

	l, closer, err := logging.New(logging.Options{
		Level:  level,
		Dir:    fileConfig.LogDir,
		File:   fileConfig.LogFile,
		Stderr: true,
	})
	if err != nil {
		return err
	}
	logger, logCloser = l, closer
	slog.SetDefault(logger)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
