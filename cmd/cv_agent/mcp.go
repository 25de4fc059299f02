package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-keyword-matcher/internal/config"
	"github.com/jonathan/cv-keyword-matcher/internal/mcptools"
)

var mcpProvider string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the keyword tools over MCP on stdin/stdout",
	Long:  "Runs a Model Context Protocol server on stdio exposing compare_keywords, extract_keywords and format_suggestions, plus enhance_cv when an LLM API key is available.",
	RunE:  runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpProvider, "provider", "", "LLM provider for enhance_cv: gemini, anthropic or openai")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := resolve(config.Config{Provider: mcpProvider})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	enhancer, closeEnhancer := optionalEnhancer(ctx, cfg)
	defer closeEnhancer()

	return mcptools.Run(ctx, mcptools.NewServer(version, enhancer, logger))
}
