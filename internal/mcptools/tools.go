// Package mcptools exposes keyword comparison and CV enhancement as Model
// Context Protocol tools.
package mcptools

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonathan/cv-keyword-matcher/internal/enhancement"
	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
	"github.com/jonathan/cv-keyword-matcher/internal/pipeline"
)

// ServerName identifies this server to MCP clients.
const ServerName = "cv-keyword-matcher"

// CompareInput is the input of compare_keywords and enhance_cv.
type CompareInput struct {
	CV             string `json:"cv" jsonschema:"Plain text of the CV"`
	JobDescription string `json:"job_description" jsonschema:"Plain text of the job description"`
	TopN           int    `json:"top_n,omitempty" jsonschema:"Number of keywords to extract from each document (default 20)"`
}

// CompareOutput mirrors keywords.Report with plain string lists.
type CompareOutput struct {
	CVKeywords      []string `json:"cv_keywords"`
	JobKeywords     []string `json:"job_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
	MatchedKeywords []string `json:"matched_keywords"`
	Coverage        float64  `json:"coverage"`
	TopN            int      `json:"top_n"`
	Suggestions     string   `json:"suggestions"`
}

// ExtractInput is the input of extract_keywords.
type ExtractInput struct {
	Text string `json:"text" jsonschema:"Text to extract keywords from"`
	TopN int    `json:"top_n,omitempty" jsonschema:"Maximum number of keywords (default 20)"`
}

// ExtractOutput lists ranked keywords, highest weight first.
type ExtractOutput struct {
	Keywords []keywords.WeightedTerm `json:"keywords"`
}

// SuggestInput is the input of format_suggestions.
type SuggestInput struct {
	Missing []string `json:"missing" jsonschema:"Keywords missing from the CV"`
}

// SuggestOutput holds the formatted suggestion text.
type SuggestOutput struct {
	Suggestions string `json:"suggestions"`
}

// EnhanceOutput is the result of enhance_cv.
type EnhanceOutput struct {
	Comparison CompareOutput `json:"comparison"`
	EnhancedCV string        `json:"enhanced_cv"`
	Enhanced   bool          `json:"enhanced"`
}

// NewServer builds an MCP server with the keyword tools registered. The
// enhance_cv tool is only registered when enhancer is non-nil.
func NewServer(version string, enhancer pipeline.Enhancer, logger *slog.Logger) *mcp.Server {
	if logger == nil {
		logger = slog.Default()
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}, nil)

	registerCompare(server)
	registerExtract(server)
	registerSuggest(server)
	if enhancer != nil {
		registerEnhance(server, enhancer, logger)
	}
	return server
}

// Run serves the tools over stdin/stdout until ctx is done or the client
// disconnects.
func Run(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerCompare(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_keywords",
		Description: "Extract the top keywords from a CV and a job description and report which job keywords the CV is missing, with coverage and suggestions.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input CompareInput) (*mcp.CallToolResult, CompareOutput, error) {
		if err := checkCompareInput(input); err != nil {
			return nil, CompareOutput{}, err
		}
		return nil, compare(input), nil
	})
}

func registerExtract(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_keywords",
		Description: "Rank the most relevant keywords of a text by weight.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input ExtractInput) (*mcp.CallToolResult, ExtractOutput, error) {
		if input.TopN < 0 {
			return nil, ExtractOutput{}, errors.New("top_n must not be negative")
		}
		ranked := keywords.NewExtractor(input.TopN).Rank(input.Text)
		if ranked == nil {
			ranked = []keywords.WeightedTerm{}
		}
		return nil, ExtractOutput{Keywords: ranked}, nil
	})
}

func registerSuggest(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "format_suggestions",
		Description: "Format missing keywords as a suggestion list for the CV author.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input SuggestInput) (*mcp.CallToolResult, SuggestOutput, error) {
		missing := keywords.NewKeywordSet(input.Missing...)
		return nil, SuggestOutput{Suggestions: keywords.FormatSuggestions(missing)}, nil
	})
}

func registerEnhance(server *mcp.Server, enhancer pipeline.Enhancer, logger *slog.Logger) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "enhance_cv",
		Description: "Rewrite a CV with an LLM so that it naturally covers the keywords of a job description it is missing. Returns the CV followed by the enhanced sections.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CompareInput) (*mcp.CallToolResult, EnhanceOutput, error) {
		if err := checkCompareInput(input); err != nil {
			return nil, EnhanceOutput{}, err
		}
		result := keywords.Compare(input.CV, input.JobDescription, topN(input.TopN))
		out := EnhanceOutput{Comparison: fromResult(result), EnhancedCV: input.CV}
		if result.MissingKeywords.IsEmpty() {
			return nil, out, nil
		}

		enhanced, err := enhancer.Rewrite(ctx, input.CV, result.MissingKeywords, input.JobDescription)
		if err != nil {
			logger.Warn("enhance_cv failed", "error", err)
			return nil, EnhanceOutput{}, err
		}
		out.EnhancedCV = enhancement.GenerateFinalCV(input.CV, enhanced)
		out.Enhanced = true
		return nil, out, nil
	})
}

func checkCompareInput(input CompareInput) error {
	if input.TopN < 0 {
		return errors.New("top_n must not be negative")
	}
	return nil
}

func topN(n int) int {
	if n > 0 {
		return n
	}
	return keywords.DefaultTopN
}

func compare(input CompareInput) CompareOutput {
	return fromResult(keywords.Compare(input.CV, input.JobDescription, topN(input.TopN)))
}

func fromResult(r keywords.ComparisonResult) CompareOutput {
	report := r.Report()
	return CompareOutput{
		CVKeywords:      terms(report.CVKeywords),
		JobKeywords:     terms(report.JobKeywords),
		MissingKeywords: terms(report.MissingKeywords),
		MatchedKeywords: terms(report.MatchedKeywords),
		Coverage:        report.Coverage,
		TopN:            report.TopN,
		Suggestions:     report.Suggestions,
	}
}

// terms never returns nil so empty sets encode as [].
func terms(s keywords.KeywordSet) []string {
	if s.IsEmpty() {
		return []string{}
	}
	return s.Terms()
}
