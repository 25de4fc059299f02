package enhancement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-keyword-matcher/internal/keywords"
	"github.com/jonathan/cv-keyword-matcher/internal/llm"
	"github.com/jonathan/cv-keyword-matcher/internal/logging"
)

// mockLLMClient is a mock implementation of llm.Client for testing
type mockLLMClient struct {
	generateFunc func(ctx context.Context, req llm.Request) (string, error)
	calls        []llm.Request
	closeErr     error
}

func (m *mockLLMClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	m.calls = append(m.calls, req)
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return "", errors.New("not implemented")
}

func (m *mockLLMClient) GetModel(llm.ModelTier) string { return "mock-model" }

func (m *mockLLMClient) Close() error { return m.closeErr }

func TestRewrite_SendsPrompt(t *testing.T) {
	mock := &mockLLMClient{generateFunc: func(_ context.Context, _ llm.Request) (string, error) {
		return "## Cloud\n- Deployed Go services", nil
	}}
	e := New(mock, WithLogger(logging.Discard()))

	missing := keywords.NewKeywordSet("go", "cloud")
	out, err := e.Rewrite(context.Background(), "Experienced Python developer", missing, "Looking for Go developer")
	require.NoError(t, err)
	assert.Equal(t, "## Cloud\n- Deployed Go services", out)

	require.Len(t, mock.calls, 1)
	req := mock.calls[0]
	assert.Equal(t, "You are an expert in professional CV enhancement.", req.System)
	assert.Equal(t, llm.TierAdvanced, req.Tier)
	assert.Equal(t, 1000, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Contains(t, req.Prompt, "integrating the following keywords: cloud, go.")
	assert.Contains(t, req.Prompt, "Experienced Python developer")
	assert.Contains(t, req.Prompt, "Looking for Go developer")
	assert.Contains(t, req.Prompt, "Rewrite or add new sections to the CV")
}

func TestRewrite_EmptyMissingSkipsModel(t *testing.T) {
	mock := &mockLLMClient{}
	e := New(mock, WithLogger(logging.Discard()))

	out, err := e.Rewrite(context.Background(), "My CV", keywords.KeywordSet{}, "job")
	require.NoError(t, err)
	assert.Equal(t, "My CV", out)
	assert.Empty(t, mock.calls)
}

func TestRewrite_ProviderFailure(t *testing.T) {
	cause := errors.New("rate limited")
	mock := &mockLLMClient{generateFunc: func(context.Context, llm.Request) (string, error) {
		return "", cause
	}}
	e := New(mock, WithProvider("openai"), WithLogger(logging.Discard()))

	_, err := e.Rewrite(context.Background(), "cv", keywords.NewKeywordSet("go"), "job")
	require.Error(t, err)

	var svcErr *EnhancementServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "openai", svcErr.Provider)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "error interacting with the LLM")
}

func TestRewrite_EmptyResponse(t *testing.T) {
	mock := &mockLLMClient{generateFunc: func(context.Context, llm.Request) (string, error) {
		return "  \n ", nil
	}}
	e := New(mock, WithLogger(logging.Discard()))

	_, err := e.Rewrite(context.Background(), "cv", keywords.NewKeywordSet("go"), "job")
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestRewrite_StripsFence(t *testing.T) {
	mock := &mockLLMClient{generateFunc: func(context.Context, llm.Request) (string, error) {
		return "```markdown\n## Skills\n- Go\n```", nil
	}}
	e := New(mock, WithLogger(logging.Discard()))

	out, err := e.Rewrite(context.Background(), "cv", keywords.NewKeywordSet("go"), "job")
	require.NoError(t, err)
	assert.Equal(t, "## Skills\n- Go", out)
}

func TestRewrite_Options(t *testing.T) {
	mock := &mockLLMClient{generateFunc: func(context.Context, llm.Request) (string, error) {
		return "ok", nil
	}}
	e := New(mock,
		WithTier(llm.TierStandard),
		WithMaxTokens(500),
		WithTemperature(0.2),
		WithStructuredOutput(),
		WithLogger(logging.Discard()))

	_, err := e.Rewrite(context.Background(), "cv", keywords.NewKeywordSet("go"), "job")
	require.NoError(t, err)

	req := mock.calls[0]
	assert.Equal(t, llm.TierStandard, req.Tier)
	assert.Equal(t, 500, req.MaxTokens)
	assert.InDelta(t, 0.2, req.Temperature, 1e-9)
	assert.Contains(t, req.Prompt, "do not invent employers")
}

func TestRewrite_CanceledContext(t *testing.T) {
	mock := &mockLLMClient{generateFunc: func(ctx context.Context, _ llm.Request) (string, error) {
		return "", ctx.Err()
	}}
	e := New(mock, WithLogger(logging.Discard()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Rewrite(ctx, "cv", keywords.NewKeywordSet("go"), "job")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFromConfig_MissingKey(t *testing.T) {
	_, err := NewFromConfig(context.Background(), llm.DefaultOpenAIConfig(), "", llm.DefaultGuardConfig())
	require.Error(t, err)

	var svcErr *EnhancementServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "openai", svcErr.Provider)
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestNewFromConfig_OpenAI(t *testing.T) {
	e, err := NewFromConfig(context.Background(), llm.DefaultOpenAIConfig(), "key", llm.DefaultGuardConfig())
	require.NoError(t, err)
	assert.Equal(t, "openai", e.provider)
	assert.NoError(t, e.Close())
}

func TestClose_PropagatesError(t *testing.T) {
	e := New(&mockLLMClient{closeErr: errors.New("boom")})
	assert.Error(t, e.Close())
}

func TestGenerateFinalCV(t *testing.T) {
	assert.Equal(t,
		"Original CV\n\n### Enhanced Sections ###\nNew section",
		GenerateFinalCV("Original CV", "New section"))
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt("cv", keywords.NewKeywordSet("looking", "cloud"), "job", false)
	require.NoError(t, err)
	assert.Contains(t, prompt, "keywords: cloud, looking.")
	assert.NotContains(t, prompt, "do not invent")
}
