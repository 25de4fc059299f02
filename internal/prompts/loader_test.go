package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("enhancement.json", "system")
	require.NoError(t, err)
	assert.Equal(t, "You are an expert in professional CV enhancement.", prompt)
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("enhancement.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet("enhancement.json", "rewrite-cv"))
	})
}

func TestFormat(t *testing.T) {
	out := Format("Keywords: {{.Keywords}}; CV: {{.CV}}", map[string]string{
		"Keywords": "go, cloud",
		"CV":       "quotes {{.Keywords}} literally",
	})
	assert.Equal(t, "Keywords: go, cloud; CV: quotes {{.Keywords}} literally", out)
}

func TestFormat_UnknownPlaceholderKept(t *testing.T) {
	assert.Equal(t, "{{.Missing}}", Format("{{.Missing}}", map[string]string{"Other": "x"}))
	assert.Equal(t, "plain", Format("plain", nil))
}

func TestRender_RewritePrompt(t *testing.T) {
	out, err := Render("enhancement.json", "rewrite-cv", map[string]string{
		"Keywords":       "cloud, go",
		"CV":             "Experienced Python developer",
		"JobDescription": "Looking for Go developer",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "integrating the following keywords: cloud, go.")
	assert.Contains(t, out, "Here is the original CV:\nExperienced Python developer\n\n")
	assert.Contains(t, out, "job description for context:\nLooking for Go developer\n\n")
	assert.NotContains(t, out, "{{.")
}

func TestList(t *testing.T) {
	keys, err := List("enhancement.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"rewrite-cv", "rewrite-cv-structured", "system"}, keys)
}
