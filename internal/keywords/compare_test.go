package keywords

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_PythonGoScenario(t *testing.T) {
	result := Compare("Experienced Python developer",
		"Looking for Python and Go developer with cloud experience", 10)

	assert.Equal(t, []string{"developer", "experienced", "python"}, result.CVKeywords.Terms())
	assert.Equal(t, []string{"cloud", "developer", "experience", "go", "looking", "python"}, result.JobKeywords.Terms())
	assert.Equal(t, []string{"cloud", "experience", "go", "looking"}, result.MissingKeywords.Terms())
	assert.Equal(t, []string{"developer", "python"}, result.Matched().Terms())
	assert.InDelta(t, 2.0/6.0, result.Coverage(), 1e-9)
	assert.Equal(t, 10, result.TopN)
}

func TestCompare_IdenticalTexts(t *testing.T) {
	text := "Kubernetes operator development in Go with Postgres"
	result := Compare(text, text, 20)

	assert.True(t, result.MissingKeywords.IsEmpty())
	assert.True(t, result.CVKeywords.Equal(result.JobKeywords))
	assert.Equal(t, 1.0, result.Coverage())
	assert.Equal(t, alignedMessage, result.Suggestions())
}

func TestCompare_EmptyJob(t *testing.T) {
	result := Compare("Seasoned Rust engineer", "", 20)

	assert.True(t, result.JobKeywords.IsEmpty())
	assert.True(t, result.MissingKeywords.IsEmpty())
	assert.Equal(t, 1.0, result.Coverage())
}

func TestCompare_EmptyCV(t *testing.T) {
	result := Compare("", "Terraform AWS networking", 20)

	assert.True(t, result.CVKeywords.IsEmpty())
	assert.True(t, result.MissingKeywords.Equal(result.JobKeywords))
	assert.Equal(t, 0.0, result.Coverage())
}

func TestCompare_MissingIsSubsetOfJob(t *testing.T) {
	result := Compare(
		"Backend engineer: Java, Spring, Kafka, microservices, AWS.",
		"Backend engineer wanted: Go, Kafka, gRPC, Kubernetes, AWS, observability.",
		5,
	)

	assert.True(t, result.MissingKeywords.SubsetOf(result.JobKeywords))
	for _, kw := range result.MissingKeywords.Terms() {
		assert.False(t, result.CVKeywords.Contains(kw))
	}
	assert.LessOrEqual(t, result.CVKeywords.Len(), 5)
	assert.LessOrEqual(t, result.JobKeywords.Len(), 5)
}

func TestCompare_DefaultTopN(t *testing.T) {
	assert.Equal(t, DefaultTopN, Compare("a1", "b2", 0).TopN)
}

func TestComparisonResult_Report(t *testing.T) {
	result := Compare("Python developer", "Python and Go developer", 10)
	report := result.Report()

	assert.Equal(t, []string{"go"}, report.MissingKeywords.Terms())
	assert.Equal(t, []string{"developer", "python"}, report.MatchedKeywords.Terms())
	assert.Equal(t, "Consider incorporating the following keywords into your CV:\n- go\n", report.Suggestions)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{"go"}, decoded["missing_keywords"])
	assert.Equal(t, float64(10), decoded["top_n"])
	assert.InDelta(t, 2.0/3.0, decoded["coverage"], 1e-9)
}
