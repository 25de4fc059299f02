package keywords

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeywordSet_SortsAndDedups(t *testing.T) {
	set := NewKeywordSet("go", "", "aws", "go", "cloud")
	assert.Equal(t, []string{"aws", "cloud", "go"}, set.Terms())
	assert.Equal(t, 3, set.Len())
}

func TestKeywordSet_ZeroValue(t *testing.T) {
	var set KeywordSet
	assert.True(t, set.IsEmpty())
	assert.False(t, set.Contains("go"))
	assert.Empty(t, set.Terms())
	assert.Equal(t, "", set.String())
}

func TestKeywordSet_TermsReturnsCopy(t *testing.T) {
	set := NewKeywordSet("a1", "b2")
	terms := set.Terms()
	terms[0] = "mutated"
	assert.Equal(t, []string{"a1", "b2"}, set.Terms())
}

func TestKeywordSet_Operations(t *testing.T) {
	job := NewKeywordSet("cloud", "developer", "go", "python")
	cv := NewKeywordSet("developer", "python", "django")

	assert.Equal(t, []string{"cloud", "go"}, job.Difference(cv).Terms())
	assert.Equal(t, []string{"developer", "python"}, job.Intersect(cv).Terms())
	assert.True(t, job.Intersect(cv).SubsetOf(cv))
	assert.False(t, job.SubsetOf(cv))
	assert.True(t, job.Difference(job).IsEmpty())
	assert.Equal(t, "cloud, developer, go, python", job.String())
}

func TestKeywordSet_JSON(t *testing.T) {
	data, err := json.Marshal(KeywordSet{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	data, err = json.Marshal(NewKeywordSet("go", "aws"))
	require.NoError(t, err)
	assert.JSONEq(t, `["aws","go"]`, string(data))

	var decoded KeywordSet
	require.NoError(t, json.Unmarshal([]byte(`["python","go","go"]`), &decoded))
	assert.Equal(t, []string{"go", "python"}, decoded.Terms())

	assert.Error(t, json.Unmarshal([]byte(`{"not":"array"}`), &decoded))
}
