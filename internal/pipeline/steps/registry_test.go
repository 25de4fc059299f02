package steps

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRegistry(t *testing.T) {
	for name, def := range StepRegistry {
		assert.Equal(t, name, def.Name)
		assert.NotEmpty(t, def.Category)
		for _, dep := range append(def.Dependencies, def.Optional...) {
			_, ok := StepRegistry[dep]
			assert.True(t, ok, "dependency %s of %s should be registered", dep, name)
		}
	}
}

func TestStepRegistryCategories(t *testing.T) {
	categories := map[string][]string{
		CategoryIngestion:   {ExtractCV, ExtractJob},
		CategoryAnalysis:    {Compare, Suggest},
		CategoryEnhancement: {Enhance},
		CategoryOutput:      {Render, Persist},
	}

	for category, stepNames := range categories {
		for _, stepName := range stepNames {
			assert.Equal(t, category, CategoryOf(stepName), "Step %s should be in category %s", stepName, category)
		}
	}
	assert.Equal(t, "", CategoryOf("nope"))
}

func TestTracker_Ready(t *testing.T) {
	tr := NewTracker()

	err := tr.Ready(Compare)
	var depErr *DependencyError
	require.True(t, errors.As(err, &depErr))
	assert.Equal(t, Compare, depErr.Step)
	assert.Equal(t, []string{ExtractCV, ExtractJob}, depErr.MissingDependencies)
	assert.Contains(t, err.Error(), "missing dependencies")

	tr.Complete(ExtractCV)
	tr.Complete(ExtractJob)
	assert.NoError(t, tr.Ready(Compare))

	assert.Error(t, tr.Ready("unknown"))
}

func TestTracker_Available(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, []string{ExtractCV, ExtractJob}, tr.Available())

	tr.Complete(ExtractCV)
	tr.Complete(ExtractJob)
	tr.Complete(Compare)
	assert.Equal(t, []string{Enhance, Persist, Render, Suggest}, tr.Available())
	assert.Equal(t, []string{Compare, ExtractCV, ExtractJob}, tr.Completed())
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for _, step := range []string{ExtractCV, ExtractJob} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Complete(step)
		}()
	}
	wg.Wait()
	assert.NoError(t, tr.Ready(Compare))
}
