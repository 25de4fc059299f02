// Package steps defines the analysis pipeline steps and the order they may run in.
package steps

import (
	"fmt"
	"sort"
	"sync"
)

// Step names.
const (
	ExtractCV  = "extract_cv"
	ExtractJob = "extract_job"
	Compare    = "compare"
	Suggest    = "suggest"
	Enhance    = "enhance"
	Render     = "render"
	Persist    = "persist"
)

// Step categories.
const (
	CategoryIngestion   = "ingestion"
	CategoryAnalysis    = "analysis"
	CategoryEnhancement = "enhancement"
	CategoryOutput      = "output"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	Optional     []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	ExtractCV: {
		Name:     ExtractCV,
		Category: CategoryIngestion,
	},
	ExtractJob: {
		Name:     ExtractJob,
		Category: CategoryIngestion,
	},
	Compare: {
		Name:         Compare,
		Category:     CategoryAnalysis,
		Dependencies: []string{ExtractCV, ExtractJob},
	},
	Suggest: {
		Name:         Suggest,
		Category:     CategoryAnalysis,
		Dependencies: []string{Compare},
	},
	Enhance: {
		Name:         Enhance,
		Category:     CategoryEnhancement,
		Dependencies: []string{Compare},
	},
	Render: {
		Name:         Render,
		Category:     CategoryOutput,
		Dependencies: []string{Compare},
		Optional:     []string{Enhance},
	},
	Persist: {
		Name:         Persist,
		Category:     CategoryOutput,
		Dependencies: []string{Compare},
		Optional:     []string{Enhance},
	},
}

// CategoryOf returns the category of a step, or "" for unknown steps.
func CategoryOf(step string) string {
	return StepRegistry[step].Category
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// Tracker records completed steps for one run. It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	completed map[string]bool
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{completed: map[string]bool{}}
}

// Ready returns nil when every required dependency of step has completed.
func (t *Tracker) Ready(step string) error {
	def, ok := StepRegistry[step]
	if !ok {
		return fmt.Errorf("unknown step: %s", step)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var missing []string
	for _, dep := range def.Dependencies {
		if !t.completed[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Step: step, MissingDependencies: missing}
	}
	return nil
}

// Complete marks step as done.
func (t *Tracker) Complete(step string) {
	t.mu.Lock()
	t.completed[step] = true
	t.mu.Unlock()
}

// Completed returns the completed steps in sorted order.
func (t *Tracker) Completed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, 0, len(t.completed))
	for step := range t.completed {
		out = append(out, step)
	}
	sort.Strings(out)
	return out
}

// Available returns the steps whose dependencies are met and which have not
// completed yet, in sorted order.
func (t *Tracker) Available() []string {
	var out []string
	for name := range StepRegistry {
		t.mu.Lock()
		done := t.completed[name]
		t.mu.Unlock()
		if done {
			continue
		}
		if t.Ready(name) == nil {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
