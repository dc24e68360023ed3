package widget

import (
	"sync"

	"github.com/omnivault/deposit-widget/internal/sdk"
)

// stepTracker holds the run's progress checklist: the steps enumerated at
// launch, marked complete as the provider reports them.
type stepTracker struct {
	mu    sync.Mutex
	steps []sdk.Step
}

// Seed replaces the checklist with a fresh, uncompleted copy of steps.
func (t *stepTracker) Seed(steps []sdk.StepType) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = make([]sdk.Step, len(steps))
	for i, s := range steps {
		t.steps[i] = sdk.Step{Type: s, TypeID: string(s)}
	}
}

// Replace installs the provider's own enumeration, keeping completion flags
// as given.
func (t *stepTracker) Replace(steps []sdk.Step) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append([]sdk.Step(nil), steps...)
}

// MarkComplete flags the first matching step as done. Unknown step types
// are ignored.
func (t *stepTracker) MarkComplete(typ sdk.StepType) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.steps {
		if t.steps[i].Type == typ && !t.steps[i].Completed {
			t.steps[i].Completed = true
			return
		}
	}
}

func (t *stepTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = nil
}

// List returns a copy of the checklist.
func (t *stepTracker) List() []sdk.Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]sdk.Step(nil), t.steps...)
}
