package catalog

import (
	"slices"
	"sync"
	"time"
)

// TransitionWindow is how long a listing change is displayed as transitioning.
const TransitionWindow = 400 * time.Millisecond

// Tick asks the owner to call Expire(Gen) once After has elapsed.
type Tick struct {
	Gen   uint64
	After time.Duration
}

// Transition tracks whether the visible listing changed recently. The first
// observed listing never counts as a change. A change observed while a window
// is open restarts the window; expiries from older generations are ignored.
type Transition struct {
	mu            sync.Mutex
	window        time.Duration
	observed      bool
	last          []string
	gen           uint64
	transitioning bool
}

// NewTransition returns a tracker with the given window; zero means
// TransitionWindow.
func NewTransition(window time.Duration) *Transition {
	if window <= 0 {
		window = TransitionWindow
	}
	return &Transition{window: window}
}

// Observe records the listing ids. When they differ from the previous
// observation the tracker enters the transitioning state and returns the tick
// that ends it.
func (t *Transition) Observe(ids []string) (Tick, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.observed {
		t.observed = true
		t.last = slices.Clone(ids)
		return Tick{}, false
	}
	if slices.Equal(t.last, ids) {
		return Tick{}, false
	}
	t.last = slices.Clone(ids)
	t.gen++
	t.transitioning = true
	return Tick{Gen: t.gen, After: t.window}, true
}

// Expire returns to the steady state if gen is still the latest change.
func (t *Transition) Expire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen == t.gen {
		t.transitioning = false
	}
}

// Transitioning reports whether a change is being displayed.
func (t *Transition) Transitioning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transitioning
}
