package listsync

import "sync"

// SwipeState is the reveal state of one row's action affordance.
type SwipeState int

// Swipe states.
const (
	// SwipeClosed shows the plain row.
	SwipeClosed SwipeState = iota
	// SwipeRevealed shows the row's destructive actions awaiting either a
	// trigger or a dismissal.
	SwipeRevealed
)

// SwipeRegistry is the finite state machine for swipe-to-reveal gestures.
// It knows nothing about mutations; the coordinator closes rows through its
// OnClose hook and nothing else. At most one row is revealed at a time:
// opening a row closes any other, matching the gesture behavior users
// expect from swipeable lists.
type SwipeRegistry struct {
	open string
	mu   sync.Mutex
}

// NewSwipeRegistry returns a registry with every row closed.
func NewSwipeRegistry() *SwipeRegistry {
	return &SwipeRegistry{}
}

// Open reveals the actions for key, closing any previously revealed row.
func (r *SwipeRegistry) Open(key string) {
	if key == "" {
		return
	}
	r.mu.Lock()
	r.open = key
	r.mu.Unlock()
}

// Close dismisses the affordance for key if it is the revealed one.
func (r *SwipeRegistry) Close(key string) {
	r.mu.Lock()
	if r.open == key {
		r.open = ""
	}
	r.mu.Unlock()
}

// CloseAll dismisses whatever is revealed.
func (r *SwipeRegistry) CloseAll() {
	r.mu.Lock()
	r.open = ""
	r.mu.Unlock()
}

// State returns the reveal state for key.
func (r *SwipeRegistry) State(key string) SwipeState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open == key && key != "" {
		return SwipeRevealed
	}
	return SwipeClosed
}

// Revealed returns the currently revealed key, if any.
func (r *SwipeRegistry) Revealed() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open, r.open != ""
}
