package listsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Mutation errors.
var (
	// ErrMutationPending rejects a second mutation for a key whose first
	// has not resolved. Callers must surface this and let the user retry;
	// silently dropping the gesture would leave the UI lying.
	ErrMutationPending = errors.New("mutation already pending for this item")
	// ErrUnknownItem means the key is not present in the store.
	ErrUnknownItem = errors.New("item not found in list")
)

// MutationKind is the kind of optimistic mutation.
type MutationKind int

// Mutation kinds.
const (
	KindToggle MutationKind = iota
	KindDelete
)

func (k MutationKind) String() string {
	switch k {
	case KindToggle:
		return "toggle"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Intent is one user-initiated mutation: the row it targets, the optimistic
// transform (toggles only), and the backend call that makes it durable.
type Intent[T any] struct {
	Toggle func(T) T
	Call   func(context.Context) error
	Key    string
	Kind   MutationKind
}

// Coordinator executes mutations optimistically: the store reflects the
// change before the backend confirms it, and a failure restores the exact
// prior state. Per key the lifecycle is Idle -> Pending -> Committed or
// RolledBack; only one Pending per key is allowed.
type Coordinator[T any] struct {
	store     *Store[T]
	pending   map[string]struct{}
	onClose   func(key string)
	onFailure func(key string, kind MutationKind, err error)
	mu        sync.Mutex
}

// NewCoordinator creates a coordinator writing through to store.
func NewCoordinator[T any](store *Store[T]) *Coordinator[T] {
	return &Coordinator[T]{
		store:   store,
		pending: make(map[string]struct{}),
	}
}

// OnClose registers the hook that closes an open row-action affordance the
// moment its mutation is applied optimistically. This is the only coupling
// between gesture state and the coordinator.
func (c *Coordinator[T]) OnClose(fn func(key string)) {
	c.mu.Lock()
	c.onClose = fn
	c.mu.Unlock()
}

// OnFailure registers the hook that surfaces a rolled-back mutation to the
// user (a toast naming the failed action).
func (c *Coordinator[T]) OnFailure(fn func(key string, kind MutationKind, err error)) {
	c.mu.Lock()
	c.onFailure = fn
	c.mu.Unlock()
}

// Pending reports whether a mutation for key is in flight.
func (c *Coordinator[T]) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[key]
	return ok
}

// Mutate runs one intent to completion. It blocks for the backend call, so
// interactive callers run it off the UI loop. On failure the store is
// restored to its exact prior state, with a deleted row back at its
// original index, and the key becomes Idle again, accepting a fresh attempt.
func (c *Coordinator[T]) Mutate(ctx context.Context, intent Intent[T]) error {
	c.mu.Lock()
	if _, busy := c.pending[intent.Key]; busy {
		c.mu.Unlock()
		return ErrMutationPending
	}
	c.pending[intent.Key] = struct{}{}
	onClose := c.onClose
	onFailure := c.onFailure
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, intent.Key)
		c.mu.Unlock()
	}()

	prev, index, ok := c.store.Get(intent.Key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, intent.Key)
	}

	// Optimistic apply: the UI reflects the change with zero latency.
	switch intent.Kind {
	case KindDelete:
		c.store.Remove(intent.Key)
	case KindToggle:
		if intent.Toggle == nil {
			return fmt.Errorf("toggle intent for %s has no transform", intent.Key)
		}
		c.store.Patch(intent.Key, intent.Toggle)
	}

	if onClose != nil {
		onClose(intent.Key)
	}

	err := intent.Call(ctx)
	if err == nil {
		// Committed: the optimistic value is now authoritative.
		return nil
	}

	// RolledBack: restore the captured state.
	switch intent.Kind {
	case KindDelete:
		c.store.InsertAt(index, prev)
	case KindToggle:
		c.store.Patch(intent.Key, func(T) T { return prev })
	}

	slog.Warn("mutation rolled back",
		"key", intent.Key,
		"kind", intent.Kind.String(),
		"error", err)

	if onFailure != nil {
		onFailure(intent.Key, intent.Kind, err)
	}
	return err
}
