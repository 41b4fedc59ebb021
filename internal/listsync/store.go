// Package listsync implements the incremental list synchronization engine
// behind every paginated, searchable list screen: simulated pagination over
// unpaginated backend arrays, debounced filtering, derived payment status,
// and optimistic mutation with rollback.
package listsync

import "sync"

// Store is the single source of truth for the rows a list screen has
// fetched so far. It is an owned, injectable object, never package state,
// so multiple screens and tests cannot share rows accidentally.
//
// Every write that originates from a fetch is tagged with the epoch that was
// current when the fetch started. Reset bumps the epoch, so a stale response
// arriving after a filter change is dropped without touching the rows.
type Store[T any] struct {
	key   func(T) string
	subs  map[int]func()
	items []T
	nextSub int
	epoch uint64
	mu    sync.Mutex
}

// NewStore creates an empty store keyed by the given function.
func NewStore[T any](key func(T) string) *Store[T] {
	return &Store[T]{
		key:  key,
		subs: make(map[int]func()),
	}
}

// Subscribe registers a change callback and returns its cancel function.
// Callbacks run after the store mutex is released.
func (s *Store[T]) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store[T]) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Epoch returns the current fetch epoch.
func (s *Store[T]) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Reset clears all rows and advances the epoch, invalidating every fetch
// that is still in flight. It returns the new epoch for tagging the next
// fetch.
func (s *Store[T]) Reset() uint64 {
	s.mu.Lock()
	s.items = nil
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	s.notify()
	return epoch
}

// Replace swaps in a fresh page-1 result. It reports whether the write was
// applied; a stale epoch leaves the store untouched.
func (s *Store[T]) Replace(epoch uint64, items []T) bool {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return false
	}
	s.items = append([]T(nil), items...)
	s.mu.Unlock()

	s.notify()
	return true
}

// Append adds a subsequent page, skipping rows whose key is already present
// so rapid scroll events cannot introduce duplicates.
func (s *Store[T]) Append(epoch uint64, items []T) bool {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return false
	}

	seen := make(map[string]struct{}, len(s.items))
	for _, it := range s.items {
		seen[s.key(it)] = struct{}{}
	}
	for _, it := range items {
		if _, dup := seen[s.key(it)]; dup {
			continue
		}
		seen[s.key(it)] = struct{}{}
		s.items = append(s.items, it)
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// Items returns a copy of the current rows in fetch order.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

// Len returns the number of rows currently held.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns the row with the given key and its position.
func (s *Store[T]) Get(key string) (T, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if s.key(it) == key {
			return it, i, true
		}
	}
	var zero T
	return zero, -1, false
}

// Patch replaces the row with the given key by fn's result. It reports
// whether the key was found.
func (s *Store[T]) Patch(key string, fn func(T) T) bool {
	s.mu.Lock()
	patched := false
	for i, it := range s.items {
		if s.key(it) == key {
			s.items[i] = fn(it)
			patched = true
			break
		}
	}
	s.mu.Unlock()

	if patched {
		s.notify()
	}
	return patched
}

// Remove deletes the row with the given key, returning the removed row and
// the index it occupied so a failed delete can be rolled back in place.
func (s *Store[T]) Remove(key string) (T, int, bool) {
	s.mu.Lock()
	for i, it := range s.items {
		if s.key(it) == key {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.mu.Unlock()
			s.notify()
			return it, i, true
		}
	}
	s.mu.Unlock()

	var zero T
	return zero, -1, false
}

// InsertAt restores a row at a specific position. An index beyond the
// current length appends; list stability during rollback depends on the
// original index being honored when it is still valid.
func (s *Store[T]) InsertAt(index int, item T) {
	s.mu.Lock()
	if index < 0 {
		index = 0
	}
	if index > len(s.items) {
		index = len(s.items)
	}
	s.items = append(s.items, item)
	copy(s.items[index+1:], s.items[index:])
	s.items[index] = item
	s.mu.Unlock()

	s.notify()
}
