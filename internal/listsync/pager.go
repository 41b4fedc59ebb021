package listsync

import (
	"context"
	"fmt"
)

// Page is one simulated page sliced out of the full backend collection.
type Page[T any] struct {
	Items   []T
	HasMore bool
}

// Cursor tracks pagination progress for one screen. HasMore is the sole
// gate for triggering further fetches.
type Cursor struct {
	Page    int
	Size    int
	HasMore bool
}

// NewCursor returns a cursor positioned at page 1.
func NewCursor(size int) Cursor {
	return Cursor{Page: 1, Size: size, HasMore: true}
}

// Reset rewinds the cursor to page 1. Called whenever the filter state
// changes, forcing a clean refetch.
func (c *Cursor) Reset() {
	c.Page = 1
	c.HasMore = true
}

// Fetcher slices simulated pages out of a backend that returns the entire
// collection on every call. Each "next page" therefore re-downloads the
// whole array and re-slices it, known architectural debt that stands until
// the backend grows real pagination, and callers must not assume otherwise.
type Fetcher[T any] struct {
	source func(context.Context) ([]T, error)
}

// NewFetcher wraps a full-collection source.
func NewFetcher[T any](source func(context.Context) ([]T, error)) *Fetcher[T] {
	return &Fetcher[T]{source: source}
}

// Fetch downloads the collection and returns the slice
// [(page-1)*size, page*size). HasMore is true iff rows remain past the
// slice's end.
func (f *Fetcher[T]) Fetch(ctx context.Context, page, size int) (Page[T], error) {
	if page < 1 {
		return Page[T]{}, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if size < 1 {
		return Page[T]{}, fmt.Errorf("page size must be > 0, got %d", size)
	}

	all, err := f.source(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	start := (page - 1) * size
	end := page * size
	if start >= len(all) {
		return Page[T]{HasMore: false}, nil
	}
	if end > len(all) {
		end = len(all)
	}

	return Page[T]{
		Items:   append([]T(nil), all[start:end]...),
		HasMore: end < len(all),
	}, nil
}
