package listsync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/faisalkp/mahaldesk/internal/common"
)

// DefaultPageSize is the simulated page size used when none is configured.
const DefaultPageSize = 20

// Controller composes the store, fetcher, filter pipeline, and mutation
// coordinator into the contract a list screen consumes: visible rows plus
// loading/loadingMore/hasMore flags, end-reached and search/filter entry
// points, and mutation dispatch.
//
// All state transitions serialize under one mutex; fetches run on whatever
// goroutine calls Load/LoadMore and re-enter through epoch-checked store
// writes, so a stale response can never clobber newer rows.
type Controller[T any] struct {
	store    *Store[T]
	fetcher  *Fetcher[T]
	pipeline *Pipeline[T]
	coord    *Coordinator[T]
	enrich   func([]T) []T
	// onRefetch is invoked when a debounced filter change requires a clean
	// page-1 refetch. Screens route this back into their event loop; when
	// unset the controller refetches on the timer goroutine.
	onRefetch func()
	lastErr     error
	cursor      Cursor
	pageSize    int
	debounce    time.Duration
	loading     bool
	loadingMore bool
	mu          sync.Mutex
}

// ControllerOption configures a Controller.
type ControllerOption[T any] func(*Controller[T])

// WithPageSize sets the simulated page size.
func WithPageSize[T any](size int) ControllerOption[T] {
	return func(c *Controller[T]) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithDebounce overrides the filter debounce window (tests shrink it).
func WithDebounce[T any](wait time.Duration) ControllerOption[T] {
	return func(c *Controller[T]) { c.debounce = wait }
}

// WithEnrich installs the status-derivation hook run over the store
// snapshot before filtering. It must return annotated copies.
func WithEnrich[T any](fn func([]T) []T) ControllerOption[T] {
	return func(c *Controller[T]) { c.enrich = fn }
}

// WithRefetchHook routes debounce-triggered refetches to the screen's own
// event loop instead of the timer goroutine.
func WithRefetchHook[T any](fn func()) ControllerOption[T] {
	return func(c *Controller[T]) { c.onRefetch = fn }
}

// SetRefetchHook installs the refetch hook after construction; screens bind
// it once their event loop exists.
func (c *Controller[T]) SetRefetchHook(fn func()) {
	c.mu.Lock()
	c.onRefetch = fn
	c.mu.Unlock()
}

// NewController wires a controller around a full-collection source.
func NewController[T any](traits Traits[T], source func(context.Context) ([]T, error), opts ...ControllerOption[T]) *Controller[T] {
	c := &Controller[T]{
		store:    NewStore(traits.Key),
		fetcher:  NewFetcher(source),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cursor = NewCursor(c.pageSize)
	c.coord = NewCoordinator(c.store)
	c.pipeline = NewPipeline(traits, c.debounce, c.filterQuiesced)
	return c
}

// Store exposes the underlying list store (subscriptions, tests).
func (c *Controller[T]) Store() *Store[T] { return c.store }

// Coordinator exposes the mutation coordinator for hook registration.
func (c *Controller[T]) Coordinator() *Coordinator[T] { return c.coord }

// Load performs the page-1 fetch: screen mount, manual refresh, and the
// refetch after a filter change all come through here. Previously loaded
// rows are cleared first, and the epoch bump invalidates any fetch still in
// flight.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.cursor.Reset()
	size := c.cursor.Size
	c.mu.Unlock()

	epoch := c.store.Reset()
	page, err := c.fetcher.Fetch(ctx, 1, size)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		// Initial-load failures are the screen's full-page error state.
		if epoch == c.store.Epoch() {
			c.lastErr = err
		}
		return err
	}
	if !c.store.Replace(epoch, page.Items) {
		return nil // a newer load superseded us
	}
	c.cursor.HasMore = page.HasMore
	c.lastErr = nil
	return nil
}

// LoadMore fetches the next simulated page. It is a no-op while another
// fetch is in flight or when the collection is exhausted; the in-flight
// flag is set before any suspension point so rapid scroll events cannot
// start duplicate loads.
func (c *Controller[T]) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || c.loadingMore || !c.cursor.HasMore {
		c.mu.Unlock()
		return nil
	}
	c.loadingMore = true
	next := c.cursor.Page + 1
	size := c.cursor.Size
	c.mu.Unlock()

	epoch := c.store.Epoch()
	page, err := c.fetcher.Fetch(ctx, next, size)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadingMore = false

	if err != nil {
		// Loaded rows stay visible and hasMore keeps its prior value, so
		// the next scroll trigger retries naturally.
		return err
	}
	if !c.store.Append(epoch, page.Items) {
		return nil // a filter reset raced this fetch; result discarded
	}
	c.cursor.Page = next
	c.cursor.HasMore = page.HasMore
	return nil
}

// Search schedules a debounced search-term change.
func (c *Controller[T]) Search(term string) {
	c.pipeline.ScheduleSearch(term)
}

// SelectFilter schedules a debounced category change.
func (c *Controller[T]) SelectFilter(category string) {
	c.pipeline.ScheduleCategory(category)
}

// filterQuiesced runs once the filter state has been stable for the
// debounce window: rewind to page 1 and refetch.
func (c *Controller[T]) filterQuiesced(state FilterState) {
	common.LogDebug("filter quiesced", common.Fields{
		"search":   state.Search,
		"category": state.Category,
	})
	c.mu.Lock()
	hook := c.onRefetch
	c.mu.Unlock()
	if hook != nil {
		hook()
		return
	}
	if err := c.Load(context.Background()); err != nil {
		slog.Warn("filter refetch failed", "error", err)
	}
}

// Mutate dispatches an optimistic mutation.
func (c *Controller[T]) Mutate(ctx context.Context, intent Intent[T]) error {
	return c.coord.Mutate(ctx, intent)
}

// Visible returns the rows the screen should render: the store snapshot,
// status-enriched, narrowed by the current filter state. Derived values are
// recomputed on every call, never cached across store mutations.
func (c *Controller[T]) Visible() []T {
	items := c.store.Items()
	if c.enrich != nil {
		items = c.enrich(items)
	}
	return c.pipeline.Apply(items)
}

// Filter returns the current filter state.
func (c *Controller[T]) Filter() FilterState {
	return c.pipeline.State()
}

// Loading reports whether a page-1 fetch is in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LoadingMore reports whether a next-page fetch is in flight.
func (c *Controller[T]) LoadingMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingMore
}

// HasMore reports whether further pages remain.
func (c *Controller[T]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.HasMore
}

// Err returns the error from the last failed initial load, cleared by the
// next successful one. Screens render it as the full-page error state.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
