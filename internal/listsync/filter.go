package listsync

import (
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is the quiescence window before a filter change triggers
// a refetch. A keystroke inside the window restarts the timer, so typing
// never produces one request per key.
const DefaultDebounce = 500 * time.Millisecond

// CategoryAll selects every category.
const CategoryAll = "all"

// FilterState is the current search term and category selection.
type FilterState struct {
	Search   string
	Category string
}

// Active reports whether the state narrows the list at all.
func (s FilterState) Active() bool {
	return strings.TrimSpace(s.Search) != "" || (s.Category != "" && s.Category != CategoryAll)
}

// Pipeline owns the filter state for one screen. Schedule* methods debounce;
// Apply is pure and can be called from anywhere with any snapshot.
type Pipeline[T any] struct {
	timer     *time.Timer
	onQuiesce func(FilterState)
	traits    Traits[T]
	state     FilterState
	wait      time.Duration
	gen       uint64
	mu        sync.Mutex
}

// NewPipeline creates a pipeline. onQuiesce runs once per quiescence window
// with the final state; wait <= 0 selects DefaultDebounce.
func NewPipeline[T any](traits Traits[T], wait time.Duration, onQuiesce func(FilterState)) *Pipeline[T] {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Pipeline[T]{
		traits:    traits,
		wait:      wait,
		state:     FilterState{Category: CategoryAll},
		onQuiesce: onQuiesce,
	}
}

// State returns the current filter state.
func (p *Pipeline[T]) State() FilterState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ScheduleSearch stores a new search term and restarts the debounce timer.
func (p *Pipeline[T]) ScheduleSearch(term string) {
	p.mu.Lock()
	next := p.state
	next.Search = term
	p.scheduleLocked(next)
	p.mu.Unlock()
}

// ScheduleCategory stores a new category selection and restarts the
// debounce timer.
func (p *Pipeline[T]) ScheduleCategory(category string) {
	p.mu.Lock()
	next := p.state
	next.Category = category
	p.scheduleLocked(next)
	p.mu.Unlock()
}

// scheduleLocked cancels any pending timer before arming a new one, so no
// two refetch cycles can be in flight with overlapping intent. The
// generation bump also neutralizes a timer whose callback already started
// but lost the race for the lock: Stop returns false in that window, and
// without the check the superseded callback would fire alongside the new
// timer, producing two quiescence callbacks for one burst.
func (p *Pipeline[T]) scheduleLocked(next FilterState) {
	p.state = next
	if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(p.wait, func() { p.fire(gen) })
}

func (p *Pipeline[T]) fire(gen uint64) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	state := p.state
	p.timer = nil
	fn := p.onQuiesce
	p.mu.Unlock()

	if fn != nil {
		fn(state)
	}
}

// Cancel drops any pending evaluation without firing it.
func (p *Pipeline[T]) Cancel() {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
	p.mu.Unlock()
}

// Apply filters the snapshot with the pipeline's current state.
func (p *Pipeline[T]) Apply(items []T) []T {
	return ApplyFilter(p.traits, p.State(), items)
}

// ApplyFilter returns the rows matching state, preserving input order. The
// search term matches case-insensitively against any search field; the
// category filter is an exact match unless "all". Both conditions AND.
func ApplyFilter[T any](traits Traits[T], state FilterState, items []T) []T {
	term := strings.ToLower(strings.TrimSpace(state.Search))
	category := state.Category
	if category == CategoryAll {
		category = ""
	}

	if term == "" && category == "" {
		return append([]T(nil), items...)
	}

	var out []T
	for _, it := range items {
		if term != "" && !matchesTerm(traits.SearchFields(it), term) {
			continue
		}
		if category != "" && traits.Category(it) != category {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matchesTerm(fields []string, term string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
