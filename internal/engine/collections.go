package engine

import (
	"context"
	"sort"

	"github.com/faisalkp/mahaldesk/internal/listsync"
	"github.com/faisalkp/mahaldesk/internal/model"
	"github.com/faisalkp/mahaldesk/internal/service"
)

// CollectionsBackend is the backend surface the collections screen needs.
type CollectionsBackend interface {
	service.CollectionSource
	service.CollectionMutator
}

// Collections drives the money-collection list screen: ledger entries with
// an age-derived status and swipe-to-delete.
type Collections struct {
	backend CollectionsBackend
	ctrl    *listsync.Controller[model.Collection]
	swipe   *listsync.SwipeRegistry
	deriver *listsync.StatusDeriver
}

// NewCollections wires a collections screen engine.
func NewCollections(backend CollectionsBackend, opts ...listsync.ControllerOption[model.Collection]) *Collections {
	c := &Collections{
		backend: backend,
		swipe:   listsync.NewSwipeRegistry(),
		deriver: listsync.NewStatusDeriver(),
	}

	ctrlOpts := append([]listsync.ControllerOption[model.Collection]{
		listsync.WithEnrich[model.Collection](c.enrich),
	}, opts...)
	c.ctrl = listsync.NewController(listsync.CollectionRows, backend.Collections, ctrlOpts...)
	c.ctrl.Coordinator().OnClose(c.swipe.Close)
	return c
}

// Controller returns the list controller backing the screen.
func (c *Collections) Controller() *listsync.Controller[model.Collection] {
	return c.ctrl
}

// Swipe returns the row-action reveal state machine.
func (c *Collections) Swipe() *listsync.SwipeRegistry {
	return c.swipe
}

// Deriver returns the status deriver (tests pin its clock).
func (c *Collections) Deriver() *listsync.StatusDeriver {
	return c.deriver
}

// Load fetches page 1 of the ledger.
func (c *Collections) Load(ctx context.Context) error {
	return c.ctrl.Load(ctx)
}

// LoadMore fetches the next simulated page.
func (c *Collections) LoadMore(ctx context.Context) error {
	return c.ctrl.LoadMore(ctx)
}

// Delete optimistically removes the entry and confirms with the backend.
func (c *Collections) Delete(ctx context.Context, key string) error {
	return c.ctrl.Mutate(ctx, listsync.Intent[model.Collection]{
		Key:  key,
		Kind: listsync.KindDelete,
		Call: func(ctx context.Context) error {
			return c.backend.DeleteCollection(ctx, key)
		},
	})
}

// FilterChoices returns "all" plus the distinct categories of the rows
// fetched so far, sorted for a stable cycling order.
func (c *Collections) FilterChoices() []string {
	seen := make(map[string]struct{})
	for _, entry := range c.ctrl.Store().Items() {
		if entry.Category != "" {
			seen[entry.Category] = struct{}{}
		}
	}

	choices := make([]string, 0, len(seen)+1)
	for category := range seen {
		choices = append(choices, category)
	}
	sort.Strings(choices)
	return append([]string{listsync.CategoryAll}, choices...)
}

func (c *Collections) enrich(entries []model.Collection) []model.Collection {
	return c.deriver.EnrichCollections(entries)
}
