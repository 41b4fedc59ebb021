// Package engine assembles list controllers for the two screens the client
// renders: members and money collections. It owns the companion ledger
// snapshot that member status derivation joins against, and translates
// screen-level actions into mutation intents.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/faisalkp/mahaldesk/internal/common"
	"github.com/faisalkp/mahaldesk/internal/listsync"
	"github.com/faisalkp/mahaldesk/internal/model"
	"github.com/faisalkp/mahaldesk/internal/service"
)

// MembersBackend is the backend surface the members screen needs.
type MembersBackend interface {
	service.MemberSource
	service.CollectionSource
	service.MemberMutator
}

// Members drives the members list screen: member rows with derived payment
// status, mayyathu-fund toggling, and deletion.
type Members struct {
	backend MembersBackend
	ctrl    *listsync.Controller[model.Member]
	swipe   *listsync.SwipeRegistry
	deriver *listsync.StatusDeriver
	ledger  []model.Collection
	mu      sync.Mutex
}

// NewMembers wires a members screen engine. Options pass through to the
// underlying controller.
func NewMembers(backend MembersBackend, opts ...listsync.ControllerOption[model.Member]) *Members {
	m := &Members{
		backend: backend,
		swipe:   listsync.NewSwipeRegistry(),
		deriver: listsync.NewStatusDeriver(),
	}

	ctrlOpts := append([]listsync.ControllerOption[model.Member]{
		listsync.WithEnrich[model.Member](m.enrich),
	}, opts...)
	m.ctrl = listsync.NewController(listsync.MemberRows, backend.Members, ctrlOpts...)
	m.ctrl.Coordinator().OnClose(m.swipe.Close)
	return m
}

// Controller returns the list controller backing the screen.
func (m *Members) Controller() *listsync.Controller[model.Member] {
	return m.ctrl
}

// Swipe returns the row-action reveal state machine.
func (m *Members) Swipe() *listsync.SwipeRegistry {
	return m.swipe
}

// Deriver returns the status deriver (tests pin its clock).
func (m *Members) Deriver() *listsync.StatusDeriver {
	return m.deriver
}

// Load refreshes the ledger snapshot and fetches page 1 of members. A
// ledger failure is not fatal to the screen: statuses derive from the last
// snapshot we have, which on first mount is empty and yields "due"
// everywhere until the next refresh succeeds.
func (m *Members) Load(ctx context.Context) error {
	ledger, err := m.backend.Collections(ctx)
	if err != nil {
		common.LogError(err, "ledger refresh failed, deriving from stale snapshot", common.Fields{
			"screen": "members",
		})
	} else {
		m.mu.Lock()
		m.ledger = ledger
		m.mu.Unlock()
	}

	return m.ctrl.Load(ctx)
}

// LoadMore fetches the next simulated page.
func (m *Members) LoadMore(ctx context.Context) error {
	return m.ctrl.LoadMore(ctx)
}

// ToggleMayyathu optimistically flips the mayyathu-fund flag for the member
// with the given key and confirms it with the backend.
func (m *Members) ToggleMayyathu(ctx context.Context, key string) error {
	prev, _, ok := m.ctrl.Store().Get(key)
	if !ok {
		return fmt.Errorf("%w: %s", listsync.ErrUnknownItem, key)
	}
	desired := !prev.MayyathuStatus

	return m.ctrl.Mutate(ctx, listsync.Intent[model.Member]{
		Key:  key,
		Kind: listsync.KindToggle,
		Toggle: func(member model.Member) model.Member {
			member.MayyathuStatus = desired
			return member
		},
		Call: func(ctx context.Context) error {
			return m.backend.SetMayyathuStatus(ctx, key, desired)
		},
	})
}

// Delete optimistically removes the member and confirms with the backend.
func (m *Members) Delete(ctx context.Context, key string) error {
	return m.ctrl.Mutate(ctx, listsync.Intent[model.Member]{
		Key:  key,
		Kind: listsync.KindDelete,
		Call: func(ctx context.Context) error {
			return m.backend.DeleteMember(ctx, key)
		},
	})
}

// FilterChoices are the status chips the members screen cycles through.
func (m *Members) FilterChoices() []string {
	return []string{
		listsync.CategoryAll,
		string(model.StatusPaid),
		string(model.StatusDue),
		string(model.StatusOverdue),
	}
}

func (m *Members) enrich(members []model.Member) []model.Member {
	m.mu.Lock()
	ledger := m.ledger
	m.mu.Unlock()
	return m.deriver.EnrichMembers(members, ledger)
}
