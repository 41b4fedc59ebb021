package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faisalkp/mahaldesk/internal/listsync"
	"github.com/faisalkp/mahaldesk/internal/model"
)

type fakeBackend struct {
	members     []model.Member
	collections []model.Collection
	membersErr  error
	ledgerErr   error
	mutateErr   error
	toggles     []string
	deletes     []string
}

func (f *fakeBackend) Members(context.Context) ([]model.Member, error) {
	if f.membersErr != nil {
		return nil, f.membersErr
	}
	return f.members, nil
}

func (f *fakeBackend) Collections(context.Context) ([]model.Collection, error) {
	if f.ledgerErr != nil {
		return nil, f.ledgerErr
	}
	return f.collections, nil
}

func (f *fakeBackend) SetMayyathuStatus(_ context.Context, id string, enabled bool) error {
	f.toggles = append(f.toggles, fmt.Sprintf("%s=%t", id, enabled))
	return f.mutateErr
}

func (f *fakeBackend) DeleteMember(_ context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	return f.mutateErr
}

func (f *fakeBackend) DeleteCollection(_ context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	return f.mutateErr
}

func seedMembers(n int) []model.Member {
	members := make([]model.Member, n)
	for i := range members {
		members[i] = model.Member{
			ID:   fmt.Sprintf("m%03d", i),
			Name: fmt.Sprintf("Member %03d", i),
		}
	}
	return members
}

func TestMembers_LoadDerivesStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	backend := &fakeBackend{
		members: []model.Member{
			{ID: "m1", Name: "Ali Khan"},
			{ID: "m2", Name: "Basheer"},
			{ID: "m3", Name: "Khadeeja"},
		},
		collections: []model.Collection{
			{ID: "c1", CollectedBy: "Ali Khan", Date: now.AddDate(0, 0, -10)},
			{ID: "c2", Description: "from Khadeeja, annual", Date: now.AddDate(0, 0, -40)},
		},
	}

	eng := NewMembers(backend)
	eng.Deriver().Now = func() time.Time { return now }
	require.NoError(t, eng.Load(context.Background()))

	visible := eng.Controller().Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, model.StatusPaid, visible[0].Status)
	assert.Equal(t, model.StatusDue, visible[1].Status)
	assert.Equal(t, model.StatusOverdue, visible[2].Status)
}

func TestMembers_LedgerFailureIsNotFatal(t *testing.T) {
	backend := &fakeBackend{
		members:   seedMembers(3),
		ledgerErr: errors.New("ledger endpoint down"),
	}

	eng := NewMembers(backend)
	require.NoError(t, eng.Load(context.Background()))

	visible := eng.Controller().Visible()
	require.Len(t, visible, 3)
	for _, m := range visible {
		assert.Equal(t, model.StatusDue, m.Status, "empty ledger snapshot derives everyone as due")
	}
}

func TestMembers_Pagination(t *testing.T) {
	backend := &fakeBackend{members: seedMembers(45)}
	eng := NewMembers(backend, listsync.WithPageSize[model.Member](20))
	ctx := context.Background()

	require.NoError(t, eng.Load(ctx))
	assert.Equal(t, 20, eng.Controller().Store().Len())

	require.NoError(t, eng.LoadMore(ctx))
	require.NoError(t, eng.LoadMore(ctx))
	assert.Equal(t, 45, eng.Controller().Store().Len())
	assert.False(t, eng.Controller().HasMore())
}

func TestMembers_ToggleMayyathu(t *testing.T) {
	backend := &fakeBackend{
		members: []model.Member{{ID: "m1", Name: "Ali", MayyathuStatus: false}},
	}
	eng := NewMembers(backend)
	ctx := context.Background()
	require.NoError(t, eng.Load(ctx))

	require.NoError(t, eng.ToggleMayyathu(ctx, "m1"))

	got, _, _ := eng.Controller().Store().Get("m1")
	assert.True(t, got.MayyathuStatus)
	assert.Equal(t, []string{"m1=true"}, backend.toggles)

	// Toggling again goes back.
	require.NoError(t, eng.ToggleMayyathu(ctx, "m1"))
	got, _, _ = eng.Controller().Store().Get("m1")
	assert.False(t, got.MayyathuStatus)
}

func TestMembers_ToggleRollsBackOnServerError(t *testing.T) {
	backend := &fakeBackend{
		members: []model.Member{{ID: "m1", Name: "Ali", MayyathuStatus: false}},
	}
	eng := NewMembers(backend)
	ctx := context.Background()
	require.NoError(t, eng.Load(ctx))

	backend.mutateErr = errors.New("http 500")
	err := eng.ToggleMayyathu(ctx, "m1")
	require.Error(t, err)

	got, _, _ := eng.Controller().Store().Get("m1")
	assert.False(t, got.MayyathuStatus, "UI must show the prior status after rollback")

	// The item is Idle again: a second attempt is accepted and succeeds.
	backend.mutateErr = nil
	require.NoError(t, eng.ToggleMayyathu(ctx, "m1"))
	got, _, _ = eng.Controller().Store().Get("m1")
	assert.True(t, got.MayyathuStatus)
}

func TestMembers_DeleteRollbackKeepsPosition(t *testing.T) {
	backend := &fakeBackend{members: seedMembers(5)}
	eng := NewMembers(backend)
	ctx := context.Background()
	require.NoError(t, eng.Load(ctx))
	before := eng.Controller().Store().Items()

	backend.mutateErr = errors.New("http 500")
	require.Error(t, eng.Delete(ctx, "m002"))

	assert.Equal(t, before, eng.Controller().Store().Items())
}

func TestMembers_DeleteClosesRevealedRow(t *testing.T) {
	backend := &fakeBackend{members: seedMembers(2)}
	eng := NewMembers(backend)
	ctx := context.Background()
	require.NoError(t, eng.Load(ctx))

	eng.Swipe().Open("m000")
	require.NoError(t, eng.Delete(ctx, "m000"))

	assert.Equal(t, listsync.SwipeClosed, eng.Swipe().State("m000"))
	assert.Equal(t, 1, eng.Controller().Store().Len())
}

func TestMembers_FilterChoices(t *testing.T) {
	eng := NewMembers(&fakeBackend{})
	assert.Equal(t, []string{"all", "paid", "due", "overdue"}, eng.FilterChoices())
}
