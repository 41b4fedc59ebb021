package listsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/faisalkp/mahaldesk/internal/model"
)

var statusNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func pinnedDeriver() *StatusDeriver {
	d := NewStatusDeriver()
	d.Now = func() time.Time { return statusNow }
	return d
}

func daysAgo(n int) time.Time {
	return statusNow.AddDate(0, 0, -n)
}

func TestStatusDeriver_MemberStatus(t *testing.T) {
	tests := []struct {
		name   string
		member string
		ledger []model.Collection
		want   model.DerivedStatus
	}{
		{
			name:   "no entries at all",
			member: "Ali Khan",
			want:   model.StatusDue,
		},
		{
			name:   "no matching entry",
			member: "Ali Khan",
			ledger: []model.Collection{
				{CollectedBy: "Basheer", Date: daysAgo(5)},
			},
			want: model.StatusDue,
		},
		{
			name:   "recent match in collectedBy",
			member: "Ali Khan",
			ledger: []model.Collection{
				{CollectedBy: "ali khan (house 12)", Date: daysAgo(10)},
			},
			want: model.StatusPaid,
		},
		{
			name:   "recent match in description",
			member: "Ali Khan",
			ledger: []model.Collection{
				{Description: "monthly varisankya from Ali Khan", Date: daysAgo(3)},
			},
			want: model.StatusPaid,
		},
		{
			name:   "old match is overdue",
			member: "Ali Khan",
			ledger: []model.Collection{
				{CollectedBy: "Ali Khan", Date: daysAgo(40)},
			},
			want: model.StatusOverdue,
		},
		{
			name:   "most recent match decides",
			member: "Ali Khan",
			ledger: []model.Collection{
				{CollectedBy: "Ali Khan", Date: daysAgo(90)},
				{CollectedBy: "Ali Khan", Date: daysAgo(7)},
				{CollectedBy: "Ali Khan", Date: daysAgo(45)},
			},
			want: model.StatusPaid,
		},
		{
			name:   "exactly 30 days is still paid",
			member: "Ali Khan",
			ledger: []model.Collection{
				{CollectedBy: "Ali Khan", Date: daysAgo(30)},
			},
			want: model.StatusPaid,
		},
		{
			name:   "31 days is overdue",
			member: "Ali Khan",
			ledger: []model.Collection{
				{CollectedBy: "Ali Khan", Date: daysAgo(31)},
			},
			want: model.StatusOverdue,
		},
		{
			name:   "empty name never matches",
			member: "",
			ledger: []model.Collection{
				{CollectedBy: "anyone at all", Date: daysAgo(1)},
				{Description: "everything", Date: daysAgo(2)},
			},
			want: model.StatusDue,
		},
		{
			name:   "whitespace name never matches",
			member: "   ",
			ledger: []model.Collection{
				{CollectedBy: "anyone at all", Date: daysAgo(1)},
			},
			want: model.StatusDue,
		},
		{
			name:   "substring name picks up the longer name's entry",
			member: "Ali",
			ledger: []model.Collection{
				{CollectedBy: "Alam Ali", Date: daysAgo(2)},
			},
			// Cross-contamination is the contract as it stands: "Ali" is a
			// substring of "Alam Ali", so the entry counts.
			want: model.StatusPaid,
		},
	}

	d := pinnedDeriver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.MemberStatus(tt.member, tt.ledger))
		})
	}
}

func TestStatusDeriver_Deterministic(t *testing.T) {
	d := pinnedDeriver()
	ledger := []model.Collection{
		{CollectedBy: "Ali Khan", Date: daysAgo(10)},
		{CollectedBy: "Ali Khan", Date: daysAgo(50)},
	}

	first := d.MemberStatus("Ali Khan", ledger)
	second := d.MemberStatus("Ali Khan", ledger)
	assert.Equal(t, first, second)
	assert.Equal(t, model.StatusPaid, first)
}

func TestStatusDeriver_CollectionStatus(t *testing.T) {
	d := pinnedDeriver()

	assert.Equal(t, model.StatusPaid, d.CollectionStatus(model.Collection{Date: daysAgo(10)}))
	assert.Equal(t, model.StatusPaid, d.CollectionStatus(model.Collection{Date: daysAgo(30)}))
	assert.Equal(t, model.StatusOverdue, d.CollectionStatus(model.Collection{Date: daysAgo(31)}))
	assert.Equal(t, model.StatusPaid, d.CollectionStatus(model.Collection{Date: statusNow.Add(time.Hour)}),
		"future-dated entries count as day zero")
}

func TestStatusDeriver_EnrichMembersDoesNotMutateInput(t *testing.T) {
	d := pinnedDeriver()
	members := []model.Member{
		{ID: "1", Name: "Ali Khan"},
		{ID: "2", Name: "Basheer"},
	}
	ledger := []model.Collection{
		{CollectedBy: "Ali Khan", Date: daysAgo(5)},
	}

	enriched := d.EnrichMembers(members, ledger)

	assert.Equal(t, model.StatusPaid, enriched[0].Status)
	assert.Equal(t, model.StatusDue, enriched[1].Status)
	assert.Equal(t, model.StatusUnknown, members[0].Status, "input slice was mutated")
	assert.Equal(t, model.StatusUnknown, members[1].Status, "input slice was mutated")
}

func TestStatusDeriver_EnrichCollections(t *testing.T) {
	d := pinnedDeriver()
	ledger := []model.Collection{
		{ID: "a", Date: daysAgo(2)},
		{ID: "b", Date: daysAgo(60)},
	}

	enriched := d.EnrichCollections(ledger)

	assert.Equal(t, model.StatusPaid, enriched[0].Status)
	assert.Equal(t, model.StatusOverdue, enriched[1].Status)
	assert.Equal(t, model.StatusUnknown, ledger[0].Status, "input slice was mutated")
}

func TestSubstringJoin_CaseInsensitive(t *testing.T) {
	join := SubstringJoin{}

	assert.True(t, join.Matches("ALI KHAN", model.Collection{CollectedBy: "paid by ali khan"}))
	assert.True(t, join.Matches("ali khan", model.Collection{Description: "ALI KHAN, monthly"}))
	assert.False(t, join.Matches("Ali Khan", model.Collection{CollectedBy: "Basheer", Description: "monthly"}))
	assert.False(t, join.Matches("", model.Collection{CollectedBy: "anything"}))
}
