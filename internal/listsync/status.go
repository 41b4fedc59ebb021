package listsync

import (
	"sort"
	"strings"
	"time"

	"github.com/faisalkp/mahaldesk/internal/model"
)

// overdueAfterDays is the age past which a most-recent collection no longer
// counts as paid.
const overdueAfterDays = 30

// JoinStrategy decides whether a collection entry belongs to a display
// name. It is a swappable value so an exact foreign-key join can replace
// the fuzzy one without touching the deriver's callers.
type JoinStrategy interface {
	Matches(displayName string, c model.Collection) bool
}

// SubstringJoin matches when the display name appears case-insensitively
// inside the entry's collectedBy or description text.
//
// Overlapping names cross-contaminate here ("Ali" matches both "Ali" and
// "Alam Ali" entries); the backend never established a foreign key, so this
// is the contract as it stands.
type SubstringJoin struct{}

// Matches implements JoinStrategy.
func (SubstringJoin) Matches(displayName string, c model.Collection) bool {
	name := strings.ToLower(strings.TrimSpace(displayName))
	if name == "" {
		// An empty needle is a substring of everything; never match.
		return false
	}
	return strings.Contains(strings.ToLower(c.CollectedBy), name) ||
		strings.Contains(strings.ToLower(c.Description), name)
}

// StatusDeriver computes the derived payment status by joining rows against
// the money-collection ledger. Derivation is pure and synchronous: both
// collections are already fetched and the deriver performs no I/O.
type StatusDeriver struct {
	Join JoinStrategy
	Now  func() time.Time
}

// NewStatusDeriver returns a deriver with the shipped substring join and
// wall-clock time.
func NewStatusDeriver() *StatusDeriver {
	return &StatusDeriver{Join: SubstringJoin{}, Now: time.Now}
}

// MemberStatus derives a member's standing from the ledger: no matching
// entry means due; otherwise the most recent match decides between paid and
// overdue by its age in whole days.
func (d *StatusDeriver) MemberStatus(displayName string, ledger []model.Collection) model.DerivedStatus {
	var matches []model.Collection
	for _, c := range ledger {
		if d.Join.Matches(displayName, c) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return model.StatusDue
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Date.After(matches[j].Date)
	})

	if d.daysSince(matches[0].Date) > overdueAfterDays {
		return model.StatusOverdue
	}
	return model.StatusPaid
}

// CollectionStatus derives a ledger entry's standing from its own date.
// Collections have no due state; they are either recent enough or overdue.
func (d *StatusDeriver) CollectionStatus(c model.Collection) model.DerivedStatus {
	if d.daysSince(c.Date) > overdueAfterDays {
		return model.StatusOverdue
	}
	return model.StatusPaid
}

// EnrichMembers returns annotated copies; the input slice is never mutated
// so concurrent renders cannot observe a half-written status.
func (d *StatusDeriver) EnrichMembers(members []model.Member, ledger []model.Collection) []model.Member {
	out := make([]model.Member, len(members))
	for i, m := range members {
		m.Status = d.MemberStatus(m.DisplayName(), ledger)
		out[i] = m
	}
	return out
}

// EnrichCollections returns annotated copies of the ledger entries.
func (d *StatusDeriver) EnrichCollections(ledger []model.Collection) []model.Collection {
	out := make([]model.Collection, len(ledger))
	for i, c := range ledger {
		c.Status = d.CollectionStatus(c)
		out[i] = c
	}
	return out
}

// daysSince returns whole elapsed days, matching the ledger's day-granular
// bookkeeping: 30.9 days is still day 30, not yet overdue.
func (d *StatusDeriver) daysSince(t time.Time) int {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	elapsed := now().Sub(t)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Hours() / 24)
}
