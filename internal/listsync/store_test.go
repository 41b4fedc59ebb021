package listsync

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id   string
	name string
}

func rowKey(r row) string { return r.id }

func makeRows(n int) []row {
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{id: fmt.Sprintf("r%03d", i), name: fmt.Sprintf("Row %d", i)}
	}
	return rows
}

func TestStore_ReplaceAndAppendPreserveOrder(t *testing.T) {
	s := NewStore(rowKey)
	all := makeRows(45)

	epoch := s.Epoch()
	require.True(t, s.Replace(epoch, all[:20]))
	require.True(t, s.Append(epoch, all[20:40]))
	require.True(t, s.Append(epoch, all[40:]))

	got := s.Items()
	require.Len(t, got, 45)
	for i, r := range got {
		assert.Equal(t, all[i].id, r.id, "order broken at %d", i)
	}
}

func TestStore_AppendSkipsDuplicates(t *testing.T) {
	s := NewStore(rowKey)
	all := makeRows(30)

	epoch := s.Epoch()
	require.True(t, s.Replace(epoch, all[:20]))
	// Overlapping page, as happens when the backend grows between fetches.
	require.True(t, s.Append(epoch, all[10:30]))

	got := s.Items()
	require.Len(t, got, 30)
	seen := make(map[string]bool)
	for _, r := range got {
		assert.False(t, seen[r.id], "duplicate %s", r.id)
		seen[r.id] = true
	}
}

func TestStore_StaleEpochDropped(t *testing.T) {
	s := NewStore(rowKey)
	all := makeRows(10)

	stale := s.Epoch()
	require.True(t, s.Replace(stale, all[:5]))

	// A filter change resets the store before the in-flight fetch lands.
	fresh := s.Reset()
	require.True(t, s.Replace(fresh, all[5:7]))
	before := s.Items()

	assert.False(t, s.Replace(stale, all[:5]), "stale replace must be dropped")
	assert.False(t, s.Append(stale, all[7:]), "stale append must be dropped")
	assert.Equal(t, before, s.Items(), "stale write mutated the store")
}

func TestStore_ResetBumpsEpochAndClears(t *testing.T) {
	s := NewStore(rowKey)
	epoch := s.Epoch()
	require.True(t, s.Replace(epoch, makeRows(3)))

	next := s.Reset()
	assert.Greater(t, next, epoch)
	assert.Zero(t, s.Len())
}

func TestStore_RemoveAndInsertAtRestoresPosition(t *testing.T) {
	s := NewStore(rowKey)
	all := makeRows(5)
	require.True(t, s.Replace(s.Epoch(), all))

	removed, index, ok := s.Remove("r002")
	require.True(t, ok)
	assert.Equal(t, 2, index)
	assert.Equal(t, 4, s.Len())

	s.InsertAt(index, removed)
	got := s.Items()
	require.Len(t, got, 5)
	for i, r := range got {
		assert.Equal(t, all[i].id, r.id, "rollback broke ordering at %d", i)
	}
}

func TestStore_InsertAtClampsIndex(t *testing.T) {
	s := NewStore(rowKey)
	require.True(t, s.Replace(s.Epoch(), makeRows(2)))

	s.InsertAt(99, row{id: "tail"})
	s.InsertAt(-1, row{id: "head"})

	got := s.Items()
	require.Len(t, got, 4)
	assert.Equal(t, "head", got[0].id)
	assert.Equal(t, "tail", got[3].id)
}

func TestStore_Patch(t *testing.T) {
	s := NewStore(rowKey)
	require.True(t, s.Replace(s.Epoch(), makeRows(3)))

	ok := s.Patch("r001", func(r row) row {
		r.name = "patched"
		return r
	})
	require.True(t, ok)

	got, index, found := s.Get("r001")
	require.True(t, found)
	assert.Equal(t, 1, index)
	assert.Equal(t, "patched", got.name)

	assert.False(t, s.Patch("missing", func(r row) row { return r }))
}

func TestStore_SubscribeNotifiesOnEveryWrite(t *testing.T) {
	s := NewStore(rowKey)
	var fired int
	cancel := s.Subscribe(func() { fired++ })

	s.Replace(s.Epoch(), makeRows(2))
	s.Append(s.Epoch(), makeRows(3)[2:])
	s.Patch("r000", func(r row) row { return r })
	s.Remove("r000")
	s.Reset()
	assert.Equal(t, 5, fired)

	cancel()
	s.Replace(s.Epoch(), makeRows(1))
	assert.Equal(t, 5, fired, "cancelled subscriber still notified")
}

func TestStore_ItemsReturnsCopy(t *testing.T) {
	s := NewStore(rowKey)
	require.True(t, s.Replace(s.Epoch(), makeRows(2)))

	snapshot := s.Items()
	snapshot[0].name = "tampered"

	fresh, _, _ := s.Get("r000")
	assert.Equal(t, "Row 0", fresh.name)
}
