package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faisalkp/mahaldesk/internal/model"
)

func testStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStorage_SaveMembersUpsert(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	members := []model.Member{
		{ID: "m1", Name: "Ali Khan", Phone: "9400000001", MayyathuStatus: true},
		{MongoID: "64abc", Name: "Basheer"},
	}
	require.NoError(t, s.SaveMembers(ctx, members))

	count, err := s.CountMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Re-exporting the same members must not duplicate rows.
	members[0].Phone = "9400000099"
	require.NoError(t, s.SaveMembers(ctx, members))

	count, err = s.CountMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteStorage_SaveMembersRejectsMissingKey(t *testing.T) {
	s := testStorage(t)

	err := s.SaveMembers(context.Background(), []model.Member{{Name: "No ID"}})
	require.Error(t, err)

	count, countErr := s.CountMembers(context.Background())
	require.NoError(t, countErr)
	assert.Zero(t, count, "failed batch must not be partially committed")
}

func TestSQLiteStorage_SaveCollections(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	collections := []model.Collection{
		{ID: "c1", Amount: 500, CollectedBy: "Ali Khan", Date: time.Now().AddDate(0, 0, -3)},
		{ID: "c2", Amount: 1200, Description: "building fund", Category: "building-fund"},
	}
	require.NoError(t, s.SaveCollections(ctx, collections))

	count, err := s.CountCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}
