package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/user/page-analyzer/internal/analyzer"
)

type tickClock struct {
	now time.Time
}

func (c *tickClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTickClock() *tickClock {
	return &tickClock{now: time.Unix(1700000000, 0).UTC()}
}

func TestStoreCreateAssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	store := NewStore(newTickClock())
	first, err := store.Create(context.Background(), "https://a.example")
	require.NoError(t, err)
	second, err := store.Create(context.Background(), "https://b.example")
	require.NoError(t, err)

	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)
	require.True(t, second.CreatedAt.After(first.CreatedAt))
}

func TestStoreCreateDuplicateOrigin(t *testing.T) {
	t.Parallel()

	store := NewStore(newTickClock())
	_, err := store.Create(context.Background(), "https://a.example")
	require.NoError(t, err)

	_, err = store.Create(context.Background(), "https://a.example")
	require.ErrorIs(t, err, analyzer.ErrConflict)

	exists, err := store.Exists(context.Background(), "https://a.example")
	require.NoError(t, err)
	require.True(t, exists)

	pages, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)
}

func TestStoreFindMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(newTickClock())
	_, err := store.Find(context.Background(), 99)
	require.ErrorIs(t, err, analyzer.ErrNotFound)
}

func TestStoreSaveRequiresExistingPage(t *testing.T) {
	t.Parallel()

	store := NewStore(newTickClock())
	_, err := store.Save(context.Background(), analyzer.Check{PageID: 1, StatusCode: 200})
	require.ErrorIs(t, err, analyzer.ErrNotFound)
}

func TestStoreListByPageNewestFirst(t *testing.T) {
	t.Parallel()

	store := NewStore(newTickClock())
	page, err := store.Create(context.Background(), "https://a.example")
	require.NoError(t, err)

	for _, code := range []int{200, 301, 404} {
		_, err := store.Save(context.Background(), analyzer.Check{PageID: page.ID, StatusCode: code})
		require.NoError(t, err)
	}

	checks, err := store.ListByPage(context.Background(), page.ID)
	require.NoError(t, err)
	require.Len(t, checks, 3)
	require.Equal(t, 404, checks[0].StatusCode)
	require.Equal(t, 301, checks[1].StatusCode)
	require.Equal(t, 200, checks[2].StatusCode)
	require.Greater(t, checks[0].ID, checks[1].ID)
	require.Greater(t, checks[1].ID, checks[2].ID)
}

func TestStoreLatestPerPageWithInterleavedChecks(t *testing.T) {
	t.Parallel()

	store := NewStore(newTickClock())
	a, err := store.Create(context.Background(), "https://a.example")
	require.NoError(t, err)
	b, err := store.Create(context.Background(), "https://b.example")
	require.NoError(t, err)
	idle, err := store.Create(context.Background(), "https://idle.example")
	require.NoError(t, err)

	// Interleave checks across the two active pages.
	for i, pageID := range []int64{a.ID, b.ID, a.ID, b.ID, a.ID} {
		_, err := store.Save(context.Background(), analyzer.Check{PageID: pageID, StatusCode: 200 + i})
		require.NoError(t, err)
	}

	latest, err := store.LatestPerPage(context.Background())
	require.NoError(t, err)
	require.Len(t, latest, 2)
	require.Equal(t, 204, latest[a.ID].StatusCode)
	require.Equal(t, 203, latest[b.ID].StatusCode)
	_, ok := latest[idle.ID]
	require.False(t, ok)
}

func TestStoreRemoveAllClearsPagesAndChecks(t *testing.T) {
	t.Parallel()

	store := NewStore(newTickClock())
	page, err := store.Create(context.Background(), "https://a.example")
	require.NoError(t, err)
	_, err = store.Save(context.Background(), analyzer.Check{PageID: page.ID, StatusCode: 200})
	require.NoError(t, err)

	require.NoError(t, store.RemoveAll(context.Background()))

	pages, err := store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, pages)

	latest, err := store.LatestPerPage(context.Background())
	require.NoError(t, err)
	require.Empty(t, latest)
}
