package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"paperfeed-engine/core/domain"
	"paperfeed-engine/infrastructure/store/sqlstore"
)

func seededStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	ctx := context.Background()

	store, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SaveIssue(ctx, domain.Issue{ID: "weekly", Title: "Weekly"}))
	for _, p := range []domain.Publication{
		{ID: "b", Title: "Beta", Publisher: "Beta Inc", URL: "https://beta.example", FeedURL: "https://beta.example/feed"},
		{ID: "a", Title: "Alpha", URL: "https://alpha.example", FeedURL: "https://alpha.example/rss"},
	} {
		require.NoError(t, store.SavePublication(ctx, p))
	}
	require.NoError(t, store.AddPublicationToIssue(ctx, "weekly", "b", true))
	require.NoError(t, store.AddPublicationToIssue(ctx, "weekly", "a", false))
	return store
}

func TestStore_GetPublicationByFeedURL(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	pub, err := store.GetPublicationByFeedURL(ctx, "https://beta.example/feed")
	require.NoError(t, err)
	require.NotNil(t, pub)
	require.Equal(t, "b", pub.ID)
	require.Equal(t, "Beta Inc", pub.Publisher)

	missing, err := store.GetPublicationByFeedURL(ctx, "https://nowhere.example/feed")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestStore_ListPublicationsForIssue_KeepsInsertionOrder(t *testing.T) {
	store := seededStore(t)

	pubs, err := store.ListPublicationsForIssue(context.Background(), "weekly")
	require.NoError(t, err)
	require.Len(t, pubs, 2)
	require.Equal(t, "b", pubs[0].ID)
	require.True(t, pubs[0].RemoveImages)
	require.Equal(t, "a", pubs[1].ID)
	require.False(t, pubs[1].RemoveImages)

	none, err := store.ListPublicationsForIssue(context.Background(), "missing")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestStore_GetIssue(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	issue, err := store.GetIssue(ctx, "weekly")
	require.NoError(t, err)
	require.Equal(t, &domain.Issue{ID: "weekly", Title: "Weekly"}, issue)

	missing, err := store.GetIssue(ctx, "monthly")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestStore_UpsertsAreIdempotent(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePublication(ctx, domain.Publication{ID: "a", Title: "Alpha Renamed", FeedURL: "https://alpha.example/rss"}))
	require.NoError(t, store.AddPublicationToIssue(ctx, "weekly", "a", true))

	pubs, err := store.ListPublicationsForIssue(ctx, "weekly")
	require.NoError(t, err)
	require.Len(t, pubs, 2)
	require.Equal(t, "Alpha Renamed", pubs[1].Title)
	require.True(t, pubs[1].RemoveImages)
}

func TestOpen_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pubs.db")
	ctx := context.Background()

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.SaveIssue(ctx, domain.Issue{ID: "x", Title: "X"}))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	issue, err := reopened.GetIssue(ctx, "x")
	require.NoError(t, err)
	require.NotNil(t, issue)
}
