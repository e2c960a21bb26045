package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	feedKey  = "feed:https://example.com/feed.xml"
	feedBody = `<rss version="2.0"><channel><title>Example</title></channel></rss>`
)

func TestMemoryCache_StoresFeedBody(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, feedKey, []byte(feedBody), 10*time.Minute))

	got, err := cache.Get(ctx, feedKey)
	require.NoError(t, err)
	require.Equal(t, feedBody, string(got))

	_, err = cache.Get(ctx, "feed:https://example.com/other.xml")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_RefetchReplacesBody(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, feedKey, []byte("<rss>old</rss>"), time.Hour))
	require.NoError(t, cache.Set(ctx, feedKey, []byte(feedBody), time.Hour))

	got, err := cache.Get(ctx, feedKey)
	require.NoError(t, err)
	require.Equal(t, feedBody, string(got))
	require.Equal(t, 1, cache.Count())
}

func TestMemoryCache_ExpiredBodyIsMiss(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, feedKey, []byte(feedBody), 50*time.Millisecond))
	time.Sleep(100 * time.Millisecond)

	_, err := cache.Get(ctx, feedKey)
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, feedKey, []byte(feedBody), 0))
	time.Sleep(20 * time.Millisecond)

	got, err := cache.Get(ctx, feedKey)
	require.NoError(t, err)
	require.Equal(t, feedBody, string(got))
}

func TestMemoryCache_DeleteEvictsFeed(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, feedKey, []byte(feedBody), time.Hour))
	require.NoError(t, cache.Delete(ctx, feedKey))

	_, err := cache.Get(ctx, feedKey)
	require.ErrorIs(t, err, ErrCacheMiss)

	// Deleting an absent key is not an error
	require.NoError(t, cache.Delete(ctx, feedKey))
}

func TestMemoryCache_IsolatesStoredValue(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	value := []byte("original")
	if err := cache.Set(ctx, "key", value, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value[0] = 'X'

	got, _ := cache.Get(ctx, "key")
	got[1] = 'Y'

	again, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(again) != "original" {
		t.Errorf("cached value was mutated: %s", again)
	}
}

func TestMemoryCache_MissIsErrCacheMiss(t *testing.T) {
	cache := NewMemoryCache()

	_, err := cache.Get(context.Background(), "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_CancelledContext(t *testing.T) {
	cache := NewMemoryCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := cache.Set(ctx, "key", []byte("v"), time.Hour); err == nil {
		t.Error("Set should fail on a cancelled context")
	}
	if _, err := cache.Get(ctx, "key"); err == nil {
		t.Error("Get should fail on a cancelled context")
	}
	if err := cache.Delete(ctx, "key"); err == nil {
		t.Error("Delete should fail on a cancelled context")
	}
	if cache.Count() != 0 {
		t.Errorf("Count = %d, want 0", cache.Count())
	}
}
