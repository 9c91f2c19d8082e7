package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskCacheMiss(t *testing.T) {
	cache, err := newDiskCache(t.TempDir())
	require.NoError(t, err)

	_, ok, err := cache.Get("2024-monaco-grand-prix-r")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiskCachePutGet(t *testing.T) {
	cache, err := newDiskCache(t.TempDir())
	require.NoError(t, err)

	raw := &RawSession{
		Meta:      SessionMeta{SessionKey: 9158, EventName: "Monaco Grand Prix"},
		Laps:      []Row{{"lap_number": float64(1)}},
		FetchedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, cache.Put("2024-monaco-grand-prix-r", raw))

	got, ok, err := cache.Get("2024-monaco-grand-prix-r")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(9158), got.Meta.SessionKey)
	assert.Len(t, got.Laps, 1)
}

func TestQuerySlugStripsPathCharacters(t *testing.T) {
	q := Query{Year: 2024, Event: "../outside/dir", Session: "R"}
	slug := q.slug()

	assert.NotContains(t, slug, "/")
	assert.NotContains(t, slug, "..")
	assert.Equal(t, "2024----outside-dir-r", slug)
}

func TestDiskCacheWriteOnce(t *testing.T) {
	cache, err := newDiskCache(t.TempDir())
	require.NoError(t, err)

	first := &RawSession{Meta: SessionMeta{SessionKey: 1}}
	require.NoError(t, cache.Put("slug", first))

	// A second write for the same slug must not replace the entry.
	second := &RawSession{Meta: SessionMeta{SessionKey: 2}}
	require.NoError(t, cache.Put("slug", second))

	got, ok, err := cache.Get("slug")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), got.Meta.SessionKey)
}
