package repo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/abheda24/F1-TelemetryHub/internal/gateway"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis covers the Get/Set/Del surface the repository touches; the
// embedded interface panics on anything else.
type fakeRedis struct {
	redis.Cmdable
	store map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: map[string]string{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if val, ok := f.store[key]; ok {
		cmd.SetVal(val)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	switch v := value.(type) {
	case []byte:
		f.store[key] = string(v)
	case string:
		f.store[key] = v
	}
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	for _, key := range keys {
		delete(f.store, key)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func seedRecent(t *testing.T, r *fakeRedis, n int) {
	t.Helper()

	records := make([]*gateway.LoadRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, &gateway.LoadRecord{
			ID:    string(rune('a' + i)),
			Year:  2024,
			Event: "Monaco Grand Prix",
		})
	}
	b, err := json.Marshal(records)
	require.NoError(t, err)
	r.store[recentCacheKey] = string(b)
}

func TestRecentServedFromCache(t *testing.T) {
	fake := newFakeRedis()
	seedRecent(t, fake, 5)

	// A nil DB proves the cached page never reaches Postgres.
	repo := NewRepository(nil, fake)

	records, err := repo.Recent(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = repo.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestCachedRecentShortListFallsThrough(t *testing.T) {
	fake := newFakeRedis()
	seedRecent(t, fake, 2)

	repo := NewRepository(nil, fake)

	// A cached page built for a smaller request must not shorten a larger one.
	_, ok := repo.cachedRecent(context.Background(), 20)
	assert.False(t, ok)

	cached, ok := repo.cachedRecent(context.Background(), 2)
	require.True(t, ok)
	assert.Len(t, cached, 2)
}

func TestCachedRecentWithoutRedis(t *testing.T) {
	repo := NewRepository(nil, nil)
	_, ok := repo.cachedRecent(context.Background(), 5)
	assert.False(t, ok)
}

func TestCachedRecentMalformedEntry(t *testing.T) {
	fake := newFakeRedis()
	fake.store[recentCacheKey] = "{not json"

	repo := NewRepository(nil, fake)
	_, ok := repo.cachedRecent(context.Background(), 5)
	assert.False(t, ok)
}
