package repo

import (
	"context"
	"encoding/json"

	"github.com/abheda24/F1-TelemetryHub/internal/gateway"

	"github.com/go-pg/pg/v10"
	"github.com/redis/go-redis/v9"
)

var _ gateway.HistoryRepository = (*Repository)(nil)

// Repository persists the load-history catalog in Postgres with a Redis
// read-through cache in front of the recent-loads query.
type Repository struct {
	db    *pg.DB
	redis redis.Cmdable
}

func NewRepository(db *pg.DB, redis redis.Cmdable) *Repository {
	return &Repository{
		db:    db,
		redis: redis,
	}
}

func (r *Repository) Record(ctx context.Context, rec *gateway.LoadRecord) error {
	model := &LoadRecordModel{
		ID:          rec.ID,
		Year:        rec.Year,
		Event:       rec.Event,
		Session:     rec.Session,
		LapCount:    rec.LapCount,
		DriverCount: rec.DriverCount,
		CarSamples:  rec.CarSamples,
		LoadedAt:    rec.LoadedAt,
	}

	if _, err := r.db.Model(model).Insert(); err != nil {
		return err
	}

	// Invalidate cache
	if r.redis != nil {
		_ = r.redis.Del(ctx, recentCacheKey).Err()
	}

	return nil
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]*gateway.LoadRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	if cached, ok := r.cachedRecent(ctx, limit); ok {
		return cached, nil
	}

	queryLimit := limit
	if queryLimit < recentCacheMax {
		queryLimit = recentCacheMax
	}

	var models []LoadRecordModel
	err := r.db.Model(&models).
		Order("loaded_at DESC").
		Limit(queryLimit).
		Select()
	if err != nil {
		return nil, err
	}

	records := make([]*gateway.LoadRecord, 0, len(models))
	for _, m := range models {
		records = append(records, &gateway.LoadRecord{
			ID:          m.ID,
			Year:        m.Year,
			Event:       m.Event,
			Session:     m.Session,
			LapCount:    m.LapCount,
			DriverCount: m.DriverCount,
			CarSamples:  m.CarSamples,
			LoadedAt:    m.LoadedAt,
		})
	}

	if r.redis != nil {
		if b, err := json.Marshal(records); err == nil {
			_ = r.redis.Set(ctx, recentCacheKey, b, recentCacheTTL).Err()
		}
	}

	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// cachedRecent serves a page from the cached list. The cache entry is keyed
// without the limit, so a cached list shorter than the request may just be a
// smaller page from an earlier call; those requests go back to Postgres.
func (r *Repository) cachedRecent(ctx context.Context, limit int) ([]*gateway.LoadRecord, bool) {
	if r.redis == nil {
		return nil, false
	}
	val, err := r.redis.Get(ctx, recentCacheKey).Result()
	if err != nil {
		return nil, false
	}
	var cached []*gateway.LoadRecord
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, false
	}
	if len(cached) < limit {
		return nil, false
	}
	if len(cached) > limit {
		cached = cached[:limit]
	}
	return cached, true
}
