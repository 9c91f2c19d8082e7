package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abheda24/F1-TelemetryHub/internal/monitor"
	"github.com/abheda24/F1-TelemetryHub/internal/provider"
	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// The provider supports seasons back to the first championship.
const earliestSeason = 1950

// Fetcher is the upstream lookup-or-fetch mechanism. provider.Client
// implements it; tests substitute fakes.
type Fetcher interface {
	LoadOrFetch(ctx context.Context, q provider.Query) (*provider.RawSession, error)
}

// LoadRecord is one entry of the load-history catalog backing the
// dashboard's "recently viewed" list.
type LoadRecord struct {
	ID          string
	Year        int
	Event       string
	Session     string
	LapCount    int
	DriverCount int
	CarSamples  int
	LoadedAt    time.Time
}

type HistoryRepository interface {
	Record(ctx context.Context, rec *LoadRecord) error
	Recent(ctx context.Context, limit int) ([]*LoadRecord, error)
}

type Config struct {
	HotCacheTTL time.Duration
}

// Gateway mediates between the upstream timing provider and the
// presentation layer: validate, cache-aside, normalize, translate errors.
// Cache paths are explicit construction-time configuration, never process
// globals, so independent gateways can coexist.
type Gateway struct {
	fetcher Fetcher
	hot     redis.Cmdable
	hotTTL  time.Duration
	history HistoryRepository
	flight  singleflight.Group
	logger  *slog.Logger
}

// New builds a gateway. hot and history may be nil; the gateway then runs
// on the provider's disk cache alone.
func New(cfg Config, fetcher Fetcher, hot redis.Cmdable, history HistoryRepository, logger *slog.Logger) *Gateway {
	ttl := cfg.HotCacheTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &Gateway{
		fetcher: fetcher,
		hot:     hot,
		hotTTL:  ttl,
		history: history,
		logger:  logger.With("component", "gateway"),
	}
}

// LoadSession returns the normalized bundle for key. Invalid keys fail
// before any cache or network interaction; a valid key either yields a
// bundle with every table slot present (possibly empty) or one of
// ErrNotFound / ErrUpstreamUnavailable. There is no retry policy; failures
// propagate to the caller immediately.
//
// Concurrent duplicate loads share one fetch and receive the same bundle;
// the bundle is read-only after construction, so callers must not mutate it.
func (g *Gateway) LoadSession(ctx context.Context, key telemetry.SessionKey) (*telemetry.SessionData, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	if data, ok := g.hotGet(ctx, key); ok {
		monitor.GatewayHotCacheHits.Inc()
		return data, nil
	}

	start := time.Now()
	v, err, _ := g.flight.Do(key.Slug(), func() (any, error) {
		return g.load(ctx, key)
	})
	if err != nil {
		monitor.GatewayLoadErrors.Inc()
		return nil, err
	}
	monitor.GatewayLoadLatency.Observe(time.Since(start).Seconds())

	return v.(*telemetry.SessionData), nil
}

func (g *Gateway) load(ctx context.Context, key telemetry.SessionKey) (*telemetry.SessionData, error) {
	raw, err := g.fetcher.LoadOrFetch(ctx, provider.Query{
		Year:    key.Year,
		Event:   key.Event,
		Session: string(key.Session),
	})
	if err != nil {
		return nil, translateProviderError(key, err)
	}

	data := Normalize(key, raw)
	g.logger.Info("Session loaded",
		"session", key.Slug(),
		"laps", len(data.Laps),
		"drivers", len(data.Drivers),
		"weather_samples", len(data.Weather))

	g.hotSet(ctx, key, data)
	g.record(ctx, key, data)
	return data, nil
}

func validateKey(key telemetry.SessionKey) error {
	if strings.TrimSpace(key.Event) == "" {
		return fmt.Errorf("%w: empty event name", ErrInvalidKey)
	}
	if key.Year < earliestSeason || key.Year > time.Now().Year()+1 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidKey, key.Year)
	}
	if _, err := telemetry.ParseSessionType(string(key.Session)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return nil
}

func translateProviderError(key telemetry.SessionKey, err error) error {
	switch {
	case errors.Is(err, provider.ErrNoSession):
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	case errors.Is(err, provider.ErrUnavailable), errors.Is(err, provider.ErrDecode):
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	default:
		return err
	}
}

func hotCacheKey(key telemetry.SessionKey) string {
	return "session:" + key.Slug() + ":bundle"
}

func (g *Gateway) hotGet(ctx context.Context, key telemetry.SessionKey) (*telemetry.SessionData, bool) {
	if g.hot == nil {
		return nil, false
	}
	val, err := g.hot.Get(ctx, hotCacheKey(key)).Result()
	if err != nil {
		return nil, false
	}
	var data telemetry.SessionData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, false
	}
	return &data, true
}

func (g *Gateway) hotSet(ctx context.Context, key telemetry.SessionKey, data *telemetry.SessionData) {
	if g.hot == nil {
		return
	}
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := g.hot.Set(ctx, hotCacheKey(key), b, g.hotTTL).Err(); err != nil {
		g.logger.Warn("Hot cache write failed", "session", key.Slug(), "error", err)
	}
}

// record is best effort; history failures never fail a load.
func (g *Gateway) record(ctx context.Context, key telemetry.SessionKey, data *telemetry.SessionData) {
	if g.history == nil {
		return
	}
	samples := 0
	for _, trace := range data.Telemetry {
		samples += len(trace)
	}
	rec := &LoadRecord{
		ID:          uuid.New().String(),
		Year:        key.Year,
		Event:       key.Event,
		Session:     string(key.Session),
		LapCount:    len(data.Laps),
		DriverCount: len(data.Drivers),
		CarSamples:  samples,
		LoadedAt:    time.Now().UTC(),
	}
	if err := g.history.Record(ctx, rec); err != nil {
		g.logger.Warn("Failed to record load", "session", key.Slug(), "error", err)
	}
}
