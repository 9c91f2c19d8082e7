package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/abheda24/F1-TelemetryHub/internal/monitor"
)

const DefaultBaseURL = "https://api.openf1.org"

type Config struct {
	BaseURL  string
	CacheDir string
	Timeout  time.Duration
}

// Client talks to the upstream timing API and fronts it with the on-disk
// cache. One client is created per process; the cache directory is ensured
// at construction, not per call.
type Client struct {
	baseURL string
	httpc   *http.Client
	cache   *diskCache
	logger  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	cache, err := newDiskCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		cache:   cache,
		logger:  logger.With("component", "provider"),
	}, nil
}

// LoadOrFetch returns the session bundle for q, serving from the disk cache
// when an entry exists and otherwise fetching all session tables upstream
// and writing the entry. Absent tables come back as empty slices, not
// errors.
func (c *Client) LoadOrFetch(ctx context.Context, q Query) (*RawSession, error) {
	slug := q.slug()

	if raw, ok, err := c.cache.Get(slug); err != nil {
		return nil, err
	} else if ok {
		monitor.ProviderDiskCacheHits.Inc()
		c.logger.Debug("Disk cache hit", "session", slug)
		return raw, nil
	}

	meta, err := c.findSession(ctx, q)
	if err != nil {
		return nil, err
	}

	sk := url.Values{"session_key": {strconv.FormatInt(meta.SessionKey, 10)}}

	var drivers []RawDriver
	if err := c.getJSON(ctx, "/v1/drivers", sk, &drivers); err != nil {
		return nil, err
	}

	var laps, car, weather, position []Row
	if err := c.getJSON(ctx, "/v1/laps", sk, &laps); err != nil {
		return nil, err
	}
	if err := c.getJSON(ctx, "/v1/car_data", sk, &car); err != nil {
		return nil, err
	}
	if err := c.getJSON(ctx, "/v1/weather", sk, &weather); err != nil {
		return nil, err
	}
	if err := c.getJSON(ctx, "/v1/position", sk, &position); err != nil {
		return nil, err
	}

	raw := &RawSession{
		Meta:      meta,
		Drivers:   drivers,
		Laps:      laps,
		Car:       car,
		Weather:   weather,
		Position:  position,
		FetchedAt: time.Now().UTC(),
	}

	if err := c.cache.Put(slug, raw); err != nil {
		// Cache write failures degrade to a re-fetch next time.
		c.logger.Warn("Failed to write cache entry", "session", slug, "error", err)
	}

	monitor.ProviderUpstreamFetches.Inc()
	c.logger.Info("Fetched session from upstream",
		"session", slug, "laps", len(laps), "car_samples", len(car))
	return raw, nil
}

// Schedule returns the season calendar for a year. The calendar changes
// during a season, so it bypasses the disk cache.
func (c *Client) Schedule(ctx context.Context, year int) ([]ScheduleEvent, error) {
	params := url.Values{"year": {strconv.Itoa(year)}}

	var events []ScheduleEvent
	if err := c.getJSON(ctx, "/v1/schedule", params, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) findSession(ctx context.Context, q Query) (SessionMeta, error) {
	params := url.Values{
		"year":    {strconv.Itoa(q.Year)},
		"event":   {q.Event},
		"session": {q.Session},
	}

	var sessions []SessionMeta
	if err := c.getJSON(ctx, "/v1/sessions", params, &sessions); err != nil {
		return SessionMeta{}, err
	}
	if len(sessions) == 0 {
		return SessionMeta{}, fmt.Errorf("%w: %d %s %s", ErrNoSession, q.Year, q.Event, q.Session)
	}
	return sessions[0], nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		monitor.ProviderUpstreamErrors.Inc()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNoSession, path)
	case resp.StatusCode != http.StatusOK:
		monitor.ProviderUpstreamErrors.Inc()
		return fmt.Errorf("%w: %s returned %d", ErrUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return nil
}
