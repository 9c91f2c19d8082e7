package gateway_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/abheda24/F1-TelemetryHub/internal/gateway"
	"github.com/abheda24/F1-TelemetryHub/internal/provider"
	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	raw   *provider.RawSession
	err   error
}

func (f *fakeFetcher) LoadOrFetch(ctx context.Context, q provider.Query) (*provider.RawSession, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

type fakeHistory struct {
	records []*gateway.LoadRecord
}

func (h *fakeHistory) Record(ctx context.Context, rec *gateway.LoadRecord) error {
	h.records = append(h.records, rec)
	return nil
}

func (h *fakeHistory) Recent(ctx context.Context, limit int) ([]*gateway.LoadRecord, error) {
	return h.records, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validKey() telemetry.SessionKey {
	return telemetry.SessionKey{Year: 2024, Event: "Monaco Grand Prix", Session: telemetry.Race}
}

func sampleRaw() *provider.RawSession {
	return &provider.RawSession{
		Meta: provider.SessionMeta{
			SessionKey: 9158,
			EventName:  "Monaco Grand Prix",
			Country:    "Monaco",
			Round:      8,
		},
		Drivers: []provider.RawDriver{
			{DriverNumber: 1, Acronym: "VER", TeamName: "Red Bull Racing"},
		},
		Laps: []provider.Row{
			{"driver_number": float64(1), "lap_number": float64(1), "lap_duration": 78.3},
		},
	}
}

func TestLoadSessionInvalidKeyBeforeFetch(t *testing.T) {
	fetcher := &fakeFetcher{raw: sampleRaw()}
	g := gateway.New(gateway.Config{}, fetcher, nil, nil, testLogger())

	cases := []struct {
		name string
		key  telemetry.SessionKey
	}{
		{"empty event", telemetry.SessionKey{Year: 2024, Event: "", Session: telemetry.Race}},
		{"blank event", telemetry.SessionKey{Year: 2024, Event: "   ", Session: telemetry.Race}},
		{"year before first season", telemetry.SessionKey{Year: 1949, Event: "Monaco", Session: telemetry.Race}},
		{"year too far ahead", telemetry.SessionKey{Year: time.Now().Year() + 2, Event: "Monaco", Session: telemetry.Race}},
		{"unknown session type", telemetry.SessionKey{Year: 2024, Event: "Monaco", Session: "warmup"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.LoadSession(context.Background(), tc.key)
			assert.True(t, errors.Is(err, gateway.ErrInvalidKey), "got %v", err)
		})
	}
	assert.Equal(t, 0, fetcher.calls, "invalid keys must fail before any fetch")
}

func TestLoadSessionFirstSeasonIsValid(t *testing.T) {
	fetcher := &fakeFetcher{err: fmt.Errorf("%w: 1950 Nonexistent GP R", provider.ErrNoSession)}
	g := gateway.New(gateway.Config{}, fetcher, nil, nil, testLogger())

	key := telemetry.SessionKey{Year: 1950, Event: "Nonexistent GP", Session: telemetry.Race}
	_, err := g.LoadSession(context.Background(), key)

	assert.True(t, errors.Is(err, gateway.ErrNotFound), "got %v", err)
	assert.False(t, errors.Is(err, gateway.ErrInvalidKey))
	assert.Equal(t, 1, fetcher.calls, "a plausible key must reach the provider")
}

func TestLoadSessionErrorTranslation(t *testing.T) {
	cases := []struct {
		name        string
		providerErr error
		want        error
	}{
		{"no session", provider.ErrNoSession, gateway.ErrNotFound},
		{"upstream down", provider.ErrUnavailable, gateway.ErrUpstreamUnavailable},
		{"bad payload", provider.ErrDecode, gateway.ErrUpstreamUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := &fakeFetcher{err: fmt.Errorf("wrapped: %w", tc.providerErr)}
			g := gateway.New(gateway.Config{}, fetcher, nil, nil, testLogger())

			_, err := g.LoadSession(context.Background(), validKey())
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestLoadSessionTablesAlwaysPresent(t *testing.T) {
	raw := sampleRaw()
	raw.Laps = nil
	raw.Car = nil
	raw.Weather = nil
	raw.Position = nil

	g := gateway.New(gateway.Config{}, &fakeFetcher{raw: raw}, nil, nil, testLogger())

	data, err := g.LoadSession(context.Background(), validKey())
	require.NoError(t, err)

	assert.NotNil(t, data.Laps)
	assert.NotNil(t, data.Telemetry)
	assert.NotNil(t, data.Weather)
	assert.NotNil(t, data.Position)
	assert.True(t, data.Laps.Empty())
	assert.True(t, data.Weather.Empty())
}

func TestLoadSessionNormalizesBundle(t *testing.T) {
	g := gateway.New(gateway.Config{}, &fakeFetcher{raw: sampleRaw()}, nil, nil, testLogger())

	data, err := g.LoadSession(context.Background(), validKey())
	require.NoError(t, err)

	assert.Equal(t, validKey(), data.Key)
	assert.Equal(t, "Monaco Grand Prix", data.Event.Name)
	require.Len(t, data.Laps, 1)
	assert.Equal(t, "VER", data.Laps[0].Driver)
	assert.Equal(t, "Red Bull Racing", data.Laps[0].Team)
}

func TestLoadSessionRecordsHistory(t *testing.T) {
	history := &fakeHistory{}
	g := gateway.New(gateway.Config{}, &fakeFetcher{raw: sampleRaw()}, nil, history, testLogger())

	_, err := g.LoadSession(context.Background(), validKey())
	require.NoError(t, err)

	require.Len(t, history.records, 1)
	rec := history.records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 2024, rec.Year)
	assert.Equal(t, "Monaco Grand Prix", rec.Event)
	assert.Equal(t, 1, rec.LapCount)
	assert.Equal(t, 1, rec.DriverCount)
}
