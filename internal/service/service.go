package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abheda24/F1-TelemetryHub/internal/analysis"
	"github.com/abheda24/F1-TelemetryHub/internal/eventbus"
	"github.com/abheda24/F1-TelemetryHub/internal/gateway"
	"github.com/abheda24/F1-TelemetryHub/internal/prefetch"
	"github.com/abheda24/F1-TelemetryHub/internal/provider"
	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

var ErrDriverNotFound = errors.New("driver not found in session")

// Loader is the gateway surface the service consumes.
type Loader interface {
	LoadSession(ctx context.Context, key telemetry.SessionKey) (*telemetry.SessionData, error)
}

// ScheduleFetcher provides the season calendar.
type ScheduleFetcher interface {
	Schedule(ctx context.Context, year int) ([]provider.ScheduleEvent, error)
}

// Service coordinates between the gateway, chart analysis, load history and
// the prefetch queue. It is the only thing HTTP handlers talk to.
type Service struct {
	Gateway  Loader
	Provider ScheduleFetcher
	History  gateway.HistoryRepository
	Bus      eventbus.EventBus
	Queue    *asynq.Client
	Logger   *slog.Logger
}

func NewService(
	gw Loader,
	schedules ScheduleFetcher,
	history gateway.HistoryRepository,
	bus eventbus.EventBus,
	queue *asynq.Client,
	logger *slog.Logger,
) *Service {
	return &Service{
		Gateway:  gw,
		Provider: schedules,
		History:  history,
		Bus:      bus,
		Queue:    queue,
		Logger:   logger,
	}
}

// LoadSession returns the full normalized bundle for a key.
func (s *Service) LoadSession(ctx context.Context, key telemetry.SessionKey) (*telemetry.SessionData, error) {
	return s.Gateway.LoadSession(ctx, key)
}

// LapAnalysis returns the lap-time chart series and the session's fastest lap.
func (s *Service) LapAnalysis(ctx context.Context, key telemetry.SessionKey) ([]analysis.DriverLapSeries, *analysis.FastestLap, error) {
	data, err := s.Gateway.LoadSession(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	series := analysis.LapTimeSeries(data)
	if fastest, ok := analysis.Fastest(data); ok {
		return series, &fastest, nil
	}
	return series, nil, nil
}

// PositionAnalysis returns position-change series and the final order.
func (s *Service) PositionAnalysis(ctx context.Context, key telemetry.SessionKey) ([]analysis.DriverPositionSeries, []analysis.FinalPosition, error) {
	data, err := s.Gateway.LoadSession(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	return analysis.PositionSeries(data), analysis.FinalOrder(data), nil
}

// StintAnalysis returns the tire strategy of the session.
func (s *Service) StintAnalysis(ctx context.Context, key telemetry.SessionKey) ([]analysis.Stint, error) {
	data, err := s.Gateway.LoadSession(ctx, key)
	if err != nil {
		return nil, err
	}
	return analysis.Stints(data), nil
}

// WeatherAnalysis returns the trend series plus the latest conditions.
// Sessions without weather reporting yield an empty trend and nil
// conditions, not an error.
func (s *Service) WeatherAnalysis(ctx context.Context, key telemetry.SessionKey) (analysis.WeatherTrend, *analysis.CurrentConditions, error) {
	data, err := s.Gateway.LoadSession(ctx, key)
	if err != nil {
		return analysis.WeatherTrend{}, nil, err
	}
	trend := analysis.WeatherTrendFor(data.Weather)
	if current, ok := analysis.LatestConditions(data.Weather); ok {
		return trend, &current, nil
	}
	return trend, nil, nil
}

// DriverTelemetry returns one driver's fastest-lap trace and its summary
// stats. The driver may be addressed by car number or abbreviation.
func (s *Service) DriverTelemetry(ctx context.Context, key telemetry.SessionKey, driver string) (telemetry.Driver, telemetry.Trace, analysis.TraceStats, error) {
	data, err := s.Gateway.LoadSession(ctx, key)
	if err != nil {
		return telemetry.Driver{}, nil, analysis.TraceStats{}, err
	}

	d, trace, err := resolveDriver(data, driver)
	if err != nil {
		return telemetry.Driver{}, nil, analysis.TraceStats{}, err
	}
	return d, trace, analysis.TraceStatsFor(trace), nil
}

// CompareDrivers aligns two drivers' fastest-lap speed traces.
func (s *Service) CompareDrivers(ctx context.Context, key telemetry.SessionKey, driver1, driver2 string) (analysis.Comparison, error) {
	data, err := s.Gateway.LoadSession(ctx, key)
	if err != nil {
		return analysis.Comparison{}, err
	}

	d1, trace1, err := resolveDriver(data, driver1)
	if err != nil {
		return analysis.Comparison{}, err
	}
	d2, trace2, err := resolveDriver(data, driver2)
	if err != nil {
		return analysis.Comparison{}, err
	}

	return analysis.Compare(trace1, trace2, d1.Abbreviation, d2.Abbreviation), nil
}

// Schedule returns the season calendar.
func (s *Service) Schedule(ctx context.Context, year int) ([]provider.ScheduleEvent, error) {
	return s.Provider.Schedule(ctx, year)
}

// RecentLoads lists the most recently loaded sessions.
func (s *Service) RecentLoads(ctx context.Context, limit int) ([]*gateway.LoadRecord, error) {
	if s.History == nil {
		return nil, nil
	}
	return s.History.Recent(ctx, limit)
}

// EnqueuePrefetch schedules a background cache warm-up for an event and
// returns the job ID clients use to stream progress.
func (s *Service) EnqueuePrefetch(ctx context.Context, year int, event string, sessions []string) (string, error) {
	if s.Queue == nil {
		return "", fmt.Errorf("prefetch queue not configured")
	}

	jobID := uuid.New().String()
	payload, err := json.Marshal(prefetch.Payload{
		JobID:    jobID,
		Year:     year,
		Event:    event,
		Sessions: sessions,
	})
	if err != nil {
		return "", err
	}

	info, err := s.Queue.EnqueueContext(ctx, asynq.NewTask(prefetch.TaskPrefetchEvent, payload))
	if err != nil {
		return "", err
	}

	s.Logger.Info("Prefetch enqueued",
		slog.String("job_id", jobID), slog.String("task_id", info.ID),
		slog.Int("year", year), slog.String("event", event))
	return jobID, nil
}

// StreamPrefetch subscribes to a prefetch job's progress events.
func (s *Service) StreamPrefetch(ctx context.Context, jobID string) (<-chan eventbus.Event, error) {
	if s.Bus == nil {
		return nil, fmt.Errorf("event bus not configured")
	}
	return s.Bus.Subscribe(ctx, jobID)
}

func resolveDriver(data *telemetry.SessionData, driver string) (telemetry.Driver, telemetry.Trace, error) {
	d, ok := data.Drivers.ByNumber(driver)
	if !ok {
		d, ok = data.Drivers.ByAbbreviation(driver)
	}
	if !ok {
		return telemetry.Driver{}, nil, fmt.Errorf("%w: %s", ErrDriverNotFound, driver)
	}

	trace, ok := data.Telemetry[d.Number]
	if !ok {
		trace = telemetry.Trace{}
	}
	return d, trace, nil
}
