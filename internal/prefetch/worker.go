package prefetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abheda24/F1-TelemetryHub/internal/eventbus"
	"github.com/abheda24/F1-TelemetryHub/internal/gateway"
	"github.com/abheda24/F1-TelemetryHub/internal/monitor"
	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"

	"github.com/hibiken/asynq"
)

// Worker warms the session cache in the background so the first dashboard
// render of a weekend does not pay the upstream fetch.
type Worker struct {
	gw     *gateway.Gateway
	bus    eventbus.EventBus
	logger *slog.Logger
}

func NewWorker(gw *gateway.Gateway, bus eventbus.EventBus, logger *slog.Logger) *Worker {
	return &Worker{
		gw:     gw,
		bus:    bus,
		logger: logger.With("component", "prefetch"),
	}
}

// HandlePrefetchEvent loads every requested session of the event through
// the gateway. Sessions the weekend never ran (a missing FP3 on sprint
// weekends) come back as not-found and only count as skipped; genuine
// upstream failures are reported but do not abort the remaining sessions.
func (w *Worker) HandlePrefetchEvent(ctx context.Context, t *asynq.Task) error {
	var p Payload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("invalid prefetch payload: %w", err)
	}

	sessions := p.Sessions
	if len(sessions) == 0 {
		sessions = defaultSessions
	}

	total := len(sessions)
	for i, s := range sessions {
		key := telemetry.SessionKey{
			Year:    p.Year,
			Event:   p.Event,
			Session: telemetry.SessionType(s),
		}
		if st, err := telemetry.ParseSessionType(s); err == nil {
			key.Session = st
		}

		_, err := w.gw.LoadSession(ctx, key)
		event := eventbus.Event{
			JobID:     p.JobID,
			Session:   key.Slug(),
			Completed: i + 1,
			Total:     total,
			Timestamp: time.Now().UnixMilli(),
		}
		switch {
		case err == nil:
			event.Type = eventbus.EventSessionLoaded
		case errors.Is(err, gateway.ErrNotFound):
			event.Type = eventbus.EventSessionLoaded
			event.Message = "no session scheduled"
		default:
			monitor.PrefetchSessionErrors.Inc()
			event.Type = eventbus.EventSessionFailed
			event.Message = err.Error()
			w.logger.Warn("Prefetch session failed", "session", key.Slug(), "error", err)
		}
		w.publish(ctx, p.JobID, event)
	}

	w.publish(ctx, p.JobID, eventbus.Event{
		Type:      eventbus.EventDone,
		JobID:     p.JobID,
		Completed: total,
		Total:     total,
		Timestamp: time.Now().UnixMilli(),
	})

	monitor.PrefetchTasksTotal.Inc()
	w.logger.Info("Prefetch job finished", "job_id", p.JobID, "year", p.Year, "event", p.Event)
	return nil
}

func (w *Worker) publish(ctx context.Context, jobID string, event eventbus.Event) {
	if err := w.bus.Publish(ctx, jobID, event); err != nil {
		w.logger.Warn("Failed to publish prefetch event", "job_id", jobID, "error", err)
	}
}
