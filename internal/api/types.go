package api

import (
	"time"

	"github.com/abheda24/F1-TelemetryHub/internal/analysis"
	"github.com/abheda24/F1-TelemetryHub/internal/gateway"
	"github.com/abheda24/F1-TelemetryHub/internal/provider"
	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"
)

type LoadSessionRequest struct {
	Year    int    `json:"year" binding:"required"`
	Event   string `json:"event" binding:"required"`
	Session string `json:"session" binding:"required"`
}

type SessionSummaryResponse struct {
	Key              telemetry.SessionKey `json:"key"`
	Event            telemetry.EventInfo  `json:"event"`
	Drivers          telemetry.DriverList `json:"drivers"`
	LapCount         int                  `json:"lap_count"`
	TelemetryDrivers int                  `json:"telemetry_drivers"`
	WeatherSamples   int                  `json:"weather_samples"`
	PositionSamples  int                  `json:"position_samples"`
}

type LapsResponse struct {
	Series  []analysis.DriverLapSeries `json:"series"`
	Fastest *analysis.FastestLap       `json:"fastest,omitempty"`
}

type PositionsResponse struct {
	Series     []analysis.DriverPositionSeries `json:"series"`
	FinalOrder []analysis.FinalPosition        `json:"final_order"`
}

type StintsResponse struct {
	Stints []analysis.Stint `json:"stints"`
}

type WeatherResponse struct {
	Trend   analysis.WeatherTrend       `json:"trend"`
	Current *analysis.CurrentConditions `json:"current,omitempty"`
}

type TelemetryResponse struct {
	Driver telemetry.Driver    `json:"driver"`
	Trace  telemetry.Trace     `json:"trace"`
	Stats  analysis.TraceStats `json:"stats"`
}

type ScheduleResponse struct {
	Year   int                      `json:"year"`
	Events []provider.ScheduleEvent `json:"events"`
}

type RecentLoad struct {
	Year        int    `json:"year"`
	Event       string `json:"event"`
	Session     string `json:"session"`
	LapCount    int    `json:"lap_count"`
	DriverCount int    `json:"driver_count"`
	LoadedAt    string `json:"loaded_at"`
}

type RecentResponse struct {
	Loads []RecentLoad `json:"loads"`
}

type PrefetchRequest struct {
	Year     int      `json:"year" binding:"required"`
	Event    string   `json:"event" binding:"required"`
	Sessions []string `json:"sessions"`
}

type PrefetchResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

func newSummary(data *telemetry.SessionData) SessionSummaryResponse {
	return SessionSummaryResponse{
		Key:              data.Key,
		Event:            data.Event,
		Drivers:          data.Drivers,
		LapCount:         len(data.Laps),
		TelemetryDrivers: len(data.Telemetry),
		WeatherSamples:   len(data.Weather),
		PositionSamples:  len(data.Position),
	}
}

func newRecentLoads(records []*gateway.LoadRecord) []RecentLoad {
	loads := make([]RecentLoad, 0, len(records))
	for _, r := range records {
		loads = append(loads, RecentLoad{
			Year:        r.Year,
			Event:       r.Event,
			Session:     r.Session,
			LapCount:    r.LapCount,
			DriverCount: r.DriverCount,
			LoadedAt:    formatTime(r.LoadedAt),
		})
	}
	return loads
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
