// Package analysis turns normalized session bundles into the chart-ready
// series the dashboard renders: lap-time evolution, position changes, tire
// stints, telemetry statistics, driver comparison and weather trends.
package analysis

import (
	"sort"

	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"
)

type LapPoint struct {
	Lap     int     `json:"lap"`
	Seconds float64 `json:"seconds"`
}

type DriverLapSeries struct {
	Driver string     `json:"driver"`
	Team   string     `json:"team"`
	Color  string     `json:"color"`
	Points []LapPoint `json:"points"`
}

// LapTimeSeries returns one lap-time line per driver, skipping laps without
// a reported time (in/out laps, red flags).
func LapTimeSeries(data *telemetry.SessionData) []DriverLapSeries {
	byDriver := map[string][]LapPoint{}
	order := []string{}

	for _, lap := range data.Laps {
		if lap.LapTime <= 0 {
			continue
		}
		if _, seen := byDriver[lap.DriverNumber]; !seen {
			order = append(order, lap.DriverNumber)
		}
		byDriver[lap.DriverNumber] = append(byDriver[lap.DriverNumber], LapPoint{
			Lap:     lap.LapNumber,
			Seconds: lap.LapTime,
		})
	}

	series := make([]DriverLapSeries, 0, len(order))
	for _, number := range order {
		points := byDriver[number]
		sort.Slice(points, func(i, j int) bool { return points[i].Lap < points[j].Lap })

		s := DriverLapSeries{Driver: number, Points: points}
		if d, ok := data.Drivers.ByNumber(number); ok {
			s.Driver = d.Abbreviation
			s.Team = d.Team
			s.Color = d.TeamColor
		}
		series = append(series, s)
	}
	return series
}

type FastestLap struct {
	Driver    string  `json:"driver"`
	LapNumber int     `json:"lap_number"`
	Seconds   float64 `json:"seconds"`
}

// Fastest returns the overall fastest lap of the session.
func Fastest(data *telemetry.SessionData) (FastestLap, bool) {
	best := FastestLap{}
	found := false
	for _, lap := range data.Laps {
		if lap.LapTime <= 0 {
			continue
		}
		if !found || lap.LapTime < best.Seconds {
			best = FastestLap{
				Driver:    lap.DriverNumber,
				LapNumber: lap.LapNumber,
				Seconds:   lap.LapTime,
			}
			if d, ok := data.Drivers.ByNumber(lap.DriverNumber); ok {
				best.Driver = d.Abbreviation
			}
			found = true
		}
	}
	return best, found
}
