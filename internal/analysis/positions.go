package analysis

import (
	"sort"

	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"
)

type PositionPoint struct {
	Lap      int `json:"lap"`
	Position int `json:"position"`
}

type DriverPositionSeries struct {
	Driver string          `json:"driver"`
	Team   string          `json:"team"`
	Color  string          `json:"color"`
	Points []PositionPoint `json:"points"`
}

// PositionSeries returns one running-order line per driver, taken from the
// per-lap positions of the timing table.
func PositionSeries(data *telemetry.SessionData) []DriverPositionSeries {
	byDriver := map[string][]PositionPoint{}
	order := []string{}

	for _, lap := range data.Laps {
		if lap.Position <= 0 {
			continue
		}
		if _, seen := byDriver[lap.DriverNumber]; !seen {
			order = append(order, lap.DriverNumber)
		}
		byDriver[lap.DriverNumber] = append(byDriver[lap.DriverNumber], PositionPoint{
			Lap:      lap.LapNumber,
			Position: lap.Position,
		})
	}

	series := make([]DriverPositionSeries, 0, len(order))
	for _, number := range order {
		points := byDriver[number]
		sort.Slice(points, func(i, j int) bool { return points[i].Lap < points[j].Lap })

		s := DriverPositionSeries{Driver: number, Points: points}
		if d, ok := data.Drivers.ByNumber(number); ok {
			s.Driver = d.Abbreviation
			s.Team = d.Team
			s.Color = d.TeamColor
		}
		series = append(series, s)
	}
	return series
}

type FinalPosition struct {
	Position int    `json:"position"`
	Driver   string `json:"driver"`
}

// FinalOrder returns each driver's last recorded position, best first.
func FinalOrder(data *telemetry.SessionData) []FinalPosition {
	last := map[string]telemetry.Lap{}
	for _, lap := range data.Laps {
		if lap.Position <= 0 {
			continue
		}
		if prev, ok := last[lap.DriverNumber]; !ok || lap.LapNumber > prev.LapNumber {
			last[lap.DriverNumber] = lap
		}
	}

	order := make([]FinalPosition, 0, len(last))
	for number, lap := range last {
		fp := FinalPosition{Position: lap.Position, Driver: number}
		if d, ok := data.Drivers.ByNumber(number); ok {
			fp.Driver = d.Abbreviation
		}
		order = append(order, fp)
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Position < order[j].Position })
	return order
}
