package analysis

import (
	"sort"
	"strings"

	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"
)

type Stint struct {
	Driver   string `json:"driver"`
	Number   int    `json:"number"`
	Compound string `json:"compound"`
	StartLap int    `json:"start_lap"`
	EndLap   int    `json:"end_lap"`
	Laps     int    `json:"laps"`
}

// Stints reconstructs tire strategy: consecutive laps on the same stint
// collapse into one entry per driver. Laps without compound data are
// skipped, so sessions with no tire reporting yield an empty result, not an
// error.
func Stints(data *telemetry.SessionData) []Stint {
	type stintKey struct {
		driver string
		stint  int
	}

	byStint := map[stintKey]*Stint{}
	order := []stintKey{}

	for _, lap := range data.Laps {
		if lap.Compound == "" {
			continue
		}
		key := stintKey{driver: lap.DriverNumber, stint: lap.Stint}
		s, ok := byStint[key]
		if !ok {
			name := lap.DriverNumber
			if d, found := data.Drivers.ByNumber(lap.DriverNumber); found {
				name = d.Abbreviation
			}
			s = &Stint{
				Driver:   name,
				Number:   lap.Stint,
				Compound: strings.ToUpper(lap.Compound),
				StartLap: lap.LapNumber,
				EndLap:   lap.LapNumber,
			}
			byStint[key] = s
			order = append(order, key)
		}
		if lap.LapNumber < s.StartLap {
			s.StartLap = lap.LapNumber
		}
		if lap.LapNumber > s.EndLap {
			s.EndLap = lap.LapNumber
		}
	}

	stints := make([]Stint, 0, len(order))
	for _, key := range order {
		s := byStint[key]
		s.Laps = s.EndLap - s.StartLap + 1
		stints = append(stints, *s)
	}

	sort.SliceStable(stints, func(i, j int) bool {
		if stints[i].Driver != stints[j].Driver {
			return stints[i].Driver < stints[j].Driver
		}
		return stints[i].Number < stints[j].Number
	})
	return stints
}
