package gateway

import (
	"sort"
	"strconv"
	"time"

	"github.com/abheda24/F1-TelemetryHub/internal/provider"
	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"
)

// Column aliases, ordered by preference with the current payload generation
// first. Upstream column names and units drift between seasons; entries are
// appended here as discrepancies are discovered rather than inferred from a
// universal rule. Scale converts the raw value to the canonical unit
// (seconds, km/h); zero means no scaling.
type alias struct {
	key   string
	scale float64
}

var lapAliases = map[string][]alias{
	"driver_number": {{key: "driver_number"}, {key: "driver"}},
	"lap_number":    {{key: "lap_number"}, {key: "lap"}},
	"lap_time":      {{key: "lap_duration"}, {key: "lap_time"}, {key: "lap_time_ms", scale: 0.001}},
	"sector1":       {{key: "duration_sector_1"}, {key: "sector_1_time"}, {key: "s1_ms", scale: 0.001}},
	"sector2":       {{key: "duration_sector_2"}, {key: "sector_2_time"}, {key: "s2_ms", scale: 0.001}},
	"sector3":       {{key: "duration_sector_3"}, {key: "sector_3_time"}, {key: "s3_ms", scale: 0.001}},
	"position":      {{key: "position"}, {key: "track_position"}},
	"stint":         {{key: "stint"}, {key: "stint_number"}},
	"compound":      {{key: "compound"}, {key: "tyre_compound"}},
	"personal_best": {{key: "is_personal_best"}, {key: "personal_best"}},
}

var carAliases = map[string][]alias{
	"time":     {{key: "time"}, {key: "elapsed"}, {key: "date"}},
	"speed":    {{key: "speed"}, {key: "velocity", scale: 3.6}},
	"rpm":      {{key: "rpm"}, {key: "engine_rpm"}},
	"gear":     {{key: "n_gear"}, {key: "gear"}},
	"throttle": {{key: "throttle"}},
	"brake":    {{key: "brake"}},
	"drs":      {{key: "drs"}},
	"distance": {{key: "distance"}},
	"lap":      {{key: "lap_number"}, {key: "lap"}},
	"driver":   {{key: "driver_number"}, {key: "driver"}},
}

var weatherAliases = map[string][]alias{
	"time":           {{key: "time"}, {key: "date"}},
	"air_temp":       {{key: "air_temperature"}, {key: "air_temp"}},
	"track_temp":     {{key: "track_temperature"}, {key: "track_temp"}},
	"humidity":       {{key: "humidity"}},
	"pressure":       {{key: "pressure"}},
	"wind_speed":     {{key: "wind_speed"}},
	"wind_direction": {{key: "wind_direction"}},
	"rainfall":       {{key: "rainfall"}},
}

var positionAliases = map[string][]alias{
	"time":     {{key: "time"}, {key: "date"}},
	"driver":   {{key: "driver_number"}, {key: "driver"}},
	"position": {{key: "position"}},
}

// Normalize maps a raw provider bundle onto the fixed SessionData shape.
// Absent tables become explicitly-empty slots; telemetry is reduced to each
// driver's fastest lap with time rebased to the lap start and a Distance
// channel derived when the payload lacks one.
func Normalize(key telemetry.SessionKey, raw *provider.RawSession) *telemetry.SessionData {
	data := &telemetry.SessionData{
		Key: key,
		Event: telemetry.EventInfo{
			Name:         raw.Meta.EventName,
			OfficialName: raw.Meta.OfficialName,
			Country:      raw.Meta.Country,
			Location:     raw.Meta.Location,
			Round:        raw.Meta.Round,
			Date:         raw.Meta.DateStart,
			Session:      key.Session.Name(),
		},
		Drivers:   normalizeDrivers(raw.Drivers),
		Laps:      normalizeLaps(raw.Laps),
		Telemetry: telemetry.TelemetrySet{},
		Weather:   telemetry.WeatherTable{},
		Position:  telemetry.PositionTable{},
	}

	data.Telemetry = normalizeCar(raw.Car, data.Laps)
	data.Weather = normalizeWeather(raw.Weather)
	data.Position = normalizePosition(raw.Position)

	// Team names ride on the laps table for charting convenience.
	for i := range data.Laps {
		if d, ok := data.Drivers.ByNumber(data.Laps[i].DriverNumber); ok {
			data.Laps[i].Driver = d.Abbreviation
			data.Laps[i].Team = d.Team
		}
	}

	return data
}

func normalizeDrivers(raw []provider.RawDriver) telemetry.DriverList {
	drivers := make(telemetry.DriverList, 0, len(raw))
	for _, d := range raw {
		drivers = append(drivers, telemetry.Driver{
			Number:       strconv.Itoa(d.DriverNumber),
			Abbreviation: d.Acronym,
			FullName:     d.FullName,
			Team:         d.TeamName,
			TeamColor:    d.TeamColour,
		})
	}
	return drivers
}

func normalizeLaps(rows []provider.Row) telemetry.LapTable {
	laps := make(telemetry.LapTable, 0, len(rows))
	for _, row := range rows {
		driver, ok := rowString(row, lapAliases["driver_number"])
		if !ok {
			continue
		}
		lapNum, ok := rowInt(row, lapAliases["lap_number"])
		if !ok {
			continue
		}

		lap := telemetry.Lap{
			DriverNumber: driver,
			LapNumber:    lapNum,
		}
		lap.LapTime, _ = rowNumber(row, lapAliases["lap_time"])
		lap.Sector1, _ = rowNumber(row, lapAliases["sector1"])
		lap.Sector2, _ = rowNumber(row, lapAliases["sector2"])
		lap.Sector3, _ = rowNumber(row, lapAliases["sector3"])
		lap.Position, _ = rowInt(row, lapAliases["position"])
		lap.Stint, _ = rowInt(row, lapAliases["stint"])
		lap.Compound, _ = rowString(row, lapAliases["compound"])
		lap.IsPersonalBest, _ = rowBool(row, lapAliases["personal_best"])
		laps = append(laps, lap)
	}

	sort.SliceStable(laps, func(i, j int) bool {
		if laps[i].DriverNumber != laps[j].DriverNumber {
			return laps[i].DriverNumber < laps[j].DriverNumber
		}
		return laps[i].LapNumber < laps[j].LapNumber
	})
	return laps
}

// normalizeCar keeps, per driver, the samples of the fastest lap found in
// the timing table. Payloads that carry no lap column keep all samples for
// the driver.
func normalizeCar(rows []provider.Row, laps telemetry.LapTable) telemetry.TelemetrySet {
	fastest := fastestLapNumbers(laps)

	grouped := map[string][]telemetry.Frame{}
	for _, row := range rows {
		driver, ok := rowString(row, carAliases["driver"])
		if !ok {
			continue
		}
		if lap, hasLap := rowInt(row, carAliases["lap"]); hasLap {
			if want, tracked := fastest[driver]; tracked && lap != want {
				continue
			}
		}

		frame := telemetry.Frame{}
		frame.Time, _ = rowTime(row, carAliases["time"])
		frame.Speed, _ = rowNumber(row, carAliases["speed"])
		frame.RPM, _ = rowNumber(row, carAliases["rpm"])
		gear, _ := rowInt(row, carAliases["gear"])
		frame.Gear = gear
		frame.Throttle, _ = rowNumber(row, carAliases["throttle"])
		frame.Brake, _ = rowBool(row, carAliases["brake"])
		frame.DRS = drsOpen(row)
		frame.Distance, _ = rowNumber(row, carAliases["distance"])
		grouped[driver] = append(grouped[driver], frame)
	}

	set := telemetry.TelemetrySet{}
	for driver, frames := range grouped {
		sort.SliceStable(frames, func(i, j int) bool { return frames[i].Time < frames[j].Time })
		rebaseTime(frames)
		deriveDistance(frames)
		set[driver] = frames
	}
	return set
}

func fastestLapNumbers(laps telemetry.LapTable) map[string]int {
	best := map[string]int{}
	bestTime := map[string]float64{}
	for _, lap := range laps {
		if lap.LapTime <= 0 {
			continue
		}
		if t, ok := bestTime[lap.DriverNumber]; !ok || lap.LapTime < t {
			bestTime[lap.DriverNumber] = lap.LapTime
			best[lap.DriverNumber] = lap.LapNumber
		}
	}
	return best
}

func rebaseTime(frames []telemetry.Frame) {
	if len(frames) == 0 {
		return
	}
	t0 := frames[0].Time
	for i := range frames {
		frames[i].Time -= t0
	}
}

// deriveDistance integrates speed over time when the payload carries no
// distance channel, matching the dashboard's Distance = Δt * v / 3.6 rule.
func deriveDistance(frames []telemetry.Frame) {
	for _, f := range frames {
		if f.Distance != 0 {
			return
		}
	}
	var dist float64
	for i := range frames {
		if i > 0 {
			dt := frames[i].Time - frames[i-1].Time
			if dt > 0 {
				dist += dt * frames[i].Speed / 3.6
			}
		}
		frames[i].Distance = dist
	}
}

func normalizeWeather(rows []provider.Row) telemetry.WeatherTable {
	table := make(telemetry.WeatherTable, 0, len(rows))
	for _, row := range rows {
		s := telemetry.WeatherSample{}
		s.Time, _ = rowTime(row, weatherAliases["time"])
		s.AirTemp, _ = rowNumber(row, weatherAliases["air_temp"])
		s.TrackTemp, _ = rowNumber(row, weatherAliases["track_temp"])
		s.Humidity, _ = rowNumber(row, weatherAliases["humidity"])
		s.Pressure, _ = rowNumber(row, weatherAliases["pressure"])
		s.WindSpeed, _ = rowNumber(row, weatherAliases["wind_speed"])
		s.WindDirection, _ = rowNumber(row, weatherAliases["wind_direction"])
		s.Rainfall, _ = rowBool(row, weatherAliases["rainfall"])
		table = append(table, s)
	}

	sort.SliceStable(table, func(i, j int) bool { return table[i].Time < table[j].Time })
	if len(table) > 0 {
		t0 := table[0].Time
		for i := range table {
			table[i].Time -= t0
		}
	}
	return table
}

func normalizePosition(rows []provider.Row) telemetry.PositionTable {
	table := make(telemetry.PositionTable, 0, len(rows))
	for _, row := range rows {
		driver, ok := rowString(row, positionAliases["driver"])
		if !ok {
			continue
		}
		pos, ok := rowInt(row, positionAliases["position"])
		if !ok {
			continue
		}
		t, _ := rowTime(row, positionAliases["time"])
		table = append(table, telemetry.PositionSample{
			Time:         t,
			DriverNumber: driver,
			Position:     pos,
		})
	}

	sort.SliceStable(table, func(i, j int) bool { return table[i].Time < table[j].Time })
	if len(table) > 0 {
		t0 := table[0].Time
		for i := range table {
			table[i].Time -= t0
		}
	}
	return table
}

// DRS codes >= 10 mean the flap is open; booleans pass through.
func drsOpen(row provider.Row) bool {
	for _, a := range carAliases["drs"] {
		switch v := row[a.key].(type) {
		case bool:
			return v
		case float64:
			return v >= 10
		}
	}
	return false
}

func rowNumber(row provider.Row, aliases []alias) (float64, bool) {
	for _, a := range aliases {
		v, ok := row[a.key]
		if !ok {
			continue
		}
		var n float64
		switch t := v.(type) {
		case float64:
			n = t
		case string:
			parsed, err := strconv.ParseFloat(t, 64)
			if err != nil {
				continue
			}
			n = parsed
		default:
			continue
		}
		if a.scale != 0 {
			n *= a.scale
		}
		return n, true
	}
	return 0, false
}

func rowInt(row provider.Row, aliases []alias) (int, bool) {
	n, ok := rowNumber(row, aliases)
	return int(n), ok
}

func rowString(row provider.Row, aliases []alias) (string, bool) {
	for _, a := range aliases {
		switch v := row[a.key].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	}
	return "", false
}

func rowBool(row provider.Row, aliases []alias) (bool, bool) {
	for _, a := range aliases {
		switch v := row[a.key].(type) {
		case bool:
			return v, true
		case float64:
			return v > 0, true
		}
	}
	return false, false
}

// rowTime accepts either numeric seconds or RFC 3339 timestamps; timestamps
// become epoch seconds and callers rebase them to the table start.
func rowTime(row provider.Row, aliases []alias) (float64, bool) {
	for _, a := range aliases {
		switch v := row[a.key].(type) {
		case float64:
			return v, true
		case string:
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				return float64(ts.UnixNano()) / float64(time.Second), true
			}
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
