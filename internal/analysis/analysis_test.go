package analysis_test

import (
	"testing"

	"github.com/abheda24/F1-TelemetryHub/internal/analysis"
	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raceData() *telemetry.SessionData {
	return &telemetry.SessionData{
		Key: telemetry.SessionKey{Year: 2024, Event: "Monaco Grand Prix", Session: telemetry.Race},
		Drivers: telemetry.DriverList{
			{Number: "1", Abbreviation: "VER", Team: "Red Bull Racing", TeamColor: "3671C6"},
			{Number: "16", Abbreviation: "LEC", Team: "Ferrari", TeamColor: "E80020"},
		},
		Laps: telemetry.LapTable{
			{DriverNumber: "1", LapNumber: 1, LapTime: 0, Position: 2, Stint: 1, Compound: "soft"},
			{DriverNumber: "1", LapNumber: 2, LapTime: 78.9, Position: 2, Stint: 1, Compound: "soft"},
			{DriverNumber: "1", LapNumber: 3, LapTime: 78.1, Position: 1, Stint: 2, Compound: "hard"},
			{DriverNumber: "16", LapNumber: 1, LapTime: 79.4, Position: 1, Stint: 1, Compound: "medium"},
			{DriverNumber: "16", LapNumber: 2, LapTime: 79.0, Position: 1, Stint: 1, Compound: "medium"},
			{DriverNumber: "16", LapNumber: 3, LapTime: 79.2, Position: 2, Stint: 1, Compound: "medium"},
		},
		Telemetry: telemetry.TelemetrySet{},
		Weather:   telemetry.WeatherTable{},
		Position:  telemetry.PositionTable{},
	}
}

func TestLapTimeSeriesSkipsUntimedLaps(t *testing.T) {
	series := analysis.LapTimeSeries(raceData())
	require.Len(t, series, 2)

	ver := series[0]
	assert.Equal(t, "VER", ver.Driver)
	assert.Equal(t, "Red Bull Racing", ver.Team)
	require.Len(t, ver.Points, 2, "lap 1 has no time and must be skipped")
	assert.Equal(t, 2, ver.Points[0].Lap)

	lec := series[1]
	assert.Equal(t, "LEC", lec.Driver)
	assert.Len(t, lec.Points, 3)
}

func TestFastest(t *testing.T) {
	best, ok := analysis.Fastest(raceData())
	require.True(t, ok)
	assert.Equal(t, "VER", best.Driver)
	assert.Equal(t, 3, best.LapNumber)
	assert.InDelta(t, 78.1, best.Seconds, 1e-9)
}

func TestFastestEmptySession(t *testing.T) {
	_, ok := analysis.Fastest(&telemetry.SessionData{})
	assert.False(t, ok)
}

func TestStints(t *testing.T) {
	stints := analysis.Stints(raceData())
	require.Len(t, stints, 3)

	assert.Equal(t, analysis.Stint{
		Driver: "LEC", Number: 1, Compound: "MEDIUM", StartLap: 1, EndLap: 3, Laps: 3,
	}, stints[0])
	assert.Equal(t, analysis.Stint{
		Driver: "VER", Number: 1, Compound: "SOFT", StartLap: 1, EndLap: 2, Laps: 2,
	}, stints[1])
	assert.Equal(t, analysis.Stint{
		Driver: "VER", Number: 2, Compound: "HARD", StartLap: 3, EndLap: 3, Laps: 1,
	}, stints[2])
}

func TestStintsWithoutCompoundData(t *testing.T) {
	data := &telemetry.SessionData{
		Laps: telemetry.LapTable{
			{DriverNumber: "1", LapNumber: 1, LapTime: 80.0},
		},
	}
	assert.Empty(t, analysis.Stints(data))
}

func TestPositionSeriesAndFinalOrder(t *testing.T) {
	data := raceData()

	series := analysis.PositionSeries(data)
	require.Len(t, series, 2)
	assert.Equal(t, "VER", series[0].Driver)
	assert.Len(t, series[0].Points, 3)

	order := analysis.FinalOrder(data)
	require.Len(t, order, 2)
	assert.Equal(t, analysis.FinalPosition{Position: 1, Driver: "VER"}, order[0])
	assert.Equal(t, analysis.FinalPosition{Position: 2, Driver: "LEC"}, order[1])
}

func TestTraceStatsFor(t *testing.T) {
	trace := telemetry.Trace{
		{Time: 0, Speed: 100, RPM: 9000, Gear: 3, DRS: false, Distance: 0},
		{Time: 1, Speed: 200, RPM: 11000, Gear: 5, DRS: true, Distance: 50},
		{Time: 2, Speed: 300, RPM: 12000, Gear: 8, DRS: true, Distance: 120},
		{Time: 3, Speed: 200, RPM: 11000, Gear: 8, DRS: false, Distance: 180},
	}

	stats := analysis.TraceStatsFor(trace)
	assert.Equal(t, float64(300), stats.Speed.Max)
	assert.Equal(t, float64(100), stats.Speed.Min)
	assert.Equal(t, float64(200), stats.Speed.Avg)
	assert.Equal(t, float64(12000), stats.MaxRPM)
	assert.Equal(t, float64(50), stats.DRSUsagePercent)
	assert.Equal(t, float64(180), stats.DistanceCovered)
	assert.Equal(t, float64(3), stats.Duration)
	assert.InDelta(t, 50.0, stats.GearUsage[8], 1e-9)
	assert.InDelta(t, 25.0, stats.GearUsage[3], 1e-9)
}

func TestTraceStatsForEmptyTrace(t *testing.T) {
	stats := analysis.TraceStatsFor(telemetry.Trace{})
	assert.Zero(t, stats.Speed.Max)
	assert.NotNil(t, stats.GearUsage)
}

func TestCompare(t *testing.T) {
	trace1 := telemetry.Trace{
		{Distance: 0, Speed: 100},
		{Distance: 100, Speed: 210},
		{Distance: 200, Speed: 260},
	}
	trace2 := telemetry.Trace{
		{Distance: 0, Speed: 100},
		{Distance: 90, Speed: 200},
		{Distance: 210, Speed: 240},
	}

	cmp := analysis.Compare(trace1, trace2, "VER", "LEC")
	assert.Equal(t, "VER", cmp.Driver1)
	assert.Equal(t, "LEC", cmp.Driver2)
	require.Len(t, cmp.Delta, 3)

	// Each point pairs with the rival's latest sample at or before it.
	assert.Equal(t, analysis.DeltaPoint{Distance: 0, Delta: 0}, cmp.Delta[0])
	assert.Equal(t, analysis.DeltaPoint{Distance: 100, Delta: 10}, cmp.Delta[1])
	assert.Equal(t, analysis.DeltaPoint{Distance: 200, Delta: 60}, cmp.Delta[2])

	assert.Equal(t, float64(60), cmp.MaxAdvantage)
	assert.InDelta(t, 70.0/3.0, cmp.MeanDelta, 1e-9)
	assert.Equal(t, "VER", cmp.Favors)
}

func TestCompareEmptyTrace(t *testing.T) {
	cmp := analysis.Compare(telemetry.Trace{}, telemetry.Trace{{Distance: 0, Speed: 100}}, "VER", "LEC")
	assert.Empty(t, cmp.Delta)
	assert.Empty(t, cmp.Favors)
}

func TestWeatherTrendAndConditions(t *testing.T) {
	table := telemetry.WeatherTable{
		{Time: 0, AirTemp: 25, TrackTemp: 40, Humidity: 55, WindSpeed: 2.5},
		{Time: 60, AirTemp: 26, TrackTemp: 42, Humidity: 54, WindSpeed: 3.0, Rainfall: true},
	}

	trend := analysis.WeatherTrendFor(table)
	assert.Equal(t, []float64{0, 60}, trend.Time)
	assert.Equal(t, []float64{40, 42}, trend.TrackTemp)

	current, ok := analysis.LatestConditions(table)
	require.True(t, ok)
	assert.Equal(t, float64(26), current.AirTemp)
	assert.True(t, current.Rainfall)

	_, ok = analysis.LatestConditions(telemetry.WeatherTable{})
	assert.False(t, ok)
}
