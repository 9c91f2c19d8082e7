package analysis

import "github.com/abheda24/F1-TelemetryHub/internal/telemetry"

type WeatherTrend struct {
	Time      []float64 `json:"time"`
	TrackTemp []float64 `json:"track_temp"`
	AirTemp   []float64 `json:"air_temp"`
	Humidity  []float64 `json:"humidity"`
	WindSpeed []float64 `json:"wind_speed"`
}

// WeatherTrendFor splits the weather table into parallel series for the
// trend chart.
func WeatherTrendFor(table telemetry.WeatherTable) WeatherTrend {
	trend := WeatherTrend{
		Time:      make([]float64, 0, len(table)),
		TrackTemp: make([]float64, 0, len(table)),
		AirTemp:   make([]float64, 0, len(table)),
		Humidity:  make([]float64, 0, len(table)),
		WindSpeed: make([]float64, 0, len(table)),
	}
	for _, s := range table {
		trend.Time = append(trend.Time, s.Time)
		trend.TrackTemp = append(trend.TrackTemp, s.TrackTemp)
		trend.AirTemp = append(trend.AirTemp, s.AirTemp)
		trend.Humidity = append(trend.Humidity, s.Humidity)
		trend.WindSpeed = append(trend.WindSpeed, s.WindSpeed)
	}
	return trend
}

type CurrentConditions struct {
	TrackTemp float64 `json:"track_temp"`
	AirTemp   float64 `json:"air_temp"`
	Humidity  float64 `json:"humidity"`
	WindSpeed float64 `json:"wind_speed"`
	Rainfall  bool    `json:"rainfall"`
}

// LatestConditions returns the newest weather sample, ok=false when the
// session reported no weather.
func LatestConditions(table telemetry.WeatherTable) (CurrentConditions, bool) {
	if table.Empty() {
		return CurrentConditions{}, false
	}
	last := table[len(table)-1]
	return CurrentConditions{
		TrackTemp: last.TrackTemp,
		AirTemp:   last.AirTemp,
		Humidity:  last.Humidity,
		WindSpeed: last.WindSpeed,
		Rainfall:  last.Rainfall,
	}, true
}
