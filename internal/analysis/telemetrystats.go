package analysis

import (
	"math"
	"sort"

	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"
)

type SpeedStats struct {
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
}

type TraceStats struct {
	Speed           SpeedStats      `json:"speed"`
	GearUsage       map[int]float64 `json:"gear_usage"`
	DRSUsagePercent float64         `json:"drs_usage_percent"`
	AvgRPM          float64         `json:"avg_rpm"`
	MaxRPM          float64         `json:"max_rpm"`
	DistanceCovered float64         `json:"distance_covered"`
	Duration        float64         `json:"duration"`
}

// TraceStatsFor summarizes one driver's fastest-lap trace: speed extremes,
// gear usage share, DRS share, RPM and distance covered.
func TraceStatsFor(trace telemetry.Trace) TraceStats {
	stats := TraceStats{GearUsage: map[int]float64{}}
	if len(trace) == 0 {
		return stats
	}

	var speedSum, rpmSum float64
	var drsSamples int
	gearCounts := map[int]int{}

	stats.Speed.Min = math.MaxFloat64
	for _, f := range trace {
		speedSum += f.Speed
		if f.Speed > stats.Speed.Max {
			stats.Speed.Max = f.Speed
		}
		if f.Speed < stats.Speed.Min {
			stats.Speed.Min = f.Speed
		}

		rpmSum += f.RPM
		if f.RPM > stats.MaxRPM {
			stats.MaxRPM = f.RPM
		}

		gearCounts[f.Gear]++
		if f.DRS {
			drsSamples++
		}
		if f.Distance > stats.DistanceCovered {
			stats.DistanceCovered = f.Distance
		}
	}

	n := float64(len(trace))
	stats.Speed.Avg = speedSum / n
	stats.AvgRPM = rpmSum / n
	stats.DRSUsagePercent = float64(drsSamples) / n * 100
	for gear, count := range gearCounts {
		stats.GearUsage[gear] = float64(count) / n * 100
	}
	stats.Duration = trace[len(trace)-1].Time - trace[0].Time
	return stats
}

type DeltaPoint struct {
	Distance float64 `json:"distance"`
	Delta    float64 `json:"delta"`
}

type Comparison struct {
	Driver1      string       `json:"driver1"`
	Driver2      string       `json:"driver2"`
	Delta        []DeltaPoint `json:"delta"`
	MaxAdvantage float64      `json:"max_advantage"`
	MeanDelta    float64      `json:"mean_delta"`
	StdDev       float64      `json:"std_dev"`
	Favors       string       `json:"favors"`
}

// Compare aligns two speed traces on the distance axis (as-of join: each of
// driver1's samples pairs with driver2's latest sample at or before that
// distance) and reports the speed delta along the lap.
func Compare(trace1, trace2 telemetry.Trace, driver1, driver2 string) Comparison {
	cmp := Comparison{Driver1: driver1, Driver2: driver2}
	if len(trace1) == 0 || len(trace2) == 0 {
		return cmp
	}

	t1 := sortedByDistance(trace1)
	t2 := sortedByDistance(trace2)

	var deltas []float64
	j := 0
	for _, f := range t1 {
		for j+1 < len(t2) && t2[j+1].Distance <= f.Distance {
			j++
		}
		if t2[j].Distance > f.Distance {
			continue
		}
		delta := f.Speed - t2[j].Speed
		cmp.Delta = append(cmp.Delta, DeltaPoint{Distance: f.Distance, Delta: delta})
		deltas = append(deltas, delta)
	}
	if len(deltas) == 0 {
		return cmp
	}

	var sum float64
	for _, d := range deltas {
		sum += d
		if math.Abs(d) > cmp.MaxAdvantage {
			cmp.MaxAdvantage = math.Abs(d)
		}
	}
	cmp.MeanDelta = sum / float64(len(deltas))

	var variance float64
	for _, d := range deltas {
		variance += (d - cmp.MeanDelta) * (d - cmp.MeanDelta)
	}
	cmp.StdDev = math.Sqrt(variance / float64(len(deltas)))

	if cmp.MeanDelta >= 0 {
		cmp.Favors = driver1
	} else {
		cmp.Favors = driver2
	}
	return cmp
}

func sortedByDistance(trace telemetry.Trace) telemetry.Trace {
	out := make(telemetry.Trace, len(trace))
	copy(out, trace)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
