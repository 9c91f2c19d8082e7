package repo

import "time"

const recentCacheTTL = time.Minute

const recentCacheKey = "history:recent"

// The cached recent-loads list always holds up to this many rows regardless
// of the limit a caller asked for, so one entry can serve any smaller page.
const recentCacheMax = 50

type LoadRecordModel struct {
	tableName struct{} `pg:"load_records"`

	ID          string    `json:"id" pg:"id,pk"`
	Year        int       `json:"year" pg:"year,notnull"`
	Event       string    `json:"event" pg:"event,notnull"`
	Session     string    `json:"session" pg:"session,notnull"`
	LapCount    int       `json:"lap_count" pg:"lap_count,notnull,use_zero"`
	DriverCount int       `json:"driver_count" pg:"driver_count,notnull,use_zero"`
	CarSamples  int       `json:"car_samples" pg:"car_samples,notnull,use_zero"`
	LoadedAt    time.Time `json:"loaded_at" pg:"loaded_at,notnull"`
}
