package prefetch

// TaskPrefetchEvent warms the cache for every session of one event.
const TaskPrefetchEvent = "prefetch:event"

type Payload struct {
	JobID    string   `json:"job_id"`
	Year     int      `json:"year"`
	Event    string   `json:"event"`
	Sessions []string `json:"sessions,omitempty"`
}

// Default weekend program when the caller does not narrow it down.
var defaultSessions = []string{"FP1", "FP2", "FP3", "Q", "R"}
