package eventbus

import "context"

const (
	EventSessionLoaded = "session_loaded"
	EventSessionFailed = "session_failed"
	EventDone          = "done"
)

// Event is one progress update of a background prefetch job.
type Event struct {
	Type      string `json:"type"`
	JobID     string `json:"job_id"`
	Session   string `json:"session,omitempty"`
	Message   string `json:"message,omitempty"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Timestamp int64  `json:"timestamp"`
}

type EventBus interface {
	Publish(ctx context.Context, jobID string, event Event) error
	Subscribe(ctx context.Context, jobID string) (<-chan Event, error)
}

func JobChannelKey(jobID string) string {
	return "prefetch:" + jobID + ":events"
}
