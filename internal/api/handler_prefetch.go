package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abheda24/F1-TelemetryHub/internal/eventbus"
	"github.com/abheda24/F1-TelemetryHub/internal/monitor"
	"github.com/abheda24/F1-TelemetryHub/internal/service"

	"github.com/gin-gonic/gin"
)

type PrefetchHandler struct {
	svc *service.Service
}

func NewPrefetchHandler(svc *service.Service) *PrefetchHandler {
	return &PrefetchHandler{svc: svc}
}

// Enqueue POST /api/v1/prefetch
func (h *PrefetchHandler) Enqueue(c *gin.Context) {
	var req PrefetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, ErrInvalidRequest, err.Error())
		return
	}

	jobID, err := h.svc.EnqueuePrefetch(c.Request.Context(), req.Year, req.Event, req.Sessions)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusAccepted, PrefetchResponse{
		JobID:  jobID,
		Status: "queued",
	})
}

// Stream GET /api/v1/prefetch/:id/stream
// Pushes prefetch progress to the dashboard over SSE until the job reports
// done or the client disconnects.
func (h *PrefetchHandler) Stream(c *gin.Context) {
	jobID := c.Param("id")

	eventCh, err := h.svc.StreamPrefetch(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	// The server-level WriteTimeout would cut this long-lived connection
	// mid-stream, so it is disabled for this response.
	rc := http.NewResponseController(c.Writer)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		slog.Warn("Failed to disable write deadline for SSE", "error", err)
	}

	monitor.ActiveEventStreams.Inc()
	defer monitor.ActiveEventStreams.Dec()

	c.Writer.Flush()
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", data)
			c.Writer.Flush()
			if event.Type == eventbus.EventDone {
				return
			}
		}
	}
}
