package api

import (
	"net/http"
	"strconv"

	"github.com/abheda24/F1-TelemetryHub/internal/service"
	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	svc *service.Service
}

func NewSessionHandler(svc *service.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// sessionKeyFromPath builds a SessionKey from /:year/:event/:session route
// params. Unknown session names pass through unparsed so the gateway's key
// validation produces the canonical invalid-key error.
func sessionKeyFromPath(c *gin.Context) (telemetry.SessionKey, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return telemetry.SessionKey{}, err
	}

	key := telemetry.SessionKey{
		Year:    year,
		Event:   c.Param("event"),
		Session: telemetry.SessionType(c.Param("session")),
	}
	if st, err := telemetry.ParseSessionType(c.Param("session")); err == nil {
		key.Session = st
	}
	return key, nil
}

// LoadSession POST /api/v1/sessions
func (h *SessionHandler) LoadSession(c *gin.Context) {
	var req LoadSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, ErrInvalidRequest, err.Error())
		return
	}

	key := telemetry.SessionKey{
		Year:    req.Year,
		Event:   req.Event,
		Session: telemetry.SessionType(req.Session),
	}
	if st, err := telemetry.ParseSessionType(req.Session); err == nil {
		key.Session = st
	}

	data, err := h.svc.LoadSession(c.Request.Context(), key)
	if err != nil {
		respondError(c, mapGatewayError(err), err)
		return
	}

	c.JSON(http.StatusOK, newSummary(data))
}

// GetSummary GET /api/v1/sessions/:year/:event/:session
func (h *SessionHandler) GetSummary(c *gin.Context) {
	key, err := sessionKeyFromPath(c)
	if err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, ErrInvalidRequest, err.Error())
		return
	}

	data, err := h.svc.LoadSession(c.Request.Context(), key)
	if err != nil {
		respondError(c, mapGatewayError(err), err)
		return
	}

	c.JSON(http.StatusOK, newSummary(data))
}

// GetLaps GET /api/v1/sessions/:year/:event/:session/laps
func (h *SessionHandler) GetLaps(c *gin.Context) {
	key, err := sessionKeyFromPath(c)
	if err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, ErrInvalidRequest, err.Error())
		return
	}

	series, fastest, err := h.svc.LapAnalysis(c.Request.Context(), key)
	if err != nil {
		respondError(c, mapGatewayError(err), err)
		return
	}

	c.JSON(http.StatusOK, LapsResponse{Series: series, Fastest: fastest})
}

// GetPositions GET /api/v1/sessions/:year/:event/:session/positions
func (h *SessionHandler) GetPositions(c *gin.Context) {
	key, err := sessionKeyFromPath(c)
	if err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, ErrInvalidRequest, err.Error())
		return
	}

	series, finalOrder, err := h.svc.PositionAnalysis(c.Request.Context(), key)
	if err != nil {
		respondError(c, mapGatewayError(err), err)
		return
	}

	c.JSON(http.StatusOK, PositionsResponse{Series: series, FinalOrder: finalOrder})
}

// GetStints GET /api/v1/sessions/:year/:event/:session/stints
func (h *SessionHandler) GetStints(c *gin.Context) {
	key, err := sessionKeyFromPath(c)
	if err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, ErrInvalidRequest, err.Error())
		return
	}

	stints, err := h.svc.StintAnalysis(c.Request.Context(), key)
	if err != nil {
		respondError(c, mapGatewayError(err), err)
		return
	}

	c.JSON(http.StatusOK, StintsResponse{Stints: stints})
}

// GetWeather GET /api/v1/sessions/:year/:event/:session/weather
func (h *SessionHandler) GetWeather(c *gin.Context) {
	key, err := sessionKeyFromPath(c)
	if err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, ErrInvalidRequest, err.Error())
		return
	}

	trend, current, err := h.svc.WeatherAnalysis(c.Request.Context(), key)
	if err != nil {
		respondError(c, mapGatewayError(err), err)
		return
	}

	c.JSON(http.StatusOK, WeatherResponse{Trend: trend, Current: current})
}

// GetTelemetry GET /api/v1/sessions/:year/:event/:session/telemetry/:driver
func (h *SessionHandler) GetTelemetry(c *gin.Context) {
	key, err := sessionKeyFromPath(c)
	if err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, ErrInvalidRequest, err.Error())
		return
	}

	driver, trace, stats, err := h.svc.DriverTelemetry(c.Request.Context(), key, c.Param("driver"))
	if err != nil {
		respondError(c, mapGatewayError(err), err)
		return
	}

	c.JSON(http.StatusOK, TelemetryResponse{Driver: driver, Trace: trace, Stats: stats})
}

// CompareDrivers GET /api/v1/sessions/:year/:event/:session/compare?driver1=&driver2=
func (h *SessionHandler) CompareDrivers(c *gin.Context) {
	key, err := sessionKeyFromPath(c)
	if err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, ErrInvalidRequest, err.Error())
		return
	}

	driver1 := c.Query("driver1")
	driver2 := c.Query("driver2")
	if driver1 == "" || driver2 == "" || driver1 == driver2 {
		respondErrorWithDetails(c, http.StatusBadRequest, ErrInvalidRequest,
			"driver1 and driver2 must name two distinct drivers")
		return
	}

	cmp, err := h.svc.CompareDrivers(c.Request.Context(), key, driver1, driver2)
	if err != nil {
		respondError(c, mapGatewayError(err), err)
		return
	}

	c.JSON(http.StatusOK, cmp)
}

// GetSchedule GET /api/v1/schedule/:year
func (h *SessionHandler) GetSchedule(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, ErrInvalidRequest, err.Error())
		return
	}

	events, err := h.svc.Schedule(c.Request.Context(), year)
	if err != nil {
		respondError(c, mapGatewayError(err), err)
		return
	}

	c.JSON(http.StatusOK, ScheduleResponse{Year: year, Events: events})
}

// ListRecent GET /api/v1/recent
func (h *SessionHandler) ListRecent(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.svc.RecentLoads(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, RecentResponse{Loads: newRecentLoads(records)})
}
