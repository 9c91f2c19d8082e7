package api

import (
	"net/http"
	"time"

	"github.com/abheda24/F1-TelemetryHub/internal/service"

	"github.com/gin-gonic/gin"
)

func NewRouter(svc *service.Service) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())
	r.Use(RequestIDMiddleware())

	// Global health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: formatTime(time.Now()),
		})
	})

	sessionHandler := NewSessionHandler(svc)
	prefetchHandler := NewPrefetchHandler(svc)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/schedule/:year", sessionHandler.GetSchedule)
		v1.GET("/recent", sessionHandler.ListRecent)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionHandler.LoadSession)

			one := sessions.Group("/:year/:event/:session")
			{
				one.GET("", sessionHandler.GetSummary)
				one.GET("/laps", sessionHandler.GetLaps)
				one.GET("/positions", sessionHandler.GetPositions)
				one.GET("/stints", sessionHandler.GetStints)
				one.GET("/weather", sessionHandler.GetWeather)
				one.GET("/telemetry/:driver", sessionHandler.GetTelemetry)
				one.GET("/compare", sessionHandler.CompareDrivers)
			}
		}

		v1.POST("/prefetch", prefetchHandler.Enqueue)
		v1.GET("/prefetch/:id/stream", prefetchHandler.Stream)
	}

	return r
}
