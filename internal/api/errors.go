package api

import (
	"errors"
	"net/http"

	"github.com/abheda24/F1-TelemetryHub/internal/gateway"
	"github.com/abheda24/F1-TelemetryHub/internal/service"

	"github.com/gin-gonic/gin"
)

var ErrInvalidRequest = errors.New("invalid request")

func respondError(c *gin.Context, code int, err error) {
	c.JSON(code, ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}

func respondErrorWithDetails(c *gin.Context, code int, err error, details string) {
	c.JSON(code, ErrorResponse{
		Error:   err.Error(),
		Code:    code,
		Details: details,
	})
}

// mapGatewayError turns the gateway's three-kind error vocabulary into HTTP
// statuses. Unknown errors stay 500.
func mapGatewayError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, gateway.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, gateway.ErrNotFound), errors.Is(err, service.ErrDriverNotFound):
		return http.StatusNotFound
	case errors.Is(err, gateway.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
