package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/roastscrape/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// StatsFunc reports the current browser state. Nil means no browser backend.
type StatsFunc func() models.BrowserStats

// Health returns a handler for GET /api/v1/health.
//
// Status degrades when more than 80% of browser workers are busy, or when
// the browser backend is enabled but its process has died after launching.
func Health(plan []models.BackendCapability, stats StatsFunc, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bs models.BrowserStats
		if stats != nil {
			bs = stats()
		}

		status := "healthy"
		if bs.MaxWorkers > 0 && bs.ActiveWorkers > int(float64(bs.MaxWorkers)*0.8) {
			status = "degraded"
		}
		if bs.Enabled && bs.Launches > 0 && !bs.Live {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:       status,
			Uptime:       time.Since(startTime).Round(time.Second).String(),
			BrowserStats: bs,
			Plan:         plan,
			Version:      Version,
		})
	}
}
