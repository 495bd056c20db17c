package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/roastscrape/cache"
	"github.com/use-agent/roastscrape/models"
)

// Acquirer turns a URL into page content. *engine.Dispatcher implements it.
type Acquirer interface {
	Acquire(ctx context.Context, rawURL string) (*models.PageContent, error)
}

// Acquire returns a handler for POST /api/v1/acquire.
//
// Flow:
//  1. Parse & validate request.
//  2. Cache lookup when max_age > 0.
//  3. Acquirer.Acquire (records acquire_ms). Backend failures never surface
//     here; only invalid input does.
//  4. Cache store, fill Timing, return 200.
func Acquire(acq Acquirer, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.AcquireRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.AcquireResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		useCache := cc != nil && req.MaxAge > 0
		var cacheKey string
		if useCache {
			cacheKey = cache.Key(req.URL)
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				c.JSON(http.StatusOK, models.AcquireResponse{
					Success:     true,
					Content:     cached,
					CacheStatus: "hit",
					Timing:      models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()},
				})
				return
			}
		}

		acquireStart := time.Now()
		content, err := acq.Acquire(c.Request.Context(), req.URL)
		acquireMs := time.Since(acquireStart).Milliseconds()

		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs:   time.Since(totalStart).Milliseconds(),
				AcquireMs: acquireMs,
			})
			return
		}

		resp := models.AcquireResponse{
			Success: true,
			Content: content,
		}
		if useCache {
			cc.Set(cacheKey, content)
			resp.CacheStatus = "miss"
		}
		resp.Timing = models.TimingInfo{
			TotalMs:   time.Since(totalStart).Milliseconds(),
			AcquireMs: acquireMs,
		}
		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps an error to the correct HTTP status code and writes a
// structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		code := models.ErrCodeInternal
		if errors.Is(err, models.ErrInvalidInput) {
			code = models.ErrCodeInvalidInput
		}
		scrapeErr = models.NewScrapeError(code, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(scrapeErr), models.AcquireResponse{
		Success: false,
		Error:   scrapeErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
