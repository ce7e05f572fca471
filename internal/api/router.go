package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"seatmap-backend/config"
	"seatmap-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	flight := RequireFlight()

	// Partition surface. The websocket route skips the rate limiter: one
	// long-lived connection, not a request stream.
	r.GET("/seats", rateLimiter, flight, h.GetSeats)
	r.POST("/book-seat", rateLimiter, flight, h.BookSeat)
	r.GET("/ws", flight, h.LiveSeats)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// GET /api/layout is static metadata and the one cacheable route;
		// /seats must always reflect the latest booking and is never cached.
		api.GET("/layout", caching, h.GetLayout)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not found")
	})

	return r
}
