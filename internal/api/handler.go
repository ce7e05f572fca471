package api

import (
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"seatmap-backend/config"
	"seatmap-backend/internal/partition"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	registry *partition.Registry
	db       *gorm.DB
	webpush  *webpush.Options
	layout   *config.LayoutConfig
}

// NewHandler creates a new API handler.
func NewHandler(registry *partition.Registry, db *gorm.DB, webpushOptions *webpush.Options, layout *config.LayoutConfig) *Handler {
	return &Handler{
		registry: registry,
		db:       db,
		webpush:  webpushOptions,
		layout:   layout,
	}
}

const flightIDKey = "flightID"

// RequireFlight implements the outer-layer contract: every partition route
// carries a flight query parameter, and requests without one never reach a
// partition.
func RequireFlight() gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID := c.Query("flight")
		if flightID == "" {
			c.String(http.StatusNotFound, "Flight ID not found")
			c.Abort()
			return
		}
		c.Set(flightIDKey, flightID)
		c.Next()
	}
}

// partition resolves the request's flight to its partition instance. It
// reports false after writing the error response.
func (h *Handler) partition(c *gin.Context) (*partition.Partition, bool) {
	flightID := c.GetString(flightIDKey)
	p, err := h.registry.Get(c.Request.Context(), flightID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve flight"})
		return nil, false
	}
	return p, true
}
