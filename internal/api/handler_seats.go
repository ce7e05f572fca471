package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seatmap-backend/internal/partition"
)

// GetSeats handles the GET /seats request, returning the flight's current
// occupancy snapshot.
func (h *Handler) GetSeats(c *gin.Context) {
	p, ok := h.partition(c)
	if !ok {
		return
	}

	seats, err := p.Snapshot(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve seats"})
		return
	}
	c.JSON(http.StatusOK, seats)
}

type bookSeatRequest struct {
	SeatNumber string `json:"seatNumber" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

// BookSeat handles the POST /book-seat request.
func (h *Handler) BookSeat(c *gin.Context) {
	var req bookSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid booking request")
		return
	}

	p, ok := h.partition(c)
	if !ok {
		return
	}

	err := p.Book(c.Request.Context(), req.SeatNumber, req.Name)
	switch {
	case err == nil:
		c.String(http.StatusOK, "Seat %s booked successfully", req.SeatNumber)
	case errors.Is(err, partition.ErrSeatNotFound):
		c.String(http.StatusBadRequest, "Seat not found")
	case errors.Is(err, partition.ErrSeatOccupied):
		c.String(http.StatusBadRequest, "Seat not available")
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to book seat"})
	}
}

// layoutResponse describes the static seat layout shared by all flights.
type layoutResponse struct {
	Rows      int      `json:"rows"`
	Columns   []string `json:"columns"`
	SeatCount int      `json:"seatCount"`
}

// GetLayout handles the GET /api/layout request.
func (h *Handler) GetLayout(c *gin.Context) {
	columns := make([]string, 0, len(h.layout.Columns))
	for _, col := range h.layout.Columns {
		columns = append(columns, string(col))
	}
	c.JSON(http.StatusOK, layoutResponse{
		Rows:      h.layout.Rows,
		Columns:   columns,
		SeatCount: h.layout.Rows * len(columns),
	})
}
