// Package partition implements the per-flight state machine: one seat table,
// one subscriber hub, and one exclusive section serializing every booking.
package partition

import "errors"

// ErrSeatNotFound is returned when the requested seat number is not part of
// the flight's layout. Handlers should translate this into an HTTP 400
// response.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatOccupied is returned when the requested seat already holds an
// occupant. Re-booking a seat by its current occupant is rejected the same
// way. Handlers should translate this into an HTTP 400 response.
var ErrSeatOccupied = errors.New("seat not available")
