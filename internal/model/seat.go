package model

// Seat is one bookable unit in a flight's seat table. Occupant is nil while
// the seat is unassigned. Rows are created once when the partition is seeded;
// only Occupant ever changes afterwards.
type Seat struct {
	SeatNumber string  `gorm:"primaryKey;size:8" json:"seatNumber"`
	Occupant   *string `gorm:"size:256" json:"occupant"`
}
