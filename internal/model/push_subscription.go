package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Each subscription watches a single flight and is notified out of band
// whenever a seat on that flight is booked.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	FlightID  string    `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
