package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seatmap-backend/internal/model"
)

// SeatStore is the durable seat table for a single flight partition.
//
// GetOccupant returns gorm.ErrRecordNotFound (possibly wrapped) when the seat
// number is not part of the partition's layout. Callers are expected to run
// store operations under the partition's exclusive section; the store itself
// performs no locking.
type SeatStore interface {
	// Initialize idempotently ensures the seat table exists. On first call it
	// creates the table and seeds every seat unoccupied; on restart it detects
	// the existing table and leaves all occupancy untouched.
	Initialize(ctx context.Context) error
	GetOccupant(ctx context.Context, seatNumber string) (*string, error)
	SetOccupant(ctx context.Context, seatNumber string, occupant *string) error
	// ClearOccupant vacates whichever seat the occupant currently holds, if any.
	ClearOccupant(ctx context.Context, occupant string) error
	// ListSeats returns the full snapshot, ordered by seat number.
	ListSeats(ctx context.Context) ([]model.Seat, error)
}

// gormSeatStore implements SeatStore on one table per flight.
type gormSeatStore struct {
	db    *gorm.DB
	table string
	seats []string
}

// NewGormSeatStore creates a store bound to the given flight's seat table.
// seatNumbers is the layout seeded on first initialization.
func NewGormSeatStore(db *gorm.DB, flightID string, seatNumbers []string) SeatStore {
	return &gormSeatStore{
		db:    db,
		table: tableName(flightID),
		seats: seatNumbers,
	}
}

// tableName derives a safe table name from an externally supplied flight
// identifier. Anything outside [a-z0-9] maps to '_'; the prefix keeps
// distinct flights from colliding with base tables.
func tableName(flightID string) string {
	var b strings.Builder
	b.WriteString("seats_")
	for _, r := range strings.ToLower(flightID) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func (s *gormSeatStore) Initialize(ctx context.Context) error {
	tx := s.db.WithContext(ctx)
	if tx.Migrator().HasTable(s.table) {
		return nil
	}

	if err := tx.Table(s.table).AutoMigrate(&model.Seat{}); err != nil {
		return fmt.Errorf("create seat table %s: %w", s.table, err)
	}

	if len(s.seats) == 0 {
		return nil
	}
	rows := make([]model.Seat, 0, len(s.seats))
	for _, n := range s.seats {
		rows = append(rows, model.Seat{SeatNumber: n})
	}
	// OnConflict DoNothing keeps seeding safe even if a previous seed was
	// interrupted between table creation and row insertion.
	if err := tx.Table(s.table).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("seed seat table %s: %w", s.table, err)
	}
	return nil
}

func (s *gormSeatStore) GetOccupant(ctx context.Context, seatNumber string) (*string, error) {
	var seat model.Seat
	err := s.db.WithContext(ctx).Table(s.table).
		Where("seat_number = ?", seatNumber).
		Take(&seat).Error
	if err != nil {
		return nil, err
	}
	return seat.Occupant, nil
}

func (s *gormSeatStore) SetOccupant(ctx context.Context, seatNumber string, occupant *string) error {
	err := s.db.WithContext(ctx).Table(s.table).
		Where("seat_number = ?", seatNumber).
		Update("occupant", occupant).Error
	if err != nil {
		return fmt.Errorf("update seat %s: %w", seatNumber, err)
	}
	return nil
}

func (s *gormSeatStore) ClearOccupant(ctx context.Context, occupant string) error {
	err := s.db.WithContext(ctx).Table(s.table).
		Where("occupant = ?", occupant).
		Update("occupant", nil).Error
	if err != nil {
		return fmt.Errorf("clear occupant %s: %w", occupant, err)
	}
	return nil
}

func (s *gormSeatStore) ListSeats(ctx context.Context) ([]model.Seat, error) {
	var seats []model.Seat
	err := s.db.WithContext(ctx).Table(s.table).
		Order("seat_number").
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	return seats, nil
}
