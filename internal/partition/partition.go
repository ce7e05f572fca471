package partition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"

	"seatmap-backend/internal/hub"
	"seatmap-backend/internal/model"
	"seatmap-backend/internal/store"
)

// Partition owns all mutable state for one flight: its seat store and its
// subscriber hub. Every operation runs under the partition mutex, so the
// booking sequence (lookup, validate, vacate prior seat, assign, broadcast)
// completes before any other request for the same flight can observe the
// store. Nothing inside the critical section blocks: hub sends and the
// notification dispatch are both non-blocking.
type Partition struct {
	FlightID string

	mu     sync.Mutex
	store  store.SeatStore
	hub    *hub.Hub
	notify func(flightID string)
}

// New creates a partition over an already-initialized store. notify, if
// non-nil, is invoked after every successful booking; it must not block.
func New(flightID string, st store.SeatStore, h *hub.Hub, notify func(flightID string)) *Partition {
	return &Partition{
		FlightID: flightID,
		store:    st,
		hub:      h,
		notify:   notify,
	}
}

// Book assigns occupant to the given seat.
//
// It fails with ErrSeatNotFound when the seat is not in the layout and with
// ErrSeatOccupied when the seat already holds any occupant, including the
// requester. On success any other seat held by the occupant is vacated
// first, so an occupant never holds two seats, and a single snapshot
// reflecting every change is broadcast to the flight's subscribers.
func (p *Partition) Book(ctx context.Context, seatNumber, occupant string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.store.GetOccupant(ctx, seatNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeatNotFound
		}
		return fmt.Errorf("look up seat %s: %w", seatNumber, err)
	}
	if current != nil {
		return ErrSeatOccupied
	}

	if err := p.store.ClearOccupant(ctx, occupant); err != nil {
		return fmt.Errorf("vacate prior seat of %q: %w", occupant, err)
	}
	if err := p.store.SetOccupant(ctx, seatNumber, &occupant); err != nil {
		return fmt.Errorf("assign seat %s: %w", seatNumber, err)
	}

	if err := p.broadcastLocked(ctx); err != nil {
		// The booking itself is durable; only the push failed.
		log.Printf("flight %s: broadcast after booking %s failed: %v", p.FlightID, seatNumber, err)
	}
	if p.notify != nil {
		p.notify(p.FlightID)
	}
	return nil
}

// Snapshot returns the current seat map, ordered by seat number. It takes
// the partition mutex so it never observes a half-applied booking.
func (p *Partition) Snapshot(ctx context.Context) ([]model.Seat, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.ListSeats(ctx)
}

// Subscribe registers a new live subscriber and queues the current snapshot
// as its first frame. The caller owns the returned channel until it calls
// Unsubscribe.
func (p *Partition) Subscribe(ctx context.Context) (chan []byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	payload, err := p.snapshotPayloadLocked(ctx)
	if err != nil {
		return nil, err
	}
	ch := p.hub.Subscribe()
	ch <- payload // fresh buffered channel, cannot block
	return ch, nil
}

// Unsubscribe removes a subscriber and closes its channel.
func (p *Partition) Unsubscribe(ch chan []byte) {
	p.hub.Unsubscribe(ch)
}

// Subscribers reports the current number of live subscribers.
func (p *Partition) Subscribers() int {
	return p.hub.Len()
}

func (p *Partition) broadcastLocked(ctx context.Context) error {
	payload, err := p.snapshotPayloadLocked(ctx)
	if err != nil {
		return err
	}
	p.hub.Publish(payload)
	return nil
}

// snapshotPayloadLocked serializes the snapshot once; every subscriber
// receives the identical bytes.
func (p *Partition) snapshotPayloadLocked(ctx context.Context) ([]byte, error) {
	seats, err := p.store.ListSeats(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(seats)
}
