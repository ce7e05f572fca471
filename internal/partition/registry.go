package partition

import (
	"context"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"seatmap-backend/internal/hub"
	"seatmap-backend/internal/store"
)

// Registry resolves flight identifiers to partition instances, creating each
// lazily on first access. Partitions never expire; the same flight ID always
// yields the same instance for the life of the process. Different flights
// share nothing beyond the database handle.
type Registry struct {
	mu     sync.Mutex
	parts  *cache.Cache
	db     *gorm.DB
	seats  []string
	notify func(flightID string)
}

// NewRegistry creates a registry seeding every new partition with the given
// seat layout. notify is forwarded to each partition and may be nil.
func NewRegistry(db *gorm.DB, seatNumbers []string, notify func(flightID string)) *Registry {
	return &Registry{
		parts:  cache.New(cache.NoExpiration, 0),
		db:     db,
		seats:  seatNumbers,
		notify: notify,
	}
}

// Get returns the partition for flightID, initializing its seat table on
// first access. Concurrent first requests for the same flight build exactly
// one partition.
func (r *Registry) Get(ctx context.Context, flightID string) (*Partition, error) {
	if v, ok := r.parts.Get(flightID); ok {
		return v.(*Partition), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.parts.Get(flightID); ok {
		return v.(*Partition), nil
	}

	st := store.NewGormSeatStore(r.db, flightID, r.seats)
	if err := st.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize partition for flight %s: %w", flightID, err)
	}

	p := New(flightID, st, hub.New(), r.notify)
	r.parts.Set(flightID, p, cache.NoExpiration)
	return p, nil
}
