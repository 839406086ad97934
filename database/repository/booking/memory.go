package bookingRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"astrobook/models"
)

// MemoryBookingRepo is a process-local BookingRepository used by the
// "memory" storage driver and by tests.
type MemoryBookingRepo struct {
	mu    sync.RWMutex
	items map[string]models.BookingItem
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{items: make(map[string]models.BookingItem)}
}

// clone copies the pointer fields so callers never share state with the store.
func clone(item models.BookingItem) models.BookingItem {
	if item.Customer != nil {
		c := *item.Customer
		item.Customer = &c
	}
	if item.Reschedule != nil {
		a := *item.Reschedule
		item.Reschedule = &a
	}
	return item
}

func (r *MemoryBookingRepo) Create(_ context.Context, item *models.BookingItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("create booking item %s: %w", item.ID, ErrDuplicateID)
	}
	r.items[item.ID] = clone(*item)
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id string) (*models.BookingItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("booking item %s: %w", id, ErrNotFound)
	}
	out := clone(item)
	return &out, nil
}

func (r *MemoryBookingRepo) Find(_ context.Context, filter Filter) ([]models.BookingItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.BookingItem
	for _, item := range r.items {
		if filter.Matches(item) {
			out = append(out, clone(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryBookingRepo) Update(_ context.Context, item *models.BookingItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("booking item %s: %w", item.ID, ErrNotFound)
	}
	if stored.Version != item.Version {
		return fmt.Errorf("booking item %s at version %d: %w", item.ID, item.Version, ErrVersionConflict)
	}
	item.Version++
	r.items[item.ID] = clone(*item)
	return nil
}
