package providerRepo

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"astrobook/models"
)

// MemoryProviderRepo is a process-local ProviderRepository for the "memory"
// storage driver and tests.
type MemoryProviderRepo struct {
	mu       sync.RWMutex
	profiles map[string]models.ProviderProfile
}

func NewMemoryProviderRepo(profiles ...models.ProviderProfile) *MemoryProviderRepo {
	r := &MemoryProviderRepo{profiles: make(map[string]models.ProviderProfile, len(profiles))}
	for _, p := range profiles {
		p.WorkingDays = slices.Clone(p.WorkingDays)
		r.profiles[p.ID] = p
	}
	return r
}

func (r *MemoryProviderRepo) GetByID(_ context.Context, id string) (*models.ProviderProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("provider %s: %w", id, ErrNotFound)
	}
	p.WorkingDays = slices.Clone(p.WorkingDays)
	return &p, nil
}

func (r *MemoryProviderRepo) Upsert(_ context.Context, profile *models.ProviderProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := *profile
	p.WorkingDays = slices.Clone(p.WorkingDays)
	r.profiles[p.ID] = p
	return nil
}
