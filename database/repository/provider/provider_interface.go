package providerRepo

import (
	"context"
	"errors"

	"astrobook/models"
)

// ErrNotFound is returned when no provider has the requested id.
var ErrNotFound = errors.New("provider not found")

// ProviderRepository resolves provider ids to their scheduling profiles.
type ProviderRepository interface {
	// GetByID retrieves a provider profile by its unique ID.
	GetByID(ctx context.Context, id string) (*models.ProviderProfile, error)
	// Upsert creates or replaces a provider profile.
	Upsert(ctx context.Context, profile *models.ProviderProfile) error
}
