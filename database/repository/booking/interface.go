// File: database/repository/booking/interface.go
package bookingRepo

import (
	"astrobook/database"
	"astrobook/models"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no booking item has the requested id.
	ErrNotFound = errors.New("booking item not found")
	// ErrVersionConflict is returned when an update races with another writer.
	ErrVersionConflict = errors.New("booking item was modified concurrently")
	// ErrDuplicateID is returned when an item with the same id already exists.
	ErrDuplicateID = errors.New("booking item id already exists")
)

// BookingRepository persists booking items. Items are never deleted.
type BookingRepository interface {
	Create(ctx context.Context, item *models.BookingItem) error
	GetByID(ctx context.Context, id string) (*models.BookingItem, error)
	// Find returns matching items ordered by date and start time.
	Find(ctx context.Context, filter Filter) ([]models.BookingItem, error)
	// Update replaces the stored item if its version still equals item.Version,
	// then bumps item.Version.
	Update(ctx context.Context, item *models.BookingItem) error
}

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository on the
// configured database.
func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{
		coll: database.Database().Collection("booking_items"),
	}
}
