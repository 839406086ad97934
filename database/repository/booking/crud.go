package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"astrobook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoBookingRepo) Create(ctx context.Context, item *models.BookingItem) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create booking item %s: %w", item.ID, ErrDuplicateID)
		}
		return fmt.Errorf("failed to create booking item %s: %w", item.ID, err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.BookingItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var item models.BookingItem
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking item %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch booking item %s: %w", id, err)
	}
	return &item, nil
}

func (r *MongoBookingRepo) Find(ctx context.Context, filter Filter) ([]models.BookingItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter.BSON(), opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching booking items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.BookingItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("error decoding booking items: %w", err)
	}
	return items, nil
}

func (r *MongoBookingRepo) Update(ctx context.Context, item *models.BookingItem) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	next := *item
	next.Version = item.Version + 1

	filter := bson.M{"id": item.ID, "version": item.Version}
	res, err := r.coll.ReplaceOne(ctx, filter, &next)
	if err != nil {
		return fmt.Errorf("failed to update booking item %s: %w", item.ID, err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, item.ID); err != nil {
			return err
		}
		return fmt.Errorf("booking item %s at version %d: %w", item.ID, item.Version, ErrVersionConflict)
	}
	item.Version = next.Version
	return nil
}
