package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "astrobook/database/repository/booking"
	providerRepo "astrobook/database/repository/provider"
	"astrobook/models"
)

// parseDay validates an ISO date and returns its midnight in the provider's
// time zone.
func (se *DefaultSchedulingEngine) parseDay(date string, profile *models.ProviderProfile) (time.Time, error) {
	if date == "" {
		return time.Time{}, invalid("date", "is required")
	}
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return time.Time{}, invalid("date", "must be YYYY-MM-DD")
	}
	loc := profile.Location(se.DefaultTimeZone)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), nil
}

func validateInterval(start, end models.TimeOfDay) error {
	iv := models.Interval{Start: start, End: end}
	if !iv.Valid() {
		return invalid("time", "start must be before end and both within 00:00-24:00")
	}
	return nil
}

func validateBookingType(t models.BookingType) error {
	switch t {
	case models.BookingOnline, models.BookingOffline:
		return nil
	}
	return invalid("bookingType", "must be online or offline")
}

// provider resolves a profile, mapping a missing one to NotFoundError.
func (se *DefaultSchedulingEngine) provider(ctx context.Context, id string) (*models.ProviderProfile, error) {
	profile, err := se.Providers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "provider", ID: id, Err: err}
		}
		return nil, err
	}
	return profile, nil
}

// item loads a booking item, mapping a missing one to NotFoundError.
func (se *DefaultSchedulingEngine) item(ctx context.Context, id string) (*models.BookingItem, error) {
	if id == "" {
		return nil, invalid("bookingId", "is required")
	}
	it, err := se.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking item", ID: id, Err: err}
		}
		return nil, err
	}
	return it, nil
}

// activeOn lists the items occupying a provider's calendar on date.
func (se *DefaultSchedulingEngine) activeOn(ctx context.Context, providerID, date string) ([]models.BookingItem, error) {
	return se.Repo.Find(ctx, bookingRepo.NewFilter(
		bookingRepo.ForProvider(providerID),
		bookingRepo.OnDate(date),
		bookingRepo.ActiveOnly(),
	))
}
