package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"astrobook/database/lock"
	bookingRepo "astrobook/database/repository/booking"
	providerRepo "astrobook/database/repository/provider"
	"astrobook/models"
	"astrobook/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSchedulingEngine is our production-grade scheduler.
type DefaultSchedulingEngine struct {
	Repo         bookingRepo.BookingRepository
	Providers    providerRepo.ProviderRepository
	Locks        lock.Locker
	SessionLinks SessionLinkProvider
	Events       notification.Publisher
	Logger       *zap.Logger

	// DefaultTimeZone applies to profiles without their own.
	DefaultTimeZone string
	// LockTimeout bounds how long a write waits for the calendar lock.
	LockTimeout time.Duration
	// Now is the clock; tests replace it.
	Now func() time.Time
}

var _ SchedulingEngine = (*DefaultSchedulingEngine)(nil)

func (se *DefaultSchedulingEngine) now() time.Time {
	if se.Now != nil {
		return se.Now()
	}
	return time.Now()
}

func (se *DefaultSchedulingEngine) logger() *zap.Logger {
	if se.Logger == nil {
		return zap.NewNop()
	}
	return se.Logger
}

// lockCalendars serializes writers on every (provider, date) pair touched.
func (se *DefaultSchedulingEngine) lockCalendars(ctx context.Context, keys ...string) (func(), error) {
	timeout := se.LockTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	lctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	release, err := lock.LockAll(lctx, se.Locks, keys...)
	if err != nil {
		return nil, fmt.Errorf("calendar busy: %w", err)
	}
	var once sync.Once
	return func() { once.Do(release) }, nil
}

// publish notifies observers of a committed transition. Failures are logged;
// the transition already happened.
func (se *DefaultSchedulingEngine) publish(ctx context.Context, t models.BookingEventType, item *models.BookingItem) {
	if se.Events == nil {
		return
	}
	startsAt, _, err := se.SessionWindow(ctx, item)
	if err != nil {
		startsAt = item.UpdatedAt
	}
	ev := models.NewBookingEvent(t, *item, startsAt, se.now())
	if err := se.Events.Publish(ctx, ev); err != nil {
		se.logger().Warn("failed to publish booking event",
			zap.String("type", string(t)),
			zap.String("bookingId", item.ID),
			zap.Error(err),
		)
	}
}

// SessionWindow returns the absolute start and end of a booking in its
// provider's time zone.
func (se *DefaultSchedulingEngine) SessionWindow(ctx context.Context, item *models.BookingItem) (time.Time, time.Time, error) {
	profile, err := se.provider(ctx, item.ProviderID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	day, err := se.parseDay(item.Date, profile)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return item.StartTime.On(day), item.EndTime.On(day), nil
}

// GetBooking returns a single booking item.
func (se *DefaultSchedulingEngine) GetBooking(ctx context.Context, itemID string) (*models.BookingItem, error) {
	return se.item(ctx, itemID)
}

// CreateBooking reserves [Start, End) on the provider's calendar. The conflict
// check and the insert run under the (provider, date) lock.
func (se *DefaultSchedulingEngine) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.BookingItem, error) {
	logger := se.logger()

	// 1. Validate the request shape before touching storage.
	if req.ProviderID == "" {
		return nil, invalid("providerId", "is required")
	}
	if req.ServiceID == "" {
		return nil, invalid("serviceId", "is required")
	}
	if req.CustomerID == "" {
		return nil, invalid("customerId", "is required")
	}
	if req.BookingType == "" {
		req.BookingType = models.BookingOnline
	}
	if err := validateBookingType(req.BookingType); err != nil {
		return nil, err
	}
	if err := validateInterval(req.Start, req.End); err != nil {
		return nil, err
	}

	// 2. Resolve the provider and the calendar day.
	profile, err := se.provider(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	day, err := se.parseDay(req.Date, profile)
	if err != nil {
		return nil, err
	}

	// 3. Check and insert atomically for this (provider, date).
	release, err := se.lockCalendars(ctx, lock.CalendarKey(req.ProviderID, req.Date))
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := se.activeOn(ctx, req.ProviderID, req.Date)
	if err != nil {
		return nil, err
	}
	candidate := models.Interval{Start: req.Start, End: req.End}
	if err := CheckConflict(ConflictCheck{
		Profile:   *profile,
		Date:      req.Date,
		Day:       day,
		Candidate: candidate,
		Now:       se.now(),
		Existing:  existing,
	}); err != nil {
		return nil, err
	}
	if req.BookingType == models.BookingOffline {
		if other := firstOffline(existing, ""); other != nil {
			return nil, &OfflineConflictError{ProviderID: req.ProviderID, Date: req.Date, ExistingID: other.ID}
		}
	}

	now := se.now().UTC()
	customer := req.Customer
	item := &models.BookingItem{
		ID:              uuid.NewString(),
		CustomerID:      req.CustomerID,
		ProviderID:      req.ProviderID,
		ServiceID:       req.ServiceID,
		BookingType:     req.BookingType,
		Date:            req.Date,
		StartTime:       req.Start,
		EndTime:         req.End,
		ServiceDuration: candidate.Duration(),
		ProviderStatus:  models.ProviderPending,
		Status:          models.StatusPending,
		Customer:        &customer,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := se.Repo.Create(ctx, item); err != nil {
		return nil, err
	}
	release()

	logger.Info("booking created",
		zap.String("bookingId", item.ID),
		zap.String("providerId", item.ProviderID),
		zap.String("date", item.Date),
		zap.String("interval", candidate.String()),
	)
	se.publish(ctx, models.EventBookingCreated, item)
	return item, nil
}
