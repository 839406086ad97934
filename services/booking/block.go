package booking

import (
	"context"

	"astrobook/database/lock"
	"astrobook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlockSlot occupies provider time with a synthetic item that has no customer
// or service. Blocks may sit outside working hours but never overlap an
// active booking.
func (se *DefaultSchedulingEngine) BlockSlot(ctx context.Context, req BlockRequest) (*models.BookingItem, error) {
	if req.ProviderID == "" {
		return nil, invalid("providerId", "is required")
	}
	profile, err := se.provider(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	day, err := se.parseDay(req.Date, profile)
	if err != nil {
		return nil, err
	}
	end := req.End
	if end == models.Midnight {
		end = req.Start.Add(profile.SlotSize())
	}
	if err := validateInterval(req.Start, end); err != nil {
		return nil, err
	}
	candidate := models.Interval{Start: req.Start, End: end}

	release, err := se.lockCalendars(ctx, lock.CalendarKey(req.ProviderID, req.Date))
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := se.activeOn(ctx, req.ProviderID, req.Date)
	if err != nil {
		return nil, err
	}
	if err := CheckConflict(ConflictCheck{
		Profile:      *profile,
		Date:         req.Date,
		Day:          day,
		Candidate:    candidate,
		Now:          se.now(),
		Existing:     existing,
		CalendarOnly: true,
	}); err != nil {
		return nil, err
	}

	now := se.now().UTC()
	item := &models.BookingItem{
		ID:              uuid.NewString(),
		ProviderID:      req.ProviderID,
		Date:            req.Date,
		StartTime:       candidate.Start,
		EndTime:         candidate.End,
		ServiceDuration: candidate.Duration(),
		ProviderStatus:  models.ProviderPending,
		Status:          models.StatusBlocked,
		BlockReason:     req.Reason,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := se.Repo.Create(ctx, item); err != nil {
		return nil, err
	}
	release()

	se.logger().Info("slot blocked",
		zap.String("bookingId", item.ID),
		zap.String("providerId", item.ProviderID),
		zap.String("date", item.Date),
		zap.String("interval", candidate.String()),
	)
	se.publish(ctx, models.EventSlotBlocked, item)
	return item, nil
}
