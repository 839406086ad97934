package booking

import (
	"context"

	"astrobook/database/lock"
	"astrobook/models"

	"go.uber.org/zap"
)

// Reschedule moves a booking to a new date and time, and on the customer path
// optionally to another provider. Every check runs before the single write,
// so a failed reschedule leaves the stored item untouched.
func (se *DefaultSchedulingEngine) Reschedule(ctx context.Context, req RescheduleRequest) (*models.BookingItem, error) {
	logger := se.logger()

	if err := validateInterval(req.Start, req.End); err != nil {
		return nil, err
	}

	// (a) Load the item and make sure it can still move.
	item, err := se.item(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := canReschedule(item); err != nil {
		return nil, err
	}

	// (b) Resolve the target provider.
	targetID := item.ProviderID
	if req.NewProviderID != "" && req.NewProviderID != item.ProviderID {
		if req.ByProvider {
			return nil, invalid("providerId", "a provider can only reschedule within their own calendar")
		}
		targetID = req.NewProviderID
	}
	profile, err := se.provider(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !profile.IsAstrologer() {
		return nil, &NotAvailableError{ProviderID: targetID, Date: req.Date, Reason: "provider does not take consultations"}
	}
	day, err := se.parseDay(req.Date, profile)
	if err != nil {
		return nil, err
	}

	release, err := se.lockCalendars(ctx,
		lock.CalendarKey(item.ProviderID, item.Date),
		lock.CalendarKey(targetID, req.Date),
	)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read under the lock; the item may have moved or changed state.
	item, err = se.item(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := canReschedule(item); err != nil {
		return nil, err
	}

	// (c) Conflict detection on the target calendar, ignoring the item itself.
	existing, err := se.activeOn(ctx, targetID, req.Date)
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
		ExcludeID: item.ID,
	}); err != nil {
		return nil, err
	}

	// (d) An offline engagement takes the provider's whole day.
	if other := firstOffline(existing, item.ID); other != nil {
		return nil, &OfflineConflictError{ProviderID: targetID, Date: req.Date, ExistingID: other.ID}
	}

	// (e) Overwrite in one versioned write, keeping the old slot for audit.
	now := se.now().UTC()
	moved := *item
	moved.Reschedule = &models.RescheduleAudit{
		PreviousProviderID: item.ProviderID,
		PreviousDate:       item.Date,
		PreviousStart:      item.StartTime,
		PreviousEnd:        item.EndTime,
		RescheduledAt:      now,
		RescheduledBy:      req.RequestedBy,
	}
	moved.ProviderID = targetID
	moved.Date = req.Date
	moved.StartTime = req.Start
	moved.EndTime = req.End
	moved.ServiceDuration = candidate.Duration()
	moved.UpdatedAt = now
	if req.ByProvider {
		moved.ProviderStatus = models.ProviderAccepted
	} else {
		moved.ProviderStatus = models.ProviderPending
		moved.SessionLink = ""
	}

	if err := se.Repo.Update(ctx, &moved); err != nil {
		return nil, err
	}
	release()

	logger.Info("booking rescheduled",
		zap.String("bookingId", moved.ID),
		zap.String("from", item.ProviderID+" "+item.Date+" "+item.Interval().String()),
		zap.String("to", moved.ProviderID+" "+moved.Date+" "+candidate.String()),
		zap.Bool("byProvider", req.ByProvider),
	)
	se.publish(ctx, models.EventBookingRescheduled, &moved)
	return &moved, nil
}
