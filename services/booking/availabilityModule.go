package booking

import (
	"context"
	"time"

	"astrobook/models"

	"go.uber.org/zap"
)

// AvailabilityOptions tunes a GetAvailability call.
type AvailabilityOptions struct {
	// DurationMinutes, when set, requests contiguous-window flags for a
	// service spanning ceil(DurationMinutes / slot size) slots.
	DurationMinutes int
	// Offline asks for availability of an in-person consultation.
	Offline bool
}

// slotEvaluation is everything needed to classify one day's slots.
type slotEvaluation struct {
	Slots    []models.Slot
	Bookings []models.BookingItem
	// Slots starting before Cutoff are disabled. HasCutoff is false when the
	// whole day lies beyond the cutoff.
	HasCutoff bool
	Cutoff    models.TimeOfDay
	// DayPassed disables every slot.
	DayPassed       bool
	SlotSize        int
	DurationMinutes int
	// DayClosed marks every slot unavailable (offline request on a day that
	// already has an offline booking).
	DayClosed bool
}

// evaluateSlots classifies slots against active bookings and the cutoff, and
// fills IsAvailable when a duration was requested. It never mutates its input.
func evaluateSlots(in slotEvaluation) []models.Slot {
	out := make([]models.Slot, len(in.Slots))
	copy(out, in.Slots)

	for i := range out {
		s := &out[i]
		for _, b := range in.Bookings {
			if b.IsActive() && b.Interval().Overlaps(s.Display()) {
				s.Booked = true
				break
			}
		}
		s.Status = models.SlotAvailable
		if s.Booked || in.DayClosed {
			s.Status = models.SlotUnavailable
		}
		s.Disabled = in.DayPassed || (in.HasCutoff && s.Start.Before(in.Cutoff))
		s.IsAvailable = nil
	}

	if in.DurationMinutes > 0 && in.SlotSize > 0 {
		k := (in.DurationMinutes + in.SlotSize - 1) / in.SlotSize
		markContiguousWindows(out, k)
	}
	return out
}

// markContiguousWindows sets IsAvailable on every slot: true iff some run of k
// consecutive, boundary-aligned free slots contains it. The slot need not be
// the start of that run: with 09:00-13:00 free and a 90 minute service,
// 12:30 reports true although a session cannot start there. Callers picking
// a start time must also check that Start + duration fits the window.
func markContiguousWindows(slots []models.Slot, k int) {
	n := len(slots)
	windowOK := make([]bool, n)
	for j := 0; j+k <= n; j++ {
		ok := true
		for i := j; i < j+k; i++ {
			if !slots[i].Free() || (i > j && slots[i-1].End != slots[i].Start) {
				ok = false
				break
			}
		}
		windowOK[j] = ok
	}

	for i := range slots {
		avail := false
		for j := max(0, i-k+1); j <= i && j+k <= n; j++ {
			if windowOK[j] {
				avail = true
				break
			}
		}
		slots[i].IsAvailable = &avail
	}
}

// bookingCutoff compares the requested date with the earliest bookable
// instant (now plus the provider's lead time) in the provider's time zone.
func bookingCutoff(day time.Time, now time.Time, leadHours int) (dayPassed bool, hasCutoff bool, cutoff models.TimeOfDay) {
	earliest := now.In(day.Location()).Add(time.Duration(leadHours) * time.Hour)
	ey, em, ed := earliest.Date()
	earliestDay := time.Date(ey, em, ed, 0, 0, 0, 0, day.Location())

	switch {
	case day.Before(earliestDay):
		return true, false, 0
	case day.Equal(earliestDay):
		cutoff = models.Clock(earliest.Hour(), earliest.Minute())
		if earliest.Second() > 0 || earliest.Nanosecond() > 0 {
			cutoff = cutoff.Add(1)
		}
		return false, true, cutoff
	}
	return false, false, 0
}

// GetAvailability returns the provider's slots for date, classified against
// active bookings. Reads take no lock.
func (se *DefaultSchedulingEngine) GetAvailability(ctx context.Context, providerID, date string, opts AvailabilityOptions) ([]models.Slot, error) {
	if providerID == "" {
		return nil, invalid("providerId", "is required")
	}
	if opts.DurationMinutes < 0 || opts.DurationMinutes > int(models.EndOfDay) {
		return nil, invalid("duration", "must be between 0 and 1440 minutes")
	}

	profile, err := se.provider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	day, err := se.parseDay(date, profile)
	if err != nil {
		return nil, err
	}
	if err := checkSchedulable(profile, date, day); err != nil {
		return nil, err
	}

	bookings, err := se.activeOn(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	dayClosed := false
	if opts.Offline {
		dayClosed = firstOffline(bookings, "") != nil
	}

	dayPassed, hasCutoff, cutoff := bookingCutoff(day, se.now(), profile.MinAdvanceHours)
	slots := evaluateSlots(slotEvaluation{
		Slots:           BuildSlots(*profile, opts.DurationMinutes),
		Bookings:        bookings,
		HasCutoff:       hasCutoff,
		Cutoff:          cutoff,
		DayPassed:       dayPassed,
		SlotSize:        profile.SlotSize(),
		DurationMinutes: opts.DurationMinutes,
		DayClosed:       dayClosed,
	})

	se.logger().Debug("availability computed",
		zap.String("providerId", providerID),
		zap.String("date", date),
		zap.Int("slots", len(slots)),
		zap.Int("activeBookings", len(bookings)),
		zap.Bool("dayClosed", dayClosed),
	)
	return slots, nil
}

// firstOffline returns the first active offline booking other than excludeID.
func firstOffline(bookings []models.BookingItem, excludeID string) *models.BookingItem {
	for i := range bookings {
		b := &bookings[i]
		if b.ID != excludeID && b.IsActive() && b.IsOffline() {
			return b
		}
	}
	return nil
}
