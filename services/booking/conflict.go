package booking

import (
	"time"

	"astrobook/models"
)

// ConflictCheck is the input of CheckConflict.
type ConflictCheck struct {
	Profile   models.ProviderProfile
	Date      string
	Day       time.Time // midnight of Date in the provider's time zone
	Candidate models.Interval
	Now       time.Time
	Existing  []models.BookingItem
	// ExcludeID skips the item being moved during a reschedule.
	ExcludeID string
	// CalendarOnly skips the working-window and lead-time rules; admin
	// blocks use it to pad time outside working hours.
	CalendarOnly bool
}

// CheckConflict decides whether Candidate may be booked. It is a pure
// function over the supplied bookings; callers make it atomic with the write
// by holding the (provider, date) lock.
func CheckConflict(c ConflictCheck) error {
	if !c.Candidate.Valid() {
		return invalid("time", "start must be before end and both within 00:00-24:00")
	}

	if !c.CalendarOnly {
		if err := checkSchedulable(&c.Profile, c.Date, c.Day); err != nil {
			return err
		}
		if !c.Profile.WorkingWindow().Contains(c.Candidate) {
			return &NotAvailableError{
				ProviderID: c.Profile.ID,
				Date:       c.Date,
				Reason:     "requested time " + c.Candidate.String() + " is outside working hours " + c.Profile.WorkingWindow().String(),
			}
		}
		startAt := c.Candidate.Start.On(c.Day)
		earliest := c.Now.Add(time.Duration(c.Profile.MinAdvanceHours) * time.Hour)
		if startAt.Before(earliest) {
			reason := "start is inside the minimum lead time"
			if startAt.Before(c.Now) {
				reason = "start is in the past"
			}
			return &NotAvailableError{ProviderID: c.Profile.ID, Date: c.Date, Reason: reason}
		}
	}

	for _, b := range c.Existing {
		if b.ID == c.ExcludeID || !b.IsActive() {
			continue
		}
		if b.Interval().Overlaps(c.Candidate) {
			return &ConflictError{
				ProviderID: c.Profile.ID,
				Date:       c.Date,
				Requested:  c.Candidate,
				ExistingID: b.ID,
				Existing:   b.Interval(),
			}
		}
	}
	return nil
}

// checkSchedulable rejects providers that cannot take consultations on day.
func checkSchedulable(profile *models.ProviderProfile, date string, day time.Time) error {
	if !profile.IsAstrologer() {
		return &NotAvailableError{ProviderID: profile.ID, Date: date, Reason: "provider does not take consultations"}
	}
	if !profile.WorksOn(day.Weekday()) {
		return &NotAvailableError{ProviderID: profile.ID, Date: date, Reason: "provider does not work on " + day.Weekday().String()}
	}
	return nil
}
