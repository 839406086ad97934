package models

import "time"

// BookingEventType names a booking transition observed by notification and
// payment subscribers.
type BookingEventType string

const (
	EventBookingCreated     BookingEventType = "booking.created"
	EventBookingAccepted    BookingEventType = "booking.accepted"
	EventBookingRejected    BookingEventType = "booking.rejected"
	EventBookingPaid        BookingEventType = "booking.paid"
	EventBookingCancelled   BookingEventType = "booking.cancelled"
	EventBookingRefunded    BookingEventType = "booking.refunded"
	EventBookingRescheduled BookingEventType = "booking.rescheduled"
	EventSlotBlocked        BookingEventType = "slot.blocked"
	EventSlotReleased       BookingEventType = "slot.released"
)

// BookingEvent is the payload published after a successful transition.
type BookingEvent struct {
	Type           BookingEventType `json:"type"`
	BookingID      string           `json:"bookingId"`
	ProviderID     string           `json:"providerId"`
	CustomerID     string           `json:"customerId,omitempty"`
	BookingType    BookingType      `json:"bookingType,omitempty"`
	Date           string           `json:"date"`
	Start          TimeOfDay        `json:"start"`
	End            TimeOfDay        `json:"end"`
	StartsAt       time.Time        `json:"startsAt"`
	Status         BookingStatus    `json:"status"`
	ProviderStatus ProviderStatus   `json:"providerStatus"`
	SessionLink    string           `json:"sessionLink,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	Version        int              `json:"version"`
	OccurredAt     time.Time        `json:"occurredAt"`
}

// NewBookingEvent snapshots item for an event of type t.
func NewBookingEvent(t BookingEventType, item BookingItem, startsAt, at time.Time) BookingEvent {
	reason := item.RejectReason
	if item.IsBlock() || item.Status == StatusReleased {
		reason = item.BlockReason
	}
	return BookingEvent{
		Type:           t,
		BookingID:      item.ID,
		ProviderID:     item.ProviderID,
		CustomerID:     item.CustomerID,
		BookingType:    item.BookingType,
		Date:           item.Date,
		Start:          item.StartTime,
		End:            item.EndTime,
		StartsAt:       startsAt,
		Status:         item.Status,
		ProviderStatus: item.ProviderStatus,
		SessionLink:    item.SessionLink,
		Reason:         reason,
		Version:        item.Version,
		OccurredAt:     at,
	}
}

// ReminderPayload is the body of a scheduled consultation reminder.
// The worker drops it if the booking has since moved or left the calendar.
type ReminderPayload struct {
	BookingID string    `json:"bookingId"`
	Date      string    `json:"date"`
	Start     TimeOfDay `json:"start"`
	StartsAt  time.Time `json:"startsAt"`
}
