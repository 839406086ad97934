package booking

import (
	"context"
	"time"

	"astrobook/models"
)

// SchedulingEngine is the booking core used by the HTTP layer and the
// payment webhook.
type SchedulingEngine interface {
	GetAvailability(ctx context.Context, providerID, date string, opts AvailabilityOptions) ([]models.Slot, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.BookingItem, error)
	Reschedule(ctx context.Context, req RescheduleRequest) (*models.BookingItem, error)
	GetBooking(ctx context.Context, itemID string) (*models.BookingItem, error)
	SessionWindow(ctx context.Context, item *models.BookingItem) (start, end time.Time, err error)

	Accept(ctx context.Context, itemID, providerID string) (*models.BookingItem, error)
	Reject(ctx context.Context, itemID, providerID, reason string) (*models.BookingItem, error)
	MarkPaid(ctx context.Context, itemID string) (*models.BookingItem, error)
	Cancel(ctx context.Context, itemID string) (*models.BookingItem, error)
	Refund(ctx context.Context, itemID string) (*models.BookingItem, error)

	BlockSlot(ctx context.Context, req BlockRequest) (*models.BookingItem, error)
	ReleaseBlock(ctx context.Context, itemID string) (*models.BookingItem, error)
}

// SessionLinkProvider produces a join URL for an accepted online consultation.
type SessionLinkProvider interface {
	CreateLink(ctx context.Context, item models.BookingItem) (string, error)
}

// CreateBookingRequest is a customer's reservation of a provider's time.
type CreateBookingRequest struct {
	ProviderID  string
	Date        string
	Start       models.TimeOfDay
	End         models.TimeOfDay
	ServiceID   string
	BookingType models.BookingType
	CustomerID  string
	Customer    models.CustomerInfo
}

// RescheduleRequest moves an existing booking. NewProviderID is honoured on
// the customer path only; a provider reschedules within their own calendar.
type RescheduleRequest struct {
	ItemID        string
	NewProviderID string
	Date          string
	Start         models.TimeOfDay
	End           models.TimeOfDay
	ByProvider    bool
	RequestedBy   string
}

// BlockRequest takes a provider's time off the calendar. A zero End blocks
// a single slot starting at Start.
type BlockRequest struct {
	ProviderID string
	Date       string
	Start      models.TimeOfDay
	End        models.TimeOfDay
	Reason     string
}
