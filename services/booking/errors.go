package booking

import (
	"errors"
	"fmt"

	"astrobook/models"
)

// ValidationError reports a missing or malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports an unknown provider or booking item.
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// NotAvailableError reports a request outside the provider's calendar: a
// non-working day, a time outside working hours, or a start inside the lead time.
type NotAvailableError struct {
	ProviderID string
	Date       string
	Reason     string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("provider %s not available on %s: %s", e.ProviderID, e.Date, e.Reason)
}

// ConflictError reports an overlap with an active booking.
type ConflictError struct {
	ProviderID string
	Date       string
	Requested  models.Interval
	ExistingID string
	Existing   models.Interval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s on %s overlaps booking %s (%s) for provider %s",
		e.Requested, e.Date, e.ExistingID, e.Existing, e.ProviderID)
}

// OfflineConflictError reports that the provider already has an in-person
// engagement that day.
type OfflineConflictError struct {
	ProviderID string
	Date       string
	ExistingID string
}

func (e *OfflineConflictError) Error() string {
	return fmt.Sprintf("provider %s already has offline booking %s on %s", e.ProviderID, e.ExistingID, e.Date)
}

// InvalidStateError reports a transition the item's current state does not allow.
type InvalidStateError struct {
	ItemID         string
	Action         string
	Status         models.BookingStatus
	ProviderStatus models.ProviderStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s booking %s in state %s/%s", e.Action, e.ItemID, e.Status, e.ProviderStatus)
}

func invalidState(item *models.BookingItem, action string) error {
	return &InvalidStateError{
		ItemID:         item.ID,
		Action:         action,
		Status:         item.Status,
		ProviderStatus: item.ProviderStatus,
	}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsNotAvailable(err error) bool {
	var e *NotAvailableError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsOfflineConflict(err error) bool {
	var e *OfflineConflictError
	return errors.As(err, &e)
}

func IsInvalidState(err error) bool {
	var e *InvalidStateError
	return errors.As(err, &e)
}
