package models

import (
	"slices"
	"time"
)

// DateLayout is the ISO calendar date format used for booking dates.
const DateLayout = "2006-01-02"

// BookingStatus is the payment and occupancy lifecycle of a booking item.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusPaid      BookingStatus = "paid"
	StatusCancelled BookingStatus = "cancelled"
	StatusRefunded  BookingStatus = "refunded"
	StatusBlocked   BookingStatus = "blocked"
	StatusReleased  BookingStatus = "released"
)

// ProviderStatus is the provider's decision on a booking item.
type ProviderStatus string

const (
	ProviderPending  ProviderStatus = "pending"
	ProviderAccepted ProviderStatus = "accepted"
	ProviderRejected ProviderStatus = "rejected"
)

// BookingType tells whether the consultation needs the provider in person.
type BookingType string

const (
	BookingOnline  BookingType = "online"
	BookingOffline BookingType = "offline"
)

// ActiveStatuses occupy the provider's calendar.
var ActiveStatuses = []BookingStatus{StatusPending, StatusPaid, StatusBlocked}

// ActiveProviderStatuses are the provider decisions that keep an item on the calendar.
var ActiveProviderStatuses = []ProviderStatus{ProviderPending, ProviderAccepted}

// CustomerInfo is the contact detail captured with a booking.
type CustomerInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// RescheduleAudit keeps the slot a booking held before its last move.
type RescheduleAudit struct {
	PreviousProviderID string    `bson:"previousProviderId" json:"previousProviderId"`
	PreviousDate       string    `bson:"previousDate" json:"previousDate"`
	PreviousStart      TimeOfDay `bson:"previousStart" json:"previousStart"`
	PreviousEnd        TimeOfDay `bson:"previousEnd" json:"previousEnd"`
	RescheduledAt      time.Time `bson:"rescheduledAt" json:"rescheduledAt"`
	RescheduledBy      string    `bson:"rescheduledBy" json:"rescheduledBy"`
}

// BookingItem is a reservation of a provider's time. Admin blocks are items
// with no customer or service and StatusBlocked.
type BookingItem struct {
	ID              string           `bson:"id" json:"id"`
	CustomerID      string           `bson:"customerId,omitempty" json:"customerId,omitempty"`
	ProviderID      string           `bson:"providerId" json:"providerId"`
	ServiceID       string           `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	BookingType     BookingType      `bson:"bookingType,omitempty" json:"bookingType,omitempty"`
	Date            string           `bson:"date" json:"date"` // "YYYY-MM-DD"
	StartTime       TimeOfDay        `bson:"startTime" json:"startTime"`
	EndTime         TimeOfDay        `bson:"endTime" json:"endTime"`
	ServiceDuration int              `bson:"serviceDuration" json:"serviceDuration"` // minutes
	ProviderStatus  ProviderStatus   `bson:"providerStatus" json:"providerStatus"`
	Status          BookingStatus    `bson:"status" json:"status"`
	RejectReason    string           `bson:"rejectReason,omitempty" json:"rejectReason,omitempty"`
	BlockReason     string           `bson:"blockReason,omitempty" json:"blockReason,omitempty"`
	SessionLink     string           `bson:"sessionLink,omitempty" json:"sessionLink,omitempty"`
	Customer        *CustomerInfo    `bson:"customer,omitempty" json:"customer,omitempty"`
	Reschedule      *RescheduleAudit `bson:"reschedule,omitempty" json:"reschedule,omitempty"`
	Version         int              `bson:"version" json:"version"`
	CreatedAt       time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// Interval returns the booked range.
func (b BookingItem) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsActive reports whether the item still occupies the calendar.
func (b BookingItem) IsActive() bool {
	return slices.Contains(ActiveStatuses, b.Status) && slices.Contains(ActiveProviderStatuses, b.ProviderStatus)
}

func (b BookingItem) IsBlock() bool { return b.Status == StatusBlocked }

func (b BookingItem) IsOffline() bool { return b.BookingType == BookingOffline }

// IsTerminal reports whether the payment status admits no further transition.
// A provider rejection does not end the payment lifecycle.
func (b BookingItem) IsTerminal() bool {
	switch b.Status {
	case StatusCancelled, StatusRefunded, StatusReleased:
		return true
	}
	return false
}

func (b BookingItem) IsRejected() bool { return b.ProviderStatus == ProviderRejected }
