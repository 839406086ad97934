package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Public endpoints
	HealthHandler          gin.HandlerFunc
	GetAvailabilityHandler gin.HandlerFunc
	PaymentWebhookHandler  gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler gin.HandlerFunc
	GetBookingHandler    gin.HandlerFunc
	RescheduleHandler    gin.HandlerFunc
	CancelBookingHandler gin.HandlerFunc
	AcceptBookingHandler gin.HandlerFunc
	RejectBookingHandler gin.HandlerFunc

	// Session endpoints
	StartSessionHandler gin.HandlerFunc
	StopSessionHandler  gin.HandlerFunc

	// Admin endpoints
	BlockSlotHandler      gin.HandlerFunc
	ReleaseBlockHandler   gin.HandlerFunc
	UpsertProviderHandler gin.HandlerFunc
}

// NewHandlerBundle wires the handler structs into a bundle for routing.
func NewHandlerBundle(b *BookingHandler, a *AdminHandler, s *SessionHandler, p *PaymentHandler) *HandlerBundle {
	return &HandlerBundle{
		HealthHandler:          Health,
		GetAvailabilityHandler: b.GetAvailability,
		PaymentWebhookHandler:  p.Webhook,

		CreateBookingHandler: b.CreateBooking,
		GetBookingHandler:    b.GetBooking,
		RescheduleHandler:    b.Reschedule,
		CancelBookingHandler: b.Cancel,
		AcceptBookingHandler: b.Accept,
		RejectBookingHandler: b.Reject,

		StartSessionHandler: s.StartSession,
		StopSessionHandler:  s.StopSession,

		BlockSlotHandler:      a.BlockSlot,
		ReleaseBlockHandler:   a.ReleaseBlock,
		UpsertProviderHandler: a.UpsertProvider,
	}
}
