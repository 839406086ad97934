package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"astrobook/services/booking"
	"astrobook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// BookingMetadataKey is the PaymentIntent/Charge metadata key carrying the
// booking item id.
const BookingMetadataKey = "bookingItemId"

const maxWebhookBody = 64 << 10

// PaymentHandler applies Stripe payment outcomes to bookings.
type PaymentHandler struct {
	Engine        booking.SchedulingEngine
	WebhookSecret string
}

func NewPaymentHandler(engine booking.SchedulingEngine, secret string) *PaymentHandler {
	return &PaymentHandler{Engine: engine, WebhookSecret: secret}
}

// Webhook handles POST /api/payments/webhook.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	logger := utils.GetLogger()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Failed to read body", "")
		return
	}
	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), h.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		utils.JSONCodedError(c, http.StatusBadRequest, "invalid_signature", "Invalid webhook signature", err.Error())
		return
	}

	var (
		itemID string
		apply  func(id string) error
	)
	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			badRequest(c, err)
			return
		}
		itemID = pi.Metadata[BookingMetadataKey]
		apply = func(id string) error {
			_, err := h.Engine.MarkPaid(c.Request.Context(), id)
			return err
		}
	case "charge.refunded":
		var ch stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			badRequest(c, err)
			return
		}
		itemID = ch.Metadata[BookingMetadataKey]
		apply = func(id string) error {
			_, err := h.Engine.Refund(c.Request.Context(), id)
			return err
		}
	default:
		c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
		return
	}

	if itemID == "" {
		logger.Warn("Stripe event without booking metadata", zap.String("eventId", event.ID), zap.String("type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
		return
	}
	if err := apply(itemID); err != nil {
		// Stripe retries non-2xx responses; only transient failures should.
		if booking.IsNotFound(err) || booking.IsInvalidState(err) {
			logger.Warn("Stripe event not applicable", zap.String("eventId", event.ID), zap.String("bookingId", itemID), zap.Error(err))
			c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
			return
		}
		respondError(c, err)
		return
	}
	logger.Info("Stripe event applied", zap.String("eventId", event.ID), zap.String("type", string(event.Type)), zap.String("bookingId", itemID))
	c.JSON(http.StatusOK, gin.H{"received": true})
}
