package booking

import (
	"context"
	"errors"
	"strings"

	bookingRepo "astrobook/database/repository/booking"
	"astrobook/models"

	"go.uber.org/zap"
)

// maxTransitionAttempts bounds retries when a concurrent writer bumps the
// item's version between our read and our write.
const maxTransitionAttempts = 3

// transition loads the item, applies a state-machine step and writes it back
// with an optimistic version check.
func (se *DefaultSchedulingEngine) transition(
	ctx context.Context,
	itemID string,
	event models.BookingEventType,
	apply func(item *models.BookingItem) error,
) (*models.BookingItem, error) {
	var lastErr error
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		item, err := se.item(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if err := apply(item); err != nil {
			return nil, err
		}
		item.UpdatedAt = se.now().UTC()

		err = se.Repo.Update(ctx, item)
		if err == nil {
			se.logger().Info("booking updated",
				zap.String("bookingId", item.ID),
				zap.String("event", string(event)),
				zap.String("status", string(item.Status)),
				zap.String("providerStatus", string(item.ProviderStatus)),
			)
			se.publish(ctx, event, item)
			return item, nil
		}
		if !errors.Is(err, bookingRepo.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// ownedBy hides items of other providers behind NotFoundError.
func ownedBy(item *models.BookingItem, providerID string) error {
	if item.ProviderID != providerID {
		return &NotFoundError{Resource: "booking item", ID: item.ID}
	}
	return nil
}

// Accept records the provider's acceptance. Online consultations get a
// session link; if the link cannot be created the booking is accepted
// without one.
func (se *DefaultSchedulingEngine) Accept(ctx context.Context, itemID, providerID string) (*models.BookingItem, error) {
	item, err := se.item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := ownedBy(item, providerID); err != nil {
		return nil, err
	}
	probe := *item
	if err := acceptItem(&probe, ""); err != nil {
		return nil, err
	}

	link := ""
	if item.BookingType == models.BookingOnline && se.SessionLinks != nil {
		link, err = se.SessionLinks.CreateLink(ctx, *item)
		if err != nil {
			se.logger().Warn("session link unavailable, accepting without it",
				zap.String("bookingId", item.ID), zap.Error(err))
			link = ""
		}
	}

	return se.transition(ctx, itemID, models.EventBookingAccepted, func(it *models.BookingItem) error {
		if err := ownedBy(it, providerID); err != nil {
			return err
		}
		return acceptItem(it, link)
	})
}

// Reject records the provider's refusal and frees the slot.
func (se *DefaultSchedulingEngine) Reject(ctx context.Context, itemID, providerID, reason string) (*models.BookingItem, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, invalid("reason", "is required")
	}
	return se.transition(ctx, itemID, models.EventBookingRejected, func(it *models.BookingItem) error {
		if err := ownedBy(it, providerID); err != nil {
			return err
		}
		return rejectItem(it, reason)
	})
}

// MarkPaid applies a successful payment. Replayed webhooks for an item that
// is already paid return it unchanged.
func (se *DefaultSchedulingEngine) MarkPaid(ctx context.Context, itemID string) (*models.BookingItem, error) {
	item, err := se.item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status == models.StatusPaid {
		return item, nil
	}
	return se.transition(ctx, itemID, models.EventBookingPaid, markItemPaid)
}

func (se *DefaultSchedulingEngine) Cancel(ctx context.Context, itemID string) (*models.BookingItem, error) {
	return se.transition(ctx, itemID, models.EventBookingCancelled, cancelItem)
}

// Refund applies a refund. Replays for an already refunded item return it unchanged.
func (se *DefaultSchedulingEngine) Refund(ctx context.Context, itemID string) (*models.BookingItem, error) {
	item, err := se.item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status == models.StatusRefunded {
		return item, nil
	}
	return se.transition(ctx, itemID, models.EventBookingRefunded, refundItem)
}

// ReleaseBlock returns an admin block's time to the calendar.
func (se *DefaultSchedulingEngine) ReleaseBlock(ctx context.Context, itemID string) (*models.BookingItem, error) {
	return se.transition(ctx, itemID, models.EventSlotReleased, releaseBlock)
}
