package booking

import "astrobook/models"

// The functions below are the booking state machine. Each validates the
// item's current state and applies one transition in place; on error the
// item is left unchanged.
//
//	providerStatus: pending -> accepted | rejected
//	status:         pending -> paid -> cancelled | refunded
//	                pending -> cancelled
//	                blocked -> released
//
// The two axes are independent. rejected is terminal for providerStatus
// only, so a rejected item can still be paid and refunded. cancelled,
// refunded and released are terminal for status.

func acceptItem(item *models.BookingItem, sessionLink string) error {
	if item.IsTerminal() || item.IsBlock() || item.ProviderStatus != models.ProviderPending {
		return invalidState(item, "accept")
	}
	item.ProviderStatus = models.ProviderAccepted
	if sessionLink != "" {
		item.SessionLink = sessionLink
	}
	return nil
}

func rejectItem(item *models.BookingItem, reason string) error {
	if item.IsTerminal() || item.IsBlock() || item.ProviderStatus != models.ProviderPending {
		return invalidState(item, "reject")
	}
	item.ProviderStatus = models.ProviderRejected
	item.RejectReason = reason
	return nil
}

func markItemPaid(item *models.BookingItem) error {
	if item.IsBlock() || item.Status != models.StatusPending {
		return invalidState(item, "mark paid")
	}
	item.Status = models.StatusPaid
	return nil
}

func cancelItem(item *models.BookingItem) error {
	if item.IsTerminal() || item.IsBlock() {
		return invalidState(item, "cancel")
	}
	if item.Status != models.StatusPending && item.Status != models.StatusPaid {
		return invalidState(item, "cancel")
	}
	item.Status = models.StatusCancelled
	return nil
}

func refundItem(item *models.BookingItem) error {
	if item.Status != models.StatusPaid {
		return invalidState(item, "refund")
	}
	item.Status = models.StatusRefunded
	return nil
}

func releaseBlock(item *models.BookingItem) error {
	if item.Status != models.StatusBlocked {
		return invalidState(item, "release")
	}
	item.Status = models.StatusReleased
	return nil
}

// canReschedule reports whether the item may be moved.
func canReschedule(item *models.BookingItem) error {
	if item.IsTerminal() || item.IsRejected() || item.IsBlock() {
		return invalidState(item, "reschedule")
	}
	return nil
}
