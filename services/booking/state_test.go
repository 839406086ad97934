package booking

import (
	"testing"

	"astrobook/models"
)

func TestStateMachine(t *testing.T) {
	item := func(s models.BookingStatus, ps models.ProviderStatus) *models.BookingItem {
		return &models.BookingItem{ID: "b1", Status: s, ProviderStatus: ps}
	}
	tests := []struct {
		name   string
		item   *models.BookingItem
		apply  func(*models.BookingItem) error
		wantOK bool
	}{
		{"accept pending", item(models.StatusPending, models.ProviderPending), func(b *models.BookingItem) error { return acceptItem(b, "") }, true},
		{"accept paid", item(models.StatusPaid, models.ProviderPending), func(b *models.BookingItem) error { return acceptItem(b, "") }, true},
		{"accept rejected", item(models.StatusPending, models.ProviderRejected), func(b *models.BookingItem) error { return acceptItem(b, "") }, false},
		{"accept cancelled", item(models.StatusCancelled, models.ProviderPending), func(b *models.BookingItem) error { return acceptItem(b, "") }, false},
		{"accept block", item(models.StatusBlocked, models.ProviderPending), func(b *models.BookingItem) error { return acceptItem(b, "") }, false},
		{"reject accepted", item(models.StatusPending, models.ProviderAccepted), func(b *models.BookingItem) error { return rejectItem(b, "x") }, false},
		{"pay pending", item(models.StatusPending, models.ProviderAccepted), markItemPaid, true},
		{"pay pending rejected", item(models.StatusPending, models.ProviderRejected), markItemPaid, true},
		{"pay cancelled", item(models.StatusCancelled, models.ProviderPending), markItemPaid, false},
		{"cancel pending", item(models.StatusPending, models.ProviderPending), cancelItem, true},
		{"cancel paid", item(models.StatusPaid, models.ProviderAccepted), cancelItem, true},
		{"cancel refunded", item(models.StatusRefunded, models.ProviderAccepted), cancelItem, false},
		{"cancel block", item(models.StatusBlocked, models.ProviderPending), cancelItem, false},
		{"refund paid", item(models.StatusPaid, models.ProviderAccepted), refundItem, true},
		{"refund paid rejected", item(models.StatusPaid, models.ProviderRejected), refundItem, true},
		{"cancel paid rejected", item(models.StatusPaid, models.ProviderRejected), cancelItem, true},
		{"refund refunded", item(models.StatusRefunded, models.ProviderRejected), refundItem, false},
		{"refund pending", item(models.StatusPending, models.ProviderAccepted), refundItem, false},
		{"release block", item(models.StatusBlocked, models.ProviderPending), releaseBlock, true},
		{"release booking", item(models.StatusPending, models.ProviderPending), releaseBlock, false},
		{"release released", item(models.StatusReleased, models.ProviderPending), releaseBlock, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := *tt.item
			err := tt.apply(tt.item)
			if tt.wantOK && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.wantOK {
				if !IsInvalidState(err) {
					t.Fatalf("err = %v, want InvalidStateError", err)
				}
				if *tt.item != before {
					t.Fatal("failed transition modified the item")
				}
			}
		})
	}
}
