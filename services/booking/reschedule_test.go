package booking

import (
	"context"
	"errors"
	"testing"

	"astrobook/models"
)

func TestRescheduleMovesAndAudits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.book(t, "p1", monday, models.Clock(10, 0), models.Clock(11, 0))
	if _, err := f.engine.Accept(ctx, item.ID, "p1"); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	moved, err := f.engine.Reschedule(ctx, RescheduleRequest{
		ItemID:      item.ID,
		Date:        nextMonday,
		Start:       models.Clock(11, 0),
		End:         models.Clock(12, 0),
		RequestedBy: "c1",
	})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if moved.ID != item.ID {
		t.Fatalf("reschedule changed the id")
	}
	if moved.Date != nextMonday || moved.StartTime != models.Clock(11, 0) {
		t.Fatalf("moved to %s %s", moved.Date, moved.StartTime)
	}
	if moved.ProviderStatus != models.ProviderPending || moved.SessionLink != "" {
		t.Fatalf("customer reschedule left %s with link %q", moved.ProviderStatus, moved.SessionLink)
	}
	audit := moved.Reschedule
	if audit == nil || audit.PreviousDate != monday || audit.PreviousStart != models.Clock(10, 0) || audit.RescheduledBy != "c1" {
		t.Fatalf("audit = %+v", audit)
	}

	types := f.events.types()
	if types[len(types)-1] != models.EventBookingRescheduled {
		t.Fatalf("last event = %s", types[len(types)-1])
	}

	// The old slot is free again.
	f.book(t, "p1", monday, models.Clock(10, 0), models.Clock(11, 0))

	stored, _ := f.engine.GetBooking(ctx, item.ID)
	if stored.Date != nextMonday {
		t.Fatalf("stored date = %s", stored.Date)
	}
}

func TestRescheduleWithinOwnSlotIgnoresItself(t *testing.T) {
	f := newFixture(t)
	item := f.book(t, "p1", monday, models.Clock(10, 0), models.Clock(11, 0))

	moved, err := f.engine.Reschedule(context.Background(), RescheduleRequest{
		ItemID: item.ID,
		Date:   monday,
		Start:  models.Clock(10, 30),
		End:    models.Clock(11, 30),
	})
	if err != nil {
		t.Fatalf("Reschedule onto an overlapping range of itself: %v", err)
	}
	if moved.StartTime != models.Clock(10, 30) {
		t.Fatalf("start = %s", moved.StartTime)
	}
}

func TestRescheduleByProviderAccepts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.book(t, "p1", monday, models.Clock(9, 0), models.Clock(9, 30))

	moved, err := f.engine.Reschedule(ctx, RescheduleRequest{
		ItemID:      item.ID,
		Date:        monday,
		Start:       models.Clock(12, 0),
		End:         models.Clock(12, 30),
		ByProvider:  true,
		RequestedBy: "p1",
	})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if moved.ProviderStatus != models.ProviderAccepted {
		t.Fatalf("provider status = %s, want accepted", moved.ProviderStatus)
	}

	_, err = f.engine.Reschedule(ctx, RescheduleRequest{
		ItemID:        item.ID,
		NewProviderID: "p9",
		Date:          monday,
		Start:         models.Clock(9, 0),
		End:           models.Clock(9, 30),
		ByProvider:    true,
	})
	if !IsValidation(err) {
		t.Fatalf("provider moving to another calendar: err = %v", err)
	}
}

func TestRescheduleToAnotherProvider(t *testing.T) {
	f := newFixture(t, astrologer("p1"), astrologer("p2"))
	ctx := context.Background()
	item := f.book(t, "p1", monday, models.Clock(9, 0), models.Clock(9, 30))

	moved, err := f.engine.Reschedule(ctx, RescheduleRequest{
		ItemID:        item.ID,
		NewProviderID: "p2",
		Date:          monday,
		Start:         models.Clock(9, 0),
		End:           models.Clock(9, 30),
	})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if moved.ProviderID != "p2" || moved.Reschedule.PreviousProviderID != "p1" {
		t.Fatalf("moved to %s, audit %+v", moved.ProviderID, moved.Reschedule)
	}
}

func TestRescheduleConflictLeavesOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.book(t, "p1", monday, models.Clock(9, 0), models.Clock(9, 30))
	other := f.book(t, "p1", monday, models.Clock(11, 0), models.Clock(12, 0))

	_, err := f.engine.Reschedule(ctx, RescheduleRequest{
		ItemID: item.ID,
		Date:   monday,
		Start:  models.Clock(11, 30),
		End:    models.Clock(12, 0),
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.ExistingID != other.ID {
		t.Fatalf("err = %v, want ConflictError naming %s", err, other.ID)
	}
	assertUnchanged(t, f, item)
}

func TestRescheduleOfflineConflictLeavesOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.book(t, "p1", monday, models.Clock(10, 0), models.Clock(10, 30))
	visit, err := f.engine.CreateBooking(ctx, CreateBookingRequest{
		ProviderID:  "p1",
		Date:        nextMonday,
		Start:       models.Clock(12, 0),
		End:         models.Clock(12, 30),
		ServiceID:   "svc-visit",
		CustomerID:  "c2",
		BookingType: models.BookingOffline,
	})
	if err != nil {
		t.Fatalf("CreateBooking offline: %v", err)
	}

	_, err = f.engine.Reschedule(ctx, RescheduleRequest{
		ItemID: item.ID,
		Date:   nextMonday,
		Start:  models.Clock(9, 0),
		End:    models.Clock(9, 30),
	})
	var offline *OfflineConflictError
	if !errors.As(err, &offline) || offline.ExistingID != visit.ID {
		t.Fatalf("err = %v, want OfflineConflictError naming %s", err, visit.ID)
	}
	assertUnchanged(t, f, item)
}

func TestRescheduleRejectsTerminalAndBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.book(t, "p1", monday, models.Clock(9, 0), models.Clock(9, 30))
	if _, err := f.engine.Cancel(ctx, item.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	block, err := f.engine.BlockSlot(ctx, BlockRequest{ProviderID: "p1", Date: monday, Start: models.Clock(12, 0)})
	if err != nil {
		t.Fatalf("BlockSlot: %v", err)
	}

	for _, id := range []string{item.ID, block.ID} {
		_, err := f.engine.Reschedule(ctx, RescheduleRequest{
			ItemID: id, Date: monday, Start: models.Clock(10, 0), End: models.Clock(10, 30),
		})
		if !IsInvalidState(err) {
			t.Errorf("reschedule %s: err = %v, want InvalidStateError", id, err)
		}
	}

	_, err = f.engine.Reschedule(ctx, RescheduleRequest{
		ItemID: "missing", Date: monday, Start: models.Clock(10, 0), End: models.Clock(10, 30),
	})
	if !IsNotFound(err) {
		t.Fatalf("missing item: err = %v", err)
	}
}

func assertUnchanged(t *testing.T, f *fixture, want *models.BookingItem) {
	t.Helper()
	got, err := f.engine.GetBooking(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got.Date != want.Date || got.StartTime != want.StartTime || got.EndTime != want.EndTime ||
		got.Version != want.Version || got.Reschedule != nil {
		t.Fatalf("item changed after failed reschedule: %+v", got)
	}
}
