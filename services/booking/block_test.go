package booking

import (
	"context"
	"testing"

	"astrobook/models"
)

func TestBlockSlotOccupiesCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	block, err := f.engine.BlockSlot(ctx, BlockRequest{
		ProviderID: "p1",
		Date:       monday,
		Start:      models.Clock(10, 0),
		Reason:     "puja",
	})
	if err != nil {
		t.Fatalf("BlockSlot: %v", err)
	}
	if block.EndTime != models.Clock(10, 30) || block.Status != models.StatusBlocked || block.CustomerID != "" {
		t.Fatalf("block = %+v", block)
	}

	_, err = f.engine.CreateBooking(ctx, CreateBookingRequest{
		ProviderID: "p1", Date: monday, Start: models.Clock(10, 0), End: models.Clock(11, 0),
		ServiceID: "svc", CustomerID: "c1",
	})
	if !IsConflict(err) {
		t.Fatalf("booking over a block: err = %v", err)
	}

	slots, err := f.engine.GetAvailability(ctx, "p1", monday, AvailabilityOptions{})
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if !slots[2].Booked {
		t.Fatal("blocked slot 10:00 not marked booked")
	}

	released, err := f.engine.ReleaseBlock(ctx, block.ID)
	if err != nil || released.Status != models.StatusReleased {
		t.Fatalf("ReleaseBlock: %v %v", released, err)
	}
	f.book(t, "p1", monday, models.Clock(10, 0), models.Clock(11, 0))
}

func TestBlockSlotOutsideWorkingHours(t *testing.T) {
	f := newFixture(t)
	block, err := f.engine.BlockSlot(context.Background(), BlockRequest{
		ProviderID: "p1",
		Date:       monday,
		Start:      models.Clock(7, 0),
		End:        models.Clock(9, 30),
	})
	if err != nil {
		t.Fatalf("BlockSlot: %v", err)
	}
	if block.ServiceDuration != 150 {
		t.Fatalf("duration = %d, want 150", block.ServiceDuration)
	}
}

func TestBlockSlotConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, "p1", monday, models.Clock(9, 0), models.Clock(10, 0))

	if _, err := f.engine.BlockSlot(ctx, BlockRequest{ProviderID: "p1", Date: monday, Start: models.Clock(9, 30)}); !IsConflict(err) {
		t.Fatalf("block over a booking: err = %v", err)
	}
	if _, err := f.engine.BlockSlot(ctx, BlockRequest{ProviderID: "p1", Date: monday, Start: models.Clock(11, 0), End: models.Clock(10, 0)}); !IsValidation(err) {
		t.Fatalf("inverted block: err = %v", err)
	}
	if _, err := f.engine.BlockSlot(ctx, BlockRequest{ProviderID: "ghost", Date: monday, Start: models.Clock(11, 0)}); !IsNotFound(err) {
		t.Fatalf("unknown provider: err = %v", err)
	}
}
