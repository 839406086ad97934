package bookingRepo

import (
	"context"
	"errors"
	"testing"

	"astrobook/models"
)

func TestMemoryRepoVersionedUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()

	item := &models.BookingItem{ID: "b1", ProviderID: "p1", Date: "2025-03-03", Status: models.StatusPending}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, item); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("second Create err = %v, want ErrDuplicateID", err)
	}

	first, _ := repo.GetByID(ctx, "b1")
	second, _ := repo.GetByID(ctx, "b1")

	first.Status = models.StatusPaid
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if first.Version != 1 {
		t.Fatalf("version after update = %d, want 1", first.Version)
	}

	second.Status = models.StatusCancelled
	if err := repo.Update(ctx, second); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("stale Update err = %v, want ErrVersionConflict", err)
	}

	got, _ := repo.GetByID(ctx, "b1")
	if got.Status != models.StatusPaid {
		t.Fatalf("stored status = %s, want paid", got.Status)
	}
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()
	_ = repo.Create(ctx, &models.BookingItem{ID: "b1", Customer: &models.CustomerInfo{Name: "Asha"}})

	got, _ := repo.GetByID(ctx, "b1")
	got.Customer.Name = "changed"

	again, _ := repo.GetByID(ctx, "b1")
	if again.Customer.Name != "Asha" {
		t.Fatalf("store shared memory with caller: %q", again.Customer.Name)
	}
}

func TestMemoryRepoFindOrdersByStart(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()
	_ = repo.Create(ctx, &models.BookingItem{ID: "late", ProviderID: "p1", Date: "2025-03-03", StartTime: models.Clock(12, 0)})
	_ = repo.Create(ctx, &models.BookingItem{ID: "early", ProviderID: "p1", Date: "2025-03-03", StartTime: models.Clock(9, 0)})
	_ = repo.Create(ctx, &models.BookingItem{ID: "other", ProviderID: "p2", Date: "2025-03-03", StartTime: models.Clock(8, 0)})

	items, err := repo.Find(ctx, NewFilter(ForProvider("p1")))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(items) != 2 || items[0].ID != "early" || items[1].ID != "late" {
		t.Fatalf("Find = %+v", items)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID missing err = %v, want ErrNotFound", err)
	}
}
