package booking

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	bookingRepo "astrobook/database/repository/booking"
	"astrobook/models"
)

func TestCreateBookingConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing := f.book(t, "p1", monday, models.Clock(10, 0), models.Clock(11, 0))

	_, err := f.engine.CreateBooking(ctx, CreateBookingRequest{
		ProviderID: "p1",
		Date:       monday,
		Start:      models.Clock(10, 0),
		End:        models.Clock(10, 30),
		ServiceID:  "svc-kundli",
		CustomerID: "c2",
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if conflict.ExistingID != existing.ID {
		t.Fatalf("conflict names %s, want %s", conflict.ExistingID, existing.ID)
	}

	// Adjacent intervals do not overlap.
	f.book(t, "p1", monday, models.Clock(11, 0), models.Clock(11, 30))
	f.book(t, "p1", monday, models.Clock(9, 30), models.Clock(10, 0))
}

func TestCreateBookingDefaults(t *testing.T) {
	f := newFixture(t)
	item := f.book(t, "p1", monday, models.Clock(9, 0), models.Clock(10, 0))

	if item.BookingType != models.BookingOnline {
		t.Errorf("booking type = %s, want online", item.BookingType)
	}
	if item.Status != models.StatusPending || item.ProviderStatus != models.ProviderPending {
		t.Errorf("state = %s/%s, want pending/pending", item.Status, item.ProviderStatus)
	}
	if item.ServiceDuration != 60 {
		t.Errorf("service duration = %d, want 60", item.ServiceDuration)
	}
	if got := f.events.types(); len(got) != 1 || got[0] != models.EventBookingCreated {
		t.Errorf("events = %v, want [booking.created]", got)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	nonAstrologer := astrologer("p2")
	nonAstrologer.EmployeeType = "tarot"
	f := newFixture(t, astrologer("p1"), nonAstrologer)
	ctx := context.Background()

	base := CreateBookingRequest{
		ProviderID: "p1",
		Date:       monday,
		Start:      models.Clock(9, 0),
		End:        models.Clock(9, 30),
		ServiceID:  "svc",
		CustomerID: "c1",
	}
	tests := []struct {
		name   string
		mutate func(r *CreateBookingRequest)
		check  func(error) bool
	}{
		{"missing provider", func(r *CreateBookingRequest) { r.ProviderID = "" }, IsValidation},
		{"missing customer", func(r *CreateBookingRequest) { r.CustomerID = "" }, IsValidation},
		{"end before start", func(r *CreateBookingRequest) { r.End = models.Clock(8, 0) }, IsValidation},
		{"empty interval", func(r *CreateBookingRequest) { r.End = r.Start }, IsValidation},
		{"unknown type", func(r *CreateBookingRequest) { r.BookingType = "hybrid" }, IsValidation},
		{"unknown provider", func(r *CreateBookingRequest) { r.ProviderID = "ghost" }, IsNotFound},
		{"not an astrologer", func(r *CreateBookingRequest) { r.ProviderID = "p2" }, IsNotAvailable},
		{"non working day", func(r *CreateBookingRequest) { r.Date = tuesday }, IsNotAvailable},
		{"before working hours", func(r *CreateBookingRequest) {
			r.Start, r.End = models.Clock(8, 30), models.Clock(9, 30)
		}, IsNotAvailable},
		{"past end of day", func(r *CreateBookingRequest) {
			r.Start, r.End = models.Clock(12, 30), models.Clock(13, 30)
		}, IsNotAvailable},
		{"in the past", func(r *CreateBookingRequest) { r.Date = "2025-02-24" }, IsNotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			if _, err := f.engine.CreateBooking(ctx, req); !tt.check(err) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestCreateBookingOfflineRule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	offline := func(start, end models.TimeOfDay) error {
		_, err := f.engine.CreateBooking(ctx, CreateBookingRequest{
			ProviderID:  "p1",
			Date:        monday,
			Start:       start,
			End:         end,
			ServiceID:   "svc-visit",
			CustomerID:  "c1",
			BookingType: models.BookingOffline,
		})
		return err
	}

	if err := offline(models.Clock(9, 0), models.Clock(10, 0)); err != nil {
		t.Fatalf("first offline booking: %v", err)
	}
	if err := offline(models.Clock(11, 0), models.Clock(12, 0)); !IsOfflineConflict(err) {
		t.Fatalf("second offline booking err = %v, want OfflineConflictError", err)
	}
	// Online consultations still fit around the visit.
	f.book(t, "p1", monday, models.Clock(11, 0), models.Clock(12, 0))
}

func TestCreateBookingLeadTime(t *testing.T) {
	p := astrologer("p1")
	p.MinAdvanceHours = 3
	f := newFixture(t, p)
	f.engine.Now = func() time.Time { return time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC) }

	_, err := f.engine.CreateBooking(context.Background(), CreateBookingRequest{
		ProviderID: "p1", Date: monday, Start: models.Clock(9, 30), End: models.Clock(10, 0),
		ServiceID: "svc", CustomerID: "c1",
	})
	if !IsNotAvailable(err) {
		t.Fatalf("err = %v, want NotAvailableError", err)
	}
	f.book(t, "p1", monday, models.Clock(10, 0), models.Clock(10, 30))
}

func TestCreateBookingEndOfDaySlot(t *testing.T) {
	p := astrologer("p1")
	p.StartTime = models.Clock(22, 0)
	p.EndTime = models.Clock(23, 59)
	f := newFixture(t, p)

	item := f.book(t, "p1", monday, models.Clock(23, 30), models.EndOfDay)
	if item.EndTime.String() != "24:00" {
		t.Fatalf("end = %s, want 24:00", item.EndTime)
	}
}

// activeOverlaps reports any pair of active items on the same calendar
// whose intervals overlap.
func activeOverlaps(t *testing.T, repo *bookingRepo.MemoryBookingRepo, providerID, date string) []string {
	t.Helper()
	items, err := repo.Find(context.Background(), bookingRepo.NewFilter(
		bookingRepo.ForProvider(providerID),
		bookingRepo.OnDate(date),
		bookingRepo.ActiveOnly(),
	))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	var bad []string
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if items[i].Interval().Overlaps(items[j].Interval()) {
				bad = append(bad, items[i].Interval().String()+" / "+items[j].Interval().String())
			}
		}
	}
	return bad
}

func TestRandomBookingsNeverOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		start := models.Clock(9, 0).Add(rng.Intn(8) * 30)
		end := start.Add((rng.Intn(4) + 1) * 30)
		_, err := f.engine.CreateBooking(ctx, CreateBookingRequest{
			ProviderID: "p1", Date: monday, Start: start, End: end,
			ServiceID: "svc", CustomerID: "c1",
		})
		if err != nil && !IsConflict(err) && !IsNotAvailable(err) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if bad := activeOverlaps(t, f.repo, "p1", monday); len(bad) > 0 {
		t.Fatalf("overlapping active bookings: %v", bad)
	}
}

func TestConcurrentBookingsExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		won       int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every request overlaps 10:00-10:30.
			start := models.Clock(9, 30).Add((i % 2) * 30)
			_, err := f.engine.CreateBooking(ctx, CreateBookingRequest{
				ProviderID: "p1", Date: monday, Start: start, End: start.Add(60),
				ServiceID: "svc", CustomerID: "c1",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if won != 1 || conflicts != workers-1 {
		t.Fatalf("won=%d conflicts=%d, want 1/%d", won, conflicts, workers-1)
	}
	if bad := activeOverlaps(t, f.repo, "p1", monday); len(bad) > 0 {
		t.Fatalf("overlapping active bookings: %v", bad)
	}
}

func TestSessionWindowOnDaylightSavingChange(t *testing.T) {
	ny := astrologer("ny")
	ny.WorkingDays = []string{"Sunday"}
	ny.TimeZone = "America/New_York"
	f := newFixture(t, ny)

	// 2025-03-09 is the US spring-forward Sunday.
	item := f.book(t, "ny", "2025-03-09", models.Clock(10, 0), models.Clock(11, 0))
	start, end, err := f.engine.SessionWindow(context.Background(), item)
	if err != nil {
		t.Fatalf("SessionWindow: %v", err)
	}
	if want := time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("start = %s, want %s", start.UTC(), want)
	}
	if end.Sub(start) != time.Hour {
		t.Fatalf("window length = %s", end.Sub(start))
	}
}
