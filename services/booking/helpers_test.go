package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"astrobook/database/lock"
	bookingRepo "astrobook/database/repository/booking"
	providerRepo "astrobook/database/repository/provider"
	"astrobook/models"
)

// 2025-03-03 and 2025-03-10 are Mondays.
const (
	monday     = "2025-03-03"
	nextMonday = "2025-03-10"
	tuesday    = "2025-03-04"
)

func astrologer(id string) models.ProviderProfile {
	return models.ProviderProfile{
		ID:           id,
		Name:         "Provider " + id,
		EmployeeType: models.EmployeeTypeAstrologer,
		WorkingDays:  []string{"Monday", "Wednesday"},
		StartTime:    models.Clock(9, 0),
		EndTime:      models.Clock(13, 0),
		SlotMinutes:  30,
		TimeZone:     "UTC",
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev models.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []models.BookingEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.BookingEventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type stubLinks struct {
	link  string
	err   error
	calls int
}

func (s *stubLinks) CreateLink(_ context.Context, _ models.BookingItem) (string, error) {
	s.calls++
	return s.link, s.err
}

type fixture struct {
	engine *DefaultSchedulingEngine
	repo   *bookingRepo.MemoryBookingRepo
	events *recordingPublisher
	links  *stubLinks
}

// newFixture builds an engine whose clock reads Saturday 2025-03-01 08:00 UTC.
func newFixture(t *testing.T, profiles ...models.ProviderProfile) *fixture {
	t.Helper()
	if len(profiles) == 0 {
		profiles = []models.ProviderProfile{astrologer("p1")}
	}
	repo := bookingRepo.NewMemoryBookingRepo()
	events := &recordingPublisher{}
	links := &stubLinks{link: "https://meet.example.com/room-1"}
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	return &fixture{
		engine: &DefaultSchedulingEngine{
			Repo:            repo,
			Providers:       providerRepo.NewMemoryProviderRepo(profiles...),
			Locks:           lock.NewLocalLocker(),
			SessionLinks:    links,
			Events:          events,
			DefaultTimeZone: "UTC",
			Now:             func() time.Time { return now },
		},
		repo:   repo,
		events: events,
		links:  links,
	}
}

func (f *fixture) book(t *testing.T, providerID, date string, start, end models.TimeOfDay) *models.BookingItem {
	t.Helper()
	item, err := f.engine.CreateBooking(context.Background(), CreateBookingRequest{
		ProviderID: providerID,
		Date:       date,
		Start:      start,
		End:        end,
		ServiceID:  "svc-kundli",
		CustomerID: "c1",
	})
	if err != nil {
		t.Fatalf("CreateBooking %s %s-%s: %v", date, start, end, err)
	}
	return item
}
