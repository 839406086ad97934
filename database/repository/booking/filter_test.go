package bookingRepo

import (
	"testing"

	"astrobook/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterBSONActiveProviderDay(t *testing.T) {
	f := NewFilter(ForProvider("p1"), OnDate("2025-03-03"), ActiveOnly())
	q := f.BSON()

	if q["providerId"] != "p1" || q["date"] != "2025-03-03" {
		t.Fatalf("unexpected provider/date keys: %#v", q)
	}
	status, ok := q["status"].(bson.M)
	if !ok {
		t.Fatalf("status clause missing: %#v", q)
	}
	in, ok := status["$in"].([]models.BookingStatus)
	if !ok || len(in) != 3 {
		t.Fatalf("status $in = %#v, want the three active statuses", status["$in"])
	}
	if _, ok := q["providerStatus"]; !ok {
		t.Fatalf("providerStatus clause missing: %#v", q)
	}
	if _, ok := q["startTime"]; ok {
		t.Fatalf("unexpected overlap clause without OverlappingWith: %#v", q)
	}
}

func TestFilterBSONOverlapAndExclude(t *testing.T) {
	iv := models.Interval{Start: models.Clock(10, 0), End: models.Clock(11, 0)}
	q := NewFilter(OverlappingWith(iv), Excluding("b1")).BSON()

	if got := q["startTime"].(bson.M)["$lt"]; got != iv.End {
		t.Fatalf("startTime $lt = %v, want %v", got, iv.End)
	}
	if got := q["endTime"].(bson.M)["$gt"]; got != iv.Start {
		t.Fatalf("endTime $gt = %v, want %v", got, iv.Start)
	}
	if got := q["id"].(bson.M)["$ne"]; got != "b1" {
		t.Fatalf("id $ne = %v, want b1", got)
	}
}

func TestFilterWithDoesNotMutateBase(t *testing.T) {
	base := NewFilter(ForProvider("p1"))
	derived := base.With(OnDate("2025-03-03"), OfType(models.BookingOffline))

	if base.Date != "" || base.BookingType != "" {
		t.Fatalf("base filter was mutated: %+v", base)
	}
	if derived.ProviderID != "p1" || derived.Date != "2025-03-03" || derived.BookingType != models.BookingOffline {
		t.Fatalf("derived filter = %+v", derived)
	}
}

func TestFilterMatches(t *testing.T) {
	item := models.BookingItem{
		ID:             "b1",
		ProviderID:     "p1",
		Date:           "2025-03-03",
		StartTime:      models.Clock(10, 0),
		EndTime:        models.Clock(10, 30),
		BookingType:    models.BookingOnline,
		Status:         models.StatusPending,
		ProviderStatus: models.ProviderPending,
	}

	cases := []struct {
		name string
		f    Filter
		want bool
	}{
		{"empty", NewFilter(), true},
		{"active", NewFilter(ForProvider("p1"), OnDate("2025-03-03"), ActiveOnly()), true},
		{"other provider", NewFilter(ForProvider("p2")), false},
		{"excluded", NewFilter(Excluding("b1")), false},
		{"offline only", NewFilter(OfType(models.BookingOffline)), false},
		{"touching interval", NewFilter(OverlappingWith(models.Interval{Start: models.Clock(10, 30), End: models.Clock(11, 0)})), false},
		{"overlapping interval", NewFilter(OverlappingWith(models.Interval{Start: models.Clock(10, 15), End: models.Clock(11, 0)})), true},
		{"paid only", NewFilter(WithStatuses(models.StatusPaid)), false},
	}
	for _, tc := range cases {
		if got := tc.f.Matches(item); got != tc.want {
			t.Errorf("%s: Matches = %v, want %v", tc.name, got, tc.want)
		}
	}

	item.ProviderStatus = models.ProviderRejected
	if NewFilter(ActiveOnly()).Matches(item) {
		t.Fatal("rejected item must not match ActiveOnly")
	}
}
