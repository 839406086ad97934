package models

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestTimeOfDayOnAcrossDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	// Clocks in New York jump from 02:00 to 03:00 on 2025-03-09.
	day := time.Date(2025, 3, 9, 0, 0, 0, 0, ny)

	got := Clock(10, 0).On(day)
	if got.Hour() != 10 || got.Minute() != 0 {
		t.Fatalf("10:00 on changeover day = %s", got)
	}
	if want := time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("10:00 EDT = %s, want %s", got.UTC(), want)
	}

	end := EndOfDay.On(day)
	if want := time.Date(2025, 3, 10, 0, 0, 0, 0, ny); !end.Equal(want) {
		t.Fatalf("24:00 = %s, want next midnight %s", end, want)
	}
}
