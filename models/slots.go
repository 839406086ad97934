package models

// SlotStatus is the coarse classification shown to customers.
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotUnavailable SlotStatus = "unavailable"
)

// Slot is a derived, fixed-size candidate window within a provider's day.
// Slots are regenerated per request and never persisted.
type Slot struct {
	Start      TimeOfDay  `json:"start"`      // display window start
	End        TimeOfDay  `json:"end"`        // display window end, Start + slot size
	ServiceEnd TimeOfDay  `json:"serviceEnd"` // Start + requested service duration
	Label      string     `json:"label"`
	Status     SlotStatus `json:"status"`
	Booked     bool       `json:"booked"`
	Disabled   bool       `json:"disabled"`
	// IsAvailable is set only when a multi-slot duration was requested. It
	// means the slot lies inside a free window long enough for the service,
	// not that the service can start at this slot.
	IsAvailable *bool `json:"is_available,omitempty"`
}

// Display returns the slot's fixed-size window.
func (s Slot) Display() Interval { return Interval{Start: s.Start, End: s.End} }

// Service returns the window the consultation would occupy.
func (s Slot) Service() Interval { return Interval{Start: s.Start, End: s.ServiceEnd} }

// Free reports whether the slot can be part of a new booking.
func (s Slot) Free() bool {
	return s.Status == SlotAvailable && !s.Booked && !s.Disabled
}
