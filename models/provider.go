package models

import (
	"strings"
	"time"
)

// EmployeeTypeAstrologer is the only provider type that takes consultations.
const EmployeeTypeAstrologer = "astrologer"

// DefaultSlotMinutes is the booking granularity used when a profile leaves it unset.
const DefaultSlotMinutes = 30

// ProviderProfile is a provider's recurring weekly availability.
type ProviderProfile struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	EmployeeType    string    `bson:"employeeType" json:"employeeType"`
	WorkingDays     []string  `bson:"workingDays" json:"workingDays"` // weekday names, e.g. "Monday"
	StartTime       TimeOfDay `bson:"startTime" json:"startTime"`
	EndTime         TimeOfDay `bson:"endTime" json:"endTime"`
	MinAdvanceHours int       `bson:"minAdvanceHours" json:"minAdvanceHours"`
	SlotMinutes     int       `bson:"slotMinutes,omitempty" json:"slotMinutes,omitempty"`
	TimeZone        string    `bson:"timeZone,omitempty" json:"timeZone,omitempty"` // IANA name
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SlotSize returns the slot granularity in minutes.
func (p ProviderProfile) SlotSize() int {
	if p.SlotMinutes <= 0 {
		return DefaultSlotMinutes
	}
	return p.SlotMinutes
}

// WorksOn reports whether the weekday is one of the provider's working days.
func (p ProviderProfile) WorksOn(day time.Weekday) bool {
	for _, d := range p.WorkingDays {
		if strings.EqualFold(strings.TrimSpace(d), day.String()) {
			return true
		}
	}
	return false
}

// IsAstrologer reports whether the profile may be scheduled for consultations.
func (p ProviderProfile) IsAstrologer() bool {
	return strings.EqualFold(p.EmployeeType, EmployeeTypeAstrologer)
}

// EffectiveEnd is the last minute a slot may end at. An end time of 23:59
// stands for the end of the day, so the final slot may run to 24:00.
func (p ProviderProfile) EffectiveEnd() TimeOfDay {
	if p.EndTime == LastMinute {
		return EndOfDay
	}
	return p.EndTime
}

// WorkingWindow is the daily bookable range.
func (p ProviderProfile) WorkingWindow() Interval {
	return Interval{Start: p.StartTime, End: p.EffectiveEnd()}
}

// Location resolves the profile's time zone, falling back to def and then UTC.
func (p ProviderProfile) Location(def string) *time.Location {
	for _, name := range []string{p.TimeZone, def} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}
