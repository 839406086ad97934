package bookingRepo

import (
	"slices"

	"astrobook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Filter selects booking items. Zero-valued fields do not constrain the result.
// Build one with NewFilter and FilterOptions; a Filter is never mutated in place.
type Filter struct {
	ProviderID       string
	Date             string
	Statuses         []models.BookingStatus
	ProviderStatuses []models.ProviderStatus
	BookingType      models.BookingType
	ExcludeID        string
	Overlapping      *models.Interval
}

// FilterOption derives a new Filter from an existing one.
type FilterOption func(Filter) Filter

// NewFilter applies opts to the empty filter.
func NewFilter(opts ...FilterOption) Filter {
	return Filter{}.With(opts...)
}

// With returns a copy of f with opts applied.
func (f Filter) With(opts ...FilterOption) Filter {
	for _, opt := range opts {
		f = opt(f)
	}
	return f
}

func ForProvider(providerID string) FilterOption {
	return func(f Filter) Filter {
		f.ProviderID = providerID
		return f
	}
}

func OnDate(date string) FilterOption {
	return func(f Filter) Filter {
		f.Date = date
		return f
	}
}

// ActiveOnly keeps items that occupy the calendar: pending, paid or blocked,
// and not rejected by the provider.
func ActiveOnly() FilterOption {
	return func(f Filter) Filter {
		f.Statuses = slices.Clone(models.ActiveStatuses)
		f.ProviderStatuses = slices.Clone(models.ActiveProviderStatuses)
		return f
	}
}

func WithStatuses(statuses ...models.BookingStatus) FilterOption {
	return func(f Filter) Filter {
		f.Statuses = slices.Clone(statuses)
		return f
	}
}

func OfType(t models.BookingType) FilterOption {
	return func(f Filter) Filter {
		f.BookingType = t
		return f
	}
}

func Excluding(id string) FilterOption {
	return func(f Filter) Filter {
		f.ExcludeID = id
		return f
	}
}

// OverlappingWith keeps items whose [start, end) intersects iv.
func OverlappingWith(iv models.Interval) FilterOption {
	return func(f Filter) Filter {
		f.Overlapping = &iv
		return f
	}
}

// BSON renders the filter as a MongoDB query document.
func (f Filter) BSON() bson.M {
	q := bson.M{}
	if f.ProviderID != "" {
		q["providerId"] = f.ProviderID
	}
	if f.Date != "" {
		q["date"] = f.Date
	}
	if len(f.Statuses) > 0 {
		q["status"] = bson.M{"$in": f.Statuses}
	}
	if len(f.ProviderStatuses) > 0 {
		q["providerStatus"] = bson.M{"$in": f.ProviderStatuses}
	}
	if f.BookingType != "" {
		q["bookingType"] = f.BookingType
	}
	if f.ExcludeID != "" {
		q["id"] = bson.M{"$ne": f.ExcludeID}
	}
	if f.Overlapping != nil {
		q["startTime"] = bson.M{"$lt": f.Overlapping.End}
		q["endTime"] = bson.M{"$gt": f.Overlapping.Start}
	}
	return q
}

// Matches evaluates the filter against a single item.
func (f Filter) Matches(item models.BookingItem) bool {
	switch {
	case f.ProviderID != "" && item.ProviderID != f.ProviderID:
		return false
	case f.Date != "" && item.Date != f.Date:
		return false
	case len(f.Statuses) > 0 && !slices.Contains(f.Statuses, item.Status):
		return false
	case len(f.ProviderStatuses) > 0 && !slices.Contains(f.ProviderStatuses, item.ProviderStatus):
		return false
	case f.BookingType != "" && item.BookingType != f.BookingType:
		return false
	case f.ExcludeID != "" && item.ID == f.ExcludeID:
		return false
	case f.Overlapping != nil && !f.Overlapping.Overlaps(item.Interval()):
		return false
	}
	return true
}
