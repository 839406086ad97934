package booking

import "astrobook/models"

// BuildSlots turns a provider's working window into fixed-size slots.
//
// Slots start at the profile's start time and advance by the slot size. A slot
// is emitted only while its display end stays within the working window. The
// single exception is an end time of 23:59, which stands for the end of the
// day and lets the last slot run to 24:00 (see ProviderProfile.EffectiveEnd).
//
// serviceMinutes sets each slot's service window; zero means one slot.
func BuildSlots(profile models.ProviderProfile, serviceMinutes int) []models.Slot {
	size := profile.SlotSize()
	if serviceMinutes <= 0 {
		serviceMinutes = size
	}
	end := profile.EffectiveEnd()
	if !profile.StartTime.Valid() || !end.Valid() {
		return nil
	}

	var slots []models.Slot
	for start := profile.StartTime; start.Minutes()+size <= end.Minutes(); start = start.Add(size) {
		display := start.Add(size)
		slots = append(slots, models.Slot{
			Start:      start,
			End:        display,
			ServiceEnd: start.Add(serviceMinutes),
			Label:      start.String() + " - " + display.String(),
			Status:     models.SlotAvailable,
		})
	}
	return slots
}
