package itinerary

import (
	"errors"

	"github.com/samber/lo"
)

var (
	// ErrNoVenues is returned when Build is called without venues.
	ErrNoVenues = errors.New("itinerary: venue list is empty")
	// ErrInvalidCapacity is returned when the per-day capacity is below one.
	ErrInvalidCapacity = errors.New("itinerary: per-day capacity must be at least 1")
)

// Layout controls how venues are spread over days.
type Layout struct {
	PerDayCapacity int      `json:"per_day_capacity"`
	TimeSlots      []string `json:"time_slots"`
	OverflowLabel  string   `json:"overflow_label"`
}

// Entry is one venue visit in a plan.
type Entry struct {
	VenueID       string `json:"venue_id"`
	Day           int    `json:"day"`
	OrderInDay    int    `json:"order_in_day"`
	SuggestedTime string `json:"suggested_time"`
}

// Day groups the entries of a single day.
type Day struct {
	Day     int     `json:"day"`
	Entries []Entry `json:"entries"`
}

// Build lays venueIDs out over consecutive days, PerDayCapacity per day, in
// the given order. Slot labels come from TimeSlots by position within the
// day; OverflowLabel fills in when TimeSlots is shorter than the capacity.
// The result is a new slice and depends only on the arguments.
func Build(venueIDs []string, layout Layout) ([]Entry, error) {
	if len(venueIDs) == 0 {
		return nil, ErrNoVenues
	}
	if layout.PerDayCapacity < 1 {
		return nil, ErrInvalidCapacity
	}

	entries := make([]Entry, len(venueIDs))
	for i, id := range venueIDs {
		pos := i % layout.PerDayCapacity
		label := layout.OverflowLabel
		if pos < len(layout.TimeSlots) {
			label = layout.TimeSlots[pos]
		}
		entries[i] = Entry{
			VenueID:       id,
			Day:           i/layout.PerDayCapacity + 1,
			OrderInDay:    pos + 1,
			SuggestedTime: label,
		}
	}
	return entries, nil
}

// Days groups entries by day, in day order.
func Days(entries []Entry) []Day {
	byDay := lo.GroupBy(entries, func(e Entry) int { return e.Day })
	keys := lo.Uniq(lo.Map(entries, func(e Entry, _ int) int { return e.Day }))
	return lo.Map(keys, func(d int, _ int) Day {
		return Day{Day: d, Entries: byDay[d]}
	})
}

// DayCount returns the number of days a plan spans.
func DayCount(entries []Entry) int {
	if len(entries) == 0 {
		return 0
	}
	return lo.MaxBy(entries, func(a, b Entry) bool { return a.Day > b.Day }).Day
}
