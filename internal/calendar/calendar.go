package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/sommelier/internal/itinerary"
	ics "github.com/arran4/golang-ical"
)

// ErrNoEntries is returned when there is nothing to export.
var ErrNoEntries = errors.New("calendar: no itinerary entries")

const productID = "-//MikeSquared-Agency//sommelier//EN"

var labelLayouts = []string{"15:04", "3:04 PM", "3:04PM", "3 PM", "3PM"}

// Options controls how entries become calendar events.
type Options struct {
	// Ref identifies the plan; it prefixes every event UID.
	Ref      string
	Location *time.Location
	Visit    time.Duration
	Stamp    time.Time
}

// LoadLocation resolves a timezone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Export renders entries as an iCalendar document. Day 1 falls on start;
// each entry begins at its suggested time, or noon when the label is not a
// clock time.
func Export(entries []itinerary.Entry, start time.Time, opts Options) (string, error) {
	if len(entries) == 0 {
		return "", ErrNoEntries
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	visit := opts.Visit
	if visit <= 0 {
		visit = 75 * time.Minute
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, e := range entries {
		hour, minute, ok := ParseLabel(e.SuggestedTime)
		if !ok {
			hour, minute = 12, 0
		}
		day := start.AddDate(0, 0, e.Day-1)
		begin := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)

		ev := cal.AddEvent(fmt.Sprintf("%s-%d-%d@sommelier", opts.Ref, e.Day, e.OrderInDay))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(begin)
		ev.SetEndAt(begin.Add(visit))
		ev.SetSummary(e.VenueID)
		ev.SetDescription(fmt.Sprintf("Day %d, stop %d at %s", e.Day, e.OrderInDay, e.SuggestedTime))
	}

	return cal.Serialize(), nil
}

// ParseLabel reads a display label such as "14:30" or "2:30 PM".
func ParseLabel(label string) (hour, minute int, ok bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	for _, layout := range labelLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t.Hour(), t.Minute(), true
		}
	}
	return 0, 0, false
}
