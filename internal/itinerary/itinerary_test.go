package itinerary

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

var fourSlots = Layout{
	PerDayCapacity: 4,
	TimeSlots:      []string{"10:00", "12:00", "14:30", "16:30"},
	OverflowLabel:  "3:00 PM",
}

func TestBuild_FiveVenuesOverTwoDays(t *testing.T) {
	got, err := Build([]string{"A", "B", "C", "D", "E"}, fourSlots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Entry{
		{VenueID: "A", Day: 1, OrderInDay: 1, SuggestedTime: "10:00"},
		{VenueID: "B", Day: 1, OrderInDay: 2, SuggestedTime: "12:00"},
		{VenueID: "C", Day: 1, OrderInDay: 3, SuggestedTime: "14:30"},
		{VenueID: "D", Day: 1, OrderInDay: 4, SuggestedTime: "16:30"},
		{VenueID: "E", Day: 2, OrderInDay: 1, SuggestedTime: "10:00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestBuild_EmptyVenues(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{"nil", nil},
		{"empty", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.ids, fourSlots)
			if !errors.Is(err, ErrNoVenues) {
				t.Errorf("expected ErrNoVenues, got %v", err)
			}
			if got != nil {
				t.Errorf("expected nil entries, got %+v", got)
			}
		})
	}
}

func TestBuild_InvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		_, err := Build([]string{"A"}, Layout{PerDayCapacity: c})
		if !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("capacity %d: expected ErrInvalidCapacity, got %v", c, err)
		}
	}
}

func TestBuild_ShortTimeSlotsUseOverflowLabel(t *testing.T) {
	layout := Layout{PerDayCapacity: 3, TimeSlots: []string{"11:00 AM"}, OverflowLabel: "3:00 PM"}

	got, err := Build([]string{"A", "B", "C", "D"}, layout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTimes := []string{"11:00 AM", "3:00 PM", "3:00 PM", "11:00 AM"}
	for i, e := range got {
		if e.SuggestedTime != wantTimes[i] {
			t.Errorf("entry %d: expected %q, got %q", i, wantTimes[i], e.SuggestedTime)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	ids := []string{"v1", "v2", "v3", "v4", "v5", "v6", "v7", "v8", "v9"}

	first, err := Build(ids, fourSlots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Build(ids, fourSlots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("Build output differs between calls:\n%s\n%s", a, b)
	}
}

func TestBuild_ReturnsFreshSlice(t *testing.T) {
	ids := []string{"A", "B"}
	first, _ := Build(ids, fourSlots)
	first[0].VenueID = "changed"

	second, _ := Build(ids, fourSlots)
	if second[0].VenueID != "A" {
		t.Errorf("expected independent result, got %q", second[0].VenueID)
	}
}

func TestDays(t *testing.T) {
	entries, _ := Build([]string{"A", "B", "C", "D", "E", "F"}, fourSlots)

	days := Days(entries)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Day != 1 || len(days[0].Entries) != 4 {
		t.Errorf("unexpected first day: %+v", days[0])
	}
	if days[1].Day != 2 || len(days[1].Entries) != 2 {
		t.Errorf("unexpected second day: %+v", days[1])
	}
	if days[1].Entries[1].VenueID != "F" {
		t.Errorf("expected F last, got %q", days[1].Entries[1].VenueID)
	}
	if n := DayCount(entries); n != 2 {
		t.Errorf("expected DayCount 2, got %d", n)
	}
	if n := DayCount(nil); n != 0 {
		t.Errorf("expected DayCount 0 for nil, got %d", n)
	}
}
