package preferences

// Slot names a single field of trip-planning information.
type Slot string

const (
	SlotTiming          Slot = "timing"
	SlotGroupSize       Slot = "group_size"
	SlotWinePreferences Slot = "wine_preferences"
	SlotVibe            Slot = "vibe"
	SlotReservations    Slot = "reservations"
	SlotTransportation  Slot = "transportation"
	SlotAddons          Slot = "addons"
)

// Slots returns every slot in canonical order.
func Slots() []Slot {
	return []Slot{
		SlotTiming,
		SlotGroupSize,
		SlotWinePreferences,
		SlotVibe,
		SlotReservations,
		SlotTransportation,
		SlotAddons,
	}
}

// Record is the structured preference state of one session.
// An empty slot is unset. Record is a value type: copying it yields an
// independent record.
type Record struct {
	Timing          string `json:"timing,omitempty"`
	GroupSize       string `json:"group_size,omitempty"`
	WinePreferences string `json:"wine_preferences,omitempty"`
	Vibe            string `json:"vibe,omitempty"`
	Reservations    string `json:"reservations,omitempty"`
	Transportation  string `json:"transportation,omitempty"`
	Addons          string `json:"addons,omitempty"`

	ItineraryTriggered bool `json:"itinerary_triggered"`
	ItineraryGenerated bool `json:"itinerary_generated"`
	CompletedAllSteps  bool `json:"completed_all_steps"`
}

// Get returns the value of a slot, or "" when unset or unknown.
func (r Record) Get(s Slot) string {
	if f := r.field(s); f != nil {
		return *f
	}
	return ""
}

// IsSet reports whether a slot holds a value.
func (r Record) IsSet(s Slot) bool {
	return r.Get(s) != ""
}

// Set writes value into the slot only if the slot is unset.
// It reports whether the write happened.
func (r *Record) Set(s Slot, value string) bool {
	f := r.field(s)
	if f == nil || *f != "" || value == "" {
		return false
	}
	*f = value
	return true
}

// Filled returns the set slots in canonical order.
func (r Record) Filled() []Slot {
	var out []Slot
	for _, s := range Slots() {
		if r.IsSet(s) {
			out = append(out, s)
		}
	}
	return out
}

func (r *Record) field(s Slot) *string {
	switch s {
	case SlotTiming:
		return &r.Timing
	case SlotGroupSize:
		return &r.GroupSize
	case SlotWinePreferences:
		return &r.WinePreferences
	case SlotVibe:
		return &r.Vibe
	case SlotReservations:
		return &r.Reservations
	case SlotTransportation:
		return &r.Transportation
	case SlotAddons:
		return &r.Addons
	default:
		return nil
	}
}
