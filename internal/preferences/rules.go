package preferences

import "regexp"

// Mode selects how a slot's rule table is evaluated.
type Mode int

const (
	// FirstMatch sets the slot to the Value of the first matching rule.
	FirstMatch Mode = iota
	// RawMatch sets the slot to the text matched by the first matching rule.
	RawMatch
	// Union sets the slot to the comma-joined Values of every matching rule.
	Union
)

// Rule pairs a pattern with the value it contributes.
type Rule struct {
	Value   string
	Pattern *regexp.Regexp
}

// Table is the ordered rule list for one slot.
type Table struct {
	Slot  Slot
	Mode  Mode
	Rules []Rule
}

func rule(value, pattern string) Rule {
	return Rule{Value: value, Pattern: regexp.MustCompile(pattern)}
}

const weekday = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`

// DefaultTables returns the rule tables for every slot, in evaluation order.
// Patterns run against normalized (case-folded) text.
func DefaultTables() []Table {
	return []Table{
		{
			Slot: SlotTiming,
			Mode: RawMatch,
			Rules: []Rule{
				rule("relative_day", `\b(today|tonight|tomorrow)\b`),
				rule("relative_span", `\b(this|next) (weekend|week|month)\b`),
				rule("named_weekday", `\b(this|next) (`+weekday+`)\b`),
				rule("month", `\b(january|february|march|april|june|july|august|september|october|november|december)( \d{1,2}(st|nd|rd|th)?)?\b`),
				rule("month_abbrev", `\b(jan|feb|mar|apr|may|jun|jul|aug|sept?|oct|nov|dec)\.? \d{1,2}(st|nd|rd|th)?\b`),
				rule("weekday", `\b(`+weekday+`)\b`),
				rule("numeric_date", `\b\d{1,2}/\d{1,2}(/\d{2,4})?\b`),
				rule("offset", `\bin (a|an|\d+|two|three|four|a few|a couple( of)?) (days?|weeks?|months?)\b`),
				rule("season", `\b((this|next) )?(spring|summer|autumn|winter|harvest|crush season)\b|\b(this|next) fall\b|\bin the fall\b`),
			},
		},
		{
			Slot: SlotGroupSize,
			Mode: FirstMatch,
			Rules: []Rule{
				// Headcounts are checked before partner words so "my wife and 4 friends"
				// counts the friends.
				rule("small_group", `\b([3-6]|three|four|five|six) (of us|people|persons|guests|adults|friends|pax)\b|\bparty of ([3-6]|three|four|five|six)\b|\b(small group|a few friends|double date)\b`),
				rule("large_group", `\b([7-9]|[1-9]\d+|seven|eight|nine|ten|eleven|twelve|(a )?dozen) (of us|people|persons|guests|adults|friends|pax)\b|\bparty of ([7-9]|[1-9]\d+)\b|\b(large group|big group|bachelorette|bachelor party|wedding party|corporate|company outing|team outing)\b`),
				rule("couple", `\b(2|two) (of us|people|persons|guests|adults|pax)\b|\bparty of (2|two)\b|\bmy (wife|husband|partner|girlfriend|boyfriend|fiance|fiancee|spouse)\b|\bas a couple\b`),
				rule("solo", `\b(just me|only me|by myself|solo|on my own|party of (1|one))\b`),
			},
		},
		{
			Slot: SlotWinePreferences,
			Mode: Union,
			Rules: []Rule{
				rule("red", `\b(reds?|red wines?|cabernet|cabs?|merlot|pinot noir|zinfandel|zin|syrah|shiraz|malbec|petite sirah|grenache|sangiovese|tempranillo|bordeaux)\b`),
				rule("white", `\b(whites?|white wines?|chardonnay|chard|sauvignon blanc|sav blanc|riesling|pinot gris|pinot grigio|viognier|albarino|chenin)\b`),
				rule("rose", `\brosé|\b(rose|rosato)\b`),
				rule("sparkling", `\b(sparkling|bubbles|bubbly|champagne|prosecco|cava|cremant|pet[- ]nat)\b`),
				rule("dry", `\b(dry|drier|bone[- ]dry)\b`),
				rule("sweet", `\b(sweet|sweeter|dessert wines?|port|late harvest|ice wine|moscato)\b`),
				rule("bold", `\b(bold|full[- ]bodied|big reds?|jammy|tannic)\b`),
				rule("light", `\b(light(er)?[- ]bodied|light reds?|crisp|refreshing|easy[- ]drinking)\b`),
				rule("natural", `\b(natural wines?|organic|biodynamic|low[- ]intervention|sustainable)\b`),
				rule("open", `\b(anything|everything|all kinds|no preference|not picky|whatever)\b`),
			},
		},
		{
			Slot: SlotVibe,
			Mode: FirstMatch,
			Rules: []Rule{
				rule("romantic", `\b(romantic|romance|anniversary|honeymoon|date night|proposal|propose)\b`),
				rule("celebration", `\b(celebrat\w*|birthday|bachelorette|bachelor party|festive|reunion|girls'? (trip|weekend)|guys'? trip)\b`),
				rule("luxury", `\b(luxur\w*|upscale|high[- ]end|exclusive|vip|splurge|fancy|private tastings?)\b`),
				rule("educational", `\b(learn(ing)?|educational|behind the scenes|winemaking|winemaker|blending|wine (class|education))\b`),
				rule("adventurous", `\b(adventur\w*|off the beaten path|hidden gems?|undiscovered|quirky|something different)\b`),
				rule("relaxed", `\b(relax\w*|chill|laid[- ]back|low[- ]key|easy ?going|casual|unwind|slow pace|mellow)\b`),
			},
		},
		{
			Slot: SlotReservations,
			Mode: FirstMatch,
			Rules: []Rule{
				rule("booked", `\balready (have|made|booked|got|reserved)\b|\bwe('ve| have) (booked|reserved)\b|\bwe('ve| have) (a |some )?(reservations?|appointments?|bookings?)\b|\bbooked (a|some|our|two|three) (tastings?|reservations?|appointments?)\b`),
				rule("walk_in", `\bwalk[- ]ins?\b|\b(no|don't need|do not need|without) (reservations?|appointments?|booking)\b|\b(spontaneous|wing it|play it by ear|go with the flow)\b`),
				rule("needs_booking", `\b(need|want|like|help|please|can you|could you)\b[^,.;]*\b(reservations?|book(ing)?|appointments?|reserve)\b|\bbook (us|for us|it|them)\b|\bmake (a |the )?reservations?\b`),
			},
		},
		{
			Slot: SlotTransportation,
			Mode: FirstMatch,
			Rules: []Rule{
				rule("self_drive", `\b(we('ll| will)? drive|i'll drive|driving ourselves|drive ourselves|(my|our) (own )?car|rental car|rent a car|designated driver|self[- ]drive)\b`),
				rule("driver", `\b(driver|chauffeur|limo|limousine|private car|car service|town car)\b`),
				rule("tour", `\b(tour bus|shuttle|party bus|guided (wine )?tour|wine tour|hop[- ]on)\b`),
				rule("rideshare", `\b(uber|lyft|rideshare|ride[- ]share|taxi)\b`),
				rule("bike", `\b(bikes?|biking|bicycles?|cycling|e-?bikes?)\b`),
				rule("walking", `\b(on foot|walkable|walking distance|walk between)\b`),
			},
		},
		{
			Slot: SlotAddons,
			Mode: Union,
			Rules: []Rule{
				rule("food", `\b(food|lunch|dinner|brunch|pairings?|cheese|charcuterie|picnic|restaurants?|bites)\b`),
				rule("lodging", `\b(hotel|lodging|inn|resort|bed and breakfast|b&b|place to stay|accommodations?)\b`),
				rule("spa", `\b(spa|massage|mud bath|hot springs?)\b`),
				rule("balloon", `\b(hot[- ]air balloon|balloon ride|ballooning)\b`),
				rule("cave_tour", `\b(cave tours?|caves?|barrel tasting|vineyard (tour|walk)s?|cellar tours?)\b`),
				rule("photography", `\b(photos?|photographer|photography|photo shoot)\b`),
				rule("none", `\b(no (add-?ons|extras)|nothing else|just (the )?(wine|tastings?)|that's (it|all)|no thanks)\b`),
			},
		},
	}
}
