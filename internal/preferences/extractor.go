package preferences

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var punctuation = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'",
	"\u201c", `"`, "\u201d", `"`,
	"\u2013", "-", "\u2014", "-",
)

// Extractor fills unset slots of a Record from free-text utterances using
// ordered rule tables. It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	tables []Table
}

// New returns an Extractor over DefaultTables.
func New() *Extractor {
	return NewWithTables(DefaultTables())
}

// NewWithTables returns an Extractor over the given tables, evaluated in order.
func NewWithTables(tables []Table) *Extractor {
	return &Extractor{tables: tables}
}

// Extract evaluates utterance against every unset slot and returns the
// updated record. Slots that already hold a value are never re-evaluated,
// so Extract(u, Extract(u, r)) == Extract(u, r). rec is not modified.
func (e *Extractor) Extract(utterance string, rec Record) Record {
	out := rec
	text := Normalize(utterance)
	if text == "" {
		return out
	}
	for _, t := range e.tables {
		if out.IsSet(t.Slot) {
			continue
		}
		if v, ok := t.evaluate(text); ok {
			out.Set(t.Slot, v)
		}
	}
	return out
}

// ExtractAll folds Extract over a sequence of utterances.
func (e *Extractor) ExtractAll(utterances []string, rec Record) Record {
	for _, u := range utterances {
		rec = e.Extract(u, rec)
	}
	return rec
}

func (t Table) evaluate(text string) (string, bool) {
	switch t.Mode {
	case FirstMatch:
		for _, r := range t.Rules {
			if r.Pattern.MatchString(text) {
				return r.Value, true
			}
		}
	case RawMatch:
		for _, r := range t.Rules {
			if m := r.Pattern.FindString(text); m != "" {
				return m, true
			}
		}
	case Union:
		tags := lo.FilterMap(t.Rules, func(r Rule, _ int) (string, bool) {
			return r.Value, r.Pattern.MatchString(text)
		})
		if tags = lo.Uniq(tags); len(tags) > 0 {
			return strings.Join(tags, ","), true
		}
	}
	return "", false
}

// Normalize folds case, applies NFKC, maps typographic punctuation to ASCII
// and collapses whitespace.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = punctuation.Replace(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}
