package window

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Blackouts removes recurring closed dates (holidays, board picks) from the
// signup window. Rules use RFC 5545 recurrence strings, the same form the
// config layer validates at load.
type Blackouts struct {
	rules []*rrule.RRule
}

// ParseBlackouts compiles recurrence strings into a blackout set. A nil or
// empty input yields a set that excludes nothing.
func ParseBlackouts(exprs []string) (*Blackouts, error) {
	b := &Blackouts{}
	for _, expr := range exprs {
		rule, err := rrule.StrToRRule(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid blackout rule %q: %w", expr, err)
		}
		b.rules = append(b.rules, rule)
	}
	return b, nil
}

// Excludes reports whether any rule lands on the given calendar date.
// Matching is by calendar date in the occurrence's own frame, so a rule
// naming Dec 25 blacks out Dec 25 regardless of timezone offsets. The
// probe range is widened a day each side to absorb offset skew between
// the rule's DTSTART and the local calendar.
func (b *Blackouts) Excludes(date time.Time) bool {
	if b == nil || len(b.rules) == 0 {
		return false
	}
	y, m, d := date.Date()
	after := date.AddDate(0, 0, -1)
	before := date.AddDate(0, 0, 2)

	for _, rule := range b.rules {
		for _, occ := range rule.Between(after, before, true) {
			oy, om, od := occ.Date()
			if oy == y && om == m && od == d {
				return true
			}
		}
	}
	return false
}

// Filter returns the dates that survive the blackout set, order preserved.
func (b *Blackouts) Filter(dates []time.Time) []time.Time {
	if b == nil || len(b.rules) == 0 {
		return dates
	}
	kept := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if !b.Excludes(d) {
			kept = append(kept, d)
		}
	}
	return kept
}
