// Package cycle maps instants onto budget cycles: monthly windows that start on a configurable
// day of the month instead of the first.
//
// A cycle is named by its anchor month, the calendar month in which it starts. When the
// configured start day does not exist in a month (31 in April, 30 in February) the cycle of that
// month starts on the month's last day instead. The same clamped day is used when classifying an
// instant and when computing concrete bounds, so membership always agrees with
// Start <= t < End. For start days 29 to 31 this departs from comparing the day of month with
// the raw configured day: with a start day of 31, February 28 opens the February cycle instead of
// closing the January one.
package cycle

import (
	"fmt"
	"strconv"
	"time"

	"fjacquet/pocket-budget/internal/budgeterror"
	"fjacquet/pocket-budget/internal/dateutils"
	"fjacquet/pocket-budget/internal/models"
)

// Anchor identifies a cycle by the year and month it starts in.
type Anchor struct {
	Year  int
	Month time.Month
}

// Prev returns the anchor one month earlier.
func (a Anchor) Prev() Anchor {
	if a.Month == time.January {
		return Anchor{Year: a.Year - 1, Month: time.December}
	}
	return Anchor{Year: a.Year, Month: a.Month - 1}
}

// Next returns the anchor one month later.
func (a Anchor) Next() Anchor {
	if a.Month == time.December {
		return Anchor{Year: a.Year + 1, Month: time.January}
	}
	return Anchor{Year: a.Year, Month: a.Month + 1}
}

// Before reports whether a is an earlier cycle than b.
func (a Anchor) Before(b Anchor) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	return a.Month < b.Month
}

func (a Anchor) String() string {
	return fmt.Sprintf("%04d-%02d", a.Year, int(a.Month))
}

// Membership classifies an instant relative to the active cycle.
type Membership int

const (
	Other Membership = iota
	Current
	Previous
)

func (m Membership) String() string {
	switch m {
	case Current:
		return "current"
	case Previous:
		return "previous"
	default:
		return "other"
	}
}

// Cycle is a concrete [Start, End) window.
type Cycle struct {
	Anchor Anchor
	Start  time.Time
	End    time.Time
}

// Contains reports whether t lies inside the window. Start is inclusive, End exclusive.
func (c Cycle) Contains(t time.Time) bool {
	return !t.Before(c.Start) && t.Before(c.End)
}

func (c Cycle) String() string {
	return fmt.Sprintf("%s [%s, %s)", c.Anchor, c.Start.Format(time.RFC3339), c.End.Format(time.RFC3339))
}

// Resolver computes cycles for a fixed start day and location.
type Resolver struct {
	startDay int
	loc      *time.Location
}

// New returns a Resolver. startDay must lie in [1, 31]; a nil loc means time.Local.
func New(startDay int, loc *time.Location) (*Resolver, error) {
	if !models.ValidCycleStartDay(startDay) {
		return nil, budgeterror.NewValidation("cycle_start_day", strconv.Itoa(startDay), "must be between 1 and 31")
	}
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{startDay: startDay, loc: loc}, nil
}

// StartDay returns the configured day of month.
func (r *Resolver) StartDay() int {
	return r.startDay
}

// Location returns the zone calendar days are evaluated in.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// EffectiveDay is the day the cycle anchored at year/month actually starts on.
func (r *Resolver) EffectiveDay(year int, month time.Month) int {
	if days := dateutils.DaysIn(year, month); r.startDay > days {
		return days
	}
	return r.startDay
}

// AnchorOf returns the anchor of the cycle t belongs to.
func (r *Resolver) AnchorOf(t time.Time) Anchor {
	y, m, d := t.In(r.loc).Date()
	a := Anchor{Year: y, Month: m}
	if d < r.EffectiveDay(y, m) {
		return a.Prev()
	}
	return a
}

// ActiveAnchor returns the anchor of the cycle that contains now.
func (r *Resolver) ActiveAnchor(now time.Time) Anchor {
	return r.AnchorOf(now)
}

// InActiveCycle reports whether t belongs to the cycle active at now.
func (r *Resolver) InActiveCycle(t, now time.Time) bool {
	return r.AnchorOf(t) == r.ActiveAnchor(now)
}

// Classify places t in the current cycle, the one before it, or neither.
func (r *Resolver) Classify(t, now time.Time) Membership {
	active := r.ActiveAnchor(now)
	switch r.AnchorOf(t) {
	case active:
		return Current
	case active.Prev():
		return Previous
	default:
		return Other
	}
}

// Bounds returns the concrete window of the cycle anchored at a.
func (r *Resolver) Bounds(a Anchor) Cycle {
	next := a.Next()
	return Cycle{
		Anchor: a,
		Start:  time.Date(a.Year, a.Month, r.EffectiveDay(a.Year, a.Month), 0, 0, 0, 0, r.loc),
		End:    time.Date(next.Year, next.Month, r.EffectiveDay(next.Year, next.Month), 0, 0, 0, 0, r.loc),
	}
}

// Active returns the window of the cycle containing now.
func (r *Resolver) Active(now time.Time) Cycle {
	return r.Bounds(r.ActiveAnchor(now))
}
