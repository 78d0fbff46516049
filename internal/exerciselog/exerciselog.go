// Package exerciselog filters and formats a user's exercise log.
//
// The engine is pure: given the same log, query and location it always
// returns the same result. Dates are compared as calendar days in the
// engine's location, so the time of day of an entry never affects whether
// it falls inside a range.
package exerciselog

import (
	"time"

	"exercise-tracker/internal/models"

	"github.com/samber/lo"
)

// DateLayout renders dates as weekday, month, zero-padded day and year,
// e.g. "Sun Jan 15 2023".
const DateLayout = "Mon Jan 02 2006"

// Query holds the optional log filters. A nil field means "absent".
type Query struct {
	From  *time.Time
	To    *time.Time
	Limit *int
}

// Entry is a formatted log entry.
type Entry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// Result is the filtered, formatted log.
type Result struct {
	Count int     `json:"count"`
	Log   []Entry `json:"log"`
}

// Engine filters and formats logs in a fixed location.
type Engine struct {
	loc *time.Location
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for default exercise dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine for loc. A nil loc means UTC.
func New(loc *time.Location, opts ...Option) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	e := &Engine{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the location used for parsing and rendering.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Now returns the current time in the engine's location.
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

// Select applies the range filter and then the limit. The result keeps the
// log's insertion order; the limit is a prefix-take, not a most-recent pick.
func (e *Engine) Select(log []models.Exercise, q Query) []models.Exercise {
	var from, to time.Time
	if q.From != nil {
		from = e.day(*q.From)
	}
	if q.To != nil {
		to = e.day(*q.To)
	}

	selected := lo.Filter(log, func(ex models.Exercise, _ int) bool {
		d := e.day(ex.Date)
		if q.From != nil && d.Before(from) {
			return false
		}
		if q.To != nil && d.After(to) {
			return false
		}
		return true
	})

	if q.Limit != nil {
		n := max(*q.Limit, 0)
		if n < len(selected) {
			selected = selected[:n]
		}
	}
	return selected
}

// Apply filters log with q and formats the surviving entries.
func (e *Engine) Apply(log []models.Exercise, q Query) Result {
	selected := e.Select(log, q)
	return Result{
		Count: len(selected),
		Log: lo.Map(selected, func(ex models.Exercise, _ int) Entry {
			return e.Format(ex)
		}),
	}
}

// Format renders a single exercise.
func (e *Engine) Format(ex models.Exercise) Entry {
	return Entry{
		Description: ex.Description,
		Duration:    ex.Duration,
		Date:        e.FormatDate(ex.Date),
	}
}

// FormatDate renders t with DateLayout in the engine's location.
func (e *Engine) FormatDate(t time.Time) string {
	return t.In(e.loc).Format(DateLayout)
}

// day truncates t to midnight of its calendar day in the engine's location.
func (e *Engine) day(t time.Time) time.Time {
	y, m, d := t.In(e.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.loc)
}
