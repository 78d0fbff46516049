package exerciselog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidQuery marks caller input that cannot be turned into a Query or a date.
var ErrInvalidQuery = errors.New("invalid query")

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses caller-supplied date text. Date-only values are midnight
// in the engine's location; values carrying an offset keep it.
func (e *Engine) ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, e.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a valid date", ErrInvalidQuery, raw)
}

// ParseQuery builds a Query from raw query-string values. Empty values are
// absent. A non-numeric limit is treated as absent; a negative one is rejected.
func (e *Engine) ParseQuery(from, to, limit string) (Query, error) {
	var q Query

	if strings.TrimSpace(from) != "" {
		t, err := e.ParseDate(from)
		if err != nil {
			return Query{}, fmt.Errorf("from: %w", err)
		}
		q.From = &t
	}
	if strings.TrimSpace(to) != "" {
		t, err := e.ParseDate(to)
		if err != nil {
			return Query{}, fmt.Errorf("to: %w", err)
		}
		q.To = &t
	}

	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil {
		if n < 0 {
			return Query{}, fmt.Errorf("limit: %w: must not be negative", ErrInvalidQuery)
		}
		q.Limit = &n
	}

	return q, nil
}
