package util

import (
	"errors"
	"strings"
	"time"
)

// ParseDateRange parses optional start/end filter values. Values may be
// RFC3339 timestamps or bare YYYY-MM-DD dates; a date-only end is treated as
// inclusive by returning the start of the following day as an exclusive bound.
func ParseDateRange(startStr, endStr *string) (start time.Time, hasStart bool, endExclusive time.Time, hasEnd bool, err error) {
	parse := func(s string) (time.Time, bool, bool, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, false, false, nil
		}
		if t, e := time.Parse(time.RFC3339, s); e == nil {
			return t, true, false, nil
		}
		if t, e := time.Parse("2006-01-02", s); e == nil {
			return t, true, true, nil
		}
		return time.Time{}, false, false, errors.New("invalid date format (use YYYY-MM-DD or RFC3339)")
	}

	if startStr != nil {
		t, ok, _, e := parse(*startStr)
		if e != nil {
			return time.Time{}, false, time.Time{}, false, e
		}
		start, hasStart = t, ok
	}

	if endStr != nil {
		t, ok, dateOnly, e := parse(*endStr)
		if e != nil {
			return time.Time{}, false, time.Time{}, false, e
		}
		if ok {
			if dateOnly {
				t = t.AddDate(0, 0, 1)
			}
			endExclusive, hasEnd = t, true
		}
	}

	return start, hasStart, endExclusive, hasEnd, nil
}
