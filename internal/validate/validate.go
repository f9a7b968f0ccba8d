// Package validate holds the pure input checks applied before any planner
// mutation reaches persistence. Handlers run them first with user-facing
// messages; the persistence gateway runs them again and trusts no caller.
package validate

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical calendar date form stored and displayed everywhere.
const DateLayout = "2006-01-02"

// TimeLayout is the canonical clock time form stored and displayed everywhere.
const TimeLayout = "15:04"

// unsafePatterns is a small case-insensitive deny-list of markup/script
// injection substrings. It is a defense-in-depth heuristic, not a sanitizer;
// persistence still uses parameterized statements.
var unsafePatterns = []string{"<script", "javascript:", "onerror=", "onclick="}

// ID reports whether v parses as a positive integer identifier.
func ID(v string) bool {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	return err == nil && id > 0
}

// IDValue reports whether an already-parsed identifier is positive.
func IDValue(id int64) bool {
	return id > 0
}

// SafeText reports whether s is acceptable free text: present when required,
// within maxLen, and free of the injection deny-list.
func SafeText(s string, maxLen int, required bool) bool {
	if s == "" {
		return !required
	}
	if len(s) > maxLen {
		return false
	}
	lower := strings.ToLower(s)
	for _, pattern := range unsafePatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	return true
}

// NotBlank reports whether s contains anything besides whitespace.
func NotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Length reports whether the length of s lies within [minLen, maxLen].
func Length(s string, minLen, maxLen int) bool {
	return len(s) >= minLen && len(s) <= maxLen
}

// DateFormat reports whether s is a valid YYYY-MM-DD calendar date, in the
// strict ten-character shape.
func DateFormat(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// TimeFormat reports whether s is a valid HH:MM clock time. time.Parse
// tolerates single-digit hours, so the canonical five-character shape is
// checked first.
func TimeFormat(s string) bool {
	if len(s) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// DateNotPast reports whether s is today or later relative to now's calendar date.
func DateNotPast(s string, now time.Time) bool {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	today := truncateToDate(now)
	return !d.Before(today)
}

// DateTimeNotPast reports whether the date/time pair is not behind now.
// A future date passes regardless of the time; a past date fails regardless.
// On today's date the time must not be behind the current clock; a missing
// time on today's date is treated as valid.
func DateTimeNotPast(dateStr, timeStr string, now time.Time) bool {
	d, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return false
	}
	today := truncateToDate(now)
	if d.After(today) {
		return true
	}
	if d.Before(today) {
		return false
	}
	if timeStr == "" {
		return true
	}
	clock, err := time.Parse(TimeLayout, timeStr)
	if err != nil {
		return false
	}
	nowClock := now.Hour()*60 + now.Minute()
	return clock.Hour()*60+clock.Minute() >= nowClock
}

// Priority reports whether p coerces to one of the task priorities 1, 2, 3.
func Priority(p string) bool {
	v, err := strconv.Atoi(strings.TrimSpace(p))
	return err == nil && PriorityValue(v)
}

// PriorityValue reports whether an integer priority is in range.
func PriorityValue(p int) bool {
	return p >= 1 && p <= 3
}

// State reports whether e coerces to a task state of 0 (pending) or 1 (completed).
func State(e string) bool {
	v, err := strconv.Atoi(strings.TrimSpace(e))
	return err == nil && StateValue(v)
}

// StateValue reports whether an integer state is in range.
func StateValue(e int) bool {
	return e == 0 || e == 1
}

// TimeRange reports whether end is not before start. Either bound may be
// missing, which other checks are responsible for; with both present, each
// must be a valid HH:MM.
func TimeRange(start, end string) bool {
	if start == "" || end == "" {
		return true
	}
	if !TimeFormat(start) || !TimeFormat(end) {
		return false
	}
	return end >= start
}

// DateRange reports whether end is not before start, comparing dates only.
// A missing end is valid.
func DateRange(start, end string) bool {
	if end == "" {
		return true
	}
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return false
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return false
	}
	return !e.Before(s)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
