package validate

import (
	"fmt"
	"strings"
	"time"
)

// NormalizeTime converts the heterogeneous clock representations returned by
// database drivers to the canonical "HH:MM" form. Strings are truncated to
// their first five characters, clock values are formatted, and durations are
// interpreted as time since midnight (hours wrap at 24). Absent input yields
// the empty string. Feeding an already canonical value back in is a no-op.
func NormalizeTime(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return clipClock(t)
	case []byte:
		return clipClock(string(t))
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(TimeLayout)
	case time.Duration:
		if t == 0 {
			return ""
		}
		total := int(t / time.Second)
		return fmt.Sprintf("%02d:%02d", (total/3600)%24, (total%3600)/60)
	case int64:
		if t == 0 {
			return ""
		}
		return fmt.Sprintf("%02d:%02d", (t/3600)%24, (t%3600)/60)
	default:
		return clipClock(fmt.Sprint(v))
	}
}

// NormalizeDate converts date representations to the canonical "YYYY-MM-DD"
// form, or the empty string for absent input.
func NormalizeDate(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return clipDate(d)
	case []byte:
		return clipDate(string(d))
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format(DateLayout)
	default:
		return clipDate(fmt.Sprint(v))
	}
}

// NormalizeOptional maps the conventional "no value" spellings arriving from
// forms and JSON clients ("", the literal "null") to nil.
func NormalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	if *v == "" || *v == "null" {
		return nil
	}
	return v
}

// OptionalString converts an optional pointer to its stored form, where
// absence is the empty string.
func OptionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// OptionalText collapses the serialized "no value" spelling JSON clients
// send for optional plain-string fields (the literal "null") to the empty
// string. Real values pass through untouched.
func OptionalText(s string) string {
	if s == "null" {
		return ""
	}
	return s
}

func clipClock(s string) string {
	if s == "" {
		return ""
	}
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

func clipDate(s string) string {
	// Timestamps such as "2025-06-10 09:00:00" reduce to their date part.
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return strings.TrimSpace(s)
}
