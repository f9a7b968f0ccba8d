package validate

import (
	"testing"
	"time"
)

func TestID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"42", true},
		{" 7 ", true},
		{"0", false},
		{"-3", false},
		{"abc", false},
		{"", false},
		{"1.5", false},
	}

	for _, tc := range cases {
		if got := ID(tc.input); got != tc.want {
			t.Errorf("ID(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestSafeText(t *testing.T) {
	t.Parallel()

	t.Run("rejects injection patterns case-insensitively", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{
			"<script>alert(1)</script>",
			"<SCRIPT src=x>",
			"click javascript:void(0)",
			"img onerror=steal()",
			"a onclick=bad()",
		} {
			if SafeText(s, 200, true) {
				t.Errorf("SafeText(%q) = true, want false", s)
			}
		}
	})

	t.Run("accepts ordinary text including angle brackets", func(t *testing.T) {
		t.Parallel()
		if !SafeText("a < b and b > c", 200, true) {
			t.Error("plain comparison text should be accepted")
		}
		if !SafeText("Standup", 100, true) {
			t.Error("plain name should be accepted")
		}
	})

	t.Run("honours required and length", func(t *testing.T) {
		t.Parallel()
		if SafeText("", 100, true) {
			t.Error("empty required text should be rejected")
		}
		if !SafeText("", 100, false) {
			t.Error("empty optional text should be accepted")
		}
		if SafeText("abcdef", 5, true) {
			t.Error("over-length text should be rejected")
		}
	})
}

func TestDateFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  bool
	}{
		{"2025-06-10", true},
		{"2025-02-29", false},
		{"2024-02-29", true},
		{"2025-6-1", false},
		{"10-06-2025", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := DateFormat(tc.input); got != tc.want {
			t.Errorf("DateFormat(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestTimeFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  bool
	}{
		{"09:00", true},
		{"23:59", true},
		{"00:00", true},
		{"24:00", false},
		{"9:00", false},
		{"09:60", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := TimeFormat(tc.input); got != tc.want {
			t.Errorf("TimeFormat(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestDateNotPast(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	if !DateNotPast("2025-06-10", now) {
		t.Error("today should not count as past")
	}
	if !DateNotPast("2025-06-11", now) {
		t.Error("tomorrow should not count as past")
	}
	if DateNotPast("2025-06-09", now) {
		t.Error("yesterday should count as past")
	}
	if DateNotPast("not-a-date", now) {
		t.Error("malformed dates are invalid")
	}
}

func TestDateTimeNotPast(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		date string
		tm   string
		want bool
	}{
		{"future date ignores time", "2025-06-11", "00:00", true},
		{"past date ignores time", "2025-06-09", "23:59", false},
		{"today later time", "2025-06-10", "15:31", true},
		{"today same minute", "2025-06-10", "15:30", true},
		{"today earlier time", "2025-06-10", "15:29", false},
		{"today missing time is permissive", "2025-06-10", "", true},
		{"malformed time on today", "2025-06-10", "half past", false},
		{"malformed date", "June 10th", "15:31", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DateTimeNotPast(tc.date, tc.tm, now); got != tc.want {
				t.Errorf("DateTimeNotPast(%q, %q) = %v, want %v", tc.date, tc.tm, got, tc.want)
			}
		})
	}
}

func TestPriorityAndState(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"1", "2", "3"} {
		if !Priority(p) {
			t.Errorf("Priority(%q) should be valid", p)
		}
	}
	for _, p := range []string{"0", "4", "-1", "high", ""} {
		if Priority(p) {
			t.Errorf("Priority(%q) should be invalid", p)
		}
	}

	for _, e := range []string{"0", "1"} {
		if !State(e) {
			t.Errorf("State(%q) should be valid", e)
		}
	}
	for _, e := range []string{"2", "-1", "done", ""} {
		if State(e) {
			t.Errorf("State(%q) should be invalid", e)
		}
	}
}

func TestTimeRange(t *testing.T) {
	t.Parallel()

	cases := []struct {
		start string
		end   string
		want  bool
	}{
		{"09:00", "08:59", false},
		{"09:00", "09:00", true},
		{"09:00", "17:30", true},
		{"09:00", "", true},
		{"", "17:00", true},
		{"nine", "17:00", false},
	}

	for _, tc := range cases {
		if got := TimeRange(tc.start, tc.end); got != tc.want {
			t.Errorf("TimeRange(%q, %q) = %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestDateRange(t *testing.T) {
	t.Parallel()

	cases := []struct {
		start string
		end   string
		want  bool
	}{
		{"2025-06-10", "2025-06-09", false},
		{"2025-06-10", "2025-06-10", true},
		{"2025-06-10", "2025-07-01", true},
		{"2025-06-10", "", true},
		{"garbage", "2025-06-10", false},
	}

	for _, tc := range cases {
		if got := DateRange(tc.start, tc.end); got != tc.want {
			t.Errorf("DateRange(%q, %q) = %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"empty string", "", ""},
		{"seconds string", "08:15:00", "08:15"},
		{"already canonical", "08:15", "08:15"},
		{"byte slice", []byte("23:45:12"), "23:45"},
		{"duration since midnight", 5400 * time.Second, "01:30"},
		{"duration wraps past midnight", 25 * time.Hour, "01:00"},
		{"seconds integer", int64(5400), "01:30"},
		{"clock value", time.Date(0, 1, 1, 8, 15, 0, 0, time.UTC), "08:15"},
		{"zero time", time.Time{}, ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeTime(tc.input); got != tc.want {
				t.Errorf("NormalizeTime(%v) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}

	t.Run("idempotent on canonical output", func(t *testing.T) {
		t.Parallel()
		first := NormalizeTime(90 * time.Minute)
		if got := NormalizeTime(first); got != first {
			t.Errorf("re-normalizing %q yielded %q", first, got)
		}
	})
}

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	if got := NormalizeDate("2025-06-10 09:00:00"); got != "2025-06-10" {
		t.Errorf("timestamp string = %q, want date part", got)
	}
	if got := NormalizeDate(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)); got != "2025-06-10" {
		t.Errorf("time value = %q, want 2025-06-10", got)
	}
	if got := NormalizeDate(nil); got != "" {
		t.Errorf("nil = %q, want empty", got)
	}
}

func TestNormalizeOptional(t *testing.T) {
	t.Parallel()

	empty := ""
	null := "null"
	value := "2025-06-10"

	if NormalizeOptional(nil) != nil {
		t.Error("nil should stay nil")
	}
	if NormalizeOptional(&empty) != nil {
		t.Error("empty string should become nil")
	}
	if NormalizeOptional(&null) != nil {
		t.Error(`literal "null" should become nil`)
	}
	if got := NormalizeOptional(&value); got == nil || *got != value {
		t.Error("real value should pass through")
	}
}

func TestOptionalText(t *testing.T) {
	t.Parallel()

	if got := OptionalText("null"); got != "" {
		t.Errorf(`literal "null" = %q, want empty`, got)
	}
	if got := OptionalText(""); got != "" {
		t.Errorf("empty = %q, want empty", got)
	}
	if got := OptionalText("2025-06-10"); got != "2025-06-10" {
		t.Errorf("real value = %q, want passthrough", got)
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	if got := SanitizeText("  hello  "); got != "hello" {
		t.Errorf("trim failed: %q", got)
	}
	if got := SanitizeText("a\x00b\x1fc"); got != "abc" {
		t.Errorf("control characters survived: %q", got)
	}
	if got := SanitizeText("line1\nline2\tend"); got != "line1\nline2\tend" {
		t.Errorf("newline and tab should survive: %q", got)
	}
	if got := SanitizeText("   "); got != "" {
		t.Errorf("whitespace-only should collapse: %q", got)
	}
}
