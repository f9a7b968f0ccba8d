package validate

import "strings"

// SanitizeText trims surrounding whitespace and strips ASCII control
// characters (tab, newline, and carriage return survive). It runs before
// SafeText and is not a substitute for it.
func SanitizeText(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
