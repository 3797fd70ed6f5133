package model

import "strings"

// FormatPhone normalizes a US phone number to "(XXX) XXX-XXXX". Numbers
// that don't reduce to ten digits are returned trimmed but otherwise as-is.
func FormatPhone(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}

	if len(digits) != 10 {
		return strings.TrimSpace(raw)
	}

	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}
