// Package utils provides shared utilities for text, money formatting, and logging.
package utils

import (
	"math"
	"strconv"
	"strings"
)

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// FormatINR formats an amount with Indian digit grouping (last three digits, then
// groups of two) and up to three fractional digits: 129999 -> "1,29,999".
func FormatINR(amount float64) string {
	neg := amount < 0
	amount = math.Round(math.Abs(amount)*1000) / 1000
	s := strconv.FormatFloat(amount, 'f', -1, 64)

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if neg && amount != 0 {
		b.WriteByte('-')
	}
	if len(intPart) > 3 {
		head := intPart[:len(intPart)-3]
		for i := 0; i < len(head); {
			n := 2
			if i == 0 && len(head)%2 == 1 {
				n = 1
			}
			b.WriteString(head[i : i+n])
			b.WriteByte(',')
			i += n
		}
		intPart = intPart[len(intPart)-3:]
	}
	b.WriteString(intPart)
	b.WriteString(frac)
	return b.String()
}
