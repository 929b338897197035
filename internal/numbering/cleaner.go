// Package numbering normalizes dialed and calling numbers before lookup.
package numbering

import "strings"

// Clean strips a PBX exit prefix and non-dialable noise from number.
//
// When exitPrefixes is non-empty the longest matching prefix is removed;
// if none matches the number is either dropped (keepWithoutPrefix false,
// it was not routed through this PBX) or kept as-is. The first character
// survives untouched except for a leading '+', which is discarded. From
// the rest only digits, '#' and '*' are carried over.
func Clean(number string, exitPrefixes []string, keepWithoutPrefix bool) string {
	number = strings.TrimSpace(number)
	if number == "" {
		return ""
	}

	if len(exitPrefixes) > 0 {
		longest := ""
		for _, prefix := range exitPrefixes {
			if prefix == "" {
				continue
			}
			if strings.HasPrefix(number, prefix) && len(prefix) > len(longest) {
				longest = prefix
			}
		}
		if longest != "" {
			number = number[len(longest):]
		} else if !keepWithoutPrefix {
			return ""
		}
	}
	if number == "" {
		return ""
	}

	first := number[0]
	var b strings.Builder
	for i := 1; i < len(number); i++ {
		if isDialable(number[i]) {
			b.WriteByte(number[i])
		}
	}
	if first == '+' {
		return b.String()
	}
	return string(first) + b.String()
}

// IsAllDigits reports whether s is non-empty and contains only digits.
func IsAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsPlausibleExtension reports whether s looks like a PBX extension:
// digits only with length inside the configured bounds.
func IsPlausibleExtension(s string, minLen, maxLen int) bool {
	if len(s) < minLen || len(s) > maxLen {
		return false
	}
	return IsAllDigits(s)
}

func isDialable(c byte) bool {
	return (c >= '0' && c <= '9') || c == '#' || c == '*'
}
