package auth

import (
	"strings"
)

// NormalizeRUT strips dots and hyphens from a RUT and uppercases the check
// digit, so "12.345.678-k" and "12345678K" compare equal.
func NormalizeRUT(rut string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', ' ':
			return -1
		}
		return r
	}, rut)
	return strings.ToUpper(cleaned)
}

// FormatRUT renders a normalized RUT in its canonical hyphenated form
// ("12345678-5"). Input that is too short is returned unchanged.
func FormatRUT(rut string) string {
	n := NormalizeRUT(rut)
	if len(n) < 2 {
		return n
	}
	return n[:len(n)-1] + "-" + n[len(n)-1:]
}

// ValidRUT reports whether the RUT's modulus-11 check digit is correct.
// The check runs locally before any network call so obviously bad logins
// fail fast.
func ValidRUT(rut string) bool {
	n := NormalizeRUT(rut)
	if len(n) < 2 {
		return false
	}
	body, dv := n[:len(n)-1], n[len(n)-1]

	sum := 0
	factor := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	var expected byte
	switch rem := 11 - sum%11; rem {
	case 11:
		expected = '0'
	case 10:
		expected = 'K'
	default:
		expected = byte('0' + rem)
	}
	return dv == expected
}
