package validate

import (
	"strings"
)

// LengthBetween returns true if n is within [min,max].
func LengthBetween(s string, min, max int) bool {
	n := len(s)
	return n >= min && n <= max
}

// IsAlphabet returns true if all characters in s are in allowed set.
func IsAlphabet(s, allowed string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(allowed, rune(s[i])) {
			return false
		}
	}
	return true
}

const digits = "0123456789"

// Luhn reports whether the digits of s (separators ignored) pass the Luhn
// checksum used by payment card numbers.
func Luhn(s string) bool {
	s = strings.NewReplacer(" ", "", "-", "").Replace(s)
	if !LengthBetween(s, 12, 19) || !IsAlphabet(s, digits) {
		return false
	}
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		d := int(s[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// PlausibleSSN rejects NNN-NN-NNNN strings that can never be issued:
// area 000, 666 or 9xx, group 00, serial 0000.
func PlausibleSSN(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 3 || len(parts[1]) != 2 || len(parts[2]) != 4 {
		return false
	}
	for _, p := range parts {
		if !IsAlphabet(p, digits) {
			return false
		}
	}
	area := parts[0]
	if area == "000" || area == "666" || area[0] == '9' {
		return false
	}
	return parts[1] != "00" && parts[2] != "0000"
}

var byName = map[string]func(string) bool{
	"luhn": Luhn,
	"ssn":  PlausibleSSN,
}

// ByName returns the named post-match check.
func ByName(name string) (func(string) bool, bool) {
	fn, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return fn, ok
}

// Names lists registered validators.
func Names() []string {
	return []string{"luhn", "ssn"}
}
