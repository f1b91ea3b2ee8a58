package device

import "strings"

// CompareModelIDs orders two hardware model identifiers of the form
// "name + major,minor" (e.g. "iMac13,3"): first by name, then numerically
// by major, then numerically by minor.
//
// The numeric comparison is the point. Lexicographic ordering puts
// "iMac13,10" before "iMac13,2" and "iMac9,1" after both, which makes the
// model spread table unreadable. Identifiers that do not follow the
// name+numbers convention fall back to plain string comparison against each
// other.
func CompareModelIDs(a, b string) int {
	an, amaj, amin, aok := splitModelID(a)
	bn, bmaj, bmin, bok := splitModelID(b)
	if !aok || !bok {
		return strings.Compare(a, b)
	}
	if c := strings.Compare(an, bn); c != 0 {
		return c
	}
	if amaj != bmaj {
		if amaj < bmaj {
			return -1
		}
		return 1
	}
	if amin != bmin {
		if amin < bmin {
			return -1
		}
		return 1
	}
	return 0
}

// splitModelID parses "iMac13,3" into ("iMac", 13, 3).
// A missing minor number parses as 0; an identifier with no digits at all,
// or a non-numeric major, reports !ok.
func splitModelID(id string) (name string, major, minor int, ok bool) {
	digit := strings.IndexFunc(id, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
	if digit < 0 {
		return "", 0, 0, false
	}
	name = id[:digit]
	numbers := id[digit:]

	majorPart, minorPart, hasMinor := strings.Cut(numbers, ",")
	major, majorOK := atoi(majorPart)
	if !majorOK {
		return "", 0, 0, false
	}
	if hasMinor {
		// A malformed minor ("3a") degrades to 0 rather than rejecting
		// the whole identifier; the major still orders it usefully.
		minor, _ = atoi(minorPart)
	}
	return name, major, minor, true
}

// atoi is a no-error integer parse: ok is false on empty or non-digit input.
func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
