package catalog

import "strings"

// NormalizeISBN validates a raw ISBN and returns its canonical 13-digit
// form. ISBN-10 inputs are checksum-verified and converted to ISBN-13 with
// the 978 prefix; ISBN-13 inputs are checksum-verified and returned as-is.
// Hyphens and spaces are stripped first, and a trailing lowercase 'x' is
// accepted for ISBN-10.
//
// The function is pure: identical input always yields identical output or
// the identical error kind (ErrUnsupportedFormat or ErrInvalidChecksum).
func NormalizeISBN(raw string) (string, error) {
	s := strings.ReplaceAll(raw, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ToUpper(strings.TrimSpace(s))

	switch len(s) {
	case 10:
		return normalizeISBN10(s)
	case 13:
		return normalizeISBN13(s)
	default:
		return "", ErrUnsupportedFormat
	}
}

func normalizeISBN10(s string) (string, error) {
	total := 0
	for i, c := range s {
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c == 'X' && i == 9:
			v = 10
		default:
			return "", ErrUnsupportedFormat
		}
		total += (10 - i) * v
	}
	if total%11 != 0 {
		return "", ErrInvalidChecksum
	}

	// Convert to ISBN-13: 978 prefix plus the nine data digits, then a
	// freshly computed ISBN-13 check digit.
	core := "978" + s[:9]
	return core + string(rune('0'+isbn13CheckDigit(core))), nil
}

func normalizeISBN13(s string) (string, error) {
	for _, c := range s {
		if c < '0' || c > '9' {
			return "", ErrUnsupportedFormat
		}
	}
	if isbn13CheckDigit(s[:12]) != int(s[12]-'0') {
		return "", ErrInvalidChecksum
	}
	return s, nil
}

// isbn13CheckDigit computes the check digit for the first 12 digits of an
// ISBN-13 (weights alternate 1,3; result is (10 - sum mod 10) mod 10).
func isbn13CheckDigit(digits string) int {
	sum := 0
	for i, c := range digits {
		n := int(c - '0')
		if i%2 == 0 {
			sum += n
		} else {
			sum += 3 * n
		}
	}
	return (10 - sum%10) % 10
}
