// Package phone holds the phone number rules used by the dial and copy actions.
package phone

import (
	"errors"
	"fmt"
	"strings"
)

// CountryCode is the leading digit of every canonical number.
const CountryCode = '7'

// ErrInvalid is returned when a number cannot be put into canonical form.
var ErrInvalid = errors.New("invalid phone number format")

// Normalize returns the canonical 11-digit form of raw with country code 7.
//
//	8XXXXXXXXXX -> 7XXXXXXXXXX
//	XXXXXXXXXX  -> 7XXXXXXXXXX
//	7XXXXXXXXXX -> unchanged
//
// Non-digit characters are ignored. Anything else yields ErrInvalid.
func Normalize(raw string) (string, error) {
	digits := Digits(raw)

	switch {
	case len(digits) == 11 && digits[0] == '8':
		return string(CountryCode) + digits[1:], nil
	case len(digits) == 10:
		return string(CountryCode) + digits, nil
	case len(digits) == 11 && digits[0] == CountryCode:
		return digits, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalid, raw)
	}
}

// DialURI returns the telephone URI for raw after normalization.
func DialURI(raw string) (string, error) {
	n, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return "tel:" + n, nil
}

// Digits strips everything but ASCII digits.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Clean strips everything but ASCII digits and '+', the form written to the
// clipboard.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
