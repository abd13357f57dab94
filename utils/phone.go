// Package utils provides utility functions for the application.
package utils

import (
	"errors"
	"strings"
)

// ErrInvalidPhone is returned when a phone number cannot be normalized.
var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone converts the accepted Iranian mobile spellings into the single
// canonical form +98XXXXXXXXXX. The same canonical form must be used for every
// store and lookup, otherwise code matching and uniqueness break.
func NormalizePhone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")

	switch {
	case strings.HasPrefix(s, "+98"):
		s = s[3:]
	case strings.HasPrefix(s, "0098"):
		s = s[4:]
	case strings.HasPrefix(s, "0"):
		s = s[1:]
	}

	if len(s) != 10 || s[0] != '9' {
		return "", ErrInvalidPhone
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhone
		}
	}

	return "+98" + s, nil
}

// MaskPhone hides the middle digits of a normalized phone number for responses.
func MaskPhone(phone string) string {
	if len(phone) < 8 {
		return phone
	}
	return phone[:4] + "****" + phone[len(phone)-4:]
}
