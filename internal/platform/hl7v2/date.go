package hl7v2

import (
	"errors"
	"fmt"
	"time"
)

const (
	hl7DateLayout = "20060102"
	isoDateLayout = "2006-01-02"
)

// ErrInvalidDate is returned by FormatDate for values that are not a real
// YYYYMMDD calendar date.
var ErrInvalidDate = errors.New("hl7v2: invalid date")

// IsValidDate reports whether s is exactly eight digits naming a real
// calendar date (e.g. "19800101" but not "19800231" or "1980-01-01").
func IsValidDate(s string) bool {
	if !isDateShaped(s) {
		return false
	}
	_, err := time.Parse(hl7DateLayout, s)
	return err == nil
}

// FormatDate converts a YYYYMMDD date to YYYY-MM-DD.
func FormatDate(s string) (string, error) {
	if !isDateShaped(s) {
		return "", fmt.Errorf("%w: %q is not 8 digits", ErrInvalidDate, s)
	}
	t, err := time.Parse(hl7DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	return t.Format(isoDateLayout), nil
}
