// Package validate implements the input checks applied before any network
// call: inclusive range checks, concrete-type checks for dynamically typed
// inputs, and the month date-string format check.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for the validation taxonomy. All validation failures are
// fatal to the call that triggered them and carry the offending parameter
// name and constraint.
var (
	// ErrType indicates a value of an unexpected concrete type.
	ErrType = errors.New("unexpected type")

	// ErrRange indicates a value outside its inclusive [min, max] interval.
	ErrRange = errors.New("value out of range")

	// ErrDateFormat indicates a malformed month date string. Every
	// violation (missing token, wrong segment width, non-numeric segment,
	// out-of-range month) reports this same failure.
	ErrDateFormat = errors.New("invalid date string format, want YYYY-MM or YYYY-MM-DD (split token must not be a number)")
)

// Date string segment widths and month bounds.
const (
	yearWidth  = 4
	monthWidth = 2
	minMonth   = 1
	maxMonth   = 12
)

// Range fails unless v lies within [min, max] inclusive.
func Range(name string, v, min, max float64) error {
	if v < min || v > max {
		return fmt.Errorf("%w: %s not in accepted range [%g, %g]", ErrRange, name, min, max)
	}
	return nil
}

// Int accepts integral concrete types only. Floats are rejected even when
// they hold whole values: 1.0 is not an accepted count.
func Int(name string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s not of an expected type (int), got %T", ErrType, name, v)
	}
}

// Number accepts integral and floating concrete types and returns the value
// as a float64.
func Number(name string, v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s not of an expected type (int, float), got %T", ErrType, name, v)
	}
}

// Bool accepts bool only.
func Bool(name string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s not of an expected type (bool), got %T", ErrType, name, v)
	}
	return b, nil
}

// String accepts string only.
func String(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s not of an expected type (string), got %T", ErrType, name, v)
	}
	return s, nil
}

// Month validates a month date string and returns the parsed year and
// month. The separator is permissive (any splitToken substring), the field
// widths are strict: exactly 4 year characters and 2 month characters, both
// integral, month within [1, 12]. Trailing segments (a day) are ignored.
func Month(dateStr, splitToken string) (year, month int, err error) {
	if splitToken == "" || !strings.Contains(dateStr, splitToken) {
		return 0, 0, ErrDateFormat
	}

	segments := strings.Split(dateStr, splitToken)
	if len(segments) < 2 {
		return 0, 0, ErrDateFormat
	}

	yearStr, monthStr := segments[0], segments[1]
	if len(yearStr) != yearWidth || len(monthStr) != monthWidth {
		return 0, 0, ErrDateFormat
	}

	year, err = strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, ErrDateFormat
	}
	month, err = strconv.Atoi(monthStr)
	if err != nil {
		return 0, 0, ErrDateFormat
	}
	if month < minMonth || month > maxMonth {
		return 0, 0, ErrDateFormat
	}

	return year, month, nil
}
