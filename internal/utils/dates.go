package utils

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses an optional YYYY-MM-DD request field. Empty input yields
// a nil date.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, value)

	if err != nil {
		return nil, errors.New("invalid date, expected YYYY-MM-DD")
	}

	return &t, nil
}

// ValidateDateRange rejects ranges where the end precedes the start. Open
// ranges are fine.
func ValidateDateRange(start, end *time.Time) error {
	if start == nil || end == nil {
		return nil
	}

	if end.Before(*start) {
		return errors.New("end_date must be on or after start_date")
	}

	return nil
}
