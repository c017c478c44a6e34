package usecase

import (
	"errors"
	"time"
)

var (
	ErrMissingDates = errors.New("startDate and endDate are required")
	ErrInvalidDate  = errors.New("dates must use the YYYY-MM-DD format")
	ErrFutureDate   = errors.New("dates cannot be in the future")
	ErrInvalidRange = errors.New("endDate cannot be before startDate")
)

const dateLayout = "2006-01-02"

// validateDateRange enforces the shared query contract: both bounds
// present, ISO formatted, not in the future, end not before start.
// Runs before any cache or vendor work.
func validateDateRange(start, end string) error {
	if start == "" || end == "" {
		return ErrMissingDates
	}
	if _, err := time.Parse(dateLayout, start); err != nil {
		return ErrInvalidDate
	}
	if _, err := time.Parse(dateLayout, end); err != nil {
		return ErrInvalidDate
	}

	today := time.Now().UTC().Format(dateLayout)
	if start > today || end > today {
		return ErrFutureDate
	}
	if end < start {
		return ErrInvalidRange
	}
	return nil
}
