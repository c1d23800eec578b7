// Package datetime provides month-label utilities for repayment schedules.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-sim/pkg/constants"
)

const (
	// DateTimeLayout is the format of schedule month labels.
	DateTimeLayout = constants.DateTimeLayout
)

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// ValidateMonth checks that date is a YYYY-MM month label. Empty is valid.
func ValidateMonth(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(DateTimeLayout, date); err != nil {
		return fmt.Errorf("expected month in %s format, got %q", DateTimeLayout, date)
	}
	return nil
}
