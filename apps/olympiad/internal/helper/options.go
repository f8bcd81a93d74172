package helper

import (
	"fmt"
	"strings"
	"time"
)

// ParseMonthDay parses an "MM-DD" excluded date such as "02-14".
func ParseMonthDay(value string) (time.Month, int, error) {
	t, err := time.Parse("01-02", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month-day %q: %w", value, err)
	}

	return t.Month(), t.Day(), nil
}

func ParseWeekday(value string) (time.Weekday, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))

	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.ToLower(day.String()) == normalized {
			return day, nil
		}
	}

	return 0, fmt.Errorf("invalid weekday %q", value)
}
