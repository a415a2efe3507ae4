package filter

import (
	"fmt"
	"time"
)

// DaysInMonth returns the number of days in month of year
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeeksInMonth is ceil(days/7): 4 for a 28-day February, 5 otherwise
func WeeksInMonth(year int, month time.Month) int {
	return (DaysInMonth(year, month) + 6) / 7
}

// WeekOfMonth returns the 1-based week bucket of a day of the month,
// ceil((day-1)/7) with day 1 folded into week 1. Days 2 to 8 are week 1,
// 9 to 15 week 2, and so on.
func WeekOfMonth(day int) int {
	week := (day - 1 + 6) / 7
	if week < 1 {
		return 1
	}
	return week
}

// WeekOptions lists the week labels offered once a month is chosen
func WeekOptions(year int, month time.Month) []string {
	n := WeeksInMonth(year, month)
	opts := make([]string, n)
	for i := range opts {
		opts[i] = fmt.Sprintf("Week %d", i+1)
	}
	return opts
}
