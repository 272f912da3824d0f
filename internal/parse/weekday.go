package parse

import "time"

// Weekday labels in Monday-first order, matching the zh-TW lines the
// place-details provider returns.
var weekdayZH = [7]string{"星期一", "星期二", "星期三", "星期四", "星期五", "星期六", "星期日"}

// WeekdayLabel maps a date's weekday onto its zh-TW label.
func WeekdayLabel(t time.Time) string {
	// time.Weekday is Sunday-first; shift to Monday-first.
	return weekdayZH[(int(t.Weekday())+6)%7]
}

// IsWeekdayLabel reports whether s is one of the seven weekday labels.
func IsWeekdayLabel(s string) bool {
	for _, w := range weekdayZH {
		if s == w {
			return true
		}
	}
	return false
}
