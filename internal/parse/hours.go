package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"trip-validation-service/internal/domain"
)

// ErrNoWeekdayLine marks a place whose opening-hours sheet has no line for
// the queried weekday. Callers must keep this "unknown" case distinct from
// an explicit closed day.
var ErrNoWeekdayLine = errors.New("no opening-hours line for weekday")

// Accepts hyphen, en-dash, em-dash and tilde separators between the two
// clock tokens, as seen across provider locales.
var windowPattern = regexp.MustCompile(`(\d{1,2}:\d{2})\s*[-–—~]\s*(\d{1,2}:\d{2})`)

// ResolveWindow selects the line matching the date's weekday label and
// parses it into a TimeWindow.
func ResolveWindow(lines []string, date time.Time) (domain.TimeWindow, error) {
	label := WeekdayLabel(date)
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), label) {
			return WindowFromLine(line)
		}
	}
	return domain.TimeWindow{}, fmt.Errorf("resolve window: %w: %s", ErrNoWeekdayLine, label)
}

// WindowFromLine parses a single weekday line ("星期六: 09:00 – 19:00") into
// a TimeWindow. Closure and 24-hour markers take precedence over the
// two-time pattern; a close time earlier than its open wraps past midnight.
func WindowFromLine(line string) (domain.TimeWindow, error) {
	if strings.Contains(line, "休息") || strings.Contains(line, "Closed") {
		return domain.ClosedWindow(), nil
	}

	if strings.Contains(line, "24") &&
		(strings.Contains(line, "小時") || strings.Contains(strings.ToLower(line), "hours")) {
		return domain.FullDayWindow(), nil
	}

	m := windowPattern.FindStringSubmatch(line)
	if m == nil {
		return domain.TimeWindow{}, fmt.Errorf("parse opening-hours line %q: no time range found", line)
	}

	open, err := Clock(m[1])
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("parse opening-hours line %q: %w", line, err)
	}
	close, err := Clock(m[2])
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("parse opening-hours line %q: %w", line, err)
	}

	return domain.NewTimeWindow(open, close), nil
}
