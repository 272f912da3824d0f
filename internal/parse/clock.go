package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock parses an "HH:MM" clock string into minutes since local midnight.
func Clock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("parse clock %q: want \"HH:MM\"", s)
	}

	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: hour: %w", s, err)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: minute: %w", s, err)
	}

	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}

	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM", folding past-
// midnight values back onto the clock face.
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", (min/60)%24, min%60)
}
