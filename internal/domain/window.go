package domain

import "fmt"

// Minutes in one day. Close times past this value represent service that
// crosses midnight.
const MinutesPerDay = 1440

// TimeWindow is an interval in minutes since local midnight during which a
// place accepts visitors. Close may exceed MinutesPerDay after overnight
// normalization; Open <= Close always holds for a non-closed window.
type TimeWindow struct {
	Open   int
	Close  int
	Closed bool
}

// NewTimeWindow builds a window from open/close minutes, applying the
// overnight wrap when the close time is numerically earlier than the open.
func NewTimeWindow(open, close int) TimeWindow {
	if close < open {
		close += MinutesPerDay
	}
	return TimeWindow{Open: open, Close: close}
}

// ClosedWindow is the sentinel for a day with no service at all.
func ClosedWindow() TimeWindow { return TimeWindow{Closed: true} }

// FullDayWindow covers 24-hour service.
func FullDayWindow() TimeWindow { return TimeWindow{Open: 0, Close: MinutesPerDay} }

// Contains reports whether minute m falls inside the window, inclusive of
// both endpoints.
func (w TimeWindow) Contains(m int) bool {
	if w.Closed {
		return false
	}
	return m >= w.Open && m <= w.Close
}

// Clamp intersects the window with overall day boundaries. The result may be
// empty (Open > Close) when the window and the day do not overlap; callers
// treat an empty window as infeasible rather than as an error.
func (w TimeWindow) Clamp(dayStart, dayEnd int) TimeWindow {
	if w.Closed {
		return w
	}
	open, close := w.Open, w.Close
	if open < dayStart {
		open = dayStart
	}
	if close > dayEnd {
		close = dayEnd
	}
	return TimeWindow{Open: open, Close: close}
}

func (w TimeWindow) String() string {
	if w.Closed {
		return "closed"
	}
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Open/60, w.Open%60, (w.Close/60)%24, w.Close%60)
}
