package parse_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trip-validation-service/internal/domain"
	"trip-validation-service/internal/parse"
)

// 2025-06-07 is a Saturday.
var saturday = time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

func TestWeekdayLabel(t *testing.T) {
	require.Equal(t, "星期六", parse.WeekdayLabel(saturday))
	require.Equal(t, "星期日", parse.WeekdayLabel(saturday.AddDate(0, 0, 1)))
	require.Equal(t, "星期一", parse.WeekdayLabel(saturday.AddDate(0, 0, 2)))
	require.True(t, parse.IsWeekdayLabel("星期三"))
	require.False(t, parse.IsWeekdayLabel("Wednesday"))
}

func TestResolveWindow(t *testing.T) {
	lines := []string{
		"星期一: 休息",
		"星期二: 09:00 – 17:00",
		"星期六: 09:00 – 19:00",
		"星期日: 24 小時營業",
	}

	win, err := parse.ResolveWindow(lines, saturday)
	require.NoError(t, err)
	require.Equal(t, domain.TimeWindow{Open: 540, Close: 1140}, win)

	win, err = parse.ResolveWindow(lines, saturday.AddDate(0, 0, 2)) // Monday
	require.NoError(t, err)
	require.True(t, win.Closed)

	win, err = parse.ResolveWindow(lines, saturday.AddDate(0, 0, 1)) // Sunday
	require.NoError(t, err)
	require.Equal(t, domain.FullDayWindow(), win)

	// Wednesday has no line at all: unknown, not closed.
	_, err = parse.ResolveWindow(lines, saturday.AddDate(0, 0, 4))
	require.ErrorIs(t, err, parse.ErrNoWeekdayLine)
}

func TestWindowFromLine(t *testing.T) {
	win, err := parse.WindowFromLine("星期五: 22:00–02:00")
	require.NoError(t, err)
	require.Equal(t, domain.TimeWindow{Open: 1320, Close: 1560}, win, "overnight close wraps past midnight")

	win, err = parse.WindowFromLine("星期五: 11:30 - 21:00")
	require.NoError(t, err)
	require.Equal(t, domain.TimeWindow{Open: 690, Close: 1260}, win)

	_, err = parse.WindowFromLine("星期五: 看情況")
	require.Error(t, err)
}

func TestWindowClampAndContains(t *testing.T) {
	win := domain.NewTimeWindow(540, 1140)
	require.True(t, win.Contains(540))
	require.True(t, win.Contains(1140))
	require.False(t, win.Contains(1141))

	clamped := win.Clamp(600, 1080)
	require.Equal(t, domain.TimeWindow{Open: 600, Close: 1080}, clamped)

	// Disjoint day boundaries leave an empty window, not an error.
	empty := win.Clamp(1200, 1380)
	require.Greater(t, empty.Open, empty.Close)
}
