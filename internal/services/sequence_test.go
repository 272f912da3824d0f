package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trip-validation-service/internal/adapters/maps"
	"trip-validation-service/internal/domain"
)

// 2025-06-07 is a Saturday.
var sequenceDate = time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

func symmetricLegs(minutes map[[2]string]int) []maps.MockLeg {
	legs := []maps.MockLeg{}
	for pair, m := range minutes {
		text := strconv.Itoa(m) + " 分鐘"
		legs = append(legs,
			maps.MockLeg{From: pair[0], To: pair[1], Duration: text},
			maps.MockLeg{From: pair[1], To: pair[0], Duration: text},
		)
	}
	return legs
}

var fourStopMinutes = map[[2]string]int{
	{"A", "B"}: 10,
	{"A", "C"}: 25,
	{"A", "D"}: 30,
	{"B", "C"}: 12,
	{"B", "D"}: 28,
	{"C", "D"}: 8,
}

func legMinutes(from, to string) int {
	if m, ok := fourStopMinutes[[2]string{from, to}]; ok {
		return m
	}
	return fourStopMinutes[[2]string{to, from}]
}

func openStops(names ...string) []domain.Stop {
	stops := make([]domain.Stop, len(names))
	for i, n := range names {
		stops[i] = domain.Stop{Name: n, VisitMinutes: 60}
	}
	return stops
}

func permutations(names []string) [][]string {
	if len(names) <= 1 {
		return [][]string{append([]string{}, names...)}
	}
	out := [][]string{}
	for i := range names {
		rest := append(append([]string{}, names[:i]...), names[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]string{names[i]}, p...))
		}
	}
	return out
}

func TestSequenceDayFindsMinimalTour(t *testing.T) {
	provider := maps.NewMockProvider(symmetricLegs(fourStopMinutes), nil)
	cfg := SequenceConfig{Date: sequenceDate, DayStart: 540, DayEnd: 1260, Mode: "driving"}

	seq, err := SequenceDay(context.Background(), openStops("A", "B", "C", "D"), provider, cfg)
	require.NoError(t, err)
	require.True(t, seq.Feasible)
	require.True(t, seq.Optimal)
	require.Len(t, seq.Visits, 4)

	// Cross-check against every permutation: nothing may beat the result.
	for _, perm := range permutations([]string{"A", "B", "C", "D"}) {
		cost := 0
		for i := 0; i+1 < len(perm); i++ {
			cost += legMinutes(perm[i], perm[i+1])
		}
		require.LessOrEqual(t, seq.TravelMinutes, cost, "permutation %v is cheaper", perm)
	}
	require.Equal(t, 30, seq.TravelMinutes)
}

func TestSequenceDaySchedulesWithinWindows(t *testing.T) {
	provider := maps.NewMockProvider(symmetricLegs(fourStopMinutes), nil)
	cfg := SequenceConfig{Date: sequenceDate, DayStart: 540, DayEnd: 1260, Mode: "driving"}

	stops := openStops("A", "B")
	// B only opens at 15:00: the solver must wait (free) or reorder.
	stops[1].HourLines = []string{"星期六: 15:00 – 21:00"}

	seq, err := SequenceDay(context.Background(), stops, provider, cfg)
	require.NoError(t, err)
	require.True(t, seq.Feasible)

	for _, v := range seq.Visits {
		if v.Stop.Name == "B" {
			require.GreaterOrEqual(t, v.Arrive, 900, "arrival must be clamped to B's window open")
		}
		require.LessOrEqual(t, v.Depart, cfg.DayEnd)
	}
}

func TestSequenceDayReportsInfeasibleStop(t *testing.T) {
	provider := maps.NewMockProvider(symmetricLegs(fourStopMinutes), nil)
	cfg := SequenceConfig{Date: sequenceDate, DayStart: 540, DayEnd: 1260, Mode: "driving"}

	stops := openStops("A", "B")
	// B closes before the day even starts: no ordering can reach it.
	stops[1].HourLines = []string{"星期六: 06:00 – 08:00"}

	seq, err := SequenceDay(context.Background(), stops, provider, cfg)
	require.NoError(t, err)
	require.False(t, seq.Feasible)
	require.Equal(t, "B", seq.ProblemStop)
	require.Len(t, seq.Visits, 2, "best-effort order still covers every stop")
}

func TestSequenceDayHeuristicIsFlaggedNonOptimal(t *testing.T) {
	provider := maps.NewMockProvider(symmetricLegs(fourStopMinutes), nil)
	cfg := SequenceConfig{Date: sequenceDate, DayStart: 540, DayEnd: 1260, Mode: "driving", ExactLimit: 2}

	seq, err := SequenceDay(context.Background(), openStops("A", "B", "C"), provider, cfg)
	require.NoError(t, err)
	require.True(t, seq.Feasible)
	require.False(t, seq.Optimal, "heuristic results must not claim optimality")
}

func TestSequenceDayClosedStopIsInfeasible(t *testing.T) {
	provider := maps.NewMockProvider(symmetricLegs(fourStopMinutes), nil)
	cfg := SequenceConfig{Date: sequenceDate, DayStart: 540, DayEnd: 1260, Mode: "driving"}

	stops := openStops("A", "B")
	stops[0].HourLines = []string{"星期六: 休息"}

	seq, err := SequenceDay(context.Background(), stops, provider, cfg)
	require.NoError(t, err)
	require.False(t, seq.Feasible)
	require.Equal(t, "A", seq.ProblemStop)
}
