package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"trip-validation-service/internal/domain"
	"trip-validation-service/internal/parse"
	"trip-validation-service/internal/ports"
)

// Largest stop count the branch-and-bound search solves exactly when the
// caller does not override it. A single day's itinerary is typically well
// under this.
const defaultExactLimit = 10

// SequenceConfig bounds the day horizon and solver behaviour for ordering
// one day's unordered stop set.
type SequenceConfig struct {
	Date     time.Time
	DayStart int // minutes since midnight
	DayEnd   int
	Mode     string
	// ExactLimit is the largest stop count solved exactly; larger sets fall
	// back to a nearest-feasible-neighbor heuristic with swap improvement.
	ExactLimit int
}

// SequencedVisit is one ordered stop with its computed schedule. Arrival is
// clamped forward to the stop's window open (waiting is free); departure is
// arrival plus the estimated visit duration.
type SequencedVisit struct {
	Stop   domain.Stop
	Arrive int
	Depart int
}

// DaySequence is the visiting order produced for one day. When Feasible is
// false the order is the least-violating candidate found and ProblemStop
// names the stop that broke feasibility; an infeasible plan is never
// silently accepted. Optimal is false when the heuristic path produced the
// order.
type DaySequence struct {
	Visits        []SequencedVisit
	TravelMinutes int
	Feasible      bool
	Optimal       bool
	ProblemStop   string
}

// DayPlan converts the sequence into a DayPlan whose visit times are the
// computed arrivals, ready for the standard validators.
func (s *DaySequence) DayPlan(day int, date time.Time) domain.DayPlan {
	visits := make([]domain.Visit, 0, len(s.Visits))
	for _, v := range s.Visits {
		visits = append(visits, domain.Visit{
			Place:    v.Stop.Name,
			Location: v.Stop.Location,
			Minute:   v.Arrive,
		})
	}
	return domain.DayPlan{Day: day, Weekday: parse.WeekdayLabel(date), Visits: visits}
}

// SequenceDay orders an unordered stop set for a single day so that every
// arrival lands inside the stop's opening window and the final departure
// stays inside the day horizon, minimizing total travel time among feasible
// orderings. Stop counts up to the exact limit are solved with a
// branch-and-bound search over permutations; larger sets use a constructive
// heuristic improved by window-feasible pairwise swaps.
//
// This is single-vehicle, single-day routing with time windows: no fleet,
// no capacity, and no return to a depot.
func SequenceDay(
	ctx context.Context,
	stops []domain.Stop,
	provider ports.TravelTimeProvider,
	cfg SequenceConfig,
) (*DaySequence, error) {
	if cfg.ExactLimit == 0 {
		cfg.ExactLimit = defaultExactLimit
	}
	if cfg.DayEnd <= cfg.DayStart {
		return nil, fmt.Errorf("sequence day: day horizon %d-%d is empty", cfg.DayStart, cfg.DayEnd)
	}
	if len(stops) == 0 {
		return &DaySequence{Visits: []SequencedVisit{}, Feasible: true, Optimal: true}, nil
	}

	windows, err := resolveStopWindows(stops, cfg)
	if err != nil {
		return nil, fmt.Errorf("sequence day: %w", err)
	}

	matrix, err := buildTravelMatrix(ctx, stops, provider, cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("sequence day: %w", err)
	}

	solver := &daySolver{stops: stops, windows: windows, matrix: matrix, cfg: cfg}

	if len(stops) <= cfg.ExactLimit {
		if order, cost, found := solver.branchAndBound(); found {
			seq := solver.assemble(order)
			seq.Optimal = true
			if seq.TravelMinutes != cost {
				// The simulation and the search must agree on cost.
				return nil, fmt.Errorf("sequence day: cost mismatch: search %d, schedule %d", cost, seq.TravelMinutes)
			}
			return seq, nil
		}
		// No feasible ordering exists; report the best-effort greedy order
		// with the stop that broke it.
		return solver.assemble(solver.greedyOrder()), nil
	}

	order := solver.improveBySwaps(solver.greedyOrder())
	return solver.assemble(order), nil
}

// resolveStopWindows parses each stop's opening-hours text for the target
// date and clamps the window to the day horizon. A stop with no hours text,
// or with no line for the date's weekday, is treated as unconstrained
// (unknown is not closed); an explicitly closed day keeps its closed
// sentinel so the solver reports the stop as infeasible.
func resolveStopWindows(stops []domain.Stop, cfg SequenceConfig) ([]domain.TimeWindow, error) {
	windows := make([]domain.TimeWindow, len(stops))
	for i, stop := range stops {
		if len(stop.HourLines) == 0 {
			windows[i] = domain.FullDayWindow().Clamp(cfg.DayStart, cfg.DayEnd)
			continue
		}

		win, err := parse.ResolveWindow(stop.HourLines, cfg.Date)
		switch {
		case errors.Is(err, parse.ErrNoWeekdayLine):
			win = domain.FullDayWindow()
		case err != nil:
			return nil, fmt.Errorf("stop %q: %w", stop.Name, err)
		}
		windows[i] = win.Clamp(cfg.DayStart, cfg.DayEnd)
	}
	return windows, nil
}

type daySolver struct {
	stops   []domain.Stop
	windows []domain.TimeWindow
	matrix  [][]int
	cfg     SequenceConfig
}

// arrivalAt computes the window-clamped arrival at stop idx, given the
// departure time from the previous stop (or the day start for the first
// stop). The second result is false when the stop cannot be visited at that
// time.
func (s *daySolver) arrivalAt(idx, prev, timeNow int) (int, bool) {
	base := timeNow
	if prev >= 0 {
		base += s.matrix[prev][idx]
	}

	w := s.windows[idx]
	if w.Closed || w.Open > w.Close {
		return base, false
	}

	arrive := base
	if arrive < w.Open {
		arrive = w.Open // waiting is allowed, at zero cost
	}
	if arrive > w.Close {
		return arrive, false
	}
	if arrive+s.stops[idx].VisitMinutes > s.cfg.DayEnd {
		return arrive, false
	}
	return arrive, true
}

// branchAndBound searches permutations depth-first, pruning branches whose
// partial travel cost already meets the best known cost and branches that
// violate a window. Candidate stops are tried in slice order, which keeps
// the result deterministic for equal-cost tours.
func (s *daySolver) branchAndBound() (best []int, bestCost int, found bool) {
	n := len(s.stops)
	bestCost = math.MaxInt
	order := make([]int, 0, n)

	var dfs func(mask, last, timeNow, cost int)
	dfs = func(mask, last, timeNow, cost int) {
		if cost >= bestCost {
			return
		}
		if mask == (1<<n)-1 {
			best = append(best[:0], order...)
			bestCost = cost
			found = true
			return
		}
		for next := 0; next < n; next++ {
			if mask&(1<<next) != 0 {
				continue
			}
			arrive, ok := s.arrivalAt(next, last, timeNow)
			if !ok {
				continue
			}
			step := 0
			if last >= 0 {
				step = s.matrix[last][next]
			}
			order = append(order, next)
			dfs(mask|(1<<next), next, arrive+s.stops[next].VisitMinutes, cost+step)
			order = order[:len(order)-1]
		}
	}

	dfs(0, -1, s.cfg.DayStart, 0)
	return best, bestCost, found
}

// greedyOrder builds a nearest-feasible-neighbor order. At each step the
// cheapest window-feasible next stop wins, with the stop name as a
// deterministic tie-breaker; when no feasible stop remains the cheapest
// infeasible one is taken so the violation surfaces in the schedule instead
// of being dropped.
func (s *daySolver) greedyOrder() []int {
	n := len(s.stops)
	visited := make([]bool, n)
	order := make([]int, 0, n)

	last := -1
	timeNow := s.cfg.DayStart
	for len(order) < n {
		bestIdx := -1
		bestStep := math.MaxInt
		bestFeasible := false

		for next := 0; next < n; next++ {
			if visited[next] {
				continue
			}
			step := 0
			if last >= 0 {
				step = s.matrix[last][next]
			}
			_, ok := s.arrivalAt(next, last, timeNow)

			better := false
			switch {
			case ok && !bestFeasible:
				better = true
			case ok == bestFeasible && step < bestStep:
				better = true
			case ok == bestFeasible && step == bestStep && bestIdx >= 0 &&
				s.stops[next].Name < s.stops[bestIdx].Name:
				better = true
			}
			if better {
				bestIdx, bestStep, bestFeasible = next, step, ok
			}
		}

		arrive, ok := s.arrivalAt(bestIdx, last, timeNow)
		if !ok {
			// Keep a defined schedule even through a violation so the
			// remaining stops still get ordered.
			w := s.windows[bestIdx]
			if !w.Closed && arrive < w.Open {
				arrive = w.Open
			}
		}
		visited[bestIdx] = true
		order = append(order, bestIdx)
		timeNow = arrive + s.stops[bestIdx].VisitMinutes
		last = bestIdx
	}

	return order
}

// improveBySwaps applies first-improvement pairwise swaps, accepting a swap
// only when the swapped order stays fully window-feasible and strictly
// lowers travel cost. Passes repeat until a full pass makes no change.
func (s *daySolver) improveBySwaps(order []int) []int {
	_, cost, feasible, _ := s.simulate(order)
	if !feasible {
		return order
	}

	improved := true
	for improved {
		improved = false
		for i := 0; i < len(order)-1 && !improved; i++ {
			for j := i + 1; j < len(order) && !improved; j++ {
				order[i], order[j] = order[j], order[i]
				_, swapCost, swapFeasible, _ := s.simulate(order)
				if swapFeasible && swapCost < cost {
					cost = swapCost
					improved = true
					continue
				}
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	return order
}

// simulate walks an order computing the implied schedule. problemIdx is the
// position of the first violating stop, or -1 when the order is feasible.
func (s *daySolver) simulate(order []int) (visits []SequencedVisit, cost int, feasible bool, problemIdx int) {
	visits = make([]SequencedVisit, 0, len(order))
	feasible = true
	problemIdx = -1

	last := -1
	timeNow := s.cfg.DayStart
	for pos, idx := range order {
		if last >= 0 {
			cost += s.matrix[last][idx]
		}
		arrive, ok := s.arrivalAt(idx, last, timeNow)
		if !ok {
			if feasible {
				feasible = false
				problemIdx = pos
			}
			w := s.windows[idx]
			if !w.Closed && arrive < w.Open {
				arrive = w.Open
			}
		}
		depart := arrive + s.stops[idx].VisitMinutes
		visits = append(visits, SequencedVisit{Stop: s.stops[idx], Arrive: arrive, Depart: depart})
		timeNow = depart
		last = idx
	}

	return visits, cost, feasible, problemIdx
}

// assemble turns an order into the final DaySequence.
func (s *daySolver) assemble(order []int) *DaySequence {
	visits, cost, feasible, problemIdx := s.simulate(order)
	seq := &DaySequence{
		Visits:        visits,
		TravelMinutes: cost,
		Feasible:      feasible,
	}
	if problemIdx >= 0 {
		seq.ProblemStop = visits[problemIdx].Stop.Name
	}
	return seq
}

type matrixRow struct {
	origin  int
	minutes map[int]int
	err     error
}

// buildTravelMatrix resolves pairwise travel minutes between all stops.
// Rows are independent and fan out concurrently; a batch provider is
// preferred when available to reduce external API calls. Duration text is
// parsed leniently, so an unparseable answer becomes a zero-minute leg
// rather than an error.
func buildTravelMatrix(
	ctx context.Context,
	stops []domain.Stop,
	provider ports.TravelTimeProvider,
	mode string,
) ([][]int, error) {
	n := len(stops)
	matrix := make([][]int, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
	}
	if n < 2 {
		return matrix, nil
	}

	batch, hasBatch := provider.(ports.TravelMatrixProvider)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, maxConcurrentLookups)
	results := make(chan matrixRow, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(origin int) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			row := matrixRow{origin: origin, minutes: make(map[int]int, n-1)}

			if hasBatch {
				names := make([]string, 0, n-1)
				for j := 0; j < n; j++ {
					if j != origin {
						names = append(names, stops[j].Name)
					}
				}
				durations, err := batch.GetTravelDurations(ctx, stops[origin].Name, names, mode)
				if err != nil {
					row.err = fmt.Errorf("get travel durations from %q: %w", stops[origin].Name, err)
					results <- row
					cancel()
					return
				}
				for j := 0; j < n; j++ {
					if j == origin {
						continue
					}
					d, ok := durations[stops[j].Name]
					if !ok {
						row.err = fmt.Errorf("missing travel duration from %q to %q", stops[origin].Name, stops[j].Name)
						results <- row
						cancel()
						return
					}
					row.minutes[j] = parse.Duration(d.Text)
				}
			} else {
				for j := 0; j < n; j++ {
					if j == origin {
						continue
					}
					d, err := provider.GetTravelDuration(ctx, stops[origin].Name, stops[j].Name, mode)
					if err != nil {
						row.err = fmt.Errorf("get travel duration from %q to %q: %w", stops[origin].Name, stops[j].Name, err)
						results <- row
						cancel()
						return
					}
					row.minutes[j] = parse.Duration(d.Text)
				}
			}

			results <- row
		}(i)
	}

	wg.Wait()
	close(results)

	var firstErr error
	for row := range results {
		if row.err != nil {
			if firstErr == nil {
				firstErr = row.err
			}
			continue
		}
		for j, m := range row.minutes {
			matrix[row.origin][j] = m
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return matrix, nil
}
