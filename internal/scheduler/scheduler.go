// Package scheduler formulates the hour-by-hour assignment problem as a
// boolean optimization model and decodes solver output into assignments.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/cccstore/shift-scheduler/internal/domain"
	"github.com/cccstore/shift-scheduler/internal/pkg/logger"
	"github.com/cccstore/shift-scheduler/internal/solver"
)

// Objective weights: real staff are cheap, overflow is heavily penalized so
// demand is covered by employees whenever feasible.
const (
	realStaffWeight = 1
	overflowWeight  = 1000
)

// qualifiedLevel is the minimum skill level that satisfies the per-hour
// skill floor.
const qualifiedLevel = 3

// weeklyHourCap bounds international workers' total hours per scheduling
// window.
const weeklyHourCap = 28

// nightBanHour is the first hour high-school staff may not work.
const nightBanHour = 22

// maxConsecutiveHours is the longest run of worked hours allowed without a
// break.
const maxConsecutiveHours = 5

// maxBreakStarts bounds the number of 1→0 work transitions per staff-day.
const maxBreakStarts = 3

// longDayHours is the threshold above which a day must contain a break.
const longDayHours = 6

// Scheduler owns the solver backend and the time budget.
type Scheduler struct {
	slv    solver.Solver
	budget time.Duration
}

// New creates a scheduler. A zero budget falls back to 10s.
func New(slv solver.Solver, budget time.Duration) *Scheduler {
	if budget <= 0 {
		budget = 10 * time.Second
	}
	return &Scheduler{slv: slv, budget: budget}
}

// slotVar ties a grid slot to its decision variable. Overflow slots appear
// once per demand unit (copy), so an hour's shortage can exceed one worker.
type slotVar struct {
	slot domain.HourSlot
	v    solver.BoolVar
}

type dateHour struct {
	date time.Time
	hour int
}

type staffDay struct {
	staffID int
	date    time.Time
}

// model is the fully built formulation, kept for decoding.
type model struct {
	m     *solver.Model
	slots []slotVar
}

// Schedule solves the assignment problem for the given grid. The returned
// status reports the solver outcome; assignments are only non-nil for
// OPTIMAL and FEASIBLE.
func (s *Scheduler) Schedule(ctx context.Context, grid []domain.HourSlot) ([]domain.Assignment, solver.Status, error) {
	if len(grid) == 0 {
		return nil, solver.StatusInfeasible, fmt.Errorf("empty scheduling grid")
	}

	md := build(grid)
	logger.Info("scheduling run", "run_id", logger.RunID(ctx), "stage", "MODEL_BUILT",
		"slots", len(grid), "vars", md.m.NumVars(), "constraints", md.m.NumConstraints())

	sol, err := s.slv.Solve(ctx, md.m, s.budget)
	if err != nil {
		return nil, solver.StatusUnknown, fmt.Errorf("solve schedule: %w", err)
	}
	if sol.Status != solver.StatusOptimal && sol.Status != solver.StatusFeasible {
		logger.Warn("scheduler: no solution", "status", sol.Status.String())
		return nil, sol.Status, nil
	}

	assignments := decode(md, sol)
	logger.Info("scheduler: solved",
		"status", sol.Status.String(), "assignments", len(assignments), "cost", sol.Objective)
	return assignments, sol.Status, nil
}

// build lowers the grid to the boolean model described in the package docs:
// one variable per (staff, date, hour) slot, with the overflow slot expanded
// to one copy per unit of hourly coverage demand.
func build(grid []domain.HourSlot) *model {
	m := solver.NewModel()
	md := &model{m: m}

	byHour := make(map[dateHour][]slotVar)
	byStaffDay := make(map[staffDay]map[int]solver.BoolVar)
	staffStatus := make(map[int]domain.StaffStatus)
	var staffIDs []int

	addSlot := func(slot domain.HourSlot) slotVar {
		sv := slotVar{slot: slot, v: m.NewBool()}
		md.slots = append(md.slots, sv)
		key := dateHour{domain.DateOf(slot.Date), slot.Hour}
		byHour[key] = append(byHour[key], sv)
		return sv
	}

	for _, slot := range grid {
		if slot.Overflow() {
			// One copy per demand unit keeps the coverage equality
			// satisfiable no matter how short-staffed the hour is.
			target := domain.CoverageTarget(slot.SalesPerHour)
			for i := 0; i < target; i++ {
				addSlot(slot)
			}
			continue
		}

		sv := addSlot(slot)
		sd := staffDay{slot.StaffID, domain.DateOf(slot.Date)}
		if byStaffDay[sd] == nil {
			byStaffDay[sd] = make(map[int]solver.BoolVar)
		}
		byStaffDay[sd][slot.Hour] = sv.v
		if _, ok := staffStatus[slot.StaffID]; !ok {
			staffStatus[slot.StaffID] = slot.Status
			staffIDs = append(staffIDs, slot.StaffID)
		}
	}

	addHourConstraints(m, byHour)
	addStaffConstraints(m, byStaffDay, staffStatus)
	addWeeklyCaps(m, byStaffDay, staffStatus, staffIDs)
	addObjective(m, md.slots)

	return md
}

// addHourConstraints emits, per (date, hour): the coverage equality and the
// skill floor.
func addHourConstraints(m *solver.Model, byHour map[dateHour][]slotVar) {
	for _, svs := range byHour {
		target := domain.CoverageTarget(svs[0].slot.SalesPerHour)

		all := make([]solver.Term, len(svs))
		var qualified []solver.Term
		for i, sv := range svs {
			all[i] = solver.Term{Var: sv.v, Coef: 1}
			if sv.slot.Overflow() || sv.slot.Level >= qualifiedLevel {
				qualified = append(qualified, solver.Term{Var: sv.v, Coef: 1})
			}
		}

		m.AddExactly(all, target)
		m.AddAtLeast(qualified, 1)
	}
}

// addStaffConstraints emits the per-(staff, day) rules: the night ban, the
// consecutive-hours bound, and the break-start accounting.
func addStaffConstraints(m *solver.Model, byStaffDay map[staffDay]map[int]solver.BoolVar, status map[int]domain.StaffStatus) {
	for sd, hours := range byStaffDay {
		banned := make(map[int]bool)
		if status[sd.staffID] == domain.StatusHighSchool {
			for h, v := range hours {
				if h >= nightBanHour {
					m.Fix(v, false)
					banned[h] = true
				}
			}
		}

		addSlidingWindows(m, hours)
		addBreakRules(m, hours, banned)
	}
}

// addSlidingWindows forbids six consecutive worked hours: every window of
// six in-grid hours sums to at most five.
func addSlidingWindows(m *solver.Model, hours map[int]solver.BoolVar) {
	for start := domain.OpenHour; start+maxConsecutiveHours <= domain.CloseHour; start++ {
		window := make([]solver.Term, 0, maxConsecutiveHours+1)
		for h := start; h <= start+maxConsecutiveHours; h++ {
			if v, ok := hours[h]; ok {
				window = append(window, solver.Term{Var: v, Coef: 1})
			}
		}
		if len(window) == maxConsecutiveHours+1 {
			m.AddAtMost(window, maxConsecutiveHours)
		}
	}
}

// addBreakRules introduces break-start indicators b[h] >= x[h-1] - x[h],
// caps break starts per day, forces a return to work after each break, and
// requires at least one break on any day longer than longDayHours. The
// return-to-work implication is skipped when the following hour is banned
// for this worker: stopping ahead of the night ban is a shift end, not a
// break.
func addBreakRules(m *solver.Model, hours map[int]solver.BoolVar, banned map[int]bool) {
	var workTerms []solver.Term
	for _, v := range hours {
		workTerms = append(workTerms, solver.Term{Var: v, Coef: 1})
	}
	if len(workTerms) == 0 {
		return
	}

	var breakTerms []solver.Term
	for h := domain.OpenHour + 1; h <= domain.CloseHour; h++ {
		prev, okPrev := hours[h-1]
		cur, okCur := hours[h]
		if !okPrev || !okCur {
			continue
		}

		b := m.NewBool()
		// b >= x[h-1] - x[h]: a 1→0 transition flags a break start.
		m.AddAtLeast([]solver.Term{{Var: b, Coef: 1}, {Var: prev, Coef: -1}, {Var: cur, Coef: 1}}, 0)
		breakTerms = append(breakTerms, solver.Term{Var: b, Coef: 1})

		// The worker returns after the break if another hour exists.
		if next, ok := hours[h+1]; ok && !banned[h+1] {
			m.AddAtLeast([]solver.Term{{Var: next, Coef: 1}, {Var: b, Coef: -1}}, 0)
		}
	}
	if len(breakTerms) == 0 {
		return
	}

	m.AddAtMost(breakTerms, maxBreakStarts)

	// longDay is forced on when the day's hours exceed the threshold, and
	// then at least one break start must exist.
	longDay := m.NewBool()
	slack := len(workTerms) - longDayHours
	if slack > 0 {
		terms := append(append([]solver.Term(nil), workTerms...), solver.Term{Var: longDay, Coef: -slack})
		m.AddAtMost(terms, longDayHours)

		linked := append(append([]solver.Term(nil), breakTerms...), solver.Term{Var: longDay, Coef: -1})
		m.AddAtLeast(linked, 0)
	}
}

// addWeeklyCaps bounds international workers to weeklyHourCap hours over the
// whole scheduling window.
func addWeeklyCaps(m *solver.Model, byStaffDay map[staffDay]map[int]solver.BoolVar, status map[int]domain.StaffStatus, staffIDs []int) {
	for _, id := range staffIDs {
		if status[id] != domain.StatusInternational {
			continue
		}
		var terms []solver.Term
		for sd, hours := range byStaffDay {
			if sd.staffID != id {
				continue
			}
			for _, v := range hours {
				terms = append(terms, solver.Term{Var: v, Coef: 1})
			}
		}
		if len(terms) > 0 {
			m.AddAtMost(terms, weeklyHourCap)
		}
	}
}

func addObjective(m *solver.Model, slots []slotVar) {
	terms := make([]solver.Term, len(slots))
	for i, sv := range slots {
		w := realStaffWeight
		if sv.slot.Overflow() {
			w = overflowWeight
		}
		terms[i] = solver.Term{Var: sv.v, Coef: w}
	}
	m.Minimize(terms)
}

// decode emits one assignment row per chosen slot variable, in grid order
// (date, hour, staff id). Overflow copies each emit their own row, one per
// unit of uncovered demand.
func decode(md *model, sol solver.Solution) []domain.Assignment {
	var out []domain.Assignment
	for _, sv := range md.slots {
		if !sol.Value(sv.v) {
			continue
		}
		out = append(out, domain.Assignment{
			Date:    domain.DateOf(sv.slot.Date),
			Hour:    sv.slot.Hour,
			StaffID: sv.slot.StaffID,
			Name:    sv.slot.Name,
			Level:   sv.slot.Level,
			Status:  sv.slot.Status,
			Salary:  sv.slot.Salary,
		})
	}
	return out
}
