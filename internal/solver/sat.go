package solver

import (
	"context"
	"time"

	gophersat "github.com/crillab/gophersat/solver"

	"github.com/cccstore/shift-scheduler/internal/pkg/logger"
)

// SAT solves models with the gophersat pseudo-boolean optimizer. The whole
// scheduling formulation is linear over booleans, which is exactly the
// fragment gophersat's PB engine handles.
type SAT struct{}

// NewSAT creates the SAT-backed solver.
func NewSAT() *SAT { return &SAT{} }

// Solve runs branch-and-bound optimization until the optimum is proven or
// the budget expires. With an incumbent at budget expiry the result is
// StatusFeasible; with none it is StatusUnknown. The budget is a hard
// wall-clock cap: gophersat may ignore the stop signal, so expiry returns
// immediately and the proof is abandoned.
func (s *SAT) Solve(ctx context.Context, m *Model, budget time.Duration) (Solution, error) {
	pb := toProblem(m)
	engine := gophersat.New(pb)

	results := make(chan gophersat.Result, 64)
	stop := make(chan struct{})
	final := make(chan gophersat.Result, 1)
	go func() {
		final <- engine.Optimal(results, stop)
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	var best *gophersat.Result
	for {
		select {
		case r, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			if r.Status == gophersat.Sat {
				cp := r
				best = &cp
			}
		case <-timer.C:
			// The proof may have finished in the same instant.
			select {
			case r := <-final:
				return s.finish(r, best), nil
			default:
			}
			logger.Warn("solver: budget expired, abandoning proof", "budget", budget)
			return s.abandon(stop, results, final, best), nil
		case <-ctx.Done():
			return s.abandon(stop, results, final, best), nil
		case r := <-final:
			return s.finish(r, best), nil
		}
	}
}

// abandon reports the best incumbent without waiting for the proof. The
// solver goroutine may keep searching; draining its channels lets it exit
// once it does finish instead of blocking forever.
func (s *SAT) abandon(stop chan struct{}, results, final chan gophersat.Result, best *gophersat.Result) Solution {
	close(stop)
	go func() {
		for {
			select {
			case <-results:
			case <-final:
				return
			}
		}
	}()

	if best == nil {
		return Solution{Status: StatusUnknown}
	}
	return Solution{
		Status:    StatusFeasible,
		Values:    append([]bool(nil), best.Model...),
		Objective: best.Weight,
	}
}

func (s *SAT) finish(final gophersat.Result, best *gophersat.Result) Solution {
	switch final.Status {
	case gophersat.Unsat:
		return Solution{Status: StatusInfeasible}
	case gophersat.Sat:
		return Solution{
			Status:    StatusOptimal,
			Values:    append([]bool(nil), final.Model...),
			Objective: final.Weight,
		}
	}

	// Indet: the engine gave up on its own without a proof.
	if best == nil {
		return Solution{Status: StatusUnknown}
	}
	return Solution{
		Status:    StatusFeasible,
		Values:    append([]bool(nil), best.Model...),
		Objective: best.Weight,
	}
}

// toProblem lowers the model to gophersat's normalized pseudo-boolean form:
// every constraint becomes sum(w_i * lit_i) >= k with positive weights,
// negative coefficients turning into negated literals.
func toProblem(m *Model) *gophersat.Problem {
	constrs := make([]gophersat.PBConstr, 0, len(m.constrs)+1)
	seen := make([]bool, m.nVars+1)

	for _, c := range m.constrs {
		lits := make([]int, 0, len(c.terms))
		weights := make([]int, 0, len(c.terms))
		atLeast := c.atLeast
		for _, t := range c.terms {
			seen[t.Var] = true
			switch {
			case t.Coef > 0:
				lits = append(lits, int(t.Var))
				weights = append(weights, t.Coef)
			case t.Coef < 0:
				// w*x == w - w*(1-x); move the constant to the bound.
				lits = append(lits, -int(t.Var))
				weights = append(weights, -t.Coef)
				atLeast += -t.Coef
			}
		}
		if atLeast <= 0 {
			continue // trivially satisfied
		}
		constrs = append(constrs, gophersat.GtEq(lits, weights, atLeast))
	}

	// Variables never mentioned by a constraint still need to exist in the
	// problem; pin them with a tautology.
	for v := 1; v <= m.nVars; v++ {
		if !seen[v] {
			constrs = append(constrs, gophersat.GtEq([]int{v, -v}, []int{1, 1}, 1))
		}
	}

	pb := gophersat.ParsePBConstrs(constrs)

	if len(m.objective) > 0 {
		lits := make([]gophersat.Lit, len(m.objective))
		coeffs := make([]int, len(m.objective))
		for i, t := range m.objective {
			lits[i] = gophersat.IntToLit(int32(t.Var))
			coeffs[i] = t.Coef
		}
		pb.SetCostFunc(lits, coeffs)
	}

	return pb
}
