// Package solver exposes a small capability interface over boolean
// optimization: the scheduler builds a Model of 0/1 variables with linear
// constraints and a linear cost, and a Solver finds a minimum-cost
// assignment within a wall-clock budget.
//
// The engine only depends on this interface, so the SAT-backed
// implementation can be replaced by a MIP-backed one without touching the
// scheduling code.
package solver

import (
	"context"
	"time"
)

// BoolVar identifies a 0/1 decision variable. Variables are numbered from 1.
type BoolVar int

// Term is one coefficient*variable term of a linear expression.
type Term struct {
	Var  BoolVar
	Coef int
}

// Status is the outcome of a solve call.
type Status int

const (
	// StatusUnknown means the budget expired with no solution found.
	StatusUnknown Status = iota
	// StatusOptimal means the returned solution is proven cost-minimal.
	StatusOptimal
	// StatusFeasible means a solution was found but optimality was not
	// proven within the budget.
	StatusFeasible
	// StatusInfeasible means the constraints admit no solution.
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// Solution holds the variable assignment of a successful solve. Values is
// indexed by BoolVar-1.
type Solution struct {
	Status    Status
	Values    []bool
	Objective int
}

// Value returns the assigned value of v.
func (s Solution) Value(v BoolVar) bool {
	i := int(v) - 1
	return i >= 0 && i < len(s.Values) && s.Values[i]
}

// Solver finds a minimum-cost assignment for a model.
type Solver interface {
	Solve(ctx context.Context, m *Model, budget time.Duration) (Solution, error)
}

// constraint is stored in at-least form: sum(terms) >= atLeast.
type constraint struct {
	terms   []Term
	atLeast int
}

// Model collects variables, linear constraints, and the cost function.
// It is not safe for concurrent mutation.
type Model struct {
	nVars     int
	objective []Term
	constrs   []constraint
}

// NewModel creates an empty model.
func NewModel() *Model { return &Model{} }

// NewBool allocates a fresh decision variable.
func (m *Model) NewBool() BoolVar {
	m.nVars++
	return BoolVar(m.nVars)
}

// NumVars returns the number of allocated variables.
func (m *Model) NumVars() int { return m.nVars }

// NumConstraints returns the number of stored constraints.
func (m *Model) NumConstraints() int { return len(m.constrs) }

// AddAtLeast adds sum(terms) >= k.
func (m *Model) AddAtLeast(terms []Term, k int) {
	m.constrs = append(m.constrs, constraint{terms: append([]Term(nil), terms...), atLeast: k})
}

// AddAtMost adds sum(terms) <= k.
func (m *Model) AddAtMost(terms []Term, k int) {
	neg := make([]Term, len(terms))
	for i, t := range terms {
		neg[i] = Term{Var: t.Var, Coef: -t.Coef}
	}
	m.constrs = append(m.constrs, constraint{terms: neg, atLeast: -k})
}

// AddExactly adds sum(terms) == k.
func (m *Model) AddExactly(terms []Term, k int) {
	m.AddAtLeast(terms, k)
	m.AddAtMost(terms, k)
}

// AddImplication adds a -> b.
func (m *Model) AddImplication(a, b BoolVar) {
	m.AddAtLeast([]Term{{Var: b, Coef: 1}, {Var: a, Coef: -1}}, 0)
}

// Fix pins a variable to a value.
func (m *Model) Fix(v BoolVar, value bool) {
	if value {
		m.AddAtLeast([]Term{{Var: v, Coef: 1}}, 1)
	} else {
		m.AddAtMost([]Term{{Var: v, Coef: 1}}, 0)
	}
}

// Minimize sets the cost function. Coefficients must be non-negative;
// terms replace any previously set objective.
func (m *Model) Minimize(terms []Term) {
	m.objective = append([]Term(nil), terms...)
}
