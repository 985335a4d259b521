package solver

import (
	"context"
	"testing"
	"time"

	gophersat "github.com/crillab/gophersat/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solve(t *testing.T, m *Model) Solution {
	t.Helper()
	sol, err := NewSAT().Solve(context.Background(), m, 5*time.Second)
	require.NoError(t, err)
	return sol
}

func TestMinimizePicksCheapVariable(t *testing.T) {
	m := NewModel()
	cheap := m.NewBool()
	costly := m.NewBool()

	// Exactly one of the two must be on.
	m.AddExactly([]Term{{cheap, 1}, {costly, 1}}, 1)
	m.Minimize([]Term{{cheap, 1}, {costly, 1000}})

	sol := solve(t, m)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.True(t, sol.Value(cheap))
	assert.False(t, sol.Value(costly))
	assert.Equal(t, 1, sol.Objective)
}

func TestExactlyCardinality(t *testing.T) {
	m := NewModel()
	vars := make([]Term, 5)
	for i := range vars {
		vars[i] = Term{m.NewBool(), 1}
	}
	m.AddExactly(vars, 3)
	m.Minimize(vars)

	sol := solve(t, m)
	require.Equal(t, StatusOptimal, sol.Status)

	count := 0
	for _, v := range vars {
		if sol.Value(v.Var) {
			count++
		}
	}
	assert.Equal(t, 3, count)
	assert.Equal(t, 3, sol.Objective)
}

func TestImplication(t *testing.T) {
	m := NewModel()
	a := m.NewBool()
	b := m.NewBool()
	m.AddImplication(a, b)
	m.Fix(a, true)
	m.Minimize([]Term{{a, 1}, {b, 1}})

	sol := solve(t, m)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.True(t, sol.Value(a))
	assert.True(t, sol.Value(b))
}

func TestFixFalse(t *testing.T) {
	m := NewModel()
	a := m.NewBool()
	b := m.NewBool()
	m.AddAtLeast([]Term{{a, 1}, {b, 1}}, 1)
	m.Fix(a, false)
	m.Minimize([]Term{{a, 1}, {b, 1}})

	sol := solve(t, m)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.False(t, sol.Value(a))
	assert.True(t, sol.Value(b))
}

func TestInfeasible(t *testing.T) {
	m := NewModel()
	a := m.NewBool()
	m.Fix(a, true)
	m.Fix(a, false)

	sol := solve(t, m)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestWeightedAtMost(t *testing.T) {
	m := NewModel()
	a := m.NewBool()
	b := m.NewBool()
	c := m.NewBool()

	// 3a + 3b + 3c <= 7 allows at most two on.
	m.AddAtMost([]Term{{a, 3}, {b, 3}, {c, 3}}, 7)
	// Require at least two on.
	m.AddAtLeast([]Term{{a, 1}, {b, 1}, {c, 1}}, 2)
	m.Minimize([]Term{{a, 1}, {b, 1}, {c, 1}})

	sol := solve(t, m)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.Equal(t, 2, sol.Objective)
}

// pigeonhole builds the classic placement model: every pigeon gets a hole,
// no hole holds two. With more pigeons than holes it is unsatisfiable, and
// the refutation is notoriously expensive.
func pigeonhole(m *Model, pigeons, holes int) {
	vars := make([][]BoolVar, pigeons)
	for p := range vars {
		vars[p] = make([]BoolVar, holes)
		row := make([]Term, holes)
		for h := range vars[p] {
			vars[p][h] = m.NewBool()
			row[h] = Term{vars[p][h], 1}
		}
		m.AddAtLeast(row, 1)
	}
	for h := 0; h < holes; h++ {
		col := make([]Term, pigeons)
		for p := 0; p < pigeons; p++ {
			col[p] = Term{vars[p][h], 1}
		}
		m.AddAtMost(col, 1)
	}
}

func TestBudgetIsHardCap(t *testing.T) {
	m := NewModel()
	pigeonhole(m, 10, 9)

	start := time.Now()
	sol, err := NewSAT().Solve(context.Background(), m, 200*time.Millisecond)
	require.NoError(t, err)

	// The refutation takes far longer than the budget; expiry must return
	// UNKNOWN promptly instead of waiting for the full proof.
	assert.Equal(t, StatusUnknown, sol.Status)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestProvenResultIsOptimalEvenWithIncumbent(t *testing.T) {
	s := NewSAT()
	best := &gophersat.Result{Status: gophersat.Sat, Model: []bool{true}, Weight: 9}
	final := gophersat.Result{Status: gophersat.Sat, Model: []bool{false}, Weight: 3}

	sol := s.finish(final, best)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.Equal(t, 3, sol.Objective)
	assert.Equal(t, []bool{false}, sol.Values)
}

func TestCanceledContextStopsSolve(t *testing.T) {
	m := NewModel()
	pigeonhole(m, 10, 9)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sol, err := NewSAT().Solve(ctx, m, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, sol.Status)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestUnreferencedVariableDoesNotBreakSolve(t *testing.T) {
	m := NewModel()
	a := m.NewBool()
	_ = m.NewBool() // allocated but never constrained
	m.Fix(a, true)
	m.Minimize([]Term{{a, 1}})

	sol := solve(t, m)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.True(t, sol.Value(a))
}
