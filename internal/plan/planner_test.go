package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPlanTrivialStraightLineReachesGoal covers the straight-line case: a
// deterministic, noiseless forward simulator should let the planner walk
// directly from start to goal and extract a nonempty policy.
func TestPlanTrivialStraightLineReachesGoal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepSize = 1.0
	cfg.GoalDistanceThreshold = 0.1
	cfg.TimeLimit = time.Second
	cfg.PGoalTerminationThreshold = 0.99
	cfg.NumParticles = 0
	cfg.GoalBias = 1.0

	sim := newFakeSimulator()
	cluster := &fakeClustering{}
	sampler := &fakeSampler{goal: []float64{10}}
	goal := fakeUserGoal{Target: 10, Radius: 0.1}

	planner, err := NewPlanner[float64](cfg, scalarRobot{}, sampler, sim, cluster, goal, NopLogger{})
	require.NoError(t, err)

	graph, stats, err := planner.Plan(0, []float64{0})
	require.NoError(t, err)

	assert.Greater(t, stats.PGoalReached, 0.0, "a noiseless straight-line scenario should reach the goal")
	assert.NotNil(t, graph.Edges, "a reached goal should produce a nonempty policy")
}

// TestPlanTimeLimitTerminationReturnsEmptyPolicy covers the time-limit
// case: a time limit of zero should terminate immediately with zero goal
// probability and no policy.
func TestPlanTimeLimitTerminationReturnsEmptyPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeLimit = 0
	cfg.PGoalTerminationThreshold = 0
	cfg.MaxExpansionAttempts = 0

	sim := newFakeSimulator()
	cluster := &fakeClustering{}
	sampler := &fakeSampler{}
	goal := fakeUserGoal{Target: 1000, Radius: 0.01}

	planner, err := NewPlanner[float64](cfg, scalarRobot{}, sampler, sim, cluster, goal, NopLogger{})
	require.NoError(t, err)

	graph, stats, err := planner.Plan(0, []float64{0})
	require.NoError(t, err)

	assert.Equal(t, 0.0, stats.PGoalReached)
	assert.Nil(t, graph.Edges)
}

// TestPlanStochasticSplitBlacklistsGoalBranchAndBackpropagates covers the
// blacklist-then-backpropagate pair: the first step toward the goal splits
// 50/50, and the clean child lands on the goal with GoalP 1 and MotionP
// 0.5. With the goal-probability threshold at 0.5 that is a goal event, so
// the goal child's branch is blacklisted for nearest-neighbor search and
// the root's goal probability rises above zero.
func TestPlanStochasticSplitBlacklistsGoalBranchAndBackpropagates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepSize = 1.0
	cfg.GoalDistanceThreshold = 0.1
	cfg.GoalProbabilityThreshold = 0.5
	cfg.TimeLimit = 50 * time.Millisecond
	cfg.MaxExpansionAttempts = 1
	cfg.PGoalTerminationThreshold = 1.0
	cfg.IncludeSpurActions = true
	cfg.GoalBias = 1.0

	sim := newFakeSimulator()
	sim.forward = func(particles []float64, target float64, allowContacts bool) ([]SimulationResult[float64], error) {
		out := make([]SimulationResult[float64], len(particles))
		for i := range particles {
			if i%2 == 0 {
				out[i] = SimulationResult[float64]{ResultConfig: target, OutcomeIndependent: true}
			} else {
				out[i] = SimulationResult[float64]{ResultConfig: target - 5, DidContact: true, OutcomeIndependent: true}
			}
		}
		return out, nil
	}
	cluster := &fakeClustering{
		cluster: func(parentParticles []float64, results []SimulationResult[float64]) ([][]int, error) {
			var a, b []int
			for i, r := range results {
				if r.DidContact {
					b = append(b, i)
				} else {
					a = append(a, i)
				}
			}
			return [][]int{a, b}, nil
		},
	}
	sampler := &fakeSampler{goal: []float64{1}}
	goal := fakeUserGoal{Target: 1, Radius: 0.5}

	planner, err := NewPlanner[float64](cfg, scalarRobot{}, sampler, sim, cluster, goal, NopLogger{})
	require.NoError(t, err)

	_, stats, err := planner.Plan(0, []float64{0, 0, 0, 0})
	require.NoError(t, err)

	assert.Greater(t, stats.PGoalReached, 0.0)
	// The goal child's parent is the root, so the child is its own goal
	// branch root and the blacklist walk clears its UseForNN.
	foundBlacklisted := false
	for _, node := range planner.tree.Nodes[1:] {
		if !node.State.UseForNN {
			foundBlacklisted = true
		}
	}
	assert.True(t, foundBlacklisted, "the goal branch (or its root) should have been blacklisted for nearest-neighbor search")
}
