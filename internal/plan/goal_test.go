package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner() *Planner[float64] {
	return &Planner[float64]{Config: DefaultConfig()}
}

// TestComputeGoalPIndependentSiblingsTakeBest exercises the per-sibling
// K-round loop of groupGoalP with K=1 (DefaultConfig's EdgeAttemptCount):
// sibling a reaches the goal directly with probability RawEdgeP*GoalP =
// 0.8*1.0 = 0.8, while particles stuck at a's independent co-sibling b
// (which has GoalP 0) contribute nothing, so a's total is 0.8; sibling b's
// total comes from the fraction of a's particles that reach a then fail to
// reverse (0.8*(1-0.5)=0.4) times a's GoalP (1.0) = 0.4. The group takes
// the max of the two totals.
func TestComputeGoalPIndependentSiblingsTakeBest(t *testing.T) {
	p := newTestPlanner()
	root := &PlanningState[float64]{StateID: 0}
	p.tree = NewTree(root)

	p.tree.Append(0, &PlanningState[float64]{
		StateID: 1, TransitionID: 1, EffectiveEdgeP: 0.9, RawEdgeP: 0.8, ReverseEdgeP: 0.5,
		GoalP: 1.0, ActionIndependent: true,
	})
	p.tree.Append(0, &PlanningState[float64]{
		StateID: 2, TransitionID: 1, EffectiveEdgeP: 0.3, RawEdgeP: 0.2, ReverseEdgeP: 0.5,
		GoalP: 0.0, ActionIndependent: true,
	})

	got, err := p.computeGoalP(0)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, got, 1e-9)
}

// TestComputeGoalPDependentSiblingsSum: dependent siblings never feed each
// other's "others reached goal" term (only independent siblings do), so
// with K=1 each dependent sibling's total collapses to RawEdgeP*GoalP, and
// the group sums them.
func TestComputeGoalPDependentSiblingsSum(t *testing.T) {
	p := newTestPlanner()
	root := &PlanningState[float64]{StateID: 0}
	p.tree = NewTree(root)

	p.tree.Append(0, &PlanningState[float64]{
		StateID: 1, TransitionID: 1, RawEdgeP: 0.4, GoalP: 1.0, ActionIndependent: false,
	})
	p.tree.Append(0, &PlanningState[float64]{
		StateID: 2, TransitionID: 1, RawEdgeP: 0.3, GoalP: 1.0, ActionIndependent: false,
	})

	got, err := p.computeGoalP(0)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, got, 1e-9)
}

func TestComputeGoalPTakesMaxAcrossTransitionGroups(t *testing.T) {
	p := newTestPlanner()
	root := &PlanningState[float64]{StateID: 0}
	p.tree = NewTree(root)

	p.tree.Append(0, &PlanningState[float64]{
		StateID: 1, TransitionID: 1, EffectiveEdgeP: 0.2, GoalP: 1.0, ActionIndependent: true,
	})
	p.tree.Append(0, &PlanningState[float64]{
		StateID: 2, TransitionID: 2, EffectiveEdgeP: 0.9, GoalP: 1.0, ActionIndependent: true,
	})

	got, err := p.computeGoalP(0)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got, 1e-9)
}

func TestFindBranchRootStopsAtRootChild(t *testing.T) {
	p := newTestPlanner()
	root := &PlanningState[float64]{StateID: 0}
	p.tree = NewTree(root)
	a := p.tree.Append(0, &PlanningState[float64]{StateID: 1, EffectiveEdgeP: 1.0})
	b := p.tree.Append(a, &PlanningState[float64]{StateID: 2, EffectiveEdgeP: 1.0})

	root2, err := p.findBranchRoot(b)
	require.NoError(t, err)
	assert.Equal(t, a, root2)
}

func TestFindBranchRootErrorsAtTreeRoot(t *testing.T) {
	p := newTestPlanner()
	root := &PlanningState[float64]{StateID: 0}
	p.tree = NewTree(root)

	_, err := p.findBranchRoot(0)
	assert.Error(t, err)
}

func TestBlacklistSubtreeClearsDescendants(t *testing.T) {
	p := newTestPlanner()
	root := &PlanningState[float64]{StateID: 0}
	p.tree = NewTree(root)
	a := p.tree.Append(0, &PlanningState[float64]{StateID: 1, UseForNN: true})
	b := p.tree.Append(a, &PlanningState[float64]{StateID: 2, UseForNN: true})

	p.blacklistSubtree(a)

	assert.False(t, p.tree.Nodes[a].State.UseForNN)
	assert.False(t, p.tree.Nodes[b].State.UseForNN)
}

// TestCheckGoalUsesMotionPWeightedThreshold: the goal probability 0.8 alone
// clears the 0.5 threshold, but weighted by MotionP 0.5 it is 0.4, so no
// goal event fires.
func TestCheckGoalUsesMotionPWeightedThreshold(t *testing.T) {
	p := newTestPlanner()
	p.Config.GoalProbabilityThreshold = 0.5
	p.Goal = stubGoal{p: 0.8}
	root := &PlanningState[float64]{StateID: 0, MotionP: 0.5}
	p.tree = NewTree(root)

	assert.False(t, p.checkGoal(0))
}

type stubGoal struct{ p float64 }

func (s stubGoal) GoalReachedProbability(state *PlanningState[float64]) float64 { return s.p }
func (s stubGoal) GoalReached(c float64) bool                                  { return false }
