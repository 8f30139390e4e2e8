package plan

import "github.com/google/uuid"

// BestAction is the result of QueryBestAction: the step the policy
// recommends from the robot's current re-localized position.
type BestAction[C any] struct {
	PreviousStateIndex  int
	DesiredTransitionID TransitionID
	Action              C
	ExpectedResult      C
	IsReverse           bool
}

// particleBelongsToParent wraps a single current configuration as a
// one-element result list and asks the injected Clustering collaborator
// whether it belongs to the parent's cluster.
func particleBelongsToParent[C any](cluster Clustering[C], parentParticles []C, current C) (bool, error) {
	if len(parentParticles) == 0 {
		return false, nil
	}
	members, err := cluster.IdentifyClusterMembers(parentParticles, []SimulationResult[C]{{ResultConfig: current}})
	if err != nil {
		return false, newExternalFailure("particleBelongsToParent", "identify cluster members: %v", err)
	}
	if len(members) == 0 {
		return false, nil
	}
	return members[0], nil
}

// candidateIndices lists the tree indices QueryBestAction should test for
// re-localization. allowBranchJumping considers every pruned state;
// otherwise the search stays local to previousStateIdx's own successors,
// optionally widened to its planned parent's other children when
// linkToPlannedParent is set -- letting re-localization recover onto a
// sibling outcome without granting a full branch jump.
func candidateIndices[C any](t *Tree[C], previousStateIdx int, allowBranchJumping, linkToPlannedParent bool) []int {
	if allowBranchJumping {
		out := make([]int, t.Len())
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := []int{previousStateIdx}
	out = append(out, t.Nodes[previousStateIdx].ChildIndices...)
	if linkToPlannedParent {
		if parent := t.Nodes[previousStateIdx].ParentIndex; parent != -1 {
			out = append(out, parent)
			out = append(out, t.Nodes[parent].ChildIndices...)
		}
	}
	return out
}

// QueryBestAction re-localizes against the candidate set, then reads the
// chosen next hop off the policy graph's PreviousIndex to decide whether
// the step is forward or reverse.
func (g *PolicyGraph[C]) QueryBestAction(previousStateIdx int, current C, allowBranchJumping, linkToPlannedParent bool, cluster Clustering[C]) (*BestAction[C], error) {
	located := previousStateIdx
	for _, idx := range candidateIndices(g.Tree, previousStateIdx, allowBranchJumping, linkToPlannedParent) {
		belongs, err := particleBelongsToParent(cluster, g.Tree.Nodes[idx].State.Particles, current)
		if err != nil {
			return nil, err
		}
		if belongs {
			located = idx
			break
		}
	}

	if located < 0 || located >= len(g.PreviousIndex) {
		return nil, newInvariantViolation("QueryBestAction", "no policy successor recorded for state index %d", located)
	}
	hop := g.PreviousIndex[located]

	if hop == virtualGoalIndex {
		state := g.Tree.Nodes[located].State
		return &BestAction[C]{
			PreviousStateIndex:  located,
			DesiredTransitionID: state.TransitionID,
			Action:              state.Command,
			ExpectedResult:      state.Expectation,
			IsReverse:           false,
		}, nil
	}

	target := g.Tree.Nodes[hop].State
	isReverse := hop == g.Tree.Nodes[located].ParentIndex

	return &BestAction[C]{
		PreviousStateIndex:  located,
		DesiredTransitionID: target.TransitionID,
		Action:              target.Command,
		ExpectedResult:      target.Expectation,
		IsReverse:           isReverse,
	}, nil
}

// SimulateExecutionPolicy runs the closed-loop policy execution loop. It
// returns the number of executed steps, negated on failure.
func SimulateExecutionPolicy[C any](graph *PolicyGraph[C], exec Executor[C], cluster Clustering[C], goal UserGoal[C], start C, allowBranchJumping, linkToPlannedParent bool, maxSteps int) (ExecutionResult[C], error) {
	result := ExecutionResult[C]{ExecutionID: uuid.New()}

	if _, err := exec.Move(start, start, start, false, true); err != nil {
		return result, newExternalFailure("SimulateExecutionPolicy", "reset move failed: %v", err)
	}

	current := start
	previousIdx := 0
	steps := 0

	for steps < maxSteps {
		if goal.GoalReached(current) {
			result.Steps = steps
			return result, nil
		}

		action, err := graph.QueryBestAction(previousIdx, current, allowBranchJumping, linkToPlannedParent, cluster)
		if err != nil {
			result.Steps = -steps
			return result, err
		}

		trajectory, err := exec.Move(current, action.Action, action.ExpectedResult, action.IsReverse, false)
		if err != nil || len(trajectory) == 0 {
			result.Steps = -steps
			return result, newExternalFailure("SimulateExecutionPolicy", "empty or failed execution trajectory")
		}

		current = trajectory[len(trajectory)-1]
		result.Trace = append(result.Trace, ExecutionStep[C]{Config: current, Action: action.Action, IsReverse: action.IsReverse})
		previousIdx = hopIndex(graph, action)
		steps++
	}

	if goal.GoalReached(current) {
		result.Steps = steps
		return result, nil
	}
	result.Steps = -steps
	return result, nil
}

// hopIndex resolves the tree index the executor actually moved to, for
// use as next loop iteration's previousStateIdx.
func hopIndex[C any](graph *PolicyGraph[C], action *BestAction[C]) int {
	if action.PreviousStateIndex < 0 || action.PreviousStateIndex >= len(graph.PreviousIndex) {
		return action.PreviousStateIndex
	}
	hop := graph.PreviousIndex[action.PreviousStateIndex]
	if hop == virtualGoalIndex {
		return action.PreviousStateIndex
	}
	return hop
}
