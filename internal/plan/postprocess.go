package plan

// PostProcess builds a new Tree (the original is never mutated after
// planning) in which every non-root state's GoalP has been filled in:
// states already on a goal path keep their positive GoalP; states
// that are siblings of a goal-reaching child, sharing its TransitionID,
// get a negative GoalP encoding "reachable only by reversing to the goal
// branch" (-parent.GoalP * reverse_edge_p).
//
// Applying PostProcess twice is a no-op: a state with GoalP already set
// (positive or negative) is left untouched on the second pass.
func PostProcess[C any](t *Tree[C]) *Tree[C] {
	out := cloneTree(t)

	for i, node := range out.Nodes {
		if i == 0 || node.State.GoalP != 0 {
			continue
		}
		parent := out.Nodes[node.ParentIndex]
		if parent.State.GoalP <= 0 {
			continue
		}
		if hasGoalReachingSibling(out, i) {
			node.State.GoalP = -parent.State.GoalP * node.State.ReverseEdgeP
		}
	}
	return out
}

func hasGoalReachingSibling[C any](t *Tree[C], idx int) bool {
	node := t.Nodes[idx]
	parent := t.Nodes[node.ParentIndex]
	tid := node.State.TransitionID
	for _, c := range parent.ChildIndices {
		if c == idx {
			continue
		}
		sibling := t.Nodes[c]
		if sibling.State.TransitionID == tid && sibling.State.GoalP > 0 {
			return true
		}
	}
	return false
}

// cloneTree deep-copies node linkage (not particle data, which is never
// mutated after creation) so PostProcess and Prune can hand back a new
// tree without aliasing the caller's.
func cloneTree[C any](t *Tree[C]) *Tree[C] {
	out := &Tree[C]{Nodes: make([]*TreeNode[C], len(t.Nodes))}
	for i, n := range t.Nodes {
		stateCopy := *n.State
		childCopy := make([]int, len(n.ChildIndices))
		copy(childCopy, n.ChildIndices)
		out.Nodes[i] = &TreeNode[C]{
			State:        &stateCopy,
			ParentIndex:  n.ParentIndex,
			ChildIndices: childCopy,
		}
	}
	return out
}
