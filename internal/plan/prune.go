package plan

// Prune produces a new tree containing
// the root plus every state with GoalP > 0 (on a goal path), and, when
// includeSpurActions is set, every state with GoalP < 0 (reachable only
// by reversing into a goal branch). Parent/child linkage is rebuilt with
// a depth-first copy from the root, so indices in the pruned tree do not
// correspond to indices in t.
//
// Prune is idempotent: every state retained by one pass already satisfies
// its own keep condition, so a second pass keeps exactly the same set.
func Prune[C any](t *Tree[C], includeSpurActions bool) *Tree[C] {
	keep := func(idx int) bool {
		if idx == 0 {
			return true
		}
		gp := t.Nodes[idx].State.GoalP
		if gp > 0 {
			return true
		}
		if gp < 0 && includeSpurActions {
			return true
		}
		return false
	}

	rootCopy := *t.Nodes[0].State
	out := &Tree[C]{Nodes: []*TreeNode[C]{{State: &rootCopy, ParentIndex: -1}}}

	// Iterative depth-first copy, per the design notes' guard against
	// recursion depth tracking tree depth.
	type frame struct{ oldIdx, newParent int }
	stack := []frame{{oldIdx: 0, newParent: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range t.Nodes[f.oldIdx].ChildIndices {
			if !keep(c) {
				continue
			}
			stateCopy := *t.Nodes[c].State
			newIdx := out.Append(f.newParent, &stateCopy)
			stack = append(stack, frame{oldIdx: c, newParent: newIdx})
		}
	}
	return out
}
