package plan

// TreeNode wraps a PlanningState with parent/child linkage into the tree
// arena. Nodes live in a single slice indexed by int; indices are
// stable for the plan's lifetime (pruning builds a new tree rather than
// renumbering this one).
type TreeNode[C any] struct {
	State *PlanningState[C]

	// ParentIndex is -1 for the root, otherwise an index strictly less
	// than this node's own index.
	ParentIndex int

	// ChildIndices lists children in insertion order. Every entry is
	// strictly greater than this node's own index, because children are
	// always appended after their parent.
	ChildIndices []int
}

// Tree is the arena: states are appended at creation and never removed
// (pruning allocates a new Tree). Index 0 is always the root.
type Tree[C any] struct {
	Nodes []*TreeNode[C]
}

// NewTree creates a tree whose only node is root.
func NewTree[C any](root *PlanningState[C]) *Tree[C] {
	return &Tree[C]{
		Nodes: []*TreeNode[C]{
			{State: root, ParentIndex: -1},
		},
	}
}

// Root returns the tree's root node (index 0).
func (t *Tree[C]) Root() *TreeNode[C] {
	return t.Nodes[0]
}

// Len returns the number of nodes in the tree.
func (t *Tree[C]) Len() int {
	return len(t.Nodes)
}

// Append adds state as a child of parentIndex and returns its new index.
func (t *Tree[C]) Append(parentIndex int, state *PlanningState[C]) int {
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, &TreeNode[C]{State: state, ParentIndex: parentIndex})
	t.Nodes[parentIndex].ChildIndices = append(t.Nodes[parentIndex].ChildIndices, idx)
	return idx
}

// ValidateLinkage checks the three tree-node invariants from the data
// model: non-root nodes have a lesser parent index, children are listed
// by their parent, and indices stay within bounds. It is used both by
// tests and, when Config.DebugLevel >= 2, as a runtime assertion after
// every expansion.
func (t *Tree[C]) ValidateLinkage() error {
	for i, n := range t.Nodes {
		if i == 0 {
			if n.ParentIndex != -1 {
				return newInvariantViolation("ValidateLinkage", "root has parent_index %d, want -1", n.ParentIndex)
			}
		} else {
			if n.ParentIndex < 0 || n.ParentIndex >= i {
				return newInvariantViolation("ValidateLinkage", "node %d has parent_index %d, want in [0, %d)", i, n.ParentIndex, i)
			}
			parent := t.Nodes[n.ParentIndex]
			found := false
			for _, c := range parent.ChildIndices {
				if c == i {
					found = true
					break
				}
			}
			if !found {
				return newInvariantViolation("ValidateLinkage", "node %d not listed among children of parent %d", i, n.ParentIndex)
			}
		}
		for _, c := range n.ChildIndices {
			if c <= i || c >= len(t.Nodes) {
				return newInvariantViolation("ValidateLinkage", "node %d lists out-of-range child %d", i, c)
			}
		}
	}
	return nil
}

// Ancestors returns the path from node idx up to (and including) the
// root, nearest ancestor first. It is iterative, not recursive, per the
// stack-exhaustion guard called for in the design notes -- tree depth in
// this planner is unbounded by construction.
func (t *Tree[C]) Ancestors(idx int) []int {
	var path []int
	for idx != -1 {
		path = append(path, idx)
		idx = t.Nodes[idx].ParentIndex
	}
	return path
}

// Descendants returns every index in the subtree rooted at idx, including
// idx itself, via an iterative (stack-based) depth-first walk.
func (t *Tree[C]) Descendants(idx int) []int {
	var out []int
	stack := []int{idx}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		stack = append(stack, t.Nodes[cur].ChildIndices...)
	}
	return out
}

// Siblings returns the indices of idx's siblings that share the same
// TransitionID (the children of idx's parent born from the same split),
// idx itself excluded.
func (t *Tree[C]) Siblings(idx int) []int {
	if idx == 0 {
		return nil
	}
	parent := t.Nodes[t.Nodes[idx].ParentIndex]
	tid := t.Nodes[idx].State.TransitionID
	var out []int
	for _, c := range parent.ChildIndices {
		if c != idx && t.Nodes[c].State.TransitionID == tid {
			out = append(out, c)
		}
	}
	return out
}
