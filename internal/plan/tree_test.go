package plan

import "testing"

func buildLinearTree() *Tree[float64] {
	root := &PlanningState[float64]{StateID: 0}
	tr := NewTree(root)
	tr.Append(0, &PlanningState[float64]{StateID: 1})
	tr.Append(1, &PlanningState[float64]{StateID: 2})
	return tr
}

func TestTreeValidateLinkageAcceptsWellFormedTree(t *testing.T) {
	tr := buildLinearTree()
	if err := tr.ValidateLinkage(); err != nil {
		t.Fatalf("ValidateLinkage: %v", err)
	}
}

func TestTreeValidateLinkageRejectsForwardParentPointer(t *testing.T) {
	tr := buildLinearTree()
	tr.Nodes[1].ParentIndex = 2
	if err := tr.ValidateLinkage(); err == nil {
		t.Fatalf("expected an error for a parent index pointing forward")
	}
}

func TestTreeAncestors(t *testing.T) {
	tr := buildLinearTree()
	got := tr.Ancestors(2)
	want := []int{2, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("Ancestors(2) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ancestors(2)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTreeDescendantsIncludesSelf(t *testing.T) {
	tr := buildLinearTree()
	got := tr.Descendants(0)
	if len(got) != 3 {
		t.Fatalf("Descendants(0) = %v, want 3 nodes", got)
	}
}

func TestTreeSiblingsSharesTransitionID(t *testing.T) {
	root := &PlanningState[float64]{StateID: 0}
	tr := NewTree(root)
	a := tr.Append(0, &PlanningState[float64]{StateID: 1, TransitionID: 7})
	b := tr.Append(0, &PlanningState[float64]{StateID: 2, TransitionID: 7})
	tr.Append(0, &PlanningState[float64]{StateID: 3, TransitionID: 8})

	got := tr.Siblings(a)
	if len(got) != 1 || got[0] != b {
		t.Errorf("Siblings(a) = %v, want [%d]", got, b)
	}
}
