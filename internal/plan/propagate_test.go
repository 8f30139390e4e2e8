package plan

import "testing"

func newTestPlannerWithSim(sim *fakeSimulator, cluster *fakeClustering) *Planner[float64] {
	p := &Planner[float64]{
		Config:  DefaultConfig(),
		Robot:   scalarRobot{},
		Sim:     sim,
		Cluster: cluster,
		Log:     NopLogger{},
	}
	p.Config.NumParticles = 0
	root := &PlanningState[float64]{StateID: 0, Particles: []float64{0, 0, 0, 0}, MotionP: 1, EffectiveEdgeP: 1}
	p.tree = NewTree(root)
	return p
}

func TestPropagateOnceSingleClusterIsNotASplit(t *testing.T) {
	sim := newFakeSimulator()
	cluster := &fakeClustering{}
	p := newTestPlannerWithSim(sim, cluster)

	indices, err := p.propagateOnce(0, 5)
	if err != nil {
		t.Fatalf("propagateOnce: %v", err)
	}
	if len(indices) != 1 {
		t.Fatalf("indices = %v, want exactly 1 child", indices)
	}
	child := p.tree.Nodes[indices[0]].State
	if child.SplitID != 0 {
		t.Errorf("SplitID = %d, want 0 for a non-split", child.SplitID)
	}
	if child.EffectiveEdgeP != child.RawEdgeP {
		t.Errorf("EffectiveEdgeP = %v, want RawEdgeP %v for a non-split", child.EffectiveEdgeP, child.RawEdgeP)
	}
}

func TestPropagateOnceSplitRunsRetryArithmetic(t *testing.T) {
	sim := newFakeSimulator()
	sim.forward = func(particles []float64, target float64, allowContacts bool) ([]SimulationResult[float64], error) {
		out := make([]SimulationResult[float64], len(particles))
		for i := range particles {
			if i%2 == 0 {
				out[i] = SimulationResult[float64]{ResultConfig: target, OutcomeIndependent: true}
			} else {
				out[i] = SimulationResult[float64]{ResultConfig: -target, DidContact: true, OutcomeIndependent: true}
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
	p := newTestPlannerWithSim(sim, cluster)
	p.Config.EdgeAttemptCount = 2

	indices, err := p.propagateOnce(0, 5)
	if err != nil {
		t.Fatalf("propagateOnce: %v", err)
	}
	if len(indices) != 2 {
		t.Fatalf("indices = %v, want 2 children for a split", indices)
	}
	for _, idx := range indices {
		child := p.tree.Nodes[idx].State
		if child.SplitID == 0 {
			t.Errorf("child %d has SplitID 0, want nonzero for a split", idx)
		}
		if child.EffectiveEdgeP < child.RawEdgeP {
			t.Errorf("child %d: EffectiveEdgeP %v should never be less than RawEdgeP %v", idx, child.EffectiveEdgeP, child.RawEdgeP)
		}
	}
}

func TestPropagateOnceSetsMotionPFromParent(t *testing.T) {
	sim := newFakeSimulator()
	cluster := &fakeClustering{}
	p := newTestPlannerWithSim(sim, cluster)
	p.tree.Root().State.MotionP = 0.5

	indices, err := p.propagateOnce(0, 5)
	if err != nil {
		t.Fatalf("propagateOnce: %v", err)
	}
	child := p.tree.Nodes[indices[0]].State
	want := 0.5 * child.EffectiveEdgeP
	if !almostEqual(child.MotionP, want) {
		t.Errorf("MotionP = %v, want %v", child.MotionP, want)
	}
}

func TestExpandExtendTakesOneStep(t *testing.T) {
	sim := newFakeSimulator()
	cluster := &fakeClustering{}
	p := newTestPlannerWithSim(sim, cluster)
	p.Config.StepSize = 1.0

	indices, err := p.expandExtend(0, 10)
	if err != nil {
		t.Fatalf("expandExtend: %v", err)
	}
	if len(indices) != 1 {
		t.Fatalf("indices = %v, want 1", indices)
	}
}

func TestExpandConnectStopsOnSplit(t *testing.T) {
	sim := newFakeSimulator()
	calls := 0
	sim.forward = func(particles []float64, target float64, allowContacts bool) ([]SimulationResult[float64], error) {
		calls++
		out := make([]SimulationResult[float64], len(particles))
		for i := range particles {
			out[i] = SimulationResult[float64]{ResultConfig: target, OutcomeIndependent: true}
			if calls == 2 && i%2 == 1 {
				out[i].DidContact = true
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
			var out [][]int
			out = append(out, a)
			if len(b) > 0 {
				out = append(out, b)
			}
			return out, nil
		},
	}
	p := newTestPlannerWithSim(sim, cluster)
	p.Config.StepSize = 1.0
	p.Config.GoalDistanceThreshold = 0

	indices, err := p.expandConnect(0, 10)
	if err != nil {
		t.Fatalf("expandConnect: %v", err)
	}
	if len(indices) != 3 {
		t.Fatalf("indices = %v, want 3 (one clean step then a 2-way split)", indices)
	}
}
