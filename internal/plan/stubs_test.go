package plan

import "math/rand"

// fakeSimulator is a deterministic stand-in for plan.Simulator used by the
// propagation and planner tests: ForwardSimulate/ReverseSimulate delegate
// to injected closures so each test can control outcome clustering
// without a real physics model.
type fakeSimulator struct {
	forward func(particles []float64, target float64, allowContacts bool) ([]SimulationResult[float64], error)
	reverse func(particles []float64, target float64, allowContacts bool) ([]SimulationResult[float64], error)
	rng     *rand.Rand
	stats   map[string]float64
}

func newFakeSimulator() *fakeSimulator {
	return &fakeSimulator{rng: rand.New(rand.NewSource(1)), stats: make(map[string]float64)}
}

func (s *fakeSimulator) ForwardSimulate(particles []float64, target float64, allowContacts bool) ([]SimulationResult[float64], error) {
	if s.forward != nil {
		return s.forward(particles, target, allowContacts)
	}
	out := make([]SimulationResult[float64], len(particles))
	for i := range particles {
		out[i] = SimulationResult[float64]{ResultConfig: target, ActualTarget: target, OutcomeIndependent: true}
	}
	return out, nil
}

func (s *fakeSimulator) ReverseSimulate(particles []float64, target float64, allowContacts bool) ([]SimulationResult[float64], error) {
	if s.reverse != nil {
		return s.reverse(particles, target, allowContacts)
	}
	out := make([]SimulationResult[float64], len(particles))
	for i := range particles {
		out[i] = SimulationResult[float64]{ResultConfig: target, ActualTarget: target, OutcomeIndependent: true}
	}
	return out, nil
}

func (s *fakeSimulator) CheckCollision(c float64) bool { return false }
func (s *fakeSimulator) ResetStatistics()              { s.stats = make(map[string]float64) }
func (s *fakeSimulator) GetStatistics() map[string]float64 { return s.stats }
func (s *fakeSimulator) Rng() *rand.Rand               { return s.rng }
func (s *fakeSimulator) ResampleParticles(particles []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = particles[i%len(particles)]
	}
	return out
}

// fakeClustering partitions results by an injected closure; by default
// every result lands in a single cluster.
type fakeClustering struct {
	cluster  func(parentParticles []float64, results []SimulationResult[float64]) ([][]int, error)
	identify func(parentParticles []float64, results []SimulationResult[float64]) ([]bool, error)
}

func (c *fakeClustering) ClusterParticles(parentParticles []float64, results []SimulationResult[float64]) ([][]int, error) {
	if c.cluster != nil {
		return c.cluster(parentParticles, results)
	}
	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	return [][]int{idx}, nil
}

func (c *fakeClustering) IdentifyClusterMembers(parentParticles []float64, results []SimulationResult[float64]) ([]bool, error) {
	if c.identify != nil {
		return c.identify(parentParticles, results)
	}
	out := make([]bool, len(results))
	for i := range out {
		out[i] = true
	}
	return out, nil
}

// fakeSampler draws deterministically from a fixed queue, falling back
// to zero once exhausted.
type fakeSampler struct {
	free []float64
	goal []float64
}

func (s *fakeSampler) Sample(rng *rand.Rand) float64 {
	if len(s.free) == 0 {
		return 0
	}
	v := s.free[0]
	s.free = s.free[1:]
	return v
}

func (s *fakeSampler) SampleGoal(rng *rand.Rand) float64 {
	if len(s.goal) == 0 {
		return 0
	}
	v := s.goal[0]
	s.goal = s.goal[1:]
	return v
}

// fakeUserGoal reports goal membership by a fixed threshold distance from
// Target.
type fakeUserGoal struct {
	Target float64
	Radius float64
}

func (g fakeUserGoal) GoalReachedProbability(state *PlanningState[float64]) float64 {
	if len(state.Particles) == 0 {
		if g.GoalReached(state.Expectation) {
			return 1
		}
		return 0
	}
	hit := 0
	for _, p := range state.Particles {
		if g.GoalReached(p) {
			hit++
		}
	}
	return float64(hit) / float64(len(state.Particles))
}

func (g fakeUserGoal) GoalReached(c float64) bool {
	return absFloat(c-g.Target) <= g.Radius
}
