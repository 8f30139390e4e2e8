package examplesim

import (
	"math/rand"

	"github.com/orbital-robotics/uncplan/internal/plan"
)

// NoisySimulator implements plan.Simulator[Point]: each particle moves to
// the target perturbed by additive Gaussian noise. A particle whose noisy
// end point lies in collision stays at its starting configuration and is
// reported with DidContact set; no contact point along the motion is
// computed. allowContacts only decides whether such outcomes are counted
// in the "contacts" statistic.
type NoisySimulator struct {
	Robot     PointRobot
	Workspace *Workspace
	NoiseStd  float64

	rng   *rand.Rand
	stats map[string]float64
}

// NewNoisySimulator seeds a NoisySimulator with its own *rand.Rand, per
// the Simulator.Rng contract: the planner never seeds collaborators'
// randomness itself.
func NewNoisySimulator(ws *Workspace, noiseStd float64, seed int64) *NoisySimulator {
	return &NoisySimulator{
		Workspace: ws,
		NoiseStd:  noiseStd,
		rng:       rand.New(rand.NewSource(seed)),
		stats:     make(map[string]float64),
	}
}

// Rng implements plan.Simulator.
func (s *NoisySimulator) Rng() *rand.Rand { return s.rng }

// CheckCollision implements plan.Simulator.
func (s *NoisySimulator) CheckCollision(c Point) bool { return s.Workspace.CheckCollision(c) }

// ResetStatistics implements plan.Simulator.
func (s *NoisySimulator) ResetStatistics() { s.stats = make(map[string]float64) }

// GetStatistics implements plan.Simulator.
func (s *NoisySimulator) GetStatistics() map[string]float64 {
	out := make(map[string]float64, len(s.stats))
	for k, v := range s.stats {
		out[k] = v
	}
	return out
}

func (s *NoisySimulator) step(from, target Point) Point {
	out := Point{Dims: make([]float64, from.dim())}
	for i := range from.Dims {
		out.Dims[i] = target.Dims[i] + s.rng.NormFloat64()*s.NoiseStd
	}
	return out
}

func (s *NoisySimulator) simulate(counter string, particles []Point, target Point, allowContacts bool) ([]plan.SimulationResult[Point], error) {
	s.stats[counter]++
	results := make([]plan.SimulationResult[Point], len(particles))
	for i, p := range particles {
		moved := s.step(p, target)
		contact := s.Workspace.CheckCollision(moved)
		if contact {
			if !allowContacts {
				results[i] = plan.SimulationResult[Point]{ResultConfig: p, ActualTarget: target, DidContact: true, OutcomeIndependent: true}
				continue
			}
			s.stats["contacts"]++
			results[i] = plan.SimulationResult[Point]{ResultConfig: p, ActualTarget: target, DidContact: true, OutcomeIndependent: true}
			continue
		}
		results[i] = plan.SimulationResult[Point]{ResultConfig: moved, ActualTarget: target, DidContact: false, OutcomeIndependent: true}
	}
	return results, nil
}

// ForwardSimulate implements plan.Simulator.
func (s *NoisySimulator) ForwardSimulate(particles []Point, target Point, allowContacts bool) ([]plan.SimulationResult[Point], error) {
	return s.simulate("forward_calls", particles, target, allowContacts)
}

// ReverseSimulate implements plan.Simulator. It reuses the same noise
// model as ForwardSimulate -- the point robot's motion noise has no
// direction dependence.
func (s *NoisySimulator) ReverseSimulate(particles []Point, target Point, allowContacts bool) ([]plan.SimulationResult[Point], error) {
	return s.simulate("reverse_calls", particles, target, allowContacts)
}

// ResampleParticles implements plan.Simulator by bootstrap-resampling n
// particles from the existing set with replacement, jittering each draw
// by the same noise model used for motion so repeated resampling doesn't
// collapse the set onto a handful of point masses.
func (s *NoisySimulator) ResampleParticles(particles []Point, n int) []Point {
	if len(particles) == 0 {
		return nil
	}
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		base := particles[s.rng.Intn(len(particles))]
		out[i] = s.step(base, base)
	}
	return out
}
