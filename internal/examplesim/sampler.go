package examplesim

import "math/rand"

// UniformSampler implements plan.Sampler[Point] by rejection-sampling
// the workspace box against its obstacle list.
type UniformSampler struct {
	Workspace *Workspace
	Goal      Point
	GoalRadius float64
}

// Sample draws a collision-free configuration uniformly from the
// workspace bounds.
func (s UniformSampler) Sample(rng *rand.Rand) Point {
	for {
		p := s.drawUniform(rng)
		if !s.Workspace.CheckCollision(p) {
			return p
		}
	}
}

// SampleGoal draws a configuration uniformly from the axis-aligned box of
// half-width GoalRadius around Goal, retrying until it is collision-free.
// Box corners lie farther than GoalRadius from Goal.
func (s UniformSampler) SampleGoal(rng *rand.Rand) Point {
	for {
		p := Point{Dims: make([]float64, s.Goal.dim())}
		for i := range p.Dims {
			p.Dims[i] = s.Goal.Dims[i] + (rng.Float64()*2-1)*s.GoalRadius
		}
		if !s.Workspace.CheckCollision(p) {
			return p
		}
	}
}

func (s UniformSampler) drawUniform(rng *rand.Rand) Point {
	p := Point{Dims: make([]float64, s.Workspace.Min.dim())}
	for i := range p.Dims {
		lo, hi := s.Workspace.Min.Dims[i], s.Workspace.Max.Dims[i]
		p.Dims[i] = lo + rng.Float64()*(hi-lo)
	}
	return p
}
