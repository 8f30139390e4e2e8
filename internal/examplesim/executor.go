package examplesim

import "math/rand"

// SimExecutor implements plan.Executor[Point] by replaying the same
// noise model NoisySimulator uses during planning, standing in for a
// real robot during closed-loop policy execution.
type SimExecutor struct {
	Robot    PointRobot
	NoiseStd float64
	rng      *rand.Rand

	position Point
}

// NewSimExecutor seeds a SimExecutor with its own randomness, independent
// of whatever Simulator the Planner used.
func NewSimExecutor(noiseStd float64, seed int64) *SimExecutor {
	return &SimExecutor{NoiseStd: noiseStd, rng: rand.New(rand.NewSource(seed))}
}

// Move implements plan.Executor. isReset snaps the tracked position to
// current without perturbation; otherwise it takes one noisy step toward
// expectedResult and returns the single-element trajectory, matching the
// interface the planner's execution loop expects move_fn to satisfy.
func (e *SimExecutor) Move(current, action, expectedResult Point, isReverse, isReset bool) ([]Point, error) {
	if isReset {
		e.position = current
		return []Point{current}, nil
	}
	next := Point{Dims: make([]float64, expectedResult.dim())}
	for i := range expectedResult.Dims {
		next.Dims[i] = expectedResult.Dims[i] + e.rng.NormFloat64()*e.NoiseStd
	}
	e.position = next
	return []Point{next}, nil
}
