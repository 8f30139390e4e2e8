// Package plan implements an uncertainty-aware sampling-based tree planner.
//
// The planner grows a search tree over probabilistic configuration states,
// propagates action outcomes through a caller-supplied stochastic simulator,
// clusters outcomes into distinct child states, and back-propagates goal
// probability under retry semantics to extract an executable policy graph.
//
// Collaborators (robot kinematics, collision checking, the raw simulator,
// configuration sampling, and particle clustering) are injected as generic
// interfaces rather than closures, so the hot paths (nearest-neighbor search,
// outcome propagation, back-propagation) stay free of heap-dispatched
// function values.
package plan

import "math/rand"

// RobotModel supplies distance and interpolation over the opaque
// configuration type C. It never mutates C.
type RobotModel[C any] interface {
	Distance(a, b C) float64
	Interpolate(a, b C, t float64) C
}

// Sampler draws free and goal configurations. Both must return a
// collision-free configuration; SampleGoal retries internally.
type Sampler[C any] interface {
	Sample(rng *rand.Rand) C
	SampleGoal(rng *rand.Rand) C
}

// SimulationResult is one particle's outcome from a forward or reverse
// simulation call.
type SimulationResult[C any] struct {
	ResultConfig       C
	ActualTarget       C
	DidContact         bool
	OutcomeIndependent bool
}

// Simulator runs the stochastic forward/reverse action model. The planner
// owns no RNG of its own: every random draw it makes (target sampling,
// goal biasing, the Extend/Connect choice) comes from Rng, so the ordering
// of random draws stays deterministic for a fixed thread schedule.
type Simulator[C any] interface {
	ForwardSimulate(particles []C, target C, allowContacts bool) ([]SimulationResult[C], error)
	ReverseSimulate(particles []C, target C, allowContacts bool) ([]SimulationResult[C], error)
	CheckCollision(c C) bool
	ResetStatistics()
	GetStatistics() map[string]float64
	Rng() *rand.Rand

	// ResampleParticles refreshes a particle set to exactly n particles,
	// independent of ForwardSimulate. n == 0 is never passed; callers
	// resolve num_particles == 0 (dynamic) before calling this.
	ResampleParticles(particles []C, n int) []C
}

// Clustering partitions simulation outcomes into distinct child states and
// tests whether a runtime configuration belongs to a parent's cluster.
type Clustering[C any] interface {
	// ClusterParticles partitions results into outcome groups, returned as
	// index sets into results.
	ClusterParticles(parentParticles []C, results []SimulationResult[C]) ([][]int, error)

	// IdentifyClusterMembers reports, per result, whether it belongs to the
	// parent's cluster (used for reverse-edge estimation and for runtime
	// re-localization, see particleBelongsToParent).
	IdentifyClusterMembers(parentParticles []C, results []SimulationResult[C]) ([]bool, error)
}

// UserGoal evaluates goal membership. GoalReachedProbability drives
// back-propagation; GoalReached is used by the closed-loop executor.
type UserGoal[C any] interface {
	GoalReachedProbability(state *PlanningState[C]) float64
	GoalReached(c C) bool
}

// Executor drives the real robot (or a closed-loop simulator standing in
// for it) during policy execution. Move(start, start, start, false, true)
// resets; every subsequent call Move(current, action, expectedResult,
// isReverse, false) executes one policy step and returns the realized
// trajectory.
type Executor[C any] interface {
	Move(current, action, expectedResult C, isReverse, isReset bool) ([]C, error)
}

// Logger is the injected logging collaborator. Level follows Config.DebugLevel:
// 0 is silent, higher values are increasingly verbose.
type Logger interface {
	Log(level int, msg string, fields map[string]any)
}

// NopLogger discards every message. It is the default when no Logger is
// supplied.
type NopLogger struct{}

// Log implements Logger.
func (NopLogger) Log(level int, msg string, fields map[string]any) {}
