package plan

// StateID is a unique, monotonic identifier assigned within one plan.
type StateID int64

// TransitionID identifies the forward action that produced a state.
// Siblings born from the same split share a TransitionID.
type TransitionID int64

// SplitID is shared among siblings of one split; zero means the incoming
// action produced exactly one child.
type SplitID int64

// PlanningState is a discrete posterior (a particle set) plus the
// statistics derived from how it was reached.
//
// States are created once -- at expansion time or policy-extraction time --
// and mutated only during back-propagation: GoalP, EffectiveEdgeP, and
// UseForNN are the only fields ever written after construction.
type PlanningState[C any] struct {
	StateID StateID

	// Command is the nominal control input -- the target C the producing
	// action was attempting.
	Command C

	// Expectation is the mean configuration of Particles.
	Expectation C

	// Particles is the discrete belief approximation at this state. It may
	// be empty for a sampled target that has not yet been realized.
	Particles []C

	// RawEdgeP is (reached / attempted) particles for the incoming forward
	// action, before retry arithmetic.
	RawEdgeP float64

	// EffectiveEdgeP is the probability of eventually reaching this child
	// under the configured retry schedule. EffectiveEdgeP >= RawEdgeP.
	EffectiveEdgeP float64

	// ReverseEdgeP is reached/attempted particles when attempting to
	// return to the parent.
	ReverseEdgeP float64

	// MotionP is the product of EffectiveEdgeP along the path from the
	// root: the probability of motion feasibility to this state.
	MotionP float64

	// GoalP is P(goal | this state). A negative value encodes "reachable
	// only by reversing to a goal branch" -- see the doc comment on
	// PostProcess.
	GoalP float64

	// VarianceScalar is the L1 norm of the per-dimension,
	// space-independent variances of Particles.
	VarianceScalar float64

	// TransitionID is the forward transition that produced this state.
	TransitionID TransitionID

	// NewReverseTransitionID identifies the back edge from this state to
	// its parent.
	NewReverseTransitionID TransitionID

	// SplitID is shared among siblings of one split; zero otherwise.
	SplitID SplitID

	// ActionIndependent reports whether retry outcomes at this state are
	// statistically independent of its siblings'.
	ActionIndependent bool

	// UseForNN is the nearest-neighbor blacklist bit. Goal-branch
	// blacklisting clears it on solved subtrees to force exploration
	// elsewhere.
	UseForNN bool
}

// particleExpectation averages particles with the robot model's
// interpolation: it keeps a running mean, moving it toward the i-th
// particle (0-based) by t=1/(i+1), which is exact for configuration spaces
// where interpolation is affine and a reasonable mean surrogate otherwise
// -- C is an opaque type with no arithmetic of its own, so interpolation is
// the only averaging primitive available.
func particleExpectation[C any](rm RobotModel[C], particles []C) C {
	mean := particles[0]
	for i := 1; i < len(particles); i++ {
		w := 1.0 / float64(i+1)
		mean = rm.Interpolate(mean, particles[i], w)
	}
	return mean
}
