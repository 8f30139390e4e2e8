package plan

import "time"

// Config collects the tunables recognized by the planner, following a
// plain struct-plus-constructor pattern rather than a config file loader.
type Config struct {
	// NumParticles is the particle-set size used when resampling at each
	// expansion. 0 means dynamic: carry whatever the parent state holds.
	NumParticles int

	StepSize               float64
	GoalDistanceThreshold  float64
	GoalProbabilityThreshold float64

	// GoalBias is the probability of sampling a goal configuration instead
	// of a free one on each expansion attempt.
	GoalBias float64

	FeasibilityAlpha float64
	VarianceAlpha    float64

	ConnectAfterFirstSolution float64

	// EdgeAttemptCount is K, the retry-arithmetic attempt budget.
	EdgeAttemptCount int

	// PolicyActionAttemptCount is carried in the configuration but read by
	// nothing in this package: SimulateExecutionPolicy takes no Config and
	// bounds execution only by its maxSteps argument, without per-action
	// retries.
	PolicyActionAttemptCount int

	AllowContacts        bool
	IncludeReverseActions bool
	IncludeSpurActions    bool

	TimeLimit                  time.Duration
	PGoalTerminationThreshold  float64

	// MaxExpansionAttempts bounds planning by attempt count instead of
	// wall clock; 0 means unlimited. Useful for deterministic tests that
	// should not depend on a clock.
	MaxExpansionAttempts int

	// DebugLevel 0 is silent; >=1 logs planner-loop progress; >=2 also
	// re-validates tree linkage after every expansion.
	DebugLevel int
}

// DefaultConfig returns sane defaults for every tunable.
func DefaultConfig() Config {
	return Config{
		NumParticles:              0,
		StepSize:                  1.0,
		GoalDistanceThreshold:     0.1,
		GoalBias:                  0.1,
		GoalProbabilityThreshold:  0.51,
		FeasibilityAlpha:          0.5,
		VarianceAlpha:             0.5,
		ConnectAfterFirstSolution: 0.5,
		EdgeAttemptCount:          1,
		PolicyActionAttemptCount:  1,
		AllowContacts:             true,
		IncludeReverseActions:     true,
		IncludeSpurActions:        false,
		TimeLimit:                 time.Minute,
		PGoalTerminationThreshold: 1.0,
		MaxExpansionAttempts:      0,
		DebugLevel:                0,
	}
}
