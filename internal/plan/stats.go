package plan

import (
	"time"

	"github.com/google/uuid"
)

// Statistics reports a plan run's outcome and timing as named fields
// rather than a generic map -- Custom is the escape hatch for whatever the
// injected Simulator additionally reports via GetStatistics.
type Statistics struct {
	PlanID uuid.UUID

	PGoalReached         float64
	TimeToFirstSolution  time.Duration
	SimulateDuration     time.Duration
	ClusterDuration      time.Duration
	TreeSize             int
	PolicySize           int
	ExpansionAttempts    int

	Custom map[string]float64
}

// ExecutionResult reports the outcome of one SimulateExecutionPolicy run.
type ExecutionResult[C any] struct {
	ExecutionID uuid.UUID

	// Steps is the number of executed policy steps: >=0 on success,
	// negated on failure.
	Steps int

	// Trace is the full (config, action, is_reverse) sequence, kept for
	// offline analysis.
	Trace []ExecutionStep[C]
}

// ExecutionStep is one entry of an execution trace.
type ExecutionStep[C any] struct {
	Config    C
	Action    C
	IsReverse bool
}
