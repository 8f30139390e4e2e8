package plan

import "fmt"

// InvariantViolation marks a fatal defect: broken tree linkage, an
// out-of-bounds index, a probability outside [0, 1.001] after numeric
// slack, or a state reached before it was fully initialized. Plan aborts
// and surfaces this error to the caller.
type InvariantViolation struct {
	Where string
	Msg   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Where, e.Msg)
}

func newInvariantViolation(where, format string, args ...any) error {
	return &InvariantViolation{Where: where, Msg: fmt.Sprintf(format, args...)}
}

// InvalidArgument marks a caller error: a goal branch root at the tree
// root during blacklisting (logged and ignored, not fatal), or a nil
// collaborator passed to NewPlanner.
type InvalidArgument struct {
	Where string
	Msg   string
}

func (e *InvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument in %s: %s", e.Where, e.Msg)
}

func newInvalidArgument(where, format string, args ...any) error {
	return &InvalidArgument{Where: where, Msg: fmt.Sprintf(format, args...)}
}

// ExternalFailure marks a collaborator defect: an empty execution
// trajectory or a malformed cluster partition. It terminates only the
// affected action; the planner loop continues.
type ExternalFailure struct {
	Where string
	Msg   string
}

func (e *ExternalFailure) Error() string {
	return fmt.Sprintf("external collaborator failure in %s: %s", e.Where, e.Msg)
}

func newExternalFailure(where, format string, args ...any) error {
	return &ExternalFailure{Where: where, Msg: fmt.Sprintf(format, args...)}
}
