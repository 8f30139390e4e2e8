package examplesim

import "github.com/orbital-robotics/uncplan/internal/plan"

// DistanceGoal implements plan.UserGoal[Point]: a state is "at goal" with
// probability equal to the fraction of its particles within Radius of
// Target, and a single configuration is at goal when it is within Radius.
type DistanceGoal struct {
	Robot  PointRobot
	Target Point
	Radius float64
}

// GoalReachedProbability implements plan.UserGoal.
func (g DistanceGoal) GoalReachedProbability(state *plan.PlanningState[Point]) float64 {
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

// GoalReached implements plan.UserGoal.
func (g DistanceGoal) GoalReached(c Point) bool {
	return g.Robot.Distance(c, g.Target) <= g.Radius
}
