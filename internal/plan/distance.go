package plan

import "math"

// distance implements a feasibility- and variance-weighted metric:
// d(A,B) = w_feas * d_robot(A.expectation,B.expectation)/step * w_var.
//
// w_feas grows as A's motion probability falls and w_var grows with A's
// variance, so low-motion-probability and high-variance nodes look farther
// away and are less likely to be picked as the nearest neighbor;
// alphaFeas/alphaVar in [0,1] tune how strongly. math.Erf gives the normal-CDF identity used to turn the
// raw variance scalar into a weight without pulling in a stats package.
func distance[C any](rm RobotModel[C], a, b *PlanningState[C], stepSize, alphaFeas, alphaVar float64) float64 {
	wFeas := (1-a.MotionP)*alphaFeas + (1 - alphaFeas)
	wVar := math.Erf(a.VarianceScalar)*alphaVar + (1 - alphaVar)
	d := rm.Distance(a.Expectation, b.Expectation)
	if stepSize != 0 {
		d /= stepSize
	}
	return wFeas * d * wVar
}
