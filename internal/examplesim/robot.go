package examplesim

import "math"

// PointRobot implements plan.RobotModel[Point] with straight-line
// Euclidean distance and affine interpolation.
type PointRobot struct{}

// Distance implements plan.RobotModel.
func (PointRobot) Distance(a, b Point) float64 {
	var sumSq float64
	for i := range a.Dims {
		d := a.Dims[i] - b.Dims[i]
		sumSq += d * d
	}
	return math.Sqrt(sumSq)
}

// Interpolate implements plan.RobotModel.
func (PointRobot) Interpolate(a, b Point, t float64) Point {
	out := Point{Dims: make([]float64, a.dim())}
	for i := range a.Dims {
		out.Dims[i] = a.Dims[i] + t*(b.Dims[i]-a.Dims[i])
	}
	return out
}
