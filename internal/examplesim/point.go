// Package examplesim is a reference RobotModel/Simulator/Clustering
// implementation for a point robot moving in an N-dimensional workspace
// under additive Gaussian motion noise. It exists to exercise every
// plan.* collaborator interface end to end against a concrete workspace.
package examplesim

// Point is a position in an N-dimensional workspace, the configuration
// type this package's collaborators operate on. Dims are kept in a slice
// rather than fixed X/Y/Z fields so the same simulator serves 1D, 2D, and
// 3D scenarios.
type Point struct {
	Dims []float64
}

// NewPoint builds a Point from coordinates.
func NewPoint(coords ...float64) Point {
	return Point{Dims: append([]float64(nil), coords...)}
}

func (p Point) dim() int { return len(p.Dims) }
