package examplesim

import (
	"github.com/orbital-robotics/uncplan/internal/plan"
)

// RadiusClustering implements plan.Clustering[Point] with single-link
// clustering by Euclidean distance: two results join the same cluster
// when some already-clustered member lies within Radius. Contact and
// non-contact outcomes never share a cluster, since they represent
// distinct physical events.
type RadiusClustering struct {
	Robot  PointRobot
	Radius float64
}

// ClusterParticles implements plan.Clustering.
func (c RadiusClustering) ClusterParticles(parentParticles []Point, results []plan.SimulationResult[Point]) ([][]int, error) {
	var clean, contact []int
	for i, r := range results {
		if r.DidContact {
			contact = append(contact, i)
		} else {
			clean = append(clean, i)
		}
	}

	var out [][]int
	if len(clean) > 0 {
		out = append(out, c.singleLink(results, clean)...)
	}
	if len(contact) > 0 {
		out = append(out, c.singleLink(results, contact)...)
	}
	return out, nil
}

// singleLink partitions the given result indices by single-link
// clustering on ResultConfig distance.
func (c RadiusClustering) singleLink(results []plan.SimulationResult[Point], indices []int) [][]int {
	n := len(indices)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := c.Robot.Distance(results[indices[i]].ResultConfig, results[indices[j]].ResultConfig)
			if d <= c.Radius {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		r := find(i)
		groups[r] = append(groups[r], indices[i])
	}

	out := make([][]int, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	return out
}

// IdentifyClusterMembers implements plan.Clustering: a result belongs to
// the parent cluster when its ResultConfig lies within Radius of any
// particle in parentParticles.
func (c RadiusClustering) IdentifyClusterMembers(parentParticles []Point, results []plan.SimulationResult[Point]) ([]bool, error) {
	out := make([]bool, len(results))
	for i, r := range results {
		for _, pp := range parentParticles {
			if c.Robot.Distance(r.ResultConfig, pp) <= c.Radius {
				out[i] = true
				break
			}
		}
	}
	return out, nil
}
