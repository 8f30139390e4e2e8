package plan

import (
	"runtime"
	"sync"
)

// nnCandidate is a thread-local best-so-far result used by the fork-join
// reduction in nearestNeighbor.
type nnCandidate struct {
	index int
	dist  float64
}

// nearestNeighbor performs a blacklist-honoring linear scan over the tree,
// parallelized as a fork-join region: the node range is partitioned into
// GOMAXPROCS shards, each reduced to a thread-local best candidate by its
// own goroutine, and the shards are merged by the caller once every
// goroutine finishes -- the only suspension point in the search, matching
// the OpenMP parallel-reduction region described in the design notes.
// Ties break toward the earliest insertion index. Returns -1 if no node
// has UseForNN set.
func nearestNeighbor[C any](rm RobotModel[C], tree *Tree[C], target *PlanningState[C], stepSize, alphaFeas, alphaVar float64) int {
	n := len(tree.Nodes)
	if n == 0 {
		return -1
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	shard := (n + workers - 1) / workers
	results := make([]nnCandidate, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		lo := w * shard
		hi := lo + shard
		if hi > n {
			hi = n
		}
		if lo >= hi {
			results[w] = nnCandidate{index: -1}
			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			best := nnCandidate{index: -1}
			for i := lo; i < hi; i++ {
				node := tree.Nodes[i]
				if !node.State.UseForNN {
					continue
				}
				d := distance(rm, node.State, target, stepSize, alphaFeas, alphaVar)
				if best.index == -1 || d < best.dist {
					best = nnCandidate{index: i, dist: d}
				}
			}
			results[w] = best
		}(w, lo, hi)
	}
	wg.Wait()

	best := nnCandidate{index: -1}
	for _, r := range results {
		if r.index == -1 {
			continue
		}
		if best.index == -1 || r.dist < best.dist || (r.dist == best.dist && r.index < best.index) {
			best = r
		}
	}
	return best.index
}
