package plan

import (
	"container/heap"
	"math"
)

// virtualGoalIndex is the sentinel policy-graph node index representing
// the synthetic goal sink. It is -1, outside the range of every
// pruned-tree index.
const virtualGoalIndex = -1

// PolicyEdge is one forward or reverse edge of the policy graph.
type PolicyEdge struct {
	To     int // pruned-tree index, or virtualGoalIndex
	Weight float64
	Reverse bool
}

// PolicyGraph is a directed graph with one node per pruned state plus a
// synthetic virtual-goal sink, forward and reverse edges between states,
// and a previous-hop pointer computed by a shortest-expected-cost pass
// run from every node to the virtual goal.
type PolicyGraph[C any] struct {
	Tree *Tree[C]

	// Edges[i] lists every outgoing edge from pruned-tree index i.
	Edges [][]PolicyEdge

	// PreviousIndex[i] is the successor hop along the shortest policy
	// path from i to the virtual goal: virtualGoalIndex when that path is
	// i's own direct goal edge, otherwise the next tree index on the path.
	// No entry, the root's included, is its own index.
	PreviousIndex []int

	// Cost[i] is the shortest expected cost (sum of edge weights) from i
	// to the virtual goal.
	Cost []float64
}

const policyEpsilon = 1e-9

func edgeWeight(p float64) float64 {
	if p <= 0 {
		return math.Inf(1)
	}
	return -math.Log(p) + policyEpsilon
}

// ExtractPolicyGraph builds a PolicyGraph from a pruned, validated tree.
func ExtractPolicyGraph[C any](t *Tree[C], goalThreshold float64) (*PolicyGraph[C], error) {
	n := t.Len()
	edges := make([][]PolicyEdge, n)
	// reverseAdj[to] lists edges pointing at `to`, used to run Dijkstra
	// from the virtual goal backward rather than once per node.
	reverseAdj := make(map[int][]PolicyEdge)

	addEdge := func(from int, e PolicyEdge) {
		edges[from] = append(edges[from], e)
		reverseAdj[e.To] = append(reverseAdj[e.To], PolicyEdge{To: from, Weight: e.Weight, Reverse: e.Reverse})
	}

	for i, node := range t.Nodes {
		for _, c := range node.ChildIndices {
			child := t.Nodes[c].State
			addEdge(i, PolicyEdge{To: c, Weight: edgeWeight(child.EffectiveEdgeP)})
			addEdge(c, PolicyEdge{To: i, Weight: edgeWeight(child.ReverseEdgeP), Reverse: true})
		}
		if math.Abs(node.State.GoalP) >= goalThreshold {
			addEdge(i, PolicyEdge{To: virtualGoalIndex, Weight: edgeWeight(math.Abs(node.State.GoalP))})
		}
	}

	if len(reverseAdj[virtualGoalIndex]) == 0 {
		// No state reaches the goal threshold -- e.g. the planner
		// terminated at its time limit with zero goal probability (spec
		// section 8, scenario 6). There is no feasible policy; report an
		// empty one rather than failing a reachability invariant that
		// was never supposed to hold in the first place.
		return &PolicyGraph[C]{Tree: t}, nil
	}

	cost, prev, err := dijkstraFromGoal(n, reverseAdj)
	if err != nil {
		return nil, err
	}

	return &PolicyGraph[C]{
		Tree:          t,
		Edges:         edges,
		PreviousIndex: prev,
		Cost:          cost,
	}, nil
}

type dijkstraItem struct {
	node int
	dist float64
}

type dijkstraHeap []dijkstraItem

func (h dijkstraHeap) Len() int            { return len(h) }
func (h dijkstraHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h dijkstraHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *dijkstraHeap) Push(x any)         { *h = append(*h, x.(dijkstraItem)) }
func (h *dijkstraHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// dijkstraFromGoal runs Dijkstra seeded at the virtual goal over the
// reverse adjacency, which is equivalent to running it from every node
// forward to the goal but in one pass. The open set is a container/heap
// min-priority queue keyed on tentative distance.
func dijkstraFromGoal(n int, reverseAdj map[int][]PolicyEdge) ([]float64, []int, error) {
	dist := make(map[int]float64)
	prev := make(map[int]int)
	dist[virtualGoalIndex] = 0

	h := &dijkstraHeap{{node: virtualGoalIndex, dist: 0}}
	heap.Init(h)

	visited := make(map[int]bool)
	for h.Len() > 0 {
		cur := heap.Pop(h).(dijkstraItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true

		for _, e := range reverseAdj[cur.node] {
			nd := cur.dist + e.Weight
			if existing, ok := dist[e.To]; !ok || nd < existing {
				dist[e.To] = nd
				prev[e.To] = cur.node
				heap.Push(h, dijkstraItem{node: e.To, dist: nd})
			}
		}
	}

	cost := make([]float64, n)
	previous := make([]int, n)
	for i := 0; i < n; i++ {
		d, ok := dist[i]
		if !ok {
			return nil, nil, newInvariantViolation("dijkstraFromGoal", "pruned-tree index %d is unreachable from the virtual goal", i)
		}
		cost[i] = d
		hop, ok := prev[i]
		if !ok {
			return nil, nil, newInvariantViolation("dijkstraFromGoal", "pruned-tree index %d has no recorded predecessor hop", i)
		}
		previous[i] = hop
	}
	return cost, previous, nil
}
