package plan

import "time"

// propagateOnce resamples the parent's particle set, invokes the forward simulator,
// clusters the outcomes into distinct child states, estimates reverse-edge
// probability where required, and -- for a split -- runs the child set
// through retryArithmetic to assign effective edge probabilities.
//
// It returns the indices of every child appended to the tree. An empty,
// nil-error result means the attempt made no progress (zero particles, or
// every cluster came back empty) and the planner loop should simply try
// again.
func (p *Planner[C]) propagateOnce(parentIdx int, target C) ([]int, error) {
	parent := p.tree.Nodes[parentIdx].State

	particles := p.resample(parent.Particles)

	simStart := time.Now()
	results, err := p.Sim.ForwardSimulate(particles, target, p.Config.AllowContacts)
	p.stats.SimulateDuration += time.Since(simStart)
	if err != nil {
		return nil, newExternalFailure("propagateOnce", "forward simulate: %v", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	clusterStart := time.Now()
	clusters, err := p.Cluster.ClusterParticles(particles, results)
	p.stats.ClusterDuration += time.Since(clusterStart)
	if err != nil {
		return nil, newExternalFailure("propagateOnce", "cluster particles: %v", err)
	}
	if len(clusters) == 0 {
		return nil, newExternalFailure("propagateOnce", "clustering returned no partitions for %d results", len(results))
	}

	forwardTID := p.nextTransitionID()
	isSplit := nonEmptyClusterCount(clusters) > 1
	var splitID SplitID
	if isSplit {
		splitID = p.nextSplitID()
	}

	type built struct {
		idx     int
		sibling RetrySibling
	}
	var children []built

	for _, members := range clusters {
		if len(members) == 0 {
			continue
		}
		childParticles := make([]C, len(members))
		hasContact := false
		independent := true
		for i, m := range members {
			childParticles[i] = results[m].ResultConfig
			if results[m].DidContact {
				hasContact = true
			}
			if !results[m].OutcomeIndependent {
				independent = false
			}
		}

		state := &PlanningState[C]{
			StateID:           p.nextStateID(),
			Command:           target,
			Particles:         childParticles,
			Expectation:       particleExpectation(p.Robot, childParticles),
			RawEdgeP:          float64(len(members)) / float64(len(results)),
			TransitionID:      forwardTID,
			SplitID:           splitID,
			ActionIndependent: independent,
			UseForNN:          true,
			VarianceScalar:    varianceScalar(p.Robot, childParticles),
		}

		needsReverse := len(results) > 1 && (hasContact || isSplit)
		if !needsReverse {
			state.ReverseEdgeP = 1.0
		} else if p.Config.IncludeReverseActions {
			reached, attempted, err := p.estimateReverse(parent, state)
			if err != nil {
				return nil, err
			}
			if attempted == 0 {
				state.ReverseEdgeP = 0.0
			} else {
				state.ReverseEdgeP = float64(reached) / float64(attempted)
			}
		} else {
			// No reverse evidence gathered: treat as non-reversible rather
			// than overestimate retry feasibility.
			state.ReverseEdgeP = 0.0
		}
		state.NewReverseTransitionID = p.nextTransitionID()

		childIdx := p.tree.Append(parentIdx, state)
		children = append(children, built{idx: childIdx, sibling: RetrySibling{
			Raw:         state.RawEdgeP,
			Reverse:     state.ReverseEdgeP,
			Independent: state.ActionIndependent,
		}})
	}

	if len(children) == 0 {
		return nil, nil
	}

	if isSplit {
		siblings := make([]RetrySibling, len(children))
		for i, c := range children {
			siblings[i] = c.sibling
		}
		effective, warned, err := retryArithmetic(siblings, p.Config.EdgeAttemptCount)
		if err != nil {
			return nil, err
		}
		for i, c := range children {
			st := p.tree.Nodes[c.idx].State
			st.EffectiveEdgeP = effective[i]
			if warned[i] {
				p.Log.Log(1, "effective edge probability clamped to 1.0", map[string]any{"state_id": st.StateID})
			}
		}
	} else {
		st := p.tree.Nodes[children[0].idx].State
		st.EffectiveEdgeP = st.RawEdgeP
	}

	indices := make([]int, len(children))
	for i, c := range children {
		st := p.tree.Nodes[c.idx].State
		st.MotionP = parent.MotionP * st.EffectiveEdgeP
		indices[i] = c.idx
	}
	return indices, nil
}

// estimateReverse runs the simulator in reverse from a child cluster
// toward the parent's expectation and clusters the result against the
// parent's particle set.
func (p *Planner[C]) estimateReverse(parent *PlanningState[C], child *PlanningState[C]) (reached, attempted int, err error) {
	simStart := time.Now()
	results, err := p.Sim.ReverseSimulate(child.Particles, parent.Expectation, p.Config.AllowContacts)
	p.stats.SimulateDuration += time.Since(simStart)
	if err != nil {
		return 0, 0, newExternalFailure("estimateReverse", "reverse simulate: %v", err)
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	members, err := p.Cluster.IdentifyClusterMembers(parent.Particles, results)
	if err != nil {
		return 0, 0, newExternalFailure("estimateReverse", "identify cluster members: %v", err)
	}
	for _, belongs := range members {
		if belongs {
			reached++
		}
	}
	return reached, len(results), nil
}

// resample grows or shrinks particles to the configured particle count,
// leaving it untouched when NumParticles is 0 (dynamic) or already a match.
func (p *Planner[C]) resample(particles []C) []C {
	n := p.Config.NumParticles
	if n == 0 || n == len(particles) {
		return particles
	}
	return p.Sim.ResampleParticles(particles, n)
}

func nonEmptyClusterCount(clusters [][]int) int {
	count := 0
	for _, c := range clusters {
		if len(c) > 0 {
			count++
		}
	}
	return count
}

// varianceScalar approximates the L1 norm of per-dimension,
// space-independent variance with a robot-model-distance surrogate: the
// mean squared distance of each particle from the cluster's expectation.
// A true per-dimension decomposition is unavailable for an opaque
// configuration type, so this scalar proxy -- built from the one
// operation every RobotModel must supply -- stands in for it.
func varianceScalar[C any](rm RobotModel[C], particles []C) float64 {
	if len(particles) < 2 {
		return 0
	}
	mean := particleExpectation(rm, particles)
	var sum float64
	for _, pt := range particles {
		d := rm.Distance(mean, pt)
		sum += d * d
	}
	return sum / float64(len(particles))
}
