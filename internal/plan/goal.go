package plan

// checkGoal evaluates the user goal function at idx and reports whether a
// goal event occurred: goal_p(S) * motion_p(S) has crossed the configured
// threshold.
func (p *Planner[C]) checkGoal(idx int) bool {
	state := p.tree.Nodes[idx].State
	state.GoalP = p.Goal.GoalReachedProbability(state)
	return state.GoalP*state.MotionP >= p.Config.GoalProbabilityThreshold-1e-10
}

// onGoalEvent handles a newly discovered goal state: blacklist the goal
// branch root, then back-propagate goal probability up to the root.
func (p *Planner[C]) onGoalEvent(idx int) error {
	root, err := p.findBranchRoot(idx)
	if err != nil {
		p.Log.Log(1, "goal branch root resolved to tree root, ignoring blacklist", map[string]any{"state_id": p.tree.Nodes[idx].State.StateID})
	} else {
		p.blacklistSubtree(root)
	}
	return p.backpropagateGoal(idx)
}

// isBranchRootCandidate reports whether idx is itself, or is the topmost
// node of, the smallest subtree that must be blacklisted now that a goal
// was discovered beneath it: its parent is the root, its incoming
// transition has low edge probability, or it is one option of a split
// whose parent hasn't already resolved.
func (p *Planner[C]) isBranchRootCandidate(idx int) bool {
	node := p.tree.Nodes[idx]
	if node.ParentIndex == -1 {
		return false
	}
	if node.ParentIndex == 0 {
		return true
	}
	if node.State.EffectiveEdgeP < p.Config.GoalProbabilityThreshold {
		return true
	}
	if p.isChildOfUnresolvedSplit(idx) {
		return true
	}
	return false
}

// isChildOfUnresolvedSplit reports whether idx shares a transition id with
// a still-searchable sibling under a parent that hasn't already reached
// goal_p 1.0. A parent whose goal_p has already reached 1.0 is resolved --
// there is nothing left to gain by keeping a sibling branch open -- so
// this returns false in that case.
func (p *Planner[C]) isChildOfUnresolvedSplit(idx int) bool {
	node := p.tree.Nodes[idx]
	if node.State.SplitID == 0 {
		return false
	}
	parent := p.tree.Nodes[node.ParentIndex]
	if parent.State.GoalP >= 1.0 {
		return false
	}
	tid := node.State.TransitionID
	for _, c := range parent.ChildIndices {
		if c == idx {
			continue
		}
		sibling := p.tree.Nodes[c]
		if sibling.State.TransitionID == tid && sibling.State.UseForNN {
			return true
		}
	}
	return false
}

// findBranchRoot walks from idx toward the root (iteratively, to avoid
// recursion depth tracking tree depth) and returns the first node
// satisfying isBranchRootCandidate. If no such node exists before the
// root is reached, it returns an InvalidArgument: the caller tried to
// blacklist at the tree root, which is logged and ignored rather than
// treated as fatal.
func (p *Planner[C]) findBranchRoot(idx int) (int, error) {
	cur := idx
	for {
		if p.tree.Nodes[cur].ParentIndex == -1 {
			return -1, newInvalidArgument("findBranchRoot", "walked to tree root without finding a branch root")
		}
		if p.isBranchRootCandidate(cur) {
			return cur, nil
		}
		cur = p.tree.Nodes[cur].ParentIndex
	}
}

// blacklistSubtree clears UseForNN on idx and every descendant,
// iteratively.
func (p *Planner[C]) blacklistSubtree(idx int) {
	for _, d := range p.tree.Descendants(idx) {
		p.tree.Nodes[d].State.UseForNN = false
	}
}

// backpropagateGoal recomputes goal_p for every ancestor of idx, nearest
// first, relying on the tree's ascending-index ordering for a single pass
// to suffice. It aborts and surfaces an InvariantViolation the moment any
// ancestor's recomputed probability falls outside the [0, 1.001] slack
// window.
func (p *Planner[C]) backpropagateGoal(idx int) error {
	cur := p.tree.Nodes[idx].ParentIndex
	for cur != -1 {
		g, err := p.computeGoalP(cur)
		if err != nil {
			return err
		}
		p.tree.Nodes[cur].State.GoalP = g
		cur = p.tree.Nodes[cur].ParentIndex
	}
	return nil
}

// computeGoalP groups idx's children by transition id, computes each
// group's goal probability via groupGoalP, and takes the max across
// groups.
func (p *Planner[C]) computeGoalP(idx int) (float64, error) {
	node := p.tree.Nodes[idx]
	if len(node.ChildIndices) == 0 {
		return node.State.GoalP, nil
	}

	groups := make(map[TransitionID][]int)
	var order []TransitionID
	for _, c := range node.ChildIndices {
		tid := p.tree.Nodes[c].State.TransitionID
		if _, ok := groups[tid]; !ok {
			order = append(order, tid)
		}
		groups[tid] = append(groups[tid], c)
	}

	best := 0.0
	for _, tid := range order {
		g, err := p.groupGoalP(groups[tid])
		if err != nil {
			return 0, err
		}
		if g > best {
			best = g
		}
	}
	return best, nil
}

// groupGoalP computes the goal probability of a single transition's split
// options. A non-split transition short-circuits to EffectiveEdgeP*GoalP
// (the only term the retry loop below would produce with no other sibling
// to bounce off of). A real split re-derives, per sibling and over K
// rounds of the same retry schedule used to assign edge probabilities, the
// probability that sibling's own particles reach the goal directly plus
// the probability that particles which ended up at an independent
// co-sibling and failed to reverse reach the goal from there; dependent
// siblings' totals are then summed and independent siblings' totals are
// maxed. Any total landing outside the [0, 1.001] slack window is a fatal
// invariant violation, surfaced rather than silently clamped.
func (p *Planner[C]) groupGoalP(members []int) (float64, error) {
	if len(members) == 1 {
		st := p.tree.Nodes[members[0]].State
		total, _, err := clampSlack("groupGoalP", st.EffectiveEdgeP*st.GoalP)
		if err != nil {
			return 0, err
		}
		return total, nil
	}

	k := p.Config.EdgeAttemptCount

	var depSum, indepMax float64
	for _, m := range members {
		self := p.tree.Nodes[m].State

		var weReachedGoal, othersReachedGoal float64
		percentActive := 1.0
		for round := 0; round < k; round++ {
			reached := percentActive * self.RawEdgeP
			weReachedGoal += reached * self.GoalP

			var updatedPercentActive float64
			for _, o := range members {
				if o == m {
					continue
				}
				other := p.tree.Nodes[o].State
				if !other.ActionIndependent {
					continue
				}
				reachedOther := percentActive * other.RawEdgeP
				stuckAtOther := reachedOther * (1 - other.ReverseEdgeP)
				othersReachedGoal += stuckAtOther * other.GoalP
				updatedPercentActive += reachedOther * other.ReverseEdgeP
			}
			percentActive = updatedPercentActive
		}

		reachedGoal, _, err := clampSlack("groupGoalP", weReachedGoal+othersReachedGoal)
		if err != nil {
			return 0, err
		}

		if self.ActionIndependent {
			if reachedGoal > indepMax {
				indepMax = reachedGoal
			}
		} else {
			depSum += reachedGoal
		}
	}

	total, _, err := clampSlack("groupGoalP", depSum+indepMax)
	if err != nil {
		return 0, err
	}
	return total, nil
}
