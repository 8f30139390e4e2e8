package plan

// stepToward returns the next interpolation step from cur toward target,
// bounded by stepSize, and whether that step reaches target outright.
func stepToward[C any](rm RobotModel[C], cur, target C, stepSize float64) (C, bool) {
	d := rm.Distance(cur, target)
	if d <= stepSize {
		return target, true
	}
	return rm.Interpolate(cur, target, stepSize/d), false
}

// expandExtend implements RRT-Extend: a single interpolated step from
// nearest toward target.
func (p *Planner[C]) expandExtend(nearestIdx int, target C) ([]int, error) {
	nearest := p.tree.Nodes[nearestIdx].State
	step, _ := stepToward(p.Robot, nearest.Expectation, target, p.Config.StepSize)
	return p.propagateOnce(nearestIdx, step)
}

// expandConnect implements RRT-Connect: repeated steps toward target,
// continuing while each step yields exactly one child cluster, stopping
// on a split or once the target is reached.
func (p *Planner[C]) expandConnect(nearestIdx int, target C) ([]int, error) {
	cur := nearestIdx
	var produced []int
	for {
		curState := p.tree.Nodes[cur].State
		step, reached := stepToward(p.Robot, curState.Expectation, target, p.Config.StepSize)
		indices, err := p.propagateOnce(cur, step)
		if err != nil {
			return produced, err
		}
		produced = append(produced, indices...)
		if len(indices) != 1 {
			break
		}
		cur = indices[0]
		if reached {
			break
		}
		if p.Robot.Distance(p.tree.Nodes[cur].State.Expectation, target) <= p.Config.GoalDistanceThreshold {
			break
		}
	}
	return produced, nil
}
