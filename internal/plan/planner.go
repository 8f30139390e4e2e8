package plan

import (
	"time"

	"github.com/google/uuid"
)

// Planner owns one tree for the duration of a single Plan call. The
// monotonic id counters live here rather than as process-wide state, per
// the design notes: a process can run many Planners concurrently, each
// with its own counters and tree.
type Planner[C any] struct {
	Config  Config
	Robot   RobotModel[C]
	Sampler Sampler[C]
	Sim     Simulator[C]
	Cluster Clustering[C]
	Goal    UserGoal[C]
	Log     Logger

	tree              *Tree[C]
	stateCounter      StateID
	transitionCounter TransitionID
	splitCounter      SplitID

	totalGoalP         float64
	foundFirstSolution bool
	stats              Statistics
}

// NewPlanner validates its collaborators and returns a Planner ready for
// Plan. A nil collaborator is an InvalidArgument, not a panic -- callers
// are expected to check the returned error rather than guard every field
// themselves.
func NewPlanner[C any](cfg Config, robot RobotModel[C], sampler Sampler[C], sim Simulator[C], cluster Clustering[C], goal UserGoal[C], logger Logger) (*Planner[C], error) {
	if robot == nil {
		return nil, newInvalidArgument("NewPlanner", "robot model is nil")
	}
	if sampler == nil {
		return nil, newInvalidArgument("NewPlanner", "sampler is nil")
	}
	if sim == nil {
		return nil, newInvalidArgument("NewPlanner", "simulator is nil")
	}
	if cluster == nil {
		return nil, newInvalidArgument("NewPlanner", "clustering is nil")
	}
	if goal == nil {
		return nil, newInvalidArgument("NewPlanner", "user goal is nil")
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &Planner[C]{
		Config:  cfg,
		Robot:   robot,
		Sampler: sampler,
		Sim:     sim,
		Cluster: cluster,
		Goal:    goal,
		Log:     logger,
	}, nil
}

func (p *Planner[C]) nextStateID() StateID {
	id := p.stateCounter
	p.stateCounter++
	return id
}

func (p *Planner[C]) nextTransitionID() TransitionID {
	id := p.transitionCounter
	p.transitionCounter++
	return id
}

func (p *Planner[C]) nextSplitID() SplitID {
	p.splitCounter++
	return p.splitCounter
}

// Plan grows the tree from a root state built from rootParticles until a
// termination condition fires, then returns the resulting policy graph
// and statistics.
//
// rootParticles may be empty; the root's Expectation is then rootCommand
// itself and MotionP starts at 1.0.
func (p *Planner[C]) Plan(rootCommand C, rootParticles []C) (*PolicyGraph[C], Statistics, error) {
	planID := uuid.New()
	p.Log.Log(1, "plan started", map[string]any{"plan_id": planID.String()})

	root := &PlanningState[C]{
		StateID:        p.nextStateID(),
		Command:        rootCommand,
		Particles:      rootParticles,
		MotionP:        1.0,
		EffectiveEdgeP: 1.0,
		ReverseEdgeP:   1.0,
		UseForNN:       true,
	}
	if len(rootParticles) > 0 {
		root.Expectation = particleExpectation(p.Robot, rootParticles)
	} else {
		root.Expectation = rootCommand
	}

	p.tree = NewTree(root)
	p.stats = Statistics{PlanID: planID}
	p.Sim.ResetStatistics()

	start := time.Now()
	attempts := 0

	if p.checkGoal(0) {
		if err := p.onGoalEvent(0); err != nil {
			return nil, p.stats, err
		}
		p.totalGoalP = p.tree.Root().State.GoalP
		p.foundFirstSolution = true
		p.stats.TimeToFirstSolution = 0
	}

	for !p.terminated(start) {
		attempts++
		if p.Config.MaxExpansionAttempts > 0 && attempts > p.Config.MaxExpansionAttempts {
			break
		}

		target := p.sampleTarget()
		nearestIdx := nearestNeighbor(p.Robot, p.tree, &PlanningState[C]{Expectation: target}, p.Config.StepSize, p.Config.FeasibilityAlpha, p.Config.VarianceAlpha)
		if nearestIdx == -1 {
			break
		}

		useConnect := !p.foundFirstSolution
		if p.foundFirstSolution {
			useConnect = p.Sim.Rng().Float64() < p.Config.ConnectAfterFirstSolution
		}

		var newIndices []int
		var err error
		if useConnect {
			newIndices, err = p.expandConnect(nearestIdx, target)
		} else {
			newIndices, err = p.expandExtend(nearestIdx, target)
		}
		if err != nil {
			if isExternalFailure(err) {
				p.Log.Log(1, "expansion attempt failed", map[string]any{"error": err.Error()})
				continue
			}
			return nil, p.stats, err
		}

		for _, idx := range newIndices {
			if p.checkGoal(idx) {
				wasFirst := !p.foundFirstSolution
				if err := p.onGoalEvent(idx); err != nil {
					return nil, p.stats, err
				}
				p.totalGoalP = p.tree.Root().State.GoalP
				if wasFirst {
					p.foundFirstSolution = true
					p.stats.TimeToFirstSolution = time.Since(start)
				}
			}
		}

		if p.Config.DebugLevel >= 2 {
			if err := p.tree.ValidateLinkage(); err != nil {
				return nil, p.stats, err
			}
		}
	}

	p.stats.TreeSize = p.tree.Len()
	p.stats.PGoalReached = p.totalGoalP
	p.stats.ExpansionAttempts = attempts
	for k, v := range p.Sim.GetStatistics() {
		if p.stats.Custom == nil {
			p.stats.Custom = make(map[string]float64)
		}
		p.stats.Custom[k] = v
	}

	processed := PostProcess(p.tree)
	pruned := Prune(processed, p.Config.IncludeSpurActions)
	if err := pruned.ValidateLinkage(); err != nil {
		return nil, p.stats, err
	}
	graph, err := ExtractPolicyGraph(pruned, p.Config.GoalProbabilityThreshold)
	if err != nil {
		return nil, p.stats, err
	}
	p.stats.PolicySize = pruned.Len()

	return graph, p.stats, nil
}

// terminated checks both of the planner's stopping conditions. The
// wall-clock check is unconditional -- a zero time limit is satisfied
// immediately. The goal-probability check is only active when its
// threshold is positive; a zero threshold means goal-based early
// termination is disabled, not that it is trivially satisfied by the
// initial zero totalGoalP.
func (p *Planner[C]) terminated(start time.Time) bool {
	if time.Since(start) >= p.Config.TimeLimit {
		return true
	}
	if p.Config.PGoalTerminationThreshold > 0 && p.totalGoalP >= p.Config.PGoalTerminationThreshold-1e-10 {
		return true
	}
	return false
}

func (p *Planner[C]) sampleTarget() C {
	rng := p.Sim.Rng()
	if rng.Float64() > p.Config.GoalBias {
		return p.Sampler.Sample(rng)
	}
	return p.Sampler.SampleGoal(rng)
}

func isExternalFailure(err error) bool {
	_, ok := err.(*ExternalFailure)
	return ok
}
