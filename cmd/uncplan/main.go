// Command uncplan runs the uncertainty-aware tree planner against a
// small point-robot scenario and prints the resulting plan statistics.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/orbital-robotics/uncplan/internal/examplesim"
	"github.com/orbital-robotics/uncplan/internal/plan"
	"github.com/orbital-robotics/uncplan/internal/planlog"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON file overriding plan.DefaultConfig fields")
	debugLevel := flag.Int("debug", 0, "planner log verbosity (0 silent, 2 validates tree linkage every expansion)")
	seed := flag.Int64("seed", 42, "random seed for the simulator's RNG")
	flag.Parse()

	cfg := plan.DefaultConfig()
	cfg.DebugLevel = *debugLevel
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("reading config: %v", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("parsing config: %v", err)
		}
	}

	fmt.Println("=== uncplan: uncertainty-aware tree planner demo ===")

	ws := examplesim.NewWorkspace(examplesim.NewPoint(0, 0), examplesim.NewPoint(10, 10))
	ws.AddObstacle(examplesim.Obstacle{Min: examplesim.NewPoint(4, 0), Max: examplesim.NewPoint(6, 6)})

	start := examplesim.NewPoint(0, 0)
	target := examplesim.NewPoint(9, 9)

	robot := examplesim.PointRobot{}
	sim := examplesim.NewNoisySimulator(ws, 0.2, *seed)
	sampler := examplesim.UniformSampler{Workspace: ws, Goal: target, GoalRadius: 0.5}
	cluster := examplesim.RadiusClustering{Robot: robot, Radius: 0.75}
	goal := examplesim.DistanceGoal{Robot: robot, Target: target, Radius: 0.5}
	logger := planlog.New(log.New(os.Stdout, "", log.LstdFlags), *debugLevel)

	planner, err := plan.NewPlanner[examplesim.Point](cfg, robot, sampler, sim, cluster, goal, logger)
	if err != nil {
		log.Fatalf("NewPlanner: %v", err)
	}

	t0 := time.Now()
	graph, stats, err := planner.Plan(start, []examplesim.Point{start})
	if err != nil {
		log.Fatalf("Plan: %v", err)
	}

	fmt.Printf("planned in %v: tree_size=%d policy_size=%d p_goal=%.4f time_to_first=%v\n",
		time.Since(t0), stats.TreeSize, stats.PolicySize, stats.PGoalReached, stats.TimeToFirstSolution)

	if graph.Edges == nil {
		fmt.Println("no feasible policy found")
		return
	}

	exec := examplesim.NewSimExecutor(0.15, *seed+1)
	result, err := plan.SimulateExecutionPolicy[examplesim.Point](graph, exec, cluster, goal, start, false, true, 50)
	if err != nil {
		log.Fatalf("SimulateExecutionPolicy: %v", err)
	}
	fmt.Printf("execution finished: steps=%d\n", result.Steps)
}
