// Command uncplan-bench runs the planner repeatedly over a grid of noise
// levels and seeds and writes per-run metrics to CSV.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/orbital-robotics/uncplan/internal/examplesim"
	"github.com/orbital-robotics/uncplan/internal/plan"
)

// runResult is one CSV row: runtime metadata plus planner output metrics.
type runResult struct {
	Timestamp  string
	GoVersion  string
	OS         string
	Arch       string
	NoiseStd   float64
	Seed       int64
	RuntimeMs  float64
	Success    bool
	PGoal      float64
	TreeSize   int
	PolicySize int
}

func runOnce(noiseStd float64, seed int64, timeLimit time.Duration) *runResult {
	result := &runResult{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NoiseStd:  noiseStd,
		Seed:      seed,
	}

	ws := examplesim.NewWorkspace(examplesim.NewPoint(0, 0), examplesim.NewPoint(10, 10))
	ws.AddObstacle(examplesim.Obstacle{Min: examplesim.NewPoint(4, 0), Max: examplesim.NewPoint(6, 6)})

	start := examplesim.NewPoint(0, 0)
	target := examplesim.NewPoint(9, 9)

	robot := examplesim.PointRobot{}
	sim := examplesim.NewNoisySimulator(ws, noiseStd, seed)
	sampler := examplesim.UniformSampler{Workspace: ws, Goal: target, GoalRadius: 0.5}
	cluster := examplesim.RadiusClustering{Robot: robot, Radius: 0.75}
	goal := examplesim.DistanceGoal{Robot: robot, Target: target, Radius: 0.5}

	cfg := plan.DefaultConfig()
	cfg.TimeLimit = timeLimit

	planner, err := plan.NewPlanner[examplesim.Point](cfg, robot, sampler, sim, cluster, goal, plan.NopLogger{})
	if err != nil {
		return result
	}

	t0 := time.Now()
	_, stats, err := planner.Plan(start, []examplesim.Point{start})
	result.RuntimeMs = float64(time.Since(t0).Microseconds()) / 1000.0
	if err != nil {
		return result
	}

	result.Success = true
	result.PGoal = stats.PGoalReached
	result.TreeSize = stats.TreeSize
	result.PolicySize = stats.PolicySize
	return result
}

func writeCSV(results []*runResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"timestamp", "go_version", "os", "arch", "noise_std", "seed",
		"runtime_ms", "success", "p_goal", "tree_size", "policy_size"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Timestamp, r.GoVersion, r.OS, r.Arch,
			fmt.Sprintf("%.3f", r.NoiseStd), fmt.Sprintf("%d", r.Seed),
			fmt.Sprintf("%.3f", r.RuntimeMs), fmt.Sprintf("%t", r.Success),
			fmt.Sprintf("%.4f", r.PGoal), fmt.Sprintf("%d", r.TreeSize), fmt.Sprintf("%d", r.PolicySize),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	outputFile := flag.String("output", "evidence/uncplan_bench.csv", "Output CSV file")
	seeds := flag.Int("seeds", 5, "Number of seeds per noise level")
	timeLimit := flag.Duration("time-limit", 10*time.Second, "Per-run planner time limit")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*outputFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}

	noiseLevels := []float64{0.0, 0.1, 0.2, 0.4}

	var results []*runResult
	for _, noise := range noiseLevels {
		for s := 0; s < *seeds; s++ {
			seed := int64(s) + 1
			fmt.Printf("noise=%.2f seed=%d ...\n", noise, seed)
			results = append(results, runOnce(noise, seed, *timeLimit))
		}
	}

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "error writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("results written to %s\n", *outputFile)
}
