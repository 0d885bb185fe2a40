package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/wordhop/wordhop/internal/config"
	"github.com/wordhop/wordhop/internal/graph"
	"github.com/wordhop/wordhop/internal/puzzle"
	"github.com/wordhop/wordhop/internal/solver"
	"github.com/wordhop/wordhop/internal/storage"
)

var (
	solveSeed    int64
	solveOptimal bool
)

func init() {
	solvePathCmd.Flags().Int64Var(&solveSeed, "seed", 0, "Random seed (0 uses an unseeded source)")
	solvePathCmd.Flags().BoolVar(&solveOptimal, "optimal", false, "Solve greedily with no randomness or avoidance")
	solvePairsCmd.Flags().Int64Var(&solveSeed, "seed", 0, "Random seed (0 uses an unseeded source)")
	solveCmd.AddCommand(solvePathCmd)
	solveCmd.AddCommand(solvePairsCmd)
	rootCmd.AddCommand(solveCmd)
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve puzzles with the heuristic solver",
}

var solvePathCmd = &cobra.Command{
	Use:   "path <start> <target>",
	Short: "Solve a single start/target pair",
	Args:  cobra.ExactArgs(2),
	RunE:  runSolvePath,
}

var solvePairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Solve every pair in the generated batch",
	Long: `Run the heuristic solver over .wordhop/daily_pairs.json, appending a
result record per pair to .wordhop/results.jsonl. Pairs already recorded as
solved in the progress file are skipped.`,
	RunE: runSolvePairs,
}

// newSolver builds a solver from gameplay config and the seed flag.
func newSolver(g *graph.Graph, game *config.Game) *solver.Solver {
	opts := []solver.Option{solver.WithHubPercentile(game.HubPercentile)}
	if solveSeed != 0 {
		opts = append(opts, solver.WithRand(rand.New(rand.NewSource(solveSeed))))
	}
	if solveOptimal {
		opts = append(opts,
			solver.WithSuppressPolicy(solver.NoSuppression),
			solver.WithRandomnessSchedule(solver.NoRandomness))
	}
	return solver.New(g, opts...)
}

func runSolvePath(cmd *cobra.Command, args []string) error {
	root := requireRepo()
	start, target := args[0], args[1]

	g, err := graph.Load(config.GraphPath(root))
	if err != nil {
		exitWithError(ExitDataError, "loading graph: %v", err)
	}
	game, err := config.LoadGame(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	s := newSolver(g, game)
	maxRetries := game.MaxRetries
	if solveOptimal {
		maxRetries = 1
	}
	result := s.SolveWithRetries(start, target, game.MaxSteps, maxRetries)

	if humanOutput {
		fmt.Printf("%s: %v\n", result.Status, result.Path)
		fmt.Printf("Steps: %d (optimal %d), attempts: %d\n",
			result.Steps, result.OptimalLength, result.Attempts)
		if result.Reason != "" {
			fmt.Printf("Reason: %s\n", result.Reason)
		}
	} else {
		outputJSON(result)
	}

	if result.Status != solver.StatusSolved {
		os.Exit(ExitError)
	}
	return nil
}

func runSolvePairs(cmd *cobra.Command, args []string) error {
	root := requireRepo()

	g, err := graph.Load(config.GraphPath(root))
	if err != nil {
		exitWithError(ExitDataError, "loading graph: %v", err)
	}
	game, err := config.LoadGame(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	batch, err := puzzle.LoadBatch(config.PairsPath(root))
	if err != nil {
		exitWithError(ExitDataError, "loading batch: %v (run 'wh pairs generate' first)", err)
	}
	progress, err := storage.LoadProgress(config.ProgressPath(root))
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	s := newSolver(g, game)
	progress.MarkModel("heuristic")

	solved, failed, skipped := 0, 0, 0
	for i, p := range batch.Pairs {
		if progress.Solved[p.Key()] {
			skipped++
			continue
		}

		result := s.SolveWithRetries(p.StartWord, p.TargetWord, game.MaxSteps, game.MaxRetries)

		record := storage.Record{
			ID:                uuid.NewString(),
			StartWord:         p.StartWord,
			EndWord:           p.TargetWord,
			OptimalPathLength: result.OptimalLength,
			Path:              result.Path,
			StepsTaken:        result.Steps,
			Status:            string(result.Status),
			Reason:            result.Reason,
			Model:             "heuristic",
			StrategyLog:       result.StrategyLog,
			Efficiency:        result.Efficiency,
		}
		if err := storage.Append(config.ResultsPath(root), record); err != nil {
			exitWithError(ExitError, "writing result: %v", err)
		}

		progress.MarkAttempted(p.Key())
		if result.Status == solver.StatusSolved {
			progress.MarkSolved(p.Key())
			solved++
		} else {
			failed++
		}

		fmt.Fprintf(os.Stderr, "[%d/%d] %s -> %s: %s in %d steps\n",
			i+1, len(batch.Pairs), p.StartWord, p.TargetWord, result.Status, result.Steps)
	}

	if err := progress.Save(config.ProgressPath(root)); err != nil {
		exitWithError(ExitError, "saving progress: %v", err)
	}

	resp := struct {
		Status  string `json:"status"`
		Solved  int    `json:"solved"`
		Failed  int    `json:"failed"`
		Skipped int    `json:"skipped"`
	}{"done", solved, failed, skipped}

	if humanOutput {
		fmt.Printf("Solved %d, failed %d, skipped %d of %d pairs\n",
			solved, failed, skipped, len(batch.Pairs))
	} else {
		outputJSON(resp)
	}
	return nil
}
