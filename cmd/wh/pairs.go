package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/wordhop/wordhop/internal/config"
	"github.com/wordhop/wordhop/internal/graph"
	"github.com/wordhop/wordhop/internal/path"
	"github.com/wordhop/wordhop/internal/puzzle"
)

var (
	pairsSeed    int64
	pairsWorkers int
)

func init() {
	pairsGenerateCmd.Flags().Int64Var(&pairsSeed, "seed", 0, "Random seed (0 uses the current time)")
	pairsGenerateCmd.Flags().IntVar(&pairsWorkers, "workers", 0, "Sampling workers (0 picks a default)")
	pairsCmd.AddCommand(pairsGenerateCmd)
	pairsCmd.AddCommand(pairsCheckCmd)
	rootCmd.AddCommand(pairsCmd)
}

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Generate and validate puzzle pair batches",
}

var pairsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a batch of puzzle pairs from the graph",
	Long: `Draw random word pairs and keep those that pass the distance, degree,
and path-length validations until the per-length quotas from game.yaml are
met. Writes .wordhop/daily_pairs.json.`,
	RunE: runPairsGenerate,
}

var pairsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate an existing batch against the graph",
	RunE:  runPairsCheck,
}

func runPairsGenerate(cmd *cobra.Command, args []string) error {
	root := requireRepo()

	g, err := graph.Load(config.GraphPath(root))
	if err != nil {
		exitWithError(ExitDataError, "loading graph: %v (run 'wh graph build' first)", err)
	}
	game, err := config.LoadGame(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	seed := pairsSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen, err := puzzle.NewGenerator(g, puzzle.Config{
		MinLength:     game.MinPathLength,
		MaxLength:     game.MaxPathLength,
		Quota:         game.Quota,
		MaxAttempts:   game.MaxAttempts,
		MinDegree:     game.MinDegree,
		MinProjDistSq: game.MinProjDistSq,
		Workers:       pairsWorkers,
		Seed:          seed,
	})
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	batch, stats, err := gen.Generate(cmd.Context())
	if err != nil {
		exitWithError(ExitError, "generating pairs: %v", err)
	}

	if err := batch.Save(config.PairsPath(root)); err != nil {
		exitWithError(ExitError, "saving batch: %v", err)
	}

	resp := struct {
		Status string       `json:"status"`
		Pairs  int          `json:"pairs"`
		Seed   int64        `json:"seed"`
		Stats  puzzle.Stats `json:"stats"`
	}{"generated", len(batch.Pairs), seed, stats}

	if humanOutput {
		fmt.Printf("Generated %d pairs (seed %d)\n", resp.Pairs, seed)
		fmt.Printf("Attempts: %d, accepted: %d, rejected: %d used / %d distance / %d degree / %d length\n",
			stats.Attempts, stats.Accepted, stats.RejectedUsed,
			stats.RejectedDistance, stats.RejectedDegree, stats.RejectedLength)
	} else {
		outputJSON(resp)
	}
	return nil
}

func runPairsCheck(cmd *cobra.Command, args []string) error {
	root := requireRepo()

	g, err := graph.Load(config.GraphPath(root))
	if err != nil {
		exitWithError(ExitDataError, "loading graph: %v", err)
	}
	batch, err := puzzle.LoadBatch(config.PairsPath(root))
	if err != nil {
		exitWithError(ExitDataError, "loading batch: %v", err)
	}

	type problem struct {
		Pair   puzzle.Pair `json:"pair"`
		Reason string      `json:"reason"`
	}
	var problems []problem

	seenStart := make(map[string]bool)
	seenTarget := make(map[string]bool)
	for _, p := range batch.Pairs {
		if seenStart[p.StartWord] {
			problems = append(problems, problem{p, "start word reused"})
		}
		if seenTarget[p.TargetWord] {
			problems = append(problems, problem{p, "target word reused"})
		}
		seenStart[p.StartWord] = true
		seenTarget[p.TargetWord] = true

		if !g.Has(p.StartWord) || !g.Has(p.TargetWord) {
			problems = append(problems, problem{p, "word missing from graph"})
			continue
		}
		if got := path.Shortest(g, p.StartWord, p.TargetWord).Steps(); got != p.PathLength {
			problems = append(problems, problem{p, fmt.Sprintf("path length is %d, batch says %d", got, p.PathLength)})
		}
	}

	resp := struct {
		Pairs    int       `json:"pairs"`
		Problems []problem `json:"problems,omitempty"`
	}{len(batch.Pairs), problems}

	if humanOutput {
		fmt.Printf("Checked %d pairs, %d problems\n", resp.Pairs, len(problems))
		for _, pr := range problems {
			fmt.Printf("  %s -> %s: %s\n", pr.Pair.StartWord, pr.Pair.TargetWord, pr.Reason)
		}
	} else {
		outputJSON(resp)
	}

	if len(problems) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}
