package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/wordhop/wordhop/internal/config"
	"github.com/wordhop/wordhop/internal/graph"
	"github.com/wordhop/wordhop/internal/llm"
	"github.com/wordhop/wordhop/internal/puzzle"
	"github.com/wordhop/wordhop/internal/session"
	"github.com/wordhop/wordhop/internal/storage"
)

var playLimit int

func init() {
	playCmd.Flags().IntVar(&playLimit, "limit", 0, "Stop after this many games (0 plays the whole batch)")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the batch interactively through a chat model",
	Long: `Run each pair in .wordhop/daily_pairs.json as an interactive game: a
chat model proposes moves, the engine validates them against the graph and
backtracks to checkpoints when the model gets stuck. Results append to
.wordhop/results.jsonl; solved pairs are skipped on rerun.

Reads OLLAMA_API_KEY from the environment or a .env file.`,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	root := requireRepo()
	ctx := cmd.Context()

	// .env is optional; absence is not an error.
	godotenv.Load()

	g, err := graph.Load(config.GraphPath(root))
	if err != nil {
		exitWithError(ExitDataError, "loading graph: %v", err)
	}
	game, err := config.LoadGame(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	cfg, err := config.Load(root)
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

	var clientOpts []llm.ClientOption
	if cfg.ChatURL != "" {
		clientOpts = append(clientOpts, llm.WithBaseURL(cfg.ChatURL))
	}
	if cfg.ChatModel != "" {
		clientOpts = append(clientOpts, llm.WithModel(cfg.ChatModel))
	}
	client := llm.NewClient(clientOpts...)
	progress.MarkModel(client.Model())

	engine := session.NewEngine(g, llm.NewProposer(client),
		session.WithMaxSteps(game.MaxSteps),
		session.WithMoveRetries(game.MoveRetries),
		session.WithMaxBacktracks(game.MaxBacktracks))

	solved, failed, skipped, played := 0, 0, 0, 0
	for i, p := range batch.Pairs {
		if playLimit > 0 && played >= playLimit {
			break
		}
		if progress.Solved[p.Key()] {
			skipped++
			continue
		}
		played++

		fmt.Fprintf(os.Stderr, "[%d/%d] playing %s -> %s\n",
			i+1, len(batch.Pairs), p.StartWord, p.TargetWord)

		result, err := engine.Run(ctx, p.StartWord, p.TargetWord)
		if err != nil {
			exitWithError(ExitError, "game %s -> %s: %v", p.StartWord, p.TargetWord, err)
		}

		record := storage.Record{
			ID:                uuid.NewString(),
			StartWord:         p.StartWord,
			EndWord:           p.TargetWord,
			OptimalPathLength: result.OptimalLength,
			Path:              result.Path,
			StepsTaken:        result.StepsTaken,
			Status:            string(result.Status),
			Reason:            result.Reason,
			Model:             client.Model(),
			BacktrackAttempts: result.BacktrackAttempts,
		}
		if result.Status == session.StatusSolved && result.OptimalLength > 0 {
			record.Efficiency = float64(result.StepsTaken) / float64(result.OptimalLength)
		}
		if err := storage.Append(config.ResultsPath(root), record); err != nil {
			exitWithError(ExitError, "writing result: %v", err)
		}

		progress.MarkAttempted(p.Key())
		if result.Status == session.StatusSolved {
			progress.MarkSolved(p.Key())
			solved++
		} else {
			failed++
		}

		fmt.Fprintf(os.Stderr, "  %s in %d steps (%d backtracks)\n",
			result.Status, result.StepsTaken, result.BacktrackAttempts)

		if err := progress.Save(config.ProgressPath(root)); err != nil {
			exitWithError(ExitError, "saving progress: %v", err)
		}
	}

	resp := struct {
		Status  string `json:"status"`
		Model   string `json:"model"`
		Solved  int    `json:"solved"`
		Failed  int    `json:"failed"`
		Skipped int    `json:"skipped"`
	}{"done", client.Model(), solved, failed, skipped}

	if humanOutput {
		fmt.Printf("Model %s: solved %d, failed %d, skipped %d\n",
			resp.Model, solved, failed, skipped)
	} else {
		outputJSON(resp)
	}
	return nil
}
