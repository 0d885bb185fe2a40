// Package main provides the wh CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wh",
	Short: "Semantic word-hop puzzle toolkit",
	Long: `wh builds nearest-neighbor word graphs from embeddings and uses them
to generate, solve, and play word-hop navigation puzzles.

Artifacts live in a .wordhop/ directory: the embedding index, the graph,
generated puzzle pairs, and solve results in git-versionable JSONL with an
ephemeral SQLite cache for queries. All commands output JSON by default;
pass --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getWorkingRoot returns the directory a new repository would be created in.
func getWorkingRoot() (string, int) {
	if root := os.Getenv("WH_ROOT"); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}
