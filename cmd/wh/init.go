package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wordhop/wordhop/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new wordhop repository",
	Long: `Initialize a new wordhop repository in the current directory.

Creates:
  .wordhop/
  ├── config.json     # Default config
  ├── game.yaml       # Default gameplay parameters
  ├── results.jsonl   # Empty file
  └── cache/          # Empty directory (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getWorkingRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a wordhop repository")
	}

	if err := os.MkdirAll(config.WordhopPath(root), 0755); err != nil {
		exitWithError(ExitError, "creating .wordhop directory: %v", err)
	}
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	resultsFile, err := os.Create(config.ResultsPath(root))
	if err != nil {
		exitWithError(ExitError, "creating results.jsonl: %v", err)
	}
	resultsFile.Close()

	cfg := &config.Config{}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating config.json: %v", err)
	}
	if err := config.DefaultGame().Save(root); err != nil {
		exitWithError(ExitError, "creating game.yaml: %v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized wordhop repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   root,
		})
	}

	return nil
}
