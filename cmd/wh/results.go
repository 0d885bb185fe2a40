package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wordhop/wordhop/internal/config"
	"github.com/wordhop/wordhop/internal/storage"
)

var resultsStatus string

func init() {
	resultsListCmd.Flags().StringVar(&resultsStatus, "status", "", "Filter by status (solved, failed, skipped)")
	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsStatsCmd)
	rootCmd.AddCommand(resultsCmd)
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Query recorded solve results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List result records",
	RunE:  runResultsList,
}

var resultsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-model solve statistics",
	RunE:  runResultsStats,
}

// shortID abbreviates a record ID for display. Hand-merged JSONL files may
// carry IDs shorter than the usual UUID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// openResultsDB opens the cache database, rebuilt from the JSONL if stale.
func openResultsDB(root string) *storage.DB {
	db, err := storage.Open(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening results cache: %v", err)
	}
	if _, err := db.RebuildFromJSONL(config.ResultsPath(root)); err != nil {
		db.Close()
		exitWithError(ExitDataError, "rebuilding results cache: %v", err)
	}
	return db
}

func runResultsList(cmd *cobra.Command, args []string) error {
	root := requireRepo()
	db := openResultsDB(root)
	defer db.Close()

	var (
		records []storage.Record
		err     error
	)
	if resultsStatus != "" {
		records, err = db.ByStatus(resultsStatus)
	} else {
		records, err = db.All()
	}
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		for _, r := range records {
			fmt.Printf("%s  %s -> %s  %s  %d steps (optimal %d)  [%s]\n",
				shortID(r.ID), r.StartWord, r.EndWord, r.Status, r.StepsTaken,
				r.OptimalPathLength, r.Model)
			if r.Status == "solved" {
				fmt.Printf("  %s\n", strings.Join(r.Path, " -> "))
			}
		}
		fmt.Printf("%d records\n", len(records))
	} else {
		outputJSON(records)
	}
	return nil
}

func runResultsStats(cmd *cobra.Command, args []string) error {
	root := requireRepo()
	db := openResultsDB(root)
	defer db.Close()

	stats, err := db.StatsByModel()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		for _, s := range stats {
			total := s.Solved + s.Failed + s.Skipped
			fmt.Printf("%s: %d/%d solved, avg %.1f steps, avg efficiency %.2f\n",
				s.Model, s.Solved, total, s.AvgSteps, s.AvgEfficiency)
		}
	} else {
		outputJSON(stats)
	}
	return nil
}
