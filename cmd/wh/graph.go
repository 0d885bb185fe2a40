package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/wordhop/wordhop/internal/config"
	"github.com/wordhop/wordhop/internal/embedding"
	"github.com/wordhop/wordhop/internal/graph"
)

var (
	graphProjections string
	graphDefinitions string
	graphDense       string
)

func init() {
	graphBuildCmd.Flags().StringVar(&graphProjections, "projections", "", "JSON file mapping words to [x, y] projection coordinates (required)")
	graphBuildCmd.Flags().StringVar(&graphDefinitions, "definitions", "", "JSON file mapping words to definition lists; words without one are excluded")
	graphBuildCmd.Flags().StringVar(&graphDense, "dense", "", "Also write the quantized all-pairs similarity table to this file")
	graphBuildCmd.MarkFlagRequired("projections")
	graphCmd.AddCommand(graphBuildCmd)
	graphCmd.AddCommand(graphStatsCmd)
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build and inspect the semantic word graph",
}

var graphBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the nearest-neighbor graph from the embedding index",
	Long: `Compute pairwise cosine similarities over the embedded vocabulary and
keep the top-k neighbors per word. Reads .wordhop/vocab.gob and the
--projections coordinate file, and writes .wordhop/graph.json.`,
	RunE: runGraphBuild,
}

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show graph statistics",
	RunE:  runGraphStats,
}

// loadProjections reads a word -> [x, y] coordinate map from a JSON file.
func loadProjections(path string) (map[string][2]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var proj map[string][2]float64
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// loadDefinitions reads a word -> definitions map from a JSON file.
func loadDefinitions(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var defs map[string][]string
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func runGraphBuild(cmd *cobra.Command, args []string) error {
	root := requireRepo()

	idx, err := embedding.LoadVocab(config.VocabPath(root))
	if err != nil {
		exitWithError(ExitDataError, "loading embedding index: %v (run 'wh embed build' first)", err)
	}

	game, err := config.LoadGame(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	// Projection coordinates are required for the whole build; puzzle
	// generation filters pairs by projection distance, which degenerates to
	// zero when every word sits at the origin. Individual words missing from
	// the file still fall back to [0, 0] and are counted.
	projections, err := loadProjections(graphProjections)
	if err != nil {
		exitWithError(ExitDataError, "loading projections: %v", err)
	}

	var include func(string) bool
	if graphDefinitions != "" {
		defs, err := loadDefinitions(graphDefinitions)
		if err != nil {
			exitWithError(ExitDataError, "loading definitions: %v", err)
		}
		include = func(w string) bool { return len(defs[w]) > 0 }
	}

	builder, err := graph.NewBuilder(graph.BuildConfig{
		K:           game.Neighbors,
		Include:     include,
		Projections: projections,
		Dense:       graphDense != "",
	})
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	builder.SetProgressReporter(graph.ProgressFunc(func(current, total int) {
		if current%500 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "processed %d/%d words\n", current, total)
		}
	}))

	result, err := builder.Build(idx.Vectors)
	if err != nil {
		exitWithError(ExitDataError, "building graph: %v", err)
	}

	if err := result.Graph.Save(config.GraphPath(root)); err != nil {
		exitWithError(ExitError, "saving graph: %v", err)
	}

	if graphDense != "" {
		data, err := json.Marshal(result.Dense)
		if err != nil {
			exitWithError(ExitError, "encoding similarity table: %v", err)
		}
		if err := os.WriteFile(graphDense, data, 0644); err != nil {
			exitWithError(ExitError, "writing similarity table: %v", err)
		}
	}

	resp := struct {
		Status             string `json:"status"`
		Words              int    `json:"words"`
		WordsFiltered      int    `json:"words_filtered"`
		Neighbors          int    `json:"neighbors"`
		MissingProjections int    `json:"missing_projections"`
		Duration           string `json:"duration"`
	}{"built", result.Stats.WordsKept, result.Stats.WordsFiltered, game.Neighbors,
		result.Stats.MissingProjections, formatDuration(result.Stats.Duration)}

	if humanOutput {
		fmt.Printf("Built graph over %d words (k=%d) in %s\n", resp.Words, resp.Neighbors, resp.Duration)
		if resp.WordsFiltered > 0 {
			fmt.Printf("Excluded %d words without definitions\n", resp.WordsFiltered)
		}
		if resp.MissingProjections > 0 {
			fmt.Printf("Warning: %d words had no projection coordinates\n", resp.MissingProjections)
		}
	} else {
		outputJSON(resp)
	}
	return nil
}

func runGraphStats(cmd *cobra.Command, args []string) error {
	root := requireRepo()

	g, err := graph.Load(config.GraphPath(root))
	if err != nil {
		exitWithError(ExitDataError, "loading graph: %v (run 'wh graph build' first)", err)
	}

	words := g.Words()
	degrees := make([]int, 0, len(words))
	edgeCount := 0
	for _, w := range words {
		d := g.Degree(w)
		degrees = append(degrees, d)
		edgeCount += d
	}
	sort.Ints(degrees)

	resp := struct {
		Words     int     `json:"words"`
		Edges     int     `json:"edges"`
		MinDegree int     `json:"min_degree"`
		MaxDegree int     `json:"max_degree"`
		AvgDegree float64 `json:"avg_degree"`
	}{Words: len(words), Edges: edgeCount}
	if len(degrees) > 0 {
		resp.MinDegree = degrees[0]
		resp.MaxDegree = degrees[len(degrees)-1]
		resp.AvgDegree = float64(edgeCount) / float64(len(words))
	}

	if humanOutput {
		fmt.Printf("Words: %d\nEdges: %d\nDegree: min %d, max %d, avg %.2f\n",
			resp.Words, resp.Edges, resp.MinDegree, resp.MaxDegree, resp.AvgDegree)
	} else {
		outputJSON(resp)
	}
	return nil
}
