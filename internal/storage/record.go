// Package storage persists solver and session results. The JSONL file is
// the source of truth; a SQLite cache is rebuilt from it for queries and can
// be deleted at any time.
package storage

// Record is one solved, failed, or skipped puzzle run.
type Record struct {
	ID                string   `json:"id"`
	StartWord         string   `json:"startWord"`
	EndWord           string   `json:"endWord"`
	OptimalPathLength int      `json:"optimalPathLength"`
	Path              []string `json:"path"`
	StepsTaken        int      `json:"stepsTaken"`
	Status            string   `json:"status"`
	Reason            string   `json:"reason"`
	Model             string   `json:"model"`
	StrategyLog       []string `json:"strategyLog,omitempty"`
	Efficiency        float64  `json:"efficiency,omitempty"`
	BacktrackAttempts int      `json:"backtrackAttempts,omitempty"`
}
