// Package puzzle generates word-hop puzzle pairs over the semantic graph.
package puzzle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BatchVersion is the puzzle-pairs artifact schema version.
const BatchVersion = "1.0"

// Pair is a single puzzle: reach TargetWord from StartWord. PathLength is
// the shortest-path hop count, consistent with an independent recomputation.
type Pair struct {
	StartWord  string `json:"startWord"`
	TargetWord string `json:"targetWord"`
	PathLength int    `json:"pathLength"`
}

// Key returns the canonical identity of the pair, ignoring direction.
func (p Pair) Key() string {
	a, b := p.StartWord, p.TargetWord
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Batch is the generated puzzle-pairs artifact.
type Batch struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Pairs       []Pair `json:"pairs"`
}

// NewBatch wraps pairs with artifact metadata.
func NewBatch(pairs []Pair) Batch {
	return Batch{
		Version:     BatchVersion,
		LastUpdated: time.Now().Format("2006-01-02"),
		Pairs:       pairs,
	}
}

// Save writes the batch to path as indented JSON.
func (b Batch) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pairs: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing pairs file: %w", err)
	}
	return nil
}

// LoadBatch reads a puzzle-pairs artifact from path.
func LoadBatch(path string) (Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Batch{}, fmt.Errorf("reading pairs file: %w", err)
	}

	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return Batch{}, fmt.Errorf("parsing pairs file: %w", err)
	}
	return b, nil
}
