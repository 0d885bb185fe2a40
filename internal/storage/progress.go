package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Progress tracks which puzzles have been solved or attempted across runs,
// so interrupted batches can resume without redoing solved puzzles.
type Progress struct {
	Solved    map[string]bool `json:"-"`
	Attempted map[string]bool `json:"-"`
	Models    map[string]bool `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

// progressFile is the on-disk shape: sorted lists instead of sets.
type progressFile struct {
	SolvedResults    []string  `json:"solved_results"`
	AttemptedIndices []string  `json:"attempted_indices"`
	ModelsUsed       []string  `json:"models_used"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewProgress creates empty progress.
func NewProgress() *Progress {
	return &Progress{
		Solved:    make(map[string]bool),
		Attempted: make(map[string]bool),
		Models:    make(map[string]bool),
	}
}

// MarkSolved records a solved puzzle.
func (p *Progress) MarkSolved(id string) {
	p.Solved[id] = true
	p.Attempted[id] = true
}

// MarkAttempted records an attempted puzzle.
func (p *Progress) MarkAttempted(id string) {
	p.Attempted[id] = true
}

// MarkModel records a model as used.
func (p *Progress) MarkModel(model string) {
	p.Models[model] = true
}

// LoadProgress reads progress from disk. A missing file returns empty
// progress.
func LoadProgress(path string) (*Progress, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewProgress(), nil
		}
		return nil, fmt.Errorf("reading progress: %w", err)
	}

	var pf progressFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing progress: %w", err)
	}

	p := NewProgress()
	for _, id := range pf.SolvedResults {
		p.Solved[id] = true
	}
	for _, id := range pf.AttemptedIndices {
		p.Attempted[id] = true
	}
	for _, m := range pf.ModelsUsed {
		p.Models[m] = true
	}
	p.UpdatedAt = pf.UpdatedAt
	return p, nil
}

// Save writes progress to disk.
func (p *Progress) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating progress directory: %w", err)
	}

	pf := progressFile{
		SolvedResults:    sortedKeys(p.Solved),
		AttemptedIndices: sortedKeys(p.Attempted),
		ModelsUsed:       sortedKeys(p.Models),
		UpdatedAt:        time.Now(),
	}

	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding progress: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing progress: %w", err)
	}
	return nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
