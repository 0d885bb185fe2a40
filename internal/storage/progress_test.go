package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestProgress_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")

	p := NewProgress()
	p.MarkSolved("water->money")
	p.MarkAttempted("river->stone")
	p.MarkModel("cogito:14b")

	if err := p.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadProgress(path)
	if err != nil {
		t.Fatalf("LoadProgress() error = %v", err)
	}
	if !loaded.Solved["water->money"] {
		t.Error("solved entry lost")
	}
	// Solving implies attempting.
	if !loaded.Attempted["water->money"] || !loaded.Attempted["river->stone"] {
		t.Errorf("attempted entries = %v", loaded.Attempted)
	}
	if loaded.Solved["river->stone"] {
		t.Error("attempted-only entry marked solved")
	}
	if !loaded.Models["cogito:14b"] {
		t.Error("model entry lost")
	}
	if loaded.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not persisted")
	}
}

func TestLoadProgress_Missing(t *testing.T) {
	p, err := LoadProgress(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadProgress() error = %v", err)
	}
	if len(p.Solved) != 0 || len(p.Attempted) != 0 {
		t.Errorf("missing file should load as empty progress: %+v", p)
	}
}

func TestProgress_FileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")

	p := NewProgress()
	p.MarkSolved("b")
	p.MarkSolved("a")
	if err := p.Save(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw struct {
		SolvedResults []string `json:"solved_results"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("progress file is not valid JSON: %v", err)
	}
	if len(raw.SolvedResults) != 2 || raw.SolvedResults[0] != "a" || raw.SolvedResults[1] != "b" {
		t.Errorf("solved_results = %v, want sorted [a b]", raw.SolvedResults)
	}
}
