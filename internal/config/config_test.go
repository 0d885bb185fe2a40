package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// makeRepo creates a .wordhop directory under a temp root.
func makeRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(WordhopPath(root), 0755); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestPaths(t *testing.T) {
	root := "/repo"
	tests := []struct {
		got  string
		want string
	}{
		{ConfigPath(root), "/repo/.wordhop/config.json"},
		{GamePath(root), "/repo/.wordhop/game.yaml"},
		{VocabPath(root), "/repo/.wordhop/vocab.gob"},
		{GraphPath(root), "/repo/.wordhop/graph.json"},
		{PairsPath(root), "/repo/.wordhop/daily_pairs.json"},
		{ResultsPath(root), "/repo/.wordhop/results.jsonl"},
		{ProgressPath(root), "/repo/.wordhop/progress.json"},
		{DBPath(root), "/repo/.wordhop/cache/results.db"},
	}
	for _, tt := range tests {
		if tt.got != filepath.FromSlash(tt.want) {
			t.Errorf("got %s, want %s", tt.got, tt.want)
		}
	}
}

func TestFindRepository(t *testing.T) {
	t.Setenv(EnvRoot, "")

	root := makeRepo(t)
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("walks up from nested directory", func(t *testing.T) {
		got, err := FindRepository(nested)
		if err != nil {
			t.Fatalf("FindRepository() error = %v", err)
		}
		if got != root {
			t.Errorf("FindRepository() = %s, want %s", got, root)
		}
	})

	t.Run("fails outside a repository", func(t *testing.T) {
		if _, err := FindRepository(t.TempDir()); err == nil {
			t.Error("FindRepository() should fail with no .wordhop directory")
		}
	})

	t.Run("env override", func(t *testing.T) {
		other := makeRepo(t)
		t.Setenv(EnvRoot, other)

		got, err := FindRepository(nested)
		if err != nil {
			t.Fatalf("FindRepository() error = %v", err)
		}
		if got != other {
			t.Errorf("FindRepository() = %s, want %s override", got, other)
		}
	})

	t.Run("env override must be a repository", func(t *testing.T) {
		t.Setenv(EnvRoot, t.TempDir())
		if _, err := FindRepository(nested); err == nil {
			t.Errorf("FindRepository() should reject a non-repository %s", EnvRoot)
		}
	})
}

func TestConfig_SaveLoad(t *testing.T) {
	root := makeRepo(t)

	cfg := &Config{
		OllamaURL:      "http://localhost:11434",
		EmbedModel:     "nomic-embed-text:137m-v1.5-fp16",
		ChatModel:      "cogito:14b",
		VocabularyFile: "words.txt",
	}
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(makeRepo(t)); err == nil {
		t.Error("Load() of missing config should fail")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandPath("~/words.txt"); got != filepath.Join(home, "words.txt") {
		t.Errorf("ExpandPath(~/words.txt) = %s", got)
	}
	if got := ExpandPath("/abs/words.txt"); got != "/abs/words.txt" {
		t.Errorf("ExpandPath() changed an absolute path: %s", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}

func TestLoadGame_Defaults(t *testing.T) {
	g, err := LoadGame(makeRepo(t))
	if err != nil {
		t.Fatalf("LoadGame() error = %v", err)
	}

	d := DefaultGame()
	if g.Neighbors != d.Neighbors || g.MaxSteps != d.MaxSteps || g.MoveRetries != d.MoveRetries {
		t.Errorf("LoadGame() = %+v, want defaults %+v", g, d)
	}
	if g.Quota[4] != 185 || g.Quota[5] != 220 {
		t.Errorf("Quota = %v, want default quotas", g.Quota)
	}
}

func TestLoadGame_PartialOverride(t *testing.T) {
	root := makeRepo(t)
	yaml := "neighbors: 7\nmax_steps: 40\n"
	if err := os.WriteFile(GamePath(root), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := LoadGame(root)
	if err != nil {
		t.Fatalf("LoadGame() error = %v", err)
	}
	if g.Neighbors != 7 {
		t.Errorf("Neighbors = %d, want override 7", g.Neighbors)
	}
	if g.MaxSteps != 40 {
		t.Errorf("MaxSteps = %d, want override 40", g.MaxSteps)
	}
	// Unnamed fields keep their defaults.
	if g.MinPathLength != 4 || g.HubPercentile != 0.1 {
		t.Errorf("defaults not applied: %+v", g)
	}
}

func TestGame_SaveLoad(t *testing.T) {
	root := makeRepo(t)

	g := DefaultGame()
	g.Neighbors = 8
	g.Quota = map[int]int{4: 10}
	if err := g.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadGame(root)
	if err != nil {
		t.Fatalf("LoadGame() error = %v", err)
	}
	if loaded.Neighbors != 8 || loaded.Quota[4] != 10 {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestGame_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Game)
		want   string
	}{
		{
			name:   "zero neighbors",
			mutate: func(g *Game) { g.Neighbors = -1 },
			want:   "neighbors",
		},
		{
			name:   "inverted length range",
			mutate: func(g *Game) { g.MinPathLength = 6 },
			want:   "path length range",
		},
		{
			name:   "quota outside range",
			mutate: func(g *Game) { g.Quota = map[int]int{9: 1} },
			want:   "quota length",
		},
		{
			name:   "hub percentile above one",
			mutate: func(g *Game) { g.HubPercentile = 1.5 },
			want:   "hub_percentile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := DefaultGame()
			tt.mutate(g)
			err := g.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		if err := DefaultGame().Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}
