package puzzle

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/wordhop/wordhop/internal/graph"
	"github.com/wordhop/wordhop/internal/path"
)

// chainGraph builds a -> b -> d -> c with c a dead end, so (a, d) is the
// only candidate with a valid target and a two-hop path.
func chainGraph() *graph.Graph {
	g := graph.New()
	g.Nodes["a"] = &graph.Node{Edges: graph.EdgeList{{Word: "b", Similarity: 0.9}}}
	g.Nodes["b"] = &graph.Node{Edges: graph.EdgeList{{Word: "d", Similarity: 0.9}}}
	g.Nodes["d"] = &graph.Node{Edges: graph.EdgeList{{Word: "c", Similarity: 0.9}}}
	g.Nodes["c"] = &graph.Node{Edges: graph.EdgeList{}}
	return g
}

// ringGraph builds a bidirectional cycle over n words with uniform
// similarity, so shortest-path length equals ring distance.
func ringGraph(n int) *graph.Graph {
	g := graph.New()
	word := func(i int) string { return string(rune('a' + (i+n)%n)) }
	for i := 0; i < n; i++ {
		g.Nodes[word(i)] = &graph.Node{Edges: graph.EdgeList{
			{Word: word(i + 1), Similarity: 0.9},
			{Word: word(i - 1), Similarity: 0.9},
		}}
	}
	return g
}

func TestNewGenerator_Validation(t *testing.T) {
	g := ringGraph(6)

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{
			name: "zero min length",
			cfg:  Config{MinLength: 0, MaxLength: 2, Quota: map[int]int{2: 1}},
			want: ErrInvalidLength,
		},
		{
			name: "max below min",
			cfg:  Config{MinLength: 3, MaxLength: 2, Quota: map[int]int{2: 1}},
			want: ErrInvalidLength,
		},
		{
			name: "quota outside range",
			cfg:  Config{MinLength: 2, MaxLength: 3, Quota: map[int]int{5: 1}},
			want: ErrInvalidLength,
		},
		{
			name: "empty quota",
			cfg:  Config{MinLength: 2, MaxLength: 3, Quota: map[int]int{}},
			want: ErrNoQuota,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGenerator(g, tt.cfg); !errors.Is(err, tt.want) {
				t.Errorf("NewGenerator() error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("too few words", func(t *testing.T) {
		small := graph.New()
		small.Nodes["only"] = &graph.Node{}
		_, err := NewGenerator(small, Config{MinLength: 2, MaxLength: 2, Quota: map[int]int{2: 1}})
		if !errors.Is(err, ErrTooFewWords) {
			t.Errorf("NewGenerator() error = %v, want ErrTooFewWords", err)
		}
	})
}

func TestGenerate_OnlyCandidate(t *testing.T) {
	gen, err := NewGenerator(chainGraph(), Config{
		MinLength: 2,
		MaxLength: 2,
		Quota:     map[int]int{2: 1},
		MinDegree: 1,
		Workers:   1,
		Seed:      42,
	})
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	batch, _, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(batch.Pairs) != 1 {
		t.Fatalf("got %d pairs, want 1: %+v", len(batch.Pairs), batch.Pairs)
	}
	got := batch.Pairs[0]
	want := Pair{StartWord: "a", TargetWord: "d", PathLength: 2}
	if got != want {
		t.Errorf("pair = %+v, want %+v", got, want)
	}
}

func TestGenerate_Invariants(t *testing.T) {
	g := ringGraph(10)
	gen, err := NewGenerator(g, Config{
		MinLength: 2,
		MaxLength: 3,
		Quota:     map[int]int{2: 2, 3: 2},
		MinDegree: 1,
		Workers:   2,
		Seed:      7,
	})
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	batch, stats, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	perLength := make(map[int]int)
	seenStart := make(map[string]bool)
	seenTarget := make(map[string]bool)
	seenKey := make(map[string]bool)

	for _, p := range batch.Pairs {
		if p.PathLength < 2 || p.PathLength > 3 {
			t.Errorf("pair %+v outside length range", p)
		}
		if got := path.Shortest(g, p.StartWord, p.TargetWord).Steps(); got != p.PathLength {
			t.Errorf("pair %+v: recomputed length %d", p, got)
		}
		if seenStart[p.StartWord] {
			t.Errorf("start word %s reused", p.StartWord)
		}
		if seenTarget[p.TargetWord] {
			t.Errorf("target word %s reused", p.TargetWord)
		}
		if seenKey[p.Key()] {
			t.Errorf("canonical pair %s duplicated", p.Key())
		}
		seenStart[p.StartWord] = true
		seenTarget[p.TargetWord] = true
		seenKey[p.Key()] = true
		perLength[p.PathLength]++
	}

	for length, count := range perLength {
		if count > 2 {
			t.Errorf("length %d has %d pairs, quota is 2", length, count)
		}
	}
	if stats.Accepted < len(batch.Pairs) {
		t.Errorf("stats.Accepted = %d, fewer than %d kept pairs", stats.Accepted, len(batch.Pairs))
	}
}

func TestGenerate_TerminatesOnImpossibleQuota(t *testing.T) {
	// The chain graph has no 3-hop pair with a usable target, so the quota
	// can never be met; the attempt budget must end the run.
	gen, err := NewGenerator(chainGraph(), Config{
		MinLength:   3,
		MaxLength:   3,
		Quota:       map[int]int{3: 5},
		MinDegree:   1,
		MaxAttempts: 50,
		Workers:     1,
		Seed:        1,
	})
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	batch, stats, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(batch.Pairs) != 0 {
		t.Errorf("got %d pairs, want 0", len(batch.Pairs))
	}
	if stats.Attempts == 0 {
		t.Error("no attempts recorded")
	}
}

func TestGenerate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen, err := NewGenerator(ringGraph(10), Config{
		MinLength: 2,
		MaxLength: 2,
		Quota:     map[int]int{2: 3},
		MinDegree: 1,
		Seed:      1,
	})
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	if _, _, err := gen.Generate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestFinalize(t *testing.T) {
	pairs := []Pair{
		{StartWord: "a", TargetWord: "b", PathLength: 2},
		{StartWord: "b", TargetWord: "a", PathLength: 2}, // same canonical pair
		{StartWord: "c", TargetWord: "d", PathLength: 2},
		{StartWord: "e", TargetWord: "f", PathLength: 2}, // over quota
	}

	kept, dupes, over := finalize(pairs, map[int]int{2: 2})
	if len(kept) != 2 {
		t.Fatalf("kept %d pairs, want 2: %+v", len(kept), kept)
	}
	if dupes != 1 {
		t.Errorf("dupes = %d, want 1", dupes)
	}
	if over != 1 {
		t.Errorf("over = %d, want 1", over)
	}
	if kept[0].StartWord != "a" || kept[1].StartWord != "c" {
		t.Errorf("kept wrong pairs: %+v", kept)
	}
}

func TestBatch_SaveLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pairs.json")

	batch := NewBatch([]Pair{{StartWord: "a", TargetWord: "d", PathLength: 2}})
	if batch.Version != BatchVersion {
		t.Errorf("Version = %s, want %s", batch.Version, BatchVersion)
	}
	if batch.LastUpdated == "" {
		t.Error("LastUpdated not set")
	}

	if err := batch.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := LoadBatch(p)
	if err != nil {
		t.Fatalf("LoadBatch() error = %v", err)
	}
	if loaded.Version != batch.Version || len(loaded.Pairs) != 1 || loaded.Pairs[0] != batch.Pairs[0] {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}
