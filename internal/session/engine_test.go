package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wordhop/wordhop/internal/graph"
)

// buildGraph assembles a graph from word -> neighbors with uniform
// similarity. Edges are added exactly as given (directed).
func buildGraph(adj map[string][]string) *graph.Graph {
	g := graph.New()
	for w, neighbors := range adj {
		edges := make(graph.EdgeList, 0, len(neighbors))
		for _, n := range neighbors {
			edges = append(edges, graph.Edge{Word: n, Similarity: 0.9})
		}
		g.Nodes[w] = &graph.Node{Edges: edges}
	}
	return g
}

// lineGraph builds a bidirectional chain over the given words.
func lineGraph(words ...string) *graph.Graph {
	adj := make(map[string][]string, len(words))
	for i, w := range words {
		if i > 0 {
			adj[w] = append(adj[w], words[i-1])
		}
		if i < len(words)-1 {
			adj[w] = append(adj[w], words[i+1])
		}
	}
	return buildGraph(adj)
}

// scriptProposer replays a fixed move list and records the feedback it is
// shown. When the script runs out it returns fallback forever, or errors if
// no fallback is set.
type scriptProposer struct {
	moves     []string
	fallback  string
	i         int
	feedbacks []*Feedback
}

func (p *scriptProposer) ProposeMove(ctx context.Context, state *State, fb *Feedback) (string, error) {
	p.feedbacks = append(p.feedbacks, fb)
	if p.i >= len(p.moves) {
		if p.fallback == "" {
			return "", errors.New("script exhausted")
		}
		return p.fallback, nil
	}
	move := p.moves[p.i]
	p.i++
	return move, nil
}

func assertPath(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Path = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Path = %v, want %v", got, want)
		}
	}
}

func TestRun_SolvesAlongOptimalPath(t *testing.T) {
	g := lineGraph("a", "b", "c", "d")
	p := &scriptProposer{moves: []string{"b", "c", "d"}}

	result, err := NewEngine(g, p).Run(context.Background(), "a", "d")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Status != StatusSolved {
		t.Fatalf("Status = %s (%s), want solved", result.Status, result.Reason)
	}
	assertPath(t, result.Path, []string{"a", "b", "c", "d"})
	if result.StepsTaken != 3 {
		t.Errorf("StepsTaken = %d, want 3", result.StepsTaken)
	}
	if result.OptimalLength != 3 {
		t.Errorf("OptimalLength = %d, want 3", result.OptimalLength)
	}
	if result.BacktrackAttempts != 0 {
		t.Errorf("BacktrackAttempts = %d, want 0", result.BacktrackAttempts)
	}
}

func TestRun_RejectionFeedback(t *testing.T) {
	g := lineGraph("a", "b", "c")
	p := &scriptProposer{moves: []string{
		"zzz", // not in the neighborhood
		"c",   // target, but two hops away
		"c",   // same again: rejected as a repeat this turn
		"b",
		"c",
	}}

	result, err := NewEngine(g, p).Run(context.Background(), "a", "c")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusSolved {
		t.Fatalf("Status = %s (%s), want solved", result.Status, result.Reason)
	}
	assertPath(t, result.Path, []string{"a", "b", "c"})

	wantReasons := []string{
		"",                          // first call of the game
		"is not a neighbor",         // after zzz
		"not a direct neighbor",     // after proposing the distant target
		"already rejected this turn",
		"", // fresh turn at b
	}
	if len(p.feedbacks) != len(wantReasons) {
		t.Fatalf("proposer called %d times, want %d", len(p.feedbacks), len(wantReasons))
	}
	for i, want := range wantReasons {
		fb := p.feedbacks[i]
		if want == "" {
			if fb != nil {
				t.Errorf("call %d: feedback = %+v, want none", i, fb)
			}
			continue
		}
		if fb == nil || !strings.Contains(fb.Reason, want) {
			t.Errorf("call %d: feedback = %+v, want reason containing %q", i, fb, want)
		}
	}
}

func TestRun_BacktracksToCheckpoint(t *testing.T) {
	// Optimal route is a-b-c-d; x is a dead-end detour off b. The proposer
	// wanders to x, stalls, and must be rolled back to the checkpoint at b.
	g := buildGraph(map[string][]string{
		"a": {"b"},
		"b": {"a", "c", "x"},
		"c": {"b", "d"},
		"d": {"c"},
		"x": {"b"},
	})
	p := &scriptProposer{
		moves:    []string{"b", "x", "zzz", "zzz", "zzz", "zzz", "zzz", "c", "d"},
		fallback: "zzz",
	}

	result, err := NewEngine(g, p).Run(context.Background(), "a", "d")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Status != StatusSolved {
		t.Fatalf("Status = %s (%s), want solved", result.Status, result.Reason)
	}
	assertPath(t, result.Path, []string{"a", "b", "c", "d"})
	if result.StepsTaken != 3 {
		t.Errorf("StepsTaken = %d, want 3 after rollback", result.StepsTaken)
	}
	if result.BacktrackAttempts != 1 {
		t.Errorf("BacktrackAttempts = %d, want 1", result.BacktrackAttempts)
	}

	// The first proposal after the rollback carries backtrack feedback
	// naming the checkpoint word.
	fb := p.feedbacks[7]
	if fb == nil || !fb.Backtracked {
		t.Fatalf("feedback after rollback = %+v, want Backtracked", fb)
	}
	if !strings.Contains(fb.Reason, `"b"`) {
		t.Errorf("backtrack feedback = %q, want checkpoint word named", fb.Reason)
	}
}

func TestRun_FailsWhenBacktracksExhausted(t *testing.T) {
	g := lineGraph("a", "b", "c")
	p := &scriptProposer{fallback: "zzz"}

	result, err := NewEngine(g, p, WithMaxBacktracks(0)).Run(context.Background(), "a", "c")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("Status = %s, want failed", result.Status)
	}
	if !strings.Contains(result.Reason, "no backtracks left") {
		t.Errorf("Reason = %q", result.Reason)
	}
}

func TestRun_FailsWithoutCheckpoint(t *testing.T) {
	// The proposer stalls before making a single move, so there is no
	// checkpoint to roll back to even though backtracks remain.
	g := lineGraph("a", "b", "c")
	p := &scriptProposer{fallback: "zzz"}

	result, err := NewEngine(g, p).Run(context.Background(), "a", "c")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("Status = %s, want failed", result.Status)
	}
	if !strings.Contains(result.Reason, "no checkpoint") {
		t.Errorf("Reason = %q", result.Reason)
	}
}

func TestRun_RejectsOffPathCycle(t *testing.T) {
	// s-u-s-u repeats a two-word window; u is on neither the optimal nor
	// the suggested path (both are s-v-t), so the cycle rule applies.
	g := buildGraph(map[string][]string{
		"s": {"u", "v"},
		"u": {"s", "v"},
		"v": {"s", "u", "t"},
		"t": {"v"},
	})
	p := &scriptProposer{moves: []string{"u", "s", "u", "v", "t"}}

	result, err := NewEngine(g, p).Run(context.Background(), "s", "t")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusSolved {
		t.Fatalf("Status = %s (%s), want solved", result.Status, result.Reason)
	}
	assertPath(t, result.Path, []string{"s", "u", "s", "v", "t"})

	fb := p.feedbacks[3]
	if fb == nil || !strings.Contains(fb.Reason, "cycle") {
		t.Errorf("feedback after cyclic move = %+v, want cycle rejection", fb)
	}
}

func TestRun_CycleWaivedOnSuggestedPath(t *testing.T) {
	// b-c-b-c repeats a window, but both words sit on the optimal path, so
	// the anti-cycle rule does not apply.
	g := lineGraph("a", "b", "c", "d", "e")
	p := &scriptProposer{moves: []string{"b", "c", "b", "c", "d", "e"}}

	result, err := NewEngine(g, p).Run(context.Background(), "a", "e")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusSolved {
		t.Fatalf("Status = %s (%s), want solved", result.Status, result.Reason)
	}
	assertPath(t, result.Path, []string{"a", "b", "c", "b", "c", "d", "e"})
	if result.StepsTaken != 6 {
		t.Errorf("StepsTaken = %d, want 6", result.StepsTaken)
	}
}

func TestRun_FailsOnStepBudget(t *testing.T) {
	g := lineGraph("a", "b", "c", "d")
	p := &scriptProposer{moves: []string{"b", "c"}}

	result, err := NewEngine(g, p, WithMaxSteps(2)).Run(context.Background(), "a", "d")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("Status = %s, want failed", result.Status)
	}
	if !strings.Contains(result.Reason, "max steps") {
		t.Errorf("Reason = %q", result.Reason)
	}
	if result.StepsTaken != 2 {
		t.Errorf("StepsTaken = %d, want 2", result.StepsTaken)
	}
}

func TestRun_EdgeCases(t *testing.T) {
	g := buildGraph(map[string][]string{
		"a": {"b"},
		"b": {"a"},
		"x": {},
	})

	t.Run("missing word", func(t *testing.T) {
		result, err := NewEngine(g, &scriptProposer{}).Run(context.Background(), "a", "zzz")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if result.Status != StatusFailed {
			t.Errorf("Status = %s, want failed", result.Status)
		}
	})

	t.Run("unreachable target", func(t *testing.T) {
		result, err := NewEngine(g, &scriptProposer{}).Run(context.Background(), "a", "x")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if result.Status != StatusFailed || !strings.Contains(result.Reason, "unreachable") {
			t.Errorf("result = %+v, want unreachable failure", result)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewEngine(g, &scriptProposer{fallback: "b"}).Run(ctx, "a", "b")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	})

	t.Run("proposer error", func(t *testing.T) {
		_, err := NewEngine(g, &scriptProposer{}).Run(context.Background(), "a", "b")
		if err == nil {
			t.Error("Run() should surface proposer errors")
		}
	})
}

func TestValidate_TargetReproposalException(t *testing.T) {
	g := lineGraph("a", "b", "c")
	e := NewEngine(g, &scriptProposer{})

	state := &State{
		CurrentWord: "b",
		TargetWord:  "c",
		Path:        []string{"a", "b"},
		Neighbors:   g.Neighbors("b"),
		Rejected:    []Rejection{{Move: "c", Reason: "earlier rejection"}},
	}

	if reason, ok := e.validate(state, "c"); !ok {
		t.Errorf("validate() rejected adjacent target re-proposal: %s", reason)
	}

	// A re-proposed non-target stays rejected.
	state.Rejected = []Rejection{{Move: "a", Reason: "earlier rejection"}}
	if _, ok := e.validate(state, "a"); ok {
		t.Error("validate() accepted a repeated non-target move")
	}
}
