package session

import (
	"context"
	"fmt"

	"github.com/wordhop/wordhop/internal/graph"
	"github.com/wordhop/wordhop/internal/path"
)

// Status is the terminal state of an interactive session.
type Status string

// Session outcomes.
const (
	StatusSolved Status = "solved"
	StatusFailed Status = "failed"
)

// Defaults for the engine's budgets.
const (
	DefaultMaxSteps      = 30
	DefaultMoveRetries   = 5
	DefaultMaxBacktracks = 3
)

// Result describes a finished session.
type Result struct {
	Path              []string `json:"path"`
	StepsTaken        int      `json:"stepsTaken"`
	Status            Status   `json:"status"`
	Reason            string   `json:"reason"`
	OptimalLength     int      `json:"optimalPathLength"`
	BacktrackAttempts int      `json:"backtrackAttempts"`
}

// Engine drives a single interactive game: it validates each proposed move
// against the graph and the anti-cycle rule, and rolls the game back to the
// most recent checkpoint when the proposer exhausts its retries for a turn.
type Engine struct {
	g             *graph.Graph
	proposer      Proposer
	maxSteps      int
	moveRetries   int
	maxBacktracks int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxSteps sets the total step budget.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) { e.maxSteps = n }
}

// WithMoveRetries sets how many proposals are accepted per turn before the
// engine backtracks.
func WithMoveRetries(n int) EngineOption {
	return func(e *Engine) { e.moveRetries = n }
}

// WithMaxBacktracks sets how many checkpoint rollbacks a session may use.
func WithMaxBacktracks(n int) EngineOption {
	return func(e *Engine) { e.maxBacktracks = n }
}

// NewEngine creates an engine over the given graph and proposer.
func NewEngine(g *graph.Graph, proposer Proposer, opts ...EngineOption) *Engine {
	e := &Engine{
		g:             g,
		proposer:      proposer,
		maxSteps:      DefaultMaxSteps,
		moveRetries:   DefaultMoveRetries,
		maxBacktracks: DefaultMaxBacktracks,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run plays one game from start to target. It returns an error only for
// infrastructure failures (proposer errors, context cancellation); game
// outcomes, including failures, are reported in the Result.
func (e *Engine) Run(ctx context.Context, start, target string) (Result, error) {
	if !e.g.Has(start) || !e.g.Has(target) {
		return Result{
			Path:   []string{start},
			Status: StatusFailed,
			Reason: "start or target word not in graph",
		}, nil
	}

	optimal := path.Shortest(e.g, start, target)
	if optimal.Empty() {
		return Result{
			Path:   []string{start},
			Status: StatusFailed,
			Reason: "target unreachable from start",
		}, nil
	}

	state := &State{
		CurrentWord:   start,
		TargetWord:    target,
		Path:          []string{start},
		Neighbors:     e.g.Neighbors(start),
		MaxSteps:      e.maxSteps,
		OptimalPath:   optimal.Words,
		SuggestedPath: optimal.Words,
		PrevMovesLeft: optimal.Steps(),
	}

	var (
		checkpoints checkpointList
		backtracks  int
		carried     *Feedback
	)

	for state.StepsTaken < e.maxSteps {
		if state.CurrentWord == target {
			return e.finish(state, StatusSolved, "reached target", optimal.Steps(), backtracks), nil
		}

		state.Rejected = nil
		feedback := carried
		carried = nil
		accepted := false

		for retry := 0; retry < e.moveRetries; retry++ {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}

			move, err := e.proposer.ProposeMove(ctx, state, feedback)
			if err != nil {
				return Result{}, fmt.Errorf("propose move: %w", err)
			}

			reason, ok := e.validate(state, move)
			if !ok {
				state.Rejected = append(state.Rejected, Rejection{Move: move, Reason: reason})
				feedback = &Feedback{Move: move, Reason: reason}
				continue
			}

			// Checkpoint against the paths as they were when the move
			// was made; the suggested path is recomputed right after.
			onOpt, onSugg := state.onOptimal(move), state.onSuggested(move)
			if onOpt || onSugg {
				checkpoints.record(len(state.Path), move, onOpt, onSugg)
			}

			e.apply(state, move, target)
			accepted = true
			break
		}

		if accepted {
			continue
		}

		if backtracks >= e.maxBacktracks {
			return e.finish(state, StatusFailed,
				fmt.Sprintf("move retries exhausted with no backtracks left (used %d)", backtracks),
				optimal.Steps(), backtracks), nil
		}
		cp, ok := checkpoints.consumeLatest(len(state.Path))
		if !ok {
			return e.finish(state, StatusFailed, "move retries exhausted and no checkpoint to return to",
				optimal.Steps(), backtracks), nil
		}

		backtracks++
		e.rollback(state, cp, target)
		carried = &Feedback{
			Backtracked: true,
			Reason:      fmt.Sprintf("backtracked to %q after repeated invalid moves", cp.Word),
		}
	}

	if state.CurrentWord == target {
		return e.finish(state, StatusSolved, "reached target", optimal.Steps(), backtracks), nil
	}
	return e.finish(state, StatusFailed,
		fmt.Sprintf("exceeded max steps (%d)", e.maxSteps), optimal.Steps(), backtracks), nil
}

// validate checks a proposed move against the game rules. It returns a
// rejection reason when the move is refused.
func (e *Engine) validate(state *State, move string) (reason string, ok bool) {
	isNeighbor := false
	for _, n := range state.Neighbors {
		if n == move {
			isNeighbor = true
			break
		}
	}

	if state.rejectedThisTurn(move) {
		// A re-proposed target that really is adjacent ends the game
		// rather than burning the turn.
		if move == state.TargetWord && isNeighbor {
			return "", true
		}
		return "move was already rejected this turn", false
	}

	if move == state.TargetWord && !isNeighbor {
		return "target is not a direct neighbor of the current word", false
	}
	if !isNeighbor {
		return fmt.Sprintf("%q is not a neighbor of %q", move, state.CurrentWord), false
	}

	candidate := append(append([]string(nil), state.Path...), move)
	if detectRepeatedCycle(candidate) && !state.onOptimal(move) && !state.onSuggested(move) {
		return "move repeats a recent cycle", false
	}

	return "", true
}

// apply commits an accepted move to the state.
func (e *Engine) apply(state *State, move, target string) {
	if len(state.SuggestedPath) > 1 {
		state.SuggestedMoves = append(state.SuggestedMoves, state.SuggestedPath[1])
	} else {
		state.SuggestedMoves = append(state.SuggestedMoves, "")
	}
	state.PrevMovesLeft = state.SuggestedMovesLeft()

	state.Path = append(state.Path, move)
	state.CurrentWord = move
	state.StepsTaken++
	state.Neighbors = e.g.Neighbors(move)
	state.Rejected = nil
	if move == target {
		state.SuggestedPath = []string{target}
		return
	}
	state.SuggestedPath = path.Shortest(e.g, move, target).Words
}

// rollback rewinds the state to a checkpoint: position, step count, and
// every derived field reset to what they were at that path index.
func (e *Engine) rollback(state *State, cp Checkpoint, target string) {
	state.Path = state.Path[:cp.Index+1]
	state.CurrentWord = cp.Word
	state.StepsTaken = cp.Index
	state.Neighbors = e.g.Neighbors(cp.Word)
	state.SuggestedPath = path.Shortest(e.g, cp.Word, target).Words
	state.PrevMovesLeft = state.SuggestedMovesLeft()
	state.SuggestedMoves = state.SuggestedMoves[:cp.Index]
	state.Rejected = nil
}

func (e *Engine) finish(state *State, status Status, reason string, optimalLen, backtracks int) Result {
	return Result{
		Path:              state.Path,
		StepsTaken:        state.StepsTaken,
		Status:            status,
		Reason:            reason,
		OptimalLength:     optimalLen,
		BacktrackAttempts: backtracks,
	}
}
