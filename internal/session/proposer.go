package session

import "context"

// Feedback carries the engine's reaction to the proposer's previous move.
// A nil Feedback means this is the first proposal of a fresh turn.
type Feedback struct {
	Move        string
	Reason      string
	Backtracked bool
}

// Proposer picks the next move given the visible game state. Implementations
// may call out to an LLM or apply a local policy; either way they must return
// a single word.
type Proposer interface {
	ProposeMove(ctx context.Context, state *State, feedback *Feedback) (string, error)
}

// ProposerFunc adapts a function to the Proposer interface.
type ProposerFunc func(ctx context.Context, state *State, feedback *Feedback) (string, error)

// ProposeMove calls f.
func (f ProposerFunc) ProposeMove(ctx context.Context, state *State, feedback *Feedback) (string, error) {
	return f(ctx, state, feedback)
}
