// Package session runs interactive word-hop games against a move proposer,
// with checkpoint-based backtracking when the proposer gets stuck.
package session

// State is the visible game state handed to the move proposer each turn.
type State struct {
	CurrentWord string
	TargetWord  string
	Path        []string
	Neighbors   []string
	StepsTaken  int
	MaxSteps    int

	// OptimalPath is the shortest path from the original start word to the
	// target, fixed for the whole session.
	OptimalPath []string

	// SuggestedPath is the shortest path from the current word to the
	// target, recomputed after every accepted move and every backtrack.
	SuggestedPath []string

	// SuggestedMoves records, per path position, the move that was locally
	// suggested from that position at the time. Truncated alongside Path
	// on backtrack; used for labeling the path when presenting the state.
	SuggestedMoves []string

	// PrevMovesLeft is the suggested-path length from before the latest
	// move, letting the proposer see whether it is gaining ground.
	// Negative until the first move.
	PrevMovesLeft int

	// Rejected lists moves already refused this turn, with reasons.
	Rejected []Rejection
}

// SuggestedLabel reports whether the path word at index i matched the move
// suggested from the preceding position.
func (s *State) SuggestedLabel(i int) bool {
	return i > 0 && i-1 < len(s.SuggestedMoves) && s.Path[i] == s.SuggestedMoves[i-1]
}

// Rejection records a refused move and why it was refused.
type Rejection struct {
	Move   string
	Reason string
}

// MovesLeft returns the remaining step budget.
func (s *State) MovesLeft() int {
	return s.MaxSteps - s.StepsTaken
}

// SuggestedMovesLeft returns how many hops the current suggested path still
// needs, or 0 when no path is known.
func (s *State) SuggestedMovesLeft() int {
	if len(s.SuggestedPath) < 1 {
		return 0
	}
	return len(s.SuggestedPath) - 1
}

// onOptimal reports whether word lies on the session's optimal path.
func (s *State) onOptimal(word string) bool {
	for _, w := range s.OptimalPath {
		if w == word {
			return true
		}
	}
	return false
}

// onSuggested reports whether word lies on the current suggested path.
func (s *State) onSuggested(word string) bool {
	for _, w := range s.SuggestedPath {
		if w == word {
			return true
		}
	}
	return false
}

// rejectedThisTurn reports whether move was already refused this turn.
func (s *State) rejectedThisTurn(move string) bool {
	for _, r := range s.Rejected {
		if r.Move == move {
			return true
		}
	}
	return false
}
