package llm

import (
	"fmt"
	"strings"

	"github.com/wordhop/wordhop/internal/session"
)

// SystemPrompt frames the navigation game for the model.
const SystemPrompt = `You are an AI playing a semantic word navigation game.
Goal: Reach the Target Word from the Current Word using only the nearest neighbors listed at each step.

Game Information:
-   (O) = Globally optimal path move (overall shortest path).
-   (S) = Locally optimal path move (currently shortest path).

Strategies:
-   Your PRIMARY goal is to reach the target word. Choose moves that get you closer to it. You CANNOT simply choose the target word without playing the game.
-   Watch the 'moves left' count - it should decrease with each move toward the target.
-   Semantic similarity is just a means to connect words - don't stay close to the start word.
-   Consider hub words (polysemous/well-connected) that might bridge to the target.
-   Pay attention to the path so far and try to avoid cycles and repeated words.

Let's think step by step.

Respond with a JSON object: {"next_move": "<word>"}`

// FormatState renders the game state as the user message for one proposal.
// Path entries are annotated with (O) when they lie on the globally optimal
// path and (S) when they matched the locally suggested move at the time.
func FormatState(state *session.State, feedback *session.Feedback) string {
	var b strings.Builder

	if feedback != nil {
		if feedback.Backtracked {
			fmt.Fprintf(&b, "Backtracked to %q as it was a known good position in the path. Please try a different move from here.\n", state.CurrentWord)
		} else {
			fmt.Fprintf(&b, "Previous move was invalid: %q. %s\n", feedback.Move, feedback.Reason)
		}
	}

	labeled := make([]string, len(state.Path))
	for i, word := range state.Path {
		label := ""
		if onPath(state.OptimalPath, word) {
			label += " (O)"
		}
		if state.SuggestedLabel(i) {
			label += " (S)"
		}
		labeled[i] = word + label
	}

	fmt.Fprintf(&b, `
Current Word: %s
Target Word: %s
Moves left: %d (previous: %d)
Path So Far: %s

Available Moves (nearest neighbors):
`, state.CurrentWord, state.TargetWord, state.SuggestedMovesLeft(), state.PrevMovesLeft, strings.Join(labeled, " -> "))

	for _, n := range state.Neighbors {
		fmt.Fprintf(&b, "- %s\n", n)
	}

	return b.String()
}

func onPath(path []string, word string) bool {
	for _, w := range path {
		if w == word {
			return true
		}
	}
	return false
}
