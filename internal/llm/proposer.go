package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wordhop/wordhop/internal/session"
)

// moveResponse is the JSON object the model is asked to return.
type moveResponse struct {
	NextMove string `json:"next_move"`
}

// Proposer implements session.Proposer over a chat client.
type Proposer struct {
	client *Client
}

// NewProposer wraps a chat client as a move proposer.
func NewProposer(client *Client) *Proposer {
	return &Proposer{client: client}
}

// ProposeMove asks the model for the next move given the current state.
// The returned word is normalized to lower case with surrounding space
// stripped, matching the graph's vocabulary form.
func (p *Proposer) ProposeMove(ctx context.Context, state *session.State, feedback *session.Feedback) (string, error) {
	content, err := p.client.Complete(ctx, SystemPrompt, FormatState(state, feedback))
	if err != nil {
		return "", err
	}

	var resp moveResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return "", fmt.Errorf("parsing move response %q: %w", content, err)
	}
	if resp.NextMove == "" {
		return "", fmt.Errorf("model returned an empty move")
	}

	return NormalizeWord(resp.NextMove), nil
}

// NormalizeWord canonicalizes a model-proposed word for graph lookup.
func NormalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
