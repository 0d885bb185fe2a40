package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Game holds the tunable gameplay parameters stored in .wordhop/game.yaml.
// Zero values are filled in with defaults on load.
type Game struct {
	// Graph construction.
	Neighbors int `yaml:"neighbors"` // edges kept per word

	// Pair generation.
	MinPathLength int         `yaml:"min_path_length"`
	MaxPathLength int         `yaml:"max_path_length"`
	Quota         map[int]int `yaml:"quota"` // pairs wanted per path length
	MaxAttempts   int         `yaml:"max_attempts"`
	MinDegree     int         `yaml:"min_degree"`
	MinProjDistSq float64     `yaml:"min_proj_dist_sq"`

	// Solving.
	MaxSteps      int     `yaml:"max_steps"`
	MaxRetries    int     `yaml:"max_retries"`
	HubPercentile float64 `yaml:"hub_percentile"`

	// Interactive play.
	MoveRetries   int `yaml:"move_retries"`
	MaxBacktracks int `yaml:"max_backtracks"`
}

// DefaultGame returns the stock gameplay parameters.
func DefaultGame() *Game {
	return &Game{
		Neighbors:     5,
		MinPathLength: 4,
		MaxPathLength: 5,
		Quota:         map[int]int{4: 185, 5: 220},
		MaxAttempts:   200,
		MinDegree:     3,
		MinProjDistSq: 400,
		MaxSteps:      30,
		MaxRetries:    50,
		HubPercentile: 0.1,
		MoveRetries:   5,
		MaxBacktracks: 3,
	}
}

// LoadGame reads gameplay parameters from the repository at the given root.
// A missing file returns the defaults.
func LoadGame(root string) (*Game, error) {
	data, err := os.ReadFile(GamePath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultGame(), nil
		}
		return nil, fmt.Errorf("reading game config: %w", err)
	}

	g := DefaultGame()
	if err := yaml.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("parsing game config: %w", err)
	}
	g.applyDefaults()

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Save writes gameplay parameters to the repository at the given root.
func (g *Game) Save(root string) error {
	data, err := yaml.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding game config: %w", err)
	}
	if err := os.WriteFile(GamePath(root), data, 0644); err != nil {
		return fmt.Errorf("writing game config: %w", err)
	}
	return nil
}

// applyDefaults fills zero-valued fields from the defaults, so a partial
// game.yaml only overrides what it names.
func (g *Game) applyDefaults() {
	d := DefaultGame()
	if g.Neighbors == 0 {
		g.Neighbors = d.Neighbors
	}
	if g.MinPathLength == 0 {
		g.MinPathLength = d.MinPathLength
	}
	if g.MaxPathLength == 0 {
		g.MaxPathLength = d.MaxPathLength
	}
	if len(g.Quota) == 0 {
		g.Quota = d.Quota
	}
	if g.MaxAttempts == 0 {
		g.MaxAttempts = d.MaxAttempts
	}
	if g.MinDegree == 0 {
		g.MinDegree = d.MinDegree
	}
	if g.MinProjDistSq == 0 {
		g.MinProjDistSq = d.MinProjDistSq
	}
	if g.MaxSteps == 0 {
		g.MaxSteps = d.MaxSteps
	}
	if g.MaxRetries == 0 {
		g.MaxRetries = d.MaxRetries
	}
	if g.HubPercentile == 0 {
		g.HubPercentile = d.HubPercentile
	}
	if g.MoveRetries == 0 {
		g.MoveRetries = d.MoveRetries
	}
	if g.MaxBacktracks == 0 {
		g.MaxBacktracks = d.MaxBacktracks
	}
}

// Validate rejects inconsistent gameplay parameters.
func (g *Game) Validate() error {
	if g.Neighbors < 1 {
		return fmt.Errorf("neighbors must be at least 1, got %d", g.Neighbors)
	}
	if g.MinPathLength < 1 || g.MaxPathLength < g.MinPathLength {
		return fmt.Errorf("invalid path length range [%d, %d]", g.MinPathLength, g.MaxPathLength)
	}
	for length := range g.Quota {
		if length < g.MinPathLength || length > g.MaxPathLength {
			return fmt.Errorf("quota length %d outside [%d, %d]", length, g.MinPathLength, g.MaxPathLength)
		}
	}
	if g.HubPercentile <= 0 || g.HubPercentile > 1 {
		return fmt.Errorf("hub_percentile must be in (0, 1], got %g", g.HubPercentile)
	}
	return nil
}
