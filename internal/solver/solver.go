// Package solver implements the rule-based heuristic solver for word-hop
// puzzles.
package solver

import (
	"math"
	"math/rand"
	"sort"

	"github.com/wordhop/wordhop/internal/graph"
	"github.com/wordhop/wordhop/internal/path"
)

// Status is the terminal state of a solving session.
type Status string

// Session outcomes.
const (
	StatusSolved  Status = "solved"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Heuristic score weights. The distance term dominates; the rest nudge
// choices toward well-connected words and away from cycles.
const (
	distanceWeight = 1000.0
	hubBonus       = 50.0
	cyclePenalty   = 200.0
	degreeWeight   = 2.0
	directWeight   = 100.0
)

// DefaultHubPercentile selects the top decile of words by degree as hubs.
const DefaultHubPercentile = 0.1

// DefaultTopN is the candidate pool size for exploratory picks.
const DefaultTopN = 5

// Solver searches the graph for paths between word pairs. A single Solver
// may serve many sessions; it shares only the read-only graph and the hub
// set computed at construction.
type Solver struct {
	g        *graph.Graph
	degrees  map[string]int
	hubs     map[string]bool
	rng      *rand.Rand
	suppress SuppressPolicy
	schedule RandomnessSchedule
	topN     int
}

// Option configures a Solver.
type Option func(*Solver)

// WithRand sets the random source. Outcomes are seed-dependent by design;
// pass a seeded source for reproducibility.
func WithRand(rng *rand.Rand) Option {
	return func(s *Solver) {
		s.rng = rng
	}
}

// WithSuppressPolicy sets the avoid-optimal suppression policy.
func WithSuppressPolicy(p SuppressPolicy) Option {
	return func(s *Solver) {
		s.suppress = p
	}
}

// WithRandomnessSchedule sets the per-attempt exploration schedule.
func WithRandomnessSchedule(r RandomnessSchedule) Option {
	return func(s *Solver) {
		s.schedule = r
	}
}

// WithHubPercentile sets the degree percentile used to identify hub words.
func WithHubPercentile(p float64) Option {
	return func(s *Solver) {
		s.hubs = identifyHubs(s.degrees, p)
	}
}

// WithTopN sets the candidate pool size for exploratory picks.
func WithTopN(n int) Option {
	return func(s *Solver) {
		s.topN = n
	}
}

// New creates a solver over the given graph.
func New(g *graph.Graph, opts ...Option) *Solver {
	degrees := make(map[string]int, g.Len())
	for _, w := range g.Words() {
		degrees[w] = g.Degree(w)
	}

	s := &Solver{
		g:        g,
		degrees:  degrees,
		hubs:     identifyHubs(degrees, DefaultHubPercentile),
		rng:      rand.New(rand.NewSource(rand.Int63())),
		suppress: DefaultSuppressPolicy,
		schedule: DefaultRandomnessSchedule,
		topN:     DefaultTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// identifyHubs returns the top percentile of words by degree (at least one).
func identifyHubs(degrees map[string]int, percentile float64) map[string]bool {
	if len(degrees) == 0 {
		return map[string]bool{}
	}

	type wordDegree struct {
		word   string
		degree int
	}
	sorted := make([]wordDegree, 0, len(degrees))
	for w, d := range degrees {
		sorted = append(sorted, wordDegree{w, d})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].degree != sorted[j].degree {
			return sorted[i].degree > sorted[j].degree
		}
		return sorted[i].word < sorted[j].word
	})

	numHubs := int(float64(len(sorted)) * percentile)
	if numHubs < 1 {
		numHubs = 1
	}

	hubs := make(map[string]bool, numHubs)
	for _, wd := range sorted[:numHubs] {
		hubs[wd.word] = true
	}
	return hubs
}

// IsHub reports whether word is in the hub set.
func (s *Solver) IsHub(word string) bool {
	return s.hubs[word]
}

// HubCount returns the size of the hub set.
func (s *Solver) HubCount() int {
	return len(s.hubs)
}

// Score computes the heuristic score for stepping to candidate while chasing
// target with the given path so far. A candidate equal to the target scores
// +Inf.
func (s *Solver) Score(candidate, target string, pathSoFar []string) float64 {
	if candidate == target {
		return math.Inf(1)
	}

	var score float64

	// Distance to target dominates all other terms.
	if toTarget := path.Shortest(s.g, candidate, target); !toTarget.Empty() {
		score += distanceWeight / float64(toTarget.Steps()+1)
	}

	if s.hubs[candidate] {
		score += hubBonus
	}

	for _, w := range pathSoFar {
		if w == candidate {
			score -= cyclePenalty
			break
		}
	}

	score += degreeWeight * float64(s.degrees[candidate])

	if sim, ok := s.g.Similarity(candidate, target); ok {
		score += directWeight * sim
	}

	return score
}
