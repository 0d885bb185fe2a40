package puzzle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/wordhop/wordhop/internal/graph"
	"github.com/wordhop/wordhop/internal/path"
)

// Errors returned by the generator.
var (
	ErrNoQuota       = errors.New("no pairs requested")
	ErrTooFewWords   = errors.New("graph has fewer than two words")
	ErrInvalidLength = errors.New("invalid path length range")
)

// DefaultShortLengthMax is the target length at or below which the
// projection-distance and degree thresholds are relaxed.
const DefaultShortLengthMax = 4

// Config controls pair generation.
type Config struct {
	// MinLength and MaxLength bound acceptable shortest-path lengths.
	MinLength int
	MaxLength int

	// Quota maps path length to the number of pairs wanted.
	Quota map[int]int

	// MaxAttempts bounds consecutive failed draws per worker, guaranteeing
	// termination even when the quota cannot be met.
	MaxAttempts int

	// MinDegree is the minimum node degree for both endpoints (relaxed to
	// 1 for short target lengths).
	MinDegree int

	// MinProjDistSq is the minimum squared Euclidean distance between the
	// endpoints' projection coordinates (halved for short target lengths).
	MinProjDistSq float64

	// ShortLengthMax marks lengths that get relaxed thresholds.
	// Defaults to DefaultShortLengthMax.
	ShortLengthMax int

	// Workers is the number of concurrent sampling workers.
	// Defaults to min(NumCPU, 4).
	Workers int

	// Seed seeds the sampling randomness. Zero means unseeded behavior is
	// still deterministic per seed value; callers wanting varied batches
	// pass a time-derived seed.
	Seed int64
}

// Stats describes a completed generation run.
type Stats struct {
	Attempts          int `json:"attempts"`
	Accepted          int `json:"accepted"`
	RejectedUsed      int `json:"rejected_used"`
	RejectedDistance  int `json:"rejected_distance"`
	RejectedDegree    int `json:"rejected_degree"`
	RejectedLength    int `json:"rejected_length"`
	DuplicatesDropped int `json:"duplicates_dropped"`
	OverQuotaDropped  int `json:"over_quota_dropped"`
}

// Generator produces batches of validated puzzle pairs.
type Generator struct {
	g     *graph.Graph
	words []string
	cfg   Config
}

// NewGenerator validates the configuration and prepares a generator.
func NewGenerator(g *graph.Graph, cfg Config) (*Generator, error) {
	if cfg.MinLength <= 0 || cfg.MaxLength < cfg.MinLength {
		return nil, ErrInvalidLength
	}
	total := 0
	for length, count := range cfg.Quota {
		if length < cfg.MinLength || length > cfg.MaxLength {
			return nil, fmt.Errorf("%w: quota length %d outside [%d, %d]",
				ErrInvalidLength, length, cfg.MinLength, cfg.MaxLength)
		}
		total += count
	}
	if total <= 0 {
		return nil, ErrNoQuota
	}
	if g.Len() < 2 {
		return nil, ErrTooFewWords
	}

	if cfg.ShortLengthMax == 0 {
		cfg.ShortLengthMax = DefaultShortLengthMax
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
		if cfg.Workers > 4 {
			cfg.Workers = 4
		}
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 200
	}

	words := g.Words()
	sort.Strings(words)

	return &Generator{g: g, words: words, cfg: cfg}, nil
}

// Generate runs rejection sampling across workers until quotas are met,
// attempt budgets are exhausted, or ctx is canceled. The returned batch has
// been through the dedupe pass; stats report what was drawn and dropped.
func (gen *Generator) Generate(ctx context.Context) (Batch, Stats, error) {
	coord := newCoordinator(gen.cfg.Quota)

	var (
		wg       sync.WaitGroup
		statsMu  sync.Mutex
		combined Stats
	)

	for w := 0; w < gen.cfg.Workers; w++ {
		wg.Add(1)
		rng := rand.New(rand.NewSource(gen.cfg.Seed + int64(w)))
		go func(rng *rand.Rand) {
			defer wg.Done()
			s := gen.work(ctx, coord, rng)
			statsMu.Lock()
			combined.Attempts += s.Attempts
			combined.Accepted += s.Accepted
			combined.RejectedUsed += s.RejectedUsed
			combined.RejectedDistance += s.RejectedDistance
			combined.RejectedDegree += s.RejectedDegree
			combined.RejectedLength += s.RejectedLength
			statsMu.Unlock()
		}(rng)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Batch{}, combined, err
	}

	pairs, dupes, over := finalize(coord.result(), gen.cfg.Quota)
	combined.DuplicatesDropped = dupes
	combined.OverQuotaDropped = over

	return NewBatch(pairs), combined, nil
}

// work is a single sampling worker. It draws uniformly random candidate
// pairs and validates each one, stopping after MaxAttempts consecutive
// rejections or when the batch is complete.
func (gen *Generator) work(ctx context.Context, coord *coordinator, rng *rand.Rand) Stats {
	var s Stats
	misses := 0

	for misses < gen.cfg.MaxAttempts && !coord.done() {
		select {
		case <-ctx.Done():
			return s
		default:
		}

		s.Attempts++
		misses++

		startWord := gen.words[rng.Intn(len(gen.words))]
		targetWord := gen.words[rng.Intn(len(gen.words))]
		if startWord == targetWord {
			continue
		}

		startFree, targetFree := coord.snapshot(startWord, targetWord)
		if !startFree || !targetFree {
			s.RejectedUsed++
			continue
		}

		// The candidate's eventual length is unknown before Dijkstra
		// runs, so pre-path checks use the relaxed thresholds whenever
		// a short length still has quota; the strict variants are
		// re-applied after the length is known.
		relaxed := coord.shortestNeeded() <= gen.cfg.ShortLengthMax

		distSq := projDistSq(gen.g, startWord, targetWord)
		minDist := gen.cfg.MinProjDistSq
		if relaxed {
			minDist = minDist / 2
		}
		if distSq < minDist {
			s.RejectedDistance++
			continue
		}

		minDegree := gen.cfg.MinDegree
		if relaxed {
			minDegree = 1
		}
		startDegree := gen.g.Degree(startWord)
		targetDegree := gen.g.Degree(targetWord)
		if startDegree < minDegree || targetDegree < minDegree {
			s.RejectedDegree++
			continue
		}

		length := path.Shortest(gen.g, startWord, targetWord).Steps()
		if length < gen.cfg.MinLength || length > gen.cfg.MaxLength {
			s.RejectedLength++
			continue
		}
		if !coord.needs(length) {
			s.RejectedLength++
			continue
		}

		// Long pairs validated under relaxed thresholds must still
		// satisfy the strict ones.
		if length > gen.cfg.ShortLengthMax {
			if distSq < gen.cfg.MinProjDistSq {
				s.RejectedDistance++
				continue
			}
			if startDegree < gen.cfg.MinDegree || targetDegree < gen.cfg.MinDegree {
				s.RejectedDegree++
				continue
			}
		}

		p := Pair{StartWord: startWord, TargetWord: targetWord, PathLength: length}
		if !coord.claim(p) {
			s.RejectedUsed++
			continue
		}
		s.Accepted++
		misses = 0
	}
	return s
}

// projDistSq returns the squared Euclidean distance between two words'
// projection coordinates.
func projDistSq(g *graph.Graph, a, b string) float64 {
	na, nb := g.Node(a), g.Node(b)
	dx := na.TSNE[0] - nb.TSNE[0]
	dy := na.TSNE[1] - nb.TSNE[1]
	return dx*dx + dy*dy
}

// finalize is the post-hoc pass that resolves best-effort races: it drops
// duplicate canonical pairs and trims per-length overshoot beyond the quota.
func finalize(pairs []Pair, quota map[int]int) (kept []Pair, dupes, over int) {
	seen := make(map[string]bool, len(pairs))
	remaining := make(map[int]int, len(quota))
	for length, count := range quota {
		remaining[length] = count
	}

	kept = make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if seen[p.Key()] {
			dupes++
			continue
		}
		if remaining[p.PathLength] <= 0 {
			over++
			continue
		}
		seen[p.Key()] = true
		remaining[p.PathLength]--
		kept = append(kept, p)
	}
	return kept, dupes, over
}
