package puzzle

import "sync"

// coordinator is the shared state service for concurrent workers. It exposes
// a cheap read snapshot used during candidate validation and an atomic claim
// used at acceptance time.
//
// Consistency is deliberately best-effort: the snapshot a worker validates
// against may be stale by the time it claims, and claims do not re-check the
// quota, so a handful of over-quota accepts can slip through. Finalize
// resolves those afterwards. This is cheaper than serializing every draw
// around the Dijkstra call.
type coordinator struct {
	mu         sync.Mutex
	remaining  map[int]int
	usedStart  map[string]bool
	usedTarget map[string]bool
	pairs      []Pair
}

func newCoordinator(quota map[int]int) *coordinator {
	remaining := make(map[int]int, len(quota))
	for length, count := range quota {
		remaining[length] = count
	}
	return &coordinator{
		remaining:  remaining,
		usedStart:  make(map[string]bool),
		usedTarget: make(map[string]bool),
	}
}

// snapshot reports whether the words are still free in their roles.
func (c *coordinator) snapshot(start, target string) (startFree, targetFree bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.usedStart[start], !c.usedTarget[target]
}

// needs reports whether any pairs of the given length are still wanted.
func (c *coordinator) needs(length int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining[length] > 0
}

// shortestNeeded returns the smallest path length with remaining quota,
// or 0 when the batch is complete.
func (c *coordinator) shortestNeeded() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	shortest := 0
	for length, count := range c.remaining {
		if count > 0 && (shortest == 0 || length < shortest) {
			shortest = length
		}
	}
	return shortest
}

// done reports whether every length's quota has been met.
func (c *coordinator) done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, count := range c.remaining {
		if count > 0 {
			return false
		}
	}
	return true
}

// claim atomically reserves the pair's start and target roles and decrements
// the quota for its length. The word-role check is strict; the quota is
// decremented without re-validation, so it may go slightly negative under
// contention.
func (c *coordinator) claim(p Pair) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.usedStart[p.StartWord] || c.usedTarget[p.TargetWord] {
		return false
	}
	c.usedStart[p.StartWord] = true
	c.usedTarget[p.TargetWord] = true
	c.remaining[p.PathLength]--
	c.pairs = append(c.pairs, p)
	return true
}

// result returns the accepted pairs.
func (c *coordinator) result() []Pair {
	c.mu.Lock()
	defer c.mu.Unlock()
	pairs := make([]Pair, len(c.pairs))
	copy(pairs, c.pairs)
	return pairs
}
