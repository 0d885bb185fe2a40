package solver

import (
	"fmt"
	"math"
	"sort"

	"github.com/wordhop/wordhop/internal/path"
)

// Attempt is the outcome of a single solving attempt.
type Attempt struct {
	Path        []string
	Steps       int
	Status      Status
	Reason      string
	StrategyLog []string
	Randomness  float64
}

// Result is the outcome of a full solving session, possibly spanning
// multiple attempts.
type Result struct {
	Path          []string `json:"path"`
	Steps         int      `json:"stepsTaken"`
	Status        Status   `json:"status"`
	Reason        string   `json:"reason"`
	StrategyLog   []string `json:"strategyLog,omitempty"`
	OptimalLength int      `json:"optimalPathLength"`
	Efficiency    float64  `json:"efficiency,omitempty"`
	Attempts      int      `json:"attempts"`
	Retried       bool     `json:"retried"`
}

// SolveWithRetries solves a puzzle with escalating randomness across
// attempts. The true optimal length is computed once up front. From the
// second attempt onward the solver actively avoids reproducing the optimal
// length; a solved attempt is accepted only when its step count exceeds the
// optimal by at least 2, except on the final retry, which accepts whatever
// was found.
func (s *Solver) SolveWithRetries(start, target string, maxSteps, maxRetries int) Result {
	if !s.g.Has(start) || !s.g.Has(target) {
		return Result{
			Path:   []string{start},
			Status: StatusFailed,
			Reason: "start or target word not in graph",
		}
	}
	if start == target {
		return Result{
			Path:          []string{start},
			Status:        StatusSolved,
			Reason:        "start equals target",
			OptimalLength: 0,
			Attempts:      1,
		}
	}

	optimal := path.Shortest(s.g, start, target)
	optimalLen := optimal.Steps()
	if optimal.Empty() {
		// Unreachable pairs can never be solved, but attempts still run
		// so the caller gets a partial path and a reason.
		optimalLen = math.MaxInt32
	}

	var last Attempt
	for attempt := 1; attempt <= maxRetries; attempt++ {
		randomness := s.schedule(attempt)
		avoidOptimal := attempt > 1

		last = s.solveAttempt(start, target, maxSteps, optimalLen, attempt, avoidOptimal, randomness)

		if last.Status != StatusSolved {
			continue
		}
		if last.Steps > optimalLen+1 || attempt == maxRetries {
			return resultFrom(last, optimalLen, attempt)
		}
		// Too close to optimal; retry with more randomness.
	}

	res := resultFrom(last, optimalLen, maxRetries)
	if res.Status != StatusSolved {
		res.Reason = fmt.Sprintf("%s (failed after %d attempts)", res.Reason, maxRetries)
	}
	return res
}

func resultFrom(a Attempt, optimalLen, attempts int) Result {
	res := Result{
		Path:          a.Path,
		Steps:         a.Steps,
		Status:        a.Status,
		Reason:        a.Reason,
		StrategyLog:   a.StrategyLog,
		OptimalLength: optimalLen,
		Attempts:      attempts,
		Retried:       attempts > 1,
	}
	if a.Status == StatusSolved && optimalLen > 0 && optimalLen != math.MaxInt32 {
		res.Efficiency = float64(a.Steps) / float64(optimalLen)
	}
	return res
}

// solveAttempt walks the graph once: SEARCHING until either the target is
// reached (SOLVED) or no usable neighbors remain / the step budget runs out
// (FAILED).
func (s *Solver) solveAttempt(start, target string, maxSteps, optimalLen, attempt int, avoidOptimal bool, randomness float64) Attempt {
	current := start
	pathSoFar := []string{start}
	steps := 0
	var log []string

	if attempt > 1 {
		log = append(log, fmt.Sprintf("attempt %d: randomness factor %.2f", attempt, randomness))
	}

	fail := func(reason string) Attempt {
		return Attempt{
			Path:        pathSoFar,
			Steps:       steps,
			Status:      StatusFailed,
			Reason:      reason,
			StrategyLog: log,
			Randomness:  randomness,
		}
	}
	solved := func() Attempt {
		return Attempt{
			Path:        pathSoFar,
			Steps:       steps,
			Status:      StatusSolved,
			Reason:      fmt.Sprintf("reached target in %d steps", steps),
			StrategyLog: log,
			Randomness:  randomness,
		}
	}

	for steps < maxSteps && current != target {
		neighbors := s.g.Neighbors(current)
		if len(neighbors) == 0 {
			return fail("no neighbors available")
		}

		// Direct move to the target, unless avoidance suppresses it.
		if contains(neighbors, target) {
			suppressP := 0.0
			if avoidOptimal {
				suppressP = s.suppress(attempt, len(pathSoFar), optimalLen)
			}
			if suppressP > 0 && s.rng.Float64() < suppressP {
				neighbors = without(neighbors, target)
				log = append(log, fmt.Sprintf("step %d: suppressed direct target move", steps+1))
			} else {
				pathSoFar = append(pathSoFar, target)
				steps++
				log = append(log, fmt.Sprintf("step %d: chose %s (direct target)", steps, target))
				return solved()
			}
		}

		if len(neighbors) == 0 {
			return fail("no valid neighbors after filtering")
		}

		type scored struct {
			word  string
			score float64
		}
		candidates := make([]scored, len(neighbors))
		for i, n := range neighbors {
			candidates[i] = scored{n, s.Score(n, target, pathSoFar)}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].score > candidates[j].score
		})

		var next string
		if len(candidates) > 1 && s.rng.Float64() < randomness {
			topN := s.topN
			if topN > len(candidates) {
				topN = len(candidates)
			}
			next = candidates[s.rng.Intn(topN)].word
			log = append(log, fmt.Sprintf("step %d: random pick from top %d: %s", steps+1, topN, next))
		} else {
			next = candidates[0].word
			log = append(log, fmt.Sprintf("step %d: best heuristic choice: %s (%.2f)", steps+1, next, candidates[0].score))
		}

		pathSoFar = append(pathSoFar, next)
		current = next
		steps++

		// Anti-cycle escape: if recent steps collapse onto a couple of
		// words, jump to a fresh hub neighbor.
		if len(pathSoFar) > 10 && distinctTail(pathSoFar, 5) <= 2 {
			var hubChoices []string
			for _, n := range s.g.Neighbors(current) {
				if s.hubs[n] && !inTail(pathSoFar, n, 3) {
					hubChoices = append(hubChoices, n)
				}
			}
			if len(hubChoices) > 0 {
				current = hubChoices[s.rng.Intn(len(hubChoices))]
				pathSoFar = append(pathSoFar, current)
				steps++
				log = append(log, fmt.Sprintf("step %d: anti-cycle hub jump: %s", steps, current))
			}
		}
	}

	if current == target {
		return solved()
	}
	return fail(fmt.Sprintf("exceeded max steps (%d)", maxSteps))
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

func without(words []string, w string) []string {
	out := words[:0:0]
	for _, x := range words {
		if x != w {
			out = append(out, x)
		}
	}
	return out
}

// distinctTail counts distinct words among the last n path entries.
func distinctTail(pathSoFar []string, n int) int {
	if len(pathSoFar) < n {
		n = len(pathSoFar)
	}
	seen := make(map[string]bool, n)
	for _, w := range pathSoFar[len(pathSoFar)-n:] {
		seen[w] = true
	}
	return len(seen)
}

// inTail reports whether w appears in the last n path entries.
func inTail(pathSoFar []string, w string, n int) bool {
	if len(pathSoFar) < n {
		n = len(pathSoFar)
	}
	for _, x := range pathSoFar[len(pathSoFar)-n:] {
		if x == w {
			return true
		}
	}
	return false
}
