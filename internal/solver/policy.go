package solver

// SuppressPolicy returns the probability of suppressing a direct move to the
// target. pathLen is the current path length including the start word, so
// pathLen == optimalLen means taking the target now would finish in exactly
// the optimal number of steps. Used from the second attempt onward to steer
// runs away from optimal-length solutions.
type SuppressPolicy func(attempt, pathLen, optimalLen int) float64

// DefaultSuppressPolicy suppresses hard at exactly optimal length and
// softer when within one step of it.
func DefaultSuppressPolicy(attempt, pathLen, optimalLen int) float64 {
	if attempt <= 1 {
		return 0
	}
	switch {
	case pathLen == optimalLen:
		return 0.9
	case pathLen >= optimalLen-1:
		return 0.7
	}
	return 0
}

// NoSuppression never suppresses the direct move.
func NoSuppression(attempt, pathLen, optimalLen int) float64 {
	return 0
}

// RandomnessSchedule maps an attempt number (1-based) to the exploration
// probability used for that attempt.
type RandomnessSchedule func(attempt int) float64

// Schedule builds a linear randomness schedule: base on the first attempt,
// increasing by step per attempt, capped at cap.
func Schedule(base, step, cap float64) RandomnessSchedule {
	return func(attempt int) float64 {
		r := base + step*float64(attempt-1)
		if r > cap {
			r = cap
		}
		return r
	}
}

// DefaultRandomnessSchedule starts at 0.15 and escalates by 0.05 per
// attempt, capped at 0.9 so some heuristic guidance always remains.
var DefaultRandomnessSchedule = Schedule(0.15, 0.05, 0.9)

// NoRandomness always explores greedily.
func NoRandomness(attempt int) float64 {
	return 0
}
