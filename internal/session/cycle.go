package session

// maxCycleLen bounds the repeated-window sizes checked by detectRepeatedCycle.
const maxCycleLen = 6

// detectRepeatedCycle reports whether the sequence ends in a window of
// length 2..maxCycleLen that has already appeared earlier, i.e. the same
// stretch of words has now been walked at least twice.
func detectRepeatedCycle(seq []string) bool {
	for length := 2; length <= maxCycleLen && length*2 <= len(seq); length++ {
		tail := seq[len(seq)-length:]
		count := 0
		for i := 0; i+length <= len(seq); i++ {
			if equalWindow(seq[i:i+length], tail) {
				count++
			}
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

func equalWindow(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
