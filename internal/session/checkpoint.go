package session

// Checkpoint marks a path position worth returning to: a word that was on
// the optimal or suggested path when it was visited. Each checkpoint can be
// consumed at most once; consuming one leaves every other checkpoint's state
// untouched.
type Checkpoint struct {
	Index       int
	Word        string
	OnOptimal   bool
	OnSuggested bool
	Used        bool
}

type checkpointList struct {
	entries []Checkpoint
}

// record appends a checkpoint for the word at the given path index.
func (l *checkpointList) record(index int, word string, onOptimal, onSuggested bool) {
	l.entries = append(l.entries, Checkpoint{
		Index:       index,
		Word:        word,
		OnOptimal:   onOptimal,
		OnSuggested: onSuggested,
	})
}

// consumeLatest marks the most recent usable checkpoint as used and returns
// it. A checkpoint is usable when it is unused, not the start word, and
// within the current path (positions past a previous rollback no longer
// exist). Returns false when no checkpoint qualifies.
func (l *checkpointList) consumeLatest(pathLen int) (Checkpoint, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		cp := &l.entries[i]
		if cp.Used || cp.Index <= 0 || cp.Index >= pathLen {
			continue
		}
		cp.Used = true
		return *cp, true
	}
	return Checkpoint{}, false
}
