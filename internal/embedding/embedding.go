// Package embedding provides vector embedding generation for vocabulary
// words and the persistent vocabulary index built from them.
package embedding

// Embedding represents a vector embedding of a word.
type Embedding struct {
	Vector []float32
}

// Dimensions returns the dimensionality of the embedding.
func (e Embedding) Dimensions() int {
	return len(e.Vector)
}
