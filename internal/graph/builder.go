package graph

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// Errors returned by graph construction.
var (
	ErrEmptyVocabulary   = errors.New("empty vocabulary")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrInvalidK          = errors.New("neighbor count must be positive")
)

// ProgressReporter receives progress updates during graph construction.
type ProgressReporter interface {
	// OnProgress is called with the current progress.
	OnProgress(current, total int)
}

// ProgressFunc is a function adapter for ProgressReporter.
type ProgressFunc func(current, total int)

// OnProgress implements ProgressReporter.
func (f ProgressFunc) OnProgress(current, total int) {
	f(current, total)
}

// BuildConfig controls graph construction.
type BuildConfig struct {
	// K is the number of nearest neighbors kept per word.
	K int

	// Include optionally prunes the vocabulary before similarity is
	// computed (e.g. "has at least one known definition"). Nil keeps
	// every word.
	Include func(word string) bool

	// Projections maps words to 2-D projection coordinates. Words without
	// an entry get [0, 0] and are counted in BuildStats.
	Projections map[string][2]float64

	// Dense requests the quantized all-pairs similarity table as an
	// auxiliary artifact.
	Dense bool
}

// BuildStats describes a completed build.
type BuildStats struct {
	WordsTotal         int           `json:"words_total"`
	WordsKept          int           `json:"words_kept"`
	WordsFiltered      int           `json:"words_filtered"`
	MissingProjections int           `json:"missing_projections"`
	Duration           time.Duration `json:"duration"`
}

// Result holds the outputs of a build.
type Result struct {
	Graph *Graph
	Stats BuildStats

	// Dense is the quantized all-pairs similarity table (3 decimal
	// places), present only when requested.
	Dense map[string]map[string]float64
}

// Builder constructs a semantic graph from word embeddings.
type Builder struct {
	cfg      BuildConfig
	progress ProgressReporter
}

// NewBuilder creates a builder with the given configuration.
func NewBuilder(cfg BuildConfig) (*Builder, error) {
	if cfg.K <= 0 {
		return nil, ErrInvalidK
	}
	return &Builder{cfg: cfg}, nil
}

// SetProgressReporter sets the progress reporter for the builder.
func (b *Builder) SetProgressReporter(reporter ProgressReporter) {
	b.progress = reporter
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denominator := math.Sqrt(normA) * math.Sqrt(normB)
	if denominator == 0 {
		return 0
	}
	return dot / denominator
}

// Build computes the full pairwise similarity matrix over the retained
// vocabulary and assembles the graph. Fatal conditions are an empty retained
// vocabulary and inconsistent embedding dimensions. Build performs no I/O.
func (b *Builder) Build(embeddings map[string][]float32) (*Result, error) {
	start := time.Now()

	stats := BuildStats{WordsTotal: len(embeddings)}

	words := make([]string, 0, len(embeddings))
	for w := range embeddings {
		if b.cfg.Include != nil && !b.cfg.Include(w) {
			stats.WordsFiltered++
			continue
		}
		words = append(words, w)
	}
	sort.Strings(words)
	stats.WordsKept = len(words)

	if len(words) == 0 {
		return nil, ErrEmptyVocabulary
	}

	dims := len(embeddings[words[0]])
	vectors := make([][]float32, len(words))
	for i, w := range words {
		v := embeddings[w]
		if len(v) != dims {
			return nil, fmt.Errorf("%w: word %q has %d dimensions, want %d",
				ErrDimensionMismatch, w, len(v), dims)
		}
		vectors[i] = v
	}

	// Full pairwise similarity. Quadratic in vocabulary size; the
	// practical ceiling is a few thousand words.
	n := len(words)
	matrix := make([][]float64, n)
	for i := 0; i < n; i++ {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		matrix[i][i] = 1
		for j := i + 1; j < n; j++ {
			sim := CosineSimilarity(vectors[i], vectors[j])
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}

	g := New()
	for i, w := range words {
		top := selectTopK(matrix[i], i, b.cfg.K)

		coords, ok := b.cfg.Projections[w]
		if !ok {
			coords = [2]float64{0, 0}
			stats.MissingProjections++
		}

		edges := make(EdgeList, len(top))
		for k, idx := range top {
			edges[k] = Edge{Word: words[idx], Similarity: matrix[i][idx]}
		}

		g.Nodes[w] = &Node{Edges: edges, TSNE: coords}

		if b.progress != nil {
			b.progress.OnProgress(i+1, n)
		}
	}

	res := &Result{Graph: g, Stats: stats}
	if b.cfg.Dense {
		res.Dense = denseTable(words, matrix)
	}

	res.Stats.Duration = time.Since(start)
	return res, nil
}

// selectTopK returns the indices of the k highest-similarity entries in row,
// excluding self, ordered by descending similarity. A bounded min-heap keeps
// the selection partial: only the winning subset is sorted, never the whole
// row.
func selectTopK(row []float64, self, k int) []int {
	h := &rowHeap{row: row}
	for j := range row {
		if j == self {
			continue
		}
		if h.Len() < k {
			heap.Push(h, j)
		} else if row[j] > row[h.idx[0]] {
			h.idx[0] = j
			heap.Fix(h, 0)
		}
	}

	top := make([]int, len(h.idx))
	copy(top, h.idx)
	sort.Slice(top, func(a, b int) bool { return row[top[a]] > row[top[b]] })
	return top
}

// rowHeap is a min-heap of row indices keyed by similarity.
type rowHeap struct {
	row []float64
	idx []int
}

func (h *rowHeap) Len() int            { return len(h.idx) }
func (h *rowHeap) Less(i, j int) bool  { return h.row[h.idx[i]] < h.row[h.idx[j]] }
func (h *rowHeap) Swap(i, j int)       { h.idx[i], h.idx[j] = h.idx[j], h.idx[i] }
func (h *rowHeap) Push(x interface{})  { h.idx = append(h.idx, x.(int)) }
func (h *rowHeap) Pop() interface{} {
	last := h.idx[len(h.idx)-1]
	h.idx = h.idx[:len(h.idx)-1]
	return last
}

// denseTable builds the quantized all-pairs similarity table, rounded to
// 3 decimal places to keep the artifact small.
func denseTable(words []string, matrix [][]float64) map[string]map[string]float64 {
	table := make(map[string]map[string]float64, len(words))
	for i, w1 := range words {
		row := make(map[string]float64, len(words))
		for j, w2 := range words {
			row[w2] = math.Round(matrix[i][j]*1000) / 1000
		}
		table[w1] = row
	}
	return table
}
