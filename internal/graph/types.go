// Package graph defines the semantic nearest-neighbor graph built from word
// embeddings, and the builder that constructs it.
package graph

// Edge is a directed, weighted relation from a word to one of its nearest
// neighbors. Similarity is cosine similarity in [-1, 1].
type Edge struct {
	Word       string
	Similarity float64
}

// EdgeList holds a word's neighbors ordered by descending similarity.
// It marshals to a JSON object whose key order preserves that ordering.
type EdgeList []Edge

// Contains reports whether word appears in the list.
func (e EdgeList) Contains(word string) bool {
	for _, edge := range e {
		if edge.Word == word {
			return true
		}
	}
	return false
}

// Similarity returns the similarity to word, if word is a neighbor.
func (e EdgeList) Similarity(word string) (float64, bool) {
	for _, edge := range e {
		if edge.Word == word {
			return edge.Similarity, true
		}
	}
	return 0, false
}

// Node is a single word's entry in the graph: its outgoing edges and its 2-D
// projection coordinate.
type Node struct {
	Edges EdgeList   `json:"edges"`
	TSNE  [2]float64 `json:"tsne"`
}

// Graph is the semantic nearest-neighbor graph. It is built once and
// read-only thereafter; it may be disconnected.
type Graph struct {
	Nodes map[string]*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// Len returns the number of words in the graph.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Has reports whether word is in the graph.
func (g *Graph) Has(word string) bool {
	_, ok := g.Nodes[word]
	return ok
}

// Node returns the node for word, or nil if absent.
func (g *Graph) Node(word string) *Node {
	return g.Nodes[word]
}

// Degree returns the number of outgoing edges for word (0 if absent).
func (g *Graph) Degree(word string) int {
	n, ok := g.Nodes[word]
	if !ok {
		return 0
	}
	return len(n.Edges)
}

// Neighbors returns word's neighbors ordered by descending similarity.
// Returns nil if word is not in the graph.
func (g *Graph) Neighbors(word string) []string {
	n, ok := g.Nodes[word]
	if !ok {
		return nil
	}
	neighbors := make([]string, len(n.Edges))
	for i, e := range n.Edges {
		neighbors[i] = e.Word
	}
	return neighbors
}

// Similarity returns the edge weight from one word to another, if the edge
// exists.
func (g *Graph) Similarity(from, to string) (float64, bool) {
	n, ok := g.Nodes[from]
	if !ok {
		return 0, false
	}
	return n.Edges.Similarity(to)
}

// Words returns all words in the graph in unspecified order.
func (g *Graph) Words() []string {
	words := make([]string, 0, len(g.Nodes))
	for w := range g.Nodes {
		words = append(words, w)
	}
	return words
}
