// Package path implements shortest-path search over the semantic graph.
//
// Edge cost is 1 - similarity, so hops between closely related words are
// cheap. Every call runs Dijkstra from scratch; there is no caching, which
// makes this the dominant cost center for the generator and the solver.
package path

import (
	"container/heap"

	"github.com/wordhop/wordhop/internal/graph"
)

// Result is an ordered word sequence from start to end inclusive, with the
// summed edge cost. An empty Words slice means unreachable or an endpoint
// missing from the graph.
type Result struct {
	Words []string
	Cost  float64
}

// Empty reports whether no path was found.
func (r Result) Empty() bool {
	return len(r.Words) == 0
}

// Steps returns the number of hops in the path (0 for empty or trivial
// paths).
func (r Result) Steps() int {
	if len(r.Words) == 0 {
		return 0
	}
	return len(r.Words) - 1
}

// item is a heap entry. Stale duplicates are pushed instead of decreasing
// keys in place and skipped on pop.
type item struct {
	word string
	dist float64
}

type minHeap []item

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(item)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]
	return last
}

// Shortest returns the minimum-cost path from start to end. It terminates as
// soon as end is settled or the frontier is exhausted. Tie-breaking among
// equal-cost alternatives follows heap order and is not deterministic;
// callers must not depend on a specific path among ties.
func Shortest(g *graph.Graph, start, end string) Result {
	if !g.Has(start) || !g.Has(end) {
		return Result{}
	}
	if start == end {
		return Result{Words: []string{start}}
	}

	dist := map[string]float64{start: 0}
	prev := make(map[string]string)
	visited := make(map[string]bool)

	pq := &minHeap{{word: start, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(item)
		if visited[cur.word] {
			continue
		}
		visited[cur.word] = true

		if cur.word == end {
			break
		}

		for _, e := range g.Nodes[cur.word].Edges {
			if visited[e.Word] {
				continue
			}
			alt := cur.dist + (1 - e.Similarity)
			if d, ok := dist[e.Word]; !ok || alt < d {
				dist[e.Word] = alt
				prev[e.Word] = cur.word
				heap.Push(pq, item{word: e.Word, dist: alt})
			}
		}
	}

	endDist, ok := dist[end]
	if !ok {
		return Result{}
	}

	var words []string
	for cur := end; ; {
		words = append(words, cur)
		if cur == start {
			break
		}
		cur = prev[cur]
	}
	for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
		words[i], words[j] = words[j], words[i]
	}

	return Result{Words: words, Cost: endDist}
}
