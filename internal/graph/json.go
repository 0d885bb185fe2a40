package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MarshalJSON encodes the edge list as a JSON object whose keys appear in
// list order, so descending-similarity ordering survives the round trip.
func (e EdgeList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, edge := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(edge.Word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(edge.Similarity)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into an edge list, preserving the key
// order found in the document.
func (e *EdgeList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding edges: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decoding edges: expected object, got %v", tok)
	}

	var list EdgeList
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding edge key: %w", err)
		}
		word, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decoding edge key: expected string, got %v", keyTok)
		}
		var sim float64
		if err := dec.Decode(&sim); err != nil {
			return fmt.Errorf("decoding similarity for %q: %w", word, err)
		}
		list = append(list, Edge{Word: word, Similarity: sim})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding edges: %w", err)
	}
	*e = list
	return nil
}

// artifact is the on-disk graph document shape.
type artifact struct {
	Nodes map[string]*Node `json:"nodes"`
}

// MarshalJSON encodes the graph in the artifact shape.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(artifact{Nodes: g.Nodes})
}

// UnmarshalJSON decodes a graph from the artifact shape.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Nodes == nil {
		a.Nodes = make(map[string]*Node)
	}
	g.Nodes = a.Nodes
	return nil
}

// Save writes the graph artifact to path, creating parent directories as
// needed. The write goes through a temp file and rename for atomicity.
func (g *Graph) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Load reads a graph artifact from path.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph file: %w", err)
	}

	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing graph file: %w", err)
	}
	return &g, nil
}
