package embedding

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Errors returned by vocabulary index operations.
var (
	ErrVocabNotFound      = errors.New("vocabulary index not found")
	ErrWordNotIndexed     = errors.New("word not in vocabulary index")
	ErrUnsupportedVersion = errors.New("unsupported vocabulary index version")
)

// CurrentVocabVersion is the format version for compatibility checking.
// Increment this when making breaking changes to the index format.
const CurrentVocabVersion = 1

// VocabIndex holds the embedding vector for every vocabulary word, keyed by
// the word itself. It is the persistent input to graph building.
type VocabIndex struct {
	Version    int
	ModelName  string
	Dimensions int
	CreatedAt  time.Time
	WordCount  int
	Vectors    map[string][]float32
}

// NewVocabIndex creates a new empty vocabulary index.
func NewVocabIndex(modelName string, dimensions int) *VocabIndex {
	return &VocabIndex{
		Version:    CurrentVocabVersion,
		ModelName:  modelName,
		Dimensions: dimensions,
		CreatedAt:  time.Now(),
		Vectors:    make(map[string][]float32),
	}
}

// Add stores a word's embedding vector. The WordCount field is kept in sync
// with the vector map.
func (idx *VocabIndex) Add(word string, vector []float32) error {
	if len(vector) != idx.Dimensions {
		return fmt.Errorf("embedding dimension mismatch for %q: got %d, want %d",
			word, len(vector), idx.Dimensions)
	}
	idx.Vectors[word] = vector
	idx.WordCount = len(idx.Vectors)
	return nil
}

// Vector returns the stored embedding for a word.
func (idx *VocabIndex) Vector(word string) ([]float32, error) {
	v, ok := idx.Vectors[word]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWordNotIndexed, word)
	}
	return v, nil
}

// Words returns every indexed word in map order.
func (idx *VocabIndex) Words() []string {
	words := make([]string, 0, len(idx.Vectors))
	for w := range idx.Vectors {
		words = append(words, w)
	}
	return words
}

// Save persists the index to path using GOB encoding. The write goes to a
// temp file first, then renames for atomicity.
func (idx *VocabIndex) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	enc := gob.NewEncoder(f)
	if err := enc.Encode(idx); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding index: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// LoadVocab reads a vocabulary index from disk.
// Returns ErrUnsupportedVersion for incompatible formats.
func LoadVocab(path string) (*VocabIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrVocabNotFound
		}
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	var idx VocabIndex
	dec := gob.NewDecoder(f)
	if err := dec.Decode(&idx); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}

	if idx.Version != CurrentVocabVersion {
		return nil, fmt.Errorf("%w: got %d, want %d (rebuild with 'wh embed build')",
			ErrUnsupportedVersion, idx.Version, CurrentVocabVersion)
	}

	return &idx, nil
}

// ProgressFunc reports embedding progress: done of total, and the word just
// embedded.
type ProgressFunc func(done, total int, word string)

// BuildVocab embeds every word through the provider and returns a populated
// index. Words already present in resume (may be nil) are carried over
// without re-embedding, so interrupted builds can pick up where they left
// off. Progress (may be nil) is called after every word, carried or fresh.
func BuildVocab(ctx context.Context, provider Provider, words []string, resume *VocabIndex, progress ProgressFunc) (*VocabIndex, error) {
	idx := NewVocabIndex(provider.ModelName(), provider.Dimensions())

	canResume := resume != nil &&
		resume.ModelName == idx.ModelName &&
		resume.Dimensions == idx.Dimensions

	for i, word := range words {
		if err := ctx.Err(); err != nil {
			return idx, err
		}

		if canResume {
			if v, err := resume.Vector(word); err == nil {
				if err := idx.Add(word, v); err != nil {
					return idx, err
				}
				if progress != nil {
					progress(i+1, len(words), word)
				}
				continue
			}
		}

		emb, err := provider.Embed(ctx, word)
		if err != nil {
			return idx, fmt.Errorf("embedding %q: %w", word, err)
		}
		if err := idx.Add(word, emb.Vector); err != nil {
			return idx, err
		}
		if progress != nil {
			progress(i+1, len(words), word)
		}
	}

	return idx, nil
}
