package embedding

import "context"

// Provider generates embeddings from words.
type Provider interface {
	// Embed generates an embedding for the given word.
	Embed(ctx context.Context, word string) (Embedding, error)

	// ModelName returns the name of the embedding model.
	ModelName() string

	// Dimensions returns the expected vector dimensions.
	Dimensions() int
}
