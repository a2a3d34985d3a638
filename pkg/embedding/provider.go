package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding
}

type EmbeddingResponseEmbedding struct {
	Values []float32
}

// Reranker is the optional cross-encoder style second-pass scorer.
// Implementations must return exactly one score per passage.
type Reranker interface {
	Rerank(ctx context.Context, query string, passages []string) ([]float64, error)
}
