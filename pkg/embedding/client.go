package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"hybrid-search-be/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
)

// ErrEmbeddingFailure wraps any backend error from the embedding provider.
// The client performs NO retry itself; callers own the retry policy
// (the migration pipeline retries, the search engine degrades to keyword-only).
var ErrEmbeddingFailure = errors.New("embedding backend failure")

// Client turns text into fixed-length vectors. Text longer than ChunkSize is split
// at sentence/paragraph boundaries with ChunkOverlap, each chunk is embedded
// independently, and the chunk vectors are averaged into one vector.
type Client struct {
	provider     EmbeddingProvider
	chunkSize    int
	chunkOverlap int
	memo         *gocache.Cache // text-hash keyed, process lifetime
}

func NewClient(provider EmbeddingProvider, chunkSize, chunkOverlap int) *Client {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	return &Client{
		provider:     provider,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		memo:         gocache.New(1*time.Hour, 10*time.Minute),
	}
}

// Embed returns one vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	key := textHash(text)
	if cached, found := c.memo.Get(key); found {
		return cached.([]float32), nil
	}

	chunks := utils.SplitText(text, c.chunkSize, c.chunkOverlap)

	vectors := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		res, err := c.provider.Generate(ctx, chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailure, err)
		}
		vectors = append(vectors, res.Embedding.Values)
	}

	combined, err := averageVectors(vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailure, err)
	}

	c.memo.Set(key, combined, gocache.DefaultExpiration)
	return combined, nil
}

// EmbedMany embeds each text independently, preserving input order.
func (c *Client) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := c.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// averageVectors combines chunk vectors by element-wise mean, then re-normalizes.
func averageVectors(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no vectors to combine")
	}
	if len(vectors) == 1 {
		return vectors[0], nil
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("chunk vector length %d differs from %d", len(vec), dim)
		}
		for i, v := range vec {
			sum[i] += float64(v)
		}
	}

	avg := make([]float32, dim)
	n := float64(len(vectors))
	for i, v := range sum {
		avg[i] = float32(v / n)
	}
	return NormalizeVector(avg), nil
}

func textHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
