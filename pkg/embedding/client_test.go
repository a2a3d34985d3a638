package embedding

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	vec   []float32
	err   error
	calls int
}

func (p *countingProvider) Generate(ctx context.Context, text, taskType string) (*EmbeddingResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: p.vec},
	}, nil
}

func TestEmbedShortText(t *testing.T) {
	provider := &countingProvider{vec: []float32{3, 4}}
	client := NewClient(provider, 1000, 100)

	vec, err := client.Embed(context.Background(), "short text")
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4}, vec)
	assert.Equal(t, 1, provider.calls)
}

func TestEmbedChunksAndAveragesLongText(t *testing.T) {
	provider := &countingProvider{vec: []float32{1, 0}}
	client := NewClient(provider, 50, 10)

	long := strings.Repeat("some sentence here. ", 20) // ~400 chars, several chunks
	vec, err := client.Embed(context.Background(), long)
	require.NoError(t, err)

	assert.Greater(t, provider.calls, 1)
	require.Len(t, vec, 2)
	// identical chunk vectors average and re-normalize back to a unit vector
	assert.InDelta(t, 1.0, float64(vec[0]), 1e-6)
	assert.InDelta(t, 0.0, float64(vec[1]), 1e-6)
}

func TestEmbedMemoizesByText(t *testing.T) {
	provider := &countingProvider{vec: []float32{1, 2}}
	client := NewClient(provider, 1000, 100)

	_, err := client.Embed(context.Background(), "repeated text")
	require.NoError(t, err)
	_, err = client.Embed(context.Background(), "repeated text")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
}

func TestEmbedWrapsBackendError(t *testing.T) {
	provider := &countingProvider{err: errors.New("503 from backend")}
	client := NewClient(provider, 1000, 100)

	_, err := client.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, ErrEmbeddingFailure)
	// single attempt: retry is the caller's concern
	assert.Equal(t, 1, provider.calls)
}

func TestEmbedManyPreservesOrder(t *testing.T) {
	provider := &countingProvider{vec: []float32{0, 1}}
	client := NewClient(provider, 1000, 100)

	vecs, err := client.EmbedMany(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	for _, v := range vecs {
		assert.Equal(t, []float32{0, 1}, v)
	}
}

func TestAverageVectorsRejectsMixedDimensions(t *testing.T) {
	_, err := averageVectors([][]float32{{1, 0}, {1, 0, 0}})
	assert.Error(t, err)
}
