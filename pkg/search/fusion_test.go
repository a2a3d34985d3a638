package search

import (
	"testing"
	"time"

	"hybrid-search-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuseDefaultWeights(t *testing.T) {
	lists := map[string][]Hit{
		StrategySemantic: {{Id: "x", Score: 0.9}},
		StrategyKeyword:  {{Id: "x", Score: 0.4}, {Id: "y", Score: 0.8}},
	}

	results := Fuse(lists, nil)
	require.Len(t, results, 2)

	assert.Equal(t, "x", results[0].Id)
	assert.InDelta(t, 0.9*0.6+0.4*0.3, results[0].Score, 1e-9)
	assert.Equal(t, []string{"semantic", "keyword"}, results[0].Sources)
	assert.InDelta(t, 0.9, results[0].StrategyScores[StrategySemantic], 1e-9)
	assert.InDelta(t, 0.4, results[0].StrategyScores[StrategyKeyword], 1e-9)

	assert.Equal(t, "y", results[1].Id)
	assert.InDelta(t, 0.8*0.3, results[1].Score, 1e-9)
	assert.Equal(t, []string{"keyword"}, results[1].Sources)
}

func TestFuseWeightOverride(t *testing.T) {
	lists := map[string][]Hit{
		StrategySemantic: {{Id: "x", Score: 0.9}},
		StrategyKeyword:  {{Id: "x", Score: 0.4}, {Id: "y", Score: 0.8}},
	}
	weights := map[string]float64{
		StrategySemantic: 0.6,
		StrategyKeyword:  0.4,
	}

	results := Fuse(lists, weights)
	require.Len(t, results, 2)
	assert.InDelta(t, 0.70, results[0].Score, 1e-9)
	assert.InDelta(t, 0.32, results[1].Score, 1e-9)
}

func TestFuseDeterministic(t *testing.T) {
	lists := map[string][]Hit{
		StrategySemantic: {{Id: "a", Score: 0.5}, {Id: "b", Score: 0.5}},
		StrategyKeyword:  {{Id: "c", Score: 0.9}, {Id: "b", Score: 0.2}},
		StrategyExact:    {{Id: "a", Score: 1.0}},
	}

	first := Fuse(lists, nil)
	for i := 0; i < 50; i++ {
		again := Fuse(lists, nil)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].Id, again[j].Id)
			assert.Equal(t, first[j].Score, again[j].Score)
			assert.Equal(t, first[j].Sources, again[j].Sources)
		}
	}
}

func TestSortResultsTieBreak(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	results := []*entity.Result{
		{Id: "b", Score: 0.5, Timestamp: older},
		{Id: "c", Score: 0.5, Timestamp: newer},
		{Id: "a", Score: 0.5, Timestamp: older},
		{Id: "d", Score: 0.9},
	}

	SortResults(results)

	assert.Equal(t, "d", results[0].Id) // highest score
	assert.Equal(t, "c", results[1].Id) // newer timestamp wins the tie
	assert.Equal(t, "a", results[2].Id) // id ascending among equal timestamps
	assert.Equal(t, "b", results[3].Id)
}

func TestFuseSingleStrategy(t *testing.T) {
	lists := map[string][]Hit{
		StrategyKeyword: {{Id: "only", Score: 1.0, Title: "Only"}},
	}

	results := Fuse(lists, nil)
	require.Len(t, results, 1)
	assert.Equal(t, "only", results[0].Id)
	assert.InDelta(t, 0.3, results[0].Score, 1e-9)
	assert.Equal(t, "Only", results[0].Title)
}
