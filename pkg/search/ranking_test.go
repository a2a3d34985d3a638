package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"hybrid-search-be/internal/entity"
	"hybrid-search-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReranker struct {
	scores []float64
	err    error
	calls  int
}

func (s *stubReranker) Rerank(ctx context.Context, query string, passages []string) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

func newTestEngine(reranker embedding.Reranker) *Engine {
	return NewEngine(nil, nil, nil, reranker, nil, Config{DefaultTopK: 10, RerankDepth: 20}, nil)
}

func TestHybridRankingBlend(t *testing.T) {
	e := newTestEngine(nil)
	results := []*entity.Result{
		{Id: "a", StrategyScores: map[string]float64{StrategySemantic: 1.0, StrategyKeyword: 0.5}},
	}

	e.applyRanking(context.Background(), &entity.Query{RankingStrategy: entity.RankHybrid}, results)

	// 0.7*semantic + 0.3*(0.7*keyword + 0.3*exact), no recency/authority boosts
	assert.InDelta(t, 0.7*1.0+0.3*(0.7*0.5), results[0].Score, 1e-9)
}

func TestKeywordRankingIgnoresSemantic(t *testing.T) {
	e := newTestEngine(nil)
	results := []*entity.Result{
		{Id: "a", StrategyScores: map[string]float64{StrategySemantic: 1.0}},
		{Id: "b", StrategyScores: map[string]float64{StrategyKeyword: 0.8, StrategyExact: 0.5}},
	}

	e.applyRanking(context.Background(), &entity.Query{RankingStrategy: entity.RankKeyword}, results)

	assert.Equal(t, "b", results[0].Id)
	assert.InDelta(t, 0.7*0.8+0.3*0.5, results[0].Score, 1e-9)
	assert.Zero(t, results[1].Score)
}

func TestLearningToRankWeights(t *testing.T) {
	e := newTestEngine(nil)
	results := []*entity.Result{
		{
			Id:             "a",
			StrategyScores: map[string]float64{StrategySemantic: 1.0},
			Metadata:       map[string]interface{}{"authority": 1.0, "popularity": 1.0},
		},
	}

	e.applyRanking(context.Background(), &entity.Query{RankingStrategy: entity.RankLearningToRank}, results)

	// similarity 0.5 + recency 0 + authority 0.2 + popularity 0.1
	assert.InDelta(t, 0.8, results[0].Score, 1e-9)
}

func TestNeuralRerankAppliesScores(t *testing.T) {
	reranker := &stubReranker{scores: []float64{0.2, 0.95}}
	e := newTestEngine(reranker)
	results := []*entity.Result{
		{Id: "a", Title: "A", StrategyScores: map[string]float64{StrategySemantic: 0.9}},
		{Id: "b", Title: "B", StrategyScores: map[string]float64{StrategySemantic: 0.1}},
	}

	e.applyRanking(context.Background(), &entity.Query{Text: "q", RankingStrategy: entity.RankNeural}, results)

	require.Equal(t, 1, reranker.calls)
	assert.Equal(t, "b", results[0].Id)
	assert.InDelta(t, 0.95, results[0].Score, 1e-9)
	assert.InDelta(t, 0.2, results[1].Score, 1e-9)
}

func TestNeuralPartialResponseFallsBackToHybrid(t *testing.T) {
	// One score for two passages is treated as a total failure.
	reranker := &stubReranker{scores: []float64{0.99}}
	e := newTestEngine(reranker)

	results := []*entity.Result{
		{Id: "a", StrategyScores: map[string]float64{StrategySemantic: 0.9}},
		{Id: "b", StrategyScores: map[string]float64{StrategySemantic: 0.1}},
	}
	e.applyRanking(context.Background(), &entity.Query{Text: "q", RankingStrategy: entity.RankNeural}, results)

	assert.Equal(t, "a", results[0].Id)
	assert.InDelta(t, 0.7*0.9, results[0].Score, 1e-9)
}

func TestNeuralErrorFallsBackToHybrid(t *testing.T) {
	reranker := &stubReranker{err: errors.New("backend down")}
	e := newTestEngine(reranker)

	results := []*entity.Result{
		{Id: "a", StrategyScores: map[string]float64{StrategySemantic: 0.6}},
	}
	e.applyRanking(context.Background(), &entity.Query{Text: "q", RankingStrategy: entity.RankNeural}, results)

	assert.InDelta(t, 0.7*0.6, results[0].Score, 1e-9)
}

func TestApplyDecayExponential(t *testing.T) {
	halfLife := 24 * time.Hour
	results := []*entity.Result{
		{Id: "aged", Score: 1.0, Timestamp: time.Now().Add(-halfLife)},
		{Id: "untimed", Score: 0.8},
	}

	ApplyDecay(results, entity.DecayExponential, halfLife)

	var aged, untimed *entity.Result
	for _, r := range results {
		switch r.Id {
		case "aged":
			aged = r
		case "untimed":
			untimed = r
		}
	}
	require.NotNil(t, aged)
	require.NotNil(t, untimed)
	assert.InDelta(t, 0.5, aged.Score, 0.01)
	assert.Equal(t, 0.8, untimed.Score) // no timestamp, no decay
}

func TestApplyDecayLinear(t *testing.T) {
	halfLife := 24 * time.Hour
	results := []*entity.Result{
		{Id: "a", Score: 1.0, Timestamp: time.Now().Add(-2 * halfLife)},
	}

	ApplyDecay(results, entity.DecayLinear, halfLife)
	assert.InDelta(t, 0.0, results[0].Score, 0.01)
}

func TestDiversifyOnePerCategoryFirst(t *testing.T) {
	results := []*entity.Result{
		{Id: "a1", Score: 0.9, Metadata: map[string]interface{}{"category": "a"}},
		{Id: "a2", Score: 0.8, Metadata: map[string]interface{}{"category": "a"}},
		{Id: "b1", Score: 0.3, Metadata: map[string]interface{}{"category": "b"}},
	}

	out := Diversify(results, 2)
	require.Len(t, out, 2)
	assert.Equal(t, "a1", out[0].Id)
	assert.Equal(t, "b1", out[1].Id) // beats a2 despite the lower score
}

func TestDiversifyFillsByScoreAfterCategories(t *testing.T) {
	results := []*entity.Result{
		{Id: "a1", Score: 0.9, Metadata: map[string]interface{}{"category": "a"}},
		{Id: "b1", Score: 0.7, Metadata: map[string]interface{}{"category": "b"}},
		{Id: "a2", Score: 0.6, Metadata: map[string]interface{}{"category": "a"}},
	}

	out := Diversify(results, 3)
	require.Len(t, out, 3)
	assert.Equal(t, "a2", out[2].Id)
}
