package search

import (
	"context"
	"math"
	"time"

	"hybrid-search-be/internal/entity"
)

// hybridBlendWeight is the semantic share when blending semantic and keyword
// scores in the hybrid ranker.
const hybridBlendWeight = 0.7

// learning_to_rank feature weights, fixed by design.
var ltrWeights = struct {
	similarity float64
	recency    float64
	authority  float64
	popularity float64
}{0.5, 0.2, 0.2, 0.1}

// applyRanking re-scores fused results according to the selected strategy and
// re-sorts. The neural strategy falls back to hybrid on any reranker failure,
// including partial responses.
func (e *Engine) applyRanking(ctx context.Context, q *entity.Query, results []*entity.Result) {
	strategy := q.RankingStrategy
	if strategy == "" {
		strategy = entity.RankHybrid
	}

	switch strategy {
	case entity.RankSemantic:
		for _, r := range results {
			r.Score = clamp01(semanticScore(r))
		}
	case entity.RankKeyword:
		for _, r := range results {
			r.Score = clamp01(keywordScore(r))
		}
	case entity.RankNeural:
		if !e.neuralRerank(ctx, q, results) {
			for _, r := range results {
				r.Score = clamp01(hybridScore(r))
			}
		}
	case entity.RankLearningToRank:
		for _, r := range results {
			r.Score = clamp01(ltrScore(r))
		}
	default: // hybrid
		for _, r := range results {
			r.Score = clamp01(hybridScore(r))
		}
	}

	SortResults(results)
}

// semanticScore uses only vector similarity plus recency/authority boosts.
func semanticScore(r *entity.Result) float64 {
	score := r.StrategyScores[StrategySemantic]
	score += 0.1 * recencyFeature(r.Timestamp)
	score += 0.05 * authorityFeature(r.Metadata)
	return score
}

// keywordScore uses exact and partial term matches only.
func keywordScore(r *entity.Result) float64 {
	return 0.7*r.StrategyScores[StrategyKeyword] + 0.3*r.StrategyScores[StrategyExact]
}

func hybridScore(r *entity.Result) float64 {
	return hybridBlendWeight*semanticScore(r) + (1-hybridBlendWeight)*keywordScore(r)
}

func ltrScore(r *entity.Result) float64 {
	return ltrWeights.similarity*r.StrategyScores[StrategySemantic] +
		ltrWeights.recency*recencyFeature(r.Timestamp) +
		ltrWeights.authority*authorityFeature(r.Metadata) +
		ltrWeights.popularity*popularityFeature(r.Metadata)
}

// neuralRerank sends the top candidates through the cross-encoder. Returns
// false when the rerank could not be applied and the caller should fall back.
func (e *Engine) neuralRerank(ctx context.Context, q *entity.Query, results []*entity.Result) bool {
	if e.reranker == nil || len(results) == 0 {
		return false
	}

	depth := e.cfg.RerankDepth
	if depth <= 0 {
		depth = 20
	}
	if depth > len(results) {
		depth = len(results)
	}

	head := results[:depth]
	passages := make([]string, depth)
	for i, r := range head {
		passages[i] = r.Title + "\n" + r.Snippet
	}

	scores, err := e.reranker.Rerank(ctx, q.Text, passages)
	if err != nil || len(scores) != len(passages) {
		if e.logger != nil && err != nil {
			e.logger.Warn("search", "reranker failed, falling back to hybrid", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return false
	}

	for i, r := range head {
		r.Score = clamp01(scores[i])
	}
	// candidates beyond the rerank depth keep hybrid ordering below the head
	for _, r := range results[depth:] {
		r.Score = clamp01(hybridScore(r)) * 0.5
	}
	return true
}

// recencyFeature decays from 1 (now) toward 0 over about a year.
func recencyFeature(ts time.Time) float64 {
	if ts.IsZero() {
		return 0
	}
	ageDays := time.Since(ts).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-ageDays / 365)
}

func authorityFeature(metadata map[string]interface{}) float64 {
	return clamp01(numericField(metadata, "authority"))
}

func popularityFeature(metadata map[string]interface{}) float64 {
	return clamp01(numericField(metadata, "popularity"))
}

func numericField(metadata map[string]interface{}, key string) float64 {
	if metadata == nil {
		return 0
	}
	switch v := metadata[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
