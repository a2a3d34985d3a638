package search

import (
	"sort"
	"time"

	"hybrid-search-be/internal/entity"
)

// Strategy names, also used as originSources markers on results.
const (
	StrategySemantic = "semantic"
	StrategyKeyword  = "keyword"
	StrategyExact    = "exact"
)

// strategyOrder fixes the iteration order during fusion so output is
// independent of goroutine completion order.
var strategyOrder = []string{StrategySemantic, StrategyKeyword, StrategyExact}

// DefaultWeights is the single canonical weight table. Callers may override;
// overrides should sum to <= 1 but the engine does not renormalize them.
var DefaultWeights = map[string]float64{
	StrategySemantic: 0.6,
	StrategyKeyword:  0.3,
	StrategyExact:    0.1,
}

// Hit is one strategy-local result before fusion.
type Hit struct {
	Id        string
	Score     float64 // normalized into [0,1] by the strategy
	Title     string
	Snippet   string
	Metadata  map[string]interface{}
	Timestamp time.Time
}

// Fuse merges per-strategy result lists by id. The first strategy to mention an
// id seeds the record; later strategies accumulate score*weight and append
// their name to the sources. Output is ordered by fused score descending with
// the deterministic tie-break: newer timestamp first, then id ascending.
func Fuse(lists map[string][]Hit, weights map[string]float64) []*entity.Result {
	if weights == nil {
		weights = DefaultWeights
	}

	merged := make(map[string]*entity.Result)
	for _, strategy := range strategyOrder {
		hits, ok := lists[strategy]
		if !ok {
			continue
		}
		weight, ok := weights[strategy]
		if !ok {
			weight = DefaultWeights[strategy]
		}
		for _, hit := range hits {
			r, seen := merged[hit.Id]
			if !seen {
				r = &entity.Result{
					Id:             hit.Id,
					StrategyScores: make(map[string]float64),
					Title:          hit.Title,
					Snippet:        hit.Snippet,
					Metadata:       hit.Metadata,
					Timestamp:      hit.Timestamp,
				}
				merged[hit.Id] = r
			}
			r.Score += hit.Score * weight
			r.StrategyScores[strategy] = hit.Score
			r.Sources = append(r.Sources, strategy)
			if r.Title == "" {
				r.Title = hit.Title
			}
			if r.Snippet == "" {
				r.Snippet = hit.Snippet
			}
			if r.Metadata == nil {
				r.Metadata = hit.Metadata
			}
			if r.Timestamp.IsZero() {
				r.Timestamp = hit.Timestamp
			}
		}
	}

	results := make([]*entity.Result, 0, len(merged))
	for _, r := range merged {
		results = append(results, r)
	}
	SortResults(results)
	return results
}

// SortResults orders by fused score descending, breaking ties by most recent
// timestamp, then by id ascending. Required for reproducible pagination.
func SortResults(results []*entity.Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].Timestamp.Equal(results[j].Timestamp) {
			return results[i].Timestamp.After(results[j].Timestamp)
		}
		return results[i].Id < results[j].Id
	})
}
