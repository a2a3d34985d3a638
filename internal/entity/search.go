package entity

import "time"

// Ranking strategy names accepted by the search engine.
const (
	RankHybrid         = "hybrid"
	RankSemantic       = "semantic"
	RankKeyword        = "keyword"
	RankNeural         = "neural"
	RankLearningToRank = "learning_to_rank"
)

// Decay modes for time-based score adjustment.
const (
	DecayNone        = ""
	DecayExponential = "exponential"
	DecayLinear      = "linear"
)

// Query is a stateless search request, constructed per call.
type Query struct {
	Text            string
	TopK            int
	Namespace       string
	Filter          map[string]interface{}
	RankingStrategy string
	Weights         map[string]float64 // strategy -> weight override; nil = defaults
	IncludeVectors  bool
	Aggregate       bool
	DecayMode       string
	HalfLife        time.Duration
	Diversify       bool
}

// Result is a fused, scored search hit. Ephemeral; persisted only through the cache.
type Result struct {
	Id             string                 `json:"id"`
	Score          float64                `json:"score"`
	StrategyScores map[string]float64     `json:"strategyScores"`
	Sources        []string               `json:"sources"`
	Title          string                 `json:"title"`
	Snippet        string                 `json:"snippet,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}
