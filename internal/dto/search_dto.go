package dto

type SearchRequest struct {
	Query           string                 `json:"query" validate:"required"`
	TopK            int                    `json:"topK" validate:"omitempty,min=1,max=1000"`
	Namespace       string                 `json:"namespace"`
	Filter          map[string]interface{} `json:"filter"`
	RankingStrategy string                 `json:"rankingStrategy" validate:"omitempty,oneof=hybrid semantic keyword neural learning_to_rank"`
	Weights         map[string]float64     `json:"weights"`
	IncludeVectors  bool                   `json:"includeVectors"`
	Aggregate       bool                   `json:"aggregate"`
	DecayMode       string                 `json:"decayMode" validate:"omitempty,oneof=exponential linear"`
	HalfLifeDays    int                    `json:"halfLifeDays" validate:"omitempty,min=1"`
	Diversify       bool                   `json:"diversify"`
}

type SearchResultItem struct {
	Id             string                 `json:"id"`
	Score          float64                `json:"score"`
	StrategyScores map[string]float64     `json:"strategyScores"`
	Sources        []string               `json:"sources"`
	Title          string                 `json:"title"`
	Snippet        string                 `json:"snippet,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

type SearchResponse struct {
	Query      string             `json:"query"`
	Results    []SearchResultItem `json:"results"`
	Total      int                `json:"total"`
	SearchTime float64            `json:"searchTime"` // seconds
}

type CacheStatsResponse struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRate     float64 `json:"hitRate"`
	L1Hits      int64   `json:"l1Hits"`
	L2Hits      int64   `json:"l2Hits"`
	L3Hits      int64   `json:"l3Hits"`
	LayerErrors int64   `json:"layerErrors"`
}

type InvalidateCacheResponse struct {
	Purged int64 `json:"purged"`
}
