package service

import (
	"context"
	"time"

	"hybrid-search-be/internal/dto"
	"hybrid-search-be/internal/entity"
	"hybrid-search-be/pkg/cache"
	"hybrid-search-be/pkg/search"
)

type ISearchService interface {
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	InvalidateCache(ctx context.Context, prefix string) *dto.InvalidateCacheResponse
	CacheStats() *dto.CacheStatsResponse
}

type searchService struct {
	engine          *search.Engine
	cache           *cache.TieredCache
	defaultStrategy string
}

func NewSearchService(engine *search.Engine, tiered *cache.TieredCache, defaultStrategy string) ISearchService {
	if defaultStrategy == "" {
		defaultStrategy = entity.RankHybrid
	}
	return &searchService{
		engine:          engine,
		cache:           tiered,
		defaultStrategy: defaultStrategy,
	}
}

func (s *searchService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	strategy := req.RankingStrategy
	if strategy == "" {
		strategy = s.defaultStrategy
	}

	query := &entity.Query{
		Text:            req.Query,
		TopK:            req.TopK,
		Namespace:       req.Namespace,
		Filter:          req.Filter,
		RankingStrategy: strategy,
		Weights:         req.Weights,
		IncludeVectors:  req.IncludeVectors,
		Aggregate:       req.Aggregate,
		DecayMode:       req.DecayMode,
		Diversify:       req.Diversify,
	}
	if req.HalfLifeDays > 0 {
		query.HalfLife = time.Duration(req.HalfLifeDays) * 24 * time.Hour
	}

	started := time.Now()
	results, err := s.engine.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(started)

	items := make([]dto.SearchResultItem, 0, len(results))
	for _, r := range results {
		items = append(items, dto.SearchResultItem{
			Id:             r.Id,
			Score:          r.Score,
			StrategyScores: r.StrategyScores,
			Sources:        r.Sources,
			Title:          r.Title,
			Snippet:        r.Snippet,
			Metadata:       r.Metadata,
		})
	}

	return &dto.SearchResponse{
		Query:      req.Query,
		Results:    items,
		Total:      len(items),
		SearchTime: elapsed.Seconds(),
	}, nil
}

func (s *searchService) InvalidateCache(ctx context.Context, prefix string) *dto.InvalidateCacheResponse {
	if prefix == "" {
		prefix = cache.KeyPrefix
	}
	purged := s.cache.Invalidate(ctx, prefix)
	return &dto.InvalidateCacheResponse{Purged: purged}
}

func (s *searchService) CacheStats() *dto.CacheStatsResponse {
	stats := s.cache.Stats()
	return &dto.CacheStatsResponse{
		Hits:        stats.Hits,
		Misses:      stats.Misses,
		HitRate:     stats.HitRate(),
		L1Hits:      stats.L1Hits,
		L2Hits:      stats.L2Hits,
		L3Hits:      stats.L3Hits,
		LayerErrors: stats.LayerErrors,
	}
}
