package search

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"

	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/pkg/logger"
	"hybrid-search-be/internal/repository/contract"
	"hybrid-search-be/internal/repository/specification"
	"hybrid-search-be/pkg/cache"
	"hybrid-search-be/pkg/embedding"
)

// ErrSearchUnavailable means every strategy failed, including the embedding
// call. A cache hit is never invalidated by this failure.
var ErrSearchUnavailable = errors.New("search unavailable: all strategies failed")

// Embedder is the slice of the embedding client the engine needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ResultCache is the slice of the cache tier the engine needs.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte, complex bool)
}

type Config struct {
	DefaultTopK       int
	RerankDepth       int
	SemanticThreshold float64
}

func DefaultConfig() Config {
	return Config{
		DefaultTopK:       10,
		RerankDepth:       20,
		SemanticThreshold: 0.0,
	}
}

// Engine runs up to three retrieval strategies concurrently, fuses the result
// lists, applies the selected ranking strategy, and caches the final list.
type Engine struct {
	vectors  contract.VectorIndexRepository
	docs     contract.DocumentRepository
	embedder Embedder
	reranker embedding.Reranker
	cache    ResultCache
	cfg      Config
	logger   logger.ILogger
}

func NewEngine(
	vectors contract.VectorIndexRepository,
	docs contract.DocumentRepository,
	embedder Embedder,
	reranker embedding.Reranker,
	resultCache ResultCache,
	cfg Config,
	log logger.ILogger,
) *Engine {
	if cfg.DefaultTopK <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{
		vectors:  vectors,
		docs:     docs,
		embedder: embedder,
		reranker: reranker,
		cache:    resultCache,
		cfg:      cfg,
		logger:   log,
	}
}

// Search returns a bounded, scored result list ordered by fused score
// descending. Individual strategy failures degrade the result quality; the
// call only fails when every strategy failed.
func (e *Engine) Search(ctx context.Context, q *entity.Query) ([]*entity.Result, error) {
	// defaults apply to a local copy; the caller's query is never mutated
	query := *q
	if query.TopK <= 0 {
		query.TopK = e.cfg.DefaultTopK
	}
	if query.Namespace == "" {
		query.Namespace = "default"
	}
	q = &query

	key := cache.QueryKey(q)
	if e.cache != nil {
		if payload, ok := e.cache.Get(ctx, key); ok {
			var results []*entity.Result
			if err := json.Unmarshal(payload, &results); err == nil {
				return results, nil
			}
			// corrupt payload, fall through to a fresh search
		}
	}

	// Embedding failure is tolerated: skip the semantic strategy and rely on
	// keyword/exact only.
	var queryVector []float32
	embedFailed := false
	if e.embedder != nil {
		vec, err := e.embedder.Embed(ctx, q.Text)
		if err != nil {
			embedFailed = true
			e.logWarn("query embedding failed, degrading to keyword-only", err)
		} else {
			queryVector = vec
		}
	} else {
		embedFailed = true
	}

	// Each strategy is independently fallible: a failing strategy contributes
	// zero results, not an overall failure. Fusion waits for all of them.
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		lists = make(map[string][]Hit)
	)

	collect := func(name string, hits []Hit, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			e.logWarn(name+" strategy failed", err)
			return
		}
		lists[name] = hits
	}

	if !embedFailed {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := e.runSemantic(ctx, q, queryVector)
			collect(StrategySemantic, hits, err)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		hits, err := e.runKeyword(ctx, q)
		collect(StrategyKeyword, hits, err)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		hits, err := e.runExact(ctx, q)
		collect(StrategyExact, hits, err)
	}()

	wg.Wait()

	if len(lists) == 0 {
		return nil, ErrSearchUnavailable
	}

	results := Fuse(lists, q.Weights)
	e.hydrate(ctx, results)
	e.applyRanking(ctx, q, results)
	ApplyDecay(results, q.DecayMode, q.HalfLife)

	if q.Diversify {
		results = Diversify(results, q.TopK)
	} else if len(results) > q.TopK {
		results = results[:q.TopK]
	}

	if e.cache != nil {
		if payload, err := json.Marshal(results); err == nil {
			e.cache.Set(ctx, key, payload, cache.IsComplex(q))
		}
	}

	return results, nil
}

// runSemantic does nearest-neighbor lookup against the vector index and
// collapses chunk hits onto their parent document, keeping the best score.
func (e *Engine) runSemantic(ctx context.Context, q *entity.Query, vector []float32) ([]Hit, error) {
	matches, err := e.vectors.Query(ctx, vector, contract.VectorQueryOptions{
		TopK:      q.TopK * 2, // fetch extra so chunk dedup still fills topK
		Namespace: q.Namespace,
		Filter:    q.Filter,
		Threshold: e.cfg.SemanticThreshold,
	})
	if err != nil {
		return nil, err
	}

	best := make(map[string]Hit)
	order := make([]string, 0, len(matches))
	for _, m := range matches {
		docId := m.DocumentId
		if docId == "" {
			docId = m.Id
		}
		hit, seen := best[docId]
		if !seen {
			order = append(order, docId)
			best[docId] = Hit{
				Id:        docId,
				Score:     m.Score,
				Metadata:  m.Metadata,
				Timestamp: timestampOf(m.Metadata),
			}
			continue
		}
		if m.Score > hit.Score {
			hit.Score = m.Score
			best[docId] = hit
		}
	}

	hits := make([]Hit, 0, len(order))
	for _, id := range order {
		hits = append(hits, best[id])
	}
	return hits, nil
}

// runKeyword delegates to the store's full-text index and normalizes the raw
// rank with a monotonic log transform into [0,1].
func (e *Engine) runKeyword(ctx context.Context, q *entity.Query) ([]Hit, error) {
	scored, err := e.docs.FullTextSearch(ctx, q.Text, q.Namespace, q.TopK*2)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(scored))
	for _, s := range scored {
		hits = append(hits, Hit{
			Id:        s.Document.Id,
			Score:     normalizeRank(s.Rank),
			Title:     s.Document.Title,
			Snippet:   snippetOf(s.Document),
			Metadata:  s.Document.Metadata,
			Timestamp: s.Document.UpdatedAt,
		})
	}
	return hits, nil
}

func (e *Engine) runExact(ctx context.Context, q *entity.Query) ([]Hit, error) {
	scored, err := e.docs.ExactSearch(ctx, q.Text, q.Namespace, q.TopK*2)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(scored))
	for _, s := range scored {
		hits = append(hits, Hit{
			Id:        s.Document.Id,
			Score:     s.Rank, // already field-weight normalized into [0,1]
			Title:     s.Document.Title,
			Snippet:   snippetOf(s.Document),
			Metadata:  s.Document.Metadata,
			Timestamp: s.Document.UpdatedAt,
		})
	}
	return hits, nil
}

// hydrate fills titles and snippets for results seeded by the semantic
// strategy, which only carries vector metadata.
func (e *Engine) hydrate(ctx context.Context, results []*entity.Result) {
	var missing []string
	for _, r := range results {
		if r.Title == "" {
			missing = append(missing, r.Id)
		}
	}
	if len(missing) == 0 || e.docs == nil {
		return
	}

	docs, err := e.docs.FindAll(ctx, specification.ByIDs{IDs: missing})
	if err != nil {
		e.logWarn("failed to hydrate results", err)
		return
	}

	byId := make(map[string]*entity.Document, len(docs))
	for _, d := range docs {
		byId[d.Id] = d
	}
	for _, r := range results {
		d, ok := byId[r.Id]
		if !ok {
			continue
		}
		if r.Title == "" {
			r.Title = d.Title
		}
		if r.Snippet == "" {
			r.Snippet = snippetOf(d)
		}
		if r.Timestamp.IsZero() {
			r.Timestamp = d.UpdatedAt
		}
		if r.Metadata == nil {
			r.Metadata = d.Metadata
		}
	}
}

// normalizeRank maps a raw full-text rank monotonically into [0,1].
func normalizeRank(rank float64) float64 {
	if rank <= 0 {
		return 0
	}
	v := math.Log1p(rank*9) / math.Log1p(10)
	return clamp01(v)
}

func snippetOf(d *entity.Document) string {
	if d.Abstract != "" {
		return d.Abstract
	}
	body := []rune(d.Body)
	if len(body) > 200 {
		return string(body[:200])
	}
	return d.Body
}

func timestampOf(metadata map[string]interface{}) time.Time {
	if metadata == nil {
		return time.Time{}
	}
	if raw, ok := metadata["timestamp"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func (e *Engine) logWarn(message string, err error) {
	if e.logger == nil {
		return
	}
	e.logger.Warn("search", message, map[string]interface{}{"error": err.Error()})
}
