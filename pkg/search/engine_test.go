package search

import (
	"context"
	"errors"
	"testing"

	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/repository/contract"
	"hybrid-search-be/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVectorIndex struct {
	matches []*entity.Match
	err     error
}

func (f *fakeVectorIndex) Upsert(ctx context.Context, entries []*entity.VectorEntry) (*entity.UpsertReceipt, error) {
	return &entity.UpsertReceipt{Accepted: len(entries)}, nil
}

func (f *fakeVectorIndex) Query(ctx context.Context, embedding []float32, opts contract.VectorQueryOptions) ([]*entity.Match, error) {
	return f.matches, f.err
}

func (f *fakeVectorIndex) DeleteByIds(ctx context.Context, ids []string, namespace string) error {
	return nil
}

func (f *fakeVectorIndex) DeleteByDocumentId(ctx context.Context, documentId, namespace string) error {
	return nil
}

func (f *fakeVectorIndex) DeleteByMigrationId(ctx context.Context, migrationId string) (int64, error) {
	return 0, nil
}

func (f *fakeVectorIndex) DeleteByNamespace(ctx context.Context, namespace string) (int64, error) {
	return 0, nil
}

func (f *fakeVectorIndex) CountByMigrationId(ctx context.Context, migrationId string) (int64, error) {
	return 0, nil
}

func (f *fakeVectorIndex) ExistsByDocumentId(ctx context.Context, documentId, namespace string) (bool, error) {
	return false, nil
}

func (f *fakeVectorIndex) Describe(ctx context.Context) (*entity.IndexDescription, error) {
	return &entity.IndexDescription{Dimension: 768, Metric: "cosine"}, nil
}

type fakeDocs struct {
	fullText []*contract.ScoredDocument
	exact    []*contract.ScoredDocument
	byId     map[string]*entity.Document
	ftErr    error
	exactErr error
}

func (f *fakeDocs) Create(ctx context.Context, doc *entity.Document) error        { return nil }
func (f *fakeDocs) CreateBulk(ctx context.Context, docs []*entity.Document) error { return nil }
func (f *fakeDocs) Upsert(ctx context.Context, doc *entity.Document) error        { return nil }
func (f *fakeDocs) Delete(ctx context.Context, id string) error                   { return nil }

func (f *fakeDocs) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	return nil, nil
}

func (f *fakeDocs) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	out := make([]*entity.Document, 0, len(f.byId))
	for _, d := range f.byId {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDocs) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.byId)), nil
}

func (f *fakeDocs) FullTextSearch(ctx context.Context, query, namespace string, limit int) ([]*contract.ScoredDocument, error) {
	return f.fullText, f.ftErr
}

func (f *fakeDocs) ExactSearch(ctx context.Context, phrase, namespace string, limit int) ([]*contract.ScoredDocument, error) {
	return f.exact, f.exactErr
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

type mapCache struct {
	entries map[string][]byte
	hits    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return payload, ok
}

func (c *mapCache) Set(ctx context.Context, key string, payload []byte, complex bool) {
	c.entries[key] = payload
}

func doc(id, title, body string) *entity.Document {
	return &entity.Document{Id: id, Title: title, Body: body}
}

func TestSearchFusesStrategies(t *testing.T) {
	vectors := &fakeVectorIndex{matches: []*entity.Match{
		{Id: "a", DocumentId: "a", Score: 0.9},
		{Id: "b", DocumentId: "b", Score: 0.6},
	}}
	docs := &fakeDocs{
		fullText: []*contract.ScoredDocument{
			{Document: doc("a", "Diabetes care", "long body"), Rank: 0.8},
			{Document: doc("c", "Insulin basics", "long body"), Rank: 0.5},
		},
		exact: []*contract.ScoredDocument{
			{Document: doc("a", "Diabetes care", "long body"), Rank: 1.0},
		},
		byId: map[string]*entity.Document{
			"a": doc("a", "Diabetes care", "long body"),
			"b": doc("b", "Metformin overview", "long body"),
		},
	}

	e := NewEngine(vectors, docs, &fakeEmbedder{vec: []float32{1, 0}}, nil, nil, DefaultConfig(), nil)

	results, err := e.Search(context.Background(), &entity.Query{Text: "diabetes", TopK: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// "a" was found by all three strategies and must rank first
	assert.Equal(t, "a", results[0].Id)
	assert.ElementsMatch(t, []string{"semantic", "keyword", "exact"}, results[0].Sources)

	ids := make(map[string]bool)
	for _, r := range results {
		ids[r.Id] = true
	}
	assert.True(t, ids["b"])
	assert.True(t, ids["c"])

	// semantic-only hit hydrated from the document store
	for _, r := range results {
		if r.Id == "b" {
			assert.Equal(t, "Metformin overview", r.Title)
		}
	}
}

func TestSearchDegradesWhenEmbeddingFails(t *testing.T) {
	docs := &fakeDocs{
		fullText: []*contract.ScoredDocument{
			{Document: doc("k", "Keyword only", "long body"), Rank: 0.7},
		},
	}
	e := NewEngine(&fakeVectorIndex{}, docs, &fakeEmbedder{err: errors.New("backend down")}, nil, nil, DefaultConfig(), nil)

	results, err := e.Search(context.Background(), &entity.Query{Text: "anything", TopK: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "k", results[0].Id)
	assert.NotContains(t, results[0].Sources, "semantic")
}

func TestSearchAllStrategiesFailed(t *testing.T) {
	docs := &fakeDocs{
		ftErr:    errors.New("index down"),
		exactErr: errors.New("index down"),
	}
	e := NewEngine(&fakeVectorIndex{}, docs, &fakeEmbedder{err: errors.New("backend down")}, nil, nil, DefaultConfig(), nil)

	_, err := e.Search(context.Background(), &entity.Query{Text: "anything"})
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	e := NewEngine(&fakeVectorIndex{}, &fakeDocs{}, &fakeEmbedder{vec: []float32{1}}, nil, nil, DefaultConfig(), nil)

	results, err := e.Search(context.Background(), &entity.Query{Text: "no matches anywhere"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchServesRepeatFromCache(t *testing.T) {
	docs := &fakeDocs{
		fullText: []*contract.ScoredDocument{
			{Document: doc("a", "Cached", "long body"), Rank: 0.9},
		},
	}
	resultCache := newMapCache()
	e := NewEngine(&fakeVectorIndex{}, docs, &fakeEmbedder{vec: []float32{1}}, nil, resultCache, DefaultConfig(), nil)

	q := &entity.Query{Text: "cached query", TopK: 5}
	first, err := e.Search(context.Background(), q)
	require.NoError(t, err)

	// Backends break; the repeat query must still succeed from cache.
	docs.ftErr = errors.New("down")
	docs.exactErr = errors.New("down")

	second, err := e.Search(context.Background(), &entity.Query{Text: "cached query", TopK: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, resultCache.hits)
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].Id, second[0].Id)
}

func TestSearchLeavesCallerQueryUntouched(t *testing.T) {
	e := NewEngine(&fakeVectorIndex{}, &fakeDocs{}, &fakeEmbedder{vec: []float32{1}}, nil, nil, DefaultConfig(), nil)

	q := &entity.Query{Text: "anything"}
	_, err := e.Search(context.Background(), q)
	require.NoError(t, err)

	// topK and namespace defaults must not leak back to the caller
	assert.Zero(t, q.TopK)
	assert.Empty(t, q.Namespace)
}

func TestSearchRespectsTopK(t *testing.T) {
	var scored []*contract.ScoredDocument
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		scored = append(scored, &contract.ScoredDocument{
			Document: doc(id, "Title "+id, "long body"), Rank: 0.5,
		})
	}
	e := NewEngine(&fakeVectorIndex{}, &fakeDocs{fullText: scored}, &fakeEmbedder{vec: []float32{1}}, nil, nil, DefaultConfig(), nil)

	results, err := e.Search(context.Background(), &entity.Query{Text: "q", TopK: 3})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}
