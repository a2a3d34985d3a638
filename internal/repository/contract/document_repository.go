package contract

import (
	"context"

	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/repository/specification"
)

// ScoredDocument pairs a document with a strategy-local relevance score.
type ScoredDocument struct {
	Document *entity.Document
	Rank     float64
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	CreateBulk(ctx context.Context, docs []*entity.Document) error
	Upsert(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, id string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FullTextSearch runs a MATCH-style query against the text index.
	// Rank carries the raw ts_rank value, not yet normalized.
	FullTextSearch(ctx context.Context, query, namespace string, limit int) ([]*ScoredDocument, error)

	// ExactSearch runs substring matching, scored by which field matched
	// (title > abstract > body).
	ExactSearch(ctx context.Context, phrase, namespace string, limit int) ([]*ScoredDocument, error)
}
