package contract

import (
	"context"
	"errors"

	"hybrid-search-be/internal/entity"
)

// ErrDimensionMismatch is returned by Upsert when an entry's embedding length
// differs from the configured index dimension. Fails fast, never retried.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// VectorQueryOptions scopes a nearest-neighbor lookup.
type VectorQueryOptions struct {
	TopK      int
	Namespace string
	Filter    map[string]interface{} // metadata equality clauses
	Threshold float64                // minimum cosine similarity, 0 = no floor
}

type VectorIndexRepository interface {
	// Upsert validates every entry's dimension BEFORE touching the database.
	Upsert(ctx context.Context, entries []*entity.VectorEntry) (*entity.UpsertReceipt, error)
	Query(ctx context.Context, embedding []float32, opts VectorQueryOptions) ([]*entity.Match, error)
	DeleteByIds(ctx context.Context, ids []string, namespace string) error
	DeleteByDocumentId(ctx context.Context, documentId, namespace string) error
	DeleteByMigrationId(ctx context.Context, migrationId string) (int64, error)
	DeleteByNamespace(ctx context.Context, namespace string) (int64, error)
	CountByMigrationId(ctx context.Context, migrationId string) (int64, error)
	ExistsByDocumentId(ctx context.Context, documentId, namespace string) (bool, error)
	Describe(ctx context.Context) (*entity.IndexDescription, error)
}
