package implementation

import (
	"context"
	"fmt"

	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/mapper"
	"hybrid-search-be/internal/model"
	"hybrid-search-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VectorIndexRepositoryImpl struct {
	db        *gorm.DB
	mapper    *mapper.VectorMapper
	dimension int
}

func NewVectorIndexRepository(db *gorm.DB, dimension int) contract.VectorIndexRepository {
	if dimension <= 0 {
		dimension = 768
	}
	return &VectorIndexRepositoryImpl{
		db:        db,
		mapper:    mapper.NewVectorMapper(),
		dimension: dimension,
	}
}

// ValidateDimensions checks every entry against the configured dimension.
// Exposed as a pure function so the invariant is testable without a database.
func ValidateDimensions(entries []*entity.VectorEntry, dimension int) error {
	for _, e := range entries {
		if len(e.Values) != dimension {
			return fmt.Errorf("%w: entry %s has %d values, index expects %d",
				contract.ErrDimensionMismatch, e.Id, len(e.Values), dimension)
		}
	}
	return nil
}

func (r *VectorIndexRepositoryImpl) Upsert(ctx context.Context, entries []*entity.VectorEntry) (*entity.UpsertReceipt, error) {
	// Dimension invariant: reject the whole call before any network round trip.
	if err := ValidateDimensions(entries, r.dimension); err != nil {
		return &entity.UpsertReceipt{Rejected: len(entries)}, err
	}
	if len(entries) == 0 {
		return &entity.UpsertReceipt{}, nil
	}

	models := make([]*model.DocumentVector, len(entries))
	for i, e := range entries {
		models[i] = r.mapper.ToModel(e)
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(models).Error
	if err != nil {
		return &entity.UpsertReceipt{Rejected: len(entries)}, err
	}
	return &entity.UpsertReceipt{Accepted: len(entries)}, nil
}

// Query returns cosine-similarity matches above the threshold, best first.
// Cosine distance in pgvector is 1 - cosine_similarity.
func (r *VectorIndexRepositoryImpl) Query(ctx context.Context, embedding []float32, opts contract.VectorQueryOptions) ([]*entity.Match, error) {
	if len(embedding) != r.dimension {
		return nil, fmt.Errorf("%w: query vector has %d values, index expects %d",
			contract.ErrDimensionMismatch, len(embedding), r.dimension)
	}
	if opts.TopK <= 0 {
		opts.TopK = 10
	}

	type row struct {
		model.DocumentVector
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(embedding)

	q := r.db.WithContext(ctx).
		Table("document_vectors").
		Select("document_vectors.*, 1 - (embedding <=> ?) AS similarity", queryVector).
		Where("namespace = ?", opts.Namespace).
		Where("deleted_at IS NULL").
		Where("1 - (embedding <=> ?) >= ?", queryVector, opts.Threshold)

	for key, value := range opts.Filter {
		q = q.Where("metadata->>? = ?", key, fmt.Sprintf("%v", value))
	}

	err := q.Order("similarity DESC").
		Limit(opts.TopK).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	matches := make([]*entity.Match, len(rows))
	for i, res := range rows {
		matches[i] = &entity.Match{
			Id:         res.Id,
			DocumentId: res.DocumentId,
			Score:      res.Similarity,
			Metadata:   map[string]interface{}(res.Metadata),
		}
	}
	return matches, nil
}

func (r *VectorIndexRepositoryImpl) DeleteByIds(ctx context.Context, ids []string, namespace string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("namespace = ?", namespace).
		Delete(&model.DocumentVector{}).Error
}

func (r *VectorIndexRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId, namespace string) error {
	return r.db.WithContext(ctx).
		Where("document_id = ?", documentId).
		Where("namespace = ?", namespace).
		Delete(&model.DocumentVector{}).Error
}

func (r *VectorIndexRepositoryImpl) DeleteByMigrationId(ctx context.Context, migrationId string) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Where("migration_id = ?", migrationId).
		Delete(&model.DocumentVector{})
	return res.RowsAffected, res.Error
}

func (r *VectorIndexRepositoryImpl) DeleteByNamespace(ctx context.Context, namespace string) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Where("namespace = ?", namespace).
		Delete(&model.DocumentVector{})
	return res.RowsAffected, res.Error
}

func (r *VectorIndexRepositoryImpl) CountByMigrationId(ctx context.Context, migrationId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DocumentVector{}).
		Where("migration_id = ?", migrationId).
		Count(&count).Error
	return count, err
}

func (r *VectorIndexRepositoryImpl) ExistsByDocumentId(ctx context.Context, documentId, namespace string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DocumentVector{}).
		Where("document_id = ?", documentId).
		Where("namespace = ?", namespace).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *VectorIndexRepositoryImpl) Describe(ctx context.Context) (*entity.IndexDescription, error) {
	return &entity.IndexDescription{
		Dimension: r.dimension,
		Metric:    "cosine",
	}, nil
}
