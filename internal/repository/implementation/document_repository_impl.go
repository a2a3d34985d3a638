package implementation

import (
	"context"
	"errors"
	"strings"

	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/mapper"
	"hybrid-search-be/internal/model"
	"hybrid-search-be/internal/repository/contract"
	"hybrid-search-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) CreateBulk(ctx context.Context, docs []*entity.Document) error {
	models := make([]*model.Document, len(docs))
	for i, d := range docs {
		models[i] = r.mapper.ToModel(d)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*docs[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DocumentRepositoryImpl) Upsert(ctx context.Context, doc *entity.Document) error {
	m := r.mapper.ToModel(doc)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(m).Error
	if err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Document{}, "id = ?", id).Error
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	var m model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var models []*model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Document, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Document{}).Count(&count).Error
	return count, err
}

// FullTextSearch uses Postgres tsvector ranking over title + abstract + body.
// Title terms are weighted 'A', abstract 'B', body 'C' so a title hit outranks
// the same term buried in the body.
func (r *DocumentRepositoryImpl) FullTextSearch(ctx context.Context, query, namespace string, limit int) ([]*contract.ScoredDocument, error) {
	if limit <= 0 {
		limit = 10
	}

	type row struct {
		model.Document
		Rank float64
	}
	var rows []row

	tsv := "setweight(to_tsvector('english', coalesce(title,'')), 'A') || " +
		"setweight(to_tsvector('english', coalesce(abstract,'')), 'B') || " +
		"setweight(to_tsvector('english', coalesce(body,'')), 'C')"

	err := r.db.WithContext(ctx).
		Table("documents").
		Select("documents.*, ts_rank("+tsv+", plainto_tsquery('english', ?)) AS rank", query).
		Where("namespace = ?", namespace).
		Where("deleted_at IS NULL").
		Where(tsv+" @@ plainto_tsquery('english', ?)", query).
		Order("rank DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredDocument, len(rows))
	for i, res := range rows {
		scored[i] = &contract.ScoredDocument{
			Document: r.mapper.ToEntity(&res.Document),
			Rank:     res.Rank,
		}
	}
	return scored, nil
}

// ExactSearch does case-insensitive substring matching. The score reflects the
// best field that matched: title 1.0, abstract 0.7, body 0.4.
func (r *DocumentRepositoryImpl) ExactSearch(ctx context.Context, phrase, namespace string, limit int) ([]*contract.ScoredDocument, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + strings.TrimSpace(phrase) + "%"

	var models []*model.Document
	err := r.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Where("title ILIKE ? OR abstract ILIKE ? OR body ILIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(strings.TrimSpace(phrase))
	scored := make([]*contract.ScoredDocument, 0, len(models))
	for _, m := range models {
		score := 0.0
		switch {
		case strings.Contains(strings.ToLower(m.Title), lower):
			score = 1.0
		case strings.Contains(strings.ToLower(m.Abstract), lower):
			score = 0.7
		default:
			score = 0.4
		}
		scored = append(scored, &contract.ScoredDocument{
			Document: r.mapper.ToEntity(m),
			Rank:     score,
		})
	}
	return scored, nil
}
