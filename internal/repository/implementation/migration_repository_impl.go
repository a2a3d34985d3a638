package implementation

import (
	"context"
	"errors"

	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/mapper"
	"hybrid-search-be/internal/model"
	"hybrid-search-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MigrationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MigrationMapper
}

func NewMigrationRepository(db *gorm.DB) contract.MigrationRepository {
	return &MigrationRepositoryImpl{
		db:     db,
		mapper: mapper.NewMigrationMapper(),
	}
}

func (r *MigrationRepositoryImpl) Create(ctx context.Context, migration *entity.Migration) error {
	m := r.mapper.ToModel(migration)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*migration = *r.mapper.ToEntity(m)
	return nil
}

func (r *MigrationRepositoryImpl) Update(ctx context.Context, migration *entity.Migration) error {
	m := r.mapper.ToModel(migration)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*migration = *r.mapper.ToEntity(m)
	return nil
}

func (r *MigrationRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Migration, error) {
	var m model.Migration
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
