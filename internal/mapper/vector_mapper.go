package mapper

import (
	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type VectorMapper struct{}

func NewVectorMapper() *VectorMapper {
	return &VectorMapper{}
}

func (m *VectorMapper) ToModel(e *entity.VectorEntry) *model.DocumentVector {
	return &model.DocumentVector{
		Id:          e.Id,
		DocumentId:  e.DocumentId,
		ChunkIndex:  e.ChunkIndex,
		Namespace:   e.Namespace,
		MigrationId: e.MigrationId,
		Embedding:   pgvector.NewVector(e.Values),
		Metadata:    datatypes.JSONMap(e.Metadata),
	}
}

func (m *VectorMapper) ToEntity(mo *model.DocumentVector) *entity.VectorEntry {
	return &entity.VectorEntry{
		Id:          mo.Id,
		DocumentId:  mo.DocumentId,
		ChunkIndex:  mo.ChunkIndex,
		Namespace:   mo.Namespace,
		MigrationId: mo.MigrationId,
		Values:      mo.Embedding.Slice(),
		Metadata:    map[string]interface{}(mo.Metadata),
	}
}
