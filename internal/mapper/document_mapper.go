package mapper

import (
	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/model"

	"gorm.io/datatypes"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToModel(e *entity.Document) *model.Document {
	return &model.Document{
		Id:        e.Id,
		Title:     e.Title,
		Abstract:  e.Abstract,
		Body:      e.Body,
		Namespace: e.Namespace,
		Metadata:  datatypes.JSONMap(e.Metadata),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *DocumentMapper) ToEntity(mo *model.Document) *entity.Document {
	return &entity.Document{
		Id:        mo.Id,
		Title:     mo.Title,
		Abstract:  mo.Abstract,
		Body:      mo.Body,
		Namespace: mo.Namespace,
		Metadata:  map[string]interface{}(mo.Metadata),
		CreatedAt: mo.CreatedAt,
		UpdatedAt: mo.UpdatedAt,
	}
}
