package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentVector struct {
	Id          string            `gorm:"type:text;primaryKey"` // "{documentId}" or "{documentId}_chunk_{n}"
	DocumentId  string            `gorm:"type:text;not null;index"`
	ChunkIndex  int               `gorm:"default:0"` // 0-based index for ordering
	Namespace   string            `gorm:"type:text;not null;default:'default';index"`
	MigrationId string            `gorm:"type:text;index"` // tag for bulk rollback, empty for online indexing
	Embedding   pgvector.Vector   `gorm:"type:vector(768)"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt    `gorm:"index"`
}

func (DocumentVector) TableName() string {
	return "document_vectors"
}
