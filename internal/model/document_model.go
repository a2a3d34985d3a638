package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Document struct {
	Id        string            `gorm:"type:text;primaryKey"`
	Title     string            `gorm:"type:text;not null"`
	Abstract  string            `gorm:"type:text"`
	Body      string            `gorm:"type:text"`
	Namespace string            `gorm:"type:text;not null;default:'default';index"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt    `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
