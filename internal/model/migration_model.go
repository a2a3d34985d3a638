package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Migration struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Status           string         `gorm:"type:text;not null;index"`
	Namespace        string         `gorm:"type:text;not null;default:'default'"`
	Plan             datatypes.JSON `gorm:"type:jsonb"`
	TotalRecords     int            `gorm:"default:0"`
	ProcessedRecords int            `gorm:"default:0"`
	FailedRecords    int            `gorm:"default:0"`
	Errors           datatypes.JSON `gorm:"type:jsonb"`
	StartedAt        time.Time      `gorm:"autoCreateTime"`
	FinishedAt       *time.Time
}

func (Migration) TableName() string {
	return "migrations"
}
