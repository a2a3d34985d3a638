package mapper

import (
	"encoding/json"

	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/model"

	"gorm.io/datatypes"
)

type MigrationMapper struct{}

func NewMigrationMapper() *MigrationMapper {
	return &MigrationMapper{}
}

func (m *MigrationMapper) ToModel(e *entity.Migration) *model.Migration {
	planJSON, _ := json.Marshal(e.Plan)
	errorsJSON, _ := json.Marshal(e.Errors)
	return &model.Migration{
		Id:               e.Id,
		Status:           e.Status,
		Namespace:        e.Namespace,
		Plan:             datatypes.JSON(planJSON),
		TotalRecords:     e.Total,
		ProcessedRecords: e.Processed,
		FailedRecords:    e.Failed,
		Errors:           datatypes.JSON(errorsJSON),
		StartedAt:        e.StartedAt,
		FinishedAt:       e.FinishedAt,
	}
}

func (m *MigrationMapper) ToEntity(mo *model.Migration) *entity.Migration {
	e := &entity.Migration{
		Id:         mo.Id,
		Status:     mo.Status,
		Namespace:  mo.Namespace,
		Total:      mo.TotalRecords,
		Processed:  mo.ProcessedRecords,
		Failed:     mo.FailedRecords,
		StartedAt:  mo.StartedAt,
		FinishedAt: mo.FinishedAt,
	}
	if len(mo.Plan) > 0 {
		_ = json.Unmarshal(mo.Plan, &e.Plan)
	}
	if len(mo.Errors) > 0 {
		_ = json.Unmarshal(mo.Errors, &e.Errors)
	}
	return e
}
