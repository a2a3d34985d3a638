package entity

import (
	"time"

	"github.com/google/uuid"
)

// Migration lifecycle. Terminal states are final; no transition out.
const (
	MigrationStarting   = "starting"
	MigrationRunning    = "running"
	MigrationCompleted  = "completed"
	MigrationFailed     = "failed"
	MigrationRolledBack = "rolled_back"
)

// MigrationPlan is the analysis produced before any batch runs.
type MigrationPlan struct {
	SourceCount      int               `json:"sourceCount"`
	FieldMapping     map[string]string `json:"fieldMapping"`
	Transformations  []string          `json:"transformations"`
	BatchSize        int               `json:"batchSize"`
	SubBatchSize     int               `json:"subBatchSize"`
	EstimatedSeconds float64           `json:"estimatedSeconds"`
}

// Migration tracks one batch ingestion run.
type Migration struct {
	Id         uuid.UUID
	Status     string
	Namespace  string
	Plan       MigrationPlan
	Total      int
	Processed  int
	Failed     int
	Errors     []string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Terminal reports whether the migration reached a final state.
func (m *Migration) Terminal() bool {
	switch m.Status {
	case MigrationCompleted, MigrationFailed, MigrationRolledBack:
		return true
	}
	return false
}
