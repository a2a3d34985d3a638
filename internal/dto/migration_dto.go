package dto

import "time"

// MigrationRequest selects source documents by namespace and describes how to
// move them into the target namespace.
type MigrationRequest struct {
	SourceNamespace string `json:"sourceNamespace"`
	TargetNamespace string `json:"targetNamespace" validate:"required"`
	BatchSize       int    `json:"batchSize" validate:"omitempty,min=1,max=1000"`
	Concurrency     int    `json:"concurrency" validate:"omitempty,min=1,max=64"`
	ErrorHandling   string `json:"errorHandling" validate:"omitempty,oneof=continue stop"`
	Validate        bool   `json:"validate"`
	Rollback        bool   `json:"rollback"`
	SkipExisting    bool   `json:"skipExisting"`
}

type MigrationResponse struct {
	Id         string     `json:"id"`
	Status     string     `json:"status"`
	Namespace  string     `json:"namespace"`
	Total      int        `json:"total"`
	Processed  int        `json:"processed"`
	Failed     int        `json:"failed"`
	Errors     []string   `json:"errors,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}
