package events

// Event is anything publishable on the event bus.
type Event interface {
	EventType() string
	Payload() interface{}
}

// MigrationProgressEvent is emitted after each completed batch. Consumers
// aggregate by BatchIndex; arrival order is not guaranteed.
type MigrationProgressEvent struct {
	MigrationId string `json:"migrationId"`
	BatchIndex  int    `json:"batchIndex"`
	Processed   int    `json:"processed"`
	Failed      int    `json:"failed"`
	Total       int    `json:"total"`
}

func (e MigrationProgressEvent) EventType() string {
	return "migration.progress"
}

func (e MigrationProgressEvent) Payload() interface{} {
	return e
}

// MigrationFinishedEvent is emitted once a migration reaches a terminal state.
type MigrationFinishedEvent struct {
	MigrationId string `json:"migrationId"`
	Status      string `json:"status"`
	Processed   int    `json:"processed"`
	Failed      int    `json:"failed"`
}

func (e MigrationFinishedEvent) EventType() string {
	return "migration.finished"
}

func (e MigrationFinishedEvent) Payload() interface{} {
	return e
}
