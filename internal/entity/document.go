package entity

import "time"

// Document is a source record. Immutable once indexed except through re-sync.
type Document struct {
	Id        string
	Title     string
	Abstract  string
	Body      string
	Namespace string
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VectorEntry is one embeddable unit stored in the vector index. Id is the document
// id for single-vector documents, or "{documentId}_chunk_{n}" for chunked ones.
type VectorEntry struct {
	Id          string
	DocumentId  string
	ChunkIndex  int
	Namespace   string
	MigrationId string
	Values      []float32
	Metadata    map[string]interface{}
}

// Match is a scored hit returned by the vector index.
type Match struct {
	Id         string
	DocumentId string
	Score      float64
	Metadata   map[string]interface{}
}

// UpsertReceipt reports which entries the index accepted.
type UpsertReceipt struct {
	Accepted int
	Rejected int
}

// IndexDescription describes the configured index.
type IndexDescription struct {
	Dimension int
	Metric    string
}
