package specification

import "gorm.io/gorm"

// ByID filters by primary key.
type ByID struct {
	ID string
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ByIDs filters by a set of primary keys.
type ByIDs struct {
	IDs []string
}

func (s ByIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.IDs)
}

// ByNamespace scopes a query to one logical partition.
type ByNamespace struct {
	Namespace string
}

func (s ByNamespace) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("namespace = ?", s.Namespace)
}

// DocumentSearchQuery filters documents by title or body explicitly.
// Using ILIKE for Postgres (case insensitive).
type DocumentSearchQuery struct {
	Query string
}

func (s DocumentSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR body ILIKE ?", pattern, pattern)
}

// ByMetadataField filters on one JSONB metadata key.
type ByMetadataField struct {
	Key   string
	Value interface{}
}

func (s ByMetadataField) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("metadata->>? = ?", s.Key, s.Value)
}
