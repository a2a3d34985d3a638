package model

import "time"

// CacheEntry backs the L3 structured cache layer. Complex query payloads only;
// key prefixes make bulk invalidation a single indexed range delete.
type CacheEntry struct {
	CacheKey  string    `gorm:"type:text;primaryKey"`
	Payload   []byte    `gorm:"type:bytea"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CacheEntry) TableName() string {
	return "cache_entries"
}
