package implementation

import (
	"context"
	"errors"
	"time"

	"hybrid-search-be/internal/model"
	"hybrid-search-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CacheEntryRepositoryImpl struct {
	db *gorm.DB
}

func NewCacheEntryRepository(db *gorm.DB) contract.CacheEntryRepository {
	return &CacheEntryRepositoryImpl{db: db}
}

func (r *CacheEntryRepositoryImpl) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var m model.CacheEntry
	err := r.db.WithContext(ctx).First(&m, "cache_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if time.Now().After(m.ExpiresAt) {
		// Expired row counts as a miss; reap it opportunistically.
		_ = r.db.WithContext(ctx).Delete(&model.CacheEntry{}, "cache_key = ?", key).Error
		return nil, false, nil
	}
	return m.Payload, true, nil
}

func (r *CacheEntryRepositoryImpl) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	m := &model.CacheEntry{
		CacheKey:  key,
		Payload:   payload,
		ExpiresAt: time.Now().Add(ttl),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		UpdateAll: true,
	}).Create(m).Error
}

func (r *CacheEntryRepositoryImpl) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cache_key LIKE ?", prefix+"%").
		Delete(&model.CacheEntry{})
	return res.RowsAffected, res.Error
}

func (r *CacheEntryRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.CacheEntry{})
	return res.RowsAffected, res.Error
}
