// internal/store/backend.go
package store

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/snehalata/aura-backend/internal/models"
)

// ErrNotFound reports an absent blob. Callers treat absence as an
// empty entity, never as a failure.
var ErrNotFound = errors.New("state blob not found")

// Backend is the durable key/value surface the commerce store writes
// through. Every value is a full serialized entity.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// GormBackend persists blobs as state_blobs rows.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (b *GormBackend) Get(key string) ([]byte, error) {
	var blob models.StateBlob
	if err := b.db.First(&blob, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read state blob %q: %w", key, err)
	}
	return blob.Value, nil
}

func (b *GormBackend) Put(key string, value []byte) error {
	blob := models.StateBlob{Key: key, Value: value}
	if err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error; err != nil {
		return fmt.Errorf("failed to write state blob %q: %w", key, err)
	}
	return nil
}

// MemoryBackend keeps blobs in memory. Used in tests and as a
// zero-dependency fallback when no database is configured.
type MemoryBackend struct {
	mtx   sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(key string) ([]byte, error) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	value, ok := b.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (b *MemoryBackend) Put(key string, value []byte) error {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	b.blobs[key] = stored
	return nil
}
