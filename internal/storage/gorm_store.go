package storage

import (
	"errors"

	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var log = logrus.WithField("component", "storage")

// GormStorage persists key/value pairs in the kv_entries table
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage migrates the kv_entries table and returns a storage backed by it
func NewGormStorage(db *gorm.DB) (*GormStorage, error) {
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return nil, err
	}
	return &GormStorage{db: db}, nil
}

func (s *GormStorage) Get(key string) (string, bool) {
	var entry models.KVEntry
	if err := s.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).WithField("key", key).Error("Failed to read persisted value")
		}
		return "", false
	}
	return entry.Value, true
}

func (s *GormStorage) Set(key, value string) error {
	entry := &models.KVEntry{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry).Error
}

func (s *GormStorage) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Where("key IN ?", keys).Delete(&models.KVEntry{}).Error
}
