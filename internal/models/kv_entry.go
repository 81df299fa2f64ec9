package models

import (
	"time"
)

// KVEntry is a persisted client-side key/value pair (authToken, user, tokenExpiration)
type KVEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
