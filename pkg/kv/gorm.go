package kv

import (
	"context"
	"errors"
	"time"

	"github.com/health-optimised/directory-backend/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one persisted key-value row.
type Record struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "kv_records"
}

// GormStore persists key-value pairs through the shared GORM client
// (sqlite locally, postgres in hosted deployments).
type GormStore struct {
	client *db.Client
}

func NewGormStore(client *db.Client) *GormStore {
	return &GormStore{client: client}
}

func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	var record Record
	err := s.client.DB().WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return record.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key, value string) error {
	record := Record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
}

func (s *GormStore) Remove(ctx context.Context, key string) error {
	return s.client.DB().WithContext(ctx).Delete(&Record{}, "key = ?", key).Error
}

func (s *GormStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
