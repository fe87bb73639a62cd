package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// fragment is one row per key
type fragment struct {
	Name      string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (fragment) TableName() string { return "fragments" }

// SQL stores fragments in a single gorm table; SetMany runs in one transaction
type SQL struct {
	db *gorm.DB
}

// NewSQL migrates the fragments table on db
func NewSQL(db *gorm.DB) (*SQL, error) {
	if err := db.AutoMigrate(&fragment{}); err != nil {
		return nil, fmt.Errorf("storage/sql: migrate: %w", err)
	}
	return &SQL{db: db}, nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var f fragment
	err := s.db.WithContext(ctx).Where("name = ?", key).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage/sql: get %s: %w", key, err)
	}
	return f.Value, nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	return upsert(s.db.WithContext(ctx), key, value)
}

func (s *SQL) SetMany(ctx context.Context, entries map[string][]byte) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range entries {
			if err := upsert(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsert(db *gorm.DB, key string, value []byte) error {
	f := fragment{Name: key, Value: value, UpdatedAt: time.Now()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&f).Error
	if err != nil {
		return fmt.Errorf("storage/sql: set %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("name = ?", key).Delete(&fragment{}).Error; err != nil {
		return fmt.Errorf("storage/sql: delete %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
