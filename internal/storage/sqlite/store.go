// Package sqlite keeps the collections in a local SQLite file through gorm,
// one row per collection. It suits the single-device setup the ledger was
// built for.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// collection is the single table backing the KV.
type collection struct {
	Name      string `gorm:"column:name;primaryKey"`
	Value     []byte `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (collection) TableName() string { return "collections" }

// Store is a gorm/SQLite backed KV.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database file at path and migrates the table.
// An empty path opens a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := "file::memory:"
	if path != "" {
		dsn = fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", path)
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if path == "" {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&collection{}); err != nil {
		return nil, fmt.Errorf("migrate collections: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the stored document, or nil when no row exists.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var c collection
	err := s.db.WithContext(ctx).First(&c, "name = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c.Value, nil
}

// Set upserts the document for key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	c := collection{Name: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&c).Error
}

// Ready pings the underlying connection.
func (s *Store) Ready(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
