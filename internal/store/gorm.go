package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one key of the durable data set
type Record struct {
	Key       string    `gorm:"primaryKey;size:128"`
	Value     string    `gorm:"type:text;not null"`
	Revision  int64     `gorm:"not null;default:1"`
	Origin    string    `gorm:"size:64"`
	UpdatedAt time.Time `gorm:"index"`
}

func (Record) TableName() string {
	return "kv_records"
}

// GormSubstrate stores records in a SQL table through gorm. It backs both
// the postgres and sqlite drivers.
type GormSubstrate struct {
	db *gorm.DB
}

// NewGormSubstrate migrates the records table and returns the substrate
func NewGormSubstrate(db *gorm.DB) (*GormSubstrate, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_records: %w", err)
	}
	return &GormSubstrate{db: db}, nil
}

func (g *GormSubstrate) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	err := g.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(rec.Value), nil
}

func (g *GormSubstrate) Set(ctx context.Context, key string, value []byte, origin string) error {
	now := time.Now()
	rec := Record{Key: key, Value: string(value), Revision: 1, Origin: origin, UpdatedAt: now}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      rec.Value,
			"revision":   gorm.Expr("kv_records.revision + 1"),
			"origin":     origin,
			"updated_at": now,
		}),
	}).Create(&rec).Error
}

func (g *GormSubstrate) Revisions(ctx context.Context) (map[string]Revision, error) {
	var rows []Record
	if err := g.db.WithContext(ctx).Select("key", "revision", "origin").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]Revision, len(rows))
	for _, r := range rows {
		out[r.Key] = Revision{Number: r.Revision, Origin: r.Origin}
	}
	return out, nil
}
