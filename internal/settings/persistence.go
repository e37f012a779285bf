package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Persistence loads and saves the whole settings document.
type Persistence interface {
	Load(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, v models.Settings) error
}

type Memory struct {
	mu  sync.Mutex
	doc []byte
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(_ context.Context) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var v models.Settings
	if len(m.doc) == 0 {
		return v, nil
	}
	err := json.Unmarshal(m.doc, &v)
	return v, err
}

func (m *Memory) Save(_ context.Context, v models.Settings) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.doc = data
	m.mu.Unlock()
	return nil
}

type File struct {
	Path string
}

func (f File) Load(_ context.Context) (models.Settings, error) {
	var v models.Settings
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(raw) == 0) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode settings: %w", err)
	}
	return v, nil
}

func (f File) Save(_ context.Context, v models.Settings) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return os.Rename(tmp, f.Path)
}

// Record is the row the relational backend keeps the document in.
type Record struct {
	Name      string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Record) TableName() string { return "settings" }

const recordKey = "storefront"

type GormRow struct {
	DB *gorm.DB
}

func (g GormRow) Migrate(ctx context.Context) error {
	return g.DB.WithContext(ctx).AutoMigrate(&Record{})
}

func (g GormRow) Load(ctx context.Context) (models.Settings, error) {
	var v models.Settings
	var rec Record
	err := g.DB.WithContext(ctx).Where("name = ?", recordKey).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return v, nil
	}
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(rec.Value), &v); err != nil {
		return v, fmt.Errorf("decode settings row: %w", err)
	}
	return v, nil
}

func (g GormRow) Save(ctx context.Context, v models.Settings) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	rec := Record{Name: recordKey, Value: string(data)}
	return g.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}
