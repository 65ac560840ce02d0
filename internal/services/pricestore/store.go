package pricestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fuel-tracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no document has been persisted under a key.
var ErrNotFound = errors.New("document not found")

// Store persists whole PriceDocuments as single JSON blob rows. Writes are
// last-write-wins replacements; refreshes run at most once per schedule, so
// no locking is layered on top.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetDocument loads and decodes the document stored under key.
func (s *Store) GetDocument(ctx context.Context, key string) (*models.PriceDocument, error) {
	var row models.AppDocument
	err := s.db.WithContext(ctx).Where("`key` = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %q: %w", key, err)
	}

	var doc models.PriceDocument
	if err := json.Unmarshal([]byte(row.Value), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %q: %w", key, err)
	}
	return &doc, nil
}

// PutDocument replaces the blob under key wholesale.
func (s *Store) PutDocument(ctx context.Context, key string, doc *models.PriceDocument) error {
	value, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %q: %w", key, err)
	}

	row := models.AppDocument{
		Key:   key,
		Value: string(value),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write document %q: %w", key, err)
	}
	return nil
}
