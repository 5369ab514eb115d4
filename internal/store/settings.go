package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vbarros/aquaponia-monitor/internal/models"
)

// ErrEmptySettingKey rejects batches containing a setting without a key.
var ErrEmptySettingKey = errors.New("setting key must not be empty")

// SettingsStore persists key/value configuration. Values are stored as text
// and coerced to bool/number/string on read based on their lexical form.
type SettingsStore struct {
	db *gorm.DB
}

// NewSettingsStore creates a settings store backed by db.
func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// GetAll returns every setting with its value coerced to a typed form:
// "true"/"false" become bools, numeric strings become float64, everything
// else stays a string.
func (s *SettingsStore) GetAll(ctx context.Context) (map[string]any, error) {
	var settings []models.Setting

	if err := s.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	values := make(map[string]any, len(settings))
	for _, setting := range settings {
		values[setting.Key] = coerceValue(setting.Value)
	}

	return values, nil
}

// SetAll upserts every key in one transaction. Either the whole batch is
// written or none of it is; a concurrent reader never observes a partial
// update set.
func (s *SettingsStore) SetAll(ctx context.Context, values map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if key == "" {
				return ErrEmptySettingKey
			}

			setting := models.Setting{
				Key:       key,
				Value:     stringifyValue(value),
				UpdatedAt: time.Now().UTC(),
			}

			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&setting).Error
			if err != nil {
				return fmt.Errorf("failed to write setting %q: %w", key, err)
			}
		}

		return nil
	})
}

func coerceValue(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}

	if number, err := strconv.ParseFloat(value, 64); err == nil {
		return number
	}

	return value
}

func stringifyValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
