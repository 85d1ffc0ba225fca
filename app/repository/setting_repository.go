package repository

import (
	"context"

	"github.com/afilmory/core/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingRepository implements the SettingRepository interface
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository instance
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// GetMany returns the stored rows for the given keys; missing keys are simply absent.
func (r *settingRepository) GetMany(ctx context.Context, tenantID string, keys []string) ([]models.Setting, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var settings []models.Setting
	// Correct column is `setting_key` (see gorm tag in models.Setting)
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND setting_key IN ?", tenantID, keys).
		Find(&settings).Error
	return settings, err
}

// Upsert writes all rows in one transaction.
func (r *settingRepository) Upsert(ctx context.Context, settings []models.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_id"},
				{Name: "setting_key"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"value",
				"is_sensitive",
				"updated_at",
			}),
		}).Create(&settings).Error
	})
}

func (r *settingRepository) DeleteMany(ctx context.Context, tenantID string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND setting_key IN ?", tenantID, keys).
		Delete(&models.Setting{}).Error
}
