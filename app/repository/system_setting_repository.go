package repository

import (
	"context"
	"errors"

	"github.com/afilmory/core/app/models"
	"gorm.io/gorm"
)

// systemSettingRepository implements the SystemSettingRepository interface
type systemSettingRepository struct {
	db *gorm.DB
}

// NewSystemSettingRepository creates a new system setting repository instance
func NewSystemSettingRepository(db *gorm.DB) SystemSettingRepository {
	return &systemSettingRepository{db: db}
}

// GetValue returns the raw value and whether the key exists
func (r *systemSettingRepository) GetValue(ctx context.Context, key string) (string, bool, error) {
	var setting models.SystemSetting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return setting.Value, true, nil
}

// SetValue sets a specific setting value by key
func (r *systemSettingRepository) SetValue(ctx context.Context, key, value string) error {
	db := r.db.WithContext(ctx)
	var setting models.SystemSetting
	err := db.Where("setting_key = ?", key).First(&setting).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.SystemSetting{
			Key:   key,
			Value: value,
		}
		return db.Create(&setting).Error
	} else if err != nil {
		return err
	}

	setting.Value = value
	return db.Save(&setting).Error
}
