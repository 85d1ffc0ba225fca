package repository

import (
	"context"
	"time"

	"github.com/afilmory/core/app/models"
	"gorm.io/gorm"
)

// TenantRepository defines the interface for tenant-related database operations
type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	UpdateStoragePlan(ctx context.Context, id string, storagePlanID *string, updatedAt time.Time) error
}

// AuthUserRepository defines the interface for dashboard user lookups
type AuthUserRepository interface {
	Create(ctx context.Context, user *models.AuthUser) error
	GetByID(ctx context.Context, id string) (*models.AuthUser, error)
	GetByCreemCustomerID(ctx context.Context, customerID string) (*models.AuthUser, error)
	ListByTenant(ctx context.Context, tenantID string) ([]models.AuthUser, error)
}

// SettingRepository defines the interface for tenant-scoped settings
type SettingRepository interface {
	GetMany(ctx context.Context, tenantID string, keys []string) ([]models.Setting, error)
	Upsert(ctx context.Context, settings []models.Setting) error
	DeleteMany(ctx context.Context, tenantID string, keys []string) error
}

// SystemSettingRepository defines the interface for platform-wide settings
type SystemSettingRepository interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	Tenant        TenantRepository
	AuthUser      AuthUserRepository
	Setting       SettingRepository
	SystemSetting SystemSettingRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tenant:        NewTenantRepository(db),
		AuthUser:      NewAuthUserRepository(db),
		Setting:       NewSettingRepository(db),
		SystemSetting: NewSystemSettingRepository(db),
	}
}
