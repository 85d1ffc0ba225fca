package repository

import (
	"context"

	"github.com/afilmory/core/app/models"
	"gorm.io/gorm"
)

// authUserRepository implements the AuthUserRepository interface
type authUserRepository struct {
	db *gorm.DB
}

// NewAuthUserRepository creates a new auth user repository instance
func NewAuthUserRepository(db *gorm.DB) AuthUserRepository {
	return &authUserRepository{db: db}
}

func (r *authUserRepository) Create(ctx context.Context, user *models.AuthUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *authUserRepository) GetByID(ctx context.Context, id string) (*models.AuthUser, error) {
	var user models.AuthUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *authUserRepository) GetByCreemCustomerID(ctx context.Context, customerID string) (*models.AuthUser, error) {
	var user models.AuthUser
	if err := r.db.WithContext(ctx).Where("creem_customer_id = ?", customerID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *authUserRepository) ListByTenant(ctx context.Context, tenantID string) ([]models.AuthUser, error) {
	var users []models.AuthUser
	err := r.db.WithContext(ctx).
		Select("id", "tenant_id", "creem_customer_id").
		Where("tenant_id = ?", tenantID).
		Find(&users).Error
	return users, err
}
