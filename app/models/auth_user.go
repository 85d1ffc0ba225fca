package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthUser is a dashboard user belonging to exactly one tenant. CreemCustomerID
// links the user to the payment provider once a checkout has happened.
type AuthUser struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID        string    `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Email           string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	Name            string    `gorm:"type:varchar(150)" json:"name"`
	CreemCustomerID *string   `gorm:"type:varchar(191);default:null;index" json:"creem_customer_id,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AuthUser) TableName() string {
	return "auth_users"
}

func (u *AuthUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
