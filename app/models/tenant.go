package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is an isolated customer account. PlanID is the app-level billing plan,
// StoragePlanID the optional managed-storage plan from the storage plan catalog.
type Tenant struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Slug          string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	Name          string    `gorm:"type:varchar(200);not null" json:"name"`
	PlanID        string    `gorm:"type:varchar(50);not null;default:'free'" json:"plan_id"`
	StoragePlanID *string   `gorm:"type:varchar(100);default:null;index" json:"storage_plan_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// NormalizedStoragePlanID returns the trimmed storage plan id or nil when unset or blank.
func (t *Tenant) NormalizedStoragePlanID() *string {
	return NormalizeOptionalID(t.StoragePlanID)
}

// NormalizeOptionalID trims an optional identifier; blank values collapse to nil.
func NormalizeOptionalID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
