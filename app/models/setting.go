package models

import "time"

// Setting is a tenant-scoped configuration entry. An empty TenantID denotes the
// system-wide default scope. A nil Value is an explicit "unset".
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    string    `gorm:"type:varchar(36);not null;default:'';uniqueIndex:ux_settings_tenant_key,priority:1" json:"tenant_id"`
	Key         string    `gorm:"column:setting_key;type:varchar(191);not null;uniqueIndex:ux_settings_tenant_key,priority:2" json:"key" validate:"required,min=1,max=191"`
	Value       *string   `gorm:"type:text" json:"value"`
	IsSensitive bool      `gorm:"default:false" json:"is_sensitive"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
