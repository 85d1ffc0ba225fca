package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Creem subscription statuses as reported by the payment provider. The list is
// informational; stored statuses are free text and compared case-insensitively.
const (
	CreemStatusActive    = "active"
	CreemStatusTrialing  = "trialing"
	CreemStatusPaid      = "paid"
	CreemStatusCanceled  = "canceled"
	CreemStatusCancelled = "cancelled"
	CreemStatusExpired   = "expired"
	CreemStatusPastDue   = "past_due"
	CreemStatusUnpaid    = "unpaid"
)

// CreemSubscription mirrors a payment-provider subscription. It is linked to a
// tenant indirectly: ReferenceID holds the purchasing user's id and
// CreemCustomerID the provider customer of one of the tenant's users.
type CreemSubscription struct {
	ID                  string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreemSubscriptionID string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"creem_subscription_id"`
	ReferenceID         *string    `gorm:"type:varchar(191);default:null;index" json:"reference_id,omitempty"`
	CreemCustomerID     *string    `gorm:"type:varchar(191);default:null;index" json:"creem_customer_id,omitempty"`
	ProductID           string     `gorm:"type:varchar(191);not null;index" json:"product_id"`
	Status              string     `gorm:"type:varchar(32);not null;default:''" json:"status"`
	PeriodStart         *time.Time `gorm:"type:timestamp;default:null" json:"period_start,omitempty"`
	PeriodEnd           *time.Time `gorm:"type:timestamp;default:null" json:"period_end,omitempty"`
	CancelAtPeriodEnd   bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime;index" json:"updated_at"`
}

func (s *CreemSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
