package billing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/afilmory/core/app/models"
)

// Repository provides DB operations used by the billing services.
type Repository interface {
	FindLatestSubscription(ctx context.Context, productID string, userIDs, customerIDs []string) (*models.CreemSubscription, error)
	UpsertSubscription(ctx context.Context, sub *models.CreemSubscription) error
	CreateWebhookEventIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// FindLatestSubscription always filters by product; user and customer ids are
// OR-ed and an empty set contributes no condition.
func (r *gormRepository) FindLatestSubscription(ctx context.Context, productID string, userIDs, customerIDs []string) (*models.CreemSubscription, error) {
	if len(userIDs) == 0 && len(customerIDs) == 0 {
		return nil, nil
	}

	var sub models.CreemSubscription
	err := latestSubscriptionQuery(r.db.WithContext(ctx), productID, userIDs, customerIDs).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// latestSubscriptionQuery renders product_id = ? AND (<owner>). The owner
// group is built on a fresh session so its conditions stay parenthesized.
func latestSubscriptionQuery(db *gorm.DB, productID string, userIDs, customerIDs []string) *gorm.DB {
	owner := db.Session(&gorm.Session{NewDB: true})
	switch {
	case len(userIDs) > 0 && len(customerIDs) > 0:
		owner = owner.Where("reference_id IN ?", userIDs).Or("creem_customer_id IN ?", customerIDs)
	case len(userIDs) > 0:
		owner = owner.Where("reference_id IN ?", userIDs)
	default:
		owner = owner.Where("creem_customer_id IN ?", customerIDs)
	}
	return db.Where("product_id = ?", productID).
		Where(owner).
		Order("updated_at DESC")
}

func (r *gormRepository) UpsertSubscription(ctx context.Context, sub *models.CreemSubscription) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "creem_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"reference_id",
			"creem_customer_id",
			"product_id",
			"status",
			"period_start",
			"period_end",
			"cancel_at_period_end",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return db.Where("creem_subscription_id = ?", sub.CreemSubscriptionID).First(sub).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	db := r.db.WithContext(ctx)
	tx := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.BillingWebhookEvent
	if err := db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.WithContext(ctx).Model(&models.BillingWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
