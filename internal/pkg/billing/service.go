package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/afilmory/core/app/models"
	"github.com/afilmory/core/internal/pkg/systemsetting"
)

// UserLookup resolves the dashboard user behind a subscription.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.AuthUser, error)
	GetByCreemCustomerID(ctx context.Context, customerID string) (*models.AuthUser, error)
}

// ProductSource maps storage plans to payment products.
type ProductSource interface {
	GetStoragePlanProducts(ctx context.Context) (map[string]systemsetting.StoragePlanPaymentInfo, error)
}

// PlanAssigner changes the storage plan of a tenant.
type PlanAssigner interface {
	AssignPlanToTenant(ctx context.Context, tenantID string, planID *string) error
}

// Service keeps subscriptions and tenant storage plans in sync with the
// payment provider.
type Service struct {
	repo     Repository
	users    UserLookup
	tenants  TenantStore
	products ProductSource
	plans    PlanAssigner
	now      func() time.Time
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, users UserLookup, tenants TenantStore, products ProductSource, plans PlanAssigner) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		tenants:  tenants,
		products: products,
		plans:    plans,
		now:      time.Now,
	}
}

// SyncSubscription upserts provider subscription data.
func (s *Service) SyncSubscription(ctx context.Context, in NormalizedSubscription) (*models.CreemSubscription, error) {
	subID := strings.TrimSpace(in.CreemSubscriptionID)
	productID := strings.TrimSpace(in.ProductID)
	if subID == "" || productID == "" {
		return nil, errors.New("creem_subscription_id and product_id are required")
	}

	sub := &models.CreemSubscription{
		CreemSubscriptionID: subID,
		ReferenceID:         models.NormalizeOptionalID(&in.ReferenceID),
		CreemCustomerID:     models.NormalizeOptionalID(&in.CreemCustomerID),
		ProductID:           productID,
		Status:              normalizeStatus(in.Status),
		PeriodStart:         in.PeriodStart,
		PeriodEnd:           in.PeriodEnd,
		CancelAtPeriodEnd:   in.CancelAtPeriodEnd,
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ApplyCreemEvent stores the subscription and reconciles the owning tenant's
// storage plan. Activating events assign the plan sold under the product
// unless the subscription is already inactive; an expired subscription clears
// the plan when the tenant still holds it.
func (s *Service) ApplyCreemEvent(ctx context.Context, event *CreemWebhookEvent) (WebhookOutcome, error) {
	if event == nil || !IsCreemSubscriptionEvent(event.EventType) {
		return WebhookIgnored, nil
	}

	sub, err := s.SyncSubscription(ctx, event.Subscription)
	if err != nil {
		return "", fmt.Errorf("sync subscription: %w", err)
	}

	owner, err := s.resolveOwner(ctx, sub)
	if err != nil {
		return "", err
	}
	if owner == nil {
		log.Warnf("[Billing] No local user for subscription %s", sub.CreemSubscriptionID)
		return WebhookUnlinked, nil
	}

	planID, err := s.planForProduct(ctx, sub.ProductID)
	if err != nil {
		return "", err
	}
	if planID == "" {
		return WebhookSynced, nil
	}

	switch {
	case isActivatingEvent(event.EventType):
		if ResolveSubscriptionState(sub, s.now()) == SubscriptionInactive {
			return WebhookSynced, nil
		}
		if err := s.plans.AssignPlanToTenant(ctx, owner.TenantID, &planID); err != nil {
			return "", err
		}
		return WebhookPlanUpdated, nil
	case event.EventType == CreemEventSubscriptionExpired:
		tenant, err := loadTenant(ctx, s.tenants, owner.TenantID)
		if err != nil {
			return "", err
		}
		current := tenant.NormalizedStoragePlanID()
		if current == nil || *current != planID {
			return WebhookSynced, nil
		}
		if err := s.plans.AssignPlanToTenant(ctx, owner.TenantID, nil); err != nil {
			return "", err
		}
		return WebhookPlanCleared, nil
	default:
		return WebhookSynced, nil
	}
}

func (s *Service) resolveOwner(ctx context.Context, sub *models.CreemSubscription) (*models.AuthUser, error) {
	if sub.ReferenceID != nil {
		user, err := s.users.GetByID(ctx, *sub.ReferenceID)
		if err == nil && user != nil {
			return user, nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup user %s: %w", *sub.ReferenceID, err)
		}
	}
	if sub.CreemCustomerID != nil {
		user, err := s.users.GetByCreemCustomerID(ctx, *sub.CreemCustomerID)
		if err == nil && user != nil {
			return user, nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup customer %s: %w", *sub.CreemCustomerID, err)
		}
	}
	return nil, nil
}

// planForProduct returns the plan sold under productID, preferring the
// lexically smallest plan id when several share a product.
func (s *Service) planForProduct(ctx context.Context, productID string) (string, error) {
	products, err := s.products.GetStoragePlanProducts(ctx)
	if err != nil {
		return "", fmt.Errorf("load storage plan products: %w", err)
	}
	found := ""
	for planID, info := range products {
		if strings.TrimSpace(info.CreemProductID) != productID {
			continue
		}
		if found == "" || planID < found {
			found = planID
		}
	}
	return found, nil
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(ctx, event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(ctx, webhookEventID, errMsg)
}
