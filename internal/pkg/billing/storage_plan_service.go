package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"

	"github.com/afilmory/core/app/models"
	"github.com/afilmory/core/internal/pkg/bizerr"
	"github.com/afilmory/core/internal/pkg/systemsetting"
)

// TenantPlanStore reads tenants and persists their storage plan.
type TenantPlanStore interface {
	TenantStore
	UpdateStoragePlan(ctx context.Context, id string, storagePlanID *string, updatedAt time.Time) error
}

// TenantUserLister lists the dashboard users of a tenant.
type TenantUserLister interface {
	ListByTenant(ctx context.Context, tenantID string) ([]models.AuthUser, error)
}

// PlanSettings is the system-setting source for the storage plan catalog.
type PlanSettings interface {
	GetStoragePlanCatalog(ctx context.Context) (map[string]systemsetting.StoragePlanCatalogEntry, error)
	GetStoragePlanPricing(ctx context.Context) (map[string]systemsetting.StoragePlanPricing, error)
	GetStoragePlanProducts(ctx context.Context) (map[string]systemsetting.StoragePlanPaymentInfo, error)
	GetManagedStorageProviderKey(ctx context.Context) (*string, error)
}

// AppPlanResolver resolves the tenant's app-level plan and its allowance.
type AppPlanResolver interface {
	GetPlanIDForTenant(ctx context.Context, tenantID string) (string, error)
	IncludedStorageBytes(planID string) (bytes int64, unlimited bool)
}

// SubscriptionFinder looks up payment subscriptions.
type SubscriptionFinder interface {
	FindLatestSubscription(ctx context.Context, productID string, userIDs, customerIDs []string) (*models.CreemSubscription, error)
}

// StoragePlanService resolves managed storage plans for tenants.
type StoragePlanService struct {
	tenants       TenantPlanStore
	users         TenantUserLister
	settings      PlanSettings
	plans         AppPlanResolver
	subscriptions SubscriptionFinder
	now           func() time.Time
}

func NewStoragePlanService(
	tenants TenantPlanStore,
	users TenantUserLister,
	settings PlanSettings,
	plans AppPlanResolver,
	subscriptions SubscriptionFinder,
) *StoragePlanService {
	return &StoragePlanService{
		tenants:       tenants,
		users:         users,
		settings:      settings,
		plans:         plans,
		subscriptions: subscriptions,
		now:           time.Now,
	}
}

// PlanCatalog merges the configured catalog over the built-in defaults. An
// override replaces the default entry with the same id completely.
func (s *StoragePlanService) PlanCatalog(ctx context.Context) (map[string]StoragePlanDefinition, error) {
	_, catalog, err := s.orderedCatalog(ctx)
	return catalog, err
}

// orderedCatalog returns the merged catalog and its listing order: default
// plans first in their declared order, then configured ids ascending.
func (s *StoragePlanService) orderedCatalog(ctx context.Context) ([]string, map[string]StoragePlanDefinition, error) {
	overrides, err := s.settings.GetStoragePlanCatalog(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load storage plan catalog: %w", err)
	}

	merged := DefaultStoragePlanCatalog()
	for id, entry := range overrides {
		merged[id] = entry
	}

	order := make([]string, 0, len(merged))
	seen := make(map[string]struct{}, len(merged))
	for _, p := range defaultStoragePlans {
		order = append(order, p.id)
		seen[p.id] = struct{}{}
	}
	extra := make([]string, 0, len(overrides))
	for id := range overrides {
		if _, ok := seen[id]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	catalog := make(map[string]StoragePlanDefinition, len(merged))
	ids := order[:0]
	for _, id := range order {
		if strings.TrimSpace(id) == "" {
			continue
		}
		catalog[id] = toDefinition(id, merged[id])
		ids = append(ids, id)
	}
	return ids, catalog, nil
}

func toDefinition(id string, entry systemsetting.StoragePlanCatalogEntry) StoragePlanDefinition {
	def := StoragePlanDefinition{
		ID:          id,
		Name:        entry.Name,
		Description: entry.Description,
		IsActive:    entry.IsActive == nil || *entry.IsActive,
	}
	if def.Name == "" {
		def.Name = id
	}
	switch {
	case !entry.CapacityBytes.Present:
		var zero int64
		def.CapacityBytes = &zero
	case entry.CapacityBytes.Bytes != nil:
		n := *entry.CapacityBytes.Bytes
		def.CapacityBytes = &n
	}
	return def
}

type planData struct {
	order    []string
	catalog  map[string]StoragePlanDefinition
	pricing  map[string]systemsetting.StoragePlanPricing
	products map[string]systemsetting.StoragePlanPaymentInfo
}

func (s *StoragePlanService) loadPlanData(ctx context.Context) (*planData, error) {
	data := &planData{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.order, data.catalog, err = s.orderedCatalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.pricing, err = s.settings.GetStoragePlanPricing(gctx)
		if err != nil {
			return fmt.Errorf("load storage plan pricing: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		data.products, err = s.settings.GetStoragePlanProducts(gctx)
		if err != nil {
			return fmt.Errorf("load storage plan products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (d *planData) summary(id string) *StoragePlanSummary {
	def, ok := d.catalog[id]
	if !ok {
		return nil
	}
	out := &StoragePlanSummary{StoragePlanDefinition: def}
	if p, ok := d.pricing[id]; ok {
		out.Pricing = &p
	}
	if p, ok := d.products[id]; ok {
		out.Payment = &p
	}
	return out
}

// GetPlanSummaries lists every plan that is not deactivated.
func (s *StoragePlanService) GetPlanSummaries(ctx context.Context) ([]StoragePlanSummary, error) {
	data, err := s.loadPlanData(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StoragePlanSummary, 0, len(data.order))
	for _, id := range data.order {
		summary := data.summary(id)
		if summary == nil || !summary.IsActive {
			continue
		}
		out = append(out, *summary)
	}
	return out, nil
}

// GetPlanByID returns the plan regardless of its active flag, or nil.
func (s *StoragePlanService) GetPlanByID(ctx context.Context, planID string) (*StoragePlanSummary, error) {
	data, err := s.loadPlanData(ctx)
	if err != nil {
		return nil, err
	}
	return data.summary(planID), nil
}

func (s *StoragePlanService) storagePlanIDForTenant(ctx context.Context, tenantID string) (*string, error) {
	tenant, err := loadTenant(ctx, s.tenants, tenantID)
	if err != nil {
		return nil, err
	}
	return tenant.NormalizedStoragePlanID(), nil
}

// GetPlanSummaryForTenant returns the tenant's assigned plan or nil when none
// is assigned or the id no longer exists in the catalog.
func (s *StoragePlanService) GetPlanSummaryForTenant(ctx context.Context, tenantID string) (*StoragePlanSummary, error) {
	planID, err := s.storagePlanIDForTenant(ctx, tenantID)
	if err != nil || planID == nil {
		return nil, err
	}
	return s.GetPlanByID(ctx, *planID)
}

// GetActivePlanSummaryForTenant returns the tenant's plan only while it is
// usable. A plan sold through the payment provider is revoked once the latest
// matching subscription is inactive; an unknown state keeps it.
func (s *StoragePlanService) GetActivePlanSummaryForTenant(ctx context.Context, tenantID string) (*StoragePlanSummary, error) {
	plan, err := s.GetPlanSummaryForTenant(ctx, tenantID)
	if err != nil || plan == nil || !plan.IsActive {
		return nil, err
	}

	productID := strings.TrimSpace(plan.ProductID())
	if productID == "" {
		return plan, nil
	}

	sub, err := s.ResolveLatestSubscriptionForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return plan, nil
	}
	if state := ResolveSubscriptionState(sub, s.now()); state == SubscriptionInactive {
		log.Debugf("[StoragePlan] Subscription %s for tenant %s is inactive", sub.CreemSubscriptionID, tenantID)
		return nil, nil
	}
	return plan, nil
}

// ResolveLatestSubscriptionForTenant finds the most recently updated
// subscription for productID that belongs to one of the tenant's users,
// either by reference id or by payment customer id.
func (s *StoragePlanService) ResolveLatestSubscriptionForTenant(ctx context.Context, tenantID, productID string) (*models.CreemSubscription, error) {
	users, err := s.users.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list users of tenant %s: %w", tenantID, err)
	}

	userIDs := make([]string, 0, len(users))
	customerIDs := make([]string, 0, len(users))
	for _, u := range users {
		if u.ID != "" {
			userIDs = append(userIDs, u.ID)
		}
		if u.CreemCustomerID != nil && *u.CreemCustomerID != "" {
			customerIDs = append(customerIDs, *u.CreemCustomerID)
		}
	}
	if len(userIDs) == 0 && len(customerIDs) == 0 {
		return nil, nil
	}

	sub, err := s.subscriptions.FindLatestSubscription(ctx, productID, userIDs, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("find subscription for tenant %s: %w", tenantID, err)
	}
	return sub, nil
}

// GetQuotaForTenant combines the app plan allowance with the storage plan.
func (s *StoragePlanService) GetQuotaForTenant(ctx context.Context, tenantID string) (*StorageQuotaSummary, error) {
	var (
		storagePlanID *string
		appPlanID     string
		catalog       map[string]StoragePlanDefinition
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		storagePlanID, err = s.storagePlanIDForTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		appPlanID, err = s.plans.GetPlanIDForTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = s.PlanCatalog(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return computeQuota(appPlanID, s.plans, storagePlanID, catalog), nil
}

func computeQuota(appPlanID string, plans AppPlanResolver, storagePlanID *string, catalog map[string]StoragePlanDefinition) *StorageQuotaSummary {
	quota := &StorageQuotaSummary{}
	appBytes, appUnlimited := plans.IncludedStorageBytes(appPlanID)
	if !appUnlimited {
		quota.AppIncludedBytes = &appBytes
	}

	storageUnlimited := false
	var planBytes int64
	if storagePlanID != nil {
		if def, ok := catalog[*storagePlanID]; ok {
			if def.CapacityBytes == nil {
				storageUnlimited = true
			} else {
				planBytes = *def.CapacityBytes
			}
		}
	}
	if !storageUnlimited {
		quota.StoragePlanBytes = &planBytes
	}

	if appUnlimited || storageUnlimited {
		return quota
	}
	total := appBytes + planBytes
	quota.TotalBytes = &total
	return quota
}

// GetOverviewForTenant collects everything the storage plan page needs.
func (s *StoragePlanService) GetOverviewForTenant(ctx context.Context, tenantID string) (*StoragePlanOverview, error) {
	var (
		plans       []StoragePlanSummary
		current     *StoragePlanSummary
		providerKey *string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plans, err = s.GetPlanSummaries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = s.GetPlanSummaryForTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		providerKey, err = s.settings.GetManagedStorageProviderKey(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := &StoragePlanOverview{
		ManagedStorageEnabled: providerKey != nil,
		ManagedProviderKey:    providerKey,
		CurrentPlan:           current,
		AvailablePlans:        plans,
	}
	if current != nil {
		id := current.ID
		overview.CurrentPlanID = &id
	}
	return overview, nil
}

// UpdateTenantPlan assigns the plan and returns the refreshed overview.
func (s *StoragePlanService) UpdateTenantPlan(ctx context.Context, tenantID string, planID *string) (*StoragePlanOverview, error) {
	if err := s.AssignPlanToTenant(ctx, tenantID, planID); err != nil {
		return nil, err
	}
	return s.GetOverviewForTenant(ctx, tenantID)
}

// AssignPlanToTenant stores planID on the tenant. A nil or blank id clears the
// plan. Managed storage must be enabled and a given plan must be active.
func (s *StoragePlanService) AssignPlanToTenant(ctx context.Context, tenantID string, planID *string) error {
	normalized := models.NormalizeOptionalID(planID)

	providerKey, err := s.settings.GetManagedStorageProviderKey(ctx)
	if err != nil {
		return fmt.Errorf("load managed storage provider: %w", err)
	}
	if providerKey == nil {
		return bizerr.New(bizerr.CodeBadRequest, "managed storage is not enabled yet, storage plans cannot be subscribed")
	}

	if normalized != nil {
		plan, err := s.GetPlanByID(ctx, *normalized)
		if err != nil {
			return err
		}
		if plan == nil || !plan.IsActive {
			return bizerr.New(bizerr.CodeBadRequest, fmt.Sprintf("unknown or inactive storage plan: %s", *normalized))
		}
	}

	if err := s.tenants.UpdateStoragePlan(ctx, tenantID, normalized, s.now()); err != nil {
		return fmt.Errorf("update storage plan of tenant %s: %w", tenantID, err)
	}
	if normalized == nil {
		log.Infof("[StoragePlan] Cleared storage plan of tenant %s", tenantID)
	} else {
		log.Infof("[StoragePlan] Assigned storage plan %s to tenant %s", *normalized, tenantID)
	}
	return nil
}
