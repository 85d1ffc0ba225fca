package billing

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/afilmory/core/app/models"
	"github.com/afilmory/core/internal/pkg/systemsetting"
)

type planUpdate struct {
	tenantID string
	planID   *string
	at       time.Time
}

type fakeTenants struct {
	mu      sync.Mutex
	tenants map[string]*models.Tenant
	updates []planUpdate
}

func newFakeTenants(tenants ...*models.Tenant) *fakeTenants {
	f := &fakeTenants{tenants: map[string]*models.Tenant{}}
	for _, t := range tenants {
		f.tenants[t.ID] = t
	}
	return f
}

func (f *fakeTenants) GetByID(_ context.Context, id string) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTenants) UpdateStoragePlan(_ context.Context, id string, planID *string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.StoragePlanID = planID
	t.UpdatedAt = at
	f.updates = append(f.updates, planUpdate{tenantID: id, planID: planID, at: at})
	return nil
}

type fakeUsers struct {
	users []models.AuthUser
}

func (f *fakeUsers) ListByTenant(_ context.Context, tenantID string) ([]models.AuthUser, error) {
	var out []models.AuthUser
	for _, u := range f.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.AuthUser, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) GetByCreemCustomerID(_ context.Context, customerID string) (*models.AuthUser, error) {
	for i := range f.users {
		if c := f.users[i].CreemCustomerID; c != nil && *c == customerID {
			return &f.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakePlanSettings struct {
	catalog     map[string]systemsetting.StoragePlanCatalogEntry
	pricing     map[string]systemsetting.StoragePlanPricing
	products    map[string]systemsetting.StoragePlanPaymentInfo
	providerKey *string
}

func (f *fakePlanSettings) GetStoragePlanCatalog(context.Context) (map[string]systemsetting.StoragePlanCatalogEntry, error) {
	if f.catalog == nil {
		return map[string]systemsetting.StoragePlanCatalogEntry{}, nil
	}
	return f.catalog, nil
}

func (f *fakePlanSettings) GetStoragePlanPricing(context.Context) (map[string]systemsetting.StoragePlanPricing, error) {
	return f.pricing, nil
}

func (f *fakePlanSettings) GetStoragePlanProducts(context.Context) (map[string]systemsetting.StoragePlanPaymentInfo, error) {
	return f.products, nil
}

func (f *fakePlanSettings) GetManagedStorageProviderKey(context.Context) (*string, error) {
	return f.providerKey, nil
}

type fakeAppPlans struct {
	planID    string
	bytes     int64
	unlimited bool
}

func (f *fakeAppPlans) GetPlanIDForTenant(context.Context, string) (string, error) {
	return f.planID, nil
}

func (f *fakeAppPlans) IncludedStorageBytes(string) (int64, bool) {
	return f.bytes, f.unlimited
}

type subscriptionQuery struct {
	productID   string
	userIDs     []string
	customerIDs []string
}

type fakeSubscriptions struct {
	mu      sync.Mutex
	sub     *models.CreemSubscription
	queries []subscriptionQuery
}

func (f *fakeSubscriptions) FindLatestSubscription(_ context.Context, productID string, userIDs, customerIDs []string) (*models.CreemSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, subscriptionQuery{productID: productID, userIDs: userIDs, customerIDs: customerIDs})
	return f.sub, nil
}

type fakeRepo struct {
	fakeSubscriptions
	upserted []models.CreemSubscription
	events   map[string]*models.BillingWebhookEvent
	nextID   uint
	marked   map[uint]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: map[string]*models.BillingWebhookEvent{}, marked: map[uint]string{}}
}

func (f *fakeRepo) UpsertSubscription(_ context.Context, sub *models.CreemSubscription) error {
	if sub.ID == "" {
		sub.ID = "sub-row-" + sub.CreemSubscriptionID
	}
	f.upserted = append(f.upserted, *sub)
	return nil
}

func (f *fakeRepo) CreateWebhookEventIfNotExists(_ context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	key := event.Provider + "/" + event.ProviderEventID
	if stored, ok := f.events[key]; ok {
		return false, stored, nil
	}
	f.nextID++
	event.ID = f.nextID
	f.events[key] = event
	return true, event, nil
}

func (f *fakeRepo) MarkWebhookProcessed(_ context.Context, id uint, processingError string) error {
	f.marked[id] = processingError
	return nil
}

type assignCall struct {
	tenantID string
	planID   *string
}

type fakeAssigner struct {
	calls []assignCall
	err   error
}

func (f *fakeAssigner) AssignPlanToTenant(_ context.Context, tenantID string, planID *string) error {
	f.calls = append(f.calls, assignCall{tenantID: tenantID, planID: planID})
	return f.err
}

func ptr[T any](v T) *T { return &v }
