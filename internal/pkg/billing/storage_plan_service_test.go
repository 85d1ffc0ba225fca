package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afilmory/core/app/models"
	"github.com/afilmory/core/internal/pkg/bizerr"
	"github.com/afilmory/core/internal/pkg/systemsetting"
)

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type planFixture struct {
	tenants  *fakeTenants
	users    *fakeUsers
	settings *fakePlanSettings
	appPlans *fakeAppPlans
	subs     *fakeSubscriptions
	svc      *StoragePlanService
}

func newPlanFixture(tenant *models.Tenant) *planFixture {
	f := &planFixture{
		tenants:  newFakeTenants(tenant),
		users:    &fakeUsers{},
		settings: &fakePlanSettings{providerKey: ptr("managed-r2")},
		appPlans: &fakeAppPlans{planID: PlanFree, bytes: 1 * gib},
		subs:     &fakeSubscriptions{},
	}
	f.svc = NewStoragePlanService(f.tenants, f.users, f.settings, f.appPlans, f.subs)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func tenantWithPlan(planID *string) *models.Tenant {
	return &models.Tenant{ID: "tenant-1", Slug: "acme", Name: "Acme", PlanID: PlanFree, StoragePlanID: planID}
}

func TestPlanCatalog_OverrideReplacesDefaultEntry(t *testing.T) {
	f := newPlanFixture(tenantWithPlan(nil))
	f.settings.catalog = map[string]systemsetting.StoragePlanCatalogEntry{
		"managed-5gb": {Name: "Starter"},
	}

	catalog, err := f.svc.PlanCatalog(context.Background())
	require.NoError(t, err)

	plan := catalog["managed-5gb"]
	assert.Equal(t, "Starter", plan.Name)
	assert.Nil(t, plan.Description, "default description must not leak into the override")
	require.NotNil(t, plan.CapacityBytes)
	assert.Equal(t, int64(0), *plan.CapacityBytes)
	assert.True(t, plan.IsActive)

	untouched := catalog["managed-50gb"]
	require.NotNil(t, untouched.CapacityBytes)
	assert.Equal(t, 50*gib, *untouched.CapacityBytes)
	assert.NotNil(t, untouched.Description)
}

func TestPlanCatalog_ExplicitNullCapacityIsUnbounded(t *testing.T) {
	f := newPlanFixture(tenantWithPlan(nil))
	f.settings.catalog = map[string]systemsetting.StoragePlanCatalogEntry{
		"managed-unlimited": {Name: "Unlimited", CapacityBytes: systemsetting.Unbounded()},
	}

	catalog, err := f.svc.PlanCatalog(context.Background())
	require.NoError(t, err)
	assert.Nil(t, catalog["managed-unlimited"].CapacityBytes)
}

func TestPlanCatalog_DropsEmptyIDs(t *testing.T) {
	f := newPlanFixture(tenantWithPlan(nil))
	f.settings.catalog = map[string]systemsetting.StoragePlanCatalogEntry{
		"":    {Name: "Broken"},
		"   ": {Name: "Blank"},
	}

	catalog, err := f.svc.PlanCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog, 3)
	assert.NotContains(t, catalog, "")
}

func TestGetPlanSummaries_OrderAndActiveFilter(t *testing.T) {
	f := newPlanFixture(tenantWithPlan(nil))
	f.settings.catalog = map[string]systemsetting.StoragePlanCatalogEntry{
		"zeta":          {Name: "Zeta", CapacityBytes: systemsetting.Bounded(1)},
		"alpha":         {Name: "Alpha", CapacityBytes: systemsetting.Bounded(2), IsActive: ptr(true)},
		"managed-50gb":  {Name: "Retired", IsActive: ptr(false)},
		"hidden-legacy": {Name: "Legacy", IsActive: ptr(false)},
	}
	f.settings.pricing = map[string]systemsetting.StoragePlanPricing{
		"alpha": {MonthlyPrice: ptr(4.5), Currency: ptr("USD")},
	}
	f.settings.products = map[string]systemsetting.StoragePlanPaymentInfo{
		"alpha": {CreemProductID: "prod_alpha"},
	}

	plans, err := f.svc.GetPlanSummaries(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(plans))
	for _, p := range plans {
		assert.True(t, p.IsActive)
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"managed-5gb", "managed-200gb", "alpha", "zeta"}, ids)

	alpha := plans[2]
	require.NotNil(t, alpha.Pricing)
	assert.Equal(t, 4.5, *alpha.Pricing.MonthlyPrice)
	assert.Equal(t, "prod_alpha", alpha.ProductID())
	assert.Nil(t, plans[3].Pricing)
	assert.Equal(t, "", plans[3].ProductID())
}

func TestGetPlanByID(t *testing.T) {
	f := newPlanFixture(tenantWithPlan(nil))
	f.settings.catalog = map[string]systemsetting.StoragePlanCatalogEntry{
		"retired": {Name: "Retired", IsActive: ptr(false)},
	}

	plan, err := f.svc.GetPlanByID(context.Background(), "retired")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.False(t, plan.IsActive)

	missing, err := f.svc.GetPlanByID(context.Background(), "nonexistent-plan")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetPlanSummaryForTenant(t *testing.T) {
	t.Run("no plan assigned", func(t *testing.T) {
		f := newPlanFixture(tenantWithPlan(ptr("   ")))
		plan, err := f.svc.GetPlanSummaryForTenant(context.Background(), "tenant-1")
		require.NoError(t, err)
		assert.Nil(t, plan)
	})

	t.Run("plan removed from catalog", func(t *testing.T) {
		f := newPlanFixture(tenantWithPlan(ptr("gone")))
		plan, err := f.svc.GetPlanSummaryForTenant(context.Background(), "tenant-1")
		require.NoError(t, err)
		assert.Nil(t, plan)
	})

	t.Run("plan id is trimmed", func(t *testing.T) {
		f := newPlanFixture(tenantWithPlan(ptr(" managed-50gb ")))
		plan, err := f.svc.GetPlanSummaryForTenant(context.Background(), "tenant-1")
		require.NoError(t, err)
		require.NotNil(t, plan)
		assert.Equal(t, "managed-50gb", plan.ID)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		f := newPlanFixture(tenantWithPlan(nil))
		_, err := f.svc.GetPlanSummaryForTenant(context.Background(), "missing")
		assert.True(t, bizerr.HasCode(err, bizerr.CodeTenantNotFound))
	})
}

func TestGetActivePlanSummaryForTenant(t *testing.T) {
	yesterday := fixedNow.Add(-24 * time.Hour)
	tomorrow := fixedNow.Add(24 * time.Hour)

	tests := []struct {
		name     string
		users    []models.AuthUser
		sub      *models.CreemSubscription
		product  string
		inactive bool
		wantPlan bool
	}{
		{name: "plan without product", wantPlan: true},
		{name: "deactivated plan", inactive: true, wantPlan: false},
		{
			name:     "no users means no subscription",
			product:  "prod_50",
			sub:      &models.CreemSubscription{Status: "expired", PeriodEnd: &yesterday},
			wantPlan: true,
		},
		{
			name:     "no subscription found",
			product:  "prod_50",
			users:    []models.AuthUser{{ID: "user-1", TenantID: "tenant-1"}},
			wantPlan: true,
		},
		{
			name:     "active subscription",
			product:  "prod_50",
			users:    []models.AuthUser{{ID: "user-1", TenantID: "tenant-1"}},
			sub:      &models.CreemSubscription{Status: "active", PeriodEnd: &tomorrow},
			wantPlan: true,
		},
		{
			name:     "expired subscription revokes plan",
			product:  "prod_50",
			users:    []models.AuthUser{{ID: "user-1", TenantID: "tenant-1"}},
			sub:      &models.CreemSubscription{Status: "active", PeriodEnd: &yesterday},
			wantPlan: false,
		},
		{
			name:     "unknown state keeps plan",
			product:  "prod_50",
			users:    []models.AuthUser{{ID: "user-1", TenantID: "tenant-1"}},
			sub:      &models.CreemSubscription{Status: "unknown_status"},
			wantPlan: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlanFixture(tenantWithPlan(ptr("managed-50gb")))
			f.users.users = tt.users
			f.subs.sub = tt.sub
			if tt.product != "" {
				f.settings.products = map[string]systemsetting.StoragePlanPaymentInfo{
					"managed-50gb": {CreemProductID: tt.product},
				}
			}
			if tt.inactive {
				f.settings.catalog = map[string]systemsetting.StoragePlanCatalogEntry{
					"managed-50gb": {Name: "Managed 50 GB", CapacityBytes: systemsetting.Bounded(50 * gib), IsActive: ptr(false)},
				}
			}

			plan, err := f.svc.GetActivePlanSummaryForTenant(context.Background(), "tenant-1")
			require.NoError(t, err)
			if tt.wantPlan {
				require.NotNil(t, plan)
				assert.Equal(t, "managed-50gb", plan.ID)
			} else {
				assert.Nil(t, plan)
			}
		})
	}
}

func TestResolveLatestSubscriptionForTenant(t *testing.T) {
	f := newPlanFixture(tenantWithPlan(nil))
	f.users.users = []models.AuthUser{
		{ID: "user-1", TenantID: "tenant-1", CreemCustomerID: ptr("cus_1")},
		{ID: "user-2", TenantID: "tenant-1", CreemCustomerID: ptr("")},
		{ID: "user-3", TenantID: "other"},
	}
	f.subs.sub = &models.CreemSubscription{CreemSubscriptionID: "sub_1"}

	sub, err := f.svc.ResolveLatestSubscriptionForTenant(context.Background(), "tenant-1", "prod_1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	require.Len(t, f.subs.queries, 1)
	q := f.subs.queries[0]
	assert.Equal(t, "prod_1", q.productID)
	assert.Equal(t, []string{"user-1", "user-2"}, q.userIDs)
	assert.Equal(t, []string{"cus_1"}, q.customerIDs)

	empty := newPlanFixture(tenantWithPlan(nil))
	empty.subs.sub = &models.CreemSubscription{CreemSubscriptionID: "sub_1"}
	sub, err = empty.svc.ResolveLatestSubscriptionForTenant(context.Background(), "tenant-1", "prod_1")
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.Empty(t, empty.subs.queries)
}

func TestGetQuotaForTenant(t *testing.T) {
	tests := []struct {
		name         string
		storagePlan  *string
		capacity     systemsetting.Capacity
		appBytes     int64
		appUnlimited bool
		wantApp      *int64
		wantPlan     *int64
		wantTotal    *int64
	}{
		{
			name:         "unlimited app plan",
			storagePlan:  ptr("custom"),
			capacity:     systemsetting.Bounded(10),
			appUnlimited: true,
			wantApp:      nil,
			wantPlan:     ptr(int64(10)),
			wantTotal:    nil,
		},
		{
			name:        "finite plans are summed",
			storagePlan: ptr("custom"),
			capacity:    systemsetting.Bounded(10),
			appBytes:    5,
			wantApp:     ptr(int64(5)),
			wantPlan:    ptr(int64(10)),
			wantTotal:   ptr(int64(15)),
		},
		{
			name:        "unbounded storage plan",
			storagePlan: ptr("custom"),
			capacity:    systemsetting.Unbounded(),
			appBytes:    5,
			wantApp:     ptr(int64(5)),
			wantPlan:    nil,
			wantTotal:   nil,
		},
		{
			name:      "no storage plan",
			appBytes:  5,
			wantApp:   ptr(int64(5)),
			wantPlan:  ptr(int64(0)),
			wantTotal: ptr(int64(5)),
		},
		{
			name:        "storage plan missing from catalog",
			storagePlan: ptr("gone"),
			appBytes:    7,
			wantApp:     ptr(int64(7)),
			wantPlan:    ptr(int64(0)),
			wantTotal:   ptr(int64(7)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlanFixture(tenantWithPlan(tt.storagePlan))
			f.appPlans.bytes = tt.appBytes
			f.appPlans.unlimited = tt.appUnlimited
			f.settings.catalog = map[string]systemsetting.StoragePlanCatalogEntry{
				"custom": {Name: "Custom", CapacityBytes: tt.capacity},
			}

			quota, err := f.svc.GetQuotaForTenant(context.Background(), "tenant-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantApp, quota.AppIncludedBytes)
			assert.Equal(t, tt.wantPlan, quota.StoragePlanBytes)
			assert.Equal(t, tt.wantTotal, quota.TotalBytes)
		})
	}
}

func TestGetQuotaForTenant_UnknownTenant(t *testing.T) {
	f := newPlanFixture(tenantWithPlan(nil))
	_, err := f.svc.GetQuotaForTenant(context.Background(), "missing")
	assert.True(t, bizerr.HasCode(err, bizerr.CodeTenantNotFound))
}

func TestAssignPlanToTenant(t *testing.T) {
	t.Run("rejects when managed storage is disabled", func(t *testing.T) {
		f := newPlanFixture(tenantWithPlan(nil))
		f.settings.providerKey = nil

		err := f.svc.AssignPlanToTenant(context.Background(), "tenant-1", ptr("managed-5gb"))
		assert.True(t, bizerr.HasCode(err, bizerr.CodeBadRequest))
		assert.Empty(t, f.tenants.updates)
	})

	t.Run("rejects unknown plan", func(t *testing.T) {
		f := newPlanFixture(tenantWithPlan(nil))

		err := f.svc.AssignPlanToTenant(context.Background(), "tenant-1", ptr("nonexistent-plan"))
		require.True(t, bizerr.HasCode(err, bizerr.CodeBadRequest))
		assert.Contains(t, err.Error(), "nonexistent-plan")
		assert.Empty(t, f.tenants.updates)
	})

	t.Run("rejects inactive plan", func(t *testing.T) {
		f := newPlanFixture(tenantWithPlan(nil))
		f.settings.catalog = map[string]systemsetting.StoragePlanCatalogEntry{
			"retired": {Name: "Retired", IsActive: ptr(false)},
		}

		err := f.svc.AssignPlanToTenant(context.Background(), "tenant-1", ptr("retired"))
		assert.True(t, bizerr.HasCode(err, bizerr.CodeBadRequest))
	})

	t.Run("persists trimmed plan id", func(t *testing.T) {
		f := newPlanFixture(tenantWithPlan(nil))

		require.NoError(t, f.svc.AssignPlanToTenant(context.Background(), "tenant-1", ptr("  managed-200gb ")))
		require.Len(t, f.tenants.updates, 1)
		u := f.tenants.updates[0]
		require.NotNil(t, u.planID)
		assert.Equal(t, "managed-200gb", *u.planID)
		assert.Equal(t, fixedNow, u.at)
	})

	t.Run("blank id clears the plan", func(t *testing.T) {
		f := newPlanFixture(tenantWithPlan(ptr("managed-5gb")))

		require.NoError(t, f.svc.AssignPlanToTenant(context.Background(), "tenant-1", ptr("  ")))
		require.Len(t, f.tenants.updates, 1)
		assert.Nil(t, f.tenants.updates[0].planID)
	})
}

func TestUpdateTenantPlan_ReturnsOverview(t *testing.T) {
	f := newPlanFixture(tenantWithPlan(nil))

	overview, err := f.svc.UpdateTenantPlan(context.Background(), "tenant-1", ptr("managed-50gb"))
	require.NoError(t, err)
	assert.True(t, overview.ManagedStorageEnabled)
	require.NotNil(t, overview.ManagedProviderKey)
	assert.Equal(t, "managed-r2", *overview.ManagedProviderKey)
	require.NotNil(t, overview.CurrentPlanID)
	assert.Equal(t, "managed-50gb", *overview.CurrentPlanID)
	require.NotNil(t, overview.CurrentPlan)
	assert.Len(t, overview.AvailablePlans, 3)
}

func TestGetOverviewForTenant_ManagedStorageDisabled(t *testing.T) {
	f := newPlanFixture(tenantWithPlan(nil))
	f.settings.providerKey = nil

	overview, err := f.svc.GetOverviewForTenant(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.False(t, overview.ManagedStorageEnabled)
	assert.Nil(t, overview.ManagedProviderKey)
	assert.Nil(t, overview.CurrentPlanID)
	assert.Nil(t, overview.CurrentPlan)
}
