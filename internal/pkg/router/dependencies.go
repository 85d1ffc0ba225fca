package router

import (
	"time"

	"gorm.io/gorm"

	"github.com/afilmory/core/app/controllers"
	"github.com/afilmory/core/app/repository"
	"github.com/afilmory/core/internal/pkg/billing"
	"github.com/afilmory/core/internal/pkg/cache"
	"github.com/afilmory/core/internal/pkg/env"
	"github.com/afilmory/core/internal/pkg/middleware"
	"github.com/afilmory/core/internal/pkg/setting"
	"github.com/afilmory/core/internal/pkg/storage"
	"github.com/afilmory/core/internal/pkg/storagesetting"
	"github.com/afilmory/core/internal/pkg/systemsetting"
)

// Dependencies are the controllers and middleware the API routes are built from.
type Dependencies struct {
	Tenants        middleware.TenantLookup
	StoragePlans   *controllers.StoragePlanController
	StorageSetting *controllers.StorageSettingController
	BillingWebhook *controllers.BillingWebhookController
}

// NewDependencies wires repositories, services and controllers. store may be
// nil to run without a settings cache.
func NewDependencies(db *gorm.DB, store cache.Store) *Dependencies {
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()
	ttl := env.GetEnvDuration("SETTINGS_CACHE_TTL", 5*time.Minute)

	systemSettings := systemsetting.NewService(repos.SystemSetting, store, ttl)
	settings := setting.NewService(repos.Setting, store, ttl, setting.DefaultDefinitions())
	appPlans := billing.NewPlanService(repos.Tenant)
	creemRepo := billing.NewRepository(db)

	storagePlans := billing.NewStoragePlanService(repos.Tenant, repos.AuthUser, systemSettings, appPlans, creemRepo)
	storageSettings := storagesetting.NewService(settings, storagePlans, storage.NewProbers())
	billingSvc := billing.NewService(creemRepo, repos.AuthUser, repos.Tenant, systemSettings, storagePlans)

	return &Dependencies{
		Tenants:        repos.Tenant,
		StoragePlans:   controllers.NewStoragePlanController(storagePlans),
		StorageSetting: controllers.NewStorageSettingController(storageSettings),
		BillingWebhook: controllers.NewBillingWebhookController(billingSvc, env.GetEnv("CREEM_WEBHOOK_SECRET", "")),
	}
}
