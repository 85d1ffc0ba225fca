package billing

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/afilmory/core/app/models"
	"github.com/afilmory/core/internal/pkg/bizerr"
)

// TenantStore is the tenant persistence used by the billing services.
type TenantStore interface {
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
}

// PlanService resolves a tenant's app-level billing plan.
type PlanService struct {
	tenants TenantStore
}

func NewPlanService(tenants TenantStore) *PlanService {
	return &PlanService{tenants: tenants}
}

// GetPlanIDForTenant returns the tenant's normalized app-level plan id.
func (s *PlanService) GetPlanIDForTenant(ctx context.Context, tenantID string) (string, error) {
	tenant, err := loadTenant(ctx, s.tenants, tenantID)
	if err != nil {
		return "", err
	}
	return normalizePlan(tenant.PlanID), nil
}

// IncludedStorageBytes is the plan-level storage allowance; see the package function.
func (s *PlanService) IncludedStorageBytes(planID string) (int64, bool) {
	return IncludedStorageBytes(planID)
}

func loadTenant(ctx context.Context, tenants TenantStore, tenantID string) (*models.Tenant, error) {
	tenant, err := tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerr.New(bizerr.CodeTenantNotFound)
		}
		return nil, fmt.Errorf("load tenant %s: %w", tenantID, err)
	}
	if tenant == nil {
		return nil, bizerr.New(bizerr.CodeTenantNotFound)
	}
	return tenant, nil
}
