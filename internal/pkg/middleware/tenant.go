package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/afilmory/core/app/models"
	"github.com/afilmory/core/internal/pkg/bizerr"
	"github.com/afilmory/core/internal/pkg/tenantcontext"
)

// TenantLookup finds tenants by id or slug.
type TenantLookup interface {
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
}

// TenantMiddleware resolves the X-Tenant-ID header to a tenant and stores it
// in the request's tenant context. The header may hold an id or a slug.
func TenantMiddleware(tenants TenantLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref := strings.TrimSpace(c.Get(tenantcontext.HeaderTenantID))
		if ref == "" {
			return bizerr.New(bizerr.CodeTenantNotFound, "missing tenant header")
		}

		tenant, err := lookupTenant(c.UserContext(), tenants, ref)
		if err != nil {
			log.Errorf("[Tenant] Lookup of %s failed: %v", ref, err)
			return err
		}
		if tenant == nil {
			return bizerr.New(bizerr.CodeTenantNotFound)
		}

		tenantcontext.Set(c, tenantcontext.TenantContext{
			TenantID: tenant.ID,
			Slug:     tenant.Slug,
			PlanID:   tenant.PlanID,
		})
		return c.Next()
	}
}

func lookupTenant(ctx context.Context, tenants TenantLookup, ref string) (*models.Tenant, error) {
	tenant, err := tenants.GetByID(ctx, ref)
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	tenant, err = tenants.GetBySlug(ctx, ref)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return tenant, err
}
