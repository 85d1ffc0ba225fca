package tenantcontext

import "github.com/gofiber/fiber/v2"

// HeaderTenantID carries the tenant id or slug set by the auth gateway.
const HeaderTenantID = "X-Tenant-ID"

const localsKey = "TENANT_CONTEXT"

// TenantContext is the tenant resolved for the current request.
type TenantContext struct {
	TenantID string `json:"tenant_id"`
	Slug     string `json:"slug"`
	PlanID   string `json:"plan_id"`
}

// Set stores the tenant context in fiber locals.
func Set(c *fiber.Ctx, tc TenantContext) {
	c.Locals(localsKey, tc)
}

// Get retrieves the tenant context. ok is false when no tenant was resolved.
func Get(c *fiber.Ctx) (TenantContext, bool) {
	if v := c.Locals(localsKey); v != nil {
		if tc, ok := v.(TenantContext); ok {
			return tc, true
		}
	}
	return TenantContext{}, false
}

// GetTenantID returns the current tenant id, or empty string if none
func GetTenantID(c *fiber.Ctx) string {
	tc, _ := Get(c)
	return tc.TenantID
}
