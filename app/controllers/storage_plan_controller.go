package controllers

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/afilmory/core/internal/pkg/billing"
	"github.com/afilmory/core/internal/pkg/bizerr"
	"github.com/afilmory/core/internal/pkg/tenantcontext"
)

var validate = validator.New()

// StoragePlanService is the subset of billing.StoragePlanService the API needs.
type StoragePlanService interface {
	GetPlanSummaries(ctx context.Context) ([]billing.StoragePlanSummary, error)
	GetPlanByID(ctx context.Context, planID string) (*billing.StoragePlanSummary, error)
	GetOverviewForTenant(ctx context.Context, tenantID string) (*billing.StoragePlanOverview, error)
	UpdateTenantPlan(ctx context.Context, tenantID string, planID *string) (*billing.StoragePlanOverview, error)
	GetQuotaForTenant(ctx context.Context, tenantID string) (*billing.StorageQuotaSummary, error)
}

type StoragePlanController struct {
	plans StoragePlanService
}

func NewStoragePlanController(plans StoragePlanService) *StoragePlanController {
	return &StoragePlanController{plans: plans}
}

type updateStoragePlanRequest struct {
	PlanID *string `json:"plan_id" validate:"omitempty,max=100"`
}

// HandleListPlans returns the active storage plans.
func (sc *StoragePlanController) HandleListPlans(c *fiber.Ctx) error {
	plans, err := sc.plans.GetPlanSummaries(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"plans": plans})
}

func (sc *StoragePlanController) HandleGetPlan(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	plan, err := sc.plans.GetPlanByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if plan == nil {
		return bizerr.New(bizerr.CodeStoragePlanNotFound)
	}
	return c.JSON(plan)
}

func (sc *StoragePlanController) HandleGetOverview(c *fiber.Ctx) error {
	overview, err := sc.plans.GetOverviewForTenant(c.UserContext(), tenantcontext.GetTenantID(c))
	if err != nil {
		return err
	}
	return c.JSON(overview)
}

// HandleUpdatePlan assigns or clears the tenant's storage plan.
func (sc *StoragePlanController) HandleUpdatePlan(c *fiber.Ctx) error {
	var req updateStoragePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return bizerr.New(bizerr.CodeBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return bizerr.New(bizerr.CodeValidation, err.Error())
	}

	overview, err := sc.plans.UpdateTenantPlan(c.UserContext(), tenantcontext.GetTenantID(c), req.PlanID)
	if err != nil {
		return err
	}
	return c.JSON(overview)
}

func (sc *StoragePlanController) HandleGetQuota(c *fiber.Ctx) error {
	quota, err := sc.plans.GetQuotaForTenant(c.UserContext(), tenantcontext.GetTenantID(c))
	if err != nil {
		return err
	}
	return c.JSON(quota)
}
