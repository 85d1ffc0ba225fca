package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/afilmory/core/internal/pkg/cache"
	"github.com/afilmory/core/internal/pkg/env"
	"github.com/afilmory/core/internal/pkg/middleware"
)

type ApiRouter struct {
	deps *Dependencies
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiterConfig()))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// Payment provider callbacks carry no tenant header.
	v1.Post("/billing/creem/webhook", h.deps.BillingWebhook.HandleCreemWebhook)

	tenant := v1.Group("", middleware.TenantMiddleware(h.deps.Tenants))

	plans := h.deps.StoragePlans
	tenant.Get("/storage/plans", plans.HandleListPlans)
	tenant.Get("/storage/plans/:id", plans.HandleGetPlan)
	tenant.Get("/storage/plan", plans.HandleGetOverview)
	tenant.Put("/storage/plan", plans.HandleUpdatePlan)
	tenant.Get("/storage/quota", plans.HandleGetQuota)

	settings := h.deps.StorageSetting
	tenant.Get("/settings/storage/ui-schema", settings.HandleGetUISchema)
	tenant.Get("/settings/storage", settings.HandleGetMany)
	tenant.Put("/settings/storage", settings.HandleSetMany)
	tenant.Delete("/settings/storage", settings.HandleDeleteMany)
	tenant.Post("/settings/storage/providers/test", settings.HandleTestProvider)
	tenant.Get("/settings/storage/:key", settings.HandleGet)
	tenant.Delete("/settings/storage/:key", settings.HandleDelete)
}

func NewApiRouter(deps *Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}

// limiterConfig keeps rate limit counters in the cache so they are shared
// between instances. Without a reachable cache the limiter keeps them in memory.
func limiterConfig() limiter.Config {
	cfg := limiter.Config{
		Max:        env.GetEnvInt("API_RATE_LIMIT", 120),
		Expiration: time.Minute,
	}
	if !cache.IsReachable() {
		log.Warn("[Router] Cache unreachable, API rate limiter uses in-memory storage")
		return cfg
	}

	opts := cache.GetClient().Options()
	host, portStr, err := net.SplitHostPort(opts.Addr)
	if err != nil {
		log.Warnf("[Router] Invalid cache address %q, API rate limiter uses in-memory storage", opts.Addr)
		return cfg
	}
	port, _ := strconv.Atoi(portStr)

	// Database 1 keeps limiter keys apart from the settings cache in database 0.
	cfg.Storage = redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: opts.Password,
		Database: 1,
		Reset:    false,
	})
	return cfg
}
