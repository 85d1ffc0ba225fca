package controllers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/afilmory/core/internal/pkg/bizerr"
	"github.com/afilmory/core/internal/pkg/setting"
	"github.com/afilmory/core/internal/pkg/storage"
	"github.com/afilmory/core/internal/pkg/storagesetting"
	"github.com/afilmory/core/internal/pkg/tenantcontext"
	"github.com/afilmory/core/internal/pkg/uischema"
)

// StorageSettingService is the subset of storagesetting.Service the API needs.
type StorageSettingService interface {
	GetUISchema(ctx context.Context, scope setting.Scope, t *uischema.Translator) (*storagesetting.UISchema, error)
	Get(ctx context.Context, key string, scope setting.Scope) (*string, error)
	GetMany(ctx context.Context, keys []string, scope setting.Scope) (map[string]*string, error)
	SetMany(ctx context.Context, scope setting.Scope, entries []setting.Entry) error
	Delete(ctx context.Context, key string, scope setting.Scope) error
	DeleteMany(ctx context.Context, keys []string, scope setting.Scope) error
	TestProvider(ctx context.Context, p *storage.Provider, t *uischema.Translator) (*storage.ProbeResult, error)
}

type StorageSettingController struct {
	settings StorageSettingService
}

func NewStorageSettingController(settings StorageSettingService) *StorageSettingController {
	return &StorageSettingController{settings: settings}
}

type setStorageSettingsRequest struct {
	Entries []setting.Entry `json:"entries" validate:"required,min=1,dive"`
}

func scopeOf(c *fiber.Ctx) setting.Scope {
	return setting.Scope{TenantID: tenantcontext.GetTenantID(c)}
}

func translatorOf(c *fiber.Ctx) *uischema.Translator {
	return uischema.NewTranslator(c.Get(fiber.HeaderAcceptLanguage))
}

// splitKeys parses a comma separated ?keys= query value.
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (sc *StorageSettingController) HandleGetUISchema(c *fiber.Ctx) error {
	schema, err := sc.settings.GetUISchema(c.UserContext(), scopeOf(c), translatorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(schema)
}

func (sc *StorageSettingController) HandleGetMany(c *fiber.Ctx) error {
	values, err := sc.settings.GetMany(c.UserContext(), splitKeys(c.Query("keys")), scopeOf(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"values": values})
}

func (sc *StorageSettingController) HandleGet(c *fiber.Ctx) error {
	key := c.Params("key")
	value, err := sc.settings.Get(c.UserContext(), key, scopeOf(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"key": key, "value": value})
}

// HandleSetMany writes a batch of storage settings.
func (sc *StorageSettingController) HandleSetMany(c *fiber.Ctx) error {
	var req setStorageSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return bizerr.New(bizerr.CodeBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return bizerr.New(bizerr.CodeValidation, err.Error())
	}

	if err := sc.settings.SetMany(c.UserContext(), scopeOf(c), req.Entries); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"updated": req.Entries})
}

func (sc *StorageSettingController) HandleDelete(c *fiber.Ctx) error {
	key := c.Params("key")
	if err := sc.settings.Delete(c.UserContext(), key, scopeOf(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": []string{key}})
}

func (sc *StorageSettingController) HandleDeleteMany(c *fiber.Ctx) error {
	keys := splitKeys(c.Query("keys"))
	if len(keys) == 0 {
		return bizerr.New(bizerr.CodeBadRequest, "keys query parameter is required")
	}
	if err := sc.settings.DeleteMany(c.UserContext(), keys, scopeOf(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": keys})
}

// HandleTestProvider checks a provider definition without saving it.
func (sc *StorageSettingController) HandleTestProvider(c *fiber.Ctx) error {
	var provider storage.Provider
	if err := c.BodyParser(&provider); err != nil {
		return bizerr.New(bizerr.CodeBadRequest, "invalid request body")
	}
	result, err := sc.settings.TestProvider(c.UserContext(), &provider, translatorOf(c))
	if err != nil {
		return err
	}
	return c.JSON(result)
}
