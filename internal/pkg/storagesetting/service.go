// Package storagesetting exposes the storage related tenant settings.
package storagesetting

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/afilmory/core/internal/pkg/billing"
	"github.com/afilmory/core/internal/pkg/bizerr"
	"github.com/afilmory/core/internal/pkg/setting"
	"github.com/afilmory/core/internal/pkg/storage"
	"github.com/afilmory/core/internal/pkg/uischema"
)

const sectionPrefix = "builder-storage"

// Keys are the settings managed here, in display order.
var Keys = []string{
	setting.KeyStorageProviders,
	setting.KeyStorageActiveProvider,
	setting.KeyStorageSecureAccess,
}

// SettingStore is the tenant setting backend.
type SettingStore interface {
	GetMany(ctx context.Context, keys []string, scope setting.Scope) (map[string]*string, error)
	SetMany(ctx context.Context, scope setting.Scope, entries []setting.Entry) error
	DeleteMany(ctx context.Context, keys []string, scope setting.Scope) error
	GetUISchema(ctx context.Context, scope setting.Scope, t *uischema.Translator) (*setting.UISchema, error)
}

// ActivePlanResolver tells whether a tenant holds a usable storage plan.
type ActivePlanResolver interface {
	GetActivePlanSummaryForTenant(ctx context.Context, tenantID string) (*billing.StoragePlanSummary, error)
}

// StorageSettings is the decoded form of the storage keys.
type StorageSettings struct {
	Providers      []storage.Provider `json:"providers"`
	ActiveProvider *string            `json:"activeProvider"`
	SecureAccess   bool               `json:"secureAccess"`
}

// UISchema is the storage slice of the settings form plus the provider form.
type UISchema struct {
	setting.UISchema
	ProviderForm storage.ProviderForm `json:"providerForm"`
}

type Service struct {
	settings SettingStore
	plans    ActivePlanResolver
	prober   storage.Prober
}

func NewService(settings SettingStore, plans ActivePlanResolver, prober storage.Prober) *Service {
	return &Service{settings: settings, plans: plans, prober: prober}
}

func isStorageKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

func checkKeys(keys []string) error {
	for _, k := range keys {
		if !isStorageKey(k) {
			return bizerr.New(bizerr.CodeBadRequest, fmt.Sprintf("unsupported storage setting key: %s", k))
		}
	}
	return nil
}

// GetUISchema returns only the storage sections of the settings form.
func (s *Service) GetUISchema(ctx context.Context, scope setting.Scope, t *uischema.Translator) (*UISchema, error) {
	full, err := s.settings.GetUISchema(ctx, scope, t)
	if err != nil {
		return nil, err
	}

	schema := full.Schema.FilterSections(func(section uischema.Section) bool {
		return strings.HasPrefix(section.ID, sectionPrefix)
	})
	values := make(map[string]*string)
	for _, k := range schema.FieldKeys() {
		values[k] = full.Values[k]
	}

	return &UISchema{
		UISchema:     setting.UISchema{Schema: schema, Values: values},
		ProviderForm: storage.ProviderFormSchema(t),
	}, nil
}

func (s *Service) Get(ctx context.Context, key string, scope setting.Scope) (*string, error) {
	values, err := s.GetMany(ctx, []string{key}, scope)
	if err != nil {
		return nil, err
	}
	return values[key], nil
}

// GetMany reads the given storage keys, or all of them when keys is empty.
func (s *Service) GetMany(ctx context.Context, keys []string, scope setting.Scope) (map[string]*string, error) {
	if len(keys) == 0 {
		keys = Keys
	}
	if err := checkKeys(keys); err != nil {
		return nil, err
	}
	return s.settings.GetMany(ctx, keys, scope)
}

// GetSettings decodes all storage keys.
func (s *Service) GetSettings(ctx context.Context, scope setting.Scope) (*StorageSettings, error) {
	values, err := s.settings.GetMany(ctx, Keys, scope)
	if err != nil {
		return nil, err
	}

	out := &StorageSettings{Providers: []storage.Provider{}}
	if raw := values[setting.KeyStorageProviders]; raw != nil {
		out.Providers = storage.ParseStorageProviders(*raw)
	}
	if raw := values[setting.KeyStorageActiveProvider]; raw != nil {
		if active := strings.TrimSpace(*raw); active != "" {
			out.ActiveProvider = &active
		}
	}
	if raw := values[setting.KeyStorageSecureAccess]; raw != nil {
		out.SecureAccess = strings.TrimSpace(*raw) == "true"
	}
	return out, nil
}

func entryValue(e setting.Entry) string {
	if e.Value == nil {
		return ""
	}
	return strings.TrimSpace(*e.Value)
}

// SetMany writes storage settings. Selecting managed storage requires an
// active storage plan. When providers are written without an active provider
// and exactly one provider is configured, that provider becomes active.
// Repeated keys collapse to the last entry before any check runs, matching
// what the settings store persists.
func (s *Service) SetMany(ctx context.Context, scope setting.Scope, entries []setting.Entry) error {
	normalized := make([]setting.Entry, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		if !isStorageKey(e.Key) {
			return bizerr.New(bizerr.CodeBadRequest, fmt.Sprintf("unsupported storage setting key: %s", e.Key))
		}
		if i, dup := index[e.Key]; dup {
			normalized[i] = e
			continue
		}
		index[e.Key] = len(normalized)
		normalized = append(normalized, e)
	}

	providersIdx, activeIdx := -1, -1
	if i, ok := index[setting.KeyStorageProviders]; ok {
		providersIdx = i
	}
	if i, ok := index[setting.KeyStorageActiveProvider]; ok {
		activeIdx = i
	}

	activeID := ""
	if activeIdx != -1 {
		activeID = entryValue(normalized[activeIdx])
	}

	if activeID == setting.ManagedProviderID {
		if scope.TenantID == "" {
			return bizerr.New(bizerr.CodeTenantNotFound)
		}
		plan, err := s.plans.GetActivePlanSummaryForTenant(ctx, scope.TenantID)
		if err != nil {
			return err
		}
		if plan == nil {
			return bizerr.New(bizerr.CodeBadRequest, "managed storage subscription is invalid or expired, it cannot be set as the active storage")
		}
	}

	if providersIdx != -1 && activeID == "" {
		providers := storage.ParseStorageProviders(entryValue(normalized[providersIdx]))
		if len(providers) == 1 {
			only := providers[0].ID
			next := setting.Entry{Key: setting.KeyStorageActiveProvider, Value: &only}
			if activeIdx != -1 {
				normalized[activeIdx] = next
			} else {
				normalized = append(normalized, next)
			}
			log.Debugf("[StorageSetting] Auto-selected provider %s for tenant %q", only, scope.TenantID)
		}
	}

	return s.settings.SetMany(ctx, scope, normalized)
}

func (s *Service) Delete(ctx context.Context, key string, scope setting.Scope) error {
	return s.DeleteMany(ctx, []string{key}, scope)
}

func (s *Service) DeleteMany(ctx context.Context, keys []string, scope setting.Scope) error {
	if err := checkKeys(keys); err != nil {
		return err
	}
	return s.settings.DeleteMany(ctx, keys, scope)
}

// TestProvider validates a provider definition and checks connectivity.
func (s *Service) TestProvider(ctx context.Context, p *storage.Provider, t *uischema.Translator) (*storage.ProbeResult, error) {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		p.ID = "draft"
	}
	p.Type = storage.ProviderType(strings.ToLower(strings.TrimSpace(string(p.Type))))
	if err := p.Validate(); err != nil {
		return nil, bizerr.New(bizerr.CodeValidation, err.Error())
	}
	if missing := storage.MissingRequiredFields(p); len(missing) > 0 {
		return nil, bizerr.New(bizerr.CodeValidation, "missing required fields: "+strings.Join(missing, ", "))
	}

	result, err := s.prober.Probe(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("probe provider %s: %w", p.ID, err)
	}
	switch {
	case !result.Supported:
		result.Message = t.T("provider.test.unsupported", string(p.Type))
	case result.OK:
		result.Message = t.T("provider.test.ok", p.ConfigString("bucket"))
	}
	return result, nil
}
