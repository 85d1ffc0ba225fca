package systemsetting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/afilmory/core/app/repository"
	"github.com/afilmory/core/internal/pkg/cache"
)

const cachePrefix = "system-setting:"

// Service reads platform-wide configuration from system settings.
type Service struct {
	repo  repository.SystemSettingRepository
	store cache.Store
	ttl   time.Duration
}

// NewService creates a system setting service. store may be nil to disable caching.
func NewService(repo repository.SystemSettingRepository, store cache.Store, ttl time.Duration) *Service {
	return &Service{repo: repo, store: store, ttl: ttl}
}

// GetRaw returns the raw value for key and whether it exists.
func (s *Service) GetRaw(ctx context.Context, key string) (string, bool, error) {
	if s.store != nil {
		if val, err := s.store.Get(ctx, cachePrefix+key); err == nil {
			return val, true, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Warnf("[SystemSetting] Cache read failed for %s: %v", key, err)
		}
	}

	val, ok, err := s.repo.GetValue(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("load system setting %s: %w", key, err)
	}
	if ok && s.store != nil {
		if err := s.store.Set(ctx, cachePrefix+key, val, s.ttl); err != nil {
			log.Warnf("[SystemSetting] Cache write failed for %s: %v", key, err)
		}
	}
	return val, ok, nil
}

// Set stores a raw value and invalidates the cached copy.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if err := s.repo.SetValue(ctx, key, value); err != nil {
		return fmt.Errorf("save system setting %s: %w", key, err)
	}
	if s.store != nil {
		if err := s.store.Delete(ctx, cachePrefix+key); err != nil {
			log.Warnf("[SystemSetting] Cache invalidation failed for %s: %v", key, err)
		}
	}
	return nil
}

// SetJSON marshals value and stores it under key.
func (s *Service) SetJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode system setting %s: %w", key, err)
	}
	return s.Set(ctx, key, string(raw))
}

// getJSONMap decodes a JSON object setting entry by entry. A missing or
// malformed object produces an empty map; a malformed entry is dropped on its
// own.
func getJSONMap[T any](ctx context.Context, s *Service, key string) (map[string]T, error) {
	raw, ok, err := s.GetRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make(map[string]T)
	if !ok || strings.TrimSpace(raw) == "" {
		return out, nil
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Warnf("[SystemSetting] Ignoring malformed %s: %v", key, err)
		return out, nil
	}
	for id, entry := range entries {
		var v T
		if err := json.Unmarshal(entry, &v); err != nil {
			log.Warnf("[SystemSetting] Ignoring malformed %s entry %q: %v", key, id, err)
			continue
		}
		out[id] = v
	}
	return out, nil
}

// GetStoragePlanCatalog returns catalog overrides keyed by plan id.
func (s *Service) GetStoragePlanCatalog(ctx context.Context) (map[string]StoragePlanCatalogEntry, error) {
	return getJSONMap[StoragePlanCatalogEntry](ctx, s, KeyStoragePlanCatalog)
}

// GetStoragePlanPricing returns pricing keyed by plan id.
func (s *Service) GetStoragePlanPricing(ctx context.Context) (map[string]StoragePlanPricing, error) {
	return getJSONMap[StoragePlanPricing](ctx, s, KeyStoragePlanPricing)
}

// GetStoragePlanProducts returns payment product references keyed by plan id.
func (s *Service) GetStoragePlanProducts(ctx context.Context) (map[string]StoragePlanPaymentInfo, error) {
	return getJSONMap[StoragePlanPaymentInfo](ctx, s, KeyStoragePlanProducts)
}

// GetManagedStorageProviderKey returns the configured managed provider key or
// nil when managed storage is disabled. The value may be stored as a bare
// string or as a JSON string.
func (s *Service) GetManagedStorageProviderKey(ctx context.Context) (*string, error) {
	raw, ok, err := s.GetRaw(ctx, KeyManagedStorageProvider)
	if err != nil || !ok {
		return nil, err
	}
	value := strings.TrimSpace(raw)
	var decoded string
	if err := json.Unmarshal([]byte(value), &decoded); err == nil {
		value = strings.TrimSpace(decoded)
	}
	if value == "" || value == "null" {
		return nil, nil
	}
	return &value, nil
}
