// Package setting stores tenant-scoped key/value settings.
package setting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/afilmory/core/app/models"
	"github.com/afilmory/core/app/repository"
	"github.com/afilmory/core/internal/pkg/bizerr"
	"github.com/afilmory/core/internal/pkg/cache"
	"github.com/afilmory/core/internal/pkg/uischema"
)

const (
	cachePrefix   = "setting:"
	maskedValue   = "********"
	maxKeysPerOp  = 50
	globalTenant  = ""
	cachedNullRaw = "null"
)

// Scope selects whose settings are read or written. An empty TenantID
// addresses platform defaults.
type Scope struct {
	TenantID string
}

// Entry is a single write. A nil Value stores NULL.
type Entry struct {
	Key   string  `json:"key" validate:"required"`
	Value *string `json:"value"`
}

// UISchema is the settings form together with the current values.
type UISchema struct {
	Schema uischema.Schema    `json:"schema"`
	Values map[string]*string `json:"values"`
}

type Service struct {
	repo  repository.SettingRepository
	store cache.Store
	ttl   time.Duration
	defs  map[string]Definition
}

// NewService creates a setting service for the given definitions. store may
// be nil to disable caching.
func NewService(repo repository.SettingRepository, store cache.Store, ttl time.Duration, defs []Definition) *Service {
	byKey := make(map[string]Definition, len(defs))
	for _, d := range defs {
		byKey[d.Key] = d
	}
	return &Service{repo: repo, store: store, ttl: ttl, defs: byKey}
}

// Definition returns the registered definition for key.
func (s *Service) Definition(key string) (Definition, bool) {
	d, ok := s.defs[key]
	return d, ok
}

func (s *Service) checkKeys(keys []string) error {
	if len(keys) > maxKeysPerOp {
		return bizerr.New(bizerr.CodeBadRequest, fmt.Sprintf("too many setting keys: %d", len(keys)))
	}
	for _, k := range keys {
		if _, ok := s.defs[k]; !ok {
			return bizerr.New(bizerr.CodeBadRequest, fmt.Sprintf("unknown setting key: %s", k))
		}
	}
	return nil
}

func cacheKey(scope Scope, key string) string {
	tenant := scope.TenantID
	if tenant == globalTenant {
		tenant = "_"
	}
	return cachePrefix + tenant + ":" + key
}

// Get returns the value of a single key, falling back to its default.
func (s *Service) Get(ctx context.Context, key string, scope Scope) (*string, error) {
	values, err := s.GetMany(ctx, []string{key}, scope)
	if err != nil {
		return nil, err
	}
	return values[key], nil
}

// GetMany returns every requested key. Keys without a stored value map to
// their default, or nil when there is none.
func (s *Service) GetMany(ctx context.Context, keys []string, scope Scope) (map[string]*string, error) {
	if err := s.checkKeys(keys); err != nil {
		return nil, err
	}

	stored := make(map[string]*string, len(keys))
	missing := make([]string, 0, len(keys))
	for _, k := range keys {
		if v, ok := s.cached(ctx, scope, k); ok {
			stored[k] = v
			continue
		}
		missing = append(missing, k)
	}

	if len(missing) > 0 {
		rows, err := s.repo.GetMany(ctx, scope.TenantID, missing)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		found := make(map[string]*string, len(rows))
		for _, row := range rows {
			found[row.Key] = row.Value
		}
		for _, k := range missing {
			stored[k] = found[k]
			s.remember(ctx, scope, k, found[k])
		}
	}

	out := make(map[string]*string, len(keys))
	for _, k := range keys {
		if v := stored[k]; v != nil {
			out[k] = v
			continue
		}
		out[k] = s.defs[k].Default
	}
	return out, nil
}

func (s *Service) cached(ctx context.Context, scope Scope, key string) (*string, bool) {
	if s.store == nil {
		return nil, false
	}
	raw, err := s.store.Get(ctx, cacheKey(scope, key))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warnf("[Setting] Cache read failed for %s: %v", key, err)
		}
		return nil, false
	}
	var v *string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	return v, true
}

func (s *Service) remember(ctx context.Context, scope Scope, key string, value *string) {
	if s.store == nil {
		return
	}
	raw := cachedNullRaw
	if value != nil {
		b, _ := json.Marshal(*value)
		raw = string(b)
	}
	if err := s.store.Set(ctx, cacheKey(scope, key), raw, s.ttl); err != nil {
		log.Warnf("[Setting] Cache write failed for %s: %v", key, err)
	}
}

func (s *Service) forget(ctx context.Context, scope Scope, keys []string) {
	if s.store == nil || len(keys) == 0 {
		return
	}
	cacheKeys := make([]string, len(keys))
	for i, k := range keys {
		cacheKeys[i] = cacheKey(scope, k)
	}
	if err := s.store.Delete(ctx, cacheKeys...); err != nil {
		log.Warnf("[Setting] Cache invalidation failed: %v", err)
	}
}

// SetMany validates and upserts all entries. Later entries for the same key
// win.
func (s *Service) SetMany(ctx context.Context, scope Scope, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]models.Setting, 0, len(entries))
	index := make(map[string]int, len(entries))
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		def, ok := s.defs[e.Key]
		if !ok {
			return bizerr.New(bizerr.CodeBadRequest, fmt.Sprintf("unknown setting key: %s", e.Key))
		}
		if e.Value != nil && def.Validate != nil {
			if err := def.Validate(*e.Value); err != nil {
				return bizerr.New(bizerr.CodeBadRequest, fmt.Sprintf("invalid value for %s: %v", e.Key, err))
			}
		}
		row := models.Setting{
			TenantID:    scope.TenantID,
			Key:         e.Key,
			Value:       e.Value,
			IsSensitive: def.Sensitive,
		}
		if i, dup := index[e.Key]; dup {
			rows[i] = row
			continue
		}
		index[e.Key] = len(rows)
		rows = append(rows, row)
		keys = append(keys, e.Key)
	}

	if err := s.repo.Upsert(ctx, rows); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.forget(ctx, scope, keys)
	log.Debugf("[Setting] Saved %d setting(s) for tenant %q", len(rows), scope.TenantID)
	return nil
}

// Delete removes a stored value so the default applies again.
func (s *Service) Delete(ctx context.Context, key string, scope Scope) error {
	return s.DeleteMany(ctx, []string{key}, scope)
}

func (s *Service) DeleteMany(ctx context.Context, keys []string, scope Scope) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.checkKeys(keys); err != nil {
		return err
	}
	if err := s.repo.DeleteMany(ctx, scope.TenantID, keys); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	s.forget(ctx, scope, keys)
	return nil
}

// GetUISchema returns the translated settings form and the values of every
// field in it. Sensitive values that are set are masked.
func (s *Service) GetUISchema(ctx context.Context, scope Scope, t *uischema.Translator) (*UISchema, error) {
	schema := buildSchema(t)
	keys := schema.FieldKeys()
	values, err := s.GetMany(ctx, keys, scope)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if s.defs[k].Sensitive && values[k] != nil {
			masked := maskedValue
			values[k] = &masked
		}
	}
	return &UISchema{Schema: schema, Values: values}, nil
}
