// Package storage parses tenant storage provider configuration and checks
// provider connectivity.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
)

type ProviderType string

const (
	ProviderS3     ProviderType = "s3"
	ProviderGitHub ProviderType = "github"
	ProviderLocal  ProviderType = "local"
	ProviderEagle  ProviderType = "eagle"
)

// ProviderTypes lists the supported types in display order.
var ProviderTypes = []ProviderType{ProviderS3, ProviderGitHub, ProviderLocal, ProviderEagle}

// Provider is one configured storage backend.
type Provider struct {
	ID     string                 `json:"id" validate:"required,max=100"`
	Name   string                 `json:"name" validate:"max=200"`
	Type   ProviderType           `json:"type" validate:"required,oneof=s3 github local eagle"`
	Config map[string]interface{} `json:"config"`
}

var validate = validator.New()

// Validate checks the provider's shape.
func (p *Provider) Validate() error {
	return validate.Struct(p)
}

// ConfigString returns a config value as trimmed text.
func (p *Provider) ConfigString(key string) string {
	v, ok := p.Config[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// ParseStorageProviders decodes the providers setting. Anything that is not
// a JSON array yields no providers; invalid entries and repeated ids are
// skipped.
func ParseStorageProviders(raw string) []Provider {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []Provider{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		log.Warnf("[Storage] Ignoring malformed providers setting: %v", err)
		return []Provider{}
	}

	out := make([]Provider, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		var p Provider
		if err := json.Unmarshal(item, &p); err != nil {
			log.Warnf("[Storage] Skipping provider #%d: %v", i, err)
			continue
		}
		p.ID = strings.TrimSpace(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		p.Type = ProviderType(strings.ToLower(strings.TrimSpace(string(p.Type))))
		if err := p.Validate(); err != nil {
			log.Warnf("[Storage] Skipping provider #%d: %v", i, err)
			continue
		}
		if _, dup := seen[p.ID]; dup {
			log.Warnf("[Storage] Skipping duplicate provider id %s", p.ID)
			continue
		}
		seen[p.ID] = struct{}{}
		if p.Config == nil {
			p.Config = map[string]interface{}{}
		}
		out = append(out, p)
	}
	return out
}
