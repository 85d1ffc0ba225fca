package setting

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tenant setting keys.
const (
	KeySiteName           = "site.name"
	KeySiteDescription    = "site.description"
	KeySiteAnalyticsToken = "site.analyticsToken"

	KeyStorageProviders      = "builder.storage.providers"
	KeyStorageActiveProvider = "builder.storage.activeProvider"
	KeyStorageSecureAccess   = "photo.storage.secureAccess"
)

// Definition registers a setting key. Validate, when set, checks a non-nil
// value before it is written.
type Definition struct {
	Key       string
	Default   *string
	Sensitive bool
	Validate  func(value string) error
}

func defaultValue(v string) *string { return &v }

// DefaultDefinitions are the settings known to the dashboard.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Key: KeySiteName},
		{Key: KeySiteDescription},
		{Key: KeySiteAnalyticsToken, Sensitive: true},
		{Key: KeyStorageProviders, Default: defaultValue("[]"), Validate: validateJSONArray},
		{Key: KeyStorageActiveProvider},
		{Key: KeyStorageSecureAccess, Default: defaultValue("false"), Validate: validateBool},
	}
}

func validateBool(value string) error {
	switch strings.TrimSpace(value) {
	case "true", "false":
		return nil
	default:
		return fmt.Errorf("expected true or false, got %q", value)
	}
}

func validateJSONArray(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &arr); err != nil {
		return fmt.Errorf("expected a JSON array: %w", err)
	}
	return nil
}
