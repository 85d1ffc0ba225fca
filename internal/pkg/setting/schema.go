package setting

import "github.com/afilmory/core/internal/pkg/uischema"

const schemaVersion = "1.0.0"

// ManagedProviderID selects platform managed storage as the active provider.
const ManagedProviderID = "managed"

// buildSchema describes the settings form. Field keys must be registered
// definitions.
func buildSchema(t *uischema.Translator) uischema.Schema {
	return uischema.Schema{
		Version: schemaVersion,
		Title:   t.T("schema.title"),
		Sections: []uischema.Section{
			{
				ID:          "site",
				Title:       t.T("section.site.title"),
				Description: t.T("section.site.description"),
				Groups: []uischema.Group{{
					ID:    "site-general",
					Title: t.T("group.site.general.title"),
					Fields: []uischema.Field{
						{Key: KeySiteName, Type: uischema.FieldText, Label: t.T("field.site.name.label"), Placeholder: t.T("field.site.name.placeholder")},
						{Key: KeySiteDescription, Type: uischema.FieldTextarea, Label: t.T("field.site.description.label")},
					},
				}},
			},
			{
				ID:    "site-integrations",
				Title: t.T("section.site-integrations.title"),
				Groups: []uischema.Group{{
					ID:    "site-analytics",
					Title: t.T("group.site.analytics.title"),
					Fields: []uischema.Field{
						{
							Key:         KeySiteAnalyticsToken,
							Type:        uischema.FieldSecret,
							Label:       t.T("field.site.analyticsToken.label"),
							Description: t.T("field.site.analyticsToken.description"),
							Sensitive:   true,
						},
					},
				}},
			},
			{
				ID:          "builder-storage",
				Title:       t.T("section.builder-storage.title"),
				Description: t.T("section.builder-storage.description"),
				Groups: []uischema.Group{{
					ID:    "builder-storage-providers",
					Title: t.T("group.storage.providers.title"),
					Fields: []uischema.Field{
						{
							Key:         KeyStorageProviders,
							Type:        uischema.FieldJSON,
							Label:       t.T("field.storage.providers.label"),
							Description: t.T("field.storage.providers.description"),
						},
						{
							Key:         KeyStorageActiveProvider,
							Type:        uischema.FieldSelect,
							Label:       t.T("field.storage.activeProvider.label"),
							Description: t.T("field.storage.activeProvider.description"),
							Options: []uischema.Option{
								{Value: ManagedProviderID, Label: t.T("field.storage.activeProvider.managed")},
							},
						},
					},
				}},
			},
			{
				ID:          "builder-storage-security",
				Title:       t.T("section.builder-storage-security.title"),
				Description: t.T("section.builder-storage-security.description"),
				Groups: []uischema.Group{{
					ID:    "builder-storage-access",
					Title: t.T("group.storage.access.title"),
					Fields: []uischema.Field{
						{
							Key:         KeyStorageSecureAccess,
							Type:        uischema.FieldSwitch,
							Label:       t.T("field.storage.secureAccess.label"),
							Description: t.T("field.storage.secureAccess.description"),
						},
					},
				}},
			},
		},
	}
}
