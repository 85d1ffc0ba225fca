package billing

import (
	"github.com/afilmory/core/internal/pkg/systemsetting"
)

// StoragePlanDefinition is a normalized catalog entry. CapacityBytes nil means
// unbounded; a zero value means no included bytes.
type StoragePlanDefinition struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	CapacityBytes *int64  `json:"capacityBytes"`
	IsActive      bool    `json:"isActive"`
}

type StoragePlanPricing = systemsetting.StoragePlanPricing
type StoragePlanPaymentInfo = systemsetting.StoragePlanPaymentInfo

// StoragePlanSummary is a definition enriched with pricing and payment data.
// It is computed per request and never persisted.
type StoragePlanSummary struct {
	StoragePlanDefinition
	Pricing *StoragePlanPricing     `json:"pricing,omitempty"`
	Payment *StoragePlanPaymentInfo `json:"payment,omitempty"`
}

// ProductID returns the payment product id or "" when the plan is not sold.
func (s *StoragePlanSummary) ProductID() string {
	if s == nil || s.Payment == nil {
		return ""
	}
	return s.Payment.CreemProductID
}

// StoragePlanOverview is what the dashboard shows on the storage plan page.
type StoragePlanOverview struct {
	ManagedStorageEnabled bool                 `json:"managedStorageEnabled"`
	ManagedProviderKey    *string              `json:"managedProviderKey"`
	CurrentPlanID         *string              `json:"currentPlanId"`
	CurrentPlan           *StoragePlanSummary  `json:"currentPlan"`
	AvailablePlans        []StoragePlanSummary `json:"availablePlans"`
}

// StorageQuotaSummary combines app-level and storage-plan allowances. A nil
// pointer is serialized as null and means unlimited.
type StorageQuotaSummary struct {
	AppIncludedBytes *int64 `json:"appIncludedBytes"`
	StoragePlanBytes *int64 `json:"storagePlanBytes"`
	TotalBytes       *int64 `json:"totalBytes"`
}

type defaultPlan struct {
	id    string
	entry systemsetting.StoragePlanCatalogEntry
}

func strPtr(s string) *string { return &s }

// defaultStoragePlans is ordered; the order is kept when listing plans.
var defaultStoragePlans = []defaultPlan{
	{
		id: "managed-5gb",
		entry: systemsetting.StoragePlanCatalogEntry{
			Name:          "Managed 5 GB",
			Description:   strPtr("Hosted storage for small galleries."),
			CapacityBytes: systemsetting.Bounded(5 * gib),
		},
	},
	{
		id: "managed-50gb",
		entry: systemsetting.StoragePlanCatalogEntry{
			Name:          "Managed 50 GB",
			Description:   strPtr("Hosted storage for growing photo libraries."),
			CapacityBytes: systemsetting.Bounded(50 * gib),
		},
	},
	{
		id: "managed-200gb",
		entry: systemsetting.StoragePlanCatalogEntry{
			Name:          "Managed 200 GB",
			Description:   strPtr("Hosted storage for professional archives."),
			CapacityBytes: systemsetting.Bounded(200 * gib),
		},
	},
}

// DefaultStoragePlanCatalog returns a fresh copy of the built-in catalog.
func DefaultStoragePlanCatalog() map[string]systemsetting.StoragePlanCatalogEntry {
	out := make(map[string]systemsetting.StoragePlanCatalogEntry, len(defaultStoragePlans))
	for _, p := range defaultStoragePlans {
		out[p.id] = p.entry
	}
	return out
}
