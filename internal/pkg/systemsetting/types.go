package systemsetting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// System setting keys.
const (
	KeyStoragePlanCatalog     = "billing.storagePlans.catalog"
	KeyStoragePlanPricing     = "billing.storagePlans.pricing"
	KeyStoragePlanProducts    = "billing.storagePlans.products"
	KeyManagedStorageProvider = "storage.managedProvider"
)

// Capacity is a JSON byte count that remembers whether it was present and
// whether it was an explicit null. An explicit null means "unbounded".
type Capacity struct {
	Present bool
	Bytes   *int64
}

// Bounded returns a present, finite capacity.
func Bounded(bytes int64) Capacity {
	return Capacity{Present: true, Bytes: &bytes}
}

// Unbounded returns a present, explicit-null capacity.
func Unbounded() Capacity {
	return Capacity{Present: true}
}

// UnmarshalJSON accepts null or a non-negative whole number of bytes.
// Exponent forms such as 5e9 are allowed when they are exact integers.
func (c *Capacity) UnmarshalJSON(data []byte) error {
	c.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		c.Bytes = nil
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	b, err := n.Int64()
	if err != nil {
		v, ferr := strconv.ParseFloat(n.String(), 64)
		if ferr != nil || v != math.Trunc(v) || v >= math.MaxInt64 || v <= math.MinInt64 {
			return fmt.Errorf("capacityBytes must be a whole number of bytes, got %s", n)
		}
		b = int64(v)
	}
	if b < 0 {
		return fmt.Errorf("capacityBytes must not be negative, got %s", n)
	}
	c.Bytes = &b
	return nil
}

func (c Capacity) MarshalJSON() ([]byte, error) {
	if c.Present && c.Bytes == nil {
		return []byte("null"), nil
	}
	var v int64
	if c.Bytes != nil {
		v = *c.Bytes
	}
	return []byte(strconv.FormatInt(v, 10)), nil
}

// StoragePlanCatalogEntry is a catalog override as stored in system settings.
type StoragePlanCatalogEntry struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description,omitempty"`
	CapacityBytes Capacity `json:"capacityBytes"`
	IsActive      *bool    `json:"isActive,omitempty"`
}

// StoragePlanPricing is display pricing for a plan.
type StoragePlanPricing struct {
	MonthlyPrice *float64 `json:"monthlyPrice"`
	Currency     *string  `json:"currency"`
	Period       string   `json:"period,omitempty"`
}

// StoragePlanPaymentInfo references the payment-provider product for a plan.
type StoragePlanPaymentInfo struct {
	CreemProductID string `json:"creemProductId"`
}
