package systemsetting

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afilmory/core/internal/pkg/cache"
)

type fakeRepo struct {
	values map[string]string
	reads  int
}

func (f *fakeRepo) GetValue(_ context.Context, key string) (string, bool, error) {
	f.reads++
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeRepo) SetValue(_ context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

func newTestService(values map[string]string) (*Service, *fakeRepo) {
	repo := &fakeRepo{values: values}
	return NewService(repo, cache.NewMemoryStore(), time.Minute), repo
}

func TestGetStoragePlanCatalog_CapacityPresence(t *testing.T) {
	svc, _ := newTestService(map[string]string{
		KeyStoragePlanCatalog: `{
			"absent": {"name": "Absent"},
			"unbounded": {"name": "Unbounded", "capacityBytes": null},
			"zero": {"name": "Zero", "capacityBytes": 0},
			"ten": {"name": "Ten", "capacityBytes": 10, "isActive": false}
		}`,
	})

	catalog, err := svc.GetStoragePlanCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 4)

	assert.False(t, catalog["absent"].CapacityBytes.Present)

	assert.True(t, catalog["unbounded"].CapacityBytes.Present)
	assert.Nil(t, catalog["unbounded"].CapacityBytes.Bytes)

	require.NotNil(t, catalog["zero"].CapacityBytes.Bytes)
	assert.Equal(t, int64(0), *catalog["zero"].CapacityBytes.Bytes)

	require.NotNil(t, catalog["ten"].CapacityBytes.Bytes)
	assert.Equal(t, int64(10), *catalog["ten"].CapacityBytes.Bytes)
	require.NotNil(t, catalog["ten"].IsActive)
	assert.False(t, *catalog["ten"].IsActive)
}

func TestGetStoragePlanCatalog_MalformedIsEmpty(t *testing.T) {
	svc, _ := newTestService(map[string]string{KeyStoragePlanCatalog: `[1,2,3]`})

	catalog, err := svc.GetStoragePlanCatalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestGetStoragePlanProductsAndPricing(t *testing.T) {
	svc, _ := newTestService(map[string]string{
		KeyStoragePlanProducts: `{"managed-50gb": {"creemProductId": "prod_50"}}`,
		KeyStoragePlanPricing:  `{"managed-50gb": {"monthlyPrice": 4.99, "currency": "USD"}}`,
	})
	ctx := context.Background()

	products, err := svc.GetStoragePlanProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "prod_50", products["managed-50gb"].CreemProductID)

	pricing, err := svc.GetStoragePlanPricing(ctx)
	require.NoError(t, err)
	require.NotNil(t, pricing["managed-50gb"].MonthlyPrice)
	assert.InDelta(t, 4.99, *pricing["managed-50gb"].MonthlyPrice, 0.0001)
}

func TestGetManagedStorageProviderKey(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		value *string
		want  *string
	}{
		{name: "missing", value: nil, want: nil},
		{name: "blank", value: strPtr("   "), want: nil},
		{name: "bare string", value: strPtr(" r2-managed "), want: strPtr("r2-managed")},
		{name: "json string", value: strPtr(`"r2-managed"`), want: strPtr("r2-managed")},
		{name: "json null", value: strPtr(`null`), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := map[string]string{}
			if tt.value != nil {
				values[KeyManagedStorageProvider] = *tt.value
			}
			svc, _ := newTestService(values)

			got, err := svc.GetManagedStorageProviderKey(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetRaw_ReadThroughCacheAndInvalidation(t *testing.T) {
	svc, repo := newTestService(map[string]string{KeyManagedStorageProvider: "a"})
	ctx := context.Background()

	_, _, err := svc.GetRaw(ctx, KeyManagedStorageProvider)
	require.NoError(t, err)
	_, _, err = svc.GetRaw(ctx, KeyManagedStorageProvider)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reads)

	require.NoError(t, svc.Set(ctx, KeyManagedStorageProvider, "b"))
	val, ok, err := svc.GetRaw(ctx, KeyManagedStorageProvider)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", val)
	assert.Equal(t, 2, repo.reads)
}

func TestCapacityMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(StoragePlanCatalogEntry{Name: "x", CapacityBytes: Unbounded()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","capacityBytes":null}`, string(raw))

	raw, err = json.Marshal(StoragePlanCatalogEntry{Name: "y", CapacityBytes: Bounded(42)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"y","capacityBytes":42}`, string(raw))
}

func strPtr(s string) *string { return &s }

func TestCapacityUnmarshalJSON(t *testing.T) {
	valid := map[string]int64{
		`9007199254740993`:    9007199254740993,
		`9223372036854775807`: 9223372036854775807,
		`5e9`:                 5000000000,
		`10.0`:                10,
	}
	for raw, want := range valid {
		var c Capacity
		require.NoError(t, json.Unmarshal([]byte(raw), &c), raw)
		require.NotNil(t, c.Bytes, raw)
		assert.Equal(t, want, *c.Bytes, raw)
	}

	for _, raw := range []string{`-1`, `1.5`, `-2e3`, `1e19`, `true`} {
		var c Capacity
		assert.Error(t, json.Unmarshal([]byte(raw), &c), raw)
	}
}

func TestGetStoragePlanCatalog_DropsOnlyMalformedEntries(t *testing.T) {
	svc, _ := newTestService(map[string]string{
		KeyStoragePlanCatalog: `{
			"negative": {"name": "Negative", "capacityBytes": -5},
			"fraction": {"name": "Fraction", "capacityBytes": 1.5},
			"good": {"name": "Good", "capacityBytes": 1024}
		}`,
	})

	catalog, err := svc.GetStoragePlanCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	require.NotNil(t, catalog["good"].CapacityBytes.Bytes)
	assert.Equal(t, int64(1024), *catalog["good"].CapacityBytes.Bytes)
}
