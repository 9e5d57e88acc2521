// internal/application/inventory_service_test.go
package application

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/adapters/memory"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
)

func newInventoryFixture(t *testing.T) (*InventoryService, *memory.Repository, *memory.Cache) {
	t.Helper()
	repo := memory.NewRepository()
	cache := memory.NewCache(time.Minute)
	return NewInventoryService(repo, cache), repo, cache
}

func collect(t *testing.T, svc *InventoryService) []string {
	t.Helper()
	var lines []string
	for line, err := range svc.ListAll(context.Background()) {
		require.NoError(t, err)
		lines = append(lines, line)
	}
	return lines
}

func TestInventoryService_AddAndGetAvailable(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newInventoryFixture(t)

	_, known, err := svc.GetAvailable(ctx, "O+")
	require.NoError(t, err)
	assert.False(t, known, "no record yet means unknown")

	_, err = svc.AddInventory(ctx, domain.InventoryForm{BloodType: "o+", Quantity: "5", Location: " Central "})
	require.NoError(t, err)
	_, err = svc.AddInventory(ctx, domain.InventoryForm{BloodType: "O+", Quantity: "2", Location: "North"})
	require.NoError(t, err)

	qty, known, err := svc.GetAvailable(ctx, "O+")
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, 7, qty)

	_, err = svc.AddInventory(ctx, domain.InventoryForm{BloodType: "O+", Quantity: "1", Location: "Central"})
	assert.ErrorIs(t, err, domain.ErrInventoryExists)
}

func TestInventoryService_AddValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newInventoryFixture(t)

	tests := []struct {
		name   string
		form   domain.InventoryForm
		errMsg string
	}{
		{name: "Missing location", form: domain.InventoryForm{BloodType: "A+", Quantity: "3"}, errMsg: "location is required"},
		{name: "Quantity not a number", form: domain.InventoryForm{BloodType: "A+", Quantity: "x", Location: "C"}, errMsg: "quantity must be a valid number"},
		{name: "Negative quantity", form: domain.InventoryForm{BloodType: "A+", Quantity: "-1", Location: "C"}, errMsg: "quantity must be a positive integer"},
		{name: "Unknown type", form: domain.InventoryForm{BloodType: "Q", Quantity: "1", Location: "C"}, errMsg: "blood_type is not a known blood type"},
		{name: "Quantity past int32", form: domain.InventoryForm{BloodType: "A+", Quantity: "3000000000", Location: "C"}, errMsg: "quantity must be at most 2147483647"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddInventory(ctx, tt.form)
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}

func TestInventoryService_IncreaseTargetsOneRecord(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newInventoryFixture(t)
	_, _ = svc.AddInventory(ctx, domain.InventoryForm{BloodType: "B+", Quantity: "1", Location: "Central"})
	_, _ = svc.AddInventory(ctx, domain.InventoryForm{BloodType: "B+", Quantity: "1", Location: "North"})

	rec, err := svc.IncreaseInventory(ctx, domain.InventoryForm{BloodType: "B+", Quantity: "4", Location: "North"})
	require.NoError(t, err)
	assert.Equal(t, 5, rec.QuantityUnits)

	recs, _ := repo.FindByBloodType(ctx, "B+")
	assert.Equal(t, 1, recs[0].QuantityUnits)
	assert.Equal(t, 5, recs[1].QuantityUnits)

	_, err = svc.IncreaseInventory(ctx, domain.InventoryForm{BloodType: "B+", Quantity: "0", Location: "North"})
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = svc.IncreaseInventory(ctx, domain.InventoryForm{BloodType: "B+", Quantity: "1", Location: "South"})
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
}

func TestInventoryService_AdjustQuantityNeverNegative(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newInventoryFixture(t)
	_, _ = svc.AddInventory(ctx, domain.InventoryForm{BloodType: "AB-", Quantity: "2", Location: "Central"})

	rec, err := svc.AdjustQuantity(ctx, domain.InventoryKey{BloodType: "AB-", Location: "Central"}, -2)
	require.NoError(t, err)
	assert.Zero(t, rec.QuantityUnits)

	_, err = svc.AdjustQuantity(ctx, domain.InventoryKey{BloodType: "AB-", Location: "Central"}, -1)
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestInventoryService_IncreaseCappedAtMaxUnits(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newInventoryFixture(t)
	_, err := svc.AddInventory(ctx, domain.InventoryForm{BloodType: "A-", Quantity: "2147483000", Location: "Central"})
	require.NoError(t, err)

	_, err = svc.IncreaseInventory(ctx, domain.InventoryForm{BloodType: "A-", Quantity: "1000", Location: "Central"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)

	recs, _ := repo.FindByBloodType(ctx, "A-")
	assert.Equal(t, 2147483000, recs[0].QuantityUnits)
}

func TestInventoryService_ListAllIsRestartable(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newInventoryFixture(t)
	_, _ = svc.AddInventory(ctx, domain.InventoryForm{BloodType: "O-", Quantity: "4", Location: "North"})
	_, _ = svc.AddInventory(ctx, domain.InventoryForm{BloodType: "A+", Quantity: "9", Location: "Central"})

	first := collect(t, svc)
	second := collect(t, svc)
	sort.Strings(first)
	sort.Strings(second)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)

	// early break stops the sequence
	n := 0
	for range svc.ListAll(ctx) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestInventoryService_CacheInvalidatedOnMutation(t *testing.T) {
	ctx := context.Background()
	svc, _, cache := newInventoryFixture(t)
	_, _ = svc.AddInventory(ctx, domain.InventoryForm{BloodType: "O+", Quantity: "5", Location: "Central"})

	before := collect(t, svc)
	key := inventoryListKey(ctx, cache)
	_, err := cache.Get(ctx, key)
	require.NoError(t, err, "listing populates the cache")

	_, err = svc.IncreaseInventory(ctx, domain.InventoryForm{BloodType: "O+", Quantity: "1", Location: "Central"})
	require.NoError(t, err)
	_, err = cache.Get(ctx, key)
	assert.ErrorIs(t, err, ports.ErrCacheMiss, "mutation drops the cached listing")
	assert.NotEqual(t, key, inventoryListKey(ctx, cache))

	after := collect(t, svc)
	assert.NotEqual(t, before, after)
	assert.Equal(t, FormatInventoryLine(&domain.InventoryRecord{BloodType: "O+", QuantityUnits: 6, Location: "Central"}), after[0])
}

func TestInventoryService_LateCacheWriteIsNotServed(t *testing.T) {
	ctx := context.Background()
	svc, repo, cache := newInventoryFixture(t)
	_, err := svc.AddInventory(ctx, domain.InventoryForm{BloodType: "O+", Quantity: "5", Location: "Central"})
	require.NoError(t, err)

	// a reader loads records, then an order lands before it fills the cache
	key := inventoryListKey(ctx, cache)
	stale, err := repo.ListInventory(ctx)
	require.NoError(t, err)
	orders := NewOrderService(repo, cache)
	_, err = orders.SubmitOrder(ctx, "nurse", domain.OrderForm{PatientName: "Jane", BloodType: "O+", Units: "3", DeliveryAddress: "Ward 3"})
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, key, stale))

	records, err := svc.Inventory(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].QuantityUnits)
}

func TestInventoryService_ListAllYieldsPersistenceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := ports.NewMockInventoryRepositoryPort(ctrl)
	svc := NewInventoryService(mockRepo, &mockCache{})
	mockRepo.EXPECT().ListInventory(gomock.Any()).Return(nil, errors.New("db down"))

	var gotErr error
	for _, err := range svc.ListAll(context.Background()) {
		gotErr = err
	}
	var pe *domain.PersistenceError
	assert.True(t, errors.As(gotErr, &pe))
}
