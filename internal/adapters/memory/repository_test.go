// internal/adapters/memory/repository_test.go
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
)

func seed(t *testing.T, r *Repository, bloodType, location string, qty int) {
	t.Helper()
	require.NoError(t, r.AddInventory(context.Background(), &domain.InventoryRecord{
		BloodType: bloodType, QuantityUnits: qty, Location: location,
	}))
}

func order(id, bloodType string, units int) *domain.DeliveryRequest {
	return &domain.DeliveryRequest{
		ID:              id,
		PatientName:     "Jane Roe",
		BloodType:       bloodType,
		UnitsRequested:  units,
		DeliveryAddress: "12 Harbour Rd",
		RequestedBy:     "nurse",
		CreatedAt:       time.Now(),
	}
}

func TestRepository_Users(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()

	u, err := r.CreateUser(ctx, "nurse", "hash", domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = r.CreateUser(ctx, "nurse", "other", domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	found, err := r.FindUserByUsername(ctx, "nurse")
	require.NoError(t, err)
	assert.Equal(t, "hash", found.PasswordHash)

	missing, err := r.FindUserByUsername(ctx, "ghost")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_InventoryIsKeyed(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()
	seed(t, r, "O+", "Central", 5)
	seed(t, r, "O+", "North", 1)

	err := r.AddInventory(ctx, &domain.InventoryRecord{BloodType: "O+", QuantityUnits: 2, Location: "Central"})
	assert.ErrorIs(t, err, domain.ErrInventoryExists)

	rec, err := r.AdjustQuantity(ctx, domain.InventoryKey{BloodType: "O+", Location: "North"}, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.QuantityUnits)

	central, _ := r.FindByBloodType(ctx, "O+")
	require.Len(t, central, 2)
	assert.Equal(t, "Central", central[0].Location)
	assert.Equal(t, 5, central[0].QuantityUnits, "only the addressed record changes")

	_, err = r.AdjustQuantity(ctx, domain.InventoryKey{BloodType: "A+", Location: "North"}, 1)
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)

	_, err = r.AdjustQuantity(ctx, domain.InventoryKey{BloodType: "O+", Location: "North"}, -6)
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestRepository_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements and records", func(t *testing.T) {
		r := NewRepository()
		seed(t, r, "O+", "Central", 5)
		require.NoError(t, r.PlaceOrder(ctx, order("o-1", "O+", 3)))

		recs, _ := r.FindByBloodType(ctx, "O+")
		assert.Equal(t, 2, recs[0].QuantityUnits)
		orders, total, _ := r.ListOrders(ctx, "nurse", 10, 1)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, 3, orders[0].UnitsRequested)
	})

	t.Run("insufficient leaves state untouched", func(t *testing.T) {
		r := NewRepository()
		seed(t, r, "A+", "Central", 2)
		err := r.PlaceOrder(ctx, order("o-1", "A+", 5))
		var ise *domain.InsufficientStockError
		require.True(t, errors.As(err, &ise))
		assert.Equal(t, 2, ise.Available)

		recs, _ := r.FindByBloodType(ctx, "A+")
		assert.Equal(t, 2, recs[0].QuantityUnits)
		_, total, _ := r.ListOrders(ctx, "nurse", 10, 1)
		assert.Zero(t, total)
	})

	t.Run("missing type counts as zero", func(t *testing.T) {
		r := NewRepository()
		err := r.PlaceOrder(ctx, order("o-1", "B-", 1))
		var ise *domain.InsufficientStockError
		require.True(t, errors.As(err, &ise))
		assert.Zero(t, ise.Available)
	})

	t.Run("draws across locations in order", func(t *testing.T) {
		r := NewRepository()
		seed(t, r, "O-", "Alpha", 2)
		seed(t, r, "O-", "Bravo", 4)
		require.NoError(t, r.PlaceOrder(ctx, order("o-1", "O-", 3)))
		recs, _ := r.FindByBloodType(ctx, "O-")
		assert.Equal(t, 0, recs[0].QuantityUnits)
		assert.Equal(t, 3, recs[1].QuantityUnits)
	})
}

func TestRepository_ConcurrentOrdersNeverOversell(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()
	seed(t, r, "AB+", "Central", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := r.PlaceOrder(ctx, order(fmt.Sprintf("o-%d", i), "AB+", 1)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	recs, _ := r.FindByBloodType(ctx, "AB+")
	assert.Equal(t, 0, recs[0].QuantityUnits)
}

func TestRepository_ListOrdersPaginates(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()
	seed(t, r, "O+", "Central", 100)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.PlaceOrder(ctx, order(fmt.Sprintf("o-%d", i), "O+", 1)))
	}
	other := order("x-1", "O+", 1)
	other.RequestedBy = "someone-else"
	require.NoError(t, r.PlaceOrder(ctx, other))

	page, total, err := r.ListOrders(ctx, "nurse", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "o-4", page[0].ID, "newest first")

	last, _, _ := r.ListOrders(ctx, "nurse", 2, 3)
	require.Len(t, last, 1)
	assert.Equal(t, "o-0", last[0].ID)

	beyond, _, _ := r.ListOrders(ctx, "nurse", 2, 9)
	assert.Empty(t, beyond)
}

func TestCache_ExpiryAndPrefixDelete(t *testing.T) {
	ctx := context.Background()
	c := NewCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "inventory:all", []string{"O+"}))
	require.NoError(t, c.SetWithTTL(ctx, "blacklist:abc", "nurse", time.Second))

	data, err := c.Get(ctx, "inventory:all")
	require.NoError(t, err)
	assert.JSONEq(t, `["O+"]`, string(data))

	ok, _ := c.Exists(ctx, "blacklist:abc")
	assert.True(t, ok)
	now = now.Add(2 * time.Second)
	ok, _ = c.Exists(ctx, "blacklist:abc")
	assert.False(t, ok)

	require.NoError(t, c.DeleteByPrefix(ctx, "inventory:"))
	_, err = c.Get(ctx, "inventory:all")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
