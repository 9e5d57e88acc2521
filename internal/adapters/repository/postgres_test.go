// internal/adapters/repository/postgres_test.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
)

// setupTestRepo connects to the database named by DISPATCH_TEST_DSN, e.g.
// "host=localhost port=5432 user=postgres password=pass dbname=dronedb_test sslmode=disable".
func setupTestRepo(t *testing.T) ports.RepositoryPort {
	t.Helper()
	dsn := os.Getenv("DISPATCH_TEST_DSN")
	if dsn == "" {
		t.Skip("DISPATCH_TEST_DSN not set, skipping Postgres integration tests")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to connect to DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Ping(); err != nil {
		t.Fatalf("failed to ping DB: %v", err)
	}
	ctx := context.Background()
	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error: %v", err)
	}
	for _, table := range []string{"delivery_requests", "blood_inventory", "users"} {
		if _, err := db.ExecContext(ctx, "TRUNCATE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	return NewPostgresRepository(db)
}

func newOrder(bloodType string, units int) *domain.DeliveryRequest {
	return &domain.DeliveryRequest{
		ID:              uuid.NewString(),
		PatientName:     "John Doe",
		BloodType:       bloodType,
		UnitsRequested:  units,
		DeliveryAddress: "123 Main St",
		RequestedBy:     "nurse@example.com",
		CreatedAt:       time.Now().UTC(),
	}
}

func TestPostgresRepository(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("CreateUser_Duplicate", func(t *testing.T) {
		if _, err := repo.CreateUser(ctx, "nurse@example.com", "hash", domain.RoleUser); err != nil {
			t.Fatalf("CreateUser() error: %v", err)
		}
		_, err := repo.CreateUser(ctx, "nurse@example.com", "hash", domain.RoleUser)
		if !errors.Is(err, domain.ErrUsernameTaken) {
			t.Errorf("CreateUser() duplicate error = %v, want ErrUsernameTaken", err)
		}
		u, err := repo.FindUserByUsername(ctx, "nurse@example.com")
		if err != nil || u == nil || u.Role != domain.RoleUser {
			t.Errorf("FindUserByUsername() = %v, %v", u, err)
		}
	})

	t.Run("AddInventory_Duplicate", func(t *testing.T) {
		rec := &domain.InventoryRecord{BloodType: "O+", QuantityUnits: 5, Location: "Central"}
		if err := repo.AddInventory(ctx, rec); err != nil {
			t.Fatalf("AddInventory() error: %v", err)
		}
		if rec.ID == 0 {
			t.Errorf("AddInventory() did not set ID")
		}
		err := repo.AddInventory(ctx, &domain.InventoryRecord{BloodType: "O+", QuantityUnits: 1, Location: "Central"})
		if !errors.Is(err, domain.ErrInventoryExists) {
			t.Errorf("AddInventory() duplicate error = %v, want ErrInventoryExists", err)
		}
	})

	t.Run("PlaceOrder_Success", func(t *testing.T) {
		if err := repo.PlaceOrder(ctx, newOrder("O+", 3)); err != nil {
			t.Fatalf("PlaceOrder() error: %v", err)
		}
		recs, _ := repo.FindByBloodType(ctx, "O+")
		if len(recs) != 1 || recs[0].QuantityUnits != 2 {
			t.Errorf("stock after order = %+v, want 2 units", recs)
		}
	})

	t.Run("PlaceOrder_Insufficient", func(t *testing.T) {
		if err := repo.AddInventory(ctx, &domain.InventoryRecord{BloodType: "A+", QuantityUnits: 2, Location: "Central"}); err != nil {
			t.Fatalf("AddInventory() error: %v", err)
		}
		err := repo.PlaceOrder(ctx, newOrder("A+", 5))
		var ise *domain.InsufficientStockError
		if !errors.As(err, &ise) || ise.Available != 2 {
			t.Errorf("PlaceOrder() error = %v, want InsufficientStockError{Available: 2}", err)
		}
		recs, _ := repo.FindByBloodType(ctx, "A+")
		if recs[0].QuantityUnits != 2 {
			t.Errorf("stock changed to %d", recs[0].QuantityUnits)
		}
	})

	t.Run("PlaceOrder_Concurrent", func(t *testing.T) {
		if err := repo.AddInventory(ctx, &domain.InventoryRecord{BloodType: "B-", QuantityUnits: 5, Location: "Central"}); err != nil {
			t.Fatalf("AddInventory() error: %v", err)
		}
		var wg sync.WaitGroup
		errs := make(chan error, 12)
		for i := 0; i < 12; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- repo.PlaceOrder(ctx, newOrder("B-", 1))
			}()
		}
		wg.Wait()
		close(errs)
		ok := 0
		for err := range errs {
			if err == nil {
				ok++
			}
		}
		if ok != 5 {
			t.Errorf("%d orders succeeded, want 5", ok)
		}
	})

	t.Run("AdjustQuantity", func(t *testing.T) {
		rec, err := repo.AdjustQuantity(ctx, domain.InventoryKey{BloodType: "A+", Location: "Central"}, 4)
		if err != nil || rec.QuantityUnits != 6 {
			t.Errorf("AdjustQuantity() = %+v, %v, want 6 units", rec, err)
		}
		_, err = repo.AdjustQuantity(ctx, domain.InventoryKey{BloodType: "AB-", Location: "Central"}, 1)
		if !errors.Is(err, domain.ErrInventoryNotFound) {
			t.Errorf("AdjustQuantity() missing error = %v", err)
		}
	})

	t.Run("ListOrders", func(t *testing.T) {
		orders, total, err := repo.ListOrders(ctx, "nurse@example.com", 10, 1)
		if err != nil {
			t.Fatalf("ListOrders() error: %v", err)
		}
		if total != 6 || len(orders) != 6 {
			t.Errorf("ListOrders() total = %d, len = %d, want 6", total, len(orders))
		}
		found, err := repo.FindOrder(ctx, orders[0].ID)
		if err != nil || found == nil {
			t.Errorf("FindOrder() = %v, %v", found, err)
		}
		missing, err := repo.FindOrder(ctx, fmt.Sprintf("missing-%d", time.Now().UnixNano()))
		if err != nil || missing != nil {
			t.Errorf("FindOrder() missing = %v, %v", missing, err)
		}
	})
}
