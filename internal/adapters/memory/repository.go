// internal/adapters/memory/repository.go

// Package memory keeps users, inventory and delivery requests in process.
// It backs local runs (storage.driver=memory) and the test suites.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
)

// Repository guards all three tables with one mutex, so PlaceOrder's
// check-and-decrement runs as a single critical section.
type Repository struct {
	mu        sync.Mutex
	nextUser  int64
	nextStock int64
	users     map[string]*domain.User
	inventory map[domain.InventoryKey]*domain.InventoryRecord
	orders    []*domain.DeliveryRequest
}

var _ ports.RepositoryPort = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{
		users:     make(map[string]*domain.User),
		inventory: make(map[domain.InventoryKey]*domain.InventoryRecord),
	}
}

func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	r.nextUser++
	u := &domain.User{
		ID:           r.nextUser,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[username] = u
	cp := *u
	return &cp, nil
}

func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *Repository) AddInventory(ctx context.Context, rec *domain.InventoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := rec.Key()
	if _, ok := r.inventory[key]; ok {
		return domain.ErrInventoryExists
	}
	r.nextStock++
	rec.ID = r.nextStock
	rec.UpdatedAt = time.Now().UTC()
	cp := *rec
	r.inventory[key] = &cp
	return nil
}

func (r *Repository) AdjustQuantity(ctx context.Context, key domain.InventoryKey, delta int) (*domain.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.inventory[key]
	if !ok {
		return nil, domain.ErrInventoryNotFound
	}
	n, err := domain.AdjustedQuantity(rec.QuantityUnits, delta)
	if err != nil {
		return nil, err
	}
	rec.QuantityUnits = n
	rec.UpdatedAt = time.Now().UTC()
	cp := *rec
	return &cp, nil
}

func (r *Repository) FindByBloodType(ctx context.Context, bloodType string) ([]*domain.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byType(bloodType, true), nil
}

func (r *Repository) ListInventory(ctx context.Context) ([]*domain.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.InventoryRecord, 0, len(r.inventory))
	for _, rec := range r.inventory {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BloodType != out[j].BloodType {
			return out[i].BloodType < out[j].BloodType
		}
		return out[i].Location < out[j].Location
	})
	return out, nil
}

func (r *Repository) PlaceOrder(ctx context.Context, req *domain.DeliveryRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.byType(req.BloodType, false)
	available := 0
	for _, rec := range records {
		available += rec.QuantityUnits
	}
	if available < req.UnitsRequested {
		return &domain.InsufficientStockError{
			BloodType: req.BloodType,
			Requested: req.UnitsRequested,
			Available: available,
		}
	}

	remaining := req.UnitsRequested
	now := time.Now().UTC()
	for _, rec := range records {
		if remaining == 0 {
			break
		}
		take := min(remaining, rec.QuantityUnits)
		rec.QuantityUnits -= take
		rec.UpdatedAt = now
		remaining -= take
	}
	cp := *req
	r.orders = append(r.orders, &cp)
	return nil
}

func (r *Repository) FindOrder(ctx context.Context, id string) (*domain.DeliveryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Repository) ListOrders(ctx context.Context, username string, limit, page int64) ([]*domain.DeliveryRequest, int64, error) {
	if limit < 1 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var mine []*domain.DeliveryRequest
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].RequestedBy == username {
			mine = append(mine, r.orders[i])
		}
	}
	total := int64(len(mine))
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := min(start+limit, total)
	out := make([]*domain.DeliveryRequest, 0, end-start)
	for _, o := range mine[start:end] {
		cp := *o
		out = append(out, &cp)
	}
	return out, total, nil
}

// byType returns the type's records in location order. Callers hold r.mu.
func (r *Repository) byType(bloodType string, copyOut bool) []*domain.InventoryRecord {
	var out []*domain.InventoryRecord
	for _, rec := range r.inventory {
		if rec.BloodType != bloodType {
			continue
		}
		if copyOut {
			cp := *rec
			out = append(out, &cp)
		} else {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out
}
