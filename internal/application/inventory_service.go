// internal/application/inventory_service.go
package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
)

// The cached listing lives under a key carrying the current inventory
// version. Every mutation stores a new version before dropping old
// listings, so a reader that loaded records before the mutation can only
// write them under a key no later reader asks for.
const (
	inventoryCachePrefix = "inventory:"
	inventoryVersionKey  = inventoryCachePrefix + "version"
	inventoryListPrefix  = inventoryCachePrefix + "all:"
)

type InventoryService struct {
	repo  ports.InventoryRepositoryPort
	cache ports.CachePort
}

func NewInventoryService(repo ports.InventoryRepositoryPort, cache ports.CachePort) *InventoryService {
	return &InventoryService{repo: repo, cache: cache}
}

// GetAvailable sums the stock held for bloodType across locations. known is
// false when no record of the type exists at all.
func (s *InventoryService) GetAvailable(ctx context.Context, bloodType string) (quantity int, known bool, err error) {
	bt, err := domain.ParseBloodType(bloodType)
	if err != nil {
		return 0, false, err
	}
	records, err := s.repo.FindByBloodType(ctx, bt)
	if err != nil {
		return 0, false, &domain.PersistenceError{Op: "find inventory", Err: err}
	}
	for _, r := range records {
		quantity += r.QuantityUnits
	}
	return quantity, len(records) > 0, nil
}

// AdjustQuantity applies delta to the one record addressed by key.
func (s *InventoryService) AdjustQuantity(ctx context.Context, key domain.InventoryKey, delta int) (*domain.InventoryRecord, error) {
	bt, err := domain.ParseBloodType(key.BloodType)
	if err != nil {
		return nil, err
	}
	key.BloodType = bt
	key.Location = strings.TrimSpace(key.Location)
	if key.Location == "" {
		return nil, &domain.ValidationError{Field: "location", Reason: "is required"}
	}
	rec, err := s.repo.AdjustQuantity(ctx, key, delta)
	if err != nil {
		return nil, storeError("adjust inventory", err)
	}
	s.invalidate(ctx)
	return rec, nil
}

func (s *InventoryService) AddInventory(ctx context.Context, form domain.InventoryForm) (*domain.InventoryRecord, error) {
	bt, err := domain.ParseBloodType(form.BloodType)
	if err != nil {
		return nil, err
	}
	qty, err := domain.ParseUnits("quantity", form.Quantity, true)
	if err != nil {
		return nil, err
	}
	location := strings.TrimSpace(form.Location)
	if location == "" {
		return nil, &domain.ValidationError{Field: "location", Reason: "is required"}
	}
	rec := &domain.InventoryRecord{BloodType: bt, QuantityUnits: qty, Location: location}
	if err := s.repo.AddInventory(ctx, rec); err != nil {
		return nil, storeError("add inventory", err)
	}
	s.invalidate(ctx)
	return rec, nil
}

func (s *InventoryService) IncreaseInventory(ctx context.Context, form domain.InventoryForm) (*domain.InventoryRecord, error) {
	qty, err := domain.ParseUnits("quantity", form.Quantity, false)
	if err != nil {
		return nil, err
	}
	return s.AdjustQuantity(ctx, domain.InventoryKey{BloodType: form.BloodType, Location: form.Location}, qty)
}

// Inventory returns every record ordered by blood type then location,
// served from the cache when possible.
func (s *InventoryService) Inventory(ctx context.Context) ([]*domain.InventoryRecord, error) {
	key := inventoryListKey(ctx, s.cache)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached []*domain.InventoryRecord
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}
	records, err := s.repo.ListInventory(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list inventory", Err: err}
	}
	sortRecords(records)
	_ = s.cache.Set(ctx, key, records)
	return records, nil
}

// ListAll yields one display line per record. Each range over the sequence
// reads the inventory afresh.
func (s *InventoryService) ListAll(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		records, err := s.Inventory(ctx)
		if err != nil {
			yield("", err)
			return
		}
		for _, r := range records {
			if !yield(FormatInventoryLine(r), nil) {
				return
			}
		}
	}
}

func FormatInventoryLine(r *domain.InventoryRecord) string {
	return fmt.Sprintf("%-4s %5d units  @ %s", r.BloodType, r.QuantityUnits, r.Location)
}

func (s *InventoryService) invalidate(ctx context.Context) {
	_ = invalidateInventory(ctx, s.cache)
}

func inventoryListKey(ctx context.Context, cache ports.CachePort) string {
	var version string
	if data, err := cache.Get(ctx, inventoryVersionKey); err == nil {
		_ = json.Unmarshal(data, &version)
	}
	return inventoryListPrefix + version
}

func invalidateInventory(ctx context.Context, cache ports.CachePort) error {
	if err := cache.SetWithTTL(ctx, inventoryVersionKey, uuid.NewString(), 0); err != nil {
		return err
	}
	return cache.DeleteByPrefix(ctx, inventoryListPrefix)
}

func sortRecords(records []*domain.InventoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].BloodType != records[j].BloodType {
			return records[i].BloodType < records[j].BloodType
		}
		return records[i].Location < records[j].Location
	})
}

// storeError passes domain errors through and wraps everything else.
func storeError(op string, err error) error {
	var ve *domain.ValidationError
	var ise *domain.InsufficientStockError
	switch {
	case errors.As(err, &ve), errors.As(err, &ise),
		errors.Is(err, domain.ErrInventoryExists),
		errors.Is(err, domain.ErrInventoryNotFound),
		errors.Is(err, domain.ErrUsernameTaken):
		return err
	}
	return &domain.PersistenceError{Op: op, Err: err}
}
