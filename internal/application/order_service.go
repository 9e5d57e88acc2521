// internal/application/order_service.go
package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
)

type OrderService struct {
	repo  ports.OrderRepositoryPort
	cache ports.CachePort
}

func NewOrderService(repo ports.OrderRepositoryPort, cache ports.CachePort) *OrderService {
	return &OrderService{repo: repo, cache: cache}
}

// ValidateOrder turns the raw form into a delivery request or reports the
// first bad field.
func ValidateOrder(username string, form domain.OrderForm) (*domain.DeliveryRequest, error) {
	name := strings.TrimSpace(form.PatientName)
	address := strings.TrimSpace(form.DeliveryAddress)
	if name == "" || address == "" || strings.TrimSpace(form.Units) == "" {
		return nil, &domain.ValidationError{Reason: "please fill in all fields"}
	}
	bt, err := domain.ParseBloodType(form.BloodType)
	if err != nil {
		return nil, err
	}
	units, err := domain.ParseUnits("units", form.Units, false)
	if err != nil {
		return nil, err
	}
	return &domain.DeliveryRequest{
		PatientName:     name,
		BloodType:       bt,
		UnitsRequested:  units,
		DeliveryAddress: address,
		RequestedBy:     username,
	}, nil
}

// SubmitOrder validates the form, then records the request and decrements
// stock in one store operation.
func (s *OrderService) SubmitOrder(ctx context.Context, username string, form domain.OrderForm) (*domain.OrderSummary, error) {
	req, err := ValidateOrder(username, form)
	if err != nil {
		return nil, err
	}
	req.ID = uuid.NewString()
	req.CreatedAt = time.Now().UTC()

	if err := s.repo.PlaceOrder(ctx, req); err != nil {
		return nil, storeError("place order", err)
	}
	_ = invalidateInventory(ctx, s.cache)

	return &domain.OrderSummary{Request: req, State: domain.OrderConfirmed}, nil
}

// GetOrder returns the caller's own order only.
func (s *OrderService) GetOrder(ctx context.Context, username, id string) (*domain.DeliveryRequest, error) {
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "find order", Err: err}
	}
	if order == nil || order.RequestedBy != username {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, username string, limit, page int64) ([]*domain.DeliveryRequest, int64, error) {
	if limit < 1 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}
	orders, total, err := s.repo.ListOrders(ctx, username, limit, page)
	if err != nil {
		return nil, 0, &domain.PersistenceError{Op: "list orders", Err: err}
	}
	return orders, total, nil
}
