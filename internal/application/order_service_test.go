// internal/application/order_service_test.go
package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
)

type mockCache struct {
	get    func(ctx context.Context, key string) ([]byte, error)
	set    func(ctx context.Context, key string, value interface{}) error
	delete func(ctx context.Context, prefix string) error
	ping   func(ctx context.Context) error

	deleted []string
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.get == nil {
		return nil, errors.New("cache miss")
	}
	return m.get(ctx, key)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}) error {
	if m.set == nil {
		return nil
	}
	return m.set(ctx, key, value)
}

func (m *mockCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Set(ctx, key, value)
}

func (m *mockCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Get(ctx, key)
	return err == nil, nil
}

func (m *mockCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	m.deleted = append(m.deleted, prefix)
	if m.delete == nil {
		return nil
	}
	return m.delete(ctx, prefix)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.ping(ctx)
}

func TestOrderService_SubmitOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := ports.NewMockOrderRepositoryPort(ctrl)
	cache := &mockCache{
		ping: func(ctx context.Context) error { return nil },
	}
	svc := NewOrderService(mockRepo, cache)

	validForm := domain.OrderForm{
		PatientName:     "John Doe",
		BloodType:       "o+",
		Units:           "3",
		DeliveryAddress: "123 Main St",
	}

	tests := []struct {
		name      string
		form      domain.OrderForm
		mockSetup func()
		wantErr   bool
		errMsg    string
	}{
		{
			name: "Successful order",
			form: validForm,
			mockSetup: func() {
				mockRepo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *domain.DeliveryRequest) error {
					if req.BloodType != "O+" || req.UnitsRequested != 3 || req.RequestedBy != "nurse" || req.ID == "" {
						t.Errorf("PlaceOrder() got request %+v", req)
					}
					return nil
				})
				cache.delete = func(ctx context.Context, prefix string) error { return nil }
			},
			wantErr: false,
		},
		{
			name:      "Missing patient name",
			form:      domain.OrderForm{BloodType: "O+", Units: "3", DeliveryAddress: "123 Main St"},
			mockSetup: func() {},
			wantErr:   true,
			errMsg:    "please fill in all fields",
		},
		{
			name:      "Units not a number",
			form:      domain.OrderForm{PatientName: "John Doe", BloodType: "O+", Units: "three", DeliveryAddress: "123 Main St"},
			mockSetup: func() {},
			wantErr:   true,
			errMsg:    "units must be a valid number",
		},
		{
			name:      "Units not positive",
			form:      domain.OrderForm{PatientName: "John Doe", BloodType: "O+", Units: "0", DeliveryAddress: "123 Main St"},
			mockSetup: func() {},
			wantErr:   true,
			errMsg:    "units must be a positive integer",
		},
		{
			name:      "Unknown blood type",
			form:      domain.OrderForm{PatientName: "John Doe", BloodType: "Z", Units: "1", DeliveryAddress: "123 Main St"},
			mockSetup: func() {},
			wantErr:   true,
			errMsg:    "blood_type is not a known blood type",
		},
		{
			name: "Insufficient stock",
			form: validForm,
			mockSetup: func() {
				mockRepo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).Return(&domain.InsufficientStockError{BloodType: "O+", Requested: 3, Available: 2})
			},
			wantErr: true,
			errMsg:  "not enough O+ units available: requested 3, only 2 left",
		},
		{
			name: "Repository error",
			form: validForm,
			mockSetup: func() {
				mockRepo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
			errMsg:  "place order: db error",
		},
		{
			name: "Cache deletion error",
			form: validForm,
			mockSetup: func() {
				mockRepo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).Return(nil)
				cache.delete = func(ctx context.Context, prefix string) error { return errors.New("cache error") }
			},
			wantErr: false, // Cache error doesn't fail the operation
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			summary, err := svc.SubmitOrder(context.Background(), "nurse", tt.form)
			if tt.wantErr {
				if err == nil || err.Error() != tt.errMsg {
					t.Errorf("SubmitOrder() error = %v, wantErr %v, errMsg %v", err, tt.wantErr, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("SubmitOrder() unexpected error: %v", err)
			}
			if summary == nil || summary.State != domain.OrderConfirmed || summary.Request.ID == "" {
				t.Errorf("SubmitOrder() summary = %v, want confirmed order with id", summary)
			}
		})
	}

	if len(cache.deleted) != 2 || cache.deleted[0] != inventoryListPrefix {
		t.Errorf("inventory cache invalidations = %v, want 2 on %q", cache.deleted, inventoryListPrefix)
	}
}

func TestOrderService_SubmitOrderErrorTypes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := ports.NewMockOrderRepositoryPort(ctrl)
	svc := NewOrderService(mockRepo, &mockCache{})

	mockRepo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).Return(&domain.InsufficientStockError{BloodType: "A+", Requested: 5, Available: 2})
	_, err := svc.SubmitOrder(context.Background(), "nurse", domain.OrderForm{PatientName: "a", BloodType: "A+", Units: "5", DeliveryAddress: "b"})
	var ise *domain.InsufficientStockError
	if !errors.As(err, &ise) || ise.Available != 2 {
		t.Errorf("SubmitOrder() error = %v, want InsufficientStockError{Available: 2}", err)
	}

	mockRepo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
	_, err = svc.SubmitOrder(context.Background(), "nurse", domain.OrderForm{PatientName: "a", BloodType: "A+", Units: "1", DeliveryAddress: "b"})
	var pe *domain.PersistenceError
	if !errors.As(err, &pe) {
		t.Errorf("SubmitOrder() error = %v, want PersistenceError", err)
	}

	_, err = svc.SubmitOrder(context.Background(), "nurse", domain.OrderForm{})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("SubmitOrder() error = %v, want ValidationError", err)
	}
}

func TestOrderService_GetOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := ports.NewMockOrderRepositoryPort(ctrl)
	svc := NewOrderService(mockRepo, &mockCache{})

	mine := &domain.DeliveryRequest{ID: "o-1", RequestedBy: "nurse"}

	tests := []struct {
		name      string
		username  string
		mockSetup func()
		wantErr   error
	}{
		{
			name:     "Own order",
			username: "nurse",
			mockSetup: func() {
				mockRepo.EXPECT().FindOrder(gomock.Any(), "o-1").Return(mine, nil)
			},
		},
		{
			name:     "Someone else's order",
			username: "intruder",
			mockSetup: func() {
				mockRepo.EXPECT().FindOrder(gomock.Any(), "o-1").Return(mine, nil)
			},
			wantErr: domain.ErrOrderNotFound,
		},
		{
			name:     "Order not found",
			username: "nurse",
			mockSetup: func() {
				mockRepo.EXPECT().FindOrder(gomock.Any(), "o-1").Return(nil, nil)
			},
			wantErr: domain.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			order, err := svc.GetOrder(context.Background(), tt.username, "o-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetOrder() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || order.ID != "o-1" {
				t.Errorf("GetOrder() = %v, %v", order, err)
			}
		})
	}
}

func TestOrderService_ListOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := ports.NewMockOrderRepositoryPort(ctrl)
	svc := NewOrderService(mockRepo, &mockCache{})

	orders := []*domain.DeliveryRequest{{ID: "o-1", RequestedBy: "nurse", CreatedAt: time.Now()}}

	tests := []struct {
		name      string
		limit     int64
		page      int64
		mockSetup func()
		wantErr   bool
	}{
		{
			name:  "Successful list",
			limit: 5,
			page:  2,
			mockSetup: func() {
				mockRepo.EXPECT().ListOrders(gomock.Any(), "nurse", int64(5), int64(2)).Return(orders, int64(6), nil)
			},
		},
		{
			name:  "Defaults applied",
			limit: 0,
			page:  0,
			mockSetup: func() {
				mockRepo.EXPECT().ListOrders(gomock.Any(), "nurse", int64(10), int64(1)).Return(orders, int64(1), nil)
			},
		},
		{
			name:  "Repository error",
			limit: 10,
			page:  1,
			mockSetup: func() {
				mockRepo.EXPECT().ListOrders(gomock.Any(), "nurse", int64(10), int64(1)).Return(nil, int64(0), errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, _, err := svc.ListOrders(context.Background(), "nurse", tt.limit, tt.page)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ListOrders() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("ListOrders() unexpected error: %v", err)
			}
			if len(result) != len(orders) {
				t.Errorf("ListOrders() result = %v, want %v", result, orders)
			}
		})
	}
}
