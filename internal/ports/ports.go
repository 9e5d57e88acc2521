// internal/ports/ports.go
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/pkg/auth"
)

//go:generate mockgen -destination=mock_ports.go -package=ports -self_package=github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports AuthPort,UserRepositoryPort,InventoryRepositoryPort,OrderRepositoryPort,CachePort

type AuthPort interface {
	Signup(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type UserRepositoryPort interface {
	CreateUser(ctx context.Context, username, passwordHash string, role domain.Role) (*domain.User, error)
	// FindUserByUsername returns nil, nil when no user matches.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

type InventoryRepositoryPort interface {
	AddInventory(ctx context.Context, rec *domain.InventoryRecord) error
	AdjustQuantity(ctx context.Context, key domain.InventoryKey, delta int) (*domain.InventoryRecord, error)
	FindByBloodType(ctx context.Context, bloodType string) ([]*domain.InventoryRecord, error)
	ListInventory(ctx context.Context) ([]*domain.InventoryRecord, error)
}

type OrderRepositoryPort interface {
	// PlaceOrder checks stock, appends the request and decrements inventory
	// as one unit. It returns *domain.InsufficientStockError without writing
	// anything when the type cannot cover the request.
	PlaceOrder(ctx context.Context, req *domain.DeliveryRequest) error
	// FindOrder returns nil, nil when no order matches.
	FindOrder(ctx context.Context, id string) (*domain.DeliveryRequest, error)
	ListOrders(ctx context.Context, username string, limit, page int64) ([]*domain.DeliveryRequest, int64, error)
}

type RepositoryPort interface {
	UserRepositoryPort
	InventoryRepositoryPort
	OrderRepositoryPort
}

// ErrCacheMiss is returned by CachePort.Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache miss")

type CachePort interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}) error
	// SetWithTTL keeps the key until removed when ttl is 0.
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
}
