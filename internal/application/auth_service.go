// internal/application/auth_service.go
package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/pkg/auth"
)

const blacklistPrefix = "blacklist:"

type AuthService struct {
	repo   ports.UserRepositoryPort
	cache  ports.CachePort
	tokens *auth.TokenManager
	cost   int
}

func NewAuthService(repo ports.UserRepositoryPort, cache ports.CachePort, tokens *auth.TokenManager) *AuthService {
	return &AuthService{repo: repo, cache: cache, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost, mainly so tests stay fast.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

func (s *AuthService) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	return s.createUser(ctx, username, password, domain.RoleUser)
}

// SeedAdmin creates the admin account if it does not exist yet.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) (bool, error) {
	existing, err := s.repo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return false, &domain.PersistenceError{Op: "find admin", Err: err}
	}
	if existing != nil {
		return false, nil
	}
	if _, err := s.createUser(ctx, username, password, domain.RoleAdmin); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, &domain.ValidationError{Reason: "username and password are required"}
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, &domain.ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
	}
	if err != nil {
		return nil, errors.New("failed to hash password")
	}
	user, err := s.repo.CreateUser(ctx, username, string(hashedPassword), role)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "create user", Err: err}
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.repo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", nil, &domain.PersistenceError{Op: "find user", Err: err}
	}
	if user == nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokens.GenerateToken(user.Username, user.ID, string(user.Role))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate validates a bearer token and rejects logged-out ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.cache.Exists(ctx, blacklistPrefix+claims.ID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "check token blacklist", Err: err}
	}
	if revoked {
		return nil, errors.New("token is blacklisted")
	}
	return claims, nil
}

func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return errors.New("token not found in context")
	}
	ttl := s.tokens.TTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.SetWithTTL(ctx, blacklistPrefix+claims.ID, claims.Username, ttl); err != nil {
		return &domain.PersistenceError{Op: "blacklist token", Err: err}
	}
	return nil
}
