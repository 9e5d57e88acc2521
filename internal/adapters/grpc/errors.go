// internal/adapters/grpc/errors.go
package grpc

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/application"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
)

// errorEnvelope maps a service error to the message and code carried in
// the response envelope. Unexpected errors are logged and reported as a
// generic internal error.
func (s *Server) errorEnvelope(op string, err error) (string, int32) {
	var (
		ve  *domain.ValidationError
		ise *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &ve):
		return err.Error(), http.StatusBadRequest
	case errors.As(err, &ise),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrInventoryExists),
		errors.Is(err, domain.ErrDispatchNotReady),
		errors.Is(err, domain.ErrAlreadyDispatched):
		return err.Error(), http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAuthMismatch):
		return err.Error(), http.StatusUnauthorized
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrInventoryNotFound),
		errors.Is(err, domain.ErrDispatchNotFound):
		return err.Error(), http.StatusNotFound
	case errors.Is(err, application.ErrDispatchClosed):
		return err.Error(), http.StatusServiceUnavailable
	}
	s.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	return "internal error", http.StatusInternalServerError
}
