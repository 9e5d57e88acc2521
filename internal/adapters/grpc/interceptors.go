// internal/adapters/grpc/interceptors.go
package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	pb "github.com/mahabubulhasibshawon/drone-dispatch.git/internal/adapters/grpc/proto"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/pkg/auth"
)

type claimsKey struct{}

var publicMethods = map[string]bool{
	pb.DispatchService_Signup_FullMethodName: true,
	pb.DispatchService_Login_FullMethodName:  true,
}

var adminMethods = map[string]bool{
	pb.DispatchService_AddInventory_FullMethodName:      true,
	pb.DispatchService_IncreaseInventory_FullMethodName: true,
	pb.DispatchService_ListInventory_FullMethodName:     true,
}

var healthPrefix = "/" + healthpb.Health_ServiceDesc.ServiceName + "/"

func skipAuth(method string) bool {
	return publicMethods[method] || strings.HasPrefix(method, healthPrefix)
}

// UnaryAuthInterceptor validates the bearer token and stores its claims in
// the request context. Admin RPCs also require the admin role.
func (s *Server) UnaryAuthInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if skipAuth(info.FullMethod) {
		return handler(ctx, req)
	}
	ctx, err := s.authorize(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

func (s *Server) StreamAuthInterceptor(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	if skipAuth(info.FullMethod) {
		return handler(srv, ss)
	}
	ctx, err := s.authorize(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &authedStream{ServerStream: ss, ctx: ctx})
}

func (s *Server) authorize(ctx context.Context, method string) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}
	authHeader := md.Get("authorization")
	if len(authHeader) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization")
	}
	token := strings.TrimPrefix(authHeader[0], "Bearer ")
	claims, err := s.authService.Authenticate(ctx, token)
	if err != nil {
		var pe *domain.PersistenceError
		if errors.As(err, &pe) {
			s.logger.Error("token check failed", zap.Error(err))
			return nil, status.Error(codes.Unavailable, "internal error")
		}
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	if adminMethods[method] && !claims.IsAdmin() {
		return nil, status.Error(codes.PermissionDenied, "admin role required")
	}
	return context.WithValue(ctx, claimsKey{}, claims), nil
}

type authedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *authedStream) Context() context.Context {
	return w.ctx
}

func claimsFromContext(ctx context.Context) (*auth.Claims, error) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	if !ok || claims == nil {
		return nil, status.Error(codes.Unauthenticated, "Unauthorized")
	}
	return claims, nil
}

// UnaryLoggingInterceptor logs one line per call with method, code and
// duration.
func UnaryLoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("rpc",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)))
		return resp, err
	}
}

func StreamLoggingInterceptor(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logger.Info("stream",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)))
		return err
	}
}
