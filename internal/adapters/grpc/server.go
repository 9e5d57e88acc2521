// internal/adapters/grpc/server.go
package grpc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	pb "github.com/mahabubulhasibshawon/drone-dispatch.git/internal/adapters/grpc/proto"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/application"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/pkg/auth"
)

type Options struct {
	DispatchDelay time.Duration
	Logger        *zap.Logger
	// HashCost overrides the bcrypt cost when non-zero.
	HashCost int
}

type Server struct {
	pb.UnimplementedDispatchServiceServer
	authService      *application.AuthService
	inventoryService *application.InventoryService
	orderService     *application.OrderService
	dispatchService  *application.DispatchService
	tokens           *auth.TokenManager
	logger           *zap.Logger
}

func NewServer(repo ports.RepositoryPort, cache ports.CachePort, tokens *auth.TokenManager, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	authService := application.NewAuthService(repo, cache, tokens)
	if opts.HashCost != 0 {
		authService.WithHashCost(opts.HashCost)
	}
	return &Server{
		authService:      authService,
		inventoryService: application.NewInventoryService(repo, cache),
		orderService:     application.NewOrderService(repo, cache),
		dispatchService:  application.NewDispatchService(repo, repo, opts.DispatchDelay, logger),
		tokens:           tokens,
		logger:           logger,
	}
}

// Auth exposes the auth service for admin seeding at startup.
func (s *Server) Auth() *application.AuthService {
	return s.authService
}

// Register installs the dispatch service and a health service on gs.
func (s *Server) Register(gs *grpc.Server) *health.Server {
	pb.RegisterDispatchServiceServer(gs, s)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return healthServer
}

// Close cancels pending dispatch sessions.
func (s *Server) Close() {
	s.dispatchService.Close()
}

func (s *Server) Signup(ctx context.Context, req *pb.SignupRequest) (*pb.SignupResponse, error) {
	_, err := s.authService.Signup(ctx, req.Username, req.Password)
	if err != nil {
		msg, code := s.errorEnvelope("signup", err)
		return &pb.SignupResponse{Message: msg, Type: "error", Code: code}, nil
	}
	return &pb.SignupResponse{
		Message: "User registered successfully",
		Type:    "success",
		Code:    200,
	}, nil
}

func (s *Server) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	token, user, err := s.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		msg, code := s.errorEnvelope("login", err)
		return &pb.LoginResponse{Message: msg, Type: "error", Code: code}, nil
	}
	return &pb.LoginResponse{
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		AccessToken: token,
		Role:        string(user.Role),
		Message:     "Logged in",
		Type:        "success",
		Code:        200,
	}, nil
}

func (s *Server) Logout(ctx context.Context, req *pb.LogoutRequest) (*pb.LogoutResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.authService.Logout(ctx, claims); err != nil {
		msg, code := s.errorEnvelope("logout", err)
		return &pb.LogoutResponse{Message: msg, Type: "error", Code: code}, nil
	}
	return &pb.LogoutResponse{Message: "Successfully logged out", Type: "success", Code: 200}, nil
}

func (s *Server) Dashboard(ctx context.Context, req *pb.DashboardRequest) (*pb.DashboardResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var lines []string
	for line, err := range s.inventoryService.ListAll(ctx) {
		if err != nil {
			msg, code := s.errorEnvelope("dashboard", err)
			return &pb.DashboardResponse{Message: msg, Type: "error", Code: code}, nil
		}
		lines = append(lines, line)
	}
	return &pb.DashboardResponse{
		Welcome:   fmt.Sprintf("Welcome, %s!", claims.Username),
		Inventory: lines,
		Message:   "Inventory fetched",
		Type:      "success",
		Code:      200,
	}, nil
}

func (s *Server) GetStock(ctx context.Context, req *pb.GetStockRequest) (*pb.GetStockResponse, error) {
	qty, known, err := s.inventoryService.GetAvailable(ctx, req.BloodType)
	if err != nil {
		msg, code := s.errorEnvelope("get stock", err)
		return &pb.GetStockResponse{Message: msg, Type: "error", Code: code}, nil
	}
	bt, _ := domain.ParseBloodType(req.BloodType)
	msg := fmt.Sprintf("%d units of %s available", qty, bt)
	if !known {
		msg = fmt.Sprintf("no %s stock on record", bt)
	}
	return &pb.GetStockResponse{
		BloodType: bt,
		Available: wireUnits(qty),
		Known:     known,
		Message:   msg,
		Type:      "success",
		Code:      200,
	}, nil
}

func (s *Server) PlaceOrder(ctx context.Context, req *pb.PlaceOrderRequest) (*pb.PlaceOrderResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.orderService.SubmitOrder(ctx, claims.Username, domain.OrderForm{
		PatientName:     req.PatientName,
		BloodType:       req.BloodType,
		Units:           req.Units,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		msg, code := s.errorEnvelope("place order", err)
		return &pb.PlaceOrderResponse{Message: msg, Type: "error", Code: code}, nil
	}
	s.logger.Info("order placed",
		zap.String("order_id", summary.Request.ID),
		zap.String("blood_type", summary.Request.BloodType),
		zap.Int("units", summary.Request.UnitsRequested),
		zap.String("username", claims.Username))
	return &pb.PlaceOrderResponse{
		Data:    toPbOrder(summary.Request),
		State:   string(summary.State),
		Message: "Order placed successfully",
		Type:    "success",
		Code:    200,
	}, nil
}

func (s *Server) ListOrders(ctx context.Context, req *pb.ListOrdersRequest) (*pb.ListOrdersResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	limit, page := req.Limit, req.Page
	if limit < 1 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}

	orders, total, err := s.orderService.ListOrders(ctx, claims.Username, limit, page)
	if err != nil {
		msg, code := s.errorEnvelope("list orders", err)
		return &pb.ListOrdersResponse{Message: msg, Type: "error", Code: code}, nil
	}

	pbOrders := make([]*pb.Order, 0, len(orders))
	for _, o := range orders {
		pbOrders = append(pbOrders, toPbOrder(o))
	}

	lastPage := int64(math.Ceil(float64(total) / float64(limit)))
	return &pb.ListOrdersResponse{
		Message: "Orders successfully fetched.",
		Type:    "success",
		Code:    200,
		Data: &pb.OrdersData{
			Orders:      pbOrders,
			Total:       total,
			CurrentPage: page,
			PerPage:     limit,
			TotalInPage: int64(len(orders)),
			LastPage:    lastPage,
		},
	}, nil
}

func (s *Server) GetOrder(ctx context.Context, req *pb.GetOrderRequest) (*pb.GetOrderResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.orderService.GetOrder(ctx, claims.Username, req.Id)
	if err != nil {
		msg, code := s.errorEnvelope("get order", err)
		return &pb.GetOrderResponse{Message: msg, Type: "error", Code: code}, nil
	}
	return &pb.GetOrderResponse{Data: toPbOrder(order), Message: "Order fetched", Type: "success", Code: 200}, nil
}

func (s *Server) AddInventory(ctx context.Context, req *pb.InventoryRequest) (*pb.InventoryResponse, error) {
	rec, err := s.inventoryService.AddInventory(ctx, inventoryForm(req))
	if err != nil {
		msg, code := s.errorEnvelope("add inventory", err)
		return &pb.InventoryResponse{Message: msg, Type: "error", Code: code}, nil
	}
	return &pb.InventoryResponse{Data: toPbRecord(rec), Message: "Inventory added", Type: "success", Code: 200}, nil
}

func (s *Server) IncreaseInventory(ctx context.Context, req *pb.InventoryRequest) (*pb.InventoryResponse, error) {
	rec, err := s.inventoryService.IncreaseInventory(ctx, inventoryForm(req))
	if err != nil {
		msg, code := s.errorEnvelope("increase inventory", err)
		return &pb.InventoryResponse{Message: msg, Type: "error", Code: code}, nil
	}
	return &pb.InventoryResponse{Data: toPbRecord(rec), Message: "Inventory updated", Type: "success", Code: 200}, nil
}

func (s *Server) ListInventory(ctx context.Context, req *pb.ListInventoryRequest) (*pb.ListInventoryResponse, error) {
	records, err := s.inventoryService.Inventory(ctx)
	if err != nil {
		msg, code := s.errorEnvelope("list inventory", err)
		return &pb.ListInventoryResponse{Message: msg, Type: "error", Code: code}, nil
	}
	resp := &pb.ListInventoryResponse{Message: "Inventory fetched", Type: "success", Code: 200}
	for _, r := range records {
		resp.Records = append(resp.Records, toPbRecord(r))
		resp.Lines = append(resp.Lines, application.FormatInventoryLine(r))
	}
	return resp, nil
}

func (s *Server) StartDispatch(ctx context.Context, req *pb.StartDispatchRequest) (*pb.DispatchResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := s.dispatchService.Start(ctx, claims.Username, req.OrderId)
	if err != nil {
		msg, code := s.errorEnvelope("start dispatch", err)
		return &pb.DispatchResponse{Message: msg, Type: "error", Code: code}, nil
	}
	return &pb.DispatchResponse{Data: s.toPbSession(sess), Message: "Drone is picking up supplies", Type: "success", Code: 200}, nil
}

func (s *Server) DispatchStatus(ctx context.Context, req *pb.DispatchStatusRequest) (*pb.DispatchResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := s.dispatchService.Status(claims.Username, req.SessionId)
	if err != nil {
		msg, code := s.errorEnvelope("dispatch status", err)
		return &pb.DispatchResponse{Message: msg, Type: "error", Code: code}, nil
	}
	return &pb.DispatchResponse{Data: s.toPbSession(sess), Message: string(sess.State), Type: "success", Code: 200}, nil
}

func (s *Server) ConfirmDispatch(ctx context.Context, req *pb.ConfirmDispatchRequest) (*pb.DispatchResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := s.dispatchService.Confirm(ctx, claims.Username, req.SessionId, req.Password)
	if err != nil {
		msg, code := s.errorEnvelope("confirm dispatch", err)
		return &pb.DispatchResponse{Message: msg, Type: "error", Code: code}, nil
	}
	return &pb.DispatchResponse{Data: s.toPbSession(sess), Message: "Drone dispatched successfully!", Type: "success", Code: 200}, nil
}

func (s *Server) CancelDispatch(ctx context.Context, req *pb.CancelDispatchRequest) (*pb.DispatchResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.dispatchService.Cancel(claims.Username, req.SessionId); err != nil {
		msg, code := s.errorEnvelope("cancel dispatch", err)
		return &pb.DispatchResponse{Message: msg, Type: "error", Code: code}, nil
	}
	return &pb.DispatchResponse{
		Data:    &pb.DispatchSession{Id: req.SessionId, State: string(domain.DispatchCancelled)},
		Message: "Dispatch cancelled",
		Type:    "success",
		Code:    200,
	}, nil
}

func (s *Server) WatchDispatch(req *pb.WatchDispatchRequest, stream grpc.ServerStreamingServer[pb.DispatchSession]) error {
	ctx := stream.Context()
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return err
	}
	err = s.dispatchService.Watch(ctx, claims.Username, req.SessionId, func(sess domain.DispatchSession) error {
		return stream.Send(s.toPbSession(&sess))
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDispatchNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	}
	return err
}

func inventoryForm(req *pb.InventoryRequest) domain.InventoryForm {
	return domain.InventoryForm{BloodType: req.BloodType, Quantity: req.Quantity, Location: req.Location}
}

// wireUnits narrows a unit count to the int32 wire field. Single records
// are bounded by domain.MaxUnits, but a stock total across locations can
// exceed it and is reported as the maximum.
func wireUnits(n int) int32 {
	switch {
	case n > domain.MaxUnits:
		return domain.MaxUnits
	case n < 0:
		return 0
	}
	return int32(n)
}

func toPbOrder(o *domain.DeliveryRequest) *pb.Order {
	return &pb.Order{
		Id:              o.ID,
		PatientName:     o.PatientName,
		BloodType:       o.BloodType,
		UnitsRequested:  wireUnits(o.UnitsRequested),
		DeliveryAddress: o.DeliveryAddress,
		RequestedBy:     o.RequestedBy,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}

func toPbRecord(r *domain.InventoryRecord) *pb.InventoryRecord {
	rec := &pb.InventoryRecord{
		Id:            r.ID,
		BloodType:     r.BloodType,
		QuantityUnits: wireUnits(r.QuantityUnits),
		Location:      r.Location,
	}
	if !r.UpdatedAt.IsZero() {
		rec.UpdatedAt = r.UpdatedAt.Format(time.RFC3339)
	}
	return rec
}

func (s *Server) toPbSession(sess *domain.DispatchSession) *pb.DispatchSession {
	out := &pb.DispatchSession{
		Id:        sess.ID,
		OrderId:   sess.OrderID,
		State:     string(sess.State),
		CreatedAt: sess.CreatedAt.Format(time.RFC3339),
		DelayMs:   s.dispatchService.Delay().Milliseconds(),
	}
	if !sess.ReadyAt.IsZero() {
		out.ReadyAt = sess.ReadyAt.Format(time.RFC3339)
	}
	return out
}
