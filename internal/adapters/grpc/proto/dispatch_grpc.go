// internal/adapters/grpc/proto/dispatch_grpc.go
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "dronedispatch.DispatchService"

const (
	DispatchService_Signup_FullMethodName            = "/dronedispatch.DispatchService/Signup"
	DispatchService_Login_FullMethodName             = "/dronedispatch.DispatchService/Login"
	DispatchService_Logout_FullMethodName            = "/dronedispatch.DispatchService/Logout"
	DispatchService_Dashboard_FullMethodName         = "/dronedispatch.DispatchService/Dashboard"
	DispatchService_GetStock_FullMethodName          = "/dronedispatch.DispatchService/GetStock"
	DispatchService_PlaceOrder_FullMethodName        = "/dronedispatch.DispatchService/PlaceOrder"
	DispatchService_ListOrders_FullMethodName        = "/dronedispatch.DispatchService/ListOrders"
	DispatchService_GetOrder_FullMethodName          = "/dronedispatch.DispatchService/GetOrder"
	DispatchService_AddInventory_FullMethodName      = "/dronedispatch.DispatchService/AddInventory"
	DispatchService_IncreaseInventory_FullMethodName = "/dronedispatch.DispatchService/IncreaseInventory"
	DispatchService_ListInventory_FullMethodName     = "/dronedispatch.DispatchService/ListInventory"
	DispatchService_StartDispatch_FullMethodName     = "/dronedispatch.DispatchService/StartDispatch"
	DispatchService_DispatchStatus_FullMethodName    = "/dronedispatch.DispatchService/DispatchStatus"
	DispatchService_ConfirmDispatch_FullMethodName   = "/dronedispatch.DispatchService/ConfirmDispatch"
	DispatchService_CancelDispatch_FullMethodName    = "/dronedispatch.DispatchService/CancelDispatch"
	DispatchService_WatchDispatch_FullMethodName     = "/dronedispatch.DispatchService/WatchDispatch"
)

// DispatchServiceClient is the client API for DispatchService. Every call
// is sent with the JSON content-subtype.
type DispatchServiceClient interface {
	Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*SignupResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	Dashboard(ctx context.Context, in *DashboardRequest, opts ...grpc.CallOption) (*DashboardResponse, error)
	GetStock(ctx context.Context, in *GetStockRequest, opts ...grpc.CallOption) (*GetStockResponse, error)
	PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error)
	ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error)
	GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*GetOrderResponse, error)
	AddInventory(ctx context.Context, in *InventoryRequest, opts ...grpc.CallOption) (*InventoryResponse, error)
	IncreaseInventory(ctx context.Context, in *InventoryRequest, opts ...grpc.CallOption) (*InventoryResponse, error)
	ListInventory(ctx context.Context, in *ListInventoryRequest, opts ...grpc.CallOption) (*ListInventoryResponse, error)
	StartDispatch(ctx context.Context, in *StartDispatchRequest, opts ...grpc.CallOption) (*DispatchResponse, error)
	DispatchStatus(ctx context.Context, in *DispatchStatusRequest, opts ...grpc.CallOption) (*DispatchResponse, error)
	ConfirmDispatch(ctx context.Context, in *ConfirmDispatchRequest, opts ...grpc.CallOption) (*DispatchResponse, error)
	CancelDispatch(ctx context.Context, in *CancelDispatchRequest, opts ...grpc.CallOption) (*DispatchResponse, error)
	WatchDispatch(ctx context.Context, in *WatchDispatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[DispatchSession], error)
}

type dispatchServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDispatchServiceClient(cc grpc.ClientConnInterface) DispatchServiceClient {
	return &dispatchServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dispatchServiceClient) Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*SignupResponse, error) {
	return invoke[SignupResponse](ctx, c.cc, DispatchService_Signup_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, DispatchService_Login_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, DispatchService_Logout_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) Dashboard(ctx context.Context, in *DashboardRequest, opts ...grpc.CallOption) (*DashboardResponse, error) {
	return invoke[DashboardResponse](ctx, c.cc, DispatchService_Dashboard_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) GetStock(ctx context.Context, in *GetStockRequest, opts ...grpc.CallOption) (*GetStockResponse, error) {
	return invoke[GetStockResponse](ctx, c.cc, DispatchService_GetStock_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error) {
	return invoke[PlaceOrderResponse](ctx, c.cc, DispatchService_PlaceOrder_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return invoke[ListOrdersResponse](ctx, c.cc, DispatchService_ListOrders_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*GetOrderResponse, error) {
	return invoke[GetOrderResponse](ctx, c.cc, DispatchService_GetOrder_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) AddInventory(ctx context.Context, in *InventoryRequest, opts ...grpc.CallOption) (*InventoryResponse, error) {
	return invoke[InventoryResponse](ctx, c.cc, DispatchService_AddInventory_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) IncreaseInventory(ctx context.Context, in *InventoryRequest, opts ...grpc.CallOption) (*InventoryResponse, error) {
	return invoke[InventoryResponse](ctx, c.cc, DispatchService_IncreaseInventory_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) ListInventory(ctx context.Context, in *ListInventoryRequest, opts ...grpc.CallOption) (*ListInventoryResponse, error) {
	return invoke[ListInventoryResponse](ctx, c.cc, DispatchService_ListInventory_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) StartDispatch(ctx context.Context, in *StartDispatchRequest, opts ...grpc.CallOption) (*DispatchResponse, error) {
	return invoke[DispatchResponse](ctx, c.cc, DispatchService_StartDispatch_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) DispatchStatus(ctx context.Context, in *DispatchStatusRequest, opts ...grpc.CallOption) (*DispatchResponse, error) {
	return invoke[DispatchResponse](ctx, c.cc, DispatchService_DispatchStatus_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) ConfirmDispatch(ctx context.Context, in *ConfirmDispatchRequest, opts ...grpc.CallOption) (*DispatchResponse, error) {
	return invoke[DispatchResponse](ctx, c.cc, DispatchService_ConfirmDispatch_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) CancelDispatch(ctx context.Context, in *CancelDispatchRequest, opts ...grpc.CallOption) (*DispatchResponse, error) {
	return invoke[DispatchResponse](ctx, c.cc, DispatchService_CancelDispatch_FullMethodName, in, opts)
}

func (c *dispatchServiceClient) WatchDispatch(ctx context.Context, in *WatchDispatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[DispatchSession], error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &DispatchService_ServiceDesc.Streams[0], DispatchService_WatchDispatch_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchDispatchRequest, DispatchSession]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// DispatchServiceServer is the server API for DispatchService.
type DispatchServiceServer interface {
	Signup(context.Context, *SignupRequest) (*SignupResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	Dashboard(context.Context, *DashboardRequest) (*DashboardResponse, error)
	GetStock(context.Context, *GetStockRequest) (*GetStockResponse, error)
	PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderResponse, error)
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*GetOrderResponse, error)
	AddInventory(context.Context, *InventoryRequest) (*InventoryResponse, error)
	IncreaseInventory(context.Context, *InventoryRequest) (*InventoryResponse, error)
	ListInventory(context.Context, *ListInventoryRequest) (*ListInventoryResponse, error)
	StartDispatch(context.Context, *StartDispatchRequest) (*DispatchResponse, error)
	DispatchStatus(context.Context, *DispatchStatusRequest) (*DispatchResponse, error)
	ConfirmDispatch(context.Context, *ConfirmDispatchRequest) (*DispatchResponse, error)
	CancelDispatch(context.Context, *CancelDispatchRequest) (*DispatchResponse, error)
	WatchDispatch(*WatchDispatchRequest, grpc.ServerStreamingServer[DispatchSession]) error
	mustEmbedUnimplementedDispatchServiceServer()
}

// UnimplementedDispatchServiceServer must be embedded by implementations.
type UnimplementedDispatchServiceServer struct{}

func (UnimplementedDispatchServiceServer) Signup(context.Context, *SignupRequest) (*SignupResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Signup not implemented")
}
func (UnimplementedDispatchServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedDispatchServiceServer) Logout(context.Context, *LogoutRequest) (*LogoutResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedDispatchServiceServer) Dashboard(context.Context, *DashboardRequest) (*DashboardResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Dashboard not implemented")
}
func (UnimplementedDispatchServiceServer) GetStock(context.Context, *GetStockRequest) (*GetStockResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStock not implemented")
}
func (UnimplementedDispatchServiceServer) PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PlaceOrder not implemented")
}
func (UnimplementedDispatchServiceServer) ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListOrders not implemented")
}
func (UnimplementedDispatchServiceServer) GetOrder(context.Context, *GetOrderRequest) (*GetOrderResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetOrder not implemented")
}
func (UnimplementedDispatchServiceServer) AddInventory(context.Context, *InventoryRequest) (*InventoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddInventory not implemented")
}
func (UnimplementedDispatchServiceServer) IncreaseInventory(context.Context, *InventoryRequest) (*InventoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method IncreaseInventory not implemented")
}
func (UnimplementedDispatchServiceServer) ListInventory(context.Context, *ListInventoryRequest) (*ListInventoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListInventory not implemented")
}
func (UnimplementedDispatchServiceServer) StartDispatch(context.Context, *StartDispatchRequest) (*DispatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method StartDispatch not implemented")
}
func (UnimplementedDispatchServiceServer) DispatchStatus(context.Context, *DispatchStatusRequest) (*DispatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DispatchStatus not implemented")
}
func (UnimplementedDispatchServiceServer) ConfirmDispatch(context.Context, *ConfirmDispatchRequest) (*DispatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ConfirmDispatch not implemented")
}
func (UnimplementedDispatchServiceServer) CancelDispatch(context.Context, *CancelDispatchRequest) (*DispatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CancelDispatch not implemented")
}
func (UnimplementedDispatchServiceServer) WatchDispatch(*WatchDispatchRequest, grpc.ServerStreamingServer[DispatchSession]) error {
	return status.Errorf(codes.Unimplemented, "method WatchDispatch not implemented")
}
func (UnimplementedDispatchServiceServer) mustEmbedUnimplementedDispatchServiceServer() {}

func RegisterDispatchServiceServer(s grpc.ServiceRegistrar, srv DispatchServiceServer) {
	s.RegisterService(&DispatchService_ServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodHandler.
func unary[Req any, Resp any](method string, call func(DispatchServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DispatchServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(DispatchServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _DispatchService_WatchDispatch_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(WatchDispatchRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DispatchServiceServer).WatchDispatch(m, &grpc.GenericServerStream[WatchDispatchRequest, DispatchSession]{ServerStream: stream})
}

var DispatchService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DispatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Signup", Handler: unary(DispatchService_Signup_FullMethodName, DispatchServiceServer.Signup)},
		{MethodName: "Login", Handler: unary(DispatchService_Login_FullMethodName, DispatchServiceServer.Login)},
		{MethodName: "Logout", Handler: unary(DispatchService_Logout_FullMethodName, DispatchServiceServer.Logout)},
		{MethodName: "Dashboard", Handler: unary(DispatchService_Dashboard_FullMethodName, DispatchServiceServer.Dashboard)},
		{MethodName: "GetStock", Handler: unary(DispatchService_GetStock_FullMethodName, DispatchServiceServer.GetStock)},
		{MethodName: "PlaceOrder", Handler: unary(DispatchService_PlaceOrder_FullMethodName, DispatchServiceServer.PlaceOrder)},
		{MethodName: "ListOrders", Handler: unary(DispatchService_ListOrders_FullMethodName, DispatchServiceServer.ListOrders)},
		{MethodName: "GetOrder", Handler: unary(DispatchService_GetOrder_FullMethodName, DispatchServiceServer.GetOrder)},
		{MethodName: "AddInventory", Handler: unary(DispatchService_AddInventory_FullMethodName, DispatchServiceServer.AddInventory)},
		{MethodName: "IncreaseInventory", Handler: unary(DispatchService_IncreaseInventory_FullMethodName, DispatchServiceServer.IncreaseInventory)},
		{MethodName: "ListInventory", Handler: unary(DispatchService_ListInventory_FullMethodName, DispatchServiceServer.ListInventory)},
		{MethodName: "StartDispatch", Handler: unary(DispatchService_StartDispatch_FullMethodName, DispatchServiceServer.StartDispatch)},
		{MethodName: "DispatchStatus", Handler: unary(DispatchService_DispatchStatus_FullMethodName, DispatchServiceServer.DispatchStatus)},
		{MethodName: "ConfirmDispatch", Handler: unary(DispatchService_ConfirmDispatch_FullMethodName, DispatchServiceServer.ConfirmDispatch)},
		{MethodName: "CancelDispatch", Handler: unary(DispatchService_CancelDispatch_FullMethodName, DispatchServiceServer.CancelDispatch)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchDispatch",
			Handler:       _DispatchService_WatchDispatch_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "dronedispatch/dispatch.proto",
}
