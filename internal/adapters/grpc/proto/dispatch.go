// internal/adapters/grpc/proto/dispatch.go

// Package proto holds the wire messages and service descriptor of
// dronedispatch.DispatchService. Messages travel as JSON (see codec.go).
package proto

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupResponse struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int32  `json:"code"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	Role        string `json:"role,omitempty"`
	Message     string `json:"message"`
	Type        string `json:"type"`
	Code        int32  `json:"code"`
}

type LogoutRequest struct{}

type LogoutResponse struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int32  `json:"code"`
}

type DashboardRequest struct{}

type DashboardResponse struct {
	Welcome   string   `json:"welcome,omitempty"`
	Inventory []string `json:"inventory,omitempty"`
	Message   string   `json:"message"`
	Type      string   `json:"type"`
	Code      int32    `json:"code"`
}

type GetStockRequest struct {
	BloodType string `json:"blood_type"`
}

type GetStockResponse struct {
	BloodType string `json:"blood_type,omitempty"`
	Available int32  `json:"available"`
	Known     bool   `json:"known"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int32  `json:"code"`
}

// PlaceOrderRequest carries the order form as typed; units is parsed
// server side so a non-numeric entry gets the same validation message.
type PlaceOrderRequest struct {
	PatientName     string `json:"patient_name"`
	BloodType       string `json:"blood_type"`
	Units           string `json:"units"`
	DeliveryAddress string `json:"delivery_address"`
}

type PlaceOrderResponse struct {
	Data    *Order `json:"data,omitempty"`
	State   string `json:"state,omitempty"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int32  `json:"code"`
}

type Order struct {
	Id              string `json:"id"`
	PatientName     string `json:"patient_name"`
	BloodType       string `json:"blood_type"`
	UnitsRequested  int32  `json:"units_requested"`
	DeliveryAddress string `json:"delivery_address"`
	RequestedBy     string `json:"requested_by"`
	CreatedAt       string `json:"created_at"`
}

type ListOrdersRequest struct {
	Limit int64 `json:"limit"`
	Page  int64 `json:"page"`
}

type ListOrdersResponse struct {
	Data    *OrdersData `json:"data,omitempty"`
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Code    int32       `json:"code"`
}

type OrdersData struct {
	Orders      []*Order `json:"orders"`
	Total       int64    `json:"total"`
	CurrentPage int64    `json:"current_page"`
	PerPage     int64    `json:"per_page"`
	TotalInPage int64    `json:"total_in_page"`
	LastPage    int64    `json:"last_page"`
}

type GetOrderRequest struct {
	Id string `json:"id"`
}

type GetOrderResponse struct {
	Data    *Order `json:"data,omitempty"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int32  `json:"code"`
}

// InventoryRequest is the admin stock form, shared by AddInventory and
// IncreaseInventory.
type InventoryRequest struct {
	BloodType string `json:"blood_type"`
	Quantity  string `json:"quantity"`
	Location  string `json:"location"`
}

type InventoryResponse struct {
	Data    *InventoryRecord `json:"data,omitempty"`
	Message string           `json:"message"`
	Type    string           `json:"type"`
	Code    int32            `json:"code"`
}

type InventoryRecord struct {
	Id            int64  `json:"id"`
	BloodType     string `json:"blood_type"`
	QuantityUnits int32  `json:"quantity_units"`
	Location      string `json:"location"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

type ListInventoryRequest struct{}

type ListInventoryResponse struct {
	Records []*InventoryRecord `json:"records,omitempty"`
	Lines   []string           `json:"lines,omitempty"`
	Message string             `json:"message"`
	Type    string             `json:"type"`
	Code    int32              `json:"code"`
}

type StartDispatchRequest struct {
	OrderId string `json:"order_id"`
}

type DispatchStatusRequest struct {
	SessionId string `json:"session_id"`
}

type ConfirmDispatchRequest struct {
	SessionId string `json:"session_id"`
	Password  string `json:"password"`
}

type CancelDispatchRequest struct {
	SessionId string `json:"session_id"`
}

type WatchDispatchRequest struct {
	SessionId string `json:"session_id"`
}

type DispatchSession struct {
	Id        string `json:"id"`
	OrderId   string `json:"order_id"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at,omitempty"`
	ReadyAt   string `json:"ready_at,omitempty"`
	// DelayMs is the configured pickup delay.
	DelayMs int64 `json:"delay_ms,omitempty"`
}

type DispatchResponse struct {
	Data    *DispatchSession `json:"data,omitempty"`
	Message string           `json:"message"`
	Type    string           `json:"type"`
	Code    int32            `json:"code"`
}
