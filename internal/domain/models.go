// internal/domain/models.go
package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// BloodTypes lists the accepted ABO/Rh groups in display order.
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// ParseBloodType normalizes user input and rejects unknown groups.
func ParseBloodType(s string) (string, error) {
	bt := strings.ToUpper(strings.TrimSpace(s))
	if bt == "" {
		return "", &ValidationError{Field: "blood_type", Reason: "is required"}
	}
	for _, known := range BloodTypes {
		if bt == known {
			return bt, nil
		}
	}
	return "", &ValidationError{Field: "blood_type", Reason: "is not a known blood type"}
}

// MaxUnits is the largest count a single record, order or stock total may
// hold; it matches the INT columns and the int32 wire fields.
const MaxUnits = math.MaxInt32

// ParseUnits parses a form field holding a unit count. allowZero admits 0
// for stock entry; orders and top-ups need a positive count.
func ParseUnits(field, s string, allowZero bool) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: field, Reason: "is required"}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "must be a valid number"}
	}
	if n < 0 || (n == 0 && !allowZero) {
		return 0, &ValidationError{Field: field, Reason: "must be a positive integer"}
	}
	if n > MaxUnits {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d", MaxUnits)}
	}
	return n, nil
}

// AdjustedQuantity returns current+delta, or a ValidationError when the
// result leaves the range 0..MaxUnits.
func AdjustedQuantity(current, delta int) (int, error) {
	n := current + delta
	if n < 0 {
		return 0, &ValidationError{Field: "quantity", Reason: "would drop below zero"}
	}
	if n > MaxUnits {
		return 0, &ValidationError{Field: "quantity", Reason: fmt.Sprintf("would exceed %d units", MaxUnits)}
	}
	return n, nil
}

// InventoryKey addresses exactly one stock record.
type InventoryKey struct {
	BloodType string
	Location  string
}

type InventoryRecord struct {
	ID            int64
	BloodType     string
	QuantityUnits int
	Location      string
	UpdatedAt     time.Time
}

func (r *InventoryRecord) Key() InventoryKey {
	return InventoryKey{BloodType: r.BloodType, Location: r.Location}
}

// InventoryForm is the admin screen's raw input.
type InventoryForm struct {
	BloodType string
	Quantity  string
	Location  string
}

type DeliveryRequest struct {
	ID              string
	PatientName     string
	BloodType       string
	UnitsRequested  int
	DeliveryAddress string
	RequestedBy     string
	CreatedAt       time.Time
}

// OrderForm is the order screen's raw input.
type OrderForm struct {
	PatientName     string
	BloodType       string
	Units           string
	DeliveryAddress string
}

type OrderState string

const (
	OrderCollecting    OrderState = "Collecting"
	OrderValidating    OrderState = "Validating"
	OrderCheckingStock OrderState = "CheckingStock"
	OrderRecording     OrderState = "Recording"
	OrderConfirmed     OrderState = "Confirmed"
)

type OrderSummary struct {
	Request *DeliveryRequest
	State   OrderState
}

type DispatchState string

const (
	DispatchIdle                 DispatchState = "Idle"
	DispatchPreparing            DispatchState = "Preparing"
	DispatchAwaitingConfirmation DispatchState = "AwaitingPasswordConfirmation"
	DispatchDispatched           DispatchState = "Dispatched"
	DispatchCancelled            DispatchState = "Cancelled"
)

func (s DispatchState) Terminal() bool {
	return s == DispatchDispatched || s == DispatchCancelled
}

type DispatchSession struct {
	ID        string
	OrderID   string
	Username  string
	State     DispatchState
	CreatedAt time.Time
	ReadyAt   time.Time
}
