// internal/screens/flow.go

// Package screens drives the terminal client: login, admin stock manager,
// dashboard, order form, confirmation and dispatch, each backed by the
// DispatchService RPCs.
package screens

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	pb "github.com/mahabubulhasibshawon/drone-dispatch.git/internal/adapters/grpc/proto"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
)

var errQuit = errors.New("quit")

// PasswordReader reads one password without echoing it.
type PasswordReader func() (string, error)

type Flow struct {
	client       pb.DispatchServiceClient
	in           *bufio.Scanner
	out          io.Writer
	readPassword PasswordReader
	logger       *zap.Logger

	token    string
	username string
	role     string
}

type Option func(*Flow)

// WithPasswordReader replaces the default, which reads a visible line from
// the same input as every other prompt, untrimmed.
func WithPasswordReader(fn PasswordReader) Option {
	return func(f *Flow) { f.readPassword = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(f *Flow) { f.logger = logger }
}

func NewFlow(client pb.DispatchServiceClient, in io.Reader, out io.Writer, opts ...Option) *Flow {
	f := &Flow{
		client: client,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: zap.NewNop(),
	}
	f.readPassword = f.readRawLine
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run walks the screens until the user quits or input ends.
func (f *Flow) Run(ctx context.Context) error {
	for {
		err := f.loginScreen(ctx)
		if err == nil {
			if f.role == string(domain.RoleAdmin) {
				err = f.adminScreen(ctx)
			} else {
				err = f.dashboardScreen(ctx)
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			return nil
		case status.Code(err) == codes.Unauthenticated:
			f.println("❌ Session expired, please log in again.")
			f.token = ""
		default:
			f.logger.Error("client stopped", zap.Error(err))
			return err
		}
	}
}

func (f *Flow) loginScreen(ctx context.Context) error {
	for {
		f.println("")
		f.println("=== Drone System Login ===")
		username, err := f.prompt("Username ('s' to sign up, 'q' to quit): ")
		if err != nil {
			return err
		}
		switch username {
		case "q":
			return errQuit
		case "s":
			if err := f.signupScreen(ctx); err != nil {
				return err
			}
			continue
		}
		password, err := f.promptPassword("Password: ")
		if err != nil {
			return err
		}
		resp, err := f.client.Login(ctx, &pb.LoginRequest{Username: username, Password: password})
		if err != nil {
			return err
		}
		if resp.Code != 200 {
			f.println("❌ " + resp.Message)
			continue
		}
		f.token = resp.AccessToken
		f.username = username
		f.role = resp.Role
		f.println("✅ Login successful!")
		return nil
	}
}

func (f *Flow) signupScreen(ctx context.Context) error {
	f.println("")
	f.println("=== Create New Account ===")
	username, err := f.prompt("New Username: ")
	if err != nil {
		return err
	}
	password, err := f.promptPassword("New Password: ")
	if err != nil {
		return err
	}
	resp, err := f.client.Signup(ctx, &pb.SignupRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	if resp.Code != 200 {
		f.println("❌ Error: " + resp.Message)
		return nil
	}
	f.println("✅ Account created successfully!")
	return nil
}

func (f *Flow) adminScreen(ctx context.Context) error {
	for {
		f.println("")
		f.println("=== Admin Resource Manager ===")
		f.println("1) Add resource")
		f.println("2) Update quantity")
		f.println("3) List inventory")
		f.println("4) Logout")
		choice, err := f.prompt("> ")
		if err != nil {
			return err
		}
		switch choice {
		case "1", "2":
			form, err := f.inventoryForm()
			if err != nil {
				return err
			}
			var resp *pb.InventoryResponse
			if choice == "1" {
				resp, err = f.client.AddInventory(f.authed(ctx), form)
			} else {
				resp, err = f.client.IncreaseInventory(f.authed(ctx), form)
			}
			if err != nil {
				return err
			}
			if resp.Code != 200 {
				f.println("❌ " + resp.Message)
				continue
			}
			if choice == "1" {
				f.println("✅ Resource added successfully!")
			} else {
				f.println("✅ Quantity updated successfully!")
			}
		case "3":
			resp, err := f.client.ListInventory(f.authed(ctx), &pb.ListInventoryRequest{})
			if err != nil {
				return err
			}
			f.printInventory(resp.Lines)
		case "4":
			return f.logout(ctx)
		default:
			f.println("❌ Unknown option.")
		}
	}
}

func (f *Flow) inventoryForm() (*pb.InventoryRequest, error) {
	bloodType, err := f.prompt("Blood Type: ")
	if err != nil {
		return nil, err
	}
	quantity, err := f.prompt("Quantity Units: ")
	if err != nil {
		return nil, err
	}
	location, err := f.prompt("Location: ")
	if err != nil {
		return nil, err
	}
	return &pb.InventoryRequest{BloodType: bloodType, Quantity: quantity, Location: location}, nil
}

func (f *Flow) dashboardScreen(ctx context.Context) error {
	for {
		resp, err := f.client.Dashboard(f.authed(ctx), &pb.DashboardRequest{})
		if err != nil {
			return err
		}
		f.println("")
		f.println("=== Dashboard ===")
		if resp.Code != 200 {
			f.println("❌ " + resp.Message)
		} else {
			f.println(resp.Welcome)
			f.printInventory(resp.Inventory)
		}
		f.println("1) Place order")
		f.println("2) Order history")
		f.println("3) Logout")
		choice, err := f.prompt("> ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			if err := f.orderScreen(ctx); err != nil {
				return err
			}
		case "2":
			if err := f.historyScreen(ctx); err != nil {
				return err
			}
		case "3":
			return f.logout(ctx)
		default:
			f.println("❌ Unknown option.")
		}
	}
}

func (f *Flow) orderScreen(ctx context.Context) error {
	f.println("")
	f.println("=== Place Your Blood Order ===")
	name, err := f.prompt("Patient Name: ")
	if err != nil {
		return err
	}
	bloodType, err := f.prompt(fmt.Sprintf("Blood Type (%s): ", strings.Join(domain.BloodTypes, " ")))
	if err != nil {
		return err
	}
	if stock, err := f.client.GetStock(f.authed(ctx), &pb.GetStockRequest{BloodType: bloodType}); err == nil && stock.Code == 200 {
		f.println("  " + stock.Message)
	}
	units, err := f.prompt("Units Required: ")
	if err != nil {
		return err
	}
	address, err := f.prompt("Delivery Address: ")
	if err != nil {
		return err
	}

	resp, err := f.client.PlaceOrder(f.authed(ctx), &pb.PlaceOrderRequest{
		PatientName:     name,
		BloodType:       bloodType,
		Units:           units,
		DeliveryAddress: address,
	})
	if err != nil {
		return err
	}
	if resp.Code != 200 {
		f.println("❌ " + resp.Message)
		return nil
	}
	return f.confirmationScreen(ctx, resp.Data)
}

func (f *Flow) confirmationScreen(ctx context.Context, order *pb.Order) error {
	f.println("")
	f.println("=== Order Placed Successfully! ===")
	f.println("Patient: " + order.PatientName)
	f.println("Blood Type: " + order.BloodType)
	f.println(fmt.Sprintf("Units: %d", order.UnitsRequested))
	f.println("Address: " + order.DeliveryAddress)
	answer, err := f.prompt("Proceed to dispatch? [Y/n]: ")
	if err != nil {
		return err
	}
	if strings.EqualFold(answer, "n") {
		return nil
	}
	return f.dispatchScreen(ctx, order.Id)
}

func (f *Flow) historyScreen(ctx context.Context) error {
	resp, err := f.client.ListOrders(f.authed(ctx), &pb.ListOrdersRequest{Limit: 10, Page: 1})
	if err != nil {
		return err
	}
	f.println("")
	f.println("=== Order History ===")
	if resp.Code != 200 {
		f.println("❌ " + resp.Message)
		return nil
	}
	if resp.Data == nil || len(resp.Data.Orders) == 0 {
		f.println("No orders yet.")
		return nil
	}
	for _, o := range resp.Data.Orders {
		f.println(fmt.Sprintf("%s  %-3s x%-3d %s -> %s", o.CreatedAt, o.BloodType, o.UnitsRequested, o.PatientName, o.DeliveryAddress))
	}
	return nil
}

func (f *Flow) logout(ctx context.Context) error {
	resp, err := f.client.Logout(f.authed(ctx), &pb.LogoutRequest{})
	f.token, f.username, f.role = "", "", ""
	if err != nil {
		return err
	}
	f.println(resp.Message)
	return nil
}

func (f *Flow) printInventory(lines []string) {
	if len(lines) == 0 {
		f.println("No inventory items found.")
		return
	}
	for _, l := range lines {
		f.println("  " + l)
	}
}

func (f *Flow) authed(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+f.token)
}

func (f *Flow) prompt(label string) (string, error) {
	fmt.Fprint(f.out, label)
	return f.readLine()
}

func (f *Flow) promptPassword(label string) (string, error) {
	fmt.Fprint(f.out, label)
	pw, err := f.readPassword()
	if err != nil {
		return "", err
	}
	return pw, nil
}

func (f *Flow) readLine() (string, error) {
	line, err := f.readRawLine()
	return strings.TrimSpace(line), err
}

// readRawLine keeps surrounding spaces, so passwords read the same as
// through term.ReadPassword.
func (f *Flow) readRawLine() (string, error) {
	if !f.in.Scan() {
		if err := f.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSuffix(f.in.Text(), "\r"), nil
}

func (f *Flow) println(s string) {
	fmt.Fprintln(f.out, s)
}
