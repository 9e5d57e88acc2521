// internal/screens/dispatch.go
package screens

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	pb "github.com/mahabubulhasibshawon/drone-dispatch.git/internal/adapters/grpc/proto"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
)

var errDispatchCancelled = errors.New("dispatch cancelled")

// dispatchScreen starts the pickup timer for orderID, waits for the gate to
// open, then asks for the login password until it matches.
func (f *Flow) dispatchScreen(ctx context.Context, orderID string) error {
	f.println("")
	f.println("=== Drone Dispatch ===")
	start, err := f.client.StartDispatch(f.authed(ctx), &pb.StartDispatchRequest{OrderId: orderID})
	if err != nil {
		return err
	}
	if start.Code != 200 {
		f.println("❌ " + start.Message)
		return nil
	}
	sessionID := start.Data.Id
	f.println("🚁 Drone is picking up supplies...")

	if err := f.waitForPickup(ctx, sessionID); err != nil {
		if errors.Is(err, errDispatchCancelled) {
			f.println("❌ Dispatch was cancelled.")
			return nil
		}
		return err
	}

	f.println("🔐 Enter your password to confirm dispatch:")
	for {
		password, err := f.promptPassword("Password: ")
		if err != nil {
			f.cancelDispatch(ctx, sessionID)
			return err
		}
		resp, err := f.client.ConfirmDispatch(f.authed(ctx), &pb.ConfirmDispatchRequest{SessionId: sessionID, Password: password})
		if err != nil {
			return err
		}
		switch resp.Code {
		case 200:
			f.println("✅ Order dispatched successfully!")
			return nil
		case 401:
			f.println("❌ Incorrect password. Try again.")
		default:
			f.println("❌ " + resp.Message)
			return nil
		}
	}
}

// waitForPickup follows the session stream until confirmation opens.
func (f *Flow) waitForPickup(ctx context.Context, sessionID string) error {
	watchCtx, cancel := context.WithCancel(f.authed(ctx))
	defer cancel()

	stream, err := f.client.WatchDispatch(watchCtx, &pb.WatchDispatchRequest{SessionId: sessionID})
	if err != nil {
		return err
	}
	for {
		sess, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return errDispatchCancelled
		}
		if err != nil {
			return err
		}
		switch domain.DispatchState(sess.State) {
		case domain.DispatchAwaitingConfirmation:
			return nil
		case domain.DispatchCancelled, domain.DispatchDispatched:
			return errDispatchCancelled
		}
	}
}

func (f *Flow) cancelDispatch(ctx context.Context, sessionID string) {
	if _, err := f.client.CancelDispatch(f.authed(ctx), &pb.CancelDispatchRequest{SessionId: sessionID}); err != nil {
		f.logger.Warn("failed to cancel dispatch", zap.String("session_id", sessionID), zap.Error(err))
	}
}
