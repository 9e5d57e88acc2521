// internal/application/dispatch_service.go
package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
)

const DefaultDispatchDelay = 10 * time.Second

var ErrDispatchClosed = errors.New("dispatch service is shut down")

// DispatchService runs the drone dispatch gate: a session waits out a fixed
// pickup delay, then accepts the owner's password to finalize.
type DispatchService struct {
	users  ports.UserRepositoryPort
	orders ports.OrderRepositoryPort
	delay  time.Duration
	logger *zap.Logger

	mu         sync.Mutex
	sessions   map[string]*dispatchSession
	// byOrder holds the live session of each order; dispatched records
	// orders that already reached Dispatched.
	byOrder    map[string]*dispatchSession
	dispatched map[string]bool
	closed     bool
}

type dispatchSession struct {
	domain.DispatchSession
	passwordHash string
	timer        *time.Timer
	// changed is closed and replaced on every state transition.
	changed chan struct{}
}

func NewDispatchService(users ports.UserRepositoryPort, orders ports.OrderRepositoryPort, delay time.Duration, logger *zap.Logger) *DispatchService {
	if delay < 0 {
		delay = DefaultDispatchDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispatchService{
		users:    users,
		orders:   orders,
		delay:    delay,
		logger:   logger,
		sessions:   make(map[string]*dispatchSession),
		byOrder:    make(map[string]*dispatchSession),
		dispatched: make(map[string]bool),
	}
}

func (s *DispatchService) Delay() time.Duration {
	return s.delay
}

// Start opens a dispatch session for one of the caller's orders and arms
// the pickup timer. An order has at most one live session: starting again
// returns it unchanged. Once the order is dispatched Start fails with
// domain.ErrAlreadyDispatched.
func (s *DispatchService) Start(ctx context.Context, username, orderID string) (*domain.DispatchSession, error) {
	order, err := s.orders.FindOrder(ctx, orderID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "find order", Err: err}
	}
	if order == nil || order.RequestedBy != username {
		return nil, domain.ErrOrderNotFound
	}
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "find user", Err: err}
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	sess := &dispatchSession{
		DispatchSession: domain.DispatchSession{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			Username:  username,
			State:     domain.DispatchIdle,
			CreatedAt: time.Now().UTC(),
		},
		passwordHash: user.PasswordHash,
		changed:      make(chan struct{}),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrDispatchClosed
	}
	if s.dispatched[order.ID] {
		return nil, domain.ErrAlreadyDispatched
	}
	if live, ok := s.byOrder[order.ID]; ok {
		snap := live.DispatchSession
		return &snap, nil
	}
	s.sessions[sess.ID] = sess
	s.byOrder[order.ID] = sess
	s.transition(sess, domain.DispatchPreparing)
	sess.timer = time.AfterFunc(s.delay, func() { s.markReady(sess) })

	s.logger.Info("dispatch preparing",
		zap.String("session_id", sess.ID),
		zap.String("order_id", order.ID),
		zap.String("username", username),
		zap.Duration("delay", s.delay))

	snap := sess.DispatchSession
	return &snap, nil
}

// markReady fires from the pickup timer. The session may have been
// cancelled in the meantime, in which case it does nothing.
func (s *DispatchService) markReady(sess *dispatchSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.sessions[sess.ID]; !ok || cur != sess || sess.State != domain.DispatchPreparing {
		return
	}
	sess.ReadyAt = time.Now().UTC()
	s.transition(sess, domain.DispatchAwaitingConfirmation)
	s.logger.Info("dispatch awaiting confirmation", zap.String("session_id", sess.ID))
}

// Confirm finalizes the dispatch when password matches the owner's login
// password. A mismatch leaves the session waiting and may be retried.
func (s *DispatchService) Confirm(ctx context.Context, username, sessionID, password string) (*domain.DispatchSession, error) {
	s.mu.Lock()
	sess, err := s.lookup(username, sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if sess.State != domain.DispatchAwaitingConfirmation {
		s.mu.Unlock()
		return nil, domain.ErrDispatchNotReady
	}
	hash := sess.passwordHash
	s.mu.Unlock()

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		s.logger.Warn("dispatch confirmation rejected", zap.String("session_id", sessionID))
		return nil, domain.ErrAuthMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.sessions[sessionID]; !ok || cur != sess {
		return nil, domain.ErrDispatchNotFound
	}
	if sess.State != domain.DispatchAwaitingConfirmation {
		return nil, domain.ErrDispatchNotReady
	}
	s.transition(sess, domain.DispatchDispatched)
	delete(s.sessions, sessionID)
	delete(s.byOrder, sess.OrderID)
	s.dispatched[sess.OrderID] = true
	s.logger.Info("order dispatched", zap.String("session_id", sessionID), zap.String("order_id", sess.OrderID))

	snap := sess.DispatchSession
	return &snap, nil
}

func (s *DispatchService) Status(username, sessionID string) (*domain.DispatchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(username, sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.DispatchSession
	return &snap, nil
}

// Cancel tears the session down and stops its timer.
func (s *DispatchService) Cancel(username, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(username, sessionID)
	if err != nil {
		return err
	}
	s.teardown(sess)
	s.logger.Info("dispatch cancelled", zap.String("session_id", sessionID))
	return nil
}

// Watch calls fn with the current state and then with every change until
// the session ends or ctx is done.
func (s *DispatchService) Watch(ctx context.Context, username, sessionID string, fn func(domain.DispatchSession) error) error {
	s.mu.Lock()
	sess, err := s.lookup(username, sessionID)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	for {
		s.mu.Lock()
		snap := sess.DispatchSession
		changed := sess.changed
		s.mu.Unlock()

		if err := fn(snap); err != nil {
			return err
		}
		if snap.State.Terminal() {
			return nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels every open session. Start fails afterwards.
func (s *DispatchService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, sess := range s.sessions {
		s.teardown(sess)
	}
}

func (s *DispatchService) lookup(username, sessionID string) (*dispatchSession, error) {
	sess, ok := s.sessions[sessionID]
	if !ok || sess.Username != username {
		return nil, domain.ErrDispatchNotFound
	}
	return sess, nil
}

func (s *DispatchService) teardown(sess *dispatchSession) {
	if sess.timer != nil {
		sess.timer.Stop()
	}
	s.transition(sess, domain.DispatchCancelled)
	delete(s.sessions, sess.ID)
	if s.byOrder[sess.OrderID] == sess {
		delete(s.byOrder, sess.OrderID)
	}
}

func (s *DispatchService) transition(sess *dispatchSession, state domain.DispatchState) {
	sess.State = state
	close(sess.changed)
	sess.changed = make(chan struct{})
}
