/*
Package checkout creates payment sessions for validated orders.

PURPOSE:
  Bridges the order-window engine to the external collaborators: the
  payment gateway (opaque: cart total in, redirect URL and later a
  paid/unpaid status out) and the notification channel to the kitchen.
  Neither collaborator carries business logic; they are I/O adapters
  behind small interfaces.

AUTHORITY:
  CreateSession is the server-side authority on pickup legality. The
  UI's slot list is advisory; a stale client cannot reach the gateway
  with a pickup outside the legal window, because the order-window
  validator runs here first.

SEE ALSO:
  - schedule/validate.go: the pickup policy
  - api/handlers.go: the HTTP surface calling into this service
*/
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bistro/storefront/rulestore"
	"github.com/bistro/storefront/schedule"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Gateway is the opaque payment provider: it takes an order and returns
// a redirect URL; the paid/unpaid status arrives later through the
// provider's callback.
type Gateway interface {
	CreateSession(ctx context.Context, order Order) (redirectURL string, err error)
}

// Notifier tells the kitchen (and optionally the customer) about a paid
// order. Delivery failures are logged, never surfaced to the customer:
// the order is already paid.
type Notifier interface {
	OrderPaid(ctx context.Context, order Order) error
}

// =============================================================================
// ORDER MODEL
// =============================================================================

type Item struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

type Order struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Items      []Item    `json:"items"`
	TotalCents int64     `json:"total_cents"`
	PickupAt   time.Time `json:"pickup_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Session is what the storefront hands back to the browser.
type Session struct {
	OrderID     string    `json:"order_id"`
	RedirectURL string    `json:"redirect_url"`
	PickupAt    time.Time `json:"pickup_at"`
}

// SessionRequest is a cart ready to pay.
type SessionRequest struct {
	Email      string
	Items      []Item
	TotalCents int64
	Pickup     string // "ASAP", "<N>min", or explicit date+time
}

var ErrOrderNotFound = errors.New("order not found")

// =============================================================================
// SERVICE
// =============================================================================

// Service validates the pickup window and drives the gateway.
type Service struct {
	rules     *rulestore.Cached
	gateway   Gateway
	notifier  Notifier
	validator schedule.Validator
	logger    zerolog.Logger
	now       func() time.Time

	mu      sync.Mutex
	pending map[string]Order
}

func NewService(rules *rulestore.Cached, gateway Gateway, notifier Notifier, validator schedule.Validator, logger zerolog.Logger) *Service {
	return &Service{
		rules:     rules,
		gateway:   gateway,
		notifier:  notifier,
		validator: validator,
		logger:    logger,
		now:       time.Now,
		pending:   make(map[string]Order),
	}
}

// WithClock injects the wall clock (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateSession runs the authoritative order-window check and, only when
// it passes, opens a payment session with the gateway.
func (s *Service) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if req.TotalCents <= 0 {
		return nil, &schedule.ConfigError{Field: "total_cents", Message: "must be positive"}
	}

	snap, err := s.rules.Current(ctx)
	if errors.Is(err, schedule.ErrRulesNotFound) {
		// A store that was never written behaves like the defaults,
		// matching the public read endpoint.
		snap.Rules = schedule.DefaultRules()
	} else if err != nil {
		return nil, err
	}

	pickup, err := s.validator.Validate(snap.Rules, req.Pickup, s.now())
	if err != nil {
		return nil, err
	}

	order := Order{
		ID:         uuid.NewString(),
		Email:      req.Email,
		Items:      req.Items,
		TotalCents: req.TotalCents,
		PickupAt:   pickup,
		CreatedAt:  s.now(),
	}

	redirect, err := s.gateway.CreateSession(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("payment session: %w", err)
	}

	s.mu.Lock()
	s.pending[order.ID] = order
	s.mu.Unlock()

	s.logger.Info().Str("order_id", order.ID).Time("pickup_at", pickup).Msg("payment session created")
	return &Session{OrderID: order.ID, RedirectURL: redirect, PickupAt: pickup}, nil
}

// HandlePaymentResult records the gateway's verdict. Paid orders are
// forwarded to the kitchen; unpaid ones are dropped.
func (s *Service) HandlePaymentResult(ctx context.Context, orderID string, paid bool) error {
	s.mu.Lock()
	order, ok := s.pending[orderID]
	if ok {
		delete(s.pending, orderID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrOrderNotFound
	}
	if !paid {
		s.logger.Info().Str("order_id", orderID).Msg("payment abandoned")
		return nil
	}

	if err := s.notifier.OrderPaid(ctx, order); err != nil {
		// The customer already paid; notification failure is ours to chase.
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("kitchen notification failed")
	}
	return nil
}
