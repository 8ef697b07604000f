package checkout

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// =============================================================================
// LOCAL-DEV ADAPTERS - Stand-ins for the external collaborators
// =============================================================================

// LogGateway fakes the payment provider for local development: every
// cart "pays" via a loopback redirect. The real adapter lives in the
// deployment repository next to the provider credentials.
type LogGateway struct {
	Logger zerolog.Logger
}

func (g LogGateway) CreateSession(_ context.Context, order Order) (string, error) {
	g.Logger.Info().
		Str("order_id", order.ID).
		Int64("total_cents", order.TotalCents).
		Msg("payment session (dev gateway)")
	return fmt.Sprintf("http://localhost:8080/dev/pay/%s", order.ID), nil
}

// LogNotifier writes the kitchen ticket to the log instead of sending
// mail.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) OrderPaid(_ context.Context, order Order) error {
	n.Logger.Info().
		Str("order_id", order.ID).
		Time("pickup_at", order.PickupAt).
		Int("items", len(order.Items)).
		Msg("order paid, kitchen notified (dev notifier)")
	return nil
}
