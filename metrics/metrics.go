package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	eligibilityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "eligibility_checks_total",
			Help:      "Count of open/closed evaluations by outcome.",
		},
		[]string{"outcome"},
	)

	slotRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "slot_requests_total",
			Help:      "Count of pickup slot listings served.",
		},
	)

	pickupValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "pickup_validations_total",
			Help:      "Count of checkout-time pickup validations by result.",
		},
		[]string{"result"},
	)

	rulesUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "rules_updates_total",
			Help:      "Count of successful business-rules mutations.",
		},
	)

	storeFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "rules_store_fallbacks_total",
			Help:      "Count of reads served from the stale cache because the backend was unreachable.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(eligibilityChecks, slotRequests, pickupValidations, rulesUpdates, storeFallbacks)
	})
}

func IncEligibilityCheck(open bool) {
	outcome := "closed"
	if open {
		outcome = "open"
	}
	eligibilityChecks.WithLabelValues(outcome).Inc()
}

func IncSlotRequest() {
	slotRequests.Inc()
}

func IncPickupValidation(accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	pickupValidations.WithLabelValues(result).Inc()
}

func IncRulesUpdate() {
	rulesUpdates.Inc()
}

func IncStoreFallback() {
	storeFallbacks.Inc()
}
