package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	redemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "code_redemptions_total",
			Help: "Redemption attempts by outcome (ok/not_found/already_used/expired/no_account/error).",
		},
		[]string{"outcome"},
	)

	sandboxPurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandbox_purchases_total",
			Help: "Confirmed sandbox purchases by plan.",
		},
		[]string{"plan"},
	)

	codesExpiredSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reward_codes_expired_total",
			Help: "Reward codes flipped to expired by the sweep worker.",
		},
	)
)

func init() { register(redemptionsTotal, sandboxPurchasesTotal, codesExpiredSwept) }

func IncRedemption(outcome string) {
	redemptionsTotal.WithLabelValues(outcome).Inc()
}

func IncSandboxPurchase(plan string) {
	sandboxPurchasesTotal.WithLabelValues(plan).Inc()
}

func IncCodesExpired(n int) {
	codesExpiredSwept.Add(float64(n))
}
