package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	wheelSpinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_spins_total",
			Help: "Wheel spins by prize outcome.",
		},
		[]string{"prize"},
	)

	rewardCodesMinted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reward_codes_minted_total",
			Help: "Reward codes minted by source (wheel/sandbox/admin).",
		},
		[]string{"source"},
	)
)

func init() { register(wheelSpinsTotal, rewardCodesMinted) }

func IncWheelSpin(prize string) {
	wheelSpinsTotal.WithLabelValues(prize).Inc()
}

func IncRewardCodeMinted(source string) {
	rewardCodesMinted.WithLabelValues(source).Inc()
}
