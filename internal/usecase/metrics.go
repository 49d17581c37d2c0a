package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/RealAndrewRen/postul/internal/domain"
)

var sessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "postul_client",
		Name:      "capture_sessions_total",
		Help:      "Finished capture sessions by outcome.",
	},
	[]string{"outcome"},
)

func recordSessionOutcome(reason domain.CaptureStateReason) {
	sessionsTotal.WithLabelValues(string(reason)).Inc()
}
