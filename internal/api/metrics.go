package api

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "postul_client",
		Name:      "api_requests_total",
		Help:      "API requests by operation and outcome.",
	},
	[]string{"operation", "code"},
)

func recordRequest(operation string, statusCode int, err error) {
	code := "network_error"
	if err == nil {
		code = strconv.Itoa(statusCode)
	}
	requestsTotal.WithLabelValues(operation, code).Inc()
}
