package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "collabwrite", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "collabwrite", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	DocumentSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "collabwrite", Name: "document_saves_total", Help: "Number of document save attempts by outcome."},
		[]string{"outcome"},
	)
	AssistantRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "collabwrite", Name: "assistant_requests_total", Help: "Number of assistant chat requests by outcome (ok, fallback, unauthorized)."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(DocumentSaves)
	reg.MustRegister(AssistantRequests)
}
