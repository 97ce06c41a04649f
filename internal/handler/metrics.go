package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_registrations_total",
		Help: "Total number of successful user registrations.",
	})

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_logins_total",
			Help: "Total number of login attempts by status.",
		},
		[]string{"status"}, // success, failure
	)

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_token_verifications_total",
			Help: "Total number of token verification attempts by status.",
		},
		[]string{"status"},
	)
)

// ObserveTokenVerification is passed to the auth middleware.
func ObserveTokenVerification(success bool) {
	if success {
		tokenVerificationsTotal.WithLabelValues("success").Inc()
		return
	}
	tokenVerificationsTotal.WithLabelValues("failure").Inc()
}
