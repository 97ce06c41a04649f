package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contributionsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_contributions_submitted_total",
			Help: "Total number of stored contributions by status.",
		},
		[]string{"status"}, // pending, accepted
	)

	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_evaluations_total",
			Help: "Total number of contribution evaluations by outcome.",
		},
		[]string{"status"}, // success, failure
	)

	pointsAwardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_points_awarded_total",
		Help: "Sum of points awarded to contribution authors.",
	})

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_notifications_total",
			Help: "Total number of notifications by delivery stage and outcome.",
		},
		[]string{"stage", "status"}, // stage: store|publish, status: success|failure
	)

	storiesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_stories_created_total",
		Help: "Total number of created stories.",
	})
)
